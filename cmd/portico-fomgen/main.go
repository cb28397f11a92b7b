// Command portico-fomgen generates Go constants for the names a FOM declares,
// so federates refer to classes, attributes and parameters without string
// literals.
//
// Usage:
//
//	portico-fomgen --fom sample.yaml --package samplefom --output samplefom/names_gen.go
package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jessevdk/go-flags"
	"golang.org/x/tools/imports"

	"github.com/openlvc/portico-sub003/pkg/fom"
)

type options struct {
	FOM     string `long:"fom" required:"yes" description:"FOM YAML file"`
	Package string `long:"package" required:"yes" description:"Go package name of the generated file"`
	Output  string `short:"o" long:"output" required:"yes" description:"Generated Go file"`
	MOM     bool   `long:"mom" description:"Also generate the management object model names"`
}

func main() {
	var opts options
	if _, err := flags.NewParser(&opts, flags.Default).Parse(); err != nil {
		var ferr *flags.Error
		if errors.As(err, &ferr) && ferr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(2)
	}

	if err := run(opts); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("  generated %s\n", opts.Output)
}

func run(opts options) error {
	model, err := fom.Load(opts.FOM)
	if err != nil {
		return err
	}
	code, err := Generate(model, filepath.Base(opts.FOM), opts.Package, opts.MOM)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(opts.Output); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating output dir: %w", err)
		}
	}
	return writeFormatted(opts.Output, code)
}

// writeFormatted formats Go source code with goimports and writes it to a file.
func writeFormatted(path string, code string) error {
	formatted, err := imports.Process(path, []byte(code), nil)
	if err != nil {
		// Keep the unformatted output for debugging the generator.
		_ = os.WriteFile(path+".broken", []byte(code), 0o644)
		return fmt.Errorf("goimports %s: %w", filepath.Base(path), err)
	}
	return os.WriteFile(path, formatted, 0o644)
}
