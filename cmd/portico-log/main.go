// Command portico-log views and analyzes RTI trace files.
//
// Trace files are written by portico-rti and portico-federate when started
// with --trace.
//
// Usage:
//
//	portico-log <command> [flags] <file.trace>
//
// Commands:
//
//	view     View trace file in human-readable format
//	export   Export trace file to JSONL or CSV
//	filter   Filter trace file and write to new file
//	stats    Show statistics about the trace file
//
// Examples:
//
//	# View only wire-layer events
//	portico-log view --layer wire rti.trace
//
//	# Keep one federate's traffic
//	portico-log filter --federation Exercise --federate 3 -o fed3.trace rti.trace
//
//	# Show statistics
//	portico-log stats rti.trace
package main

import (
	"errors"
	"os"

	"github.com/jessevdk/go-flags"

	"github.com/openlvc/portico-sub003/cmd/portico-log/commands"
)

type traceFile struct {
	Path string `positional-arg-name:"file" required:"yes"`
}

type viewCommand struct {
	Layer     string    `long:"layer" description:"Filter by layer (transport, wire, service)"`
	Direction string    `long:"direction" description:"Filter by direction (in, out)"`
	Category  string    `long:"category" description:"Filter by category (message, control, state, error)"`
	Args      traceFile `positional-args:"yes" required:"yes"`
}

func (c *viewCommand) Execute([]string) error {
	var filter commands.ViewFilter
	if c.Layer != "" {
		l, err := commands.ParseLayer(c.Layer)
		if err != nil {
			return err
		}
		filter.Layer = &l
	}
	if c.Direction != "" {
		d, err := commands.ParseDirection(c.Direction)
		if err != nil {
			return err
		}
		filter.Direction = &d
	}
	if c.Category != "" {
		cat, err := commands.ParseCategory(c.Category)
		if err != nil {
			return err
		}
		filter.Category = &cat
	}
	return commands.RunView(c.Args.Path, filter, os.Stdout)
}

type exportCommand struct {
	Format string    `long:"format" default:"jsonl" choice:"jsonl" choice:"csv" description:"Output format"`
	Output string    `short:"o" long:"output" description:"Output file (default: stdout)"`
	Args   traceFile `positional-args:"yes" required:"yes"`
}

func (c *exportCommand) Execute([]string) error {
	return commands.RunExport(c.Args.Path, c.Format, c.Output)
}

type filterCommand struct {
	Output     string    `short:"o" long:"output" required:"yes" description:"Output file"`
	ConnID     string    `long:"conn-id" description:"Filter by connection ID"`
	Federation string    `long:"federation" description:"Filter by federation execution name"`
	Federate   uint32    `long:"federate" description:"Filter by federate handle"`
	TimeStart  string    `long:"time-start" description:"Filter by start time (RFC3339)"`
	TimeEnd    string    `long:"time-end" description:"Filter by end time (RFC3339)"`
	Layer      string    `long:"layer" description:"Filter by layer (transport, wire, service)"`
	Direction  string    `long:"direction" description:"Filter by direction (in, out)"`
	Category   string    `long:"category" description:"Filter by category (message, control, state, error)"`
	Args       traceFile `positional-args:"yes" required:"yes"`
}

func (c *filterCommand) Execute([]string) error {
	return commands.RunFilter(c.Args.Path, commands.FilterOptions{
		Output:     c.Output,
		ConnID:     c.ConnID,
		Federation: c.Federation,
		Federate:   c.Federate,
		TimeStart:  c.TimeStart,
		TimeEnd:    c.TimeEnd,
		Layer:      c.Layer,
		Direction:  c.Direction,
		Category:   c.Category,
	}, os.Stdout)
}

type statsCommand struct {
	Args traceFile `positional-args:"yes" required:"yes"`
}

func (c *statsCommand) Execute([]string) error {
	return commands.RunStats(c.Args.Path, os.Stdout)
}

func main() {
	parser := flags.NewNamedParser("portico-log", flags.Default)
	parser.ShortDescription = "RTI trace file analyzer"

	must(parser.AddCommand("view", "View trace file in human-readable format", "", &viewCommand{}))
	must(parser.AddCommand("export", "Export trace file to JSONL or CSV", "", &exportCommand{}))
	must(parser.AddCommand("filter", "Filter trace file and write to new file", "", &filterCommand{}))
	must(parser.AddCommand("stats", "Show statistics about the trace file", "", &statsCommand{}))

	if _, err := parser.Parse(); err != nil {
		var ferr *flags.Error
		if errors.As(err, &ferr) && ferr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		// flags.Default has already printed the error.
		os.Exit(1)
	}
}

func must(_ *flags.Command, err error) {
	if err != nil {
		panic(err)
	}
}
