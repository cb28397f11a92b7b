package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/jessevdk/go-flags"
	"gopkg.in/yaml.v3"

	"github.com/openlvc/portico-sub003/pkg/admin"
	"github.com/openlvc/portico-sub003/pkg/rti"
	"github.com/openlvc/portico-sub003/pkg/transport"
)

// Options are the command-line options. Set options override the config file.
type Options struct {
	Config      string        `short:"c" long:"config" description:"YAML configuration file"`
	Listen      string        `short:"l" long:"listen" description:"RTI listen address (default :8989)"`
	TLSCert     string        `long:"tls-cert" description:"PEM certificate; enables TLS"`
	TLSKey      string        `long:"tls-key" description:"PEM private key"`
	TLSCA       string        `long:"tls-ca" description:"PEM CA bundle for client certificates"`
	Admin       string        `long:"admin" description:"Admin API listen address (default 127.0.0.1:8990)"`
	NoAdmin     bool          `long:"no-admin" description:"Disable the admin API"`
	Advertise   bool          `long:"advertise" description:"Advertise the RTI over mDNS"`
	Instance    string        `long:"instance" description:"mDNS instance name (default host name)"`
	Interface   string        `long:"interface" description:"Network interface for mDNS"`
	SaveDir     string        `long:"save-dir" description:"Directory for federation saves"`
	Trace       string        `long:"trace" description:"Write a protocol trace to this file"`
	LogLevel    string        `long:"log-level" description:"Log level: debug, info, warn, error"`
	LogFormat   string        `long:"log-format" choice:"text" choice:"json" description:"Log format"`
	MaxTickWait time.Duration `long:"max-tick-wait" description:"Longest wait a single tick may ask for"`
	Interactive bool          `short:"i" long:"interactive" description:"Run the interactive console"`
}

// Config is the resolved RTI configuration, also the layout of the YAML file.
type Config struct {
	Listen string `yaml:"listen"`
	TLS    struct {
		Cert string `yaml:"cert"`
		Key  string `yaml:"key"`
		CA   string `yaml:"ca"`
	} `yaml:"tls"`
	Admin     string `yaml:"admin"`
	Discovery struct {
		Enabled   bool   `yaml:"enabled"`
		Instance  string `yaml:"instance"`
		Interface string `yaml:"interface"`
	} `yaml:"discovery"`
	SaveDir string `yaml:"saveDir"`
	Trace   string `yaml:"trace"`
	Log     struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
	} `yaml:"log"`
	MaxTickWait time.Duration `yaml:"maxTickWait"`
	Interactive bool          `yaml:"interactive"`
}

// DefaultConfig returns the configuration used when neither a file nor a
// flag sets a value.
func DefaultConfig() Config {
	var c Config
	c.Listen = fmt.Sprintf(":%d", transport.DefaultPort)
	c.Admin = admin.DefaultAddress
	c.Log.Level = "info"
	c.Log.Format = "text"
	c.MaxTickWait = rti.DefaultMaxTickWait
	return c
}

// parseOptions parses the command line.
func parseOptions(args []string) (Options, error) {
	var opts Options
	parser := flags.NewParser(&opts, flags.Default)
	parser.Name = "portico-rti"
	_, err := parser.ParseArgs(args)
	return opts, err
}

// LoadConfig reads a YAML configuration file over the defaults.
func LoadConfig(path string) (Config, error) {
	c := DefaultConfig()
	if path == "" {
		return c, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return c, err
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(&c); err != nil && !errors.Is(err, io.EOF) {
		return c, fmt.Errorf("parse %s: %w", path, err)
	}
	return c, nil
}

// Apply overrides c with every option set on the command line.
func (o Options) Apply(c *Config) {
	set := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	set(&c.Listen, o.Listen)
	set(&c.TLS.Cert, o.TLSCert)
	set(&c.TLS.Key, o.TLSKey)
	set(&c.TLS.CA, o.TLSCA)
	set(&c.Admin, o.Admin)
	if o.NoAdmin {
		c.Admin = ""
	}
	if o.Advertise {
		c.Discovery.Enabled = true
	}
	set(&c.Discovery.Instance, o.Instance)
	set(&c.Discovery.Interface, o.Interface)
	set(&c.SaveDir, o.SaveDir)
	set(&c.Trace, o.Trace)
	set(&c.Log.Level, o.LogLevel)
	set(&c.Log.Format, o.LogFormat)
	if o.MaxTickWait > 0 {
		c.MaxTickWait = o.MaxTickWait
	}
	if o.Interactive {
		c.Interactive = true
	}
}

// Validate reports configuration values that cannot work together.
func (c Config) Validate() error {
	if c.Listen == "" {
		return errors.New("listen address is required")
	}
	if (c.TLS.Cert == "") != (c.TLS.Key == "") {
		return errors.New("tls cert and key must be given together")
	}
	if c.TLS.CA != "" && c.TLS.Cert == "" {
		return errors.New("tls ca requires a certificate")
	}
	if _, err := parseLevel(c.Log.Level); err != nil {
		return err
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("unknown log format %q (must be text or json)", c.Log.Format)
	}
	if c.MaxTickWait < 0 {
		return errors.New("maxTickWait must not be negative")
	}
	return nil
}

func parseLevel(s string) (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(s)); err != nil {
		return lvl, fmt.Errorf("unknown log level %q", s)
	}
	return lvl, nil
}

// newLogger builds the process logger. Output goes to w.
func newLogger(c Config, w io.Writer) *slog.Logger {
	lvl, _ := parseLevel(c.Log.Level)
	opts := &slog.HandlerOptions{Level: lvl}
	if c.Log.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}
