// Command portico-federate is an example federate.
//
// It creates or joins a federation execution, publishes and subscribes an
// object class and an interaction class, registers one object and runs a
// number of time-stepped update cycles before resigning.
//
// The RTI is either embedded in the process (the default), reached at a
// given address, or found on the LAN over mDNS.
//
// Usage:
//
//	portico-federate [flags]
//
// Examples:
//
//	# Standalone run against an embedded RTI
//	portico-federate --cycles 10
//
//	# Two federates meeting on a remote RTI
//	portico-federate --rti 10.0.0.5:8989 --name alpha --peers 1
//	portico-federate --rti 10.0.0.5:8989 --name bravo --peers 1
//
//	# Find the RTI over mDNS
//	portico-federate --discover --federation Exercise
package main

import (
	"context"
	"crypto/x509"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jessevdk/go-flags"

	"github.com/openlvc/portico-sub003/pkg/ambassador"
	"github.com/openlvc/portico-sub003/pkg/discovery"
	"github.com/openlvc/portico-sub003/pkg/log"
	"github.com/openlvc/portico-sub003/pkg/rti"
	"github.com/openlvc/portico-sub003/pkg/transport"
)

// Options are the command-line options.
type Options struct {
	RTI         string        `long:"rti" description:"RTI address (host:port); embedded RTI when empty"`
	Discover    bool          `long:"discover" description:"Find the RTI over mDNS"`
	Interface   string        `long:"interface" description:"Network interface for mDNS"`
	TLSCA       string        `long:"tls-ca" description:"PEM CA bundle; enables TLS"`
	Federation  string        `short:"f" long:"federation" default:"ExampleFederation" description:"Federation execution name"`
	FOM         string        `long:"fom" description:"FOM YAML file (default: built-in sample FOM)"`
	Name        string        `short:"n" long:"name" default:"example" description:"Federate name, also the object name"`
	Type        string        `long:"type" default:"portico-federate" description:"Federate type"`
	Class       string        `long:"class" default:"Sample" description:"Object class to publish and subscribe"`
	Interaction string        `long:"interaction" default:"Ping" description:"Interaction class to send and receive"`
	Cycles      int           `long:"cycles" default:"5" description:"Number of time steps"`
	Step        float64       `long:"step" default:"1" description:"Logical time per step"`
	Lookahead   float64       `long:"lookahead" default:"1" description:"Lookahead"`
	Peers       int           `long:"peers" description:"Other federates to wait for before the first step"`
	Destroy     bool          `long:"destroy" description:"Destroy the federation after resigning if it is empty"`
	Timeout     time.Duration `long:"timeout" default:"30s" description:"Longest wait for any one RTI callback"`
	Trace       string        `long:"trace" description:"Write a protocol trace of the RTI connection to this file"`
	LogLevel    string        `long:"log-level" default:"info" description:"Log level: debug, info, warn, error"`
}

func (o Options) settings() Settings {
	return Settings{
		Federation:  o.Federation,
		FOM:         o.FOM,
		Name:        o.Name,
		Type:        o.Type,
		Class:       o.Class,
		Interaction: o.Interaction,
		Cycles:      o.Cycles,
		Step:        o.Step,
		Lookahead:   o.Lookahead,
		Peers:       o.Peers,
		Destroy:     o.Destroy,
		Timeout:     o.Timeout,
	}
}

func main() {
	var opts Options
	if _, err := flags.NewParser(&opts, flags.Default).Parse(); err != nil {
		var ferr *flags.Error
		if errors.As(err, &ferr) && ferr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(2)
	}

	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(opts.LogLevel)); err != nil {
		fmt.Fprintf(os.Stderr, "Error: unknown log level %q\n", opts.LogLevel)
		os.Exit(2)
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	report, err := run(ctx, opts, logger)
	if err != nil {
		logger.Error("federate failed", "error", err)
		os.Exit(1)
	}
	fmt.Printf("federate %d finished at time %s: %d objects discovered, %d reflections, %d interactions\n",
		report.Federate, report.FinalTime, report.Discovered, report.Reflections, report.Interactions)
}

func run(ctx context.Context, opts Options, logger *slog.Logger) (Report, error) {
	settings := opts.settings()
	fomName, err := loadFOMName(settings)
	if err != nil {
		return Report{}, fmt.Errorf("fom: %w", err)
	}
	logger.Info("starting federate", "name", settings.Name, "federation", settings.Federation, "fom", fomName)

	conn, closeConn, err := connect(ctx, opts, logger)
	if err != nil {
		return Report{}, err
	}
	defer closeConn()

	return NewFederate(conn, settings, logger).Run(ctx)
}

// connect returns the connection to the RTI chosen by the options.
func connect(ctx context.Context, opts Options, logger *slog.Logger) (ambassador.Connection, func(), error) {
	var trace log.Logger
	closeTrace := func() {}
	if opts.Trace != "" {
		fl, err := log.NewFileLogger(opts.Trace)
		if err != nil {
			return nil, nil, fmt.Errorf("trace file: %w", err)
		}
		trace = fl
		closeTrace = func() { _ = fl.Close() }
	}

	address := opts.RTI
	if opts.Discover {
		browser := discovery.NewBrowser(discovery.BrowserConfig{
			BrowseTimeout: 5 * time.Second,
			Interface:     opts.Interface,
			Logger:        logger,
		})
		svc, err := browser.Find(ctx, "")
		if err != nil {
			closeTrace()
			return nil, nil, fmt.Errorf("discover RTI: %w", err)
		}
		address = svc.Address()
		logger.Info("found RTI", "instance", svc.InstanceName, "address", address, "federations", svc.Federations)
	}

	if address == "" {
		kcfg := rti.DefaultConfig()
		kcfg.Logger = logger
		kcfg.Trace = trace
		conn := ambassador.NewLocalConnection(rti.NewKernelWithConfig(kcfg))
		return conn, closeTrace, nil
	}

	dcfg := ambassador.DialConfig{
		Client:   transport.ClientConfig{Logger: trace, KeepAlive: transport.DefaultKeepAliveConfig()},
		Attempts: 5,
		Logger:   logger,
	}
	if opts.TLSCA != "" {
		tlsCfg, err := loadCA(opts.TLSCA)
		if err != nil {
			closeTrace()
			return nil, nil, err
		}
		dcfg.Client.TLSConfig = tlsCfg
	}
	conn, err := ambassador.Dial(ctx, address, dcfg)
	if err != nil {
		closeTrace()
		return nil, nil, err
	}
	return conn, func() {
		_ = conn.Close()
		closeTrace()
	}, nil
}

func loadCA(path string) (*transport.TLSConfig, error) {
	pem, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read CA bundle: %w", err)
	}
	pool := x509.NewCertPool()
	if !pool.AppendCertsFromPEM(pem) {
		return nil, fmt.Errorf("no certificates in %s", path)
	}
	return &transport.TLSConfig{RootCAs: pool}, nil
}
