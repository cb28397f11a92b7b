// Command portico-rti runs a standalone RTI that remote federates connect to.
//
// It serves the RTI protocol over TCP (optionally TLS), advertises itself
// over mDNS, exposes a read-only admin API and can run an interactive
// console.
//
// Usage:
//
//	portico-rti [flags]
//
// Examples:
//
//	# Default listener on :8989, admin API on 127.0.0.1:8990
//	portico-rti
//
//	# Advertise on the LAN, keep saves and trace every message
//	portico-rti --advertise --save-dir /var/lib/portico --trace rti.trace
//
//	# Settings from a file, console on the terminal
//	portico-rti -c rti.yaml -i
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"slices"
	"syscall"
	"time"

	"github.com/jessevdk/go-flags"
	"golang.org/x/sync/errgroup"

	"github.com/openlvc/portico-sub003/cmd/portico-rti/console"
	"github.com/openlvc/portico-sub003/pkg/admin"
	"github.com/openlvc/portico-sub003/pkg/discovery"
	"github.com/openlvc/portico-sub003/pkg/log"
	"github.com/openlvc/portico-sub003/pkg/persistence"
	"github.com/openlvc/portico-sub003/pkg/rti"
	"github.com/openlvc/portico-sub003/pkg/server"
	"github.com/openlvc/portico-sub003/pkg/transport"
	"github.com/openlvc/portico-sub003/pkg/version"
)

// buildVersion is set at link time.
var buildVersion = "dev"

// advertiseInterval is how often the advertised federation list is refreshed.
const advertiseInterval = 2 * time.Second

func main() {
	opts, err := parseOptions(os.Args[1:])
	if err != nil {
		var ferr *flags.Error
		if errors.As(err, &ferr) && ferr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(2)
	}

	cfg, err := LoadConfig(opts.Config)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}
	opts.Apply(&cfg)
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid configuration: %v\n", err)
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run starts every configured component and blocks until ctx ends or one
// of them fails.
func run(ctx context.Context, cfg Config, logOut io.Writer) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var con *console.Console
	if cfg.Interactive {
		c, err := console.New()
		if err != nil {
			return err
		}
		con = c
		logOut = con.Stdout()
	}

	logger := newLogger(cfg, logOut)
	logger.Info("Portico RTI", "version", buildVersion, "protocol", version.Current)

	trace, closeTrace, err := openTrace(cfg, logger)
	if err != nil {
		return err
	}
	defer closeTrace()

	kernelCfg := rti.DefaultConfig()
	kernelCfg.Logger = logger
	kernelCfg.Trace = trace
	kernelCfg.MaxTickWait = cfg.MaxTickWait
	if cfg.SaveDir != "" {
		if err := os.MkdirAll(cfg.SaveDir, 0755); err != nil {
			return fmt.Errorf("save directory: %w", err)
		}
		kernelCfg.Store = persistence.NewStore(cfg.SaveDir)
		logger.Info("federation saves enabled", "dir", cfg.SaveDir)
	}
	kernel := rti.NewKernelWithConfig(kernelCfg)

	srvCfg := server.Config{Address: cfg.Listen, Logger: logger, Trace: trace}
	if cfg.TLS.Cert != "" {
		tlsCfg, err := transport.LoadTLSConfig(cfg.TLS.Cert, cfg.TLS.Key, cfg.TLS.CA)
		if err != nil {
			return err
		}
		srvCfg.TLSConfig = tlsCfg
	}
	srv, err := server.New(kernel, srvCfg)
	if err != nil {
		return err
	}
	if err := srv.Start(ctx); err != nil {
		return err
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		<-ctx.Done()
		logger.Info("shutting down")
		return srv.Stop()
	})

	if cfg.Admin != "" {
		api := admin.New(kernel, admin.Config{Address: cfg.Admin, Version: buildVersion, Logger: logger})
		g.Go(func() error { return api.ListenAndServe(ctx) })
	}

	if cfg.Discovery.Enabled {
		g.Go(func() error { return advertise(ctx, cfg, kernel, srv.Addr(), logger) })
	}

	if con != nil {
		g.Go(func() error {
			con.Run(ctx, kernel, cancel)
			return nil
		})
	}

	return g.Wait()
}

// openTrace opens the trace file when one is configured. Trace events are
// also mirrored to the logger at debug level.
func openTrace(cfg Config, logger *slog.Logger) (log.Logger, func(), error) {
	var sinks []log.Logger
	closeFn := func() {}
	if cfg.Trace != "" {
		fl, err := log.NewFileLogger(cfg.Trace)
		if err != nil {
			return nil, nil, fmt.Errorf("trace file: %w", err)
		}
		sinks = append(sinks, fl)
		closeFn = func() { _ = fl.Close() }
		logger.Info("tracing protocol", "file", cfg.Trace)
	}
	if logger.Enabled(context.Background(), slog.LevelDebug) {
		sinks = append(sinks, log.NewSlogAdapter(logger))
	}
	switch len(sinks) {
	case 0:
		return log.NoopLogger{}, closeFn, nil
	case 1:
		return sinks[0], closeFn, nil
	default:
		return log.NewMultiLogger(sinks...), closeFn, nil
	}
}

// advertise publishes the RTI over mDNS and keeps the advertised federation
// list current until ctx ends.
func advertise(ctx context.Context, cfg Config, kernel *rti.Kernel, addr net.Addr, logger *slog.Logger) error {
	instance := cfg.Discovery.Instance
	if instance == "" {
		host, err := os.Hostname()
		if err != nil {
			return fmt.Errorf("instance name: %w", err)
		}
		instance = "portico-" + host
	}
	tcp, ok := addr.(*net.TCPAddr)
	if !ok {
		return fmt.Errorf("cannot advertise non-TCP address %s", addr)
	}

	adv := discovery.NewAdvertiser(discovery.AdvertiserConfig{
		Interface: cfg.Discovery.Interface,
		TTL:       discovery.DefaultAdvertiserConfig().TTL,
		Logger:    logger,
	})
	names := kernel.FederationNames()
	if err := adv.Advertise(discovery.RTIInfo{
		Instance:    instance,
		Port:        uint16(tcp.Port),
		Version:     version.Current,
		Federations: names,
	}); err != nil {
		return fmt.Errorf("advertise: %w", err)
	}
	defer adv.Stop()
	logger.Info("advertising RTI", "instance", instance, "port", tcp.Port)

	ticker := time.NewTicker(advertiseInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			current := kernel.FederationNames()
			if slices.Equal(current, names) {
				continue
			}
			names = current
			if err := adv.UpdateFederations(names); err != nil {
				logger.Warn("failed to update advertised federations", "error", err)
			}
		}
	}
}
