package discovery

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"time"

	"github.com/enbility/zeroconf/v3"

	"github.com/openlvc/portico-sub003/pkg/version"
)

// BrowserConfig configures a Browser.
type BrowserConfig struct {
	// BrowseTimeout bounds Find when the context has no deadline.
	BrowseTimeout time.Duration

	// Interface specifies which network interface to use.
	// Empty string means all interfaces.
	Interface string

	// Logger receives operational messages (optional).
	Logger *slog.Logger
}

// DefaultBrowserConfig returns the default browser configuration.
func DefaultBrowserConfig() BrowserConfig {
	return BrowserConfig{BrowseTimeout: BrowseTimeout}
}

// Browser looks for RTI services.
type Browser struct {
	config BrowserConfig
}

// NewBrowser creates a new mDNS browser.
func NewBrowser(config BrowserConfig) *Browser {
	if config.BrowseTimeout == 0 {
		config.BrowseTimeout = BrowseTimeout
	}
	return &Browser{config: config}
}

// Browse streams RTI services until ctx ends. Addresses reported on several
// interfaces are merged into one entry per instance; an instance is emitted
// the first time it is seen.
func (b *Browser) Browse(ctx context.Context) (<-chan *RTIService, error) {
	out := make(chan *RTIService)
	entries := make(chan *zeroconf.ServiceEntry)
	removed := make(chan *zeroconf.ServiceEntry)

	var opts []zeroconf.ClientOption
	if ifaces := interfaces(b.config.Interface); ifaces != nil {
		opts = append(opts, zeroconf.SelectIfaces(ifaces))
	}

	go func() {
		defer close(out)
		agg := newAggregator()
		for {
			select {
			case entry, ok := <-entries:
				if !ok {
					return
				}
				svc := entryToService(entry)
				if svc == nil {
					if b.config.Logger != nil {
						b.config.Logger.Debug("ignoring malformed RTI record", "instance", entry.Instance)
					}
					continue
				}
				if agg.add(svc) {
					select {
					case out <- svc:
					case <-ctx.Done():
						return
					}
				}
			case entry, ok := <-removed:
				if !ok {
					continue
				}
				agg.remove(entry.Instance, entryAddresses(entry))
			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		_ = zeroconf.Browse(ctx, ServiceType, Domain, entries, removed, opts...)
	}()

	return out, nil
}

// Find returns the first RTI with a compatible protocol version. When
// federation is not empty the RTI must already host it.
func (b *Browser) Find(ctx context.Context, federation string) (*RTIService, error) {
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, b.config.BrowseTimeout)
		defer cancel()
	}

	services, err := b.Browse(ctx)
	if err != nil {
		return nil, err
	}
	for svc := range services {
		if Matches(svc, federation) {
			return svc, nil
		}
	}
	if errors.Is(ctx.Err(), context.Canceled) {
		return nil, ctx.Err()
	}
	return nil, ErrNotFound
}

// Matches reports whether svc speaks a compatible protocol and hosts
// federation (any federation when empty).
func Matches(svc *RTIService, federation string) bool {
	theirs, err := version.Parse(svc.Version)
	if err != nil {
		return false
	}
	ours, _ := version.Parse(version.Current)
	if !ours.Compatible(theirs) {
		return false
	}
	return federation == "" || svc.Hosts(federation)
}

func entryAddresses(entry *zeroconf.ServiceEntry) []string {
	addrs := make([]string, 0, len(entry.AddrIPv4)+len(entry.AddrIPv6))
	for _, ip := range entry.AddrIPv4 {
		addrs = append(addrs, ip.String())
	}
	for _, ip := range entry.AddrIPv6 {
		addrs = append(addrs, ip.String())
	}
	return addrs
}

func entryToService(entry *zeroconf.ServiceEntry) *RTIService {
	info, err := DecodeRTITXT(StringsToTXTRecords(entry.Text))
	if err != nil {
		return nil
	}
	return &RTIService{
		InstanceName: entry.Instance,
		Host:         entry.HostName,
		Port:         uint16(entry.Port),
		Addresses:    entryAddresses(entry),
		Version:      info.Version,
		Federations:  info.Federations,
	}
}

// aggregator tracks services by instance name across interfaces.
type aggregator struct {
	services map[string]*RTIService
}

func newAggregator() *aggregator {
	return &aggregator{services: make(map[string]*RTIService)}
}

// add merges svc into a known instance and reports whether it is new.
func (a *aggregator) add(svc *RTIService) bool {
	existing, found := a.services[svc.InstanceName]
	if !found {
		cp := *svc
		cp.Addresses = slices.Clone(svc.Addresses)
		a.services[svc.InstanceName] = &cp
		return true
	}
	existing.Addresses = mergeAddresses(existing.Addresses, svc.Addresses)
	existing.Federations = svc.Federations
	return false
}

// remove drops addresses and forgets the instance when none remain.
func (a *aggregator) remove(instance string, addrs []string) {
	existing, found := a.services[instance]
	if !found {
		return
	}
	existing.Addresses = removeAddresses(existing.Addresses, addrs)
	if len(existing.Addresses) == 0 {
		delete(a.services, instance)
	}
}

func mergeAddresses(existing, added []string) []string {
	seen := make(map[string]bool, len(existing))
	for _, addr := range existing {
		seen[addr] = true
	}
	for _, addr := range added {
		if !seen[addr] {
			existing = append(existing, addr)
			seen[addr] = true
		}
	}
	return existing
}

func removeAddresses(addresses, gone []string) []string {
	drop := make(map[string]bool, len(gone))
	for _, a := range gone {
		drop[a] = true
	}
	result := make([]string, 0, len(addresses))
	for _, addr := range addresses {
		if !drop[addr] {
			result = append(result, addr)
		}
	}
	return result
}
