package discovery

import (
	"fmt"
	"log/slog"
	"net"
	"sync"
	"time"

	"github.com/enbility/zeroconf/v3"
)

// AdvertiserConfig configures an Advertiser.
type AdvertiserConfig struct {
	// Interface specifies which network interface to use.
	// Empty string means all interfaces.
	Interface string

	// TTL is the DNS record TTL.
	TTL time.Duration

	// Logger receives operational messages (optional).
	Logger *slog.Logger
}

// DefaultAdvertiserConfig returns the default advertiser configuration.
func DefaultAdvertiserConfig() AdvertiserConfig {
	return AdvertiserConfig{TTL: 120 * time.Second}
}

// Advertiser publishes the RTI service record.
type Advertiser struct {
	config AdvertiserConfig

	mu     sync.Mutex
	server *zeroconf.Server
	info   RTIInfo
}

// NewAdvertiser creates a new mDNS advertiser.
func NewAdvertiser(config AdvertiserConfig) *Advertiser {
	return &Advertiser{config: config}
}

func interfaces(name string) []net.Interface {
	if name == "" {
		return nil
	}
	iface, err := net.InterfaceByName(name)
	if err != nil {
		return nil
	}
	return []net.Interface{*iface}
}

// Advertise starts advertising the RTI, replacing an earlier registration.
func (a *Advertiser) Advertise(info RTIInfo) error {
	if err := ValidateInstanceName(info.Instance); err != nil {
		return err
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	if a.server != nil {
		a.server.Shutdown()
		a.server = nil
	}

	var opts []zeroconf.ServerOption
	if a.config.TTL > 0 {
		opts = append(opts, zeroconf.TTL(uint32(a.config.TTL.Seconds())))
	}

	server, err := zeroconf.Register(
		info.Instance,
		ServiceType,
		Domain,
		int(info.Port),
		TXTRecordsToStrings(EncodeRTITXT(&info)),
		interfaces(a.config.Interface),
		opts...,
	)
	if err != nil {
		return fmt.Errorf("failed to register RTI service: %w", err)
	}

	a.server = server
	a.info = info
	if a.config.Logger != nil {
		a.config.Logger.Info("advertising RTI", "instance", info.Instance, "port", info.Port)
	}
	return nil
}

// UpdateFederations republishes the TXT record with a new federation list.
func (a *Advertiser) UpdateFederations(names []string) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.server == nil {
		return ErrNotAdvertising
	}
	a.info.Federations = names
	a.server.SetText(TXTRecordsToStrings(EncodeRTITXT(&a.info)))
	return nil
}

// Stop withdraws the service record.
func (a *Advertiser) Stop() {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.server != nil {
		a.server.Shutdown()
		a.server = nil
	}
}
