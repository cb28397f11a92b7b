package discovery

import (
	"errors"
	"net"
	"strconv"
	"time"
)

const (
	// ServiceType is the DNS-SD service type of an RTI.
	ServiceType = "_hla-rti._tcp"

	// Domain is the mDNS domain.
	Domain = "local"

	// BrowseTimeout is the default timeout for Find.
	BrowseTimeout = 5 * time.Second

	// MaxInstanceNameLen is the DNS label limit.
	MaxInstanceNameLen = 63

	// MaxTXTValueLen bounds a single TXT string ("key=value").
	MaxTXTValueLen = 255
)

// TXT record keys.
const (
	TXTKeyVersion     = "v"
	TXTKeyFederations = "fed"
)

// Discovery errors.
var (
	ErrMissingRequired     = errors.New("missing required field")
	ErrInvalidTXTRecord    = errors.New("invalid TXT record format")
	ErrInstanceNameTooLong = errors.New("instance name exceeds 63 characters")
	ErrNotAdvertising      = errors.New("not advertising")
	ErrNotFound            = errors.New("no RTI found")
)

// RTIInfo is what an RTI advertises about itself.
type RTIInfo struct {
	// Instance is the DNS-SD instance name, e.g. the host name.
	Instance string

	// Port is the RTI listen port.
	Port uint16

	// Version is the protocol version.
	Version string

	// Federations are the federation executions currently hosted.
	Federations []string
}

// RTIService is an RTI found on the network.
type RTIService struct {
	InstanceName string
	Host         string
	Port         uint16
	Addresses    []string
	Version      string
	Federations  []string
}

// Address returns a dialable "host:port" for the service, preferring a
// resolved address over the host name.
func (s *RTIService) Address() string {
	host := s.Host
	if len(s.Addresses) > 0 {
		host = s.Addresses[0]
	}
	return net.JoinHostPort(host, strconv.Itoa(int(s.Port)))
}

// Hosts reports whether the RTI advertises the named federation.
func (s *RTIService) Hosts(federation string) bool {
	for _, f := range s.Federations {
		if f == federation {
			return true
		}
	}
	return false
}
