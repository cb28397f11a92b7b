package transport

import (
	"crypto/tls"
	"crypto/x509"
	"errors"
	"fmt"
	"os"
)

const (
	// ALPNProtocol is the ALPN identifier negotiated on TLS connections.
	ALPNProtocol = "hla-rti/1"

	// DefaultPort is the default RTI listen port.
	DefaultPort = 8989
)

// ErrNoCertificate indicates a TLS configuration without a certificate.
var ErrNoCertificate = errors.New("certificate is required")

// TLSConfig holds the TLS material for an RTI server or client.
type TLSConfig struct {
	// Certificate is the TLS certificate for this endpoint. Optional on
	// clients unless the server requires client certificates.
	Certificate tls.Certificate

	// RootCAs verifies the server certificate on clients.
	RootCAs *x509.CertPool

	// ClientCAs verifies client certificates on the server.
	ClientCAs *x509.CertPool

	// ServerName is the expected server name for client connections.
	ServerName string

	// InsecureSkipVerify disables certificate verification.
	// Only for testing.
	InsecureSkipVerify bool
}

// LoadTLSConfig reads a PEM certificate/key pair and an optional CA bundle.
// The CA bundle populates both RootCAs and ClientCAs.
func LoadTLSConfig(certFile, keyFile, caFile string) (*TLSConfig, error) {
	cert, err := tls.LoadX509KeyPair(certFile, keyFile)
	if err != nil {
		return nil, fmt.Errorf("load key pair: %w", err)
	}
	cfg := &TLSConfig{Certificate: cert}
	if caFile != "" {
		pem, err := os.ReadFile(caFile)
		if err != nil {
			return nil, fmt.Errorf("read CA bundle: %w", err)
		}
		pool := x509.NewCertPool()
		if !pool.AppendCertsFromPEM(pem) {
			return nil, fmt.Errorf("no certificates in %s", caFile)
		}
		cfg.RootCAs = pool
		cfg.ClientCAs = pool
	}
	return cfg, nil
}

// NewServerTLSConfig creates a TLS configuration for the RTI listener.
// Client certificates are verified when ClientCAs is set.
func NewServerTLSConfig(cfg *TLSConfig) (*tls.Config, error) {
	if cfg == nil || len(cfg.Certificate.Certificate) == 0 {
		return nil, ErrNoCertificate
	}

	tlsConfig := &tls.Config{
		MinVersion:   tls.VersionTLS13,
		Certificates: []tls.Certificate{cfg.Certificate},
		ClientCAs:    cfg.ClientCAs,
		ClientAuth:   tls.NoClientCert,
		NextProtos:   []string{ALPNProtocol},
		CurvePreferences: []tls.CurveID{
			tls.X25519,
			tls.CurveP256,
		},
		SessionTicketsDisabled: true,
	}
	if cfg.ClientCAs != nil {
		tlsConfig.ClientAuth = tls.RequireAndVerifyClientCert
	}
	return tlsConfig, nil
}

// NewClientTLSConfig creates a TLS configuration for a federate binding.
func NewClientTLSConfig(cfg *TLSConfig) *tls.Config {
	tlsConfig := &tls.Config{
		MinVersion:         tls.VersionTLS13,
		RootCAs:            cfg.RootCAs,
		ServerName:         cfg.ServerName,
		NextProtos:         []string{ALPNProtocol},
		InsecureSkipVerify: cfg.InsecureSkipVerify,
		CurvePreferences: []tls.CurveID{
			tls.X25519,
			tls.CurveP256,
		},
		SessionTicketsDisabled: true,
	}
	if len(cfg.Certificate.Certificate) > 0 {
		tlsConfig.Certificates = []tls.Certificate{cfg.Certificate}
	}
	return tlsConfig
}

// VerifyConnection checks the negotiated TLS version and ALPN protocol.
func VerifyConnection(state tls.ConnectionState) error {
	if state.Version != tls.VersionTLS13 {
		return fmt.Errorf("TLS version %x is not TLS 1.3 (0x0304)", state.Version)
	}
	if state.NegotiatedProtocol != ALPNProtocol {
		return fmt.Errorf("ALPN protocol %q is not %q", state.NegotiatedProtocol, ALPNProtocol)
	}
	return nil
}
