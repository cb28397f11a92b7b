package transport

import (
	"context"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/tls"
	"crypto/x509"
	"crypto/x509/pkix"
	"math/big"
	"net"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openlvc/portico-sub003/pkg/wire"
)

// generateTestCertificate creates a self-signed certificate for 127.0.0.1.
func generateTestCertificate(t *testing.T) (tls.Certificate, *x509.CertPool) {
	t.Helper()

	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)

	template := &x509.Certificate{
		SerialNumber:          big.NewInt(1),
		Subject:               pkix.Name{CommonName: "rti.test"},
		NotBefore:             time.Now().Add(-time.Minute),
		NotAfter:              time.Now().Add(time.Hour),
		KeyUsage:              x509.KeyUsageDigitalSignature | x509.KeyUsageCertSign,
		ExtKeyUsage:           []x509.ExtKeyUsage{x509.ExtKeyUsageServerAuth},
		IPAddresses:           []net.IP{net.ParseIP("127.0.0.1")},
		IsCA:                  true,
		BasicConstraintsValid: true,
	}
	der, err := x509.CreateCertificate(rand.Reader, template, template, &key.PublicKey, key)
	require.NoError(t, err)
	leaf, err := x509.ParseCertificate(der)
	require.NoError(t, err)

	pool := x509.NewCertPool()
	pool.AddCert(leaf)
	return tls.Certificate{Certificate: [][]byte{der}, PrivateKey: key, Leaf: leaf}, pool
}

// echoServer starts a server that answers every request frame with the
// same bytes.
func echoServer(t *testing.T, cfg ServerConfig) (*Server, chan string) {
	t.Helper()

	disconnected := make(chan string, 4)
	cfg.Address = "127.0.0.1:0"
	cfg.OnMessage = func(c *ServerConn, msg []byte) {
		_ = c.Send(msg)
	}
	cfg.OnDisconnect = func(c *ServerConn) {
		disconnected <- c.ConnID()
	}

	srv, err := NewServer(cfg)
	require.NoError(t, err)
	require.NoError(t, srv.Start(context.Background()))
	t.Cleanup(func() { srv.Stop() })
	return srv, disconnected
}

func request(t *testing.T, id uint32) []byte {
	t.Helper()
	data, err := wire.EncodeRequest(&wire.Request{MessageID: id, Operation: wire.OpQueryLBTS})
	require.NoError(t, err)
	return data
}

func TestServerClientPlainTCP(t *testing.T) {
	srv, _ := echoServer(t, ServerConfig{})

	conn, err := NewClient(ClientConfig{}).Connect(context.Background(), srv.Addr().String())
	require.NoError(t, err)
	defer conn.Close()

	_, isTLS := conn.TLSState()
	assert.False(t, isTLS)

	req := request(t, 7)
	require.NoError(t, conn.Send(req))

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	got, err := conn.Receive(ctx)
	require.NoError(t, err)

	decoded, err := wire.DecodeRequest(got)
	require.NoError(t, err)
	assert.Equal(t, uint32(7), decoded.MessageID)
	assert.Equal(t, 1, srv.ConnectionCount())
}

func TestServerClientTLS(t *testing.T) {
	cert, pool := generateTestCertificate(t)
	srv, _ := echoServer(t, ServerConfig{TLSConfig: &TLSConfig{Certificate: cert}})

	client := NewClient(ClientConfig{TLSConfig: &TLSConfig{RootCAs: pool, ServerName: "127.0.0.1"}})
	conn, err := client.Connect(context.Background(), srv.Addr().String())
	require.NoError(t, err)
	defer conn.Close()

	state, isTLS := conn.TLSState()
	require.True(t, isTLS)
	assert.Equal(t, uint16(tls.VersionTLS13), state.Version)
	assert.Equal(t, ALPNProtocol, state.NegotiatedProtocol)

	require.NoError(t, conn.Send(request(t, 1)))
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_, err = conn.Receive(ctx)
	require.NoError(t, err)
}

func TestServerNeedsCertificateForTLS(t *testing.T) {
	_, err := NewServer(ServerConfig{TLSConfig: &TLSConfig{}})
	assert.ErrorIs(t, err, ErrNoCertificate)
}

func TestClientCloseNotifiesServer(t *testing.T) {
	srv, disconnected := echoServer(t, ServerConfig{})

	conn, err := NewClient(ClientConfig{}).Connect(context.Background(), srv.Addr().String())
	require.NoError(t, err)
	require.NoError(t, conn.Close())

	select {
	case id := <-disconnected:
		assert.NotEmpty(t, id)
	case <-time.After(2 * time.Second):
		t.Fatal("server did not see the disconnect")
	}

	_, err = conn.Receive(context.Background())
	assert.ErrorIs(t, err, ErrConnectionClosed)
	assert.ErrorIs(t, conn.Send([]byte{1}), ErrConnectionClosed)
}

func TestServerAnswersPings(t *testing.T) {
	srv, _ := echoServer(t, ServerConfig{})

	cfg := ClientConfig{KeepAlive: KeepAliveConfig{
		PingInterval:   20 * time.Millisecond,
		PongTimeout:    10 * time.Millisecond,
		MaxMissedPongs: 2,
	}}
	conn, err := NewClient(cfg).Connect(context.Background(), srv.Addr().String())
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool {
		return conn.keepAlive.Latency() > 0
	}, 2*time.Second, 10*time.Millisecond)

	// Pings are never surfaced as messages.
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	_, err = conn.Receive(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, 0, conn.keepAlive.Missed())
}

func TestServerStopClosesConnections(t *testing.T) {
	srv, disconnected := echoServer(t, ServerConfig{})

	var wg sync.WaitGroup
	for range 2 {
		conn, err := NewClient(ClientConfig{}).Connect(context.Background(), srv.Addr().String())
		require.NoError(t, err)
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-conn.Done()
		}()
	}

	require.Eventually(t, func() bool { return srv.ConnectionCount() == 2 }, 2*time.Second, 10*time.Millisecond)
	require.NoError(t, srv.Stop())
	wg.Wait()
	assert.Len(t, disconnected, 2)
}
