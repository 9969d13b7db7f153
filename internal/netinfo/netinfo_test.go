package netinfo

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	return NewService(zerolog.Nop())
}

func TestPublicIPFirstServiceWins(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `{"ip": "203.0.113.7"}`)
	}))
	defer srv.Close()

	s := newTestService(t)
	s.services = []string{srv.URL}

	assert.Equal(t, "203.0.113.7", s.PublicIP(context.Background()))
}

func TestPublicIPFallsBackAcrossServices(t *testing.T) {
	broken := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "down", http.StatusServiceUnavailable)
	}))
	defer broken.Close()

	working := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `{"origin": "198.51.100.4"}`)
	}))
	defer working.Close()

	s := newTestService(t)
	s.services = []string{broken.URL, working.URL}

	assert.Equal(t, "198.51.100.4", s.PublicIP(context.Background()))
}

func TestPublicIPAllServicesDown(t *testing.T) {
	broken := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "down", http.StatusInternalServerError)
	}))
	defer broken.Close()

	s := newTestService(t)
	s.services = []string{broken.URL}

	assert.Empty(t, s.PublicIP(context.Background()))
}

func TestDNSServersParsesResolvConf(t *testing.T) {
	path := filepath.Join(t.TempDir(), "resolv.conf")
	content := `# generated
search lan
nameserver 192.168.1.1
nameserver 192.168.1.1
nameserver 1.1.1.1
nameserver 8.8.8.8
nameserver 9.9.9.9
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	s := newTestService(t)
	s.resolvConf = path

	servers := s.DNSServers()
	assert.Equal(t, []string{"192.168.1.1", "1.1.1.1", "8.8.8.8"}, servers,
		"duplicates dropped, capped at three")
}

func TestDNSServersMissingFile(t *testing.T) {
	s := newTestService(t)
	s.resolvConf = filepath.Join(t.TempDir(), "missing")

	assert.Nil(t, s.DNSServers())
}

func TestGatewayFromProcParsesDefaultRoute(t *testing.T) {
	path := filepath.Join(t.TempDir(), "route")
	// Gateway 0102A8C0 is 192.168.2.1 little-endian.
	content := "Iface\tDestination\tGateway\tFlags\n" +
		"eth0\t0000A8C0\t00000000\t0001\n" +
		"eth0\t00000000\t0102A8C0\t0003\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	assert.Equal(t, "192.168.2.1", gatewayFromProc(path))
}

func TestGatewayFromProcNoDefaultRoute(t *testing.T) {
	path := filepath.Join(t.TempDir(), "route")
	content := "Iface\tDestination\tGateway\tFlags\neth0\t0000A8C0\t00000000\t0001\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	assert.Empty(t, gatewayFromProc(path))
}

func TestCollectFillsIndependently(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `{"ip": "203.0.113.7"}`)
	}))
	defer srv.Close()

	s := newTestService(t)
	s.services = []string{srv.URL}

	info := s.Collect(context.Background())
	// Local probes depend on the host; the HTTP-backed field must be set.
	assert.Equal(t, "203.0.113.7", info.PublicIP)
}
