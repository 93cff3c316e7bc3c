package stealer

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/gzhole/infostealer/internal/config"
	"github.com/gzhole/infostealer/internal/logger"
	"github.com/gzhole/infostealer/internal/netclient"
	"github.com/gzhole/infostealer/internal/probe"
	"github.com/gzhole/infostealer/internal/report"
)

const secretValue = "wJalrXUtnFEMI/K7MDENG/bPxRfiCYEXAMPLEKEY"

// testHost is the real OS host with the home directory and environment
// replaced.
type testHost struct {
	probe.OSHost
	home    string
	environ []string
	panicOn string
}

func (h testHost) HomeDir() string { return h.home }

func (h testHost) Environ() []string {
	if h.panicOn == "environ" {
		panic("environment unavailable")
	}
	return h.environ
}

// countingStore records every write and can be told to fail.
type countingStore struct {
	inner  *report.Store
	writes [][]byte
	failAt int
}

func (s *countingStore) Write(r *report.Report) error {
	if s.failAt > 0 && len(s.writes)+1 == s.failAt {
		s.writes = append(s.writes, nil)
		return report.ErrPersist
	}
	if err := s.inner.Write(r); err != nil {
		return err
	}
	data, err := os.ReadFile(s.inner.Path)
	if err != nil {
		return err
	}
	s.writes = append(s.writes, data)
	return nil
}

type stubServer struct {
	*httptest.Server
	mu     sync.Mutex
	posted [][]byte
}

func newStubServer(t *testing.T, status int) *stubServer {
	t.Helper()
	s := &stubServer{}
	s.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			_, _ = io.WriteString(w, "203.0.113.7\n")
		case http.MethodPost:
			body, _ := io.ReadAll(r.Body)
			s.mu.Lock()
			s.posted = append(s.posted, body)
			s.mu.Unlock()
			w.WriteHeader(status)
		}
	}))
	t.Cleanup(s.Close)
	return s
}

func newRunner(t *testing.T, ipURL, exfilURL string) (*Runner, *countingStore, *bytes.Buffer) {
	t.Helper()
	dir := t.TempDir()
	home := filepath.Join(dir, "home")
	require.NoError(t, os.MkdirAll(filepath.Join(home, ".aws"), 0o700))
	require.NoError(t, os.WriteFile(filepath.Join(home, ".aws", "credentials"), []byte(secretValue), 0o600))

	cfg := config.Default()
	cfg.IPHarvesterURL = ipURL
	cfg.ExfilURL = exfilURL
	cfg.OutputPath = filepath.Join(dir, "collected_info.json")
	cfg.Timeout = 2 * time.Second

	store := &countingStore{inner: &report.Store{Path: cfg.OutputPath}}
	var out bytes.Buffer
	r := &Runner{
		Config: cfg,
		Host: testHost{
			home:    home,
			environ: []string{"PATH=/usr/bin", "AWS_SECRET_ACCESS_KEY=" + secretValue},
		},
		Client: netclient.New(netclient.Config{Timeout: cfg.Timeout}),
		Store:  store,
		Log:    logger.NewNarrator(&out, &out, false),
		Now:    func() time.Time { return time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC) },
		RunID:  "run-1",
	}
	return r, store, &out
}

func TestRun_HappyPath(t *testing.T) {
	srv := newStubServer(t, http.StatusOK)
	r, store, out := newRunner(t, srv.URL, srv.URL+"/paste")

	rep, err := r.Run(context.Background())
	require.NoError(t, err)

	require.NotNil(t, rep.ExternalAddress)
	require.Equal(t, "203.0.113.7", *rep.ExternalAddress)
	require.Equal(t, "2024-03-01T00:00:00Z", rep.Timestamp)
	require.Equal(t, secretValue, rep.Environment["AWS_SECRET_ACCESS_KEY"])
	require.True(t, rep.CredentialPresence["aws"][filepath.Join(r.Host.HomeDir(), ".aws", "credentials")])

	require.NotNil(t, rep.ExfiltrationAttempt)
	require.True(t, rep.ExfiltrationAttempt.Success)
	require.Equal(t, http.StatusOK, rep.ExfiltrationAttempt.StatusCode)
	require.Empty(t, rep.ExfiltrationAttempt.Error)

	require.Len(t, store.writes, 2)
	require.NotContains(t, string(store.writes[0]), "exfiltrationAttempt")
	require.Contains(t, string(store.writes[1]), "exfiltrationAttempt")

	text := out.String()
	require.Contains(t, text, "Stratus Red Team - Simulated Infostealer")
	require.Contains(t, text, "[+] External IP: 203.0.113.7")
	require.Contains(t, text, "[+] Information saved successfully")
	require.Contains(t, text, "NOTE: Sending 1KB of random data, NOT the collected information")
	require.Contains(t, text, "[+] Infostealer simulation complete")
	require.NotContains(t, text, secretValue)
}

func TestRun_PayloadIsNotTheReport(t *testing.T) {
	srv := newStubServer(t, http.StatusOK)
	r, store, _ := newRunner(t, srv.URL, srv.URL)

	rep, err := r.Run(context.Background())
	require.NoError(t, err)

	require.Len(t, srv.posted, 1)
	body := srv.posted[0]
	require.Len(t, body, r.Config.PayloadSize)
	require.Len(t, store.writes, 2)
	require.NotEqual(t, store.writes[0], body)
	require.NotEqual(t, store.writes[1], body)

	final, err := report.Marshal(rep)
	require.NoError(t, err)
	require.NotEqual(t, final, body)
	require.False(t, bytes.Contains(final, body))
	require.False(t, bytes.Contains(body, []byte(secretValue)))
	require.False(t, bytes.Contains(body, []byte("run-1")))
}

func TestRun_NetworkFailuresStillComplete(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	r, store, out := newRunner(t, url, url)
	rep, err := r.Run(context.Background())
	require.NoError(t, err)

	require.Nil(t, rep.ExternalAddress)
	require.False(t, rep.ExfiltrationAttempt.Success)
	require.NotEmpty(t, rep.ExfiltrationAttempt.Error)
	require.Equal(t, netclient.Failed.String(), rep.ExfiltrationAttempt.State)
	require.Len(t, store.writes, 2)

	text := out.String()
	require.Contains(t, text, "[-] Failed to get external IP:")
	require.Contains(t, text, "[-] Exfiltration attempt failed:")
	require.Contains(t, text, "Infostealer simulation complete")
}

func TestRun_NonSuccessStatusIsRecorded(t *testing.T) {
	srv := newStubServer(t, http.StatusForbidden)
	r, _, _ := newRunner(t, srv.URL, srv.URL)

	rep, err := r.Run(context.Background())
	require.NoError(t, err)
	require.True(t, rep.ExfiltrationAttempt.Success)
	require.Equal(t, http.StatusForbidden, rep.ExfiltrationAttempt.StatusCode)
}

func TestRun_FirstWriteFailureIsFatal(t *testing.T) {
	srv := newStubServer(t, http.StatusOK)
	r, store, _ := newRunner(t, srv.URL, srv.URL)
	store.failAt = 1

	rep, err := r.Run(context.Background())
	require.Nil(t, rep)
	require.True(t, errors.Is(err, report.ErrPersist))
	require.Len(t, store.writes, 1)
	require.Empty(t, srv.posted, "no exfiltration after a failed write")
}

func TestRun_SecondWriteFailureIsFatal(t *testing.T) {
	srv := newStubServer(t, http.StatusOK)
	r, store, _ := newRunner(t, srv.URL, srv.URL)
	store.failAt = 2

	_, err := r.Run(context.Background())
	require.True(t, errors.Is(err, report.ErrPersist))
	require.Len(t, srv.posted, 1)
}

func TestRun_PanicBecomesFatal(t *testing.T) {
	srv := newStubServer(t, http.StatusOK)
	r, store, _ := newRunner(t, srv.URL, srv.URL)
	host := r.Host.(testHost)
	host.panicOn = "environ"
	r.Host = host

	rep, err := r.Run(context.Background())
	require.Nil(t, rep)
	require.True(t, errors.Is(err, ErrFatal))
	require.True(t, strings.Contains(err.Error(), "environment unavailable"))
	require.Empty(t, store.writes)
}
