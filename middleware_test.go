package ecolife

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newMiddlewareServer runs the app behind the full production middleware
// stack, unlike newTestServer which strips it down for handler tests.
func newMiddlewareServer(t *testing.T) *httptest.Server {
	t.Helper()

	store, err := NewStore(filepath.Join(t.TempDir(), "mw_test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	cfg := SiteConfig{SessionSecret: "test-session-secret"}
	cfg.setDefaults()

	a := &App{
		Config:       cfg,
		Echo:         echo.New(),
		Store:        store,
		Cache:        NewContentCache(store, time.Minute),
		mailer:       &stubMailer{},
		log:          slog.New(slog.NewTextHandler(io.Discard, nil)),
		loginLimiter: NewLoginLimiter(5, time.Minute),
		staticDir:    "public",
	}
	a.Echo.Validator = NewFormValidator()
	a.setupMiddleware()
	a.registerRoutes(a.Echo)

	srv := httptest.NewServer(a.Echo)
	t.Cleanup(srv.Close)
	return srv
}

func TestGzipCompressesPagesButNotStaticAssets(t *testing.T) {
	srv := newMiddlewareServer(t)

	// RoundTrip keeps the manual Accept-Encoding and does not strip the
	// Content-Encoding header the way the client's auto-decompression does.
	req, err := http.NewRequest(http.MethodGet, srv.URL+"/", nil)
	require.NoError(t, err)
	req.Header.Set("Accept-Encoding", "gzip")
	resp, err := http.DefaultTransport.RoundTrip(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "gzip", resp.Header.Get("Content-Encoding"))

	req, err = http.NewRequest(http.MethodGet, srv.URL+"/public/styles.css", nil)
	require.NoError(t, err)
	req.Header.Set("Accept-Encoding", "gzip")
	resp, err = http.DefaultTransport.RoundTrip(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Empty(t, resp.Header.Get("Content-Encoding"))
}

func TestSecurityHeadersOnPages(t *testing.T) {
	srv := newMiddlewareServer(t)

	resp, err := http.Get(srv.URL + "/")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, "nosniff", resp.Header.Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", resp.Header.Get("X-Frame-Options"))
	assert.NotEmpty(t, resp.Header.Get("Content-Security-Policy"))
	assert.Equal(t, "no-store", resp.Header.Get("Cache-Control"))
}
