package echo

import (
	"context"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GriffinCanCode/xhr/internal/infrastructure/config"
	"github.com/GriffinCanCode/xhr/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/xhr/internal/xhr"
	"github.com/GriffinCanCode/xhr/internal/xhr/transport"
)

func testConfig() Config {
	cfg := ConfigFrom(config.Default())
	cfg.Development = true
	cfg.RateLimitEnabled = false
	return cfg
}

// start runs the echo server behind httptest and returns a client pointed at it
func start(t *testing.T, cfg Config) (*httptest.Server, *xhr.Client) {
	t.Helper()

	srv := httptest.NewServer(New(cfg, nil, monitoring.NewMetrics()).Handler())
	t.Cleanup(srv.Close)

	tcfg := transport.DefaultConfig()
	tcfg.BaseURL = srv.URL
	return srv, xhr.New(transport.New(tcfg))
}

func do(t *testing.T, client *xhr.Client, method, url string, opts *xhr.Options) *xhr.Response {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	call, err := client.Go(ctx, method, url, opts)
	require.NoError(t, err)
	resp, err := call.Wait(ctx)
	require.NoError(t, err)
	return resp
}

func TestEchoRoundTrips(t *testing.T) {
	_, client := start(t, testConfig())

	tests := []struct {
		name   string
		method string
		url    string
		opts   *xhr.Options
		want   any
	}{
		{
			name:   "get echoes query",
			method: xhr.MethodGet,
			url:    "/api/test",
			opts:   &xhr.Options{Data: map[string]any{"x": "1"}},
			want:   map[string]any{"x": "1"},
		},
		{
			name:   "get stringifies values",
			method: xhr.MethodGet,
			url:    "/api/test",
			opts:   &xhr.Options{Data: map[string]any{"n": 2, "b": true, "s": "a b&c"}},
			want:   map[string]any{"n": "2", "b": "true", "s": "a b&c"},
		},
		{
			name:   "get repeated keys",
			method: xhr.MethodGet,
			url:    "/api/test?k=1&k=2",
			want:   map[string]any{"k": []any{"1", "2"}},
		},
		{
			name:   "get without data",
			method: xhr.MethodGet,
			url:    "/api/test",
			want:   map[string]any{},
		},
		{
			name:   "post json",
			method: xhr.MethodPost,
			url:    "/api/test",
			opts:   &xhr.Options{Data: map[string]any{"y": 2}, JSON: true},
			want:   map[string]any{"y": float64(2)},
		},
		{
			name:   "post nested json",
			method: xhr.MethodPost,
			url:    "/api/test",
			opts:   &xhr.Options{Data: map[string]any{"a": []any{1, "x"}, "o": map[string]any{"k": nil}}, JSON: true},
			want:   map[string]any{"a": []any{float64(1), "x"}, "o": map[string]any{"k": nil}},
		},
		{
			name:   "post form",
			method: xhr.MethodPost,
			url:    "/api/test",
			opts:   &xhr.Options{Data: map[string]any{"a": "b", "n": 1}},
			want:   map[string]any{"a": "b", "n": "1"},
		},
		{
			name:   "post empty form",
			method: xhr.MethodPost,
			url:    "/api/test",
			want:   map[string]any{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := do(t, client, tt.method, tt.url, tt.opts)

			assert.Equal(t, http.StatusOK, resp.Status())
			assert.Equal(t, "OK", resp.StatusText())
			assert.Equal(t, xhr.FormatJSON, resp.Format())
			if diff := cmp.Diff(tt.want, resp.Data()); diff != "" {
				t.Errorf("echo mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestEchoRawBodies(t *testing.T) {
	srv, _ := start(t, testConfig())

	tests := []struct {
		name        string
		contentType string
		body        string
		status      int
		want        string
	}{
		{"other content type", "text/plain", "hello", http.StatusOK, `{}`},
		{"json with charset", "application/json; charset=utf-8", `{"a":1}`, http.StatusOK, `{"a":1}`},
		{"json array", "application/json", `[1,2]`, http.StatusOK, `[1,2]`},
		{"empty json", "application/json", ``, http.StatusOK, `{}`},
		{"malformed json", "application/json", `{"a":`, http.StatusBadRequest, `{"error":"invalid JSON body"}`},
		{"json scalar", "application/json", `42`, http.StatusBadRequest, `{"error":"invalid JSON body"}`},
		{"repeated form keys", "application/x-www-form-urlencoded", `k=1&k=2`, http.StatusOK, `{"k":["1","2"]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := http.Post(srv.URL+"/api/test", tt.contentType, strings.NewReader(tt.body))
			require.NoError(t, err)
			defer resp.Body.Close()

			body, err := io.ReadAll(resp.Body)
			require.NoError(t, err)
			assert.Equal(t, tt.status, resp.StatusCode)
			assert.JSONEq(t, tt.want, string(body))
		})
	}
}

func TestEchoNotFound(t *testing.T) {
	_, client := start(t, testConfig())

	resp := do(t, client, xhr.MethodPut, "/api/test", nil)
	assert.Equal(t, http.StatusNotFound, resp.Status())
	assert.Equal(t, "Not Found", resp.StatusText())
	assert.True(t, resp.IsClientError())
}

func TestEchoCompression(t *testing.T) {
	srv, client := start(t, testConfig())
	long := strings.Repeat("z", 4096)

	req, err := http.NewRequest(http.MethodGet, srv.URL+"/api/test?v="+long, nil)
	require.NoError(t, err)
	req.Header.Set("Accept-Encoding", "gzip")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, "gzip", resp.Header.Get("Content-Encoding"))

	echoed := do(t, client, xhr.MethodGet, "/api/test", &xhr.Options{Data: map[string]any{"v": long}})
	assert.Equal(t, map[string]any{"v": long}, echoed.Data())
}

func TestHealthAndMetrics(t *testing.T) {
	srv, client := start(t, testConfig())

	health := do(t, client, xhr.MethodGet, "/health", nil)
	assert.Equal(t, map[string]any{"status": "ok"}, health.Data())

	resp, err := http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	assert.Contains(t, string(body), `xhr_echo_http_requests_total{method="GET",path="/health",status="200"} 1`)
}

func TestRequestID(t *testing.T) {
	srv, _ := start(t, testConfig())

	resp, err := http.Get(srv.URL + "/health")
	require.NoError(t, err)
	resp.Body.Close()
	_, err = uuid.Parse(resp.Header.Get(RequestIDHeader))
	assert.NoError(t, err)

	incoming := uuid.NewString()
	req, err := http.NewRequest(http.MethodGet, srv.URL+"/health", nil)
	require.NoError(t, err)
	req.Header.Set(RequestIDHeader, incoming)
	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, incoming, resp.Header.Get(RequestIDHeader))

	req.Header.Set(RequestIDHeader, "not-a-uuid")
	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.NotEqual(t, "not-a-uuid", resp.Header.Get(RequestIDHeader))
}

func TestCORSPreflight(t *testing.T) {
	cfg := testConfig()
	cfg.CORS.AllowOrigins = []string{"http://app.test"}
	srv, _ := start(t, cfg)

	req, err := http.NewRequest(http.MethodOptions, srv.URL+"/api/test", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "http://app.test")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, "http://app.test", resp.Header.Get("Access-Control-Allow-Origin"))
	assert.Contains(t, resp.Header.Get("Access-Control-Allow-Methods"), http.MethodPost)
}

func TestRateLimit(t *testing.T) {
	cfg := testConfig()
	cfg.RateLimitEnabled = true
	cfg.RateLimit = RateLimitConfig{RequestsPerSecond: 1, Burst: 1, IdleTTL: time.Minute}
	_, client := start(t, cfg)

	first := do(t, client, xhr.MethodGet, "/api/test", nil)
	assert.Equal(t, http.StatusOK, first.Status())

	second := do(t, client, xhr.MethodGet, "/api/test", nil)
	assert.Equal(t, http.StatusTooManyRequests, second.Status())
	assert.Equal(t, map[string]any{"error": "rate limit exceeded"}, second.Data())
}

func TestStaticFiles(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "page.html"), []byte("<p>hi</p>"), 0o600))

	cfg := testConfig()
	cfg.StaticDir = dir
	srv, client := start(t, cfg)

	page := do(t, client, xhr.MethodGet, "/page.html", nil)
	assert.Equal(t, http.StatusOK, page.Status())
	assert.Equal(t, xhr.FormatText, page.Format())
	assert.Equal(t, "<p>hi</p>", page.Data())

	resp, err := http.Post(srv.URL+"/page.html", "text/plain", nil)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	api := do(t, client, xhr.MethodGet, "/api/test", &xhr.Options{Data: map[string]any{"x": "1"}})
	assert.Equal(t, map[string]any{"x": "1"}, api.Data())
}

func TestServeShutsDownOnCancel(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	srv := New(testConfig(), nil, nil)
	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- srv.Serve(ctx, ln) }()

	require.Eventually(t, func() bool {
		resp, err := http.Get("http://" + ln.Addr().String() + "/health")
		if err != nil {
			return false
		}
		resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 5*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-errCh:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}

func TestConfigFrom(t *testing.T) {
	app := config.Default()
	app.Server.Port = "9100"
	app.CORS.Origins = []string{"http://a.test"}
	app.RateLimit.Enabled = false

	cfg := ConfigFrom(app)
	assert.Equal(t, "0.0.0.0:9100", cfg.Addr)
	assert.Equal(t, []string{"http://a.test"}, cfg.CORS.AllowOrigins)
	assert.False(t, cfg.RateLimitEnabled)
	assert.Equal(t, 100, cfg.RateLimit.RequestsPerSecond)
}
