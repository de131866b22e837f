package monitoring

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GriffinCanCode/xhr/internal/xhr"
)

func TestRecordRequestOutcomes(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		format  xhr.Format
		err     error
		outcome string
	}{
		{"success", 200, xhr.FormatJSON, nil, OutcomeOK},
		{"redirect kept", 304, xhr.FormatText, nil, OutcomeOK},
		{"not found", 404, xhr.FormatText, nil, OutcomeHTTPError},
		{"server error", 500, xhr.FormatJSON, nil, OutcomeHTTPError},
		{"unreachable", 0, xhr.FormatText, xhr.ErrUnreachable, OutcomeUnreachable},
		{"error wins over status", 200, xhr.FormatText, errors.New("x"), OutcomeUnreachable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newMetrics(prometheus.NewRegistry())
			m.RecordRequest(xhr.MethodGet, tt.status, tt.format, tt.err, 5*time.Millisecond)

			counter := m.ClientRequests.WithLabelValues(xhr.MethodGet, string(tt.format), tt.outcome)
			assert.Equal(t, 1.0, testutil.ToFloat64(counter))
			assert.Equal(t, 1, testutil.CollectAndCount(m.ClientDuration))
		})
	}
}

func TestMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	m := newMetrics(prometheus.NewRegistry())
	router := gin.New()
	router.Use(Middleware(m))
	router.GET("/api/test", func(c *gin.Context) { c.String(http.StatusOK, "ok") })

	for _, path := range []string{"/api/test?a=1", "/api/test?a=2", "/nope"} {
		router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	assert.Equal(t, 2.0, testutil.ToFloat64(m.RequestsTotal.WithLabelValues("GET", "/api/test", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RequestsTotal.WithLabelValues("GET", unmatchedPath, "404")))
}

func TestHandlerExposesRegistry(t *testing.T) {
	m := NewMetrics()
	m.RecordHTTPRequest("POST", "/api/test", 200, time.Millisecond, 12)
	m.RecordRequest("POST", 200, xhr.FormatJSON, nil, time.Millisecond)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	text := string(body)

	for _, name := range []string{
		"xhr_echo_http_requests_total",
		"xhr_echo_http_request_duration_seconds",
		"xhr_client_requests_total",
		"xhr_client_request_duration_seconds",
		"go_goroutines",
	} {
		assert.True(t, strings.Contains(text, name), "missing %s", name)
	}
}

func TestIndependentRegistries(t *testing.T) {
	assert.NotPanics(t, func() {
		_ = NewMetrics()
		_ = NewMetrics()
	})
}
