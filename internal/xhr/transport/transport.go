package transport

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/hashicorp/go-retryablehttp"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/GriffinCanCode/xhr/internal/infrastructure/resilience"
	"github.com/GriffinCanCode/xhr/internal/shared/id"
	"github.com/GriffinCanCode/xhr/internal/xhr"
)

// Config controls the shared HTTP client behind every handle
type Config struct {
	// BaseURL resolves relative request URLs
	BaseURL string
	// Timeout bounds a whole exchange; zero disables it
	Timeout time.Duration
	// UserAgent is sent on every request unless overridden per handle
	UserAgent string
	// RateLimit caps dispatches per second across all handles; zero is unlimited
	RateLimit float64
	// Breaker enables the circuit breaker over transport failures
	Breaker bool
}

// DefaultConfig returns the client settings used when none are given
func DefaultConfig() Config {
	return Config{
		Timeout:   30 * time.Second,
		UserAgent: "xhr-go/1.0",
	}
}

// Transport creates handles that share one resty client
type Transport struct {
	resty   *resty.Client
	limiter *rate.Limiter
	breaker *resilience.Breaker
	logger  *zap.Logger
}

var _ xhr.Transport = (*Transport)(nil)

// New builds a transport. Retries stay disabled on both layers: a failed
// exchange surfaces once, as status 0.
func New(cfg Config) *Transport {
	retryClient := retryablehttp.NewClient()
	retryClient.RetryMax = 0
	retryClient.Logger = nil

	client := resty.New().
		SetRetryCount(0).
		SetTransport(retryClient.HTTPClient.Transport)
	if cfg.Timeout > 0 {
		client.SetTimeout(cfg.Timeout)
	}
	if cfg.UserAgent != "" {
		client.SetHeader("User-Agent", cfg.UserAgent)
	}
	if cfg.BaseURL != "" {
		client.SetBaseURL(cfg.BaseURL)
	}

	t := &Transport{
		resty:   client,
		limiter: newLimiter(cfg.RateLimit),
		logger:  zap.NewNop(),
	}
	client.SetLogger(t.logger.Sugar())

	if cfg.Breaker {
		t.breaker = resilience.New("xhr-transport", resilience.DefaultSettings())
	}
	return t
}

func newLimiter(rps float64) *rate.Limiter {
	if rps <= 0 {
		return rate.NewLimiter(rate.Inf, 0)
	}
	burst := int(rps)
	if burst < 1 {
		burst = 1
	}
	return rate.NewLimiter(rate.Limit(rps), burst)
}

// WithLogger sets the logger for transport and resty diagnostics
func (t *Transport) WithLogger(logger *zap.Logger) *Transport {
	t.logger = logger.Named("transport")
	t.resty.SetLogger(t.logger.Sugar())
	return t
}

// WithBreaker replaces the circuit breaker; nil disables it
func (t *Transport) WithBreaker(breaker *resilience.Breaker) *Transport {
	t.breaker = breaker
	return t
}

// Breaker returns the active circuit breaker, or nil
func (t *Transport) Breaker() *resilience.Breaker {
	return t.breaker
}

// NewHandle returns a fresh handle bound to ctx. Cancelling ctx aborts the
// exchange, which then completes with status 0.
func (t *Transport) NewHandle(ctx context.Context) (xhr.Handle, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	return newHandle(ctx, t, id.NewHandleID().String()), nil
}

// request is what a handle hands to the transport at Send
type request struct {
	method string
	url    string
	header http.Header
	body   []byte
}

// exchange performs one round trip under the limiter and breaker
func (t *Transport) exchange(ctx context.Context, req request) (*resty.Response, error) {
	if err := t.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit: %w", err)
	}

	r := t.resty.R().SetContext(ctx)
	for name, values := range req.header {
		for _, v := range values {
			r.Header.Add(name, v)
		}
	}
	if req.body != nil {
		r.SetBody(req.body)
	}

	if t.breaker == nil {
		return r.Execute(req.method, req.url)
	}

	var resp *resty.Response
	err := t.breaker.Execute(func() error {
		var err error
		resp, err = r.Execute(req.method, req.url)
		return err
	})
	return resp, err
}
