package xhr

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/bytedance/sonic"
	"go.uber.org/zap"
)

const (
	MethodGet     = "GET"
	MethodPost    = "POST"
	MethodPut     = "PUT"
	MethodPatch   = "PATCH"
	MethodDelete  = "DELETE"
	MethodHead    = "HEAD"
	MethodOptions = "OPTIONS"
)

const (
	contentTypeJSON = "application/json"
	contentTypeForm = "application/x-www-form-urlencoded"
)

var methods = map[string]struct{}{
	MethodGet:     {},
	MethodPost:    {},
	MethodPut:     {},
	MethodPatch:   {},
	MethodDelete:  {},
	MethodHead:    {},
	MethodOptions: {},
}

// Options configures a single request. A nil *Options is the same as &Options{}.
type Options struct {
	// Data becomes the query string for GET and the body for POST
	Data map[string]any
	// JSON selects an application/json POST body instead of a form body
	JSON bool
}

// Callback receives the outcome of a request exactly once.
// resp is always non-nil, even when err is set.
type Callback func(err error, resp *Response)

// Recorder receives one observation per completed request
type Recorder interface {
	RecordRequest(method string, status int, format Format, err error, duration time.Duration)
}

// Client dispatches requests over a Transport
type Client struct {
	transport Transport
	logger    *zap.Logger
	metrics   Recorder
}

// New creates a client bound to the given transport
func New(transport Transport) *Client {
	return &Client{
		transport: transport,
		logger:    zap.NewNop(),
	}
}

// WithLogger sets the logger used for dispatch and completion events
func (c *Client) WithLogger(logger *zap.Logger) *Client {
	if logger != nil {
		c.logger = logger
	}
	return c
}

// WithMetrics sets the recorder notified of every completion
func (c *Client) WithMetrics(metrics Recorder) *Client {
	c.metrics = metrics
	return c
}

// Get sends a GET request
func (c *Client) Get(ctx context.Context, url string, opts *Options, cb Callback) (Handle, error) {
	return c.Request(ctx, MethodGet, url, opts, cb)
}

// Post sends a POST request
func (c *Client) Post(ctx context.Context, url string, opts *Options, cb Callback) (Handle, error) {
	return c.Request(ctx, MethodPost, url, opts, cb)
}

// Request builds and dispatches one request and returns the live handle
// without waiting for it. cb fires once the handle reaches Done.
func (c *Client) Request(ctx context.Context, method, url string, opts *Options, cb Callback) (Handle, error) {
	method = strings.ToUpper(method)
	if opts == nil {
		opts = &Options{}
	}
	if cb == nil {
		return nil, &ConfigError{Op: "request", Err: ErrMissingCallback}
	}
	if _, ok := methods[method]; !ok {
		return nil, &ConfigError{Op: "request", Err: ErrUnsupportedMethod}
	}
	if ctx == nil {
		ctx = context.Background()
	}

	data := opts.Data
	if data == nil {
		data = map[string]any{}
	}

	h, err := c.newHandle(ctx)
	if err != nil {
		return nil, err
	}

	var body []byte
	if method == MethodGet {
		url = appendQuery(url, ToQueryString(data))
	}

	if err := h.Open(method, url); err != nil {
		return nil, &ConfigError{Op: "open", Err: err}
	}

	if method == MethodPost {
		contentType := contentTypeForm
		if opts.JSON {
			contentType = contentTypeJSON
			encoded, err := sonic.ConfigStd.Marshal(data)
			if err != nil {
				return nil, &ConfigError{Op: "encode", Err: err}
			}
			body = encoded
		} else {
			body = []byte(ToQueryString(data))
		}
		if err := h.SetRequestHeader("Content-Type", contentType); err != nil {
			return nil, &ConfigError{Op: "header", Err: err}
		}
	}

	start := time.Now()
	var once sync.Once
	h.OnReadyStateChange(func(h Handle) {
		if h.ReadyState() != Done {
			return
		}
		once.Do(func() { c.complete(method, h, start, cb) })
	})

	c.logger.Debug("Dispatching request",
		zap.String("id", handleID(h)),
		zap.String("method", method),
		zap.String("url", url),
		zap.Int("body_bytes", len(body)),
	)

	if err := h.Send(body); err != nil {
		return nil, &ConfigError{Op: "send", Err: err}
	}
	return h, nil
}

func (c *Client) newHandle(ctx context.Context) (Handle, error) {
	if c.transport == nil {
		return nil, &ConfigError{Op: "transport", Err: ErrNoTransport}
	}
	h, err := c.transport.NewHandle(ctx)
	if err != nil || h == nil {
		c.logger.Error("Transport unavailable", zap.Error(err))
		return nil, &ConfigError{Op: "transport", Err: ErrNoTransport}
	}
	return h, nil
}

// complete classifies the terminal state of h and hands the response to cb
func (c *Client) complete(method string, h Handle, start time.Time, cb Callback) {
	var err error
	status := h.Status()
	if status == 0 {
		err = ErrUnreachable
		fields := []zap.Field{zap.String("id", handleID(h)), zap.String("method", method)}
		if ce, ok := h.(causer); ok && ce.Err() != nil {
			fields = append(fields, zap.NamedError("cause", ce.Err()))
		}
		c.logger.Warn("Request unreachable", fields...)
	}

	data, format := decodeResponse(h)
	resp := newResponse(h, status, h.StatusText(), data, format)

	duration := time.Since(start)
	c.logger.Debug("Request completed",
		zap.String("id", handleID(h)),
		zap.String("method", method),
		zap.Int("status", status),
		zap.String("format", string(format)),
		zap.Duration("duration", duration),
	)
	if c.metrics != nil {
		c.metrics.RecordRequest(method, status, format, err, duration)
	}

	cb(err, resp)
}

func handleID(h Handle) string {
	if ih, ok := h.(identified); ok {
		return ih.ID()
	}
	return ""
}
