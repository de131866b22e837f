package transport

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"sync"

	"github.com/antchfx/xmlquery"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/xhr/internal/xhr"
)

// ErrInvalidState is returned when a handle operation is called out of order
var ErrInvalidState = errors.New("handle is in an invalid state for this operation")

// Handle is one request/response exchange. It is single use.
type Handle struct {
	id        string
	ctx       context.Context
	transport *Transport

	mu         sync.Mutex
	state      xhr.ReadyState
	sent       bool
	method     string
	url        string
	header     http.Header
	listener   func(xhr.Handle)
	status     int
	statusText string
	respHeader http.Header
	text       string
	doc        *xmlquery.Node
	err        error
}

var _ xhr.Handle = (*Handle)(nil)

func newHandle(ctx context.Context, t *Transport, handleID string) *Handle {
	return &Handle{
		id:        handleID,
		ctx:       ctx,
		transport: t,
		header:    make(http.Header),
	}
}

// ID returns the handle's correlation ID
func (h *Handle) ID() string {
	return h.id
}

// Open records the method and URL. It may be called once.
func (h *Handle) Open(method, url string) error {
	if method == "" {
		return fmt.Errorf("open: empty method")
	}

	h.mu.Lock()
	if h.state != xhr.Unsent {
		h.mu.Unlock()
		return fmt.Errorf("open: %w", ErrInvalidState)
	}
	h.method = strings.ToUpper(method)
	h.url = url
	h.state = xhr.Opened
	fn := h.listener
	h.mu.Unlock()

	if fn != nil {
		fn(h)
	}
	return nil
}

// SetRequestHeader adds a request header. Only valid after Open and before Send.
func (h *Handle) SetRequestHeader(name, value string) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.state != xhr.Opened || h.sent {
		return fmt.Errorf("set header %q: %w", name, ErrInvalidState)
	}
	h.header.Add(name, value)
	return nil
}

// OnReadyStateChange installs fn as the state listener, replacing any previous one
func (h *Handle) OnReadyStateChange(fn func(xhr.Handle)) {
	h.mu.Lock()
	h.listener = fn
	h.mu.Unlock()
}

// Send starts the exchange on its own goroutine and returns immediately
func (h *Handle) Send(body []byte) error {
	h.mu.Lock()
	if h.state != xhr.Opened || h.sent {
		h.mu.Unlock()
		return fmt.Errorf("send: %w", ErrInvalidState)
	}
	h.sent = true
	req := request{
		method: h.method,
		url:    h.url,
		header: h.header.Clone(),
		body:   body,
	}
	h.mu.Unlock()

	go h.run(req)
	return nil
}

func (h *Handle) run(req request) {
	resp, err := h.transport.exchange(h.ctx, req)
	if err != nil {
		h.transport.logger.Debug("exchange failed",
			zap.String("id", h.id),
			zap.String("method", req.method),
			zap.String("url", req.url),
			zap.Error(err),
		)
		h.advance(xhr.Done, func() {
			h.err = err
			h.status = 0
			h.statusText = ""
		})
		return
	}

	h.advance(xhr.HeadersReceived, func() {
		h.status = resp.StatusCode()
		h.statusText = reasonPhrase(resp.StatusCode(), resp.Status())
		h.respHeader = resp.Header().Clone()
	})
	h.advance(xhr.Loading, nil)

	body := resp.Body()
	contentType := resp.Header().Get("Content-Type")
	text := decodeText(body, contentType)
	doc := parseXML(body, contentType)

	h.advance(xhr.Done, func() {
		h.text = text
		h.doc = doc
	})
}

// advance applies update and the new state under the lock, then notifies the listener outside it
func (h *Handle) advance(state xhr.ReadyState, update func()) {
	h.mu.Lock()
	if update != nil {
		update()
	}
	h.state = state
	fn := h.listener
	h.mu.Unlock()

	if fn != nil {
		fn(h)
	}
}

// ReadyState returns the current state
func (h *Handle) ReadyState() xhr.ReadyState {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.state
}

// Status returns the HTTP status, or 0 before headers arrive and after a transport failure
func (h *Handle) Status() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.status
}

// StatusText returns the reason phrase
func (h *Handle) StatusText() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.statusText
}

// ResponseText returns the decoded body once Done
func (h *Handle) ResponseText() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.text
}

// ResponseXML returns the parsed document once Done, or nil
func (h *Handle) ResponseXML() *xmlquery.Node {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.doc
}

// ResponseHeader returns a response header value
func (h *Handle) ResponseHeader(name string) string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.respHeader.Get(name)
}

// Err returns the transport failure behind a status 0 completion
func (h *Handle) Err() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.err
}

// reasonPhrase extracts "Not Found" from "404 Not Found", falling back to the standard text
func reasonPhrase(code int, status string) string {
	phrase := strings.TrimSpace(strings.TrimPrefix(status, strconv.Itoa(code)))
	if phrase == "" {
		return http.StatusText(code)
	}
	return phrase
}
