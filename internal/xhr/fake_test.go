package xhr

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/antchfx/xmlquery"
)

// fakeHandle is a scripted Handle. Tests drive it through its ready states with finish.
type fakeHandle struct {
	mu sync.Mutex

	state    ReadyState
	method   string
	url      string
	headers  map[string]string
	body     []byte
	sent     bool
	listener func(Handle)
	seen     []ReadyState

	status     int
	statusText string
	text       string
	doc        *xmlquery.Node

	openErr error
	sendErr error
	// auto finishes the exchange on its own goroutine as soon as Send is called
	auto bool
}

func newFakeHandle(status int, statusText, text string) *fakeHandle {
	return &fakeHandle{
		status:     status,
		statusText: statusText,
		text:       text,
		headers:    map[string]string{},
	}
}

func (h *fakeHandle) ID() string { return "xhr_fake" }

func (h *fakeHandle) Open(method, url string) error {
	if h.openErr != nil {
		return h.openErr
	}
	h.mu.Lock()
	h.method = method
	h.url = url
	h.mu.Unlock()
	h.setState(Opened)
	return nil
}

func (h *fakeHandle) SetRequestHeader(name, value string) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.state != Opened || h.sent {
		return errors.New("invalid state")
	}
	h.headers[name] = value
	return nil
}

func (h *fakeHandle) OnReadyStateChange(fn func(Handle)) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.listener = fn
}

func (h *fakeHandle) Send(body []byte) error {
	if h.sendErr != nil {
		return h.sendErr
	}
	h.mu.Lock()
	h.body = body
	h.sent = true
	auto := h.auto
	h.mu.Unlock()
	if auto {
		go h.finish()
	}
	return nil
}

// finish walks the remaining states up to Done, notifying the listener each time
func (h *fakeHandle) finish() {
	h.setState(HeadersReceived)
	h.setState(Loading)
	h.setState(Done)
}

func (h *fakeHandle) setState(s ReadyState) {
	h.mu.Lock()
	h.state = s
	h.seen = append(h.seen, s)
	fn := h.listener
	h.mu.Unlock()
	if fn != nil {
		fn(h)
	}
}

func (h *fakeHandle) ReadyState() ReadyState {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.state
}

func (h *fakeHandle) Status() int { return h.status }

func (h *fakeHandle) StatusText() string { return h.statusText }

func (h *fakeHandle) ResponseText() string { return h.text }

func (h *fakeHandle) ResponseXML() *xmlquery.Node { return h.doc }

func (h *fakeHandle) Err() error {
	if h.status == 0 {
		return errors.New("dial tcp: connection refused")
	}
	return nil
}

// fakeTransport hands out a prepared handle, or a fresh one per call when next is set
type fakeTransport struct {
	mu     sync.Mutex
	calls  int
	handle *fakeHandle
	next   func() *fakeHandle
	err    error
}

func (t *fakeTransport) NewHandle(ctx context.Context) (Handle, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.calls++
	if t.err != nil {
		return nil, t.err
	}
	if t.next != nil {
		return t.next(), nil
	}
	return t.handle, nil
}

func (t *fakeTransport) Calls() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.calls
}

// recorded captures one callback invocation
type recorded struct {
	mu    sync.Mutex
	calls int
	err   error
	resp  *Response
}

func (r *recorded) callback(err error, resp *Response) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	r.err = err
	r.resp = resp
}

func (r *recorded) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.calls
}

type recorderStub struct {
	mu      sync.Mutex
	methods []string
	status  []int
	formats []Format
	errs    []error
}

func (r *recorderStub) RecordRequest(method string, status int, format Format, err error, _ time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.methods = append(r.methods, method)
	r.status = append(r.status, status)
	r.formats = append(r.formats, format)
	r.errs = append(r.errs, err)
}
