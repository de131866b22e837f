package xhr

import (
	"context"

	"github.com/antchfx/xmlquery"
)

// Handle is a single-use transport primitive driving one request
type Handle interface {
	// Open prepares the request. Dispatch is always asynchronous.
	Open(method, url string) error
	// SetRequestHeader sets a header between Open and Send
	SetRequestHeader(name, value string) error
	// OnReadyStateChange installs the listener notified on every state transition
	OnReadyStateChange(fn func(Handle))
	// Send dispatches the request; a nil body sends none
	Send(body []byte) error

	ReadyState() ReadyState
	Status() int
	StatusText() string
	ResponseText() string
	// ResponseXML returns the parsed document, or nil when the body is not XML
	ResponseXML() *xmlquery.Node
}

// Transport produces handles. It is the only platform capability the client needs.
type Transport interface {
	NewHandle(ctx context.Context) (Handle, error)
}

// causer is implemented by handles that retain the underlying transport failure
type causer interface {
	Err() error
}

// identified is implemented by handles that carry a correlation ID
type identified interface {
	ID() string
}
