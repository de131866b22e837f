package xhr

import (
	"errors"
	"fmt"
)

var (
	// ErrUnreachable is delivered through the callback when the transport ends with status 0
	ErrUnreachable = errors.New("unknown request status, the server or network may be unreachable")

	ErrMissingCallback   = errors.New("a callback is mandatory for the XHR request")
	ErrNoTransport       = errors.New("cannot instantiate XHR")
	ErrUnsupportedMethod = errors.New("unsupported HTTP method")
)

// ConfigError reports a synchronous, non-recoverable misuse of Request.
// It is returned to the immediate caller and never delivered via callback.
type ConfigError struct {
	Op  string
	Err error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("xhr %s: %v", e.Op, e.Err)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}
