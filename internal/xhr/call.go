package xhr

import "context"

// Call is a single-shot pending request. It resolves once, when the handle reaches Done.
type Call struct {
	handle Handle
	done   chan struct{}
	resp   *Response
	err    error
}

// Go dispatches a request and returns a Call to wait on instead of taking a callback
func (c *Client) Go(ctx context.Context, method, url string, opts *Options) (*Call, error) {
	call := &Call{done: make(chan struct{})}
	h, err := c.Request(ctx, method, url, opts, func(err error, resp *Response) {
		call.resp = resp
		call.err = err
		close(call.done)
	})
	if err != nil {
		return nil, err
	}
	call.handle = h
	return call, nil
}

// Handle returns the live transport handle
func (c *Call) Handle() Handle {
	return c.handle
}

// Done is closed when the call resolves
func (c *Call) Done() <-chan struct{} {
	return c.done
}

// Wait blocks until the call resolves or ctx ends. Ending ctx only stops
// waiting; the request itself keeps running.
func (c *Call) Wait(ctx context.Context) (*Response, error) {
	select {
	case <-c.done:
		return c.resp, c.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
