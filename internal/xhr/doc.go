// Package xhr provides an asynchronous, callback-driven request client layered
// over a pluggable transport handle.
//
// A request moves through the transport's ready states:
//
//	Unsent → Opened → HeadersReceived → Loading → Done
//
// Only Done is acted upon. At that point the client classifies the outcome,
// sniffs the body format and invokes the completion callback exactly once.
//
// Outcome classification:
//   - Status 0 at Done: ErrUnreachable (server or network unreachable)
//   - Any other status, 4xx/5xx included: not an error; inspect Response.Status
//
// Format sniffing, in priority order:
//   - xml:  the transport exposes a parsed XML document
//   - json: the response text parses as JSON
//   - text: the raw response text
//
// Configuration errors (missing callback, unsupported method, no transport)
// are returned synchronously from Request before any I/O happens. Everything
// else is delivered through the callback.
//
// Example Usage:
//
//	client := xhr.New(transport.New(transport.DefaultConfig()))
//	_, err := client.Get(ctx, "/api/test", &xhr.Options{Data: map[string]any{"x": "1"}},
//		func(err error, resp *xhr.Response) {
//			fmt.Println(err, resp.Status(), resp.Format(), resp.Data())
//		})
package xhr
