/*
Package resilience provides the circuit breaker that guards transport dispatch.

# Overview

When enabled, the request transport runs every exchange through a Breaker.
Only transport failures count: an unreachable server, a refused connection,
a timeout. HTTP error statuses are ordinary responses and never trip it.
While the breaker is open, requests finish immediately with status 0.

# Usage

	breaker := resilience.New("xhr-transport", resilience.DefaultSettings())

	err := breaker.Execute(func() error {
		_, err := req.Execute(method, url)
		return err
	})

# States

	Closed --[failures]-> Open --[timeout]-> Half-Open --[successes]-> Closed
	                                           |
	                                    [failure]
	                                           |
	                                           v
	                                         Open
*/
package resilience
