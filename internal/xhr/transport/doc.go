/*
Package transport is the HTTP primitive behind the xhr client.

A Transport wraps one resty client shared by all handles. Each Handle is
single use and walks the ready states in order:

	Unsent -> Opened -> (Send) -> HeadersReceived -> Loading -> Done

Send returns at once; the exchange runs on its own goroutine and the
listener installed with OnReadyStateChange is called from it on every
transition. A transport failure (refused connection, timeout, cancelled
context, open circuit breaker) skips straight to Done with status 0 and
keeps the cause in Err.

Response text is decoded to UTF-8 using the Content-Type charset, or a
chardet guess when the body is not valid UTF-8. ResponseXML is populated
only for XML media types with a root element; a missing Content-Type is
sniffed from the body.

Retries are disabled. Optional client-wide rate limiting and a circuit
breaker are configured through Config.
*/
package transport
