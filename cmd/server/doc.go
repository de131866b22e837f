// Package main runs the echo server that the xhr client is exercised against.
//
// The server provides:
//   - GET and POST /api/test, echoing the query or the parsed body as JSON
//   - /health and Prometheus /metrics
//   - optional static files for unmatched GET requests
//   - CORS, per-IP rate limiting, request IDs and gzip
//
// Configuration:
//   - Environment variables (12-factor)
//   - CLI flags (override env vars)
//
// Usage:
//
//	./server -port 8000 -static ./public
//	./server -dev
//
// Signals:
//   - SIGINT, SIGTERM: Graceful shutdown
package main
