// Package config provides 12-factor configuration for the echo server and
// the request client.
//
// Configuration is loaded from environment variables with sensible defaults.
//
// Configuration Sections:
//   - Server: listen address and optional static directory
//   - Logging: Log level and output format
//   - RateLimit: Per-IP rate limiting on the echo server
//   - CORS: Allowed origins
//   - Client: Base URL, timeout, user agent, rate limit and breaker for xhr
//   - Geo: Geolocation endpoint and watch interval
//
// Example Usage:
//
//	cfg := config.LoadOrDefault()
//	fmt.Printf("Server running on %s\n", cfg.Server.Addr())
//
// Environment Variables:
//   - PORT, HOST, STATIC_DIR
//   - LOG_LEVEL, LOG_DEV
//   - RATE_LIMIT_RPS, RATE_LIMIT_BURST, RATE_LIMIT_ENABLED
//   - CORS_ORIGINS
//   - XHR_BASE_URL, XHR_TIMEOUT, XHR_USER_AGENT, XHR_RATE_LIMIT, XHR_BREAKER_ENABLED
//   - GEO_ENDPOINT, GEO_WATCH_INTERVAL, GEO_HIGH_ACCURACY
package config
