// Package echo is the demo server the xhr client is exercised against.
//
// Routes:
//   - GET  /api/test  echoes the query string as JSON
//   - POST /api/test  echoes a JSON or form body as JSON
//   - GET  /health    liveness
//   - GET  /metrics   Prometheus exposition
//
// Responses are gzip compressed when the client accepts it. When a static
// directory is configured, unmatched GET and HEAD requests are served from it.
//
// Example Usage:
//
//	srv := echo.New(echo.ConfigFrom(cfg), logger.Logger, monitoring.NewMetrics())
//	if err := srv.Run(ctx); err != nil {
//		logger.Fatal("server error", zap.Error(err))
//	}
package echo
