// Package logging provides structured logging using uber/zap.
//
// Two modes are available:
//   - Production: JSON output for machine parsing
//   - Development: Colored console output for human readability
//
// GinLogger is the per-request access log for the echo server. The xhr
// client takes the underlying *zap.Logger directly.
//
// Example Usage:
//
//	logger := logging.NewDefault()
//	logger.Info("Server starting", zap.String("port", "8000"))
//	router.Use(logging.GinLogger(logger.Logger))
package logging
