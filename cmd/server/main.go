package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/GriffinCanCode/xhr/internal/echo"
	"github.com/GriffinCanCode/xhr/internal/infrastructure/config"
	"github.com/GriffinCanCode/xhr/internal/infrastructure/logging"
	"github.com/GriffinCanCode/xhr/internal/infrastructure/monitoring"
)

func main() {
	cfg := config.LoadOrDefault()

	// Flags override the environment
	port := flag.String("port", cfg.Server.Port, "Server port")
	host := flag.String("host", cfg.Server.Host, "Server host")
	static := flag.String("static", cfg.Server.StaticDir, "Directory served for unmatched GET requests")
	dev := flag.Bool("dev", cfg.Logging.Development, "Development mode (console logs, debug level)")
	flag.Parse()

	cfg.Server.Port = *port
	cfg.Server.Host = *host
	cfg.Server.StaticDir = *static
	cfg.Logging.Development = *dev

	logger := logging.FromEnv(cfg.Logging.Level, cfg.Logging.Development)
	defer func() { _ = logger.Sync() }()

	if err := cfg.Validate(); err != nil {
		logger.Fatal("Invalid configuration", zap.Error(err))
	}

	srv := echo.New(echo.ConfigFrom(cfg), logger.Logger, monitoring.NewMetrics())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("Echo server starting",
		zap.String("addr", cfg.Server.Addr()),
		zap.String("static_dir", cfg.Server.StaticDir),
		zap.Bool("rate_limit", cfg.RateLimit.Enabled),
	)
	if err := srv.Run(ctx); err != nil {
		logger.Fatal("Server error", zap.Error(err))
	}
	logger.Info("Server stopped")
}
