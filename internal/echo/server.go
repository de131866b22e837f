package echo

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/klauspost/compress/gzhttp"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/xhr/internal/infrastructure/config"
	"github.com/GriffinCanCode/xhr/internal/infrastructure/logging"
	"github.com/GriffinCanCode/xhr/internal/infrastructure/monitoring"
)

const shutdownTimeout = 10 * time.Second

// Config holds what the echo server needs to run
type Config struct {
	Addr        string
	StaticDir   string
	Development bool
	CORS        CORSConfig
	RateLimit   RateLimitConfig
	// RateLimitEnabled turns the per-IP limiter on
	RateLimitEnabled bool
}

// ConfigFrom derives the server config from application config
func ConfigFrom(cfg *config.Config) Config {
	corsCfg := DefaultCORSConfig()
	if len(cfg.CORS.Origins) > 0 {
		corsCfg.AllowOrigins = cfg.CORS.Origins
	}

	limit := DefaultRateLimitConfig()
	limit.RequestsPerSecond = cfg.RateLimit.RequestsPerSecond
	limit.Burst = cfg.RateLimit.Burst

	return Config{
		Addr:             cfg.Server.Addr(),
		StaticDir:        cfg.Server.StaticDir,
		Development:      cfg.Logging.Development,
		CORS:             corsCfg,
		RateLimit:        limit,
		RateLimitEnabled: cfg.RateLimit.Enabled,
	}
}

// Server is the demo echo server
type Server struct {
	cfg     Config
	logger  *zap.Logger
	metrics *monitoring.Metrics
	router  *gin.Engine
	handler http.Handler
}

// New builds the router and middleware stack
func New(cfg Config, logger *zap.Logger, metrics *monitoring.Metrics) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	if metrics == nil {
		metrics = monitoring.NewMetrics()
	}
	if !cfg.Development {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(RequestID())
	router.Use(logging.GinLogger(logger))
	router.Use(monitoring.Middleware(metrics))
	router.Use(CORS(cfg.CORS))
	if cfg.RateLimitEnabled {
		logger.Info("Rate limiting enabled",
			zap.Int("rps", cfg.RateLimit.RequestsPerSecond),
			zap.Int("burst", cfg.RateLimit.Burst),
		)
		router.Use(RateLimit(cfg.RateLimit))
	}

	handlers := NewHandlers(logger)
	router.GET("/health", handlers.Health)
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	api := router.Group("/api")
	api.GET("/test", handlers.EchoQuery)
	api.POST("/test", handlers.EchoBody)

	if cfg.StaticDir != "" {
		router.NoRoute(static(cfg.StaticDir))
	}

	return &Server{
		cfg:     cfg,
		logger:  logger,
		metrics: metrics,
		router:  router,
		handler: gzhttp.GzipHandler(router),
	}
}

// static serves files from dir for GET and HEAD requests that match no route
func static(dir string) gin.HandlerFunc {
	files := http.FileServer(http.Dir(dir))
	return func(c *gin.Context) {
		if c.Request.Method != http.MethodGet && c.Request.Method != http.MethodHead {
			c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
			return
		}
		files.ServeHTTP(c.Writer, c.Request)
	}
}

// Router returns the gin engine, without compression
func (s *Server) Router() *gin.Engine {
	return s.router
}

// Handler returns the full handler, compression included
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Run listens on the configured address until ctx ends
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", s.cfg.Addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx ends, then shuts down gracefully
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()
	s.logger.Info("Server started", zap.String("addr", ln.Addr().String()))

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve: %w", err)
	case <-ctx.Done():
	}

	s.logger.Info("Shutting down gracefully")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
