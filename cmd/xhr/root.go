package main

import (
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/xhr/internal/infrastructure/config"
	"github.com/GriffinCanCode/xhr/internal/infrastructure/logging"
	"github.com/GriffinCanCode/xhr/internal/xhr"
	"github.com/GriffinCanCode/xhr/internal/xhr/transport"
)

// app carries what every subcommand shares
type app struct {
	cfg    *config.Config
	logger *logging.Logger

	baseURL   string
	timeout   time.Duration
	userAgent string
	logLevel  string
	dev       bool
	breaker   bool
}

func newRootCmd() *cobra.Command {
	cfg := config.LoadOrDefault()
	a := &app{cfg: cfg}

	root := &cobra.Command{
		Use:           "xhr",
		Short:         "Send requests through the xhr client and print the classified response",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// stdout carries the response, logs go to stderr
			logger, err := logging.New(logging.Config{
				Level:       a.logLevel,
				Development: a.dev,
				OutputPaths: []string{"stderr"},
			})
			if err != nil {
				return err
			}
			a.logger = logger
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = a.logger.Sync()
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.baseURL, "base-url", cfg.Client.BaseURL, "base URL for relative request URLs")
	flags.DurationVar(&a.timeout, "timeout", cfg.Client.Timeout, "timeout for a whole exchange")
	flags.StringVar(&a.userAgent, "user-agent", cfg.Client.UserAgent, "User-Agent header")
	flags.BoolVar(&a.breaker, "breaker", cfg.Client.BreakerEnabled, "enable the transport circuit breaker")
	flags.StringVar(&a.logLevel, "log-level", cfg.Logging.Level, "log level (debug, info, warn, error)")
	flags.BoolVar(&a.dev, "dev", cfg.Logging.Development, "human readable console logs")

	root.AddCommand(
		newRequestCmd(a),
		newMethodCmd(a, xhr.MethodGet),
		newMethodCmd(a, xhr.MethodPost),
		newLocateCmd(a),
		newWatchCmd(a),
	)
	return root
}

// client builds an xhr client from the resolved flags
func (a *app) client() *xhr.Client {
	tr := transport.New(transport.Config{
		BaseURL:   a.baseURL,
		Timeout:   a.timeout,
		UserAgent: a.userAgent,
		RateLimit: a.cfg.Client.RateLimit,
		Breaker:   a.breaker,
	}).WithLogger(a.logger.Logger)

	a.logger.Debug("Client configured",
		zap.String("base_url", a.baseURL),
		zap.Duration("timeout", a.timeout),
		zap.Bool("breaker", a.breaker),
	)
	return xhr.New(tr).WithLogger(a.logger.Logger)
}
