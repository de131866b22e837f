package main

import (
	"fmt"
	"sync"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/xhr/internal/geolocation"
)

type geoFlags struct {
	endpoint     string
	highAccuracy bool
	timeout      time.Duration
	maximumAge   time.Duration
}

func (f *geoFlags) register(cmd *cobra.Command, a *app) {
	cmd.Flags().StringVar(&f.endpoint, "endpoint", a.cfg.Geo.Endpoint, "location endpoint returning a JSON fix")
	cmd.Flags().BoolVar(&f.highAccuracy, "high-accuracy", a.cfg.Geo.HighAccuracy, "ask the endpoint for a high accuracy fix")
	cmd.Flags().DurationVar(&f.timeout, "fix-timeout", 0, "give up on a fix after this long (0 waits forever)")
	cmd.Flags().DurationVar(&f.maximumAge, "maximum-age", 0, "accept a cached fix up to this old")
}

func (f *geoFlags) defaults() geolocation.PositionOptions {
	opts := geolocation.PositionOptions{
		EnableHighAccuracy: geolocation.Bool(f.highAccuracy),
		MaximumAge:         geolocation.Duration(f.maximumAge),
	}
	if f.timeout > 0 {
		opts.Timeout = geolocation.Duration(f.timeout)
	}
	return opts
}

func (a *app) locator(f *geoFlags, interval time.Duration) (*geolocation.HTTPLocator, error) {
	if f.endpoint == "" {
		return nil, fmt.Errorf("no location endpoint: pass --endpoint or set GEO_ENDPOINT")
	}
	return geolocation.NewHTTPLocator(a.client(), f.endpoint).
		WithInterval(interval).
		WithLogger(a.logger.Logger), nil
}

func newLocateCmd(a *app) *cobra.Command {
	var f geoFlags
	cmd := &cobra.Command{
		Use:   "locate",
		Short: "Fetch a single position fix",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			loc, err := a.locator(&f, a.cfg.Geo.WatchInterval)
			if err != nil {
				return err
			}
			geo := geolocation.New(loc, f.defaults()).WithLogger(a.logger.Logger)

			pos, err := geo.Locate(cmd.Context(), geolocation.PositionOptions{})
			if err != nil {
				return err
			}
			return printPosition(cmd.OutOrStdout(), pos.Coords, pos.Timestamp)
		},
	}
	f.register(cmd, a)
	return cmd
}

func newWatchCmd(a *app) *cobra.Command {
	var (
		f        geoFlags
		interval time.Duration
		count    int
	)
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Stream position changes until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			loc, err := a.locator(&f, interval)
			if err != nil {
				return err
			}
			geo := geolocation.New(loc, f.defaults()).WithLogger(a.logger.Logger)

			var (
				mu      sync.Mutex
				seen    int
				stopped bool
				out     = cmd.OutOrStdout()
				done    = make(chan struct{})
			)
			unsubscribe := geo.Subscribe(func(ev geolocation.Event) {
				mu.Lock()
				defer mu.Unlock()
				if stopped {
					return
				}
				switch ev := ev.(type) {
				case geolocation.Located:
					if err := printPosition(out, ev.Coords, ev.Timestamp); err != nil {
						a.logger.Warn("Failed to print position", zap.Error(err))
					}
					seen++
					if count > 0 && seen == count {
						close(done)
					}
				case geolocation.Error:
					fmt.Fprintf(out, "error: %v\n", ev.Cause)
				}
			})
			defer unsubscribe()

			if err := geo.StartWatching(); err != nil {
				return err
			}

			select {
			case <-done:
			case <-cmd.Context().Done():
			}
			geo.StopWatching()

			// a poll already in flight may still deliver
			mu.Lock()
			stopped = true
			mu.Unlock()
			return nil
		},
	}
	f.register(cmd, a)
	cmd.Flags().DurationVar(&interval, "interval", a.cfg.Geo.WatchInterval, "polling interval")
	cmd.Flags().IntVarP(&count, "count", "n", 0, "stop after this many fixes (0 streams until interrupted)")
	return cmd
}
