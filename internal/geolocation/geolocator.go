package geolocation

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/GriffinCanCode/xhr/internal/shared/id"
)

// Geolocator fans positions from a Locator out to subscribed listeners and
// remembers the last fix. Option setters take effect on the next fetch and
// restart an active watch.
type Geolocator struct {
	locator Locator
	logger  *zap.Logger

	mu        sync.Mutex
	options   PositionOptions
	listeners []subscription
	nextID    uint64
	watchID   id.WatchID
	stopWatch func()
	last      *Position
}

type subscription struct {
	key uint64
	fn  Listener
}

// New creates a geolocator. A nil locator yields one that reports unavailable.
func New(locator Locator, defaults PositionOptions) *Geolocator {
	return &Geolocator{
		locator: locator,
		logger:  zap.NewNop(),
		options: defaults,
	}
}

// WithLogger sets the logger
func (g *Geolocator) WithLogger(logger *zap.Logger) *Geolocator {
	g.logger = logger.Named("geolocation")
	return g
}

// IsAvailable reports whether a locator is configured
func (g *Geolocator) IsAvailable() bool {
	return g.locator != nil
}

// Options returns the instance defaults
func (g *Geolocator) Options() PositionOptions {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.options
}

// EnableHighAccuracy asks for the most accurate fix the locator can give
func (g *Geolocator) EnableHighAccuracy() {
	g.setOption(func(o *PositionOptions) { o.EnableHighAccuracy = Bool(true) })
}

// DisableHighAccuracy lets the locator answer faster and cheaper
func (g *Geolocator) DisableHighAccuracy() {
	g.setOption(func(o *PositionOptions) { o.EnableHighAccuracy = Bool(false) })
}

// SetTimeout bounds how long a fetch may take
func (g *Geolocator) SetTimeout(d time.Duration) {
	g.setOption(func(o *PositionOptions) { o.Timeout = Duration(d) })
}

// SetMaximumAge sets how old a cached position may be. Zero forces a fresh fix.
func (g *Geolocator) SetMaximumAge(d time.Duration) {
	g.setOption(func(o *PositionOptions) { o.MaximumAge = Duration(d) })
}

// setOption changes one default, keeping the others
func (g *Geolocator) setOption(apply func(*PositionOptions)) {
	g.mu.Lock()
	apply(&g.options)
	watching := g.stopWatch != nil
	g.mu.Unlock()

	if watching {
		if err := g.RestartWatching(); err != nil {
			g.logger.Warn("Failed to restart watch", zap.Error(err))
		}
	}
}

// Subscribe registers l for every subsequent event
func (g *Geolocator) Subscribe(l Listener) (unsubscribe func()) {
	g.mu.Lock()
	key := g.nextID
	g.nextID++
	g.listeners = append(g.listeners, subscription{key: key, fn: l})
	g.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			g.mu.Lock()
			defer g.mu.Unlock()
			for i, sub := range g.listeners {
				if sub.key == key {
					g.listeners = append(g.listeners[:i:i], g.listeners[i+1:]...)
					return
				}
			}
		})
	}
}

// Locate fetches one position with opts layered over the defaults. The
// outcome is both emitted to listeners and returned.
func (g *Geolocator) Locate(ctx context.Context, opts PositionOptions) (Position, error) {
	if g.locator == nil {
		return Position{}, ErrUnavailable
	}
	if ctx == nil {
		ctx = context.Background()
	}

	pos, err := g.locator.CurrentPosition(ctx, opts.Merge(g.Options()))
	if err != nil {
		g.emitError(err)
		return Position{}, err
	}
	g.emitPosition(pos)
	return pos, nil
}

// StartWatching begins continuous tracking with the current defaults.
// It is a no-op when already watching.
func (g *Geolocator) StartWatching() error {
	if g.locator == nil {
		return ErrUnavailable
	}

	g.mu.Lock()
	if g.stopWatch != nil {
		g.mu.Unlock()
		return nil
	}
	wid := id.NewWatchID()
	g.watchID = wid
	g.stopWatch = func() {}
	opts := g.options
	g.mu.Unlock()

	stop := g.locator.Watch(opts, func(pos Position, err error) {
		if !g.isCurrentWatch(wid) {
			return
		}
		if err != nil {
			g.emitError(err)
			return
		}
		g.emitPosition(pos)
	})

	g.mu.Lock()
	if g.watchID != wid {
		// stopped while the locator was starting up
		g.mu.Unlock()
		stop()
		return nil
	}
	g.stopWatch = stop
	g.mu.Unlock()

	g.logger.Debug("Watch started", zap.String("watch_id", wid.String()))
	return nil
}

// StopWatching ends continuous tracking
func (g *Geolocator) StopWatching() {
	g.mu.Lock()
	stop := g.stopWatch
	wid := g.watchID
	g.stopWatch = nil
	g.watchID = ""
	g.mu.Unlock()

	if stop != nil {
		stop()
		g.logger.Debug("Watch stopped", zap.String("watch_id", wid.String()))
	}
}

// RestartWatching stops and starts the watch so new defaults take effect
func (g *Geolocator) RestartWatching() error {
	g.StopWatching()
	return g.StartWatching()
}

// IsWatching reports whether a watch is active
func (g *Geolocator) IsWatching() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.stopWatch != nil
}

// LastLocation returns the most recent coordinates, if any
func (g *Geolocator) LastLocation() (Coordinates, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.last == nil {
		return Coordinates{}, false
	}
	return g.last.Coords, true
}

// LastLocationDate returns when the most recent position was acquired, if any
func (g *Geolocator) LastLocationDate() (time.Time, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.last == nil {
		return time.Time{}, false
	}
	return g.last.Timestamp, true
}

func (g *Geolocator) isCurrentWatch(wid id.WatchID) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.watchID == wid
}

func (g *Geolocator) emitPosition(pos Position) {
	g.mu.Lock()
	g.last = &pos
	g.mu.Unlock()

	g.emit(Located{Coords: pos.Coords, Timestamp: pos.Timestamp})
}

func (g *Geolocator) emitError(err error) {
	g.logger.Debug("Position error", zap.Error(err))
	g.emit(Error{Cause: err})
}

func (g *Geolocator) emit(ev Event) {
	g.mu.Lock()
	listeners := g.listeners
	g.mu.Unlock()

	for _, sub := range listeners {
		sub.fn(ev)
	}
}
