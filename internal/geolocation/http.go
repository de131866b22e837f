package geolocation

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/bytedance/sonic"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/xhr/internal/xhr"
)

// DefaultWatchInterval is how often HTTPLocator polls while watching
const DefaultWatchInterval = 5 * time.Second

// fix is the JSON document a location endpoint returns
type fix struct {
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
	Accuracy  float64  `json:"accuracy"`
	Altitude  *float64 `json:"altitude"`
	Heading   *float64 `json:"heading"`
	Speed     *float64 `json:"speed"`
	// Timestamp is milliseconds since the epoch
	Timestamp *int64 `json:"timestamp"`
}

// HTTPLocator is a Locator backed by a JSON location endpoint, fetched with the xhr client
type HTTPLocator struct {
	client   *xhr.Client
	endpoint string
	interval time.Duration
	logger   *zap.Logger
	now      func() time.Time

	mu    sync.Mutex
	cache *Position
}

var _ Locator = (*HTTPLocator)(nil)

// NewHTTPLocator creates a locator that GETs endpoint for every fix
func NewHTTPLocator(client *xhr.Client, endpoint string) *HTTPLocator {
	return &HTTPLocator{
		client:   client,
		endpoint: endpoint,
		interval: DefaultWatchInterval,
		logger:   zap.NewNop(),
		now:      time.Now,
	}
}

// WithInterval sets the watch polling interval
func (l *HTTPLocator) WithInterval(d time.Duration) *HTTPLocator {
	if d > 0 {
		l.interval = d
	}
	return l
}

// WithLogger sets the logger
func (l *HTTPLocator) WithLogger(logger *zap.Logger) *HTTPLocator {
	l.logger = logger.Named("http-locator")
	return l
}

// CurrentPosition returns a cached fix younger than MaximumAge, or fetches a new one
func (l *HTTPLocator) CurrentPosition(ctx context.Context, opts PositionOptions) (Position, error) {
	if pos, ok := l.cached(opts); ok {
		return pos, nil
	}

	if opts.Timeout != nil {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, *opts.Timeout)
		defer cancel()
	}

	pos, err := l.fetch(ctx, opts)
	if err != nil {
		return Position{}, err
	}

	l.mu.Lock()
	l.cache = &pos
	l.mu.Unlock()
	return pos, nil
}

func (l *HTTPLocator) cached(opts PositionOptions) (Position, bool) {
	if opts.MaximumAge == nil || *opts.MaximumAge <= 0 {
		return Position{}, false
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if l.cache == nil || l.now().Sub(l.cache.Timestamp) > *opts.MaximumAge {
		return Position{}, false
	}
	return *l.cache, true
}

func (l *HTTPLocator) fetch(ctx context.Context, opts PositionOptions) (Position, error) {
	var data map[string]any
	if opts.HighAccuracy() {
		data = map[string]any{"highAccuracy": true}
	}

	call, err := l.client.Go(ctx, xhr.MethodGet, l.endpoint, &xhr.Options{Data: data})
	if err != nil {
		return Position{}, &PositionError{Code: PositionUnavailable, Message: err.Error()}
	}

	resp, err := call.Wait(context.Background())
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return Position{}, &PositionError{Code: Timeout, Message: "no position within the timeout"}
		}
		return Position{}, &PositionError{Code: PositionUnavailable, Message: err.Error()}
	}

	switch status := resp.Status(); {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return Position{}, &PositionError{Code: PermissionDenied, Message: resp.StatusText()}
	case !resp.IsSuccess():
		return Position{}, &PositionError{Code: PositionUnavailable, Message: fmt.Sprintf("endpoint returned %d", status)}
	}
	if resp.Format() != xhr.FormatJSON {
		return Position{}, &PositionError{Code: PositionUnavailable, Message: "endpoint did not return JSON"}
	}

	return l.decode(resp.Request().ResponseText())
}

func (l *HTTPLocator) decode(text string) (Position, error) {
	var f fix
	if err := sonic.ConfigStd.UnmarshalFromString(text, &f); err != nil {
		return Position{}, &PositionError{Code: PositionUnavailable, Message: "malformed fix: " + err.Error()}
	}
	if f.Latitude == nil || f.Longitude == nil {
		return Position{}, &PositionError{Code: PositionUnavailable, Message: "fix has no coordinates"}
	}

	ts := l.now()
	if f.Timestamp != nil {
		ts = time.UnixMilli(*f.Timestamp)
	}

	return Position{
		Coords: Coordinates{
			Latitude:  *f.Latitude,
			Longitude: *f.Longitude,
			Accuracy:  f.Accuracy,
			Altitude:  f.Altitude,
			Heading:   f.Heading,
			Speed:     f.Speed,
		},
		Timestamp: ts,
	}, nil
}

// Watch polls the endpoint until stop is called. fn sees the first outcome,
// then every change in coordinates, and every error. stop does not wait for
// an in-flight poll, so it is safe to call from fn.
func (l *HTTPLocator) Watch(opts PositionOptions, fn func(Position, error)) (stop func()) {
	ctx, cancel := context.WithCancel(context.Background())

	go func() {
		ticker := time.NewTicker(l.interval)
		defer ticker.Stop()

		var last *Coordinates
		for {
			pos, err := l.CurrentPosition(ctx, opts)
			switch {
			case ctx.Err() != nil:
				return
			case err != nil:
				fn(Position{}, err)
			case last == nil || !sameCoords(*last, pos.Coords):
				coords := pos.Coords
				last = &coords
				fn(pos, nil)
			}

			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}
		}
	}()

	return cancel
}

func sameCoords(a, b Coordinates) bool {
	return a.Latitude == b.Latitude && a.Longitude == b.Longitude && a.Accuracy == b.Accuracy
}
