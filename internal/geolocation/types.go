package geolocation

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrUnavailable is returned when no location provider is configured
var ErrUnavailable = errors.New("geolocation is not available")

// Coordinates is a single fix. Optional fields are nil when the provider omits them.
type Coordinates struct {
	Latitude  float64  `json:"latitude"`
	Longitude float64  `json:"longitude"`
	Accuracy  float64  `json:"accuracy"`
	Altitude  *float64 `json:"altitude,omitempty"`
	Heading   *float64 `json:"heading,omitempty"`
	Speed     *float64 `json:"speed,omitempty"`
}

// Position pairs coordinates with the time they were acquired
type Position struct {
	Coords    Coordinates
	Timestamp time.Time
}

// PositionOptions tunes a fetch. Nil fields are unset and inherit defaults.
type PositionOptions struct {
	EnableHighAccuracy *bool
	// Timeout bounds how long a fetch may take; unset means no limit
	Timeout *time.Duration
	// MaximumAge is how old a cached position may be; unset means zero
	MaximumAge *time.Duration
}

// Merge returns o with every unset field taken from defaults
func (o PositionOptions) Merge(defaults PositionOptions) PositionOptions {
	if o.EnableHighAccuracy == nil {
		o.EnableHighAccuracy = defaults.EnableHighAccuracy
	}
	if o.Timeout == nil {
		o.Timeout = defaults.Timeout
	}
	if o.MaximumAge == nil {
		o.MaximumAge = defaults.MaximumAge
	}
	return o
}

// HighAccuracy reports the effective high accuracy flag
func (o PositionOptions) HighAccuracy() bool {
	return o.EnableHighAccuracy != nil && *o.EnableHighAccuracy
}

// Bool returns a pointer to b, for building options
func Bool(b bool) *bool { return &b }

// Duration returns a pointer to d, for building options
func Duration(d time.Duration) *time.Duration { return &d }

// ErrorCode classifies a position failure
type ErrorCode int

const (
	PermissionDenied    ErrorCode = 1
	PositionUnavailable ErrorCode = 2
	Timeout             ErrorCode = 3
)

func (c ErrorCode) String() string {
	switch c {
	case PermissionDenied:
		return "permission denied"
	case PositionUnavailable:
		return "position unavailable"
	case Timeout:
		return "timeout"
	default:
		return fmt.Sprintf("code %d", int(c))
	}
}

// PositionError is the failure a Locator reports
type PositionError struct {
	Code    ErrorCode
	Message string
}

func (e *PositionError) Error() string {
	if e.Message == "" {
		return "geolocation: " + e.Code.String()
	}
	return fmt.Sprintf("geolocation: %s: %s", e.Code, e.Message)
}

// Is matches any *PositionError with the same code
func (e *PositionError) Is(target error) bool {
	t, ok := target.(*PositionError)
	return ok && t.Code == e.Code && (t.Message == "" || t.Message == e.Message)
}

// Locator is the platform location API
type Locator interface {
	// CurrentPosition fetches one position
	CurrentPosition(ctx context.Context, opts PositionOptions) (Position, error)
	// Watch reports positions and errors to fn until stop is called
	Watch(opts PositionOptions, fn func(Position, error)) (stop func())
}
