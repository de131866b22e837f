// Package id generates the prefixed ULIDs that tag request handles and
// geolocation watches in logs.
//
// IDs are lexicographically sortable by creation time and carry a short
// type prefix (xhr_*, watch_*) so log lines can be read without context.
package id

import (
	"crypto/rand"
	"errors"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// HandleID identifies one request handle
type HandleID string

// WatchID identifies one geolocation watch
type WatchID string

const (
	HandlePrefix = "xhr"
	WatchPrefix  = "watch"
)

// ErrMalformed is returned when an ID has no ULID part
var ErrMalformed = errors.New("malformed id")

// Generator generates ULIDs with optional prefixes
type Generator struct {
	mu      sync.Mutex
	entropy io.Reader
}

var (
	defaultGenerator *Generator
	once             sync.Once
)

// Default returns the shared generator
func Default() *Generator {
	once.Do(func() {
		defaultGenerator = NewGenerator()
	})
	return defaultGenerator
}

// NewGenerator creates a generator whose IDs are monotonic within a millisecond
func NewGenerator() *Generator {
	return &Generator{entropy: ulid.Monotonic(rand.Reader, 0)}
}

// NewGeneratorWithEntropy creates a generator with a custom entropy source
func NewGeneratorWithEntropy(entropy io.Reader) *Generator {
	return &Generator{entropy: entropy}
}

// Generate creates a new ULID
func (g *Generator) Generate() ulid.ULID {
	g.mu.Lock()
	defer g.mu.Unlock()

	return ulid.MustNew(ulid.Timestamp(time.Now()), g.entropy)
}

// WithPrefix creates a prefixed ULID string
func (g *Generator) WithPrefix(prefix string) string {
	return prefix + "_" + g.Generate().String()
}

// NewHandleID generates a new request handle ID
func NewHandleID() HandleID {
	return HandleID(Default().WithPrefix(HandlePrefix))
}

// NewWatchID generates a new watch ID
func NewWatchID() WatchID {
	return WatchID(Default().WithPrefix(WatchPrefix))
}

func (id HandleID) String() string { return string(id) }
func (id WatchID) String() string  { return string(id) }

// Parse extracts the ULID from a bare or prefixed ID
func Parse(id string) (ulid.ULID, error) {
	if i := strings.LastIndexByte(id, '_'); i >= 0 {
		id = id[i+1:]
	}
	if id == "" {
		return ulid.ULID{}, ErrMalformed
	}
	return ulid.Parse(id)
}

// Timestamp extracts the creation time from an ID
func Timestamp(id string) (time.Time, error) {
	parsed, err := Parse(id)
	if err != nil {
		return time.Time{}, err
	}
	return ulid.Time(parsed.Time()), nil
}
