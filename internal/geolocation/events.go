package geolocation

import "time"

// Event is delivered to listeners. It is either Located or Error.
type Event interface {
	event()
}

// Located carries a new position
type Located struct {
	Coords    Coordinates
	Timestamp time.Time
}

// Error carries a failed fetch
type Error struct {
	Cause error
}

func (Located) event() {}
func (Error) event()   {}

// Listener receives events on the goroutine that produced them
type Listener func(Event)
