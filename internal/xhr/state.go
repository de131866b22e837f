package xhr

// ReadyState mirrors the five ordinal states a transport handle reports
type ReadyState int

const (
	Unsent ReadyState = iota
	Opened
	HeadersReceived
	Loading
	Done
)

// String returns the string representation of the state
func (s ReadyState) String() string {
	switch s {
	case Unsent:
		return "unsent"
	case Opened:
		return "opened"
	case HeadersReceived:
		return "headers-received"
	case Loading:
		return "loading"
	case Done:
		return "done"
	default:
		return "unknown"
	}
}
