package alignment

// EventKind identifies a per-segment outcome.
type EventKind int

const (
	// EventMatched is emitted when a segment's run clears the accept threshold.
	EventMatched EventKind = iota + 1
	// EventUnmatched is emitted when a segment keeps its original timing.
	EventUnmatched
	// EventRepaired is emitted when the monotonicity pass moves a segment.
	EventRepaired
)

func (k EventKind) String() string {
	switch k {
	case EventMatched:
		return "matched"
	case EventUnmatched:
		return "unmatched"
	case EventRepaired:
		return "repaired"
	default:
		return "unknown"
	}
}

// Reasons attached to EventUnmatched.
const (
	ReasonEmptyText       = "empty_text"
	ReasonStreamExhausted = "stream_exhausted"
	ReasonBelowThreshold  = "below_threshold"
)

// Event describes what happened to one segment.
type Event struct {
	Kind  EventKind
	Index int

	StartMs    int64
	EndMs      int64
	Confidence float64

	// Matched runs.
	Similarity float64
	Coverage   float64
	FirstWord  int
	LastWord   int

	// Unmatched segments.
	Reason string

	// Repaired segments.
	OriginalStart int64
	OriginalEnd   int64
}

// Observer receives per-segment diagnostics. Implementations must not retain
// or mutate the aligner's state; they are called synchronously from Align.
type Observer interface {
	Observe(Event)
}

// ObserverFunc adapts a function to the Observer interface.
type ObserverFunc func(Event)

// Observe calls f(e).
func (f ObserverFunc) Observe(e Event) { f(e) }

type nopObserver struct{}

func (nopObserver) Observe(Event) {}
