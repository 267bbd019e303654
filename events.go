package fetchtripper

// EventKind identifies the kind of a FetchEvent.
type EventKind int

const (
	EventContentLength EventKind = iota
	EventFetching
	EventProgress
	EventPartFetching
	EventPartFetched
	EventFetched
)

// FetchEvent is a progress event emitted to an observer during a fetch.
// Path is always the path the engine was asked to produce — the final
// destination for a whole-file operation, or the job's staging path when
// the multi-file driver is routing through one; only the driver's own
// Fetching/Fetched events use the job's final destination explicitly. Only
// the fields relevant to Kind are populated.
type FetchEvent struct {
	Kind   EventKind
	Path   string
	Length uint64 // EventContentLength
	Bytes  int    // EventProgress: bytes written by this event
	Index  uint16 // EventPartFetching, EventPartFetched
	Err    error  // EventFetched: nil on success
}

// Sender is a send-only handle to a best-effort event stream: Send never
// blocks the producer, silently dropping the event when the buffer is full
// or no Sender was configured at all. A nil *Sender is valid and drops
// every event, so callers that don't care about progress can simply not
// configure one.
type Sender struct {
	c chan FetchEvent
}

// NewSender returns a Sender and the channel an observer should range over.
// capacity bounds how many events may be buffered before new ones are
// dropped; values less than 1 fall back to a sensible default.
func NewSender(capacity int) (*Sender, <-chan FetchEvent) {
	if capacity < 1 {
		capacity = 64
	}
	c := make(chan FetchEvent, capacity)
	return &Sender{c: c}, c
}

// Close closes the underlying channel, signalling an observer ranging over
// it that no further events will arrive. Callers must only call Close once
// every producing operation (FromStream, Request) has returned, since a
// send on a closed channel panics. A nil Sender is a no-op.
func (s *Sender) Close() {
	if s == nil {
		return
	}
	close(s.c)
}

func (s *Sender) send(e FetchEvent) {
	if s == nil {
		return
	}
	select {
	case s.c <- e:
	default:
	}
}

func (s *Sender) contentLength(path string, length uint64) {
	s.send(FetchEvent{Kind: EventContentLength, Path: path, Length: length})
}

func (s *Sender) fetching(path string) {
	s.send(FetchEvent{Kind: EventFetching, Path: path})
}

func (s *Sender) progress(path string, n int) {
	s.send(FetchEvent{Kind: EventProgress, Path: path, Bytes: n})
}

func (s *Sender) partFetching(path string, index uint16) {
	s.send(FetchEvent{Kind: EventPartFetching, Path: path, Index: index})
}

func (s *Sender) partFetched(path string, index uint16) {
	s.send(FetchEvent{Kind: EventPartFetched, Path: path, Index: index})
}

func (s *Sender) fetched(path string, err error) {
	s.send(FetchEvent{Kind: EventFetched, Path: path, Err: err})
}
