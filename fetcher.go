package fetchtripper

import (
	"io"
	"log"
	"time"
)

// Fetcher is the immutable, builder-constructed handle used to run fetches.
// A single Fetcher may be shared and used concurrently by any number of
// goroutines.
type Fetcher struct {
	// TimingsOut receives one line per completed operation via go-timings.
	// Defaults to a discard logger.
	TimingsOut *log.Logger
	// DebugOut receives low-level progress chatter. Defaults to a discard
	// logger.
	DebugOut *log.Logger

	client             Client
	concurrentFiles    int
	connectionsPerFile uint16
	partSize           uint64 // reserved, see WithPartSize
	timeout            time.Duration
	events             *Sender
}

// Option configures a Fetcher built by New.
type Option func(*Fetcher)

// WithClient overrides the HTTP client used for GET requests. Defaults to
// DefaultClient, a RetryClient.
func WithClient(client Client) Option {
	return func(f *Fetcher) { f.client = client }
}

// WithConcurrentFiles sets how many jobs FromStream runs in parallel.
// Values <= 1 are ignored, leaving the default of 4.
func WithConcurrentFiles(n int) Option {
	return func(f *Fetcher) {
		if n > 1 {
			f.concurrentFiles = n
		}
	}
}

// WithConnectionsPerFile enables range-parallel segmented downloads using n
// concurrent connections per file, when the remote source supports it.
// Values <= 1 leave segmented mode disabled and every fetch single-stream.
func WithConnectionsPerFile(n uint16) Option {
	return func(f *Fetcher) {
		if n > 1 {
			f.connectionsPerFile = n
		}
	}
}

// WithPartSize is reserved for a future fixed-size part scheme. It has no
// effect on part sizing today, which always splits a file into exactly
// ConnectionsPerFile parts.
func WithPartSize(bytes uint64) Option {
	return func(f *Fetcher) { f.partSize = bytes }
}

// WithTimeout bounds how long the Fetcher waits for response headers and
// for each individual chunk read. Zero (the default) disables the bound.
func WithTimeout(d time.Duration) Option {
	return func(f *Fetcher) { f.timeout = d }
}

// WithEvents attaches a Sender that receives progress events; see NewSender.
func WithEvents(sender *Sender) Option {
	return func(f *Fetcher) { f.events = sender }
}

// WithLoggers directs timing and debug output to the given loggers. A nil
// argument leaves that logger unchanged (discarding by default).
func WithLoggers(timingLogger, debugLogger *log.Logger) Option {
	return func(f *Fetcher) {
		if timingLogger != nil {
			f.TimingsOut = timingLogger
		}
		if debugLogger != nil {
			f.DebugOut = debugLogger
		}
	}
}

// New returns a Fetcher configured with opts. Unconfigured fields default
// to ConcurrentFiles=4, segmented mode disabled, no timeout, discarded
// logs, and DefaultClient.
func New(opts ...Option) *Fetcher {
	f := &Fetcher{
		TimingsOut:      log.New(io.Discard, "", 0),
		DebugOut:        log.New(io.Discard, "", 0),
		client:          DefaultClient,
		concurrentFiles: 4,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}
