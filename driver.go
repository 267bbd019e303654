package fetchtripper

import (
	"os"
	"sync"

	"github.com/cognusion/semaphore"
	"go.uber.org/atomic"
)

// Source is one fetch job: one or more equivalent URLs for a logical file,
// a final destination path, and an optional staging path. When Part is
// set, FromStream writes there first and renames to Dest only once the
// fetch has succeeded, so a crash mid-download never leaves a partial file
// at Dest.
type Source struct {
	URLs []string
	Dest string
	Part string
}

// FromStream consumes sources and runs up to ConcurrentFiles of them in
// parallel, bounded by a counting semaphore. It emits a Fetching event
// before each job starts and exactly one terminal Fetched event per job
// regardless of outcome. FromStream returns once sources is closed and
// every dispatched job has produced its terminal event.
func (f *Fetcher) FromStream(sources <-chan Source) {
	concurrent := f.concurrentFiles
	if concurrent < 1 {
		concurrent = 4
	}
	sem := semaphore.NewSemaphore(concurrent)

	var active atomic.Int64
	var wg sync.WaitGroup

	for source := range sources {
		sem.Lock()
		wg.Add(1)

		go func(src Source) {
			defer wg.Done()
			defer sem.Unlock()
			defer active.Dec()

			active.Inc()
			f.DebugOut.Printf("fetching %s (%d/%d active)\n", src.Dest, active.Load(), concurrent)
			f.events.fetching(src.Dest)

			to := src.Dest
			if src.Part != "" {
				to = src.Part
			}

			err := f.Request(src.URLs, to)
			if err == nil && src.Part != "" {
				if rerr := os.Rename(src.Part, src.Dest); rerr != nil {
					err = &Error{Kind: ErrRename, Path: src.Dest, Err: rerr}
				}
			}

			f.events.fetched(src.Dest, err)
		}(source)
	}

	wg.Wait()
}
