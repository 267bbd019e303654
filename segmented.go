package fetchtripper

import (
	"fmt"
	"net/http"
	"path/filepath"
	"time"

	"github.com/cognusion/go-timings"
)

// getMany splits a length-byte file into parts concurrent ranged GETs
// against urls (round-robin by part index when len(urls) < parts),
// dispatches all of them eagerly, and assembles the results into to in
// strictly ascending part-index order as each part completes. Downloading
// is concurrent; concatenation is serialized by awaiting parts in order,
// so a failure on an earlier part is reported without waiting on later
// ones, even though their downloads may still be running in the
// background.
func (f *Fetcher) getMany(dlid string, length uint64, parts uint16, urls []string, to string, hasModified bool, modified time.Time) error {
	defer timings.Track(fmt.Sprintf("[%s] getMany %s (%d parts)", dlid, to, parts), time.Now(), f.TimingsOut)

	if to == "" || to == string(filepath.Separator) {
		return &Error{Kind: ErrParentless, Path: to}
	}

	parent := filepath.Dir(to)
	filename := filepath.Base(to)
	if filename == "" || filename == "." || filename == string(filepath.Separator) {
		return &Error{Kind: ErrNameless, Path: to}
	}

	final, err := createFile(to)
	if err != nil {
		return err
	}
	defer final.Close()

	type partOutcome struct {
		path string
		err  error
	}
	outcomes := make([]chan partOutcome, parts)
	for i := range outcomes {
		outcomes[i] = make(chan partOutcome, 1)
	}

	for i := uint16(0); i < parts; i++ {
		go func(index uint16) {
			offset, offsetTo, rerr := byteRange(length, uint64(parts), uint64(index))
			if rerr != nil {
				offset, offsetTo = 0, 0
			}
			if offsetTo == offset {
				// A zero-length part has no valid Range serialization;
				// it contributes no bytes and no side file.
				f.events.partFetching(to, index)
				f.events.partFetched(to, index)
				outcomes[index] <- partOutcome{}
				return
			}

			partPath := filepath.Join(parent, fmt.Sprintf("%s.part%d", filename, index))
			url := urls[int(index)%len(urls)]

			req, rerr := http.NewRequest(http.MethodGet, url, nil)
			if rerr != nil {
				outcomes[index] <- partOutcome{err: &Error{Kind: ErrClient, Err: rerr}}
				return
			}
			req.Header.Set("Range", rangeHeader(offset, offsetTo))

			f.DebugOut.Printf("[%s] part %d: %s\n", dlid, index, rangeHeader(offset, offsetTo))
			f.events.partFetching(to, index)
			_, gerr := f.get(req, partPath, to, offsetTo-offset)
			f.events.partFetched(to, index)

			if gerr != nil {
				outcomes[index] <- partOutcome{err: gerr}
				return
			}
			outcomes[index] <- partOutcome{path: partPath}
		}(i)
	}

	for i := uint16(0); i < parts; i++ {
		outcome := <-outcomes[i]
		if outcome.err != nil {
			return outcome.err
		}
		if outcome.path == "" {
			continue
		}
		if err := f.concatenate(final, outcome.path); err != nil {
			return err
		}
		f.DebugOut.Printf("[%s] part %d assembled into %s\n", dlid, i, to)
	}

	if hasModified {
		return setFileTime(to, modified)
	}
	return nil
}
