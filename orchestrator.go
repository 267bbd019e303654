package fetchtripper

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/cognusion/go-timings"
)

// Request fetches the logical file reachable at any of urls to the
// destination path to. It decides, in order:
//
//  1. If to already exists and the remote reports matching size and
//     Last-Modified, it does nothing and returns nil.
//  2. If segmented mode is enabled and the remote's Content-Length and
//     range support can both be confirmed, it runs a range-parallel
//     segmented fetch.
//  3. Otherwise it falls back to a plain single-stream GET, retrying once
//     without a conditional header if the first attempt draws a 501.
//
// Whichever path succeeds, a known Last-Modified is applied to to's mtime
// before returning.
func (f *Fetcher) Request(urls []string, to string) error {
	dlid := seq.NextHashID()
	defer timings.Track(fmt.Sprintf("[%s] Request %s", dlid, to), time.Now(), f.TimingsOut)

	var (
		modified        time.Time
		hasModified     bool
		ifModifiedSince string
		knownLength     uint64
		hasKnownLength  bool
	)

	if _, statErr := os.Stat(to); statErr == nil {
		hres, herr := head(urls[0])
		if herr != nil {
			return herr
		}
		if hres != nil {
			hres.Body.Close()
			cl, hasCL := contentLength(hres.Header)
			lm, hasLM := lastModified(hres.Header)

			if hasCL && hasLM {
				info, statErr2 := os.Stat(to)
				if statErr2 == nil {
					if uint64(info.Size()) == cl && info.ModTime().UTC().Truncate(time.Second).Equal(lm.Truncate(time.Second)) {
						f.DebugOut.Printf("[%s] %s is current, skipping\n", dlid, to)
						return nil
					}
					ifModifiedSince = info.ModTime().UTC().Format(http.TimeFormat)
					knownLength, hasKnownLength = cl, true
					modified, hasModified = lm, true
				} else if rerr := os.Remove(to); rerr != nil {
					return &Error{Kind: ErrMetadataRemove, Path: to, Err: rerr}
				}
			}
		}
	}

	if f.connectionsPerFile > 1 {
		hres, herr := head(urls[0])
		if herr != nil {
			return herr
		}
		if hres != nil {
			hres.Body.Close()

			length := knownLength
			if !hasKnownLength {
				if cl, ok := contentLength(hres.Header); ok {
					length, hasKnownLength = cl, true
				}
			}
			if lm, ok := lastModified(hres.Header); ok {
				modified, hasModified = lm, true
			}

			if hasKnownLength && length > 0 {
				ok, serr := supportsRange(urls[0], length)
				if serr != nil {
					return serr
				}
				if ok {
					f.DebugOut.Printf("[%s] %s supports ranges, Content-Length %d, %d connections\n", dlid, to, length, f.connectionsPerFile)
					f.events.contentLength(to, length)
					return f.getMany(dlid, length, f.connectionsPerFile, urls, to, hasModified, modified)
				}
			}
		}
	}

	req, err := http.NewRequest(http.MethodGet, urls[0], nil)
	if err != nil {
		return &Error{Kind: ErrClient, Err: err}
	}
	if ifModifiedSince != "" {
		req.Header.Set("If-Modified-Since", ifModifiedSince)
	}

	result, gerr := f.get(req, to, to, 0)
	if gerr != nil {
		fe, isFetchErr := gerr.(*Error)
		if isFetchErr && fe.Kind == ErrStatus && fe.Status == http.StatusNotImplemented && ifModifiedSince != "" {
			req2, err2 := http.NewRequest(http.MethodGet, urls[0], nil)
			if err2 != nil {
				return &Error{Kind: ErrClient, Err: err2}
			}
			result, gerr = f.get(req2, to, to, 0)
			if gerr != nil {
				return gerr
			}
		} else {
			return gerr
		}
	}

	if !hasModified && result.hasMod {
		modified, hasModified = result.modified, true
	}

	if hasModified {
		return setFileTime(to, modified)
	}
	return nil
}
