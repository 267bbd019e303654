package fetchtripper

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/cognusion/go-recyclable"
)

var bufferPool = recyclable.NewBufferPool()

// rangeWriter is satisfied by *os.File and by *recyclable.Buffer, letting
// streamBody land each write at the offset it tracks itself rather than
// relying on the destination's own write cursor, whether the destination
// is a file or an in-memory buffer.
type rangeWriter interface {
	io.Writer
	io.WriterAt
}

// getResult carries the pieces of a response the caller needs once the
// body has been fully streamed.
type getResult struct {
	modified time.Time
	hasMod   bool
}

// get awaits req's response and, unless it's a 304, only then creates (or
// truncates) the file at path and streams the body into it, preallocated
// to expectedLen when known. Deferring file creation until the response is
// known not to be a 304 matters: path may be the destination's existing,
// still-current file, and the engine must never touch its content on a
// short-circuited conditional GET. Progress events are tagged with dest,
// the path the top-level caller is tracking this operation under.
func (f *Fetcher) get(req *http.Request, path, dest string, expectedLen uint64) (getResult, error) {
	ctx, cancel := context.WithCancel(req.Context())
	defer cancel()
	req = req.WithContext(ctx)

	res, result, done, err := f.awaitResponse(req, cancel)
	if err != nil {
		return getResult{}, err
	}
	defer res.Body.Close()
	if done {
		return result, nil
	}

	file, ferr := createFile(path)
	if ferr != nil {
		return getResult{}, ferr
	}
	defer file.Close()

	if expectedLen > 0 {
		if terr := file.Truncate(int64(expectedLen)); terr != nil {
			return getResult{}, &Error{Kind: ErrWrite, Path: path, Err: terr}
		}
	}

	return f.streamBody(res, file, dest, cancel, result)
}

// getToBuffer streams req's response body into a pooled in-memory buffer
// instead of a file. It exists for callers that want the bytes without
// touching the filesystem; the core fetch paths never use it themselves.
func (f *Fetcher) getToBuffer(req *http.Request, dest string) (*recyclable.Buffer, getResult, error) {
	ctx, cancel := context.WithCancel(req.Context())
	defer cancel()
	req = req.WithContext(ctx)

	res, result, done, err := f.awaitResponse(req, cancel)
	if err != nil {
		return nil, getResult{}, err
	}
	defer res.Body.Close()
	if done {
		return nil, result, nil
	}

	buf := bufferPool.Get()
	result, err = f.streamBody(res, buf, dest, cancel, result)
	if err != nil {
		buf.Close()
		return nil, getResult{}, err
	}
	return buf, result, nil
}

// awaitResponse submits req and classifies the response: status >= 300
// other than 304 is an error, 304 is reported via done=true with no body
// to read, and anything else returns the live response for the caller to
// stream. The caller owns closing res.Body in every non-error case.
func (f *Fetcher) awaitResponse(req *http.Request, cancel context.CancelFunc) (res *http.Response, result getResult, done bool, err error) {
	res, err = f.doWithTimeout(req, cancel)
	if err != nil {
		return nil, getResult{}, false, err
	}

	if res.StatusCode >= 300 && res.StatusCode != http.StatusNotModified {
		res.Body.Close()
		return nil, getResult{}, false, &Error{Kind: ErrStatus, Status: res.StatusCode}
	}

	if t, ok := lastModified(res.Header); ok {
		result.modified, result.hasMod = t, true
	}

	if res.StatusCode == http.StatusNotModified {
		return res, result, true, nil
	}
	return res, result, false, nil
}

// streamBody performs the actual timed read/write loop, shared by get and
// getToBuffer once a response with a body to read has been established.
func (f *Fetcher) streamBody(res *http.Response, out rangeWriter, dest string, cancel context.CancelFunc, result getResult) (getResult, error) {
	buf := make([]byte, 8*1024)
	var offset int64
	for {
		n, rerr := f.readWithTimeout(res.Body, buf, cancel)
		if n > 0 {
			if _, werr := out.WriteAt(buf[:n], offset); werr != nil {
				return getResult{}, &Error{Kind: ErrWrite, Path: dest, Err: werr}
			}
			offset += int64(n)
			f.events.progress(dest, n)
		}
		if rerr == io.EOF {
			break
		}
		if rerr != nil {
			return getResult{}, rerr
		}
	}
	return result, nil
}

// doWithTimeout awaits response headers, bounded by the Fetcher's configured
// timeout. On timeout it cancels ctx so the in-flight request unblocks
// before doWithTimeout returns, rather than leaving it to finish unobserved.
func (f *Fetcher) doWithTimeout(req *http.Request, cancel context.CancelFunc) (*http.Response, error) {
	if f.timeout <= 0 {
		res, err := f.client.Do(req)
		if err != nil {
			return nil, &Error{Kind: ErrClient, Err: err}
		}
		return res, nil
	}

	type result struct {
		res *http.Response
		err error
	}
	ch := make(chan result, 1)
	go func() {
		res, err := f.client.Do(req)
		ch <- result{res, err}
	}()

	select {
	case r := <-ch:
		if r.err != nil {
			return nil, &Error{Kind: ErrClient, Err: r.err}
		}
		return r.res, nil
	case <-time.After(f.timeout):
		cancel()
		<-ch
		return nil, &Error{Kind: ErrTimedOut}
	}
}

// readWithTimeout performs one buffered Read, bounded by the Fetcher's
// configured timeout, cancelling ctx (via cancel) on timeout for the same
// reason doWithTimeout does.
func (f *Fetcher) readWithTimeout(r io.Reader, buf []byte, cancel context.CancelFunc) (int, error) {
	if f.timeout <= 0 {
		n, err := r.Read(buf)
		if err != nil && err != io.EOF {
			return n, &Error{Kind: ErrWrite, Err: err}
		}
		return n, err
	}

	type result struct {
		n   int
		err error
	}
	ch := make(chan result, 1)
	go func() {
		n, err := r.Read(buf)
		ch <- result{n, err}
	}()

	select {
	case r := <-ch:
		if r.err != nil && r.err != io.EOF {
			return r.n, &Error{Kind: ErrWrite, Err: r.err}
		}
		return r.n, r.err
	case <-time.After(f.timeout):
		cancel()
		<-ch
		return 0, &Error{Kind: ErrTimedOut}
	}
}
