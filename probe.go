package fetchtripper

import (
	"net/http"
	"strconv"
	"time"
)

// head issues a HEAD request for url using http.DefaultClient, deliberately
// bypassing the Fetcher's configured Client, so each probe is sent exactly
// once with no retry policy applied to its status code. A nil
// response with a nil error means the server answered 501 Not Implemented,
// the "capability absent" signal; any other status >= 300 is a Status error.
func head(url string) (*http.Response, error) {
	req, err := http.NewRequest(http.MethodHead, url, nil)
	if err != nil {
		return nil, &Error{Kind: ErrClient, Err: err}
	}

	res, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, &Error{Kind: ErrClient, Err: err}
	}

	if res.StatusCode == http.StatusNotImplemented {
		res.Body.Close()
		return nil, nil
	}
	if res.StatusCode >= 300 {
		res.Body.Close()
		return nil, &Error{Kind: ErrStatus, Status: res.StatusCode}
	}
	return res, nil
}

// contentLength parses the Content-Length header, ignoring unparseable or
// absent values.
func contentLength(h http.Header) (uint64, bool) {
	v := h.Get("Content-Length")
	if v == "" {
		return 0, false
	}
	n, err := strconv.ParseUint(v, 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

// lastModified parses the Last-Modified header, ignoring unparseable or
// absent values, and normalizes the result to UTC.
func lastModified(h http.Header) (time.Time, bool) {
	v := h.Get("Last-Modified")
	if v == "" {
		return time.Time{}, false
	}
	t, err := http.ParseTime(v)
	if err != nil {
		return time.Time{}, false
	}
	return t.UTC(), true
}

// supportsRange probes whether url honors byte-range requests by issuing a
// HEAD for the full-file range. A 206 response means yes; any other 2xx
// means no; anything >= 300 surfaces as a Status error.
func supportsRange(url string, length uint64) (bool, error) {
	req, err := http.NewRequest(http.MethodHead, url, nil)
	if err != nil {
		return false, &Error{Kind: ErrClient, Err: err}
	}
	req.Header.Set("Range", rangeHeader(0, length))

	res, err := http.DefaultClient.Do(req)
	if err != nil {
		return false, &Error{Kind: ErrClient, Err: err}
	}
	defer res.Body.Close()

	if res.StatusCode == http.StatusPartialContent {
		return true, nil
	}
	if res.StatusCode >= 300 {
		return false, &Error{Kind: ErrStatus, Status: res.StatusCode}
	}
	return false, nil
}
