package fetchtripper

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/fortytw2/leaktest"
	. "github.com/smartystreets/goconvey/convey"
)

func Test_Head(t *testing.T) {
	defer leaktest.Check(t)()

	Convey("Given a server answering HEAD with headers, head returns a response carrying them", t, func() {
		server := httptest.NewServer(http.HandlerFunc(func(rw http.ResponseWriter, req *http.Request) {
			rw.Header().Set("Content-Length", "1024")
			rw.Header().Set("Last-Modified", "Wed, 21 Oct 2015 07:28:00 GMT")
		}))
		defer server.Close()

		res, err := head(server.URL)
		So(err, ShouldBeNil)
		So(res, ShouldNotBeNil)
		res.Body.Close()

		cl, ok := contentLength(res.Header)
		So(ok, ShouldBeTrue)
		So(cl, ShouldEqual, 1024)

		lm, ok := lastModified(res.Header)
		So(ok, ShouldBeTrue)
		So(lm.Unix(), ShouldEqual, 1445412480)
	})

	Convey("Given a server answering HEAD with 501, head degrades to a nil response and nil error", t, func() {
		server := httptest.NewServer(http.HandlerFunc(func(rw http.ResponseWriter, req *http.Request) {
			rw.WriteHeader(http.StatusNotImplemented)
		}))
		defer server.Close()

		res, err := head(server.URL)
		So(err, ShouldBeNil)
		So(res, ShouldBeNil)
	})

	Convey("Given a server answering HEAD with a 500, head fails with Status", t, func() {
		server := httptest.NewServer(http.HandlerFunc(func(rw http.ResponseWriter, req *http.Request) {
			rw.WriteHeader(http.StatusInternalServerError)
		}))
		defer server.Close()

		_, err := head(server.URL)
		So(err, ShouldNotBeNil)
		So(err.(*Error).Kind, ShouldEqual, ErrStatus)
		So(err.(*Error).Status, ShouldEqual, 500)
	})
}

func Test_ContentLengthUnparseable(t *testing.T) {
	Convey("Given an unparseable or absent Content-Length, contentLength reports absent", t, func() {
		h := http.Header{}
		_, ok := contentLength(h)
		So(ok, ShouldBeFalse)

		h.Set("Content-Length", "not-a-number")
		_, ok = contentLength(h)
		So(ok, ShouldBeFalse)
	})
}

func Test_LastModifiedUnparseable(t *testing.T) {
	Convey("Given an unparseable or absent Last-Modified, lastModified reports absent", t, func() {
		h := http.Header{}
		_, ok := lastModified(h)
		So(ok, ShouldBeFalse)

		h.Set("Last-Modified", "not-a-date")
		_, ok = lastModified(h)
		So(ok, ShouldBeFalse)
	})
}

func Test_SupportsRange(t *testing.T) {
	defer leaktest.Check(t)()

	Convey("Given a server answering a ranged HEAD with 206, supportsRange is true", t, func() {
		server := httptest.NewServer(http.HandlerFunc(func(rw http.ResponseWriter, req *http.Request) {
			rw.WriteHeader(http.StatusPartialContent)
		}))
		defer server.Close()

		ok, err := supportsRange(server.URL, 100)
		So(err, ShouldBeNil)
		So(ok, ShouldBeTrue)
	})

	Convey("Given a server answering a ranged HEAD with plain 200, supportsRange is false", t, func() {
		server := httptest.NewServer(http.HandlerFunc(func(rw http.ResponseWriter, req *http.Request) {
			rw.WriteHeader(http.StatusOK)
		}))
		defer server.Close()

		ok, err := supportsRange(server.URL, 100)
		So(err, ShouldBeNil)
		So(ok, ShouldBeFalse)
	})

	Convey("Given a server answering a ranged HEAD with an error status, supportsRange propagates it", t, func() {
		server := httptest.NewServer(http.HandlerFunc(func(rw http.ResponseWriter, req *http.Request) {
			rw.WriteHeader(http.StatusForbidden)
		}))
		defer server.Close()

		_, err := supportsRange(server.URL, 100)
		So(err, ShouldNotBeNil)
		So(err.(*Error).Kind, ShouldEqual, ErrStatus)
	})
}
