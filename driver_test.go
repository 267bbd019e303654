package fetchtripper

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/fortytw2/leaktest"
	. "github.com/smartystreets/goconvey/convey"
	"go.uber.org/atomic"
)

func Test_FromStreamBoundedConcurrency(t *testing.T) {
	defer leaktest.Check(t)()

	Convey("Given ConcurrentFiles=2 and 5 jobs, at no point are more than 2 jobs in flight, and each job gets one Fetched", t, func() {
		var active atomic.Int64
		var maxActive atomic.Int64

		server := httptest.NewServer(http.HandlerFunc(func(rw http.ResponseWriter, req *http.Request) {
			n := active.Inc()
			for {
				cur := maxActive.Load()
				if n <= cur || maxActive.CAS(cur, n) {
					break
				}
			}
			time.Sleep(20 * time.Millisecond)
			rw.Write([]byte("ok"))
			active.Dec()
		}))
		defer server.Close()

		dir := t.TempDir()
		sender, events := NewSender(64)
		f := New(WithConcurrentFiles(2), WithEvents(sender))

		sources := make(chan Source)
		go func() {
			defer close(sources)
			for i := 0; i < 5; i++ {
				sources <- Source{
					URLs: []string{server.URL},
					Dest: filepath.Join(dir, "f"+string(rune('0'+i))),
				}
			}
		}()

		var wg sync.WaitGroup
		fetchedCount := make(map[string]int)
		var mu sync.Mutex
		wg.Add(1)
		go func() {
			defer wg.Done()
			for ev := range events {
				if ev.Kind == EventFetched {
					mu.Lock()
					fetchedCount[ev.Path]++
					mu.Unlock()
				}
			}
		}()

		f.FromStream(sources)
		sender.Close()
		wg.Wait()

		So(maxActive.Load(), ShouldBeLessThanOrEqualTo, 2)
		So(len(fetchedCount), ShouldEqual, 5)
		for _, n := range fetchedCount {
			So(n, ShouldEqual, 1)
		}
	})
}

func Test_FromStreamPartRename(t *testing.T) {
	defer leaktest.Check(t)()

	Convey("Given a job with Part set, FromStream writes to Part and renames to Dest on success", t, func() {
		server := httptest.NewServer(http.HandlerFunc(func(rw http.ResponseWriter, req *http.Request) {
			rw.Write([]byte("payload"))
		}))
		defer server.Close()

		dir := t.TempDir()
		dest := filepath.Join(dir, "final")
		part := filepath.Join(dir, "staging")

		f := New()
		sources := make(chan Source, 1)
		sources <- Source{URLs: []string{server.URL}, Dest: dest, Part: part}
		close(sources)

		f.FromStream(sources)

		_, err := os.Stat(part)
		So(os.IsNotExist(err), ShouldBeTrue)

		contents, rerr := os.ReadFile(dest)
		So(rerr, ShouldBeNil)
		So(string(contents), ShouldEqual, "payload")
	})
}

func Test_FromStreamNeverAbortsOnFailure(t *testing.T) {
	defer leaktest.Check(t)()

	Convey("Given one job's server always errors, FromStream still runs every job to its terminal event", t, func() {
		badServer := httptest.NewServer(http.HandlerFunc(func(rw http.ResponseWriter, req *http.Request) {
			rw.WriteHeader(http.StatusInternalServerError)
		}))
		defer badServer.Close()

		goodServer := httptest.NewServer(http.HandlerFunc(func(rw http.ResponseWriter, req *http.Request) {
			rw.Write([]byte("ok"))
		}))
		defer goodServer.Close()

		dir := t.TempDir()
		sender, events := NewSender(64)
		f := New(WithEvents(sender), WithClient(&http.Client{}))

		sources := make(chan Source, 2)
		sources <- Source{URLs: []string{badServer.URL}, Dest: filepath.Join(dir, "bad")}
		sources <- Source{URLs: []string{goodServer.URL}, Dest: filepath.Join(dir, "good")}
		close(sources)

		results := make(map[string]error)
		var mu sync.Mutex
		done := make(chan struct{})
		go func() {
			defer close(done)
			for ev := range events {
				if ev.Kind == EventFetched {
					mu.Lock()
					results[ev.Path] = ev.Err
					mu.Unlock()
				}
			}
		}()

		f.FromStream(sources)
		sender.Close()
		<-done

		So(len(results), ShouldEqual, 2)
		So(results[filepath.Join(dir, "bad")], ShouldNotBeNil)
		So(results[filepath.Join(dir, "good")], ShouldBeNil)
	})
}
