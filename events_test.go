package fetchtripper

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func Test_SenderNonBlockingOnFullBuffer(t *testing.T) {
	Convey("Given a Sender whose buffer is full, further sends are dropped rather than blocking", t, func() {
		sender, events := NewSender(1)
		sender.fetching("a")
		sender.fetching("b") // buffer full, dropped

		sender.Close()

		var received []FetchEvent
		for ev := range events {
			received = append(received, ev)
		}
		So(len(received), ShouldEqual, 1)
		So(received[0].Path, ShouldEqual, "a")
	})
}

func Test_SenderNilIsNoop(t *testing.T) {
	Convey("A nil Sender drops every event without panicking", t, func() {
		var sender *Sender
		So(func() {
			sender.fetching("x")
			sender.progress("x", 10)
			sender.fetched("x", nil)
			sender.Close()
		}, ShouldNotPanic)
	})
}

func Test_SenderDefaultsCapacity(t *testing.T) {
	Convey("A non-positive capacity falls back to a sensible default", t, func() {
		sender, events := NewSender(0)
		So(sender, ShouldNotBeNil)
		sender.Close()
		for range events {
		}
	})
}
