package main

import (
	"fmt"
	"sync"

	"github.com/cheggaaa/pb/v3"
	"github.com/fatih/color"

	"github.com/cognusion/go-fetchtripper"
)

// renderEvents drains events until the channel is closed (i.e. until every
// dispatched job has produced its terminal Fetched event) and reports
// whether any job failed.
func renderEvents(events <-chan fetchtripper.FetchEvent, plain bool) bool {
	if plain {
		return renderPlain(events)
	}
	return renderBars(events)
}

// renderPlain prints one colorized log line per event, for non-TTY output
// or when --plain is passed.
func renderPlain(events <-chan fetchtripper.FetchEvent) bool {
	var failed bool
	for ev := range events {
		switch ev.Kind {
		case fetchtripper.EventFetching:
			fmt.Printf("fetching %s\n", ev.Path)
		case fetchtripper.EventContentLength:
			fmt.Printf("%s: %d bytes\n", ev.Path, ev.Length)
		case fetchtripper.EventPartFetching:
			fmt.Printf("%s: part %d started\n", ev.Path, ev.Index)
		case fetchtripper.EventPartFetched:
			fmt.Printf("%s: part %d finished\n", ev.Path, ev.Index)
		case fetchtripper.EventFetched:
			if ev.Err != nil {
				failed = true
				fmt.Println(color.RedString("failed %s: %v", ev.Path, ev.Err))
			} else {
				fmt.Println(color.GreenString("done %s", ev.Path))
			}
		}
	}
	return failed
}

// renderBars drives a cheggaaa/pb/v3 multi-bar pool, one bar per
// destination, added the first time that destination is mentioned and
// finished on its terminal Fetched event.
func renderBars(events <-chan fetchtripper.FetchEvent) bool {
	pool, err := pb.StartPool()
	if err != nil {
		return renderPlain(events)
	}
	defer pool.Stop()

	var mu sync.Mutex
	bars := make(map[string]*pb.ProgressBar)

	barFor := func(path string) *pb.ProgressBar {
		mu.Lock()
		defer mu.Unlock()
		if bar, ok := bars[path]; ok {
			return bar
		}
		bar := pb.New64(0)
		bar.Set(pb.Bytes, true)
		bar.SetTemplateString(path + `: {{counters . }} {{bar . }} {{speed . }}`)
		bars[path] = bar
		pool.Add(bar)
		return bar
	}

	var failed bool
	for ev := range events {
		switch ev.Kind {
		case fetchtripper.EventContentLength:
			barFor(ev.Path).SetTotal(int64(ev.Length))
		case fetchtripper.EventFetching:
			barFor(ev.Path)
		case fetchtripper.EventProgress:
			barFor(ev.Path).Add(ev.Bytes)
		case fetchtripper.EventFetched:
			bar := barFor(ev.Path)
			label := color.GreenString("ok")
			if ev.Err != nil {
				failed = true
				label = color.RedString("failed: %v", ev.Err)
			}
			bar.SetTemplateString(fmt.Sprintf("%s: %s", ev.Path, label))
			bar.Finish()
		}
	}
	return failed
}
