package pipeline

import (
	"sync"
	"testing"
	"time"
)

func TestTimingsAccumulateConcurrently(t *testing.T) {
	var tm Timings
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			tm.Add(StageParse, time.Millisecond)
		}()
	}
	wg.Wait()
	if got := tm.Duration(StageParse); got != 8*time.Millisecond {
		t.Fatalf("parse total = %v", got)
	}
	if tm.Has(StageWrite) {
		t.Fatal("write stage was never recorded")
	}
	var nilTimings *Timings
	nilTimings.Add(StageRead, time.Second)
	if nilTimings.Has(StageRead) || nilTimings.Duration(StageRead) != 0 {
		t.Fatal("nil Timings must be inert")
	}
}

func TestChannelSinkAndFinal(t *testing.T) {
	ch := make(chan Event, 1)
	Emit(ChannelSink{Ch: ch}, Event{File: "a.ps1", Status: StatusCached})
	ev := <-ch
	if ev.File != "a.ps1" || !ev.Status.Final() {
		t.Fatalf("unexpected event %+v", ev)
	}
	if StatusWorking.Final() || StatusQueued.Final() {
		t.Fatal("working and queued are not final")
	}
	Emit(nil, Event{})
	ChannelSink{}.OnEvent(Event{})
}
