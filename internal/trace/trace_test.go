package trace

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"sync"
	"testing"
	"time"
)

func TestStreamTracerFiltersByLevel(t *testing.T) {
	var buf bytes.Buffer
	tr := NewStreamTracer(&buf, LevelFile, FormatText)

	span := Begin(tr, ScopeFile, "a.ps1", 0)
	Begin(tr, ScopePass, "parse", span.ID()).End("")
	span.WithExtra("changed", "true").End("ok")

	out := buf.String()
	if !strings.Contains(out, "→ a.ps1") || !strings.Contains(out, "← a.ps1 (ok) {changed=true}") {
		t.Fatalf("missing file span:\n%s", out)
	}
	if strings.Contains(out, "parse") {
		t.Fatalf("pass events must be filtered at file level:\n%s", out)
	}
}

func TestNDJSONFormat(t *testing.T) {
	var buf bytes.Buffer
	tr := NewStreamTracer(&buf, LevelPass, FormatNDJSON)
	Point(tr, ScopePass, "cache", "hit", 7)

	var got map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &got); err != nil {
		t.Fatalf("invalid json %q: %v", buf.String(), err)
	}
	if got["kind"] != "point" || got["name"] != "cache" || got["detail"] != "hit" {
		t.Fatalf("unexpected event %v", got)
	}
}

func TestRingTracerWrapsAndDumps(t *testing.T) {
	ring := NewRingTracer(2, LevelPass)
	for _, name := range []string{"a", "b", "c"} {
		Point(ring, ScopeFile, name, "", 0)
	}
	snap := ring.Snapshot()
	if len(snap) != 2 || snap[0].Name != "b" || snap[1].Name != "c" {
		t.Fatalf("snapshot = %+v", snap)
	}
	var buf bytes.Buffer
	var d Dumper = ring
	if err := d.Dump(&buf, FormatText); err != nil {
		t.Fatal(err)
	}
	if strings.Count(buf.String(), "\n") != 2 {
		t.Fatalf("dump:\n%s", buf.String())
	}
}

func TestLevelsAndContext(t *testing.T) {
	for _, name := range []string{"off", "run", "FILE", " pass "} {
		if _, err := ParseLevel(name); err != nil {
			t.Fatalf("ParseLevel(%q): %v", name, err)
		}
	}
	if _, err := ParseLevel("phase"); err == nil {
		t.Fatal("expected error for unknown level")
	}
	if LevelRun.ShouldEmit(ScopeFile) || !LevelRun.ShouldEmit(ScopeStage) {
		t.Fatal("run level must stop at stages")
	}

	if FromContext(context.Background()) != Nop {
		t.Fatal("empty context must yield Nop")
	}
	ring := NewRingTracer(4, LevelRun)
	ctx := WithTracer(context.Background(), ring)
	if FromContext(ctx) != Tracer(ring) {
		t.Fatal("tracer not propagated")
	}

	tr, err := New(Config{Level: LevelOff})
	if err != nil || tr.Enabled() {
		t.Fatalf("off level must give a disabled tracer: %v", err)
	}
	if span := Begin(tr, ScopeRun, "fmt", 0); span.End("") != 0 {
		t.Fatal("nop span must report zero duration")
	}
}

func TestStartSpanNestsUnderContext(t *testing.T) {
	ring := NewRingTracer(16, LevelPass)
	ctx := WithTracer(context.Background(), ring)

	runCtx, run := StartSpan(ctx, ScopeRun, "run")
	fileCtx, file := StartSpan(runCtx, ScopeFile, "a.ps1")
	if ParentID(fileCtx) != file.ID() || ParentID(runCtx) != run.ID() {
		t.Fatal("span not stored in context")
	}
	file.End("done")
	file.End("again")
	run.End("")

	var ends []Event
	for _, ev := range ring.Snapshot() {
		if ev.Kind == KindSpanEnd {
			ends = append(ends, ev)
		}
	}
	if len(ends) != 2 {
		t.Fatalf("span must end once: %+v", ends)
	}
	if ends[0].ParentID != run.ID() || ends[1].ParentID != 0 {
		t.Fatalf("unexpected parents: %+v", ends)
	}
}

func TestStartSpanSkipsFilteredScope(t *testing.T) {
	ring := NewRingTracer(16, LevelRun)
	ctx := WithTracer(context.Background(), ring)

	runCtx, run := StartSpan(ctx, ScopeRun, "run")
	fileCtx, file := StartSpan(runCtx, ScopeFile, "a.ps1")
	if file.ID() != 0 || ParentID(fileCtx) != run.ID() {
		t.Fatal("filtered span must keep the parent of its context")
	}
	file.End("done")
	run.End("")
	if n := len(ring.Snapshot()); n != 2 {
		t.Fatalf("want run begin and end only, got %d events", n)
	}
}

func TestHeartbeatReportsOpenSpans(t *testing.T) {
	var buf syncBuffer
	tr := NewStreamTracer(&buf, LevelRun, FormatText)
	span := Begin(tr, ScopeRun, "run", 0)
	hb := StartHeartbeat(tr, time.Millisecond)
	deadline := time.Now().Add(2 * time.Second)
	for !strings.Contains(buf.String(), "heartbeat") && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	hb.Stop()
	hb.Stop()
	span.End("")
	if !strings.Contains(buf.String(), "open=") {
		t.Fatalf("no heartbeat:\n%s", buf.String())
	}
	var nilBeat *Heartbeat
	nilBeat.Stop()
}

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}
