package profiler

import (
	"testing"
	"time"
)

func newTestProfiler(start time.Time, clock *time.Time) *Profiler {
	p := NewProfiler()
	p.lastTime = start
	p.now = func() time.Time { return *clock }
	return p
}

func TestTickBeforeInterval(t *testing.T) {
	start := time.Unix(100, 0)
	clock := start.Add(500 * time.Millisecond)
	p := newTestProfiler(start, &clock)

	if _, ok := p.Tick(); ok {
		t.Fatal("expected no report before the interval elapsed")
	}
	if p.frameCount != 1 {
		t.Errorf("expected frameCount 1, got %d", p.frameCount)
	}
}

func TestTickReportsFPSAndGI(t *testing.T) {
	start := time.Unix(100, 0)
	clock := start
	p := newTestProfiler(start, &clock)

	for i := 0; i < 9; i++ {
		if _, ok := p.Tick(); ok {
			t.Fatalf("unexpected report on tick %d", i)
		}
	}
	p.RecordGI(2 * time.Millisecond)
	p.RecordGI(4 * time.Millisecond)

	clock = start.Add(2 * time.Second)
	r, ok := p.Tick()
	if !ok {
		t.Fatal("expected a report after the interval elapsed")
	}
	if r.FPS != 5 {
		t.Errorf("expected 5 fps (10 frames over 2s), got %v", r.FPS)
	}
	if r.GIUpdates != 2 {
		t.Errorf("expected 2 GI updates, got %d", r.GIUpdates)
	}
	if r.GIAverage != 3*time.Millisecond {
		t.Errorf("expected 3ms average, got %v", r.GIAverage)
	}
	if r.GIMax != 4*time.Millisecond {
		t.Errorf("expected 4ms max, got %v", r.GIMax)
	}

	if p.frameCount != 0 || p.giCount != 0 || p.giTotal != 0 || p.giMax != 0 {
		t.Error("expected counters to reset after a report")
	}
	if !p.lastTime.Equal(clock) {
		t.Errorf("expected lastTime %v, got %v", clock, p.lastTime)
	}
}

func TestSetInterval(t *testing.T) {
	p := NewProfiler()
	p.SetInterval(0)
	if p.updateInterval != time.Second {
		t.Errorf("expected non-positive interval to be ignored, got %v", p.updateInterval)
	}
	p.SetInterval(250 * time.Millisecond)
	if p.updateInterval != 250*time.Millisecond {
		t.Errorf("expected 250ms, got %v", p.updateInterval)
	}
}
