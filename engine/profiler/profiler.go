package profiler

import (
	"runtime"
	"time"

	"github.com/Carmen-Shannon/oxy-gi/common"
)

// Profiler tracks frame rate, GI update cost and memory statistics for performance monitoring.
// Outputs stats to the engine logger at a configurable interval.
type Profiler struct {
	frameCount     int
	lastTime       time.Time
	updateInterval time.Duration
	memStats       runtime.MemStats
	lastGCCount    uint32
	lastTotalAlloc uint64

	giCount int
	giTotal time.Duration
	giMax   time.Duration

	now func() time.Time
}

// Report is the set of statistics gathered over one profiler interval.
type Report struct {
	FPS         float64
	HeapMB      float64
	AllocRateMB float64
	SysMB       float64
	GCCount     uint32
	LastPauseUs uint64
	MaxPauseUs  uint64

	// GIUpdates is the number of GI updates recorded in the interval.
	GIUpdates int
	// GIAverage and GIMax are the mean and worst GI update durations of the interval.
	GIAverage time.Duration
	GIMax     time.Duration
}

// NewProfiler creates a new Profiler with default settings.
// Update interval defaults to 1 second.
//
// Returns:
//   - *Profiler: the newly created profiler instance
func NewProfiler() *Profiler {
	return &Profiler{
		lastTime:       time.Now(),
		updateInterval: time.Second,
		now:            time.Now,
	}
}

// SetInterval changes how often stats are reported. Non-positive values are ignored.
//
// Parameters:
//   - d: the reporting interval
func (p *Profiler) SetInterval(d time.Duration) {
	if d > 0 {
		p.updateInterval = d
	}
}

// RecordGI adds the duration of one GI update to the current interval.
//
// Parameters:
//   - d: how long the update took
func (p *Profiler) RecordGI(d time.Duration) {
	p.giCount++
	p.giTotal += d
	if d > p.giMax {
		p.giMax = d
	}
}

// Tick should be called once per frame to track frame timing.
// Logs performance statistics when the update interval has elapsed.
// Statistics include: FPS, GI update time, heap usage, allocation rate, GC count/pause times, total memory.
//
// Returns:
//   - Report: the statistics of the interval that just closed, zero if none closed
//   - bool: true if stats were logged this tick, false otherwise
func (p *Profiler) Tick() (Report, bool) {
	p.frameCount++
	currentTime := p.now()
	elapsed := currentTime.Sub(p.lastTime)

	if elapsed < p.updateInterval {
		return Report{}, false
	}

	r := Report{
		FPS:       float64(p.frameCount) / elapsed.Seconds(),
		GIUpdates: p.giCount,
		GIMax:     p.giMax,
	}
	if p.giCount > 0 {
		r.GIAverage = p.giTotal / time.Duration(p.giCount)
	}

	runtime.ReadMemStats(&p.memStats)
	r.HeapMB = float64(p.memStats.Alloc) / 1024 / 1024
	r.SysMB = float64(p.memStats.Sys) / 1024 / 1024

	// TotalAlloc only grows, so the delta is the churn of this interval.
	allocDelta := p.memStats.TotalAlloc - p.lastTotalAlloc
	r.AllocRateMB = float64(allocDelta) / 1024 / 1024 / elapsed.Seconds()

	r.GCCount = p.memStats.NumGC
	if r.GCCount > 0 {
		// PauseNs is a circular buffer of last 256 GC pauses
		r.LastPauseUs = p.memStats.PauseNs[(r.GCCount-1)%256] / 1000

		startIdx := p.lastGCCount
		if r.GCCount-startIdx > 256 {
			startIdx = r.GCCount - 256
		}
		for i := startIdx; i < r.GCCount; i++ {
			pause := p.memStats.PauseNs[i%256] / 1000
			if pause > r.MaxPauseUs {
				r.MaxPauseUs = pause
			}
		}
	}

	common.Logger().Info("profiler",
		"fps", r.FPS,
		"gi_updates", r.GIUpdates,
		"gi_avg", r.GIAverage,
		"gi_max", r.GIMax,
		"heap_mb", r.HeapMB,
		"alloc_rate_mb", r.AllocRateMB,
		"gc", r.GCCount,
		"gc_last_us", r.LastPauseUs,
		"gc_max_us", r.MaxPauseUs,
		"sys_mb", r.SysMB,
	)

	p.frameCount = 0
	p.lastTime = currentTime
	p.lastGCCount = r.GCCount
	p.lastTotalAlloc = p.memStats.TotalAlloc
	p.giCount = 0
	p.giTotal = 0
	p.giMax = 0
	return r, true
}
