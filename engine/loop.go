package engine

import (
	"time"

	"github.com/Carmen-Shannon/oxy-gi/common"
)

const defaultTickRate = 60

// interval converts a rate in Hz to a period. Non-positive rates yield 0.
func interval(hz float64) time.Duration {
	if hz <= 0 {
		return 0
	}
	return time.Duration(float64(time.Second) / hz)
}

// stopwatch measures the time between consecutive laps.
type stopwatch struct {
	last time.Time
}

func newStopwatch() stopwatch {
	return stopwatch{last: time.Now()}
}

// lap returns the seconds since the previous lap.
func (s *stopwatch) lap() float32 {
	now := time.Now()
	dt := float32(now.Sub(s.last).Seconds())
	s.last = now
	return dt
}

func (e *engine) Run() {
	e.running.Store(true)
	e.wg.Add(2)
	go e.tickLoop()
	go e.renderLoop()

	e.window.ProcessMessages()
	e.stop()
	e.wg.Wait()
}

func (e *engine) Quit() {
	e.stop()
}

// stop closes done exactly once.
func (e *engine) stop() {
	e.stopOnce.Do(func() {
		e.running.Store(false)
		close(e.done)
	})
}

// tickLoop runs step at the tick rate until done. Rate changes arrive on rateUpdates.
func (e *engine) tickLoop() {
	defer e.wg.Done()

	ticker := time.NewTicker(e.tickInterval)
	defer ticker.Stop()
	clock := newStopwatch()

	for {
		select {
		case <-e.done:
			return
		case d := <-e.rateUpdates:
			ticker.Reset(d)
			e.tickInterval = d
		case <-ticker.C:
			dt := clock.lap()
			e.step(dt)
			if e.tickCallback != nil {
				e.tickCallback(dt)
			}
		}
	}
}

// renderLoop draws as fast as the present mode allows, or at most once per minFrameTime.
// A panic while drawing stops the engine instead of crashing the process.
func (e *engine) renderLoop() {
	defer e.wg.Done()
	defer func() {
		if r := recover(); r != nil {
			common.Logger().Error("engine: render loop panicked", "panic", r)
			e.stop()
		}
	}()

	clock := newStopwatch()
	for {
		select {
		case <-e.done:
			return
		default:
		}

		dt := clock.lap()
		e.drawFrame()
		if e.renderCallback != nil {
			e.renderCallback(dt)
		}

		e.mu.Lock()
		if e.profilingEnabled {
			e.profiler.Tick()
		}
		e.mu.Unlock()

		if e.minFrameTime > 0 {
			if rest := e.minFrameTime - time.Since(clock.last); rest > 0 {
				time.Sleep(rest)
			}
		}
	}
}

// drawFrame uploads pending GI light and renders one frame from the current camera.
func (e *engine) drawFrame() {
	e.syncRenderer()
	if e.renderer == nil {
		return
	}
	e.camera.Update()
	e.renderer.SetViewProjection(e.camera.ViewProjectionMatrix())
	if err := e.renderer.Render(); err != nil {
		common.Logger().Debug("engine: frame skipped", "err", err)
	}
}

// SetTickRate changes the tick rate, taking effect on the next tick when running.
// Non-positive rates select 60 Hz.
func (e *engine) SetTickRate(hz float64) {
	if hz <= 0 {
		hz = defaultTickRate
	}
	d := interval(hz)

	if !e.running.Load() {
		e.tickInterval = d
		return
	}
	// Replace any update the loop has not picked up yet.
	for {
		select {
		case e.rateUpdates <- d:
			return
		default:
			select {
			case <-e.rateUpdates:
			default:
			}
		}
	}
}

func (e *engine) SetTickCallback(callback func(deltaTime float32)) {
	e.tickCallback = callback
}

func (e *engine) SetRenderCallback(callback func(deltaTime float32)) {
	e.renderCallback = callback
}

// SetRenderFrameLimit caps the render loop at hz frames per second; 0 removes the cap.
func (e *engine) SetRenderFrameLimit(hz float64) {
	e.minFrameTime = interval(hz)
}

func (e *engine) EnableProfiler() {
	e.mu.Lock()
	e.profilingEnabled = true
	e.mu.Unlock()
}

func (e *engine) DisableProfiler() {
	e.mu.Lock()
	e.profilingEnabled = false
	e.mu.Unlock()
}
