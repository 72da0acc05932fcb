package engine

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/Carmen-Shannon/oxy-skeletal/engine/profiler"
	"github.com/Carmen-Shannon/oxy-skeletal/engine/window"
)

// engine implements the Engine interface.
// Runs window polling, ticking, and rendering on the calling goroutine, in that order each frame.
type engine struct {
	window window.Window

	profiler         *profiler.Profiler
	profilingEnabled bool

	tickRate       time.Duration
	frameLimit     int
	frames         int
	tickCallback   func(deltaTime float32)
	renderCallback func(deltaTime float32)

	quitChannel chan struct{}
	quitOnce    sync.Once

	logger *slog.Logger
}

// Engine is the main entry point for the demo.
// It drives a fixed-rate, single-threaded frame loop so every update strictly precedes the
// render that reads its results.
type Engine interface {
	// Window returns the window, or nil when running headless.
	//
	// Returns:
	//   - window.Window: the window instance
	Window() window.Window

	// EnableProfiler enables performance profiling output to the log.
	EnableProfiler()

	// DisableProfiler disables performance profiling output.
	DisableProfiler()

	// SetTickRate sets the frame rate in frames per second.
	// Takes effect the next time Run starts.
	//
	// Parameters:
	//   - fps: target frames per second (defaults to 60 if <= 0)
	SetTickRate(fps float64)

	// SetTickCallback registers the function called each frame before rendering.
	// Use this for input processing and animation updates.
	//
	// Parameters:
	//   - callback: function receiving the delta time in seconds
	SetTickCallback(callback func(deltaTime float32))

	// SetRenderCallback registers the function called each frame after the tick.
	// Use this for bone palette staging and drawing.
	//
	// Parameters:
	//   - callback: function receiving the delta time in seconds
	SetRenderCallback(callback func(deltaTime float32))

	// SetFrameLimit stops the loop after n frames. Zero runs until quit.
	//
	// Parameters:
	//   - n: the number of frames to run
	SetFrameLimit(n int)

	// Frames returns the number of frames stepped so far.
	Frames() int

	// Step runs one frame synchronously: poll, tick, render.
	//
	// Parameters:
	//   - deltaTime: the frame delta in seconds
	//
	// Returns:
	//   - bool: false once the engine should stop
	Step(deltaTime float32) bool

	// Run steps frames at the tick rate until ctx is done, Quit is called, the window closes,
	// or the frame limit is reached. The window, if any, is closed on return.
	//
	// Parameters:
	//   - ctx: cancels the loop
	//
	// Returns:
	//   - error: ctx's error if cancelled, or an error closing the window
	Run(ctx context.Context) error

	// Quit signals the loop to stop. Safe to call multiple times.
	Quit()
}

// NewEngine creates a new Engine instance with the provided options.
//
// Parameters:
//   - options: functional options for engine configuration (profiling, tick rate, etc.)
//
// Returns:
//   - Engine: the newly created engine
func NewEngine(options ...EngineBuilderOption) Engine {
	e := &engine{
		quitChannel: make(chan struct{}),
		tickRate:    time.Second / 60,
		logger:      slog.Default(),
	}

	for _, opt := range options {
		opt(e)
	}

	if e.profiler == nil {
		e.profiler = profiler.NewProfiler(profiler.WithLogger(e.logger))
	}
	return e
}

func (e *engine) Window() window.Window {
	return e.window
}

func (e *engine) EnableProfiler() {
	e.profilingEnabled = true
}

func (e *engine) DisableProfiler() {
	e.profilingEnabled = false
}

func (e *engine) SetTickRate(fps float64) {
	e.tickRate = tickInterval(fps)
}

func (e *engine) SetTickCallback(callback func(deltaTime float32)) {
	e.tickCallback = callback
}

func (e *engine) SetRenderCallback(callback func(deltaTime float32)) {
	e.renderCallback = callback
}

func (e *engine) SetFrameLimit(n int) {
	e.frameLimit = max(n, 0)
}

func (e *engine) Frames() int {
	return e.frames
}

func (e *engine) Step(deltaTime float32) bool {
	if e.quitting() {
		return false
	}

	if e.window != nil {
		e.window.Poll()
		if !e.window.IsRunning() {
			e.logger.Info("window closed, stopping engine")
			e.Quit()
			return false
		}
	}

	if e.tickCallback != nil {
		e.tickCallback(deltaTime)
	}
	if e.renderCallback != nil {
		e.renderCallback(deltaTime)
	}
	if e.profilingEnabled && e.profiler != nil {
		e.profiler.Tick()
	}

	e.frames++
	if e.frameLimit > 0 && e.frames >= e.frameLimit {
		e.logger.Info("frame limit reached", "frames", e.frames)
		e.Quit()
		return false
	}
	return true
}

func (e *engine) Run(ctx context.Context) error {
	e.logger.Info("engine started", "tick_rate", e.tickRate, "frame_limit", e.frameLimit)

	ticker := time.NewTicker(e.tickRate)
	defer ticker.Stop()

	lastTick := time.Now()
	var runErr error
loop:
	for {
		select {
		case <-ctx.Done():
			runErr = ctx.Err()
			break loop
		case <-e.quitChannel:
			break loop
		case now := <-ticker.C:
			dt := float32(now.Sub(lastTick).Seconds())
			lastTick = now
			if !e.Step(dt) {
				break loop
			}
		}
	}

	e.logger.Info("engine stopped", "frames", e.frames)
	if e.window != nil && e.window.IsRunning() {
		if err := e.window.Close(); err != nil {
			return fmt.Errorf("failed to close window: %w", err)
		}
	}
	return runErr
}

func (e *engine) Quit() {
	e.quitOnce.Do(func() {
		close(e.quitChannel)
	})
}

func (e *engine) quitting() bool {
	select {
	case <-e.quitChannel:
		return true
	default:
		return false
	}
}

func tickInterval(fps float64) time.Duration {
	if fps <= 0 {
		fps = 60
	}
	return time.Duration(float64(time.Second) / fps)
}
