package engine

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeWindow struct {
	polls   int
	closeAt int
	closed  bool
}

func (w *fakeWindow) SetResizeCallback(func(width, height int)) {}

func (w *fakeWindow) SetKeyDownCallback(func(keyCode uint32)) {}

func (w *fakeWindow) SetKeyUpCallback(func(keyCode uint32)) {}

func (w *fakeWindow) Width() int {
	return 1
}

func (w *fakeWindow) Height() int {
	return 1
}

func (w *fakeWindow) Poll() {
	w.polls++
}

func (w *fakeWindow) IsRunning() bool {
	return !w.closed && (w.closeAt == 0 || w.polls < w.closeAt)
}

func (w *fakeWindow) Close() error {
	w.closed = true
	return nil
}

func TestStepOrdersTickBeforeRender(t *testing.T) {
	var calls []string
	e := NewEngine(
		WithTickCallback(func(float32) { calls = append(calls, "tick") }),
		WithRenderCallback(func(float32) { calls = append(calls, "render") }),
	)

	require.True(t, e.Step(0.016))
	require.True(t, e.Step(0.016))
	assert.Equal(t, []string{"tick", "render", "tick", "render"}, calls)
	assert.Equal(t, 2, e.Frames())
}

func TestStepPassesDelta(t *testing.T) {
	var got float32
	e := NewEngine()
	e.SetTickCallback(func(dt float32) { got = dt })
	e.Step(0.25)
	assert.Equal(t, float32(0.25), got)
}

func TestFrameLimit(t *testing.T) {
	e := NewEngine(WithFrameLimit(2))
	assert.True(t, e.Step(0.1))
	assert.False(t, e.Step(0.1))
	assert.False(t, e.Step(0.1))
	assert.Equal(t, 2, e.Frames())
}

func TestQuitStopsStep(t *testing.T) {
	e := NewEngine()
	e.Quit()
	e.Quit()
	assert.False(t, e.Step(0.1))
	assert.Equal(t, 0, e.Frames())
}

func TestWindowCloseStopsEngine(t *testing.T) {
	w := &fakeWindow{closeAt: 3}
	ticks := 0
	e := NewEngine(WithWindow(w), WithTickCallback(func(float32) { ticks++ }))

	assert.True(t, e.Step(0.1))
	assert.True(t, e.Step(0.1))
	assert.False(t, e.Step(0.1))
	assert.Equal(t, 2, ticks)
	assert.Same(t, w, e.Window())
}

func TestRunUntilFrameLimit(t *testing.T) {
	w := &fakeWindow{}
	ticks := 0
	e := NewEngine(WithTickRate(1000), WithFrameLimit(3), WithWindow(w))
	e.SetTickCallback(func(dt float32) {
		ticks++
		assert.Greater(t, dt, float32(0))
	})

	require.NoError(t, e.Run(context.Background()))
	assert.Equal(t, 3, ticks)
	assert.True(t, w.closed)
}

func TestRunCancelled(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	e := NewEngine(WithTickRate(1000))
	err := e.Run(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Greater(t, e.Frames(), 0)
}

func TestRunQuitFromCallback(t *testing.T) {
	e := NewEngine(WithTickRate(1000))
	e.SetRenderCallback(func(float32) {
		if e.Frames() == 4 {
			e.Quit()
		}
	})

	require.NoError(t, e.Run(context.Background()))
	assert.Equal(t, 5, e.Frames())
}

func TestTickInterval(t *testing.T) {
	assert.Equal(t, time.Second/60, tickInterval(0))
	assert.Equal(t, 10*time.Millisecond, tickInterval(100))
}
