package sequencer

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
)

type fakeNode struct {
	position    mgl32.Vec3
	orientation mgl32.Vec3
}

func (f *fakeNode) Move(offset mgl32.Vec3) { f.position = f.position.Add(offset) }

func (f *fakeNode) Rotate(delta mgl32.Vec3) { f.orientation = f.orientation.Add(delta) }

func TestRotationActionConstantRate(t *testing.T) {
	node := &fakeNode{}
	a := NewRotationAction(node, mgl32.Vec3{0, 1.5, 0}, 0.15)
	a.Start()

	a.Tick(0.05)
	assert.InDelta(t, 0.5, node.orientation[1], 1e-5)
	a.Tick(0.1)
	assert.InDelta(t, 1.5, node.orientation[1], 1e-5)

	// never overshoots the total
	a.Tick(1)
	assert.InDelta(t, 1.5, node.orientation[1], 1e-5)
	assert.Equal(t, float32(0.15), a.Duration())
}

func TestTranslationActionJump(t *testing.T) {
	node := &fakeNode{}
	s := NewSequencer(WithActions(
		Translation(node, mgl32.Vec3{0, 2, 0}, 0.4),
		Translation(node, mgl32.Vec3{0, -2, 0}, 0.4),
	))
	s.Start()

	s.Tick(0.2)
	assert.InDelta(t, 1, node.position[1], 1e-5)
	s.Tick(0.3)
	assert.InDelta(t, 1.5, node.position[1], 1e-5)
	s.Tick(0.35)
	assert.True(t, s.Finished())
	assert.InDelta(t, 0, node.position[1], 1e-5)
}

func TestZeroDurationActionAppliesOnce(t *testing.T) {
	node := &fakeNode{}
	a := NewTranslationAction(node, mgl32.Vec3{1, 0, 0}, 0)
	a.Start()
	a.Tick(0)
	a.Tick(0.5)
	assert.Equal(t, mgl32.Vec3{1, 0, 0}, node.position)
	assert.Equal(t, float32(0), a.Duration())
}

func TestDelayAction(t *testing.T) {
	node := &fakeNode{}
	s := NewSequencer(WithActions(Delay(0.5), Rotation(node, mgl32.Vec3{0, 0, 1}, 0.5)))
	s.Start()

	s.Tick(0.5)
	assert.Equal(t, mgl32.Vec3{}, node.orientation)
	assert.Equal(t, 1, s.CurrentIndex())
	s.Tick(0.25)
	assert.InDelta(t, 0.5, node.orientation[2], 1e-5)
	assert.Equal(t, float32(0), NewDelayAction(-1).Duration())
}
