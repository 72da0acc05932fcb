package window

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// These cover the parts that run without a display.

func TestBuilderOptions(t *testing.T) {
	w := &engineWindow{width: 1, height: 1}
	WithTitle("demo")(w)
	WithSize(800, -1)(w)
	WithSizeLimits(10, 20, 30, 40)(w)

	assert.Equal(t, "demo", w.title)
	assert.Equal(t, 800, w.width)
	assert.Equal(t, 1, w.height)
	assert.Equal(t, []int{10, 20, 30, 40}, []int{w.minWidth, w.minHeight, w.maxWidth, w.maxHeight})
}

func TestUninitializedWindow(t *testing.T) {
	w := &engineWindow{}
	assert.False(t, w.IsRunning())
	assert.ErrorIs(t, w.Close(), ErrNotInitialized)
	assert.NotPanics(t, w.Poll)
}
