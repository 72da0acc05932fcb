package profiler

import (
	"bytes"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTickLogsAfterInterval(t *testing.T) {
	var buf bytes.Buffer
	p := NewProfiler(
		WithInterval(time.Millisecond),
		WithLogger(slog.New(slog.NewTextHandler(&buf, nil))),
	)

	time.Sleep(2 * time.Millisecond)
	assert.True(t, p.Tick())
	assert.Contains(t, buf.String(), "fps=")
	assert.Contains(t, buf.String(), "heap_mb=")
}

func TestTickWithinInterval(t *testing.T) {
	var buf bytes.Buffer
	p := NewProfiler(WithInterval(time.Hour), WithLogger(slog.New(slog.NewTextHandler(&buf, nil))))

	assert.False(t, p.Tick())
	assert.False(t, p.Tick())
	assert.Empty(t, buf.String())
}
