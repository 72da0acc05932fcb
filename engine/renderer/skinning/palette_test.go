package skinning

import (
	"encoding/binary"
	"errors"
	"testing"

	"github.com/chewxy/math32"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordedWrite struct {
	offset uint64
	data   []byte
}

type fakeQueue struct {
	writes []recordedWrite
	failAt int
}

func (q *fakeQueue) WriteBuffer(_ *wgpu.Buffer, offset uint64, data []byte) error {
	if q.failAt > 0 && len(q.writes)+1 == q.failAt {
		return errors.New("device lost")
	}
	q.writes = append(q.writes, recordedWrite{offset: offset, data: append([]byte(nil), data...)})
	return nil
}

func TestMarshalMatricesLayout(t *testing.T) {
	m := mgl32.Translate3D(1, 2, 3)
	data := MarshalMatrices(nil, []mgl32.Mat4{mgl32.Ident4(), m})
	require.Len(t, data, 2*MatrixSize)

	read := func(i int) float32 {
		return math32.Float32frombits(binary.LittleEndian.Uint32(data[i*4:]))
	}
	assert.Equal(t, float32(1), read(0))
	assert.Equal(t, float32(0), read(1))
	assert.Equal(t, float32(1), read(15))
	// translation is column 3 of the second matrix
	assert.Equal(t, float32(1), read(16+12))
	assert.Equal(t, float32(2), read(16+13))
	assert.Equal(t, float32(3), read(16+14))
}

func TestStageOffsets(t *testing.T) {
	p := NewPalette(nil, WithMaxBones(4), WithBaseOffset(128))
	assert.Equal(t, uint64(4*MatrixSize), p.SlotSize())

	require.NoError(t, p.Stage(0, []mgl32.Mat4{mgl32.Ident4()}))
	require.NoError(t, p.Stage(2, []mgl32.Mat4{mgl32.Ident4(), mgl32.Ident4()}))

	pending := p.Pending()
	require.Len(t, pending, 2)
	assert.Equal(t, uint64(128), pending[0].Offset)
	assert.Equal(t, uint64(128+2*4*MatrixSize), pending[1].Offset)
	assert.Len(t, pending[1].Data, 2*MatrixSize)
}

func TestStageReplacesPendingSlot(t *testing.T) {
	p := NewPalette(nil)
	require.NoError(t, p.Stage(1, []mgl32.Mat4{mgl32.Ident4()}))
	require.NoError(t, p.Stage(1, []mgl32.Mat4{mgl32.Translate3D(5, 0, 0)}))

	pending := p.Pending()
	require.Len(t, pending, 1)
	assert.Equal(t, MarshalMatrices(nil, []mgl32.Mat4{mgl32.Translate3D(5, 0, 0)}), pending[0].Data)
}

func TestStageErrors(t *testing.T) {
	p := NewPalette(nil, WithMaxBones(2))
	err := p.Stage(0, make([]mgl32.Mat4, 3))
	assert.ErrorIs(t, err, ErrTooManyBones)

	err = p.Stage(-1, nil)
	assert.ErrorIs(t, err, ErrInvalidSlot)
	assert.Empty(t, p.Pending())
}

func TestFlush(t *testing.T) {
	p := NewPalette(nil, WithMaxBones(1))
	require.NoError(t, p.Stage(0, []mgl32.Mat4{mgl32.Ident4()}))
	require.NoError(t, p.Stage(1, []mgl32.Mat4{mgl32.Ident4()}))

	q := &fakeQueue{}
	require.NoError(t, p.Flush(q))
	require.Len(t, q.writes, 2)
	assert.Equal(t, uint64(MatrixSize), q.writes[1].offset)
	assert.Empty(t, p.Pending())
}

func TestFlushFailureKeepsRemaining(t *testing.T) {
	p := NewPalette(nil, WithMaxBones(1))
	require.NoError(t, p.Stage(0, []mgl32.Mat4{mgl32.Ident4()}))
	require.NoError(t, p.Stage(1, []mgl32.Mat4{mgl32.Ident4()}))

	q := &fakeQueue{failAt: 2}
	err := p.Flush(q)
	require.Error(t, err)
	assert.Len(t, q.writes, 1)
	require.Len(t, p.Pending(), 1)
	assert.Equal(t, uint64(MatrixSize), p.Pending()[0].Offset)
}
