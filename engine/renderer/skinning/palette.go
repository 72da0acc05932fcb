package skinning

import (
	"encoding/binary"
	"errors"
	"fmt"
	"log/slog"

	"github.com/chewxy/math32"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/go-gl/mathgl/mgl32"
)

const (
	// MatrixSize is the byte size of one mat4x4<f32> in a storage buffer.
	MatrixSize = 64

	// DefaultMaxBones must match MAX_BONES in the skinning shaders.
	DefaultMaxBones = 64
)

var (
	// ErrTooManyBones is returned when a palette has more matrices than a slot holds.
	ErrTooManyBones = errors.New("skinning: bone count exceeds palette capacity")

	// ErrInvalidSlot is returned for a negative slot index.
	ErrInvalidSlot = errors.New("skinning: invalid palette slot")
)

// QueueWriter is the part of a GPU queue the palette needs. *wgpu.Queue satisfies it.
type QueueWriter interface {
	WriteBuffer(buffer *wgpu.Buffer, bufferOffset uint64, data []byte) error
}

var _ QueueWriter = (*wgpu.Queue)(nil)

// BufferWrite describes a single staged write of bone matrices into the palette buffer.
type BufferWrite struct {
	Buffer *wgpu.Buffer
	Offset uint64
	Data   []byte
}

// palette is the implementation of the Palette interface.
type palette struct {
	buffer     *wgpu.Buffer
	maxBones   int
	baseOffset uint64

	// staging holds one reusable byte block per slot
	staging map[int][]byte
	pending []BufferWrite

	logger *slog.Logger
}

// Palette stages per-instance final bone matrices for upload into one GPU storage buffer.
// Each instance occupies a fixed slot of MaxBones matrices, so slot n starts at
// base offset + n * MaxBones * MatrixSize.
type Palette interface {
	// MaxBones returns the number of matrices a slot holds.
	MaxBones() int

	// SlotSize returns the byte size of one slot.
	SlotSize() uint64

	// Stage marshals matrices into the slot's staging block and queues a write for it.
	// Staging a slot twice before Flush replaces the earlier write.
	//
	// Parameters:
	//   - slot: the instance slot
	//   - matrices: final bone matrices indexed by bone
	//
	// Returns:
	//   - error: ErrTooManyBones or ErrInvalidSlot
	Stage(slot int, matrices []mgl32.Mat4) error

	// Pending returns the writes staged since the last Flush.
	Pending() []BufferWrite

	// Flush submits every pending write through q and clears the pending list.
	//
	// Parameters:
	//   - q: the queue to write through
	//
	// Returns:
	//   - error: the first write failure; writes after it stay pending
	Flush(q QueueWriter) error
}

var _ Palette = &palette{}

// NewPalette creates a Palette targeting buffer.
//
// Parameters:
//   - buffer: the storage buffer receiving bone matrices (may be nil for CPU-only staging)
//   - options: a variadic list of PaletteBuilderOption functions
//
// Returns:
//   - Palette: the new palette
func NewPalette(buffer *wgpu.Buffer, options ...PaletteBuilderOption) Palette {
	p := &palette{
		buffer:   buffer,
		maxBones: DefaultMaxBones,
		staging:  make(map[int][]byte),
		logger:   slog.Default(),
	}

	for _, option := range options {
		option(p)
	}
	return p
}

func (p *palette) MaxBones() int {
	return p.maxBones
}

func (p *palette) SlotSize() uint64 {
	return uint64(p.maxBones) * MatrixSize
}

func (p *palette) Stage(slot int, matrices []mgl32.Mat4) error {
	if slot < 0 {
		return fmt.Errorf("%w: %d", ErrInvalidSlot, slot)
	}
	if len(matrices) > p.maxBones {
		return fmt.Errorf("%w: %d > %d", ErrTooManyBones, len(matrices), p.maxBones)
	}

	block := p.staging[slot]
	block = MarshalMatrices(block[:0], matrices)
	p.staging[slot] = block

	write := BufferWrite{
		Buffer: p.buffer,
		Offset: p.baseOffset + uint64(slot)*p.SlotSize(),
		Data:   block,
	}
	for i := range p.pending {
		if p.pending[i].Offset == write.Offset {
			p.pending[i] = write
			return nil
		}
	}
	p.pending = append(p.pending, write)
	return nil
}

func (p *palette) Pending() []BufferWrite {
	return p.pending
}

func (p *palette) Flush(q QueueWriter) error {
	for i, w := range p.pending {
		if len(w.Data) == 0 {
			continue
		}
		if err := q.WriteBuffer(w.Buffer, w.Offset, w.Data); err != nil {
			p.pending = p.pending[i:]
			return fmt.Errorf("failed to write bone palette at offset %d: %w", w.Offset, err)
		}
	}
	p.logger.Debug("bone palette flushed", "writes", len(p.pending))
	p.pending = p.pending[:0]
	return nil
}

// MarshalMatrices appends matrices to dst as little-endian float32, 64 bytes per matrix in
// column-major order, matching WGSL mat4x4<f32> storage layout.
//
// Parameters:
//   - dst: the slice to append to
//   - matrices: matrices to encode
//
// Returns:
//   - []byte: dst extended with the encoded matrices
func MarshalMatrices(dst []byte, matrices []mgl32.Mat4) []byte {
	for _, m := range matrices {
		for _, f := range m {
			dst = binary.LittleEndian.AppendUint32(dst, math32.Float32bits(f))
		}
	}
	return dst
}
