package loader

import (
	"errors"
	"fmt"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/qmuntal/gltf"
	gltfbinary "github.com/qmuntal/gltf/binary"
	"github.com/qmuntal/gltf/modeler"
)

// ErrUnsupportedAccessor is returned for accessors this importer cannot decode.
var ErrUnsupportedAccessor = errors.New("loader: unsupported accessor")

// gltfAccessorReader decodes the accessors of a parsed glTF document into math types.
// Interleaved, sparse and view-less accessors are resolved by the modeler package.
type gltfAccessorReader struct {
	doc *gltf.Document
}

// read validates an accessor's type and returns its decoded elements.
func (r gltfAccessorReader) read(index uint32, want gltf.AccessorType) (any, error) {
	if int(index) >= len(r.doc.Accessors) {
		return nil, fmt.Errorf("%w: accessor %d out of range", ErrUnsupportedAccessor, index)
	}
	acr := r.doc.Accessors[index]
	if acr.Type != want {
		return nil, fmt.Errorf("%w: accessor %d has type %v, want %v", ErrUnsupportedAccessor, index, acr.Type, want)
	}
	data, err := modeler.ReadAccessor(r.doc, acr, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: accessor %d: %v", ErrUnsupportedAccessor, index, err)
	}
	if data == nil {
		// no buffer view and no sparse storage: every element is zero
		data = gltfbinary.MakeSlice(acr.ComponentType, acr.Type, acr.Count)
	}
	return data, nil
}

func (r gltfAccessorReader) scalars(index uint32) ([]float32, error) {
	data, err := r.read(index, gltf.AccessorScalar)
	if err != nil {
		return nil, err
	}
	out, ok := data.([]float32)
	if !ok {
		return nil, fmt.Errorf("%w: accessor %d is not float", ErrUnsupportedAccessor, index)
	}
	return out, nil
}

func (r gltfAccessorReader) vec3s(index uint32) ([]mgl32.Vec3, error) {
	data, err := r.read(index, gltf.AccessorVec3)
	if err != nil {
		return nil, err
	}
	raw, ok := data.([][3]float32)
	if !ok {
		return nil, fmt.Errorf("%w: accessor %d is not float", ErrUnsupportedAccessor, index)
	}
	out := make([]mgl32.Vec3, len(raw))
	for i, v := range raw {
		out[i] = mgl32.Vec3(v)
	}
	return out, nil
}

// quats reads VEC4 rotations stored as (x, y, z, w). Integer outputs are the normalized
// forms animation samplers allow and are mapped back to [-1, 1].
func (r gltfAccessorReader) quats(index uint32) ([]mgl32.Quat, error) {
	data, err := r.read(index, gltf.AccessorVec4)
	if err != nil {
		return nil, err
	}

	var raw [][4]float32
	switch v := data.(type) {
	case [][4]float32:
		raw = v
	case [][4]int8:
		raw = denormalize(v, snorm8)
	case [][4]uint8:
		raw = denormalize(v, unorm8)
	case [][4]int16:
		raw = denormalize(v, snorm16)
	case [][4]uint16:
		raw = denormalize(v, unorm16)
	default:
		return nil, fmt.Errorf("%w: accessor %d has rotation elements %T", ErrUnsupportedAccessor, index, data)
	}

	out := make([]mgl32.Quat, len(raw))
	for i, q := range raw {
		out[i] = gltfQuat(q)
	}
	return out, nil
}

func (r gltfAccessorReader) mat4s(index uint32) ([]mgl32.Mat4, error) {
	data, err := r.read(index, gltf.AccessorMat4)
	if err != nil {
		return nil, err
	}
	raw, ok := data.([][4][4]float32)
	if !ok {
		return nil, fmt.Errorf("%w: accessor %d is not float", ErrUnsupportedAccessor, index)
	}
	out := make([]mgl32.Mat4, len(raw))
	for i, m := range raw {
		// column-major in both representations
		for c := 0; c < 4; c++ {
			copy(out[i][c*4:c*4+4], m[c][:])
		}
	}
	return out, nil
}

func snorm8(c int8) float32 { return math32.Max(float32(c)/127, -1) }

func unorm8(c uint8) float32 { return float32(c) / 255 }

func snorm16(c int16) float32 { return math32.Max(float32(c)/32767, -1) }

func unorm16(c uint16) float32 { return float32(c) / 65535 }

func denormalize[T int8 | uint8 | int16 | uint16](values [][4]T, scale func(T) float32) [][4]float32 {
	out := make([][4]float32, len(values))
	for i, v := range values {
		for c := range v {
			out[i][c] = scale(v[c])
		}
	}
	return out
}

// gltfQuat converts a glTF (x, y, z, w) rotation.
func gltfQuat(v [4]float32) mgl32.Quat {
	return mgl32.Quat{W: v[3], V: mgl32.Vec3{v[0], v[1], v[2]}}
}
