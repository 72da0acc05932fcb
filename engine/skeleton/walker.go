package skeleton

import (
	"github.com/go-gl/mathgl/mgl32"
)

// LocalFunc returns the parent-relative transform to use for a node during a walk.
type LocalFunc func(nodeIndex int32, node *Node) mgl32.Mat4

// BindLocal is a LocalFunc that poses every node at its bind transform.
func BindLocal(_ int32, node *Node) mgl32.Mat4 {
	return node.Bind
}

// Walker propagates local transforms down a skeleton into global and skinning matrices.
// It owns its scratch buffer, so one Walker must not be shared between goroutines.
type Walker struct {
	skel    Skeleton
	globals []mgl32.Mat4
}

// NewWalker creates a Walker sized for the given skeleton.
//
// Parameters:
//   - s: the skeleton to walk
//
// Returns:
//   - *Walker: the walker
func NewWalker(s Skeleton) *Walker {
	return &Walker{
		skel:    s,
		globals: make([]mgl32.Mat4, len(s.Nodes())),
	}
}

// Skeleton returns the skeleton this walker was created for.
func (w *Walker) Skeleton() Skeleton {
	return w.skel
}

// Walk visits every node parent-first, composing nodeGlobal = parentGlobal * local,
// and writes GlobalInverse * nodeGlobal * BoneOffset into out for every bone.
//
// Parameters:
//   - local: supplies each node's local transform
//   - out: destination palette indexed by bone; slots beyond its length are skipped
func (w *Walker) Walk(local LocalFunc, out []mgl32.Mat4) {
	nodes := w.skel.Nodes()
	globalInverse := w.skel.GlobalInverse()

	for i := range nodes {
		node := &nodes[i]
		parent := mgl32.Ident4()
		if node.Parent >= 0 {
			parent = w.globals[node.Parent]
		}

		global := parent.Mul4(local(int32(i), node))
		w.globals[i] = global

		if node.BoneIndex >= 0 && int(node.BoneIndex) < len(out) {
			out[node.BoneIndex] = globalInverse.Mul4(global).Mul4(w.skel.BoneOffset(node.BoneIndex))
		}
	}
}

// Global returns the model-space transform of a node from the most recent Walk.
//
// Parameters:
//   - nodeIndex: the node index
//
// Returns:
//   - mgl32.Mat4: the node's global transform
func (w *Walker) Global(nodeIndex int32) mgl32.Mat4 {
	return w.globals[nodeIndex]
}

// BindPose writes the bind-pose skinning palette of s into out.
//
// Parameters:
//   - s: the skeleton
//   - out: destination palette indexed by bone
func BindPose(s Skeleton, out []mgl32.Mat4) {
	NewWalker(s).Walk(BindLocal, out)
}
