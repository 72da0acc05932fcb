package skeleton

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/Carmen-Shannon/oxy-skeletal/common"
	"github.com/Carmen-Shannon/oxy-skeletal/engine/model"
	"github.com/go-gl/mathgl/mgl32"
)

var (
	// ErrDuplicateNodeName is returned when two nodes in one hierarchy share a name.
	ErrDuplicateNodeName = errors.New("skeleton: duplicate node name")

	// ErrMissingBoneOffset is returned when a node is assigned a bone index but has no offset matrix.
	ErrMissingBoneOffset = errors.New("skeleton: missing bone offset")

	// ErrUnknownBone is returned when the bone order names a node that is not in the hierarchy.
	ErrUnknownBone = errors.New("skeleton: bone not found in hierarchy")

	// ErrSingularRootTransform is returned when the root bind transform cannot be inverted.
	ErrSingularRootTransform = errors.New("skeleton: root transform is not invertible")
)

// singularEpsilon is the determinant magnitude under which a matrix is treated as non-invertible.
const singularEpsilon = 1e-12

// Node is one node of a flattened hierarchy.
type Node struct {
	// Name identifies the node within its skeleton.
	Name string

	// Parent is the index of the parent node, or -1 for the root.
	Parent int32

	// Children are the child node indices in authoring order.
	Children []int32

	// Bind is the bind-pose transform relative to the parent.
	Bind mgl32.Mat4

	// BindTransform is Bind decomposed into translation, rotation, and scale.
	BindTransform model.Transform

	// BoneIndex is the slot this node writes in a final bone palette, or -1 if it is not a bone.
	BoneIndex int32
}

// IsBone reports whether the node contributes a skinning matrix.
func (n *Node) IsBone() bool {
	return n.BoneIndex >= 0
}

type skeleton struct {
	name          string
	boneOrder     []string
	logger        *slog.Logger
	nodes         []Node
	nodeByName    map[string]int32
	boneNodes     []int32
	boneOffsets   []mgl32.Mat4
	globalInverse mgl32.Mat4
}

// Skeleton is an immutable bone hierarchy shared read-only by every clip and evaluator built on it.
// Nodes are stored in depth-first pre-order, so every parent precedes its children.
type Skeleton interface {
	// Name returns the skeleton's identifier.
	//
	// Returns:
	//   - string: the name
	Name() string

	// Nodes returns the flattened hierarchy in pre-order. The slice must not be modified.
	//
	// Returns:
	//   - []Node: all nodes, root first
	Nodes() []Node

	// NodeIndex looks up a node by name.
	//
	// Parameters:
	//   - name: the node name
	//
	// Returns:
	//   - int32: the node index
	//   - bool: false if no node has that name
	NodeIndex(name string) (int32, bool)

	// BoneCount returns the number of slots in a final bone palette.
	//
	// Returns:
	//   - int: the bone count
	BoneCount() int

	// BoneIndex looks up the palette slot of a bone by name.
	//
	// Parameters:
	//   - name: the bone name
	//
	// Returns:
	//   - int32: the bone index
	//   - bool: false if the name is not a bone
	BoneIndex(name string) (int32, bool)

	// BoneNode returns the node index that owns a palette slot.
	//
	// Parameters:
	//   - boneIndex: the bone index
	//
	// Returns:
	//   - int32: the node index
	BoneNode(boneIndex int32) int32

	// BoneOffset returns the inverse-bind matrix of a bone.
	//
	// Parameters:
	//   - boneIndex: the bone index
	//
	// Returns:
	//   - mgl32.Mat4: the offset matrix
	BoneOffset(boneIndex int32) mgl32.Mat4

	// GlobalInverse returns the inverse of the root's bind transform.
	//
	// Returns:
	//   - mgl32.Mat4: the global inverse transform
	GlobalInverse() mgl32.Mat4

	// Compatible reports whether other has the same topology, bone indices,
	// bone offsets, and global inverse, so poses computed on one are valid on the other.
	//
	// Parameters:
	//   - other: the skeleton to compare against
	//
	// Returns:
	//   - bool: true if the two are interchangeable
	Compatible(other Skeleton) bool
}

var _ Skeleton = &skeleton{}

// NewSkeleton flattens an imported hierarchy into a Skeleton.
//
// Parameters:
//   - root: the top of the imported node hierarchy
//   - offsets: inverse-bind matrices keyed by bone name
//   - options: functional options to configure the skeleton
//
// Returns:
//   - Skeleton: the flattened skeleton
//   - error: error if names collide, a bone has no offset, or the root is singular
func NewSkeleton(root model.NodeSpec, offsets map[string]mgl32.Mat4, options ...SkeletonBuilderOption) (Skeleton, error) {
	s := &skeleton{
		nodeByName: make(map[string]int32),
		logger:     slog.Default(),
	}
	for _, option := range options {
		option(s)
	}

	if err := s.flatten(root); err != nil {
		return nil, err
	}
	if err := s.assignBones(offsets); err != nil {
		return nil, err
	}

	rootBind := s.nodes[0].Bind
	if det := rootBind.Det(); det > -singularEpsilon && det < singularEpsilon {
		return nil, fmt.Errorf("%w: %q", ErrSingularRootTransform, s.nodes[0].Name)
	}
	s.globalInverse = rootBind.Inv()

	s.logger.Debug("skeleton built",
		"name", s.name,
		"nodes", len(s.nodes),
		"bones", len(s.boneNodes))
	return s, nil
}

// FromRig builds the Skeleton described by an imported rig.
//
// Parameters:
//   - rig: the imported rig
//   - options: functional options applied after the rig's name and bone order
//
// Returns:
//   - Skeleton: the flattened skeleton
//   - error: error if the rig's hierarchy is invalid
func FromRig(rig *model.Rig, options ...SkeletonBuilderOption) (Skeleton, error) {
	opts := append([]SkeletonBuilderOption{WithName(rig.Name), WithBoneOrder(rig.BoneOrder)}, options...)
	return NewSkeleton(rig.Root, rig.BoneOffsets, opts...)
}

// flatten walks the hierarchy depth-first and appends nodes in pre-order.
func (s *skeleton) flatten(root model.NodeSpec) error {
	type frame struct {
		spec   *model.NodeSpec
		parent int32
	}

	stack := []frame{{spec: &root, parent: -1}}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if _, dup := s.nodeByName[f.spec.Name]; dup {
			return fmt.Errorf("%w: %q", ErrDuplicateNodeName, f.spec.Name)
		}

		idx := int32(len(s.nodes))
		t, r, sc := common.DecomposeTRS(f.spec.Transform)
		s.nodes = append(s.nodes, Node{
			Name:          f.spec.Name,
			Parent:        f.parent,
			Bind:          f.spec.Transform,
			BindTransform: model.Transform{Translation: t, Rotation: r, Scale: sc},
			BoneIndex:     -1,
		})
		s.nodeByName[f.spec.Name] = idx
		if f.parent >= 0 {
			s.nodes[f.parent].Children = append(s.nodes[f.parent].Children, idx)
		}

		// reverse push keeps authoring order on pop
		for i := len(f.spec.Children) - 1; i >= 0; i-- {
			stack = append(stack, frame{spec: &f.spec.Children[i], parent: idx})
		}
	}
	return nil
}

func (s *skeleton) assignBones(offsets map[string]mgl32.Mat4) error {
	if len(s.boneOrder) == 0 {
		for i := range s.nodes {
			if _, ok := offsets[s.nodes[i].Name]; ok {
				s.addBone(int32(i), offsets[s.nodes[i].Name])
			}
		}
		return nil
	}

	for _, name := range s.boneOrder {
		idx, ok := s.nodeByName[name]
		if !ok {
			return fmt.Errorf("%w: %q", ErrUnknownBone, name)
		}
		if s.nodes[idx].BoneIndex >= 0 {
			return fmt.Errorf("%w: bone %q listed twice", ErrDuplicateNodeName, name)
		}
		offset, ok := offsets[name]
		if !ok {
			return fmt.Errorf("%w: %q", ErrMissingBoneOffset, name)
		}
		s.addBone(idx, offset)
	}
	return nil
}

func (s *skeleton) addBone(nodeIndex int32, offset mgl32.Mat4) {
	s.nodes[nodeIndex].BoneIndex = int32(len(s.boneNodes))
	s.boneNodes = append(s.boneNodes, nodeIndex)
	s.boneOffsets = append(s.boneOffsets, offset)
}

func (s *skeleton) Name() string {
	return s.name
}

func (s *skeleton) Nodes() []Node {
	return s.nodes
}

func (s *skeleton) NodeIndex(name string) (int32, bool) {
	idx, ok := s.nodeByName[name]
	return idx, ok
}

func (s *skeleton) BoneCount() int {
	return len(s.boneNodes)
}

func (s *skeleton) BoneIndex(name string) (int32, bool) {
	idx, ok := s.nodeByName[name]
	if !ok || s.nodes[idx].BoneIndex < 0 {
		return -1, false
	}
	return s.nodes[idx].BoneIndex, true
}

func (s *skeleton) BoneNode(boneIndex int32) int32 {
	return s.boneNodes[boneIndex]
}

func (s *skeleton) BoneOffset(boneIndex int32) mgl32.Mat4 {
	return s.boneOffsets[boneIndex]
}

func (s *skeleton) GlobalInverse() mgl32.Mat4 {
	return s.globalInverse
}

func (s *skeleton) Compatible(other Skeleton) bool {
	if other == nil {
		return false
	}
	if o, ok := other.(*skeleton); ok && o == s {
		return true
	}

	nodes := other.Nodes()
	if len(nodes) != len(s.nodes) || other.BoneCount() != len(s.boneNodes) {
		return false
	}
	if other.GlobalInverse() != s.globalInverse {
		return false
	}
	for i := range s.nodes {
		a, b := &s.nodes[i], &nodes[i]
		if a.Name != b.Name || a.Parent != b.Parent || a.BoneIndex != b.BoneIndex {
			return false
		}
	}
	for i, off := range s.boneOffsets {
		if other.BoneOffset(int32(i)) != off {
			return false
		}
	}
	return true
}
