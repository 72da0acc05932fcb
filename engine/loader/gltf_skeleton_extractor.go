package loader

import (
	"errors"
	"fmt"

	"github.com/Carmen-Shannon/oxy-skeletal/common"
	"github.com/Carmen-Shannon/oxy-skeletal/engine/model"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/qmuntal/gltf"
)

var (
	// ErrNoNodes is returned when a document has no nodes to build a hierarchy from.
	ErrNoNodes = errors.New("loader: document has no nodes")

	// ErrNodeCycle is returned when the node graph is not a forest.
	ErrNodeCycle = errors.New("loader: node graph contains a cycle or shared child")

	// ErrSkinIndex is returned when the requested skin does not exist.
	ErrSkinIndex = errors.New("loader: skin index out of range")
)

// syntheticRootName names the identity root inserted above the scene's top-level nodes. Inverse
// bind matrices are relative to the model, so the skeleton root must be the scene itself rather
// than its first joint.
const syntheticRootName = "scene_root"

// gltfSkeletonExtractor converts a document's node graph and one of its skins into rig data.
type gltfSkeletonExtractor struct {
	doc   *gltf.Document
	names []string
}

// newGLTFSkeletonExtractor creates an extractor and assigns every node a unique name.
//
// Parameters:
//   - doc: the parsed document
//
// Returns:
//   - *gltfSkeletonExtractor: the extractor
func newGLTFSkeletonExtractor(doc *gltf.Document) *gltfSkeletonExtractor {
	return &gltfSkeletonExtractor{doc: doc, names: gltfNodeNames(doc)}
}

// gltfNodeNames returns one unique name per node. Unnamed nodes become node_<index> and
// repeated names get the node index appended.
func gltfNodeNames(doc *gltf.Document) []string {
	names := make([]string, len(doc.Nodes))
	seen := make(map[string]bool, len(doc.Nodes))
	for i, n := range doc.Nodes {
		name := n.Name
		if name == "" {
			name = fmt.Sprintf("node_%d", i)
		}
		if seen[name] || name == syntheticRootName {
			name = fmt.Sprintf("%s_%d", name, i)
		}
		seen[name] = true
		names[i] = name
	}
	return names
}

// Hierarchy builds the node tree of the document's default scene under an identity root.
//
// Returns:
//   - model.NodeSpec: the root of the hierarchy
//   - error: error if the document has no nodes or the graph is malformed
func (e *gltfSkeletonExtractor) Hierarchy() (model.NodeSpec, error) {
	if len(e.doc.Nodes) == 0 {
		return model.NodeSpec{}, ErrNoNodes
	}

	roots := e.sceneRoots()
	visited := make([]bool, len(e.doc.Nodes))
	specs := make([]model.NodeSpec, 0, len(roots))
	for _, r := range roots {
		spec, err := e.buildNode(r, visited)
		if err != nil {
			return model.NodeSpec{}, err
		}
		specs = append(specs, spec)
	}
	return model.NodeSpec{Name: syntheticRootName, Transform: mgl32.Ident4(), Children: specs}, nil
}

// sceneRoots returns the top-level nodes of the default scene, or every parentless node if the
// document declares no scenes.
func (e *gltfSkeletonExtractor) sceneRoots() []uint32 {
	if len(e.doc.Scenes) > 0 {
		scene := uint32(0)
		if e.doc.Scene != nil && int(*e.doc.Scene) < len(e.doc.Scenes) {
			scene = *e.doc.Scene
		}
		if nodes := e.doc.Scenes[scene].Nodes; len(nodes) > 0 {
			return nodes
		}
	}

	hasParent := make([]bool, len(e.doc.Nodes))
	for _, n := range e.doc.Nodes {
		for _, c := range n.Children {
			if int(c) < len(hasParent) {
				hasParent[c] = true
			}
		}
	}
	var roots []uint32
	for i, p := range hasParent {
		if !p {
			roots = append(roots, uint32(i))
		}
	}
	return roots
}

func (e *gltfSkeletonExtractor) buildNode(index uint32, visited []bool) (model.NodeSpec, error) {
	if int(index) >= len(e.doc.Nodes) {
		return model.NodeSpec{}, fmt.Errorf("%w: node %d out of range", ErrNodeCycle, index)
	}
	if visited[index] {
		return model.NodeSpec{}, fmt.Errorf("%w: node %d", ErrNodeCycle, index)
	}
	visited[index] = true

	node := e.doc.Nodes[index]
	spec := model.NodeSpec{
		Name:      e.names[index],
		Transform: gltfNodeMatrix(node),
	}
	for _, c := range node.Children {
		child, err := e.buildNode(c, visited)
		if err != nil {
			return model.NodeSpec{}, err
		}
		spec.Children = append(spec.Children, child)
	}
	return spec, nil
}

// Bones returns the joint names of a skin in joint order and their inverse-bind matrices.
// A skin without inverse-bind matrices uses identity for every joint.
//
// Parameters:
//   - skinIndex: the skin to extract
//
// Returns:
//   - []string: joint names, where position is the bone index
//   - map[string]mgl32.Mat4: inverse-bind matrices keyed by joint name
//   - error: error if the skin or its accessor is invalid
func (e *gltfSkeletonExtractor) Bones(skinIndex int) ([]string, map[string]mgl32.Mat4, error) {
	if skinIndex < 0 || skinIndex >= len(e.doc.Skins) {
		return nil, nil, fmt.Errorf("%w: %d of %d", ErrSkinIndex, skinIndex, len(e.doc.Skins))
	}
	skin := e.doc.Skins[skinIndex]

	var ibms []mgl32.Mat4
	if skin.InverseBindMatrices != nil {
		var err error
		ibms, err = gltfAccessorReader{doc: e.doc}.mat4s(*skin.InverseBindMatrices)
		if err != nil {
			return nil, nil, fmt.Errorf("skin %d inverse bind matrices: %w", skinIndex, err)
		}
		if len(ibms) < len(skin.Joints) {
			return nil, nil, fmt.Errorf("skin %d: %d inverse bind matrices for %d joints", skinIndex, len(ibms), len(skin.Joints))
		}
	}

	order := make([]string, len(skin.Joints))
	offsets := make(map[string]mgl32.Mat4, len(skin.Joints))
	for i, j := range skin.Joints {
		if int(j) >= len(e.names) {
			return nil, nil, fmt.Errorf("skin %d joint %d: node %d out of range", skinIndex, i, j)
		}
		order[i] = e.names[j]
		if ibms != nil {
			offsets[order[i]] = ibms[i]
		} else {
			offsets[order[i]] = mgl32.Ident4()
		}
	}
	return order, offsets, nil
}

// gltfNodeMatrix returns a node's local transform from its matrix or its TRS properties.
func gltfNodeMatrix(node *gltf.Node) mgl32.Mat4 {
	if m := node.MatrixOrDefault(); m != gltf.DefaultMatrix && m != ([16]float32{}) {
		return mgl32.Mat4(m)
	}
	return common.ComposeTRS(gltfNodeTRS(node))
}

// gltfNodeTRS returns a node's TRS properties, treating zero rotation and zero scale as unset,
// which is how they appear on documents built in memory rather than decoded from JSON.
func gltfNodeTRS(node *gltf.Node) (mgl32.Vec3, mgl32.Quat, mgl32.Vec3) {
	rot := mgl32.QuatIdent()
	if node.Rotation != [4]float32{} {
		rot = gltfQuat(node.Rotation)
	}
	scale := mgl32.Vec3{1, 1, 1}
	if node.Scale != [3]float32{} {
		scale = mgl32.Vec3(node.Scale)
	}
	return mgl32.Vec3(node.Translation), rot, scale
}
