package loader

import (
	"fmt"
	"io"
	"log/slog"
	"path/filepath"

	"github.com/Carmen-Shannon/oxy-skeletal/engine/model"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/qmuntal/gltf"
)

// gltfImporter orchestrates a glTF/GLB import into a rig: hierarchy, one skin's bones, and every animation.
type gltfImporter struct {
	skin   int
	logger *slog.Logger
}

// newGLTFImporter creates a glTF importer.
//
// Parameters:
//   - skin: the skin whose joints become the rig's bones
//   - logger: diagnostics destination
//
// Returns:
//   - *gltfImporter: the importer
func newGLTFImporter(skin int, logger *slog.Logger) *gltfImporter {
	return &gltfImporter{skin: skin, logger: logger}
}

// Import opens a .gltf or .glb file, resolving external buffers relative to it.
func (imp *gltfImporter) Import(path string) (*model.Rig, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return imp.ImportDocument(filepath.Base(path), doc)
}

// ImportReader decodes a self-contained glTF JSON or GLB stream.
func (imp *gltfImporter) ImportReader(name string, r io.Reader) (*model.Rig, error) {
	var doc gltf.Document
	if err := gltf.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to parse from reader: %w", err)
	}
	return imp.ImportDocument(name, &doc)
}

// ImportDocument extracts a rig from an already parsed document.
func (imp *gltfImporter) ImportDocument(name string, doc *gltf.Document) (*model.Rig, error) {
	skeletons := newGLTFSkeletonExtractor(doc)

	root, err := skeletons.Hierarchy()
	if err != nil {
		return nil, err
	}

	rig := &model.Rig{
		Name:        name,
		Root:        root,
		BoneOffsets: map[string]mgl32.Mat4{},
	}
	if len(doc.Skins) > 0 {
		rig.BoneOrder, rig.BoneOffsets, err = skeletons.Bones(imp.skin)
		if err != nil {
			return nil, err
		}
	} else {
		imp.logger.Warn("document has no skin, rig has no bones", "rig", name)
	}

	rig.Clips, err = newGLTFAnimationExtractor(doc, skeletons.names, imp.logger).Clips()
	if err != nil {
		return nil, err
	}

	imp.logger.Debug("glTF rig imported",
		"rig", name,
		"nodes", len(doc.Nodes),
		"bones", len(rig.BoneOrder),
		"clips", len(rig.Clips))
	return rig, nil
}
