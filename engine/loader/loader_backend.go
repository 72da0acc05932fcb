package loader

import (
	"io"

	"github.com/Carmen-Shannon/oxy-skeletal/engine/model"
	"github.com/qmuntal/gltf"
)

// loaderBackend defines the generic interface for importing rigs from files or streams.
// Concrete implementations (e.g., gltfLoaderBackend) handle format-specific details.
type loaderBackend interface {
	// Load imports a rig from the given file path.
	//
	// Parameters:
	//   - path: the file path to load
	//
	// Returns:
	//   - *model.Rig: the imported rig
	//   - error: error if loading fails
	Load(path string) (*model.Rig, error)

	// LoadReader imports a rig from a reader stream.
	//
	// Parameters:
	//   - name: the rig name
	//   - r: the reader providing the asset
	//
	// Returns:
	//   - *model.Rig: the imported rig
	//   - error: error if loading fails
	LoadReader(name string, r io.Reader) (*model.Rig, error)
}

// gltfLoaderBackend is a loaderBackend for glTF/GLB files backed by github.com/qmuntal/gltf.
type gltfLoaderBackend struct {
	importer *gltfImporter
}

var _ loaderBackend = &gltfLoaderBackend{}

func (b *gltfLoaderBackend) Load(path string) (*model.Rig, error) {
	return b.importer.Import(path)
}

func (b *gltfLoaderBackend) LoadReader(name string, r io.Reader) (*model.Rig, error) {
	return b.importer.ImportReader(name, r)
}

// LoadDocument imports a rig from a document that is already in memory.
func (b *gltfLoaderBackend) LoadDocument(name string, doc *gltf.Document) (*model.Rig, error) {
	return b.importer.ImportDocument(name, doc)
}
