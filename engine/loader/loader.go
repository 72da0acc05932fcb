package loader

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"

	"github.com/Carmen-Shannon/oxy-skeletal/engine/model"
	"github.com/qmuntal/gltf"
)

// ErrUnsupportedFormat is returned when no backend handles a file extension.
var ErrUnsupportedFormat = errors.New("loader: unsupported model format")

// LoaderBackendType identifies the model file format backend to use.
type LoaderBackendType int

const (
	// BackendTypeGLTF selects the glTF/GLB loader backend.
	BackendTypeGLTF LoaderBackendType = iota
)

// loader is the implementation of the Loader interface.
type loader struct {
	mu sync.RWMutex

	rigCache map[string]*model.Rig

	backend *gltfLoaderBackend
	skin    int
	logger  *slog.Logger
}

// Loader defines the public-facing interface for importing and caching rigs.
// It abstracts the file format behind a backend and keeps every imported rig keyed by
// its path or name, so repeated loads of one asset share one rig.
type Loader interface {
	// Load imports a rig file and caches the result.
	// If the rig is already cached (by file path), the cached version is returned.
	//
	// Parameters:
	//   - path: the file path to the .gltf or .glb file
	//
	// Returns:
	//   - *model.Rig: the loaded and cached rig
	//   - error: error if loading fails
	Load(path string) (*model.Rig, error)

	// LoadReader imports a rig from a self-contained stream and caches it by the given name.
	//
	// Parameters:
	//   - name: the cache key for the loaded rig
	//   - r: the reader providing glTF JSON or GLB data
	//
	// Returns:
	//   - *model.Rig: the loaded rig
	//   - error: error if loading fails
	LoadReader(name string, r io.Reader) (*model.Rig, error)

	// LoadDocument imports a rig from an in-memory glTF document and caches it by the given name.
	//
	// Parameters:
	//   - name: the cache key for the loaded rig
	//   - doc: the parsed document
	//
	// Returns:
	//   - *model.Rig: the loaded rig
	//   - error: error if extraction fails
	LoadDocument(name string, doc *gltf.Document) (*model.Rig, error)

	// Get retrieves a cached rig by name. Returns nil if not found.
	//
	// Parameters:
	//   - name: the cache key to look up
	//
	// Returns:
	//   - *model.Rig: the cached rig or nil
	Get(name string) *model.Rig

	// Rigs returns a copy of the rig cache.
	//
	// Returns:
	//   - map[string]*model.Rig: all cached rigs keyed by name
	Rigs() map[string]*model.Rig
}

var _ Loader = &loader{}

// NewLoader creates a new Loader instance with the specified backend type and options applied.
//
// Parameters:
//   - backendType: the type of loader backend to use (e.g., BackendTypeGLTF)
//   - options: a variadic list of LoaderBuilderOption functions to configure the Loader
//
// Returns:
//   - Loader: a new instance of Loader configured with the provided backend and options
func NewLoader(backendType LoaderBackendType, options ...LoaderBuilderOption) Loader {
	l := &loader{
		mu:       sync.RWMutex{},
		rigCache: make(map[string]*model.Rig),
		logger:   slog.Default(),
	}

	for _, option := range options {
		option(l)
	}

	switch backendType {
	case BackendTypeGLTF:
		l.backend = &gltfLoaderBackend{importer: newGLTFImporter(l.skin, l.logger)}
	}
	return l
}

func (l *loader) Load(path string) (*model.Rig, error) {
	if cached := l.Get(path); cached != nil {
		return cached, nil
	}

	backend, err := l.resolveBackend(path)
	if err != nil {
		return nil, err
	}

	rig, err := backend.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", path, err)
	}
	return l.store(path, rig), nil
}

func (l *loader) LoadReader(name string, r io.Reader) (*model.Rig, error) {
	if cached := l.Get(name); cached != nil {
		return cached, nil
	}

	rig, err := l.backend.LoadReader(name, r)
	if err != nil {
		return nil, fmt.Errorf("failed to load from reader %q: %w", name, err)
	}
	return l.store(name, rig), nil
}

func (l *loader) LoadDocument(name string, doc *gltf.Document) (*model.Rig, error) {
	if cached := l.Get(name); cached != nil {
		return cached, nil
	}

	rig, err := l.backend.LoadDocument(name, doc)
	if err != nil {
		return nil, fmt.Errorf("failed to load document %q: %w", name, err)
	}
	return l.store(name, rig), nil
}

func (l *loader) Get(name string) *model.Rig {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.rigCache[name]
}

func (l *loader) Rigs() map[string]*model.Rig {
	l.mu.RLock()
	defer l.mu.RUnlock()

	result := make(map[string]*model.Rig, len(l.rigCache))
	for k, v := range l.rigCache {
		result[k] = v
	}
	return result
}

// store caches rig under key unless a concurrent load got there first, and returns the cached rig.
func (l *loader) store(key string, rig *model.Rig) *model.Rig {
	l.mu.Lock()
	defer l.mu.Unlock()
	if existing, ok := l.rigCache[key]; ok {
		return existing
	}
	l.rigCache[key] = rig
	return rig
}

// resolveBackend selects an appropriate loader backend based on the file extension.
// Currently only glTF/GLB is supported.
func (l *loader) resolveBackend(path string) (loaderBackend, error) {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".gltf", ".glb":
		return l.backend, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
}
