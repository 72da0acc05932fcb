package loader

import (
	"log/slog"

	"github.com/Carmen-Shannon/oxy-skeletal/engine/model"
)

// LoaderBuilderOption is a functional option for configuring a Loader via NewLoader.
type LoaderBuilderOption func(*loader)

// WithRig is an option builder that pre-populates the rig cache, typically with a procedural rig.
//
// Parameters:
//   - key: the cache key for the rig
//   - rig: the rig to cache
//
// Returns:
//   - LoaderBuilderOption: a function that applies the rig option to a loader
func WithRig(key string, rig *model.Rig) LoaderBuilderOption {
	return func(l *loader) {
		l.rigCache[key] = rig
	}
}

// WithSkin selects which skin of a document supplies the rig's bones. Defaults to 0.
//
// Parameters:
//   - index: the skin index
//
// Returns:
//   - LoaderBuilderOption: a function that applies the skin option to a loader
func WithSkin(index int) LoaderBuilderOption {
	return func(l *loader) {
		l.skin = index
	}
}

// WithLogger sets the logger used for import diagnostics.
//
// Parameters:
//   - logger: the logger
//
// Returns:
//   - LoaderBuilderOption: a function that applies the logger option to a loader
func WithLogger(logger *slog.Logger) LoaderBuilderOption {
	return func(l *loader) {
		if logger != nil {
			l.logger = logger
		}
	}
}
