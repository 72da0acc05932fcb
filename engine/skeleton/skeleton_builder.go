package skeleton

import "log/slog"

// SkeletonBuilderOption is a functional option for configuring a Skeleton during construction.
type SkeletonBuilderOption func(*skeleton)

// WithName sets the skeleton's identifier.
//
// Parameters:
//   - name: the skeleton name
//
// Returns:
//   - SkeletonBuilderOption: functional option to set the name
func WithName(name string) SkeletonBuilderOption {
	return func(s *skeleton) {
		s.name = name
	}
}

// WithBoneOrder fixes bone indices to the order of the given names.
// Without it, bones are numbered in pre-order over the nodes that have an offset.
//
// Parameters:
//   - names: node names where names[i] receives bone index i
//
// Returns:
//   - SkeletonBuilderOption: functional option to set the bone order
func WithBoneOrder(names []string) SkeletonBuilderOption {
	return func(s *skeleton) {
		s.boneOrder = names
	}
}

// WithLogger sets the logger used for construction diagnostics.
func WithLogger(logger *slog.Logger) SkeletonBuilderOption {
	return func(s *skeleton) {
		if logger != nil {
			s.logger = logger
		}
	}
}
