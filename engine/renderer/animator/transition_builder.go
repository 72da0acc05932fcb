package animator

import "log/slog"

// TransitionBuilderOption is a functional option for configuring a Transition during construction.
type TransitionBuilderOption func(*transition)

// WithTransitionLogger sets the logger used for blend lifecycle diagnostics.
func WithTransitionLogger(logger *slog.Logger) TransitionBuilderOption {
	return func(tr *transition) {
		if logger != nil {
			tr.logger = logger
		}
	}
}
