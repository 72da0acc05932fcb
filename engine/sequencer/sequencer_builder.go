package sequencer

import "log/slog"

// SequencerBuilderOption is a functional option for configuring a Sequencer during construction.
type SequencerBuilderOption func(*sequencer)

// WithRepeat sets whether the sequence loops.
//
// Parameters:
//   - repeat: true to restart from the first action after the last one ends
//
// Returns:
//   - SequencerBuilderOption: functional option to set repeat mode
func WithRepeat(repeat bool) SequencerBuilderOption {
	return func(s *sequencer) {
		s.repeat = repeat
	}
}

// WithActions appends factories at construction.
//
// Parameters:
//   - factories: the action factories, in execution order
//
// Returns:
//   - SequencerBuilderOption: functional option to set the initial actions
func WithActions(factories ...ActionFactory) SequencerBuilderOption {
	return func(s *sequencer) {
		s.factories = append(s.factories, factories...)
	}
}

// WithName labels the sequence in log output.
func WithName(name string) SequencerBuilderOption {
	return func(s *sequencer) {
		s.name = name
	}
}

// WithLogger sets the logger used for sequence diagnostics.
func WithLogger(logger *slog.Logger) SequencerBuilderOption {
	return func(s *sequencer) {
		if logger != nil {
			s.logger = logger
		}
	}
}
