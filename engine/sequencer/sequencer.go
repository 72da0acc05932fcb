package sequencer

import (
	"log/slog"
)

// Action is one timed step of a sequence.
type Action interface {
	// Start prepares the action. It is called once when the action becomes active.
	Start()

	// Tick applies deltaTime seconds of the action.
	//
	// Parameters:
	//   - deltaTime: seconds to apply, never more than the remaining duration when driven by a Sequencer
	Tick(deltaTime float32)

	// Duration returns the action's length in seconds.
	//
	// Returns:
	//   - float32: the duration
	Duration() float32
}

// ActionFactory builds a fresh Action. It is invoked at activation time, so the action can
// capture state that only exists once its predecessors have run.
type ActionFactory func() Action

// sequencer is the implementation of the Sequencer interface.
type sequencer struct {
	factories      []ActionFactory
	current        Action
	currentIndex   int
	currentTime    float32
	nextTransition float32
	repeat         bool
	name           string
	logger         *slog.Logger
}

// Sequencer runs actions one after another, carrying leftover time across boundaries
// so the total applied time always equals the total ticked time.
type Sequencer interface {
	// Add appends factories to the end of the sequence.
	//
	// Parameters:
	//   - factories: the action factories to append
	Add(factories ...ActionFactory)

	// Clear removes every factory and stops the active action.
	Clear()

	// Len returns the number of factories.
	//
	// Returns:
	//   - int: the factory count
	Len() int

	// SetRepeat sets whether the sequence restarts from the first action after the last one ends.
	//
	// Parameters:
	//   - repeat: true to loop the sequence
	SetRepeat(repeat bool)

	// Repeat reports whether the sequence loops.
	//
	// Returns:
	//   - bool: true if looping
	Repeat() bool

	// Start rewinds the sequence and activates the first action.
	// An empty sequence is finished immediately.
	Start()

	// Tick advances the sequence by deltaTime seconds. Every boundary crossed ticks the active
	// action up to that boundary, activates its successor, and forwards the remainder.
	//
	// Parameters:
	//   - deltaTime: elapsed time since the last tick in seconds
	Tick(deltaTime float32)

	// Finished reports whether no action is active.
	//
	// Returns:
	//   - bool: true if the sequence is idle
	Finished() bool

	// CurrentIndex returns the index of the active action.
	//
	// Returns:
	//   - int: the index, or -1 when idle
	CurrentIndex() int

	// CurrentTime returns the seconds elapsed since the sequence, or its latest repetition, started.
	//
	// Returns:
	//   - float32: the elapsed time
	CurrentTime() float32

	// Current returns the active action.
	//
	// Returns:
	//   - Action: the active action, or nil when idle
	Current() Action
}

var _ Sequencer = &sequencer{}

// NewSequencer creates an idle Sequencer.
//
// Parameters:
//   - options: functional options to configure the sequencer
//
// Returns:
//   - Sequencer: the sequencer
func NewSequencer(options ...SequencerBuilderOption) Sequencer {
	s := &sequencer{
		currentIndex: -1,
		logger:       slog.Default(),
	}
	for _, option := range options {
		option(s)
	}
	return s
}

func (s *sequencer) Add(factories ...ActionFactory) {
	s.factories = append(s.factories, factories...)
}

func (s *sequencer) Clear() {
	s.factories = nil
	s.stop()
}

func (s *sequencer) Len() int {
	return len(s.factories)
}

func (s *sequencer) SetRepeat(repeat bool) {
	s.repeat = repeat
}

func (s *sequencer) Repeat() bool {
	return s.repeat
}

func (s *sequencer) Start() {
	s.currentTime = 0
	s.nextTransition = 0
	s.stop()
	if len(s.factories) == 0 {
		return
	}
	s.activate(0)
}

func (s *sequencer) Tick(deltaTime float32) {
	if s.current == nil {
		return
	}

	last := s.currentTime
	s.currentTime += deltaTime

	for s.current != nil && s.currentTime >= s.nextTransition {
		s.current.Tick(s.nextTransition - last)
		last = s.nextTransition

		next := s.currentIndex + 1
		if next < len(s.factories) {
			s.activate(next)
			continue
		}
		if !s.repeat {
			s.logger.Debug("sequence finished", "sequence", s.name, "time", s.currentTime)
			s.stop()
			return
		}

		// rebase so times stay relative to the current repetition
		cycle := s.nextTransition
		s.currentTime -= cycle
		last = 0
		s.nextTransition = 0
		s.activate(0)
		if cycle <= 0 {
			// a zero-length cycle would otherwise restart forever within one tick
			break
		}
	}

	if s.current != nil && s.currentTime > last {
		s.current.Tick(s.currentTime - last)
	}
}

func (s *sequencer) Finished() bool {
	return s.current == nil
}

func (s *sequencer) CurrentIndex() int {
	return s.currentIndex
}

func (s *sequencer) CurrentTime() float32 {
	return s.currentTime
}

func (s *sequencer) Current() Action {
	return s.current
}

func (s *sequencer) activate(index int) {
	s.current = s.factories[index]()
	s.currentIndex = index
	s.current.Start()
	s.nextTransition += s.current.Duration()
}

func (s *sequencer) stop() {
	s.current = nil
	s.currentIndex = -1
}
