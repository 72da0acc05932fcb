package animator

import "log/slog"

// SkeletalAnimatorBuilderOption is a functional option for configuring a SkeletalAnimator during construction.
type SkeletalAnimatorBuilderOption func(*skeletalAnimator)

// WithSpeed sets the initial playback speed multiplier.
//
// Parameters:
//   - speed: the multiplier applied to deltaTime, 1 for authored speed
//
// Returns:
//   - SkeletalAnimatorBuilderOption: functional option to set the speed
func WithSpeed(speed float32) SkeletalAnimatorBuilderOption {
	return func(a *skeletalAnimator) {
		a.speed = speed
	}
}

// WithStartTime sets the initial cursor in clip ticks. Useful to desynchronize a crowd sharing one clip.
//
// Parameters:
//   - t: the start time in clip ticks
//
// Returns:
//   - SkeletalAnimatorBuilderOption: functional option to set the start time
func WithStartTime(t float32) SkeletalAnimatorBuilderOption {
	return func(a *skeletalAnimator) {
		a.time = t
	}
}

// WithLoop sets whether the cursor wraps at the end of the clip.
// A non-looping animator clamps at the clip's duration and holds the last frame.
//
// Parameters:
//   - loop: true to wrap, false to clamp
//
// Returns:
//   - SkeletalAnimatorBuilderOption: functional option to set looping
func WithLoop(loop bool) SkeletalAnimatorBuilderOption {
	return func(a *skeletalAnimator) {
		a.loop = loop
	}
}

// WithAutoPlay sets whether the animator starts in the playing state.
//
// Parameters:
//   - autoPlay: false to start stopped
//
// Returns:
//   - SkeletalAnimatorBuilderOption: functional option to set the initial state
func WithAutoPlay(autoPlay bool) SkeletalAnimatorBuilderOption {
	return func(a *skeletalAnimator) {
		a.autoPlay = autoPlay
	}
}

// WithLogger sets the logger used for playback diagnostics.
func WithLogger(logger *slog.Logger) SkeletalAnimatorBuilderOption {
	return func(a *skeletalAnimator) {
		if logger != nil {
			a.logger = logger
		}
	}
}
