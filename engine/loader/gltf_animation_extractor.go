package loader

import (
	"fmt"
	"log/slog"

	"github.com/Carmen-Shannon/oxy-skeletal/engine/model"
	"github.com/qmuntal/gltf"
)

// gltfAnimationExtractor converts glTF animations into clip specs keyed by node name.
type gltfAnimationExtractor struct {
	doc    *gltf.Document
	names  []string
	reader gltfAccessorReader
	logger *slog.Logger
}

// newGLTFAnimationExtractor creates an extractor that resolves channel targets through names.
//
// Parameters:
//   - doc: the parsed document
//   - names: unique node names indexed by node
//   - logger: destination for skipped-channel warnings
//
// Returns:
//   - *gltfAnimationExtractor: the extractor
func newGLTFAnimationExtractor(doc *gltf.Document, names []string, logger *slog.Logger) *gltfAnimationExtractor {
	return &gltfAnimationExtractor{doc: doc, names: names, reader: gltfAccessorReader{doc: doc}, logger: logger}
}

// Clips extracts every animation in the document.
//
// Returns:
//   - []model.ClipSpec: one clip per animation
//   - error: error if a sampler or accessor is malformed
func (e *gltfAnimationExtractor) Clips() ([]model.ClipSpec, error) {
	clips := make([]model.ClipSpec, 0, len(e.doc.Animations))
	for i, a := range e.doc.Animations {
		clip, err := e.clip(i, a)
		if err != nil {
			return nil, err
		}
		clips = append(clips, clip)
	}
	return clips, nil
}

func (e *gltfAnimationExtractor) clip(index int, a *gltf.Animation) (model.ClipSpec, error) {
	name := a.Name
	if name == "" {
		name = fmt.Sprintf("animation_%d", index)
	}

	// glTF keys are in seconds
	clip := model.ClipSpec{
		Name:           name,
		TicksPerSecond: 1,
		Channels:       make(map[string]model.ChannelSpec),
	}

	for ci, ch := range a.Channels {
		if ch.Target.Node == nil || ch.Sampler == nil {
			continue
		}
		if int(*ch.Target.Node) >= len(e.names) || int(*ch.Sampler) >= len(a.Samplers) {
			return model.ClipSpec{}, fmt.Errorf("animation %q channel %d: target or sampler out of range", name, ci)
		}
		if ch.Target.Path == gltf.TRSWeights {
			e.logger.Debug("skipping morph weight channel", "animation", name, "channel", ci)
			continue
		}

		sampler := a.Samplers[*ch.Sampler]
		if sampler.Input == nil || sampler.Output == nil {
			return model.ClipSpec{}, fmt.Errorf("animation %q channel %d: sampler has no input or output", name, ci)
		}
		times, err := e.reader.scalars(*sampler.Input)
		if err != nil {
			return model.ClipSpec{}, fmt.Errorf("animation %q channel %d input: %w", name, ci, err)
		}
		if sampler.Interpolation == gltf.InterpolationStep {
			e.logger.Warn("step interpolation sampled linearly", "animation", name, "channel", ci)
		}
		cubic := sampler.Interpolation == gltf.InterpolationCubicSpline

		nodeName := e.names[*ch.Target.Node]
		spec := clip.Channels[nodeName]
		switch ch.Target.Path {
		case gltf.TRSTranslation, gltf.TRSScale:
			values, err := e.reader.vec3s(*sampler.Output)
			if err != nil {
				return model.ClipSpec{}, fmt.Errorf("animation %q channel %d output: %w", name, ci, err)
			}
			values, err = splineValues(values, len(times), cubic)
			if err != nil {
				return model.ClipSpec{}, fmt.Errorf("animation %q channel %d: %w", name, ci, err)
			}
			keys := make([]model.VectorKeyframe, len(times))
			for k := range times {
				keys[k] = model.VectorKeyframe{Time: times[k], Value: values[k]}
			}
			if ch.Target.Path == gltf.TRSTranslation {
				spec.PositionKeys = keys
			} else {
				spec.ScaleKeys = keys
			}
		case gltf.TRSRotation:
			values, err := e.reader.quats(*sampler.Output)
			if err != nil {
				return model.ClipSpec{}, fmt.Errorf("animation %q channel %d output: %w", name, ci, err)
			}
			values, err = splineValues(values, len(times), cubic)
			if err != nil {
				return model.ClipSpec{}, fmt.Errorf("animation %q channel %d: %w", name, ci, err)
			}
			keys := make([]model.QuaternionKeyframe, len(times))
			for k := range times {
				keys[k] = model.QuaternionKeyframe{Time: times[k], Value: values[k]}
			}
			spec.RotationKeys = keys
		default:
			continue
		}
		clip.Channels[nodeName] = spec
	}

	for _, spec := range clip.Channels {
		clip.Duration = max(clip.Duration, spec.MaxTime())
	}
	return clip, nil
}

// splineValues drops cubic-spline tangents, keeping the value element of each
// (in-tangent, value, out-tangent) triple, and checks the output count matches the key count.
func splineValues[T any](values []T, keys int, cubic bool) ([]T, error) {
	if !cubic {
		if len(values) < keys {
			return nil, fmt.Errorf("%d outputs for %d keys", len(values), keys)
		}
		return values[:keys], nil
	}
	if len(values) < keys*3 {
		return nil, fmt.Errorf("%d cubic spline outputs for %d keys", len(values), keys)
	}
	out := make([]T, keys)
	for k := range out {
		out[k] = values[k*3+1]
	}
	return out, nil
}
