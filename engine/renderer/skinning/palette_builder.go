package skinning

import "log/slog"

// PaletteBuilderOption is a functional option for configuring a Palette via NewPalette.
type PaletteBuilderOption func(*palette)

// WithMaxBones sets how many matrices each slot holds. Non-positive values are ignored.
//
// Parameters:
//   - n: matrices per slot
//
// Returns:
//   - PaletteBuilderOption: a function that applies the capacity option to a palette
func WithMaxBones(n int) PaletteBuilderOption {
	return func(p *palette) {
		if n > 0 {
			p.maxBones = n
		}
	}
}

// WithBaseOffset sets the byte offset of slot 0 within the buffer.
func WithBaseOffset(offset uint64) PaletteBuilderOption {
	return func(p *palette) {
		p.baseOffset = offset
	}
}

// WithLogger sets the palette's logger.
func WithLogger(logger *slog.Logger) PaletteBuilderOption {
	return func(p *palette) {
		if logger != nil {
			p.logger = logger
		}
	}
}
