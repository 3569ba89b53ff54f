package entity

import "fmt"

// GrayscaleMode selects the per-pixel reducer of the grayscale pass.
type GrayscaleMode string

const (
	GrayscaleLighten GrayscaleMode = "lighten"
	GrayscaleDarken  GrayscaleMode = "darken"
)

// BlendMode is the compositing formula for the final overlay.
type BlendMode string

const (
	BlendOverlay   BlendMode = "overlay"
	BlendHardLight BlendMode = "hardlight"
	BlendScreen    BlendMode = "screen"
	BlendAddition  BlendMode = "addition"
)

// RenderSpec carries every knob of the ghost pipeline. It travels with the
// job so per-message overrides never leak between renders.
type RenderSpec struct {
	// SegmentCount is the keyframe count a conforming source is expected
	// to carry. Segment boundaries always follow the source's actual
	// keyframes, so the real count comes from the content; this value is
	// validated (the zone partition needs at least 3) but does not steer
	// the segmenter.
	SegmentCount int

	GrayscaleMode GrayscaleMode
	BlendMode     BlendMode
	Opacity       float64

	// AllowSingleSegment lets a source with fewer than two keyframes
	// proceed as one unsplit segment instead of failing the job.
	AllowSingleSegment bool
}

func DefaultRenderSpec() RenderSpec {
	return RenderSpec{
		SegmentCount:  12,
		GrayscaleMode: GrayscaleLighten,
		BlendMode:     BlendOverlay,
		Opacity:       0.6,
	}
}

func (s RenderSpec) Validate() error {
	if s.SegmentCount < 3 {
		return fmt.Errorf("%w: segment count %d, need at least 3", ErrArgument, s.SegmentCount)
	}
	switch s.GrayscaleMode {
	case GrayscaleLighten, GrayscaleDarken:
	default:
		return fmt.Errorf("%w: grayscale mode %q", ErrArgument, s.GrayscaleMode)
	}
	switch s.BlendMode {
	case BlendOverlay, BlendHardLight, BlendScreen, BlendAddition:
	default:
		return fmt.Errorf("%w: blend mode %q", ErrArgument, s.BlendMode)
	}
	if s.Opacity < 0 || s.Opacity > 1 {
		return fmt.Errorf("%w: opacity %v outside [0,1]", ErrArgument, s.Opacity)
	}
	return nil
}
