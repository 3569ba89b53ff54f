package entity

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultRenderSpecIsValid(t *testing.T) {
	spec := DefaultRenderSpec()
	require.NoError(t, spec.Validate())
	assert.Equal(t, 12, spec.SegmentCount)
	assert.Equal(t, GrayscaleLighten, spec.GrayscaleMode)
	assert.Equal(t, BlendOverlay, spec.BlendMode)
	assert.InDelta(t, 0.6, spec.Opacity, 1e-9)
}

func TestRenderSpecValidate(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*RenderSpec)
	}{
		{"segment count too small", func(s *RenderSpec) { s.SegmentCount = 2 }},
		{"unknown grayscale mode", func(s *RenderSpec) { s.GrayscaleMode = "sepia" }},
		{"unknown blend mode", func(s *RenderSpec) { s.BlendMode = "multiply" }},
		{"opacity below range", func(s *RenderSpec) { s.Opacity = -0.1 }},
		{"opacity above range", func(s *RenderSpec) { s.Opacity = 1.1 }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			spec := DefaultRenderSpec()
			tc.mutate(&spec)
			err := spec.Validate()
			assert.True(t, errors.Is(err, ErrArgument), "got %v", err)
		})
	}

	spec := DefaultRenderSpec()
	spec.Opacity = 0
	assert.NoError(t, spec.Validate(), "opacity 0 is valid")
	spec.Opacity = 1
	assert.NoError(t, spec.Validate(), "opacity 1 is valid")
}

func TestRenderOverridesApply(t *testing.T) {
	defaults := DefaultRenderSpec()

	var o *RenderOverrides
	assert.Equal(t, defaults, o.Apply(defaults), "nil overrides keep defaults")

	count := 6
	mode := "darken"
	opacity := 0.3
	o = &RenderOverrides{SegmentCount: &count, GrayscaleMode: &mode, Opacity: &opacity}

	spec := o.Apply(defaults)
	assert.Equal(t, 6, spec.SegmentCount)
	assert.Equal(t, GrayscaleDarken, spec.GrayscaleMode)
	assert.Equal(t, BlendOverlay, spec.BlendMode, "unset field keeps default")
	assert.InDelta(t, 0.3, spec.Opacity, 1e-9)
}
