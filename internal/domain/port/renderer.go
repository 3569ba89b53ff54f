package port

import (
	"context"

	"github.com/neudestifanoes/Ghostify/internal/domain/entity"
)

// GhostRenderer runs the two accumulation passes and the final composite.
// Each call produces exactly one artifact file.
type GhostRenderer interface {
	// RenderGrayscale desaturates every segment and folds them with the
	// darken or lighten reducer into a single base artifact.
	RenderGrayscale(ctx context.Context, segments []entity.Segment, mode entity.GrayscaleMode, outputPath string) error

	// RenderTemporal isolates one color channel per segment according to
	// its zone and folds the results additively into the temporal artifact.
	// zones must be aligned index-for-index with segments.
	RenderTemporal(ctx context.Context, segments []entity.Segment, zones []entity.Zone, outputPath string) error

	// Composite blends the temporal overlay onto the grayscale base with
	// the given mode and opacity. Inputs must match in resolution and
	// duration.
	Composite(ctx context.Context, basePath, overlayPath, outputPath string, mode entity.BlendMode, opacity float64) error
}
