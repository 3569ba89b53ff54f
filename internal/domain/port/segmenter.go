package port

import (
	"context"

	"github.com/neudestifanoes/Ghostify/internal/domain/entity"
)

// Segmenter cuts the source into keyframe-bounded segment files without
// re-encoding. Segment boundaries are exactly the keyframe timestamps.
type Segmenter interface {
	Split(ctx context.Context, videoPath string, frames []entity.FrameRecord, outputDir string) ([]entity.Segment, error)
}
