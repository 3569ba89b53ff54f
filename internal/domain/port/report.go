package port

import (
	"context"

	"github.com/neudestifanoes/Ghostify/internal/domain/entity"
)

// FrameReportWriter persists the analyzed frame index as a tabular file
// for operator inspection. Nothing downstream consumes it.
type FrameReportWriter interface {
	WriteReport(ctx context.Context, frames []entity.FrameRecord, path string) error
}
