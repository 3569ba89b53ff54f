package port

import (
	"context"

	"github.com/neudestifanoes/Ghostify/internal/domain/entity"
)

// VideoInfo is the container-level shape of a video file.
type VideoInfo struct {
	Duration  float64
	Width     int
	Height    int
	FrameRate float64
}

// FrameAnalyzer produces the ordered frame index of a source video, one
// record per decoded frame in presentation order.
type FrameAnalyzer interface {
	AnalyzeFrames(ctx context.Context, videoPath string) ([]entity.FrameRecord, error)
	Probe(ctx context.Context, videoPath string) (VideoInfo, error)
}
