package ffmpeg

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/neudestifanoes/Ghostify/internal/domain/entity"
	"github.com/neudestifanoes/Ghostify/internal/domain/port"
	"go.uber.org/zap"
)

// Segmenter cuts the source at every keyframe with the segment muxer in
// stream-copy mode, so no frame is re-encoded. reset_timestamps makes every
// segment start at 0.0s, which is what the blending passes rely on.
type Segmenter struct {
	runner port.CommandRunner
	logger *zap.Logger
}

func NewSegmenter(runner port.CommandRunner, logger *zap.Logger) *Segmenter {
	return &Segmenter{runner: runner, logger: logger}
}

// SplitTimes returns the positive keyframe timestamps formatted for the
// segment muxer's -segment_times option. Exported for tests.
func SplitTimes(frames []entity.FrameRecord) []string {
	var times []string
	for _, f := range entity.Keyframes(frames) {
		if f.Timestamp > 0 {
			times = append(times, fmt.Sprintf("%.4f", f.Timestamp))
		}
	}
	return times
}

func (s *Segmenter) Split(ctx context.Context, videoPath string, frames []entity.FrameRecord, outputDir string) ([]entity.Segment, error) {
	keys := entity.Keyframes(frames)
	if len(keys) < 2 {
		return nil, fmt.Errorf("%w: %d keyframe(s) in source, nothing to segment", entity.ErrSegmentation, len(keys))
	}

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("create segment dir: %w", err)
	}

	pattern := filepath.Join(outputDir, "segment_%03d.mp4")
	times := strings.Join(SplitTimes(frames), ",")

	if _, err := s.runner.Run(ctx, "segment", "ffmpeg",
		"-y",
		"-i", videoPath,
		"-f", "segment",
		"-segment_times", times,
		"-reset_timestamps", "1",
		"-map", "0",
		"-c", "copy",
		pattern,
	); err != nil {
		return nil, err
	}

	// The muxer numbers files by segment index, widening past three digits
	// (segment_999, segment_1000). Resolve each path by index; a lexical
	// sort of a glob would pair segment_1000 before segment_999.
	paths := make([]string, 0, len(keys))
	for i := range keys {
		p := filepath.Join(outputDir, fmt.Sprintf("segment_%03d.mp4", i))
		if _, err := os.Stat(p); err != nil {
			break
		}
		paths = append(paths, p)
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("%w: segment muxer produced no files", entity.ErrSegmentation)
	}

	segments := buildSegments(keys, frames[len(frames)-1].Timestamp, paths)

	s.logger.Info("source segmented",
		zap.Int("segments", len(segments)),
		zap.Float64("nominal_duration", segments[0].Nominal),
	)
	return segments, nil
}

// buildSegments pairs keyframe boundaries with the produced files. The
// nominal duration is the first keyframe interval; the trailing segment may
// run short of it and is clone-padded downstream.
func buildSegments(keys []entity.FrameRecord, lastTimestamp float64, paths []string) []entity.Segment {
	nominal := lastTimestamp - keys[0].Timestamp
	if len(keys) > 1 {
		nominal = keys[1].Timestamp - keys[0].Timestamp
	}

	segments := make([]entity.Segment, 0, len(paths))
	for i, p := range paths {
		if i >= len(keys) {
			break
		}
		start := keys[i].Timestamp
		end := lastTimestamp
		if i+1 < len(keys) {
			end = keys[i+1].Timestamp
		}
		segments = append(segments, entity.Segment{
			Index:     i,
			StartTime: start,
			EndTime:   end,
			Nominal:   nominal,
			Path:      p,
		})
	}
	return segments
}
