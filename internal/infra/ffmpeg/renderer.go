package ffmpeg

import (
	"context"
	"fmt"
	"math"

	"github.com/neudestifanoes/Ghostify/internal/domain/entity"
	"github.com/neudestifanoes/Ghostify/internal/domain/port"
	"go.uber.org/zap"
)

// Encoder settings for every produced artifact.
const (
	videoCodec = "libx264"
	videoCRF   = "18"
	pixelFmt   = "yuv420p"
)

// Renderer runs the accumulation passes and the final composite through the
// command runner. One ffmpeg invocation per artifact.
type Renderer struct {
	runner port.CommandRunner
	logger *zap.Logger
}

func NewRenderer(runner port.CommandRunner, logger *zap.Logger) *Renderer {
	return &Renderer{runner: runner, logger: logger}
}

func (r *Renderer) RenderGrayscale(ctx context.Context, segments []entity.Segment, mode entity.GrayscaleMode, outputPath string) error {
	if len(segments) == 0 {
		return fmt.Errorf("%w: no segments to accumulate", entity.ErrArgument)
	}

	pads, err := r.segmentPads(ctx, "grayscale_pass", segments)
	if err != nil {
		return err
	}

	graph := GrayscaleGraph(len(segments), mode, pads)
	r.logger.Debug("grayscale pass", zap.String("mode", string(mode)), zap.Ints("pad_frames", pads))
	return r.renderGraph(ctx, "grayscale_pass", segments, graph, outputPath)
}

func (r *Renderer) RenderTemporal(ctx context.Context, segments []entity.Segment, zones []entity.Zone, outputPath string) error {
	if len(segments) == 0 {
		return fmt.Errorf("%w: no segments to accumulate", entity.ErrArgument)
	}
	if len(zones) != len(segments) {
		return fmt.Errorf("%w: %d zones for %d segments", entity.ErrArgument, len(zones), len(segments))
	}

	pads, err := r.segmentPads(ctx, "temporal_pass", segments)
	if err != nil {
		return err
	}

	graph := TemporalGraph(zones, pads)
	r.logger.Debug("temporal pass", zap.Ints("pad_frames", pads))
	return r.renderGraph(ctx, "temporal_pass", segments, graph, outputPath)
}

func (r *Renderer) Composite(ctx context.Context, basePath, overlayPath, outputPath string, mode entity.BlendMode, opacity float64) error {
	if opacity < 0 || opacity > 1 {
		return fmt.Errorf("%w: opacity %v outside [0,1]", entity.ErrArgument, opacity)
	}

	base, err := probeInfo(ctx, r.runner, "composite", basePath)
	if err != nil {
		return err
	}
	overlay, err := probeInfo(ctx, r.runner, "composite", overlayPath)
	if err != nil {
		return err
	}
	if base.Width != overlay.Width || base.Height != overlay.Height {
		return fmt.Errorf("%w: base %dx%d vs overlay %dx%d",
			entity.ErrDimensionMismatch, base.Width, base.Height, overlay.Width, overlay.Height)
	}
	if math.Abs(base.Duration-overlay.Duration) > frameTolerance(base.FrameRate) {
		return fmt.Errorf("%w: base %.3fs vs overlay %.3fs",
			entity.ErrDimensionMismatch, base.Duration, overlay.Duration)
	}

	graph := CompositeGraph(mode, opacity)
	_, err = r.runner.Run(ctx, "composite", "ffmpeg",
		"-y",
		"-i", basePath,
		"-i", overlayPath,
		"-filter_complex", graph,
		"-map", "[outv]",
		"-c:v", videoCodec, "-crf", videoCRF, "-pix_fmt", pixelFmt,
		outputPath,
	)
	return err
}

func (r *Renderer) renderGraph(ctx context.Context, stage string, segments []entity.Segment, graph, outputPath string) error {
	args := []string{"-y"}
	for _, seg := range segments {
		args = append(args, "-i", seg.Path)
	}
	args = append(args,
		"-filter_complex", graph,
		"-map", "[outv]",
		"-c:v", videoCodec, "-crf", videoCRF, "-pix_fmt", pixelFmt,
		outputPath,
	)
	_, err := r.runner.Run(ctx, stage, "ffmpeg", args...)
	return err
}

// segmentPads computes per-input clone padding, in frames, for every
// segment running short of its nominal duration. Padding is keyed to the
// segment itself, not its slice position, so the fold stays correct under
// any input order.
func (r *Renderer) segmentPads(ctx context.Context, stage string, segments []entity.Segment) ([]int, error) {
	pads := make([]int, len(segments))
	for i, seg := range segments {
		short := seg.Nominal - seg.Duration()
		if short <= 0 {
			continue
		}

		info, err := probeInfo(ctx, r.runner, stage, seg.Path)
		if err != nil {
			return nil, err
		}
		if info.FrameRate <= 0 {
			continue
		}
		pads[i] = int(math.Round(short * info.FrameRate))
	}
	return pads, nil
}

// frameTolerance is the duration slack allowed between compositing inputs:
// one frame at the base layer's rate.
func frameTolerance(frameRate float64) float64 {
	if frameRate <= 0 {
		return 0.1
	}
	return 1 / frameRate
}
