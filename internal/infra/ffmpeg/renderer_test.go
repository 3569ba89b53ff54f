package ffmpeg

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/neudestifanoes/Ghostify/internal/domain/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func infoJSON(w, h int, fps string, duration float64) []byte {
	return []byte(fmt.Sprintf(
		`{"streams":[{"width":%d,"height":%d,"avg_frame_rate":"%s","duration":"%f"}],"format":{"duration":"%f"}}`,
		w, h, fps, duration, duration,
	))
}

// probeOrRecord answers ffprobe calls from the byPath map and lets ffmpeg
// calls through, recording them.
func probeOrRecord(byPath map[string][]byte) *fakeRunner {
	r := &fakeRunner{}
	r.run = func(_, name string, args []string) ([]byte, error) {
		if name == "ffprobe" {
			path := args[len(args)-1]
			out, ok := byPath[path]
			if !ok {
				return nil, &entity.ExternalToolError{Stage: "probe", Output: "no fixture for " + path, Err: errors.New("exit status 1")}
			}
			return out, nil
		}
		return nil, nil
	}
	return r
}

func threeSegments(nominal, lastDuration float64) []entity.Segment {
	return []entity.Segment{
		{Index: 0, StartTime: 0, EndTime: nominal, Nominal: nominal, Path: "seg0.mp4"},
		{Index: 1, StartTime: nominal, EndTime: 2 * nominal, Nominal: nominal, Path: "seg1.mp4"},
		{Index: 2, StartTime: 2 * nominal, EndTime: 2*nominal + lastDuration, Nominal: nominal, Path: "seg2.mp4"},
	}
}

func lastFfmpegCall(t *testing.T, r *fakeRunner) fakeCall {
	t.Helper()
	for i := len(r.calls) - 1; i >= 0; i-- {
		if r.calls[i].Name == "ffmpeg" {
			return r.calls[i]
		}
	}
	t.Fatal("no ffmpeg invocation recorded")
	return fakeCall{}
}

func argValue(args []string, flag string) string {
	for i, a := range args {
		if a == flag && i+1 < len(args) {
			return args[i+1]
		}
	}
	return ""
}

func TestRenderGrayscaleBuildsExpectedInvocation(t *testing.T) {
	runner := probeOrRecord(nil)
	r := NewRenderer(runner, zap.NewNop())

	segments := threeSegments(3.0, 3.0) // no padding needed
	err := r.RenderGrayscale(context.Background(), segments, entity.GrayscaleLighten, "base.mp4")
	require.NoError(t, err)

	call := lastFfmpegCall(t, runner)
	assert.Equal(t, "grayscale_pass", call.Stage)

	joined := strings.Join(call.Args, " ")
	assert.Contains(t, joined, "-i seg0.mp4 -i seg1.mp4 -i seg2.mp4")
	assert.Contains(t, joined, "-c:v libx264 -crf 18 -pix_fmt yuv420p base.mp4")

	graph := argValue(call.Args, "-filter_complex")
	assert.Equal(t, GrayscaleGraph(3, entity.GrayscaleLighten, nil), graph)
}

func TestRenderGrayscalePadsShortTrailingSegment(t *testing.T) {
	runner := probeOrRecord(map[string][]byte{
		"seg2.mp4": infoJSON(640, 360, "25/1", 2.2),
	})
	r := NewRenderer(runner, zap.NewNop())

	// Last segment is 0.8s short of the 3s nominal at 25 fps: 20 frames.
	segments := threeSegments(3.0, 2.2)
	err := r.RenderGrayscale(context.Background(), segments, entity.GrayscaleDarken, "base.mp4")
	require.NoError(t, err)

	graph := argValue(lastFfmpegCall(t, runner).Args, "-filter_complex")
	assert.Contains(t, graph, "[2:v]hue=s=0,tpad=stop=20:stop_mode=clone[p2]")
}

func TestRenderGrayscalePadsShortSegmentInAnyPosition(t *testing.T) {
	runner := probeOrRecord(map[string][]byte{
		"seg2.mp4": infoJSON(640, 360, "25/1", 2.2),
	})
	r := NewRenderer(runner, zap.NewNop())

	// Rotate so the short segment leads the input list. The clone padding
	// must follow it; the fold result is order-independent only when every
	// input presents the nominal duration.
	segments := threeSegments(3.0, 2.2)
	rotated := []entity.Segment{segments[2], segments[0], segments[1]}
	err := r.RenderGrayscale(context.Background(), rotated, entity.GrayscaleLighten, "base.mp4")
	require.NoError(t, err)

	graph := argValue(lastFfmpegCall(t, runner).Args, "-filter_complex")
	assert.Contains(t, graph, "[0:v]hue=s=0,tpad=stop=20:stop_mode=clone[p0]")
	assert.Equal(t, 1, strings.Count(graph, "tpad"))
}

func TestRenderTemporalChecksZoneAlignment(t *testing.T) {
	r := NewRenderer(probeOrRecord(nil), zap.NewNop())

	segments := threeSegments(3.0, 3.0)
	err := r.RenderTemporal(context.Background(), segments, []entity.Zone{entity.ZoneEarly}, "temporal.mp4")
	assert.True(t, errors.Is(err, entity.ErrArgument), "got %v", err)
}

func TestRenderTemporalInvocation(t *testing.T) {
	runner := probeOrRecord(nil)
	r := NewRenderer(runner, zap.NewNop())

	segments := threeSegments(3.0, 3.0)
	zones := []entity.Zone{entity.ZoneEarly, entity.ZoneMiddle, entity.ZoneLate}
	err := r.RenderTemporal(context.Background(), segments, zones, "temporal.mp4")
	require.NoError(t, err)

	call := lastFfmpegCall(t, runner)
	assert.Equal(t, "temporal_pass", call.Stage)
	assert.Equal(t, TemporalGraph(zones, nil), argValue(call.Args, "-filter_complex"))
}

func TestCompositeRejectsMismatchedInputs(t *testing.T) {
	t.Run("resolution", func(t *testing.T) {
		runner := probeOrRecord(map[string][]byte{
			"base.mp4":    infoJSON(1280, 720, "25/1", 3.0),
			"overlay.mp4": infoJSON(640, 360, "25/1", 3.0),
		})
		r := NewRenderer(runner, zap.NewNop())

		err := r.Composite(context.Background(), "base.mp4", "overlay.mp4", "final.mp4", entity.BlendOverlay, 0.6)
		assert.True(t, errors.Is(err, entity.ErrDimensionMismatch), "got %v", err)
	})

	t.Run("duration", func(t *testing.T) {
		runner := probeOrRecord(map[string][]byte{
			"base.mp4":    infoJSON(1280, 720, "25/1", 3.0),
			"overlay.mp4": infoJSON(1280, 720, "25/1", 4.5),
		})
		r := NewRenderer(runner, zap.NewNop())

		err := r.Composite(context.Background(), "base.mp4", "overlay.mp4", "final.mp4", entity.BlendOverlay, 0.6)
		assert.True(t, errors.Is(err, entity.ErrDimensionMismatch), "got %v", err)
	})

	t.Run("duration within one frame passes", func(t *testing.T) {
		runner := probeOrRecord(map[string][]byte{
			"base.mp4":    infoJSON(1280, 720, "25/1", 3.0),
			"overlay.mp4": infoJSON(1280, 720, "25/1", 3.03),
		})
		r := NewRenderer(runner, zap.NewNop())

		err := r.Composite(context.Background(), "base.mp4", "overlay.mp4", "final.mp4", entity.BlendOverlay, 0.6)
		require.NoError(t, err)

		call := lastFfmpegCall(t, runner)
		assert.Equal(t, "composite", call.Stage)
		assert.Equal(t, CompositeGraph(entity.BlendOverlay, 0.6), argValue(call.Args, "-filter_complex"))
	})
}

func TestCompositeRejectsBadOpacity(t *testing.T) {
	r := NewRenderer(probeOrRecord(nil), zap.NewNop())

	err := r.Composite(context.Background(), "base.mp4", "overlay.mp4", "final.mp4", entity.BlendOverlay, 1.5)
	assert.True(t, errors.Is(err, entity.ErrArgument), "got %v", err)
}

func TestRenderGrayscaleRejectsEmptySegments(t *testing.T) {
	r := NewRenderer(probeOrRecord(nil), zap.NewNop())

	err := r.RenderGrayscale(context.Background(), nil, entity.GrayscaleLighten, "base.mp4")
	assert.True(t, errors.Is(err, entity.ErrArgument), "got %v", err)
}
