package ffmpeg

import (
	"fmt"
	"strings"
	"testing"

	"github.com/neudestifanoes/Ghostify/internal/domain/entity"
	"github.com/stretchr/testify/assert"
)

func TestGrayscaleGraph(t *testing.T) {
	graph := GrayscaleGraph(3, entity.GrayscaleLighten, nil)
	assert.Equal(t,
		"[0:v]hue=s=0[p0];"+
			"[1:v]hue=s=0[p1];"+
			"[2:v]hue=s=0[p2];"+
			"[p0][p1]blend=all_mode=lighten[b1];"+
			"[b1][p2]blend=all_mode=lighten[outv]",
		graph)
}

func TestGrayscaleGraphDarken(t *testing.T) {
	graph := GrayscaleGraph(2, entity.GrayscaleDarken, nil)
	assert.Contains(t, graph, "blend=all_mode=darken[outv]")
}

func TestGrayscaleGraphPadsShortSegment(t *testing.T) {
	graph := GrayscaleGraph(3, entity.GrayscaleLighten, []int{0, 0, 18})
	assert.Contains(t, graph, "[2:v]hue=s=0,tpad=stop=18:stop_mode=clone[p2]")
	// Only the short input is padded.
	assert.Equal(t, 1, strings.Count(graph, "tpad"))
}

func TestGrayscaleGraphPadFollowsSegmentPosition(t *testing.T) {
	// The fold is commutative, so reordering the inputs only relocates the
	// clone padding; it must stay attached to the short segment wherever
	// that segment sits.
	for idx := 0; idx < 5; idx++ {
		pads := make([]int, 5)
		pads[idx] = 7
		graph := GrayscaleGraph(5, entity.GrayscaleLighten, pads)
		assert.Contains(t, graph,
			fmt.Sprintf("[%d:v]hue=s=0,tpad=stop=7:stop_mode=clone[p%d]", idx, idx),
			"pad position %d", idx)
		assert.Equal(t, 1, strings.Count(graph, "tpad"), "pad position %d", idx)
		assert.Equal(t, 4, strings.Count(graph, "blend=all_mode=lighten"))
	}
}

func TestGrayscaleGraphSingleSegment(t *testing.T) {
	graph := GrayscaleGraph(1, entity.GrayscaleLighten, nil)
	assert.Equal(t, "[0:v]hue=s=0[p0];[p0]null[outv]", graph)
}

func TestTemporalGraphIsolatesExactlyOneChannel(t *testing.T) {
	zones := []entity.Zone{entity.ZoneEarly, entity.ZoneMiddle, entity.ZoneLate}
	graph := TemporalGraph(zones, nil)

	// EARLY keeps R: G and B are identically zero. Symmetrically for the
	// other zones.
	assert.Contains(t, graph, "[0:v]lutrgb=g=0:b=0[p0]")
	assert.Contains(t, graph, "[1:v]lutrgb=r=0:b=0[p1]")
	assert.Contains(t, graph, "[2:v]lutrgb=r=0:g=0[p2]")

	// Additive fold, saturating per ffmpeg's addition mode.
	assert.Contains(t, graph, "[p0][p1]blend=all_mode=addition[b1]")
	assert.Contains(t, graph, "[b1][p2]blend=all_mode=addition[outv]")
}

func TestTemporalGraphTwelveSegments(t *testing.T) {
	zones := make([]entity.Zone, 12)
	for i := range zones {
		z, err := entity.ZoneFor(i, 12)
		assert.NoError(t, err)
		zones[i] = z
	}

	graph := TemporalGraph(zones, nil)
	assert.Equal(t, 4, strings.Count(graph, "lutrgb=g=0:b=0"), "four EARLY inputs keep R")
	assert.Equal(t, 4, strings.Count(graph, "lutrgb=r=0:b=0"), "four MIDDLE inputs keep G")
	assert.Equal(t, 4, strings.Count(graph, "lutrgb=r=0:g=0"), "four LATE inputs keep B")
	assert.Equal(t, 11, strings.Count(graph, "blend=all_mode=addition"))
}

func TestCompositeGraph(t *testing.T) {
	assert.Equal(t,
		"[0:v][1:v]blend=all_mode=overlay:all_opacity=0.600[outv]",
		CompositeGraph(entity.BlendOverlay, 0.6))

	// Opacity 0 leaves the base untouched; 1 is the pure blended result.
	assert.Equal(t,
		"[0:v][1:v]blend=all_mode=screen:all_opacity=0.000[outv]",
		CompositeGraph(entity.BlendScreen, 0))
	assert.Equal(t,
		"[0:v][1:v]blend=all_mode=hardlight:all_opacity=1.000[outv]",
		CompositeGraph(entity.BlendHardLight, 1))
}

func TestTemporalGraphPadFollowsSegmentPosition(t *testing.T) {
	zones := []entity.Zone{entity.ZoneEarly, entity.ZoneMiddle, entity.ZoneLate}
	graph := TemporalGraph(zones, []int{9, 0, 0})
	assert.Contains(t, graph, "[0:v]lutrgb=g=0:b=0,tpad=stop=9:stop_mode=clone[p0]")
	assert.Equal(t, 1, strings.Count(graph, "tpad"))
}
