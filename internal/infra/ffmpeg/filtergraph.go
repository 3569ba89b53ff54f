package ffmpeg

import (
	"fmt"
	"strings"

	"github.com/neudestifanoes/Ghostify/internal/domain/entity"
)

// Filter graph builders for the two accumulation passes and the final
// composite. Pure string construction so the graphs are testable without
// running the media engine.
//
// Both passes overlay all segments at a common window origin (segments are
// split with reset_timestamps, so each input starts at 0.0s) and fold them
// pairwise. Inputs running short of the nominal duration are clone-padded
// at their own position, wherever they sit in the input order.

// isolationFilter keeps only the channel of the given zone and zeroes the
// other two: R for EARLY, G for MIDDLE, B for LATE.
func isolationFilter(zone entity.Zone) string {
	switch zone.Channel() {
	case "r":
		return "lutrgb=g=0:b=0"
	case "g":
		return "lutrgb=r=0:b=0"
	default:
		return "lutrgb=r=0:g=0"
	}
}

// prepFilters returns the per-input preparation chain of a pass, one entry
// per segment, labeled [p0]..[pN-1]. pads holds the clone-padding frame
// count per input, zero for full-length segments; a nil pads means no
// padding anywhere.
func prepFilters(n int, filter func(i int) string, pads []int) []string {
	parts := make([]string, 0, n)
	for i := 0; i < n; i++ {
		chain := filter(i)
		if i < len(pads) && pads[i] > 0 {
			chain += fmt.Sprintf(",tpad=stop=%d:stop_mode=clone", pads[i])
		}
		parts = append(parts, fmt.Sprintf("[%d:v]%s[p%d]", i, chain, i))
	}
	return parts
}

// foldChain folds [p0]..[pN-1] pairwise with the given blend mode into
// [outv]. The blend is per-pixel and associative for the modes used here.
func foldChain(n int, mode string) []string {
	if n == 1 {
		return []string{"[p0]null[outv]"}
	}
	parts := make([]string, 0, n-1)
	last := "[p0]"
	for i := 1; i < n; i++ {
		out := fmt.Sprintf("[b%d]", i)
		if i == n-1 {
			out = "[outv]"
		}
		parts = append(parts, fmt.Sprintf("%s[p%d]blend=all_mode=%s%s", last, i, mode, out))
		last = out
	}
	return parts
}

// GrayscaleGraph builds the filter_complex of the grayscale pass:
// desaturate every segment, then fold with the darken or lighten reducer.
func GrayscaleGraph(n int, mode entity.GrayscaleMode, pads []int) string {
	prep := prepFilters(n, func(int) string { return "hue=s=0" }, pads)
	return strings.Join(append(prep, foldChain(n, string(mode))...), ";")
}

// TemporalGraph builds the filter_complex of the temporal pass: isolate one
// color channel per segment according to its zone, then fold additively
// (per-pixel sum, clipped at the channel maximum).
func TemporalGraph(zones []entity.Zone, pads []int) string {
	prep := prepFilters(len(zones), func(i int) string { return isolationFilter(zones[i]) }, pads)
	return strings.Join(append(prep, foldChain(len(zones), "addition")...), ";")
}

// CompositeGraph blends the overlay (second input) onto the base (first
// input): result = (1-opacity)*base + opacity*blended.
func CompositeGraph(mode entity.BlendMode, opacity float64) string {
	return fmt.Sprintf("[0:v][1:v]blend=all_mode=%s:all_opacity=%.3f[outv]", mode, opacity)
}
