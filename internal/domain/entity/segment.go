package entity

import "fmt"

// Segment is one keyframe-bounded slice of the source video, stream-copied
// to its own file. The final segment of a source may be shorter than the
// nominal duration; downstream blending pads it back to Nominal.
type Segment struct {
	Index     int
	StartTime float64
	EndTime   float64
	Nominal   float64
	Path      string
}

func (s Segment) Duration() float64 {
	return s.EndTime - s.StartTime
}

// Zone is one of three contiguous thirds of the segmented timeline. Each
// zone maps to a single color channel in the temporal pass.
type Zone int

const (
	ZoneEarly Zone = iota
	ZoneMiddle
	ZoneLate
)

func (z Zone) String() string {
	switch z {
	case ZoneEarly:
		return "EARLY"
	case ZoneMiddle:
		return "MIDDLE"
	case ZoneLate:
		return "LATE"
	}
	return "UNKNOWN"
}

// Channel returns the color channel the zone keeps: R for EARLY, G for
// MIDDLE, B for LATE.
func (z Zone) Channel() string {
	switch z {
	case ZoneEarly:
		return "r"
	case ZoneMiddle:
		return "g"
	default:
		return "b"
	}
}

// ZoneFor partitions [0, total) into three contiguous thirds by integer
// division. The remainder when total is not divisible by 3 goes to LATE,
// keeping the partition exhaustive and non-overlapping. total must be at
// least 3 and index within [0, total).
func ZoneFor(index, total int) (Zone, error) {
	if total < 3 {
		return 0, fmt.Errorf("%w: segment count %d, need at least 3", ErrArgument, total)
	}
	if index < 0 || index >= total {
		return 0, fmt.Errorf("%w: segment index %d out of range [0,%d)", ErrArgument, index, total)
	}

	third := total / 3
	switch {
	case index < third:
		return ZoneEarly, nil
	case index < 2*third:
		return ZoneMiddle, nil
	default:
		return ZoneLate, nil
	}
}
