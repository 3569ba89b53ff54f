package entity

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestZoneForPartitionsAllCounts(t *testing.T) {
	// For every count, the three zones must cover [0, n) exhaustively,
	// without overlap, in contiguous EARLY < MIDDLE < LATE order.
	for n := 3; n <= 100; n++ {
		var counts [3]int
		prev := ZoneEarly
		for i := 0; i < n; i++ {
			z, err := ZoneFor(i, n)
			require.NoError(t, err, "n=%d i=%d", n, i)
			require.GreaterOrEqual(t, z, prev, "zones must be non-decreasing, n=%d i=%d", n, i)
			counts[z]++
			prev = z
		}

		third := n / 3
		assert.Equal(t, third, counts[ZoneEarly], "EARLY size, n=%d", n)
		assert.Equal(t, third, counts[ZoneMiddle], "MIDDLE size, n=%d", n)
		// Remainder goes to LATE.
		assert.Equal(t, n-2*third, counts[ZoneLate], "LATE size, n=%d", n)
	}
}

func TestZoneForTwelveSegments(t *testing.T) {
	expected := map[int]Zone{
		0: ZoneEarly, 3: ZoneEarly,
		4: ZoneMiddle, 7: ZoneMiddle,
		8: ZoneLate, 11: ZoneLate,
	}
	for i, want := range expected {
		z, err := ZoneFor(i, 12)
		require.NoError(t, err)
		assert.Equal(t, want, z, "index %d", i)
	}
}

func TestZoneForRejectsBadArguments(t *testing.T) {
	_, err := ZoneFor(0, 2)
	assert.True(t, errors.Is(err, ErrArgument))

	_, err = ZoneFor(-1, 12)
	assert.True(t, errors.Is(err, ErrArgument))

	_, err = ZoneFor(12, 12)
	assert.True(t, errors.Is(err, ErrArgument))
}

func TestZoneChannelMapping(t *testing.T) {
	assert.Equal(t, "r", ZoneEarly.Channel())
	assert.Equal(t, "g", ZoneMiddle.Channel())
	assert.Equal(t, "b", ZoneLate.Channel())
}

func TestSegmentDuration(t *testing.T) {
	s := Segment{StartTime: 9.0, EndTime: 11.5, Nominal: 3.0}
	assert.InDelta(t, 2.5, s.Duration(), 1e-9)
}
