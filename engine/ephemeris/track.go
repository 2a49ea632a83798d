package ephemeris

import (
	"math"
	"sort"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/spaghettifunk/solaris/engine/core"
	emath "github.com/spaghettifunk/solaris/engine/math"
)

// Sample is one position of a body at a simulation time in hours.
type Sample struct {
	Time float64
	X    float64
	Y    float64
	Z    float64
}

func (s Sample) Position() mgl64.Vec3 {
	return mgl64.Vec3{s.X, s.Y, s.Z}
}

// Track is an immutable, strictly time-ordered sequence of samples.
type Track struct {
	samples []Sample
}

// NewTrack validates and copies samples. Tracks must be non-empty, finite and
// strictly increasing in time; out-of-order input is rejected, never sorted.
func NewTrack(samples []Sample) (*Track, error) {
	if len(samples) == 0 {
		return nil, core.NewConfigurationError("track", "no samples")
	}
	for i, s := range samples {
		if !finite(s.Time) || !finite(s.X) || !finite(s.Y) || !finite(s.Z) {
			return nil, core.NewConfigurationError("track", "sample %d is not finite", i)
		}
		if i > 0 && s.Time <= samples[i-1].Time {
			return nil, core.NewConfigurationError("track",
				"sample %d at %gh does not follow %gh", i, s.Time, samples[i-1].Time)
		}
	}
	return &Track{samples: append([]Sample(nil), samples...)}, nil
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

func (t *Track) Len() int {
	return len(t.samples)
}

func (t *Track) At(i int) Sample {
	return t.samples[i]
}

// Start is the time of the first sample.
func (t *Track) Start() float64 {
	return t.samples[0].Time
}

// End is the time of the last sample.
func (t *Track) End() float64 {
	return t.samples[len(t.samples)-1].Time
}

// Samples returns a copy of the backing samples.
func (t *Track) Samples() []Sample {
	return append([]Sample(nil), t.samples...)
}

// IndexAtOrBefore returns how many samples have a time at or before t.
func (t *Track) IndexAtOrBefore(at float64) int {
	return sort.Search(len(t.samples), func(i int) bool {
		return t.samples[i].Time > at
	})
}

// PositionAt interpolates linearly between the bracketing samples and clamps
// to the first and last sample outside the covered range.
func (t *Track) PositionAt(at float64) mgl64.Vec3 {
	n := len(t.samples)
	// NaN fails every comparison below, so it is pinned to the first sample
	if n == 1 || math.IsNaN(at) || at <= t.samples[0].Time {
		return t.samples[0].Position()
	}
	if at >= t.samples[n-1].Time {
		return t.samples[n-1].Position()
	}

	// first sample strictly after t; 1 <= hi <= n-1 here
	hi := t.IndexAtOrBefore(at)
	a, b := t.samples[hi-1], t.samples[hi]
	ratio := (at - a.Time) / (b.Time - a.Time)
	return emath.LerpVec3d(a.Position(), b.Position(), ratio)
}
