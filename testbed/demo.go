package testbed

import (
	m "math"

	"github.com/spaghettifunk/solaris/engine/core"
	"github.com/spaghettifunk/solaris/engine/ephemeris"
)

// DemoScene is used when the asset directory has no scene file. Its tracks
// come from the catalog, see SeedDemoCatalog.
const DemoScene = `
name = "inner system"

[camera]
position = [0, 120, 40]
target = [0, 0, 0]

[[body]]
name = "sun"
kind = "billboard"
scale = 8
colour = [1.0, 0.8, 0.3]
strategy = "screen-billboard"

[[body]]
name = "earth"
kind = "sphere"
radius = 2
colour = [0.25, 0.45, 1.0]
catalog = "earth"

[[body]]
name = "earth-route"
kind = "growing-route"
catalog = "earth"
colour = [0.3, 0.6, 1.0]
strategy = "unlit"

[[body]]
name = "venus"
kind = "sphere"
radius = 1.8
colour = [0.95, 0.8, 0.5]
catalog = "venus"

[[body]]
name = "venus-route"
kind = "ribbon"
catalog = "venus"
stride = 5
thickness = 0.4
colour = [0.9, 0.7, 0.3]
strategy = "unlit"
`

// Orbit is a circular orbit in the XZ plane.
type Orbit struct {
	Name   string
	Radius float64
	// Period in hours.
	Period float64
	// Phase in radians at hour zero.
	Phase float64
}

var DemoOrbits = []Orbit{
	{Name: "earth", Radius: 40, Period: 8766},
	{Name: "venus", Radius: 29, Period: 5393, Phase: 1.2},
}

const (
	// DemoSpan covers two Earth years.
	DemoSpan float64 = 2 * ephemeris.HoursPerYear
	// DemoStep samples once a day.
	DemoStep float64 = ephemeris.HoursPerDay
)

// Samples returns positions from hour 0 to span inclusive, every step hours.
func (o Orbit) Samples(span, step float64) []ephemeris.Sample {
	if step <= 0 || span < 0 {
		return nil
	}
	n := int(span/step) + 1
	out := make([]ephemeris.Sample, n)
	for i := range out {
		t := float64(i) * step
		a := o.Phase + 2*m.Pi*t/o.Period
		out[i] = ephemeris.Sample{Time: t, X: o.Radius * m.Cos(a), Z: -o.Radius * m.Sin(a)}
	}
	return out
}

// TrackStore is the part of the catalog seeding needs.
type TrackStore interface {
	Bodies() ([]string, error)
	Import(name string, samples []ephemeris.Sample) error
}

// SeedDemoCatalog imports the demo orbits the store does not hold yet.
func SeedDemoCatalog(store TrackStore) error {
	names, err := store.Bodies()
	if err != nil {
		return err
	}
	have := make(map[string]bool, len(names))
	for _, n := range names {
		have[n] = true
	}
	for _, o := range DemoOrbits {
		if have[o.Name] {
			continue
		}
		if err := store.Import(o.Name, o.Samples(DemoSpan, DemoStep)); err != nil {
			return err
		}
		core.LogDebug("seeded demo orbit for %s", o.Name)
	}
	return nil
}
