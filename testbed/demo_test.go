package testbed

import (
	"testing"

	"github.com/spaghettifunk/solaris/engine/assets"
	"github.com/spaghettifunk/solaris/engine/ephemeris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrbit_Samples(t *testing.T) {
	o := Orbit{Name: "test", Radius: 10, Period: 40}
	samples := o.Samples(40, 10)
	require.Len(t, samples, 5)

	assert.InDelta(t, 10, samples[0].X, 1e-9)
	assert.InDelta(t, 0, samples[1].X, 1e-9)
	assert.InDelta(t, -10, samples[1].Z, 1e-9)
	assert.InDelta(t, -10, samples[2].X, 1e-9)
	assert.Equal(t, 40.0, samples[4].Time)

	_, err := ephemeris.NewTrack(samples)
	assert.NoError(t, err)
	assert.Nil(t, o.Samples(10, 0))
}

func TestSeedDemoCatalog(t *testing.T) {
	store := demoCatalog(t)

	names, err := store.Bodies()
	require.NoError(t, err)
	assert.Equal(t, []string{"earth", "venus"}, names)

	// existing entries are left alone
	require.NoError(t, store.Import("earth", Orbit{Radius: 1, Period: 10}.Samples(10, 1)))
	require.NoError(t, SeedDemoCatalog(store))
	track, err := store.Track("earth")
	require.NoError(t, err)
	assert.Equal(t, 11, track.Len())
}

func TestDemoScene_Parses(t *testing.T) {
	cfg, err := assets.ParseScene([]byte(DemoScene))
	require.NoError(t, err)
	for _, b := range cfg.Bodies {
		if b.HasTrack() {
			assert.Contains(t, []string{"earth", "venus"}, b.Catalog, b.Name)
		}
	}
}

func TestFormatClock(t *testing.T) {
	tests := []struct {
		name   string
		prefix string
		hours  float64
		scale  float64
		paused bool
		want   string
	}{
		{"start", "Solaris", 0, 1, false, "Solaris | day 0 00h | x1"},
		{"later", "Solaris", 302.5, 24, false, "Solaris | day 12 14h | x24"},
		{"paused", "", 5, 0.5, true, "day 0 05h | x0.5 | paused"},
		{"before start", "", -5, -2, false, "day -1 19h | x-2"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatClock(tt.prefix, tt.hours, tt.scale, tt.paused))
		})
	}
}

func TestClockDisplay_OnlyReportsChanges(t *testing.T) {
	var got []string
	scale := 1.0
	d := NewClockDisplay("S", func() float64 { return scale }, func(s string) { got = append(got, s) })

	d.OnFrame(1, false)
	d.OnFrame(1.5, false)
	d.OnFrame(2, false)
	d.OnFrame(2, true)
	scale = 2
	d.OnFrame(2, true)

	assert.Equal(t, []string{
		"S | day 0 01h | x1",
		"S | day 0 02h | x1",
		"S | day 0 02h | x1 | paused",
		"S | day 0 02h | x2 | paused",
	}, got)
}
