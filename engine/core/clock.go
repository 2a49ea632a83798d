package core

import (
	"math"
	"sync"
	"time"
)

// TimeSource yields wall-clock instants. Hosts use the system clock, tests a
// ManualTimeSource.
type TimeSource interface {
	Now() time.Time
}

type SystemTimeSource struct{}

func (SystemTimeSource) Now() time.Time {
	return time.Now()
}

// ManualTimeSource only moves when told to.
type ManualTimeSource struct {
	mu  sync.Mutex
	now time.Time
}

func NewManualTimeSource(start time.Time) *ManualTimeSource {
	return &ManualTimeSource{now: start}
}

func (m *ManualTimeSource) Now() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}

func (m *ManualTimeSource) Set(t time.Time) {
	m.mu.Lock()
	m.now = t
	m.mu.Unlock()
}

// Advance moves the source forward and returns the new instant.
func (m *ManualTimeSource) Advance(d time.Duration) time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.now = m.now.Add(d)
	return m.now
}

// SimulationClock holds simulation time in hours. Time scale is the number of
// simulated hours per wall-clock second and may be zero or negative.
type SimulationClock struct {
	hours     float64
	timeScale float64
	paused    bool
}

func NewSimulationClock(start, timeScale float64) *SimulationClock {
	return &SimulationClock{hours: start, timeScale: timeScale}
}

// Advance consumes a wall-clock delta in seconds. A paused clock discards it.
func (c *SimulationClock) Advance(elapsedSeconds float64) float64 {
	if c.paused || elapsedSeconds <= 0 || math.IsNaN(elapsedSeconds) {
		return c.hours
	}
	// an overflowing step leaves the clock where it was
	next := c.hours + elapsedSeconds*c.timeScale
	if math.IsNaN(next) || math.IsInf(next, 0) {
		return c.hours
	}
	c.hours = next
	return c.hours
}

func (c *SimulationClock) Hours() float64 {
	return c.hours
}

func (c *SimulationClock) Set(hours float64) {
	c.hours = hours
}

func (c *SimulationClock) TimeScale() float64 {
	return c.timeScale
}

func (c *SimulationClock) SetTimeScale(scale float64) {
	c.timeScale = scale
}

func (c *SimulationClock) Paused() bool {
	return c.paused
}

func (c *SimulationClock) SetPaused(paused bool) {
	c.paused = paused
}
