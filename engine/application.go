package engine

import (
	"github.com/spaghettifunk/solaris/engine/core"
	"github.com/spaghettifunk/solaris/engine/math"
)

const (
	DefaultFollowOffset float32 = 50
	DefaultTimeScale    float64 = 1
)

type ApplicationConfig struct {
	// The application name used in windowing, if applicable.
	Name string
	// Starting viewport width.
	StartWidth int
	// Starting viewport height.
	StartHeight int
	// Simulated hours per real second. May be zero or negative.
	TimeScale float64
	// Simulation time in hours at start.
	StartTime float64
	// Height above a followed entity the camera sits at.
	FollowOffset float32
	// Camera up vector while following; zero means (0, 0, -1).
	FollowUp math.Vec3
	// Wall clock; the system clock when nil.
	TimeSource core.TimeSource
	// Start paused.
	Paused bool
}

func (c *ApplicationConfig) followUp() math.Vec3 {
	if c.FollowUp == (math.Vec3{}) {
		return math.Vec3{0, 0, -1}
	}
	return c.FollowUp
}
