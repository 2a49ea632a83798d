package testbed

import (
	"fmt"
	"strings"

	"github.com/spaghettifunk/solaris/engine/ephemeris"
)

// ClockDisplay renders the simulation clock as text for hosts without an
// overlay, such as a window title. sink only sees changed text.
type ClockDisplay struct {
	prefix string
	scale  func() float64
	sink   func(string)
	last   string
}

func NewClockDisplay(prefix string, timeScale func() float64, sink func(string)) *ClockDisplay {
	return &ClockDisplay{prefix: prefix, scale: timeScale, sink: sink}
}

func (d *ClockDisplay) OnFrame(simulationTime float64, paused bool) {
	text := FormatClock(d.prefix, simulationTime, d.scale(), paused)
	if text == d.last {
		return
	}
	d.last = text
	d.sink(text)
}

// FormatClock prints the simulation time as day and hour, e.g.
// "Solaris | day 12 14h | x24".
func FormatClock(prefix string, simulationTime, timeScale float64, paused bool) string {
	day := int(simulationTime) / ephemeris.HoursPerDay
	hour := int(simulationTime) % ephemeris.HoursPerDay
	if simulationTime < 0 && hour != 0 {
		day--
		hour += ephemeris.HoursPerDay
	}

	var sb strings.Builder
	if prefix != "" {
		sb.WriteString(prefix)
		sb.WriteString(" | ")
	}
	fmt.Fprintf(&sb, "day %d %02dh | x%g", day, hour, timeScale)
	if paused {
		sb.WriteString(" | paused")
	}
	return sb.String()
}
