package engine

// Observer is notified after every frame with the simulation time in hours
// and whether the clock is paused. Clock readouts and body pickers hang off
// this instead of reading engine state directly.
type Observer interface {
	OnFrame(simulationTime float64, paused bool)
}

type ObserverFunc func(simulationTime float64, paused bool)

func (f ObserverFunc) OnFrame(simulationTime float64, paused bool) {
	f(simulationTime, paused)
}
