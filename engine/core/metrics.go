package core

import (
	"context"
	"fmt"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const instrumentationName = "github.com/spaghettifunk/solaris/engine"

const AVG_COUNT uint8 = 30

// FrameMetrics keeps a rolling frame-time average and publishes frame
// statistics through the global OpenTelemetry meter (a no-op unless the host
// installs a provider).
type FrameMetrics struct {
	mu                 sync.Mutex
	frameAVGCounter    uint8
	msTimes            [AVG_COUNT]float64
	msAvg              float64
	frames             int32
	accumulatedFrameMS float64
	fps                float64
	simulationHours    float64
	entities           int64

	frameCounter  metric.Int64Counter
	drawErrors    metric.Int64Counter
	frameDuration metric.Float64Histogram
	simTime       metric.Float64ObservableGauge
	entityGauge   metric.Int64ObservableGauge
}

func NewFrameMetrics() (*FrameMetrics, error) {
	m := otel.Meter(instrumentationName)
	fm := &FrameMetrics{}

	var err error
	fm.frameCounter, err = m.Int64Counter(
		"engine.frames",
		metric.WithDescription("Frames rendered"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating frame counter: %w", err)
	}

	fm.drawErrors, err = m.Int64Counter(
		"engine.draw.errors",
		metric.WithDescription("Entity draws that returned an error"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating draw error counter: %w", err)
	}

	fm.frameDuration, err = m.Float64Histogram(
		"engine.frame.duration",
		metric.WithDescription("Wall-clock time between frames"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating frame duration histogram: %w", err)
	}

	fm.simTime, err = m.Float64ObservableGauge(
		"engine.simulation.time",
		metric.WithDescription("Current simulation time"),
		metric.WithUnit("h"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating simulation time gauge: %w", err)
	}

	fm.entityGauge, err = m.Int64ObservableGauge(
		"engine.scene.entities",
		metric.WithDescription("Entities in the scene"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating entity gauge: %w", err)
	}

	_, err = m.RegisterCallback(
		func(ctx context.Context, o metric.Observer) error {
			fm.mu.Lock()
			defer fm.mu.Unlock()
			o.ObserveFloat64(fm.simTime, fm.simulationHours)
			o.ObserveInt64(fm.entityGauge, fm.entities)
			return nil
		},
		fm.simTime, fm.entityGauge,
	)
	if err != nil {
		return nil, fmt.Errorf("registering frame callback: %w", err)
	}
	return fm, nil
}

// Update records one frame. elapsedSeconds is the wall-clock delta since the
// previous frame.
func (fm *FrameMetrics) Update(elapsedSeconds, simulationHours float64, entities, failedDraws int, paused bool) {
	frameMS := elapsedSeconds * 1000.0

	fm.mu.Lock()
	fm.msTimes[fm.frameAVGCounter] = frameMS
	if fm.frameAVGCounter == AVG_COUNT-1 {
		sum := 0.0
		for i := uint8(0); i < AVG_COUNT; i++ {
			sum += fm.msTimes[i]
		}
		fm.msAvg = sum / float64(AVG_COUNT)
	}
	fm.frameAVGCounter = (fm.frameAVGCounter + 1) % AVG_COUNT

	fm.accumulatedFrameMS += frameMS
	if fm.accumulatedFrameMS > 1000 {
		fm.fps = float64(fm.frames)
		fm.accumulatedFrameMS -= 1000
		fm.frames = 0
	}
	fm.frames++
	fm.simulationHours = simulationHours
	fm.entities = int64(entities)
	fm.mu.Unlock()

	ctx := context.Background()
	attrs := metric.WithAttributes(attribute.Bool("paused", paused))
	fm.frameCounter.Add(ctx, 1, attrs)
	fm.frameDuration.Record(ctx, frameMS, attrs)
	if failedDraws > 0 {
		fm.drawErrors.Add(ctx, int64(failedDraws))
	}
}

func (fm *FrameMetrics) FPS() float64 {
	fm.mu.Lock()
	defer fm.mu.Unlock()
	return fm.fps
}

// FrameTime is the average frame time in milliseconds over the last
// AVG_COUNT frames.
func (fm *FrameMetrics) FrameTime() float64 {
	fm.mu.Lock()
	defer fm.mu.Unlock()
	return fm.msAvg
}
