package scene

import (
	"errors"
	"testing"

	"github.com/spaghettifunk/solaris/engine/core"
	"github.com/spaghettifunk/solaris/engine/ephemeris"
	"github.com/spaghettifunk/solaris/engine/math"
	"github.com/spaghettifunk/solaris/engine/renderer"
	"github.com/spaghettifunk/solaris/engine/renderer/recorder"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lineTrack(t *testing.T, n int) *ephemeris.Track {
	t.Helper()
	samples := make([]ephemeris.Sample, n)
	for i := range samples {
		samples[i] = ephemeris.Sample{Time: float64(i), X: float64(i), Y: float64(i % 3)}
	}
	track, err := ephemeris.NewTrack(samples)
	require.NoError(t, err)
	return track
}

func TestBillboard_FacesCamera(t *testing.T) {
	b := recorder.New()
	ctx := newContext(b)
	ctx.Camera.LookAt(math.Vec3{0, 50, 0}, math.Vec3{}, math.Vec3{0, 0, -1})

	e, err := NewEntity("sun", NewBillboard())
	require.NoError(t, err)
	e.Transform.SetPositionRotationScale(math.Vec3{3, 0, 4}, math.Vec3{1, 2, 3}, math.Vec3{1, 1, 1})

	for _, eye := range []math.Vec3{{0, 50, 0}, {30, 5, -20}, {3, 0, 40}} {
		ctx.Camera.SetPosition(eye)
		require.NoError(t, e.Draw(ctx))

		normal := e.Model().Mul4x1(math.Vec4{0, 0, 1, 0}).Vec3().Normalize()
		toEye := eye.Sub(e.Transform.Position).Normalize()
		assert.InDelta(t, 1, normal.Dot(toEye), 1e-5, "eye %v", eye)
		assert.Equal(t, e.Transform.Position, e.Model().Col(3).Vec3())
	}
}

func TestSphere_Geometry(t *testing.T) {
	s, err := NewSphere(5, 16, 32)
	require.NoError(t, err)
	assert.Equal(t, KindSphere, s.Kind())
	assert.Equal(t, 17*33, s.VertexCount())

	_, err = NewSphere(1, 0, 0)
	assert.True(t, errors.Is(err, core.ErrConfiguration))
}

func TestStaticRoute_Stride(t *testing.T) {
	tests := []struct {
		name   string
		n      int
		stride int
		want   int
	}{
		{"default stride", 120, 0, 4},
		{"exact multiple plus one", 101, 50, 3},
		{"every sample", 5, 1, 5},
		{"single sample", 1, 50, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			route, err := NewStaticRoute(lineTrack(t, tt.n), tt.stride)
			require.NoError(t, err)
			assert.Equal(t, tt.want, route.VertexCount())
			// last vertex is the last sample
			last := route.geom.positions[len(route.geom.positions)-3]
			assert.Equal(t, float32(tt.n-1), last)
		})
	}

	_, err := NewStaticRoute(nil, 1)
	assert.True(t, errors.Is(err, core.ErrConfiguration))
}

func TestStaticRoute_UploadsOnce(t *testing.T) {
	b := recorder.New()
	ctx := newContext(b)
	route, err := NewStaticRoute(lineTrack(t, 200), 50)
	require.NoError(t, err)
	e, err := NewEntity("venus-route", route)
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		ctx.SimulationTime = float64(i * 50)
		require.NoError(t, e.Draw(ctx))
	}
	assert.Len(t, b.Ops(recorder.OpCreateVertex), 1)
	assert.Empty(t, b.Ops(recorder.OpUpdateVertex))
	for _, d := range b.Draws() {
		assert.Equal(t, renderer.LineStrip, d.Primitive)
		assert.Equal(t, 5, d.Count)
	}
}

func TestGrowingRoute_Watermark(t *testing.T) {
	b := recorder.New()
	ctx := newContext(b)
	track := lineTrack(t, 10)
	route, err := NewGrowingRoute(track)
	require.NoError(t, err)
	e, err := NewEntity("earth-route", route)
	require.NoError(t, err)

	steps := []struct {
		time       float64
		watermark  int
		wantUpload bool
		offset     int
		length     int
	}{
		{-1, 0, false, 0, 0},
		{0, 1, true, 0, 3},
		{0, 1, false, 0, 0},
		{3.5, 4, true, 3, 9},
		{3.5, 4, false, 0, 0},
		{4, 5, true, 12, 3},
		{100, 10, true, 15, 15},
		{100, 10, false, 0, 0},
	}
	for _, s := range steps {
		b.Reset()
		ctx.SimulationTime = s.time
		require.NoError(t, e.Draw(ctx))

		assert.Equal(t, s.watermark, route.Watermark(), "t=%v", s.time)
		updates := b.Ops(recorder.OpUpdateVertex)
		if s.wantUpload {
			require.Len(t, updates, 1, "t=%v", s.time)
			assert.Equal(t, s.offset, updates[0].Offset)
			assert.Equal(t, s.length, updates[0].Length)
		} else {
			assert.Empty(t, updates, "t=%v", s.time)
		}

		draws := b.Draws()
		if s.watermark == 0 {
			assert.Empty(t, draws)
			continue
		}
		require.Len(t, draws, 1)
		assert.Equal(t, s.watermark, draws[0].Count)
	}

	// buffer holds exactly the samples with time <= t
	buf := b.Vertices[route.geom.positionBuffer]
	for i := 0; i < track.Len(); i++ {
		assert.Equal(t, float32(track.At(i).X), buf[3*i])
	}
}

func TestGrowingRoute_Rewind(t *testing.T) {
	b := recorder.New()
	ctx := newContext(b)
	route, err := NewGrowingRoute(lineTrack(t, 10))
	require.NoError(t, err)
	e, err := NewEntity("route", route)
	require.NoError(t, err)

	ctx.SimulationTime = 6
	require.NoError(t, e.Draw(ctx))
	assert.Equal(t, 7, route.Watermark())

	b.Reset()
	ctx.SimulationTime = 2
	require.NoError(t, e.Draw(ctx))
	assert.Equal(t, 3, route.Watermark())
	assert.Empty(t, b.Ops(recorder.OpUpdateVertex))
	assert.Equal(t, 3, b.Draws()[0].Count)

	b.Reset()
	ctx.SimulationTime = 4
	require.NoError(t, e.Draw(ctx))
	updates := b.Ops(recorder.OpUpdateVertex)
	require.Len(t, updates, 1)
	assert.Equal(t, 9, updates[0].Offset)
	assert.Equal(t, 6, updates[0].Length)
}

func TestRibbonTrail_RegeneratesEveryFrame(t *testing.T) {
	b := recorder.New()
	ctx := newContext(b)
	trail, err := NewRibbonTrail(lineTrack(t, 9), 2, 0.5)
	require.NoError(t, err)
	e, err := NewEntity("trail", trail)
	require.NoError(t, err)

	assert.Equal(t, 4, trail.SegmentCount())

	ctx.Camera.SetPosition(math.Vec3{0, 0, 30})
	require.NoError(t, e.Draw(ctx))
	first := append([]float32(nil), b.Vertices[trail.geom.positionBuffer]...)

	ctx.Camera.SetPosition(math.Vec3{0, 30, 0.1})
	require.NoError(t, e.Draw(ctx))
	second := b.Vertices[trail.geom.positionBuffer]

	assert.Len(t, b.Ops(recorder.OpReplaceVertex), 2)
	assert.NotEqual(t, first, second)

	draws := b.Draws()
	require.Len(t, draws, 2)
	assert.Equal(t, renderer.Triangles, draws[1].Primitive)
	assert.Equal(t, trail.SegmentCount()*6, draws[1].Count, "two triangles per segment")
	assert.NotZero(t, draws[1].Indices)
}

func TestRibbonTrail_Rejects(t *testing.T) {
	_, err := NewRibbonTrail(nil, 1, 1)
	assert.True(t, errors.Is(err, core.ErrConfiguration))

	_, err = NewRibbonTrail(lineTrack(t, 3), 1, 0)
	assert.True(t, errors.Is(err, core.ErrConfiguration))

	_, err = NewRibbonTrail(lineTrack(t, 40000), 1, 1)
	assert.True(t, errors.Is(err, core.ErrConfiguration))
}
