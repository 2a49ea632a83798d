package scene

import (
	"fmt"

	"github.com/spaghettifunk/solaris/engine/core"
	"github.com/spaghettifunk/solaris/engine/ephemeris"
	"github.com/spaghettifunk/solaris/engine/math"
	"github.com/spaghettifunk/solaris/engine/renderer"
)

// DefaultRouteStride is how many samples a route skips between vertices.
const DefaultRouteStride = 50

// strideIndices returns every stride-th sample index plus the last one.
func strideIndices(n, stride int) []int {
	if stride < 1 {
		stride = DefaultRouteStride
	}
	out := make([]int, 0, n/stride+2)
	for i := 0; i < n; i += stride {
		out = append(out, i)
	}
	if n > 0 && out[len(out)-1] != n-1 {
		out = append(out, n-1)
	}
	return out
}

func samplePoint(s ephemeris.Sample) math.Vec3 {
	return math.ToVec3(s.Position())
}

// StaticRoute is a whole track pre-sampled into a line strip.
type StaticRoute struct {
	Stride int

	geom *geometry
}

func NewStaticRoute(track *ephemeris.Track, stride int) (*StaticRoute, error) {
	if track == nil {
		return nil, core.NewConfigurationError("static route", "track is required")
	}
	if stride < 1 {
		stride = DefaultRouteStride
	}
	idx := strideIndices(track.Len(), stride)
	positions := make([]float32, 0, len(idx)*3)
	for _, i := range idx {
		p := samplePoint(track.At(i))
		positions = append(positions, p.X(), p.Y(), p.Z())
	}
	return &StaticRoute{
		Stride: stride,
		geom:   newGeometry(renderer.LineStrip, renderer.StaticDraw, positions, nil, nil),
	}, nil
}

func (r *StaticRoute) Kind() Kind          { return KindStaticRoute }
func (r *StaticRoute) geometry() *geometry { return r.geom }
func (r *StaticRoute) VertexCount() int    { return r.geom.vertexCount() }
func (r *StaticRoute) prepare(_ *RenderContext, e *Entity) error {
	e.UpdateTransform()
	return nil
}

// GrowingRoute draws the samples whose time is at or before the simulation
// time. The buffer is sized for the whole track up front; each frame only
// the newly reached samples are written.
type GrowingRoute struct {
	track     *ephemeris.Track
	watermark int

	geom *geometry
}

func NewGrowingRoute(track *ephemeris.Track) (*GrowingRoute, error) {
	if track == nil {
		return nil, core.NewConfigurationError("growing route", "track is required")
	}
	g := newGeometry(renderer.LineStrip, renderer.DynamicDraw, make([]float32, track.Len()*3), nil, nil)
	g.count = 0
	return &GrowingRoute{track: track, geom: g}, nil
}

func (r *GrowingRoute) Kind() Kind          { return KindGrowingRoute }
func (r *GrowingRoute) geometry() *geometry { return r.geom }

// Watermark is the number of samples currently committed to the buffer.
func (r *GrowingRoute) Watermark() int { return r.watermark }

// Advance commits every sample with time <= t that is not yet in the buffer
// and uploads only that region. Moving t backwards lowers the watermark; the
// stale tail is overwritten when time moves forward again.
func (r *GrowingRoute) Advance(b renderer.Backend, t float64) error {
	target := r.track.IndexAtOrBefore(t)
	if target > r.watermark {
		from := r.watermark * 3
		for i := r.watermark; i < target; i++ {
			p := samplePoint(r.track.At(i))
			r.geom.positions[3*i] = p.X()
			r.geom.positions[3*i+1] = p.Y()
			r.geom.positions[3*i+2] = p.Z()
		}
		if err := b.UpdateVertexBuffer(r.geom.positionBuffer, from, r.geom.positions[from:target*3]); err != nil {
			return fmt.Errorf("growing route update: %w", err)
		}
	}
	r.watermark = target
	r.geom.count = target
	return nil
}

func (r *GrowingRoute) prepare(ctx *RenderContext, e *Entity) error {
	e.UpdateTransform()
	return r.Advance(ctx.Backend, ctx.SimulationTime)
}

// RibbonTrail is a track drawn as a flat strip that always faces the camera.
// Its vertices depend on the eye position, so they are rebuilt and re-uploaded
// every frame.
type RibbonTrail struct {
	Stride    int
	Thickness float32

	points []math.Vec3
	geom   *geometry
}

func NewRibbonTrail(track *ephemeris.Track, stride int, thickness float32) (*RibbonTrail, error) {
	if track == nil {
		return nil, core.NewConfigurationError("ribbon trail", "track is required")
	}
	if thickness <= 0 {
		return nil, core.NewConfigurationError("ribbon trail", "thickness must be positive, got %g", thickness)
	}
	if stride < 1 {
		stride = DefaultRouteStride
	}
	idx := strideIndices(track.Len(), stride)
	if math.RibbonVertexCount(len(idx)) > math.MaxIndexedVertices {
		return nil, core.NewConfigurationError("ribbon trail", "%d points exceed 16-bit indices, raise the stride", len(idx))
	}
	points := make([]math.Vec3, len(idx))
	for i, j := range idx {
		points[i] = samplePoint(track.At(j))
	}

	r := &RibbonTrail{Stride: stride, Thickness: thickness, points: points}
	data := math.GenerateRibbon(points, math.Vec3{0, 0, 1}, thickness/2)
	r.geom = newGeometry(renderer.Triangles, renderer.DynamicDraw, data.Positions, data.UVs, data.Indices)
	if len(points) < 2 {
		r.geom.count = 0
	}
	return r, nil
}

func (r *RibbonTrail) Kind() Kind          { return KindRibbonTrail }
func (r *RibbonTrail) geometry() *geometry { return r.geom }
func (r *RibbonTrail) SegmentCount() int   { return len(r.points) - 1 }

func (r *RibbonTrail) prepare(ctx *RenderContext, e *Entity) error {
	e.UpdateTransform()
	data := math.GenerateRibbon(r.points, ctx.Camera.Position(), r.Thickness/2)
	r.geom.positions = data.Positions
	if err := ctx.Backend.ReplaceVertexBuffer(r.geom.positionBuffer, data.Positions); err != nil {
		return fmt.Errorf("ribbon trail update: %w", err)
	}
	return nil
}
