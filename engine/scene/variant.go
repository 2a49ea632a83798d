package scene

import (
	"github.com/spaghettifunk/solaris/engine/core"
	"github.com/spaghettifunk/solaris/engine/math"
	"github.com/spaghettifunk/solaris/engine/renderer"
)

type Kind uint8

const (
	KindMesh Kind = iota
	KindBillboard
	KindSphere
	KindStaticRoute
	KindGrowingRoute
	KindRibbonTrail
)

func (k Kind) String() string {
	switch k {
	case KindMesh:
		return "mesh"
	case KindBillboard:
		return "billboard"
	case KindSphere:
		return "sphere"
	case KindStaticRoute:
		return "static_route"
	case KindGrowingRoute:
		return "growing_route"
	case KindRibbonTrail:
		return "ribbon_trail"
	}
	return "unknown"
}

// Variant is the closed set of entity geometries: *Mesh, *Billboard,
// *Sphere, *StaticRoute, *GrowingRoute and *RibbonTrail.
type Variant interface {
	Kind() Kind
	geometry() *geometry
	prepare(ctx *RenderContext, e *Entity) error
}

// Mesh is static geometry drawn with the default transform.
type Mesh struct {
	geom *geometry
}

// NewMesh validates and takes ownership of the given vertex data. UVs are
// optional; indices, when present, must address existing vertices.
func NewMesh(primitive renderer.Primitive, data math.MeshData) (*Mesh, error) {
	g, err := meshGeometry(primitive, data)
	if err != nil {
		return nil, err
	}
	return &Mesh{geom: g}, nil
}

func meshGeometry(primitive renderer.Primitive, data math.MeshData) (*geometry, error) {
	n := data.VertexCount()
	switch {
	case n == 0:
		return nil, core.NewConfigurationError("mesh", "no vertices")
	case len(data.Positions)%3 != 0:
		return nil, core.NewConfigurationError("mesh", "%d position floats is not a multiple of 3", len(data.Positions))
	case len(data.UVs) != 0 && len(data.UVs) != n*2:
		return nil, core.NewConfigurationError("mesh", "%d uv floats for %d vertices", len(data.UVs), n)
	case len(data.Indices) != 0 && n > math.MaxIndexedVertices:
		return nil, core.NewConfigurationError("mesh", "%d vertices exceed 16-bit indices", n)
	}
	for _, idx := range data.Indices {
		if int(idx) >= n {
			return nil, core.NewConfigurationError("mesh", "index %d out of range for %d vertices", idx, n)
		}
	}
	return newGeometry(primitive, renderer.StaticDraw, data.Positions, data.UVs, data.Indices), nil
}

func (m *Mesh) Kind() Kind          { return KindMesh }
func (m *Mesh) geometry() *geometry { return m.geom }
func (m *Mesh) VertexCount() int    { return m.geom.vertexCount() }
func (m *Mesh) IndexCount() int     { return len(m.geom.indices) }
func (m *Mesh) prepare(_ *RenderContext, e *Entity) error {
	e.UpdateTransform()
	return nil
}

// Sphere is a UV sphere generated once at construction.
type Sphere struct {
	Radius         float32
	LatitudeBands  int
	LongitudeBands int

	geom *geometry
}

func NewSphere(radius float32, latitudeBands, longitudeBands int) (*Sphere, error) {
	data, err := math.GenerateSphere(radius, latitudeBands, longitudeBands)
	if err != nil {
		return nil, core.NewConfigurationError("sphere", "%s", err)
	}
	return &Sphere{
		Radius:         radius,
		LatitudeBands:  latitudeBands,
		LongitudeBands: longitudeBands,
		geom:           newGeometry(renderer.Triangles, renderer.StaticDraw, data.Positions, data.UVs, data.Indices),
	}, nil
}

func (s *Sphere) Kind() Kind          { return KindSphere }
func (s *Sphere) geometry() *geometry { return s.geom }
func (s *Sphere) VertexCount() int    { return s.geom.vertexCount() }
func (s *Sphere) prepare(_ *RenderContext, e *Entity) error {
	e.UpdateTransform()
	return nil
}

// Billboard is a unit quad turned to face the camera every frame. The
// entity's rotation is ignored.
type Billboard struct {
	// WorldUp seeds the facing basis; +Y unless set.
	WorldUp math.Vec3

	geom *geometry
}

func NewBillboard() *Billboard {
	quad := math.GenerateQuad()
	return &Billboard{
		WorldUp: math.Vec3{0, 1, 0},
		geom:    newGeometry(renderer.Triangles, renderer.StaticDraw, quad.Positions, quad.UVs, quad.Indices),
	}
}

func (b *Billboard) Kind() Kind          { return KindBillboard }
func (b *Billboard) geometry() *geometry { return b.geom }

// FaceCamera sets the entity's model matrix to T * R{right, up, forward} * S
// with forward pointing at the camera.
func (b *Billboard) FaceCamera(e *Entity, eye math.Vec3) {
	e.model = math.BillboardModel(e.Transform.Position, e.Transform.Scale, eye, b.WorldUp)
}

func (b *Billboard) prepare(ctx *RenderContext, e *Entity) error {
	b.FaceCamera(e, ctx.Camera.Position())
	return nil
}
