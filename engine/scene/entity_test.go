package scene

import (
	"errors"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/spaghettifunk/solaris/engine/core"
	"github.com/spaghettifunk/solaris/engine/ephemeris"
	"github.com/spaghettifunk/solaris/engine/math"
	"github.com/spaghettifunk/solaris/engine/renderer"
	"github.com/spaghettifunk/solaris/engine/renderer/components"
	"github.com/spaghettifunk/solaris/engine/renderer/recorder"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newContext(b renderer.Backend) *RenderContext {
	return &RenderContext{
		Backend:  b,
		Camera:   components.NewCamera(),
		Viewport: renderer.Viewport{Width: 800, Height: 600},
	}
}

func triangle(t *testing.T) *Mesh {
	t.Helper()
	mesh, err := NewMesh(renderer.Triangles, math.MeshData{
		Positions: []float32{0, 0, 0, 1, 0, 0, 0, 1, 0},
		UVs:       []float32{0, 0, 1, 0, 0, 1},
	})
	require.NoError(t, err)
	return mesh
}

func TestNewEntity_Rejects(t *testing.T) {
	_, err := NewEntity("", NewBillboard())
	assert.True(t, errors.Is(err, core.ErrConfiguration))

	_, err = NewEntity("nothing", nil)
	assert.True(t, errors.Is(err, core.ErrConfiguration))
}

func TestNewMesh_Rejects(t *testing.T) {
	tests := []struct {
		name string
		data math.MeshData
	}{
		{"no positions", math.MeshData{}},
		{"partial vertex", math.MeshData{Positions: []float32{0, 0, 0, 1}}},
		{"uv count mismatch", math.MeshData{Positions: []float32{0, 0, 0}, UVs: []float32{0}}},
		{"index out of range", math.MeshData{Positions: []float32{0, 0, 0}, Indices: []uint16{0, 1}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewMesh(renderer.Triangles, tt.data)
			require.Error(t, err)
			assert.True(t, errors.Is(err, core.ErrConfiguration))
		})
	}
}

func TestEntity_UpdateTransformIdempotent(t *testing.T) {
	e, err := NewEntity("tri", triangle(t))
	require.NoError(t, err)
	e.Transform.SetPositionRotationScale(math.Vec3{1, 2, 3}, math.Vec3{0.1, 0.2, 0.3}, math.Vec3{4, 5, 6})

	e.UpdateTransform()
	first := e.Model()
	e.UpdateTransform()

	assert.Equal(t, first, e.Model())
	assert.Equal(t, math.EulerModel(math.Vec3{1, 2, 3}, math.Vec3{0.1, 0.2, 0.3}, math.Vec3{4, 5, 6}), first)
}

func TestEntity_ResolvePosition(t *testing.T) {
	e, err := NewEntity("earth", triangle(t))
	require.NoError(t, err)

	e.Transform.SetPosition(math.Vec3{7, 7, 7})
	e.ResolvePosition(5)
	assert.Equal(t, math.Vec3{7, 7, 7}, e.Transform.Position, "no track keeps the last transform")

	e.Track, err = ephemeris.NewTrack([]ephemeris.Sample{{Time: 0}, {Time: 10, X: 10, Y: -4}})
	require.NoError(t, err)
	e.ResolvePosition(5)
	assert.Equal(t, math.Vec3{5, -2, 0}, e.Transform.Position)
}

func TestEntity_DefaultDraw(t *testing.T) {
	b := recorder.New()
	ctx := newContext(b)
	e, err := NewEntity("tri", triangle(t))
	require.NoError(t, err)
	e.Transform.SetPosition(math.Vec3{1, 0, 0})
	e.Texture = 42

	require.NoError(t, e.Draw(ctx))
	require.NoError(t, e.Draw(ctx))

	assert.Len(t, b.Ops(recorder.OpCreateVertex), 2, "positions and uvs uploaded once")
	draws := b.Draws()
	require.Len(t, draws, 2)
	assert.Equal(t, renderer.Triangles, draws[0].Primitive)
	assert.Equal(t, 3, draws[0].Count)
	assert.NotZero(t, draws[0].UVs)
	assert.Zero(t, draws[0].Indices)

	model, ok := b.Mat4(renderer.UniformModel)
	require.True(t, ok)
	assert.Equal(t, mgl32.Translate3D(1, 0, 0), model)
	view, _ := b.Mat4(renderer.UniformView)
	assert.Equal(t, ctx.Camera.View(), view)
	projection, _ := b.Mat4(renderer.UniformProjection)
	assert.Equal(t, ctx.Camera.Projection(), projection)

	binds := b.Ops(recorder.OpBindTexture)
	require.NotEmpty(t, binds)
	assert.Equal(t, renderer.Texture(42), binds[0].Texture)
	assert.Equal(t, int32(1), b.Uniforms[renderer.UniformUseTexture])
}

func TestEntity_UploadFailure(t *testing.T) {
	b := recorder.New()
	b.FailAllocations = true
	e, err := NewEntity("tri", triangle(t))
	require.NoError(t, err)

	err = e.Upload(b)
	require.Error(t, err)
	assert.True(t, errors.Is(err, core.ErrResource))
	assert.False(t, e.Uploaded())

	err = e.Draw(newContext(b))
	assert.True(t, errors.Is(err, core.ErrResource))
	assert.Empty(t, b.Draws())
}

func TestEntity_ReleaseDestroysBuffers(t *testing.T) {
	b := recorder.New()
	sphere, err := NewSphere(1, 4, 4)
	require.NoError(t, err)
	e, err := NewEntity("ball", sphere)
	require.NoError(t, err)

	require.NoError(t, e.Upload(b))
	e.Release(b)

	assert.Len(t, b.Ops(recorder.OpDestroyBuffer), 3)
	assert.Empty(t, b.Vertices)
	assert.Empty(t, b.Indices)
	assert.False(t, e.Uploaded())
}

func TestRender_Dispatch(t *testing.T) {
	b := recorder.New()
	ctx := newContext(b)
	e, err := NewEntity("tri", triangle(t))
	require.NoError(t, err)

	require.NoError(t, Render(ctx, e))
	assert.Len(t, b.Draws(), 1)

	var seen *Entity
	e.Strategy = StrategyFunc(func(ctx *RenderContext, e *Entity) error {
		seen = e
		return nil
	})
	require.NoError(t, Render(ctx, e))
	assert.Same(t, e, seen)
	assert.Len(t, b.Draws(), 1, "custom strategy owns the draw")
}
