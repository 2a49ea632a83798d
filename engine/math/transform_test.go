package math

import (
	m "math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
)

func TestTransform_GetLocalIdempotent(t *testing.T) {
	tr := TransformCreate()
	tr.SetPositionRotationScale(Vec3{1.1, -2.3, 0.7}, Vec3{0.3, 1.2, -2.9}, Vec3{2, 0.5, 3})

	first := tr.GetLocal()
	tr.IsDirty = true
	second := tr.GetLocal()

	assert.Equal(t, first, second)
	assert.Equal(t, first, EulerModel(tr.Position, tr.Rotation, tr.Scale))
}

func TestEulerModel_CompositionOrder(t *testing.T) {
	pos, rot, scale := Vec3{5, 6, 7}, Vec3{0.4, -0.8, 1.5}, Vec3{1, 2, 3}

	want := mgl32.Translate3D(5, 6, 7).
		Mul4(mgl32.HomogRotate3DZ(1.5)).
		Mul4(mgl32.HomogRotate3DY(-0.8)).
		Mul4(mgl32.HomogRotate3DX(0.4)).
		Mul4(mgl32.Scale3D(1, 2, 3))
	assert.Equal(t, want, EulerModel(pos, rot, scale))

	// X is applied first to the vertex, so a quarter turn on X then Z
	// maps +Y to +Z then stays on +Z.
	got := EulerModel(Vec3{}, Vec3{m.Pi / 2, 0, m.Pi / 2}, Vec3{1, 1, 1}).Mul4x1(Vec4{0, 1, 0, 0}).Vec3()
	assert.True(t, ApproxEqualVec3(got, Vec3{0, 0, 1}, 1e-6), "got %v", got)
}

func TestTransform_SettersMarkDirty(t *testing.T) {
	tr := TransformCreate()
	assert.Equal(t, mgl32.Ident4(), tr.GetLocal())
	assert.False(t, tr.IsDirty)

	tr.SetPosition(Vec3{1, 2, 3})
	assert.True(t, tr.IsDirty)
	assert.Equal(t, mgl32.Translate3D(1, 2, 3), tr.GetLocal())

	tr.SetScale(Vec3{2, 2, 2})
	assert.True(t, tr.IsDirty)
	assert.Equal(t, mgl32.Translate3D(1, 2, 3).Mul4(mgl32.Scale3D(2, 2, 2)), tr.GetLocal())
}

func TestClampAndLerp(t *testing.T) {
	assert.Equal(t, 3, Clamp(5, 0, 3))
	assert.Equal(t, float32(-1), Clamp(float32(-4), -1, 1))
	assert.Equal(t, 0.5, Clamp(0.5, 0.0, 1.0))
	assert.Equal(t, 7.5, Lerp(5.0, 10.0, 0.5))
	assert.Equal(t, Vec3d{1, 2, 3}, LerpVec3d(Vec3d{0, 0, 0}, Vec3d{2, 4, 6}, 0.5))
}

func TestApproxEqualVec3_ZeroComponents(t *testing.T) {
	// mgl's relative threshold rejects these; an absolute distance does not
	assert.True(t, ApproxEqualVec3(Vec3{4.37e-08, 1.9e-15, 1}, Vec3{0, 0, 1}, 1e-6))
	assert.True(t, ApproxEqualVec3d(Vec3d{3, -1.85e-07, -3}, Vec3d{3, 0, -3}, 1e-6))
	assert.False(t, ApproxEqualVec3(Vec3{0, 0.01, 1}, Vec3{0, 0, 1}, 1e-3))
}

func TestSphericalRoundTrip(t *testing.T) {
	for _, v := range []Vec3{{1, 2, 3}, {-4, 0.5, 2}, {0, -7, 0.01}, {3, 0, -3}} {
		theta, phi, r := Spherical(v)
		back := FromSpherical(theta, phi, r)
		assert.True(t, ApproxEqualVec3(back, v, 1e-4), "%v -> %v", v, back)
	}
	_, phi, r := Spherical(Vec3{})
	assert.Equal(t, float32(0), r)
	assert.Equal(t, K_PI/2, phi)
}
