package math

import "github.com/go-gl/mathgl/mgl32"

func TransformCreate() *Transform {
	t := &Transform{}
	t.SetPositionRotationScale(Vec3{}, Vec3{}, Vec3{1, 1, 1})
	return t
}

func (t *Transform) SetPosition(position Vec3) {
	t.Position = position
	t.IsDirty = true
}

func (t *Transform) SetScale(scale Vec3) {
	t.Scale = scale
	t.IsDirty = true
}

func (t *Transform) SetPositionRotationScale(position, rotation, scale Vec3) {
	t.Position = position
	t.Rotation = rotation
	t.Scale = scale
	t.IsDirty = true
}

// GetLocal returns translate * rotZ * rotY * rotX * scale. Recomputing from
// unchanged fields yields the same bits.
func (t *Transform) GetLocal() Mat4 {
	if t == nil {
		return mgl32.Ident4()
	}
	if t.IsDirty || t.Local == (Mat4{}) {
		t.Local = EulerModel(t.Position, t.Rotation, t.Scale)
		t.IsDirty = false
	}
	return t.Local
}

// EulerModel composes a model matrix from position, Euler rotation and scale.
func EulerModel(position, rotation, scale Vec3) Mat4 {
	m := mgl32.Translate3D(position.X(), position.Y(), position.Z())
	m = m.Mul4(mgl32.HomogRotate3DZ(rotation.Z()))
	m = m.Mul4(mgl32.HomogRotate3DY(rotation.Y()))
	m = m.Mul4(mgl32.HomogRotate3DX(rotation.X()))
	return m.Mul4(mgl32.Scale3D(scale.X(), scale.Y(), scale.Z()))
}
