package math

import (
	"fmt"
	m "math"

	"github.com/go-gl/mathgl/mgl32"
)

// MaxIndexedVertices is the largest vertex count addressable by 16-bit indices.
const MaxIndexedVertices = 1 << 16

/** @brief Vertex data for one mesh; positions are xyz, uvs are st. */
type MeshData struct {
	Positions []float32
	UVs       []float32
	Indices   []uint16
}

func (d MeshData) VertexCount() int {
	return len(d.Positions) / 3
}

// GenerateSphere builds a UV sphere. Rows run from the north pole (v = 1)
// down to the south pole (v = 0); columns wrap with a duplicated seam.
func GenerateSphere(radius float32, latitudeBands, longitudeBands int) (MeshData, error) {
	if latitudeBands < 2 || longitudeBands < 3 {
		return MeshData{}, fmt.Errorf("sphere needs at least 2 latitude and 3 longitude bands, got %d and %d", latitudeBands, longitudeBands)
	}
	vertices := (latitudeBands + 1) * (longitudeBands + 1)
	if vertices > MaxIndexedVertices {
		return MeshData{}, fmt.Errorf("sphere with %d vertices exceeds 16-bit indices", vertices)
	}

	data := MeshData{
		Positions: make([]float32, 0, vertices*3),
		UVs:       make([]float32, 0, vertices*2),
		Indices:   make([]uint16, 0, latitudeBands*longitudeBands*6),
	}
	for lat := 0; lat <= latitudeBands; lat++ {
		theta := float64(lat) * m.Pi / float64(latitudeBands)
		sinTheta, cosTheta := m.Sincos(theta)
		for long := 0; long <= longitudeBands; long++ {
			phi := float64(long) * 2 * m.Pi / float64(longitudeBands)
			sinPhi, cosPhi := m.Sincos(phi)

			x := float32(cosPhi * sinTheta)
			y := float32(cosTheta)
			z := float32(sinPhi * sinTheta)
			data.Positions = append(data.Positions, radius*x, radius*y, radius*z)
			data.UVs = append(data.UVs,
				1-float32(long)/float32(longitudeBands),
				1-float32(lat)/float32(latitudeBands))
		}
	}
	for lat := 0; lat < latitudeBands; lat++ {
		for long := 0; long < longitudeBands; long++ {
			first := uint16(lat*(longitudeBands+1) + long)
			second := first + uint16(longitudeBands) + 1
			data.Indices = append(data.Indices,
				first, second, first+1,
				second, second+1, first+1)
		}
	}
	return data, nil
}

// GenerateQuad is a unit quad spanning [-1, 1] in the XY plane facing +Z.
func GenerateQuad() MeshData {
	return MeshData{
		Positions: []float32{
			-1, -1, 0,
			1, -1, 0,
			1, 1, 0,
			-1, 1, 0,
		},
		UVs:     []float32{0, 0, 1, 0, 1, 1, 0, 1},
		Indices: []uint16{0, 1, 2, 0, 2, 3},
	}
}

// BillboardBasis returns an orthonormal (right, up, forward) basis where
// forward points from center toward eye. When up is parallel to forward an
// alternate axis is used.
func BillboardBasis(center, eye, up Vec3) (right, newUp, forward Vec3) {
	forward = eye.Sub(center)
	if forward.Len() < K_FLOAT_EPSILON {
		forward = Vec3{0, 0, 1}
	}
	forward = forward.Normalize()

	right = up.Cross(forward)
	if right.Len() < 1e-6 {
		for _, alt := range []Vec3{{0, 0, 1}, {1, 0, 0}, {0, 1, 0}} {
			right = alt.Cross(forward)
			if right.Len() >= 1e-6 {
				break
			}
		}
	}
	right = right.Normalize()
	newUp = forward.Cross(right)
	return right, newUp, forward
}

// BillboardModel places a quad at center, scaled, with its +Z facing eye.
func BillboardModel(center, scale, eye, up Vec3) Mat4 {
	right, newUp, forward := BillboardBasis(center, eye, up)
	return mgl32.Mat4FromCols(
		right.Mul(scale.X()).Vec4(0),
		newUp.Mul(scale.Y()).Vec4(0),
		forward.Mul(scale.Z()).Vec4(0),
		center.Vec4(1),
	)
}

// RibbonVertexCount is the number of vertices GenerateRibbon emits for n
// points.
func RibbonVertexCount(n int) int {
	if n < 2 {
		return 2 * n
	}
	return 4 * (n - 1)
}

// GenerateRibbon expands a polyline into a camera-facing strip of triangles.
// Each segment gets its own four vertices, offset along
// normalize(segment x (eye - segment start)), and two triangles. The v
// coordinate is 0 on one edge and 1 on the other; u runs along the line.
func GenerateRibbon(points []Vec3, eye Vec3, halfWidth float32) MeshData {
	n := len(points)
	count := RibbonVertexCount(n)
	data := MeshData{
		Positions: make([]float32, 0, count*3),
		UVs:       make([]float32, 0, count*2),
	}
	switch n {
	case 0:
		return data
	case 1:
		offset := ribbonSide(Vec3{1, 0, 0}, eye.Sub(points[0]), Vec3{0, 1, 0}).Mul(halfWidth)
		a, b := points[0].Add(offset), points[0].Sub(offset)
		data.Positions = append(data.Positions, a.X(), a.Y(), a.Z(), b.X(), b.Y(), b.Z())
		data.UVs = append(data.UVs, 0, 0, 0, 1)
		return data
	}

	data.Indices = make([]uint16, 0, (n-1)*6)
	side := Vec3{1, 0, 0}
	last := float32(n - 1)
	for i := 0; i < n-1; i++ {
		p0, p1 := points[i], points[i+1]
		side = ribbonSide(p1.Sub(p0), eye.Sub(p0), side)
		offset := side.Mul(halfWidth)
		for _, p := range []Vec3{p0.Add(offset), p0.Sub(offset), p1.Add(offset), p1.Sub(offset)} {
			data.Positions = append(data.Positions, p.X(), p.Y(), p.Z())
		}
		u0, u1 := float32(i)/last, float32(i+1)/last
		data.UVs = append(data.UVs, u0, 0, u0, 1, u1, 0, u1, 1)

		a := uint16(4 * i)
		data.Indices = append(data.Indices, a, a+1, a+2, a+1, a+3, a+2)
	}
	return data
}

// ribbonSide returns normalize(dir x toEye), or fallback when the segment
// points at the eye or has no length.
func ribbonSide(dir, toEye, fallback Vec3) Vec3 {
	side := dir.Cross(toEye)
	if side.Len() < 1e-6 {
		return fallback
	}
	return side.Normalize()
}
