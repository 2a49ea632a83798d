package math

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateSphere(t *testing.T) {
	data, err := GenerateSphere(2, 4, 8)
	require.NoError(t, err)

	assert.Equal(t, 5*9, data.VertexCount())
	assert.Len(t, data.UVs, 5*9*2)
	assert.Len(t, data.Indices, 4*8*6)

	// north pole first, south pole last
	assert.InDelta(t, 2, data.Positions[1], 1e-6)
	assert.InDelta(t, -2, data.Positions[len(data.Positions)-2], 1e-6)
	assert.Equal(t, float32(1), data.UVs[0])
	assert.Equal(t, float32(1), data.UVs[1])

	for i := 0; i < data.VertexCount(); i++ {
		v := Vec3{data.Positions[3*i], data.Positions[3*i+1], data.Positions[3*i+2]}
		assert.InDelta(t, 2, v.Len(), 1e-5)
	}
	for _, idx := range data.Indices {
		assert.Less(t, int(idx), data.VertexCount())
	}
	// first quad of the first band
	assert.Equal(t, []uint16{0, 9, 1, 9, 10, 1}, data.Indices[:6])
}

func TestGenerateSphere_Rejects(t *testing.T) {
	tests := []struct {
		name      string
		lat, long int
	}{
		{"too few latitude bands", 1, 8},
		{"too few longitude bands", 8, 2},
		{"exceeds 16 bit indices", 300, 300},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := GenerateSphere(1, tt.lat, tt.long)
			assert.Error(t, err)
		})
	}
}

func TestBillboardBasis(t *testing.T) {
	tests := []struct {
		name       string
		center     Vec3
		eye        Vec3
		up         Vec3
		wantFwd    Vec3
		wantRightX bool
	}{
		{"eye on +Z", Vec3{}, Vec3{0, 0, 10}, Vec3{0, 1, 0}, Vec3{0, 0, 1}, true},
		{"offset center", Vec3{1, 1, 1}, Vec3{1, 1, -4}, Vec3{0, 1, 0}, Vec3{0, 0, -1}, false},
		{"up parallel to view", Vec3{}, Vec3{0, 50, 0}, Vec3{0, 1, 0}, Vec3{0, 1, 0}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			right, up, fwd := BillboardBasis(tt.center, tt.eye, tt.up)

			assert.True(t, ApproxEqualVec3(fwd, tt.wantFwd, 1e-6))
			assert.InDelta(t, 1, right.Len(), 1e-5)
			assert.InDelta(t, 1, up.Len(), 1e-5)
			assert.InDelta(t, 0, right.Dot(up), 1e-5)
			assert.InDelta(t, 0, right.Dot(fwd), 1e-5)
			assert.InDelta(t, 0, up.Dot(fwd), 1e-5)
			if tt.wantRightX {
				assert.True(t, ApproxEqualVec3(right, Vec3{1, 0, 0}, 1e-6))
			}
		})
	}
}

func TestBillboardModel_FacesEye(t *testing.T) {
	center, eye := Vec3{3, 0, 0}, Vec3{3, 0, 20}
	model := BillboardModel(center, Vec3{2, 4, 1}, eye, Vec3{0, 1, 0})

	// quad normal (+Z in model space) must point at the eye
	normal := model.Mul4x1(Vec4{0, 0, 1, 0}).Vec3().Normalize()
	toEye := eye.Sub(center).Normalize()
	assert.InDelta(t, 1, normal.Dot(toEye), 1e-5)

	corner := model.Mul4x1(Vec4{1, 1, 0, 1}).Vec3()
	assert.True(t, ApproxEqualVec3(corner, Vec3{5, 4, 0}, 1e-5), "got %v", corner)
}

func TestGenerateRibbon(t *testing.T) {
	points := []Vec3{{0, 0, 0}, {1, 0, 0}, {2, 0, 0}, {3, 0, 0}}
	data := GenerateRibbon(points, Vec3{1.5, 0, 10}, 0.5)

	assert.Equal(t, 12, data.VertexCount())
	assert.Equal(t, RibbonVertexCount(len(points)), data.VertexCount())
	assert.Len(t, data.Indices, 3*6)

	// the line runs along X and the eye is above on +Z, so edges are offset on Y
	for i := 0; i < data.VertexCount(); i += 2 {
		a := Vec3{data.Positions[3*i], data.Positions[3*i+1], data.Positions[3*i+2]}
		b := Vec3{data.Positions[3*i+3], data.Positions[3*i+4], data.Positions[3*i+5]}
		assert.InDelta(t, 1, a.Sub(b).Len(), 1e-5)
		assert.InDelta(t, 0, a.Sub(b).X(), 1e-5)
		assert.InDelta(t, 0, a.Sub(b).Z(), 1e-5)
	}

	assert.Empty(t, GenerateRibbon(nil, Vec3{}, 1).Positions)
	single := GenerateRibbon(points[:1], Vec3{0, 0, 5}, 1)
	assert.Equal(t, 2, single.VertexCount())
	assert.Empty(t, single.Indices)
}

func TestGenerateRibbon_SegmentsUseTheirOwnDirection(t *testing.T) {
	points := []Vec3{{0, 0, 0}, {1, 0, 0}, {1, 1, 0}}
	eye := Vec3{0, 0, 10}
	data := GenerateRibbon(points, eye, 0.5)
	require.Equal(t, 8, data.VertexCount())

	vertex := func(i int) Vec3 {
		return Vec3{data.Positions[3*i], data.Positions[3*i+1], data.Positions[3*i+2]}
	}
	for seg := 0; seg < 2; seg++ {
		p0, p1 := points[seg], points[seg+1]
		want := p1.Sub(p0).Cross(eye.Sub(p0)).Normalize()
		for _, pair := range [][2]int{{4 * seg, 4*seg + 1}, {4*seg + 2, 4*seg + 3}} {
			half := vertex(pair[0]).Sub(vertex(pair[1])).Mul(0.5)
			assert.True(t, ApproxEqualVec3(half, want.Mul(0.5), 1e-5), "segment %d got %v", seg, half)
		}
	}
	// the shared corner is emitted once per segment with different offsets
	assert.False(t, ApproxEqualVec3(vertex(2), vertex(4), 1e-3))
}
