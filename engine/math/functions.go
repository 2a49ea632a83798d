package math

import (
	m "math"

	"github.com/go-gl/mathgl/mgl32"
)

const (
	/** @brief An approximate representation of PI. */
	K_PI float32 = 3.14159265358979323846
	/** @brief An approximate representation of PI divided by 4. */
	K_QUARTER_PI float32 = 0.25 * K_PI
	/** @brief Keeps orbiting cameras away from the poles. */
	K_POLE_EPSILON float32 = 1e-4
	/** @brief Below this length a vector is treated as zero. */
	K_FLOAT_EPSILON float32 = 1.192092896e-07
)

// ToVec3 narrows a double precision position for upload.
func ToVec3(v Vec3d) Vec3 {
	return Vec3{float32(v[0]), float32(v[1]), float32(v[2])}
}

// LerpVec3d interpolates each axis independently.
func LerpVec3d(a, b Vec3d, f float64) Vec3d {
	return Vec3d{Lerp(a[0], b[0], f), Lerp(a[1], b[1], f), Lerp(a[2], b[2], f)}
}

// Spherical returns (theta, phi, r) of an offset, with theta measured around
// +Y from +Z and phi from +Y. A zero offset yields phi = pi/2.
func Spherical(offset Vec3) (theta, phi, r float32) {
	x, y, z := float64(offset.X()), float64(offset.Y()), float64(offset.Z())
	r = float32(m.Sqrt(x*x + y*y + z*z))
	theta = float32(m.Atan2(x, z))
	if r < K_FLOAT_EPSILON {
		return theta, K_PI / 2, r
	}
	// atan2 keeps precision near the poles where acos(y/r) collapses to 0
	return theta, float32(m.Atan2(m.Hypot(x, z), y)), r
}

// FromSpherical is the inverse of Spherical.
func FromSpherical(theta, phi, r float32) Vec3 {
	st, ct := m.Sincos(float64(theta))
	sp, cp := m.Sincos(float64(phi))
	return Vec3{
		r * float32(sp*st),
		r * float32(cp),
		r * float32(sp*ct),
	}
}

// ApproxEqualVec3 compares by absolute distance; mgl's relative check is
// too strict on components that are exactly zero.
func ApproxEqualVec3(a, b Vec3, tolerance float32) bool {
	return a.Sub(b).Len() <= tolerance
}

func ApproxEqualVec3d(a, b Vec3d, tolerance float64) bool {
	return a.Sub(b).Len() <= tolerance
}

func DegToRad(deg float32) float32 {
	return mgl32.DegToRad(deg)
}
