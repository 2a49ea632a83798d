package math

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/go-gl/mathgl/mgl64"
)

/** @brief Single precision vectors and matrices, as uploaded to the backend. */
type (
	Vec2 = mgl32.Vec2
	Vec3 = mgl32.Vec3
	Vec4 = mgl32.Vec4
	Mat4 = mgl32.Mat4
)

/** @brief A double precision position, as stored in ephemeris tracks. */
type Vec3d = mgl64.Vec3

/**
 * @brief Represents the transform of an entity in the world.
 * Rotation holds Euler angles in radians applied Z, then Y, then X.
 * NOTE: edit through the setters so the model matrix is regenerated.
 */
type Transform struct {
	/** @brief The position in the world. */
	Position Vec3
	/** @brief Euler rotation (x, y, z) in radians. */
	Rotation Vec3
	/** @brief The scale in the world. */
	Scale Vec3
	/**
	 * @brief Indicates if the position, rotation or scale have changed,
	 * indicating that the local matrix needs to be recalculated.
	 */
	IsDirty bool
	/** @brief The cached model matrix. */
	Local Mat4
}
