package math

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// Up is the world up axis.
var Up = mgl32.Vec3{0, 1, 0}

// FacingBasis returns the right and forward axes of a character turned by
// yaw radians about +Y. Yaw 0 faces +Z with +X to the right.
func FacingBasis(yaw float32) (right, forward mgl32.Vec3) {
	sin, cos := math32.Sincos(yaw)
	forward = mgl32.Vec3{sin, 0, cos}
	right = mgl32.Vec3{cos, 0, -sin}
	return right, forward
}

// PlanarDirection maps a 2D stick vector (x strafes, y moves forward) into
// the world-space ground plane of a character facing yaw.
func PlanarDirection(input mgl32.Vec2, yaw float32) mgl32.Vec3 {
	right, forward := FacingBasis(yaw)
	return right.Mul(input.X()).Add(forward.Mul(input.Y()))
}
