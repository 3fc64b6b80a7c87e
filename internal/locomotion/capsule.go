package locomotion

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/locomotion/pkg/math"
)

// Capsule is the character collider in local space: a vertical capsule of
// Height with hemispherical caps of Radius, centred at Center.
type Capsule struct {
	Height float32
	Radius float32
	Center mgl32.Vec3
}

// Bottom returns the local-space Y of the lowest point of the capsule.
func (c Capsule) Bottom() float32 {
	return c.Center.Y() - c.Height/2
}

// Lowered returns the capsule scaled to ratio of its height with the bottom
// kept in place, so the feet stay on the ground.
func (c Capsule) Lowered(ratio float32) Capsule {
	height := c.Height * ratio
	diff := c.Height - height

	center := c.Center
	center[1] -= diff / 2

	return Capsule{Height: height, Radius: c.Radius, Center: center}
}

// HeadProbe returns the local-space sphere that must be free for the
// character to stand back up at this capsule's full size: the centre of the
// upper cap.
func (c Capsule) HeadProbe() (center mgl32.Vec3, radius float32) {
	cylinder := c.Height - 2*c.Radius
	if cylinder < 0 {
		cylinder = 0
	}
	return c.Center.Add(math.Up.Mul(cylinder / 2)), c.Radius
}
