// Package world is a minimal physics host for headless runs: a flat floor
// plus axis-aligned boxes that act as platforms, walls and ceilings.
package world

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/multierr"

	"github.com/Faultbox/locomotion/internal/locomotion"
	"github.com/Faultbox/locomotion/pkg/math"
)

// ErrInvalidRadius is returned by OverlapSphere for a non-positive radius.
var ErrInvalidRadius = errors.New("invalid sphere radius")

// groundSnap is how far above a surface the feet may hover and still count
// as standing on it.
const groundSnap = 0.01

// Box is an axis-aligned solid.
type Box struct {
	Name string     `yaml:"name"`
	Min  mgl32.Vec3 `yaml:"min"`
	Max  mgl32.Vec3 `yaml:"max"`
}

func (b Box) containsXZ(x, z, margin float32) bool {
	return x >= b.Min.X()-margin && x <= b.Max.X()+margin &&
		z >= b.Min.Z()-margin && z <= b.Max.Z()+margin
}

// Layout describes a world.
type Layout struct {
	Floor      float32    `yaml:"floor"`
	StepHeight float32    `yaml:"step_height"`
	Spawn      mgl32.Vec3 `yaml:"spawn"`
	Boxes      []Box      `yaml:"boxes"`
}

// Validate checks every box is well formed.
func (l Layout) Validate() error {
	var err error
	if l.StepHeight < 0 {
		err = multierr.Append(err, fmt.Errorf("step_height must be >= 0, got %v", l.StepHeight))
	}
	for i, b := range l.Boxes {
		for axis := 0; axis < 3; axis++ {
			if !(b.Min[axis] < b.Max[axis]) {
				err = multierr.Append(err, fmt.Errorf("box %d (%s): min must be below max on axis %d", i, b.Name, axis))
				break
			}
		}
	}
	return err
}

// World implements locomotion.Physics and locomotion.Mover for one character.
type World struct {
	layout   Layout
	capsule  locomotion.Capsule
	pos      mgl32.Vec3
	grounded bool
}

// New places a character with the given capsule at the layout spawn point,
// snapped down onto the surface below it.
func New(layout Layout, capsule locomotion.Capsule) (*World, error) {
	if err := layout.Validate(); err != nil {
		return nil, fmt.Errorf("invalid layout: %w", err)
	}
	w := &World{layout: layout, capsule: capsule}
	w.Teleport(layout.Spawn)
	return w, nil
}

// Teleport moves the character to pos and snaps it onto the ground if it is
// at or below a surface.
func (w *World) Teleport(pos mgl32.Vec3) {
	w.pos = pos
	w.settle(pos.Y())
}

// SetCapsule updates the collider used for wall and ceiling tests.
func (w *World) SetCapsule(c locomotion.Capsule) { w.capsule = c }

// Position returns the character origin.
func (w *World) Position() mgl32.Vec3 { return w.pos }

// Grounded reports whether the last move ended on a surface.
func (w *World) Grounded() bool { return w.grounded }

// OverlapSphere reports whether a world-space sphere touches any box.
// The floor is not considered.
func (w *World) OverlapSphere(center mgl32.Vec3, radius float32) (bool, error) {
	if !(radius > 0) || !math.IsFinite(radius) {
		return false, fmt.Errorf("overlap sphere: %w: %v", ErrInvalidRadius, radius)
	}
	for _, b := range w.layout.Boxes {
		if sphereBox(center, radius, b) {
			return true, nil
		}
	}
	return false, nil
}

// Move applies a displacement. Horizontal motion into a wall is dropped;
// vertical motion stops on the highest surface underneath.
func (w *World) Move(d mgl32.Vec3) {
	from := w.pos.Y()
	next := w.pos
	next[0] += d.X()
	next[2] += d.Z()
	if w.blocked(next) {
		next[0], next[2] = w.pos.X(), w.pos.Z()
	}
	next[1] += d.Y()

	w.pos = next
	w.settle(from)
}

// settle snaps the character onto the surface below it. Surfaces are
// reachable up to one step above fromY.
func (w *World) settle(fromY float32) {
	ground := w.groundHeight(w.pos.X(), w.pos.Z(), max(fromY, w.pos.Y()))
	if w.pos.Y() <= ground+groundSnap {
		w.pos[1] = ground
		w.grounded = true
		return
	}
	w.grounded = false
}

// groundHeight returns the highest surface under x,z the character can
// stand on without climbing more than one step above y.
func (w *World) groundHeight(x, z, y float32) float32 {
	ground := w.layout.Floor
	reach := y + w.layout.StepHeight + groundSnap
	for _, b := range w.layout.Boxes {
		top := b.Max.Y()
		if top > ground && top <= reach && b.containsXZ(x, z, 0) {
			ground = top
		}
	}
	return ground
}

// blocked reports whether the capsule at p would intersect a box it cannot
// step onto or pass under.
func (w *World) blocked(p mgl32.Vec3) bool {
	feet := p.Y() + w.capsule.Bottom()
	head := feet + w.capsule.Height
	for _, b := range w.layout.Boxes {
		if b.Max.Y() <= feet+w.layout.StepHeight || b.Min.Y() >= head {
			continue
		}
		if b.containsXZ(p.X(), p.Z(), w.capsule.Radius) {
			return true
		}
	}
	return false
}

func sphereBox(c mgl32.Vec3, r float32, b Box) bool {
	var dist2 float32
	for i := 0; i < 3; i++ {
		v := mgl32.Clamp(c[i], b.Min[i], b.Max[i]) - c[i]
		dist2 += v * v
	}
	return dist2 <= r*r
}

// Distance returns the horizontal distance travelled between two points.
func Distance(a, b mgl32.Vec3) float32 {
	return math.Horizontal(b.Sub(a)).Len()
}
