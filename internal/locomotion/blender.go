package locomotion

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/locomotion/pkg/math"
)

// AnimParams are the animator-facing values produced every tick.
type AnimParams struct {
	MoveX          float32
	MoveY          float32
	SpeedMagnitude float32
	SprintWeight   float32
	InAir          bool
	Moving         bool
	Crouching      bool
	Prone          bool
}

// BlendInput is everything the blender needs for one step.
type BlendInput struct {
	Gait           GaitSettings
	Velocity       mgl32.Vec3 // previous velocity
	Input          mgl32.Vec2 // raw stick direction
	Facing         float32    // yaw in radians
	State          MovementState
	Pose           PoseState
	Jumped         bool // apply the jump impulse this step
	SlideProgress  float32
	SlideDirection mgl32.Vec3
}

// BlendOutput is the result of one step.
type BlendOutput struct {
	Velocity      mgl32.Vec3
	SlideProgress float32
	Params        AnimParams
}

// Blender smooths velocity and animator parameters so state changes never
// snap. It keeps the smoothed animator values between steps.
type Blender struct {
	settings     *Settings
	anim         mgl32.Vec2
	sprintWeight float32
}

// NewBlender returns a blender at rest.
func NewBlender(settings *Settings) *Blender {
	return &Blender{settings: settings}
}

// SetSettings swaps the tuning. Call between ticks.
func (b *Blender) SetSettings(s *Settings) {
	if s != nil {
		b.settings = s
	}
}

// Step advances the blend by dt seconds. With dt not positive the previous
// velocity and parameters are returned unchanged.
func (b *Blender) Step(dt float32, in BlendInput) BlendOutput {
	if !(dt > 0) || !math.IsFinite(dt) {
		return BlendOutput{
			Velocity:      in.Velocity,
			SlideProgress: in.SlideProgress,
			Params:        b.params(in),
		}
	}

	out := BlendOutput{SlideProgress: in.SlideProgress}
	switch in.State {
	case InAir:
		out.Velocity = b.air(dt, in)
	case Sliding:
		out.Velocity, out.SlideProgress = b.slide(dt, in)
	default:
		out.Velocity = b.ground(dt, in)
	}

	b.animate(dt, in)
	out.Params = b.params(in)
	return out
}

func (b *Blender) ground(dt float32, in BlendInput) mgl32.Vec3 {
	target := math.PlanarDirection(math.Normalize2(in.Input), in.Facing).Mul(in.Gait.TargetVelocity)
	alpha := math.ExpDecayAlpha(in.Gait.VelocitySmoothing, dt)

	v := math.LerpVec3(math.Horizontal(in.Velocity), target, alpha)
	v[1] = b.settings.GroundStick
	return v
}

func (b *Blender) air(dt float32, in BlendInput) mgl32.Vec3 {
	s := b.settings

	vy := in.Velocity.Y()
	if in.Jumped {
		vy = s.JumpImpulse
	}
	vy -= s.Gravity * dt
	if s.MaxFallSpeed > 0 && vy < -s.MaxFallSpeed {
		vy = -s.MaxFallSpeed
	}

	target := math.PlanarDirection(math.Normalize2(in.Input), in.Facing).
		Mul(in.Gait.TargetVelocity * s.AirFriction)
	alpha := math.ExpDecayAlpha(s.AirSmoothing, dt)

	v := math.LerpVec3(math.Horizontal(in.Velocity), target, alpha)
	v[1] = vy
	return v
}

func (b *Blender) slide(dt float32, in BlendInput) (mgl32.Vec3, float32) {
	s := b.settings

	speed := s.SlideCurve.Evaluate(in.SlideProgress) * s.SlideSpeed
	v := math.Horizontal(in.SlideDirection).Mul(speed)
	v[1] = s.GroundStick

	progress := math.Clamp01(in.SlideProgress + dt*s.SlideRate)
	return v, progress
}

// animate updates the smoothed animator values. Sprint weight rises with
// SprintWeightEnterRate and falls with the faster SprintWeightExitRate.
func (b *Blender) animate(dt float32, in BlendInput) {
	target := in.Input
	if in.State == InAir {
		target = mgl32.Vec2{}
	}
	b.anim = math.LerpVec2(b.anim, target, math.ExpDecayAlpha(in.Gait.VelocitySmoothing, dt))

	var sprint float32
	if in.State == Sprinting {
		sprint = 1
	}
	rate := b.settings.SprintWeightExitRate
	if sprint > b.sprintWeight {
		rate = b.settings.SprintWeightEnterRate
	}
	b.sprintWeight = math.Lerp(b.sprintWeight, sprint, math.ExpDecayAlpha(rate, dt))
}

func (b *Blender) params(in BlendInput) AnimParams {
	return AnimParams{
		MoveX:          b.anim.X(),
		MoveY:          b.anim.Y(),
		SpeedMagnitude: b.anim.Len(),
		SprintWeight:   b.sprintWeight,
		InAir:          in.State == InAir,
		Moving:         hasDirection(in.Input),
		Crouching:      in.Pose == Crouching,
		Prone:          in.Pose == Prone,
	}
}
