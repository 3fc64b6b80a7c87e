package locomotion

import "github.com/Faultbox/locomotion/pkg/math"

// Settings is the immutable tuning shared by every character. Swap the
// whole pointer to change it; never mutate one that a Machine holds.
type Settings struct {
	Gaits GaitTable

	// CrouchRatio scales capsule height while crouching, prone or sliding.
	CrouchRatio float32

	// Air.
	JumpImpulse  float32 // vertical speed set on jump
	Gravity      float32 // downward acceleration, m/s²
	MaxFallSpeed float32 // clamp for downward speed
	AirFriction  float32 // fraction of gait speed reachable in air, [0,1]
	AirSmoothing float32 // horizontal decay rate in air

	// GroundStick is the vertical speed applied on the ground to keep the
	// character glued to slopes and steps. Usually negative.
	GroundStick float32

	// Sliding.
	SlideCurve      math.Curve // speed multiplier over slide progress [0,1]
	SlideSpeed      float32    // speed at curve value 1
	SlideRate       float32    // progress per second
	SlideSmoothing  float32    // gait smoothing while sliding
	SlideSpeedRatio float32    // minimum speed/target ratio to start a slide

	// Sprint animator weight lags the state with two time constants.
	SprintWeightEnterRate float32
	SprintWeightExitRate  float32

	// ProneTransitionDuration is how long input is ignored after entering or
	// leaving prone, in seconds.
	ProneTransitionDuration float32

	// AccelerationCurve maps seconds since a gait change to the blend factor
	// between the previous and the new target velocity.
	AccelerationCurve math.Curve
}

// DefaultSettings returns tuning that feels reasonable for a human-sized
// character at 60 Hz.
func DefaultSettings() Settings {
	return Settings{
		Gaits: GaitTable{
			Idle:      GaitSettings{TargetVelocity: 0, VelocitySmoothing: 10},
			Walking:   GaitSettings{TargetVelocity: 4, VelocitySmoothing: 10},
			Sprinting: GaitSettings{TargetVelocity: 7, VelocitySmoothing: 6},
			Crouching: GaitSettings{TargetVelocity: 2, VelocitySmoothing: 10},
			Prone:     GaitSettings{TargetVelocity: 1, VelocitySmoothing: 8},
		},
		CrouchRatio:  0.5,
		JumpImpulse:  4.5,
		Gravity:      9.81,
		MaxFallSpeed: 20,
		AirFriction:  0.8,
		AirSmoothing: 2,
		GroundStick:  -2,

		SlideCurve:      math.EaseCurve(0, 1, 1, 0.2),
		SlideSpeed:      9,
		SlideRate:       1,
		SlideSmoothing:  4,
		SlideSpeedRatio: 0.5,

		SprintWeightEnterRate: 8,
		SprintWeightExitRate:  15,

		ProneTransitionDuration: 0.4,
		AccelerationCurve:       math.LinearCurve(0, 0, 0.25, 1),
	}
}
