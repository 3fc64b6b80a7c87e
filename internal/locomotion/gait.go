package locomotion

// GaitSettings is a movement profile: how fast the character wants to go
// and how quickly velocity converges on that speed.
type GaitSettings struct {
	TargetVelocity    float32 // metres per second, >= 0
	VelocitySmoothing float32 // exponential decay rate, >= 0
}

// GaitTable holds one gait per movement/pose combination that matters.
// It is read-only configuration shared by every character.
type GaitTable struct {
	Idle      GaitSettings
	Walking   GaitSettings
	Sprinting GaitSettings
	Crouching GaitSettings
	Prone     GaitSettings
}

// Lookup returns the gait for a state/pose pair. ok is false for InAir and
// Sliding, whose gait is derived from the one active when they were entered.
func (t *GaitTable) Lookup(state MovementState, pose PoseState) (gait GaitSettings, ok bool) {
	switch state {
	case Idle:
		return t.Idle, true
	case Sprinting:
		return t.Sprinting, true
	case Walking:
		switch pose {
		case Crouching:
			return t.Crouching, true
		case Prone:
			return t.Prone, true
		default:
			return t.Walking, true
		}
	default:
		return GaitSettings{}, false
	}
}
