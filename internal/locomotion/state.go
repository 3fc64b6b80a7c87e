// Package locomotion implements the movement/pose state machine and gait
// blending for a first-person character.
//
// A Machine decides once per tick which MovementState and PoseState the
// character occupies. A Blender turns that decision into a smoothed
// velocity and animator parameters. A Controller wires both to the host's
// physics, mover and animator collaborators.
//
// Everything here runs on the simulation goroutine; nothing blocks or
// spawns work. Each character owns its own Machine, Blender and Controller.
package locomotion

import "fmt"

// MovementState is the lateral movement mode of a character.
type MovementState uint8

const (
	Idle MovementState = iota
	Walking
	Sprinting
	InAir
	Sliding
)

var movementStateNames = [...]string{
	Idle:      "idle",
	Walking:   "walking",
	Sprinting: "sprinting",
	InAir:     "in_air",
	Sliding:   "sliding",
}

func (s MovementState) String() string {
	if int(s) < len(movementStateNames) {
		return movementStateNames[s]
	}
	return "unknown"
}

// Grounded reports whether the state keeps the character pinned to the floor.
func (s MovementState) Grounded() bool {
	return s != InAir
}

// PoseState is the body posture. It persists across ticks until toggled.
type PoseState uint8

const (
	Standing PoseState = iota
	Crouching
	Prone
)

var poseStateNames = [...]string{
	Standing:  "standing",
	Crouching: "crouching",
	Prone:     "prone",
}

func (p PoseState) String() string {
	if int(p) < len(poseStateNames) {
		return poseStateNames[p]
	}
	return "unknown"
}

// Lowered reports whether the pose uses the reduced capsule.
func (p PoseState) Lowered() bool {
	return p != Standing
}

// ParseMovementState returns the state named s, as printed by String.
func ParseMovementState(s string) (MovementState, error) {
	for i, name := range movementStateNames {
		if name == s {
			return MovementState(i), nil
		}
	}
	return 0, fmt.Errorf("unknown movement state %q", s)
}

// ParsePoseState returns the pose named s, as printed by String.
func ParsePoseState(s string) (PoseState, error) {
	for i, name := range poseStateNames {
		if name == s {
			return PoseState(i), nil
		}
	}
	return 0, fmt.Errorf("unknown pose %q", s)
}

// ParseEvent returns the event named s, as printed by String.
func ParseEvent(s string) (Event, error) {
	for i, name := range eventNames {
		if name == s {
			return Event(i), nil
		}
	}
	return 0, fmt.Errorf("unknown event %q", s)
}
