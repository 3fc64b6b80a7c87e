package locomotion

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/locomotion/pkg/math"
)

// Physics is the host collision service consulted by the machine.
// Calls are synchronous and must complete within the tick.
type Physics interface {
	// Grounded reports whether the character stands on something.
	Grounded() bool
	// Position returns the world-space character origin.
	Position() mgl32.Vec3
	// OverlapSphere reports whether the sphere touches any obstruction.
	// An error is treated as obstructed.
	OverlapSphere(center mgl32.Vec3, radius float32) (bool, error)
}

// Input is the raw control state for one tick.
type Input struct {
	Move   mgl32.Vec2 // stick direction, [-1,1] per axis, x strafes, y forward
	Facing float32    // look yaw in radians

	Jump           bool
	CrouchToggle   bool
	ProneToggle    bool
	SprintHeld     bool
	SlideRequested bool
}

// MotionFrame is the per-character runtime state mutated once per tick.
type MotionFrame struct {
	InputDirection mgl32.Vec2
	Velocity       mgl32.Vec3
	DesiredGait    GaitSettings
	SlideProgress  float32
	SlideDirection mgl32.Vec3 // unit horizontal direction frozen at slide entry
}

// Transition describes what one Advance call did.
type Transition struct {
	From, To         MovementState
	FromPose, ToPose PoseState
	Jumped           bool // a jump impulse must be applied this tick
	Events           []Event
}

// Changed reports whether the movement state or pose changed.
func (t Transition) Changed() bool {
	return t.From != t.To || t.FromPose != t.ToPose
}

// Machine resolves the authoritative MovementState and PoseState of one
// character every tick.
type Machine struct {
	settings  *Settings
	physics   Physics
	gates     Gates
	listeners *Listeners

	state  MovementState
	pose   PoseState
	frame  MotionFrame
	facing float32

	standing Capsule
	capsule  Capsule

	cachedGait   GaitSettings
	gaitProgress float32
	inputLock    float32
	moving       bool

	events []Event
}

// NewMachine creates an idle, standing machine. capsule is the standing
// collider read from the host once at spawn. physics may be nil, in which
// case the character is always grounded and never obstructed.
func NewMachine(settings *Settings, capsule Capsule, physics Physics) *Machine {
	m := &Machine{
		settings:  settings,
		physics:   physics,
		listeners: NewListeners(),
		standing:  capsule,
		capsule:   capsule,
	}
	m.frame.DesiredGait = settings.Gaits.Idle
	m.cachedGait = m.frame.DesiredGait
	m.gaitProgress = settings.AccelerationCurve.Duration()
	m.frame.Velocity = mgl32.Vec3{0, settings.GroundStick, 0}
	return m
}

// State returns the current movement state.
func (m *Machine) State() MovementState { return m.state }

// Pose returns the current pose.
func (m *Machine) Pose() PoseState { return m.pose }

// Frame returns a copy of the runtime frame.
func (m *Machine) Frame() MotionFrame { return m.frame }

// Capsule returns the collider size the host should apply.
func (m *Machine) Capsule() Capsule { return m.capsule }

// Gates returns the gate conditions for registration.
func (m *Machine) Gates() *Gates { return &m.gates }

// Listeners returns the edge listener registry.
func (m *Machine) Listeners() *Listeners { return m.listeners }

// Settings returns the tuning in use.
func (m *Machine) Settings() *Settings { return m.settings }

// SetSettings swaps the tuning. Call between ticks.
func (m *Machine) SetSettings(s *Settings) {
	if s != nil {
		m.settings = s
	}
}

// Moving reports whether the last input had a direction.
func (m *Machine) Moving() bool { return m.moving }

// SpeedRatio returns horizontal speed over the desired target velocity,
// or 0 when the target is 0.
func (m *Machine) SpeedRatio() float32 {
	target := m.frame.DesiredGait.TargetVelocity
	if target <= 0 {
		return 0
	}
	return math.Horizontal(m.frame.Velocity).Len() / target
}

// EffectiveGait returns the desired gait with its target velocity blended
// from the previous gait along the acceleration curve.
func (m *Machine) EffectiveGait() GaitSettings {
	g := m.frame.DesiredGait
	curve := m.settings.AccelerationCurve
	if len(curve.Keys) == 0 {
		return g
	}
	t := curve.Evaluate(m.gaitProgress)
	g.TargetVelocity = math.Lerp(m.cachedGait.TargetVelocity, g.TargetVelocity, t)
	return g
}

// Advance resolves state and pose for one tick of dt seconds. Edge
// listeners run synchronously before it returns. ok is false, and nothing
// changes, when dt is not a positive finite number.
func (m *Machine) Advance(dt float32, in Input) (tr Transition, ok bool) {
	if !(dt > 0) || !math.IsFinite(dt) {
		return Transition{From: m.state, To: m.state, FromPose: m.pose, ToPose: m.pose}, false
	}

	m.events = nil
	tr.From, tr.FromPose = m.state, m.pose

	if m.inputLock > 0 {
		m.inputLock -= dt
		in = Input{Facing: in.Facing}
	}
	m.facing = in.Facing
	m.frame.InputDirection = in.Move

	next, jumped := m.resolve(in, m.grounded())
	switch {
	case jumped && m.state == InAir:
		// Landed and took off again on the same tick.
		m.emit(Landed)
		m.emit(Jumped)
	case next != m.state:
		m.enter(next)
	}
	m.updatePose(in)
	m.updateMoving()

	if d := m.settings.AccelerationCurve.Duration(); m.gaitProgress < d {
		m.gaitProgress = min(m.gaitProgress+dt, d)
	}

	tr.To, tr.ToPose = m.state, m.pose
	tr.Jumped = jumped
	tr.Events = m.events
	return tr, true
}

// resolve applies the transition rules in priority order. It may cancel
// prone as a side effect of a jump request.
func (m *Machine) resolve(in Input, grounded bool) (next MovementState, jumped bool) {
	switch m.state {
	case Sliding:
		if m.frame.SlideProgress < 1 {
			return Sliding, false
		}
	case InAir:
		if !grounded {
			return InAir, false
		}
	}
	if !grounded {
		return InAir, false
	}

	if in.Jump && m.pose != Crouching {
		if m.pose != Prone {
			return InAir, true
		}
		// Jumping from prone only stands up.
		if m.exitProne() && m.inputLock > 0 {
			in = Input{Facing: in.Facing}
		}
	}

	if m.state == Sprinting {
		if m.canSlide(in) {
			return Sliding, false
		}
		// The sprint gate is checked on entry only.
		if forwardOnly(in.Move) {
			return Sprinting, false
		}
	}

	if in.SprintHeld && m.pose == Standing && forwardOnly(in.Move) && m.gates.Sprint.Allow() {
		// Sprint and slide on the same tick go straight to the slide.
		if m.canSlide(in) {
			return Sliding, false
		}
		return Sprinting, false
	}

	if !hasDirection(in.Move) {
		return Idle, false
	}
	return Walking, false
}

func (m *Machine) canSlide(in Input) bool {
	return in.SlideRequested && m.pose == Standing &&
		m.gates.Slide.Allow() && m.SpeedRatio() > m.settings.SlideSpeedRatio
}

func (m *Machine) enter(next MovementState) {
	prev := m.state
	m.state = next

	switch prev {
	case InAir:
		m.emit(Landed)
	case Sprinting:
		if next != Sliding {
			m.emit(SprintEnded)
		}
	case Sliding:
		m.emit(SlideEnded)
		if m.pose == Crouching && m.headroomClear() {
			m.raise()
			m.emit(Uncrouched)
		}
	}

	switch next {
	case Idle:
		m.applyGait()
	case InAir:
		m.emit(Jumped)
	case Sprinting:
		m.restartGait()
		m.applyGait()
		m.emit(SprintStarted)
	case Sliding:
		m.frame.DesiredGait.VelocitySmoothing = m.settings.SlideSmoothing
		dir := math.Normalize3(math.Horizontal(m.frame.Velocity))
		if dir == (mgl32.Vec3{}) {
			_, dir = math.FacingBasis(m.facing)
		}
		m.frame.SlideDirection = dir
		m.frame.SlideProgress = 0
		m.emit(SlideStarted)
		if m.pose == Standing {
			m.lower(Crouching)
			m.emit(Crouched)
		}
	case Walking:
		if prev == Idle {
			m.restartGait()
		}
		m.applyGait()
	}
}

func (m *Machine) updatePose(in Input) {
	if !in.CrouchToggle && !in.ProneToggle {
		return
	}
	switch m.state {
	case Sprinting, InAir, Sliding:
		return
	}

	if in.ProneToggle {
		if !m.gates.Prone.Allow() {
			return
		}
		if m.pose == Prone {
			m.exitProne()
		} else {
			m.enterProne()
		}
		return
	}

	switch m.pose {
	case Standing:
		m.lower(Crouching)
		m.emit(Crouched)
		m.applyGait()
	case Crouching:
		if m.headroomClear() {
			m.raise()
			m.emit(Uncrouched)
			m.applyGait()
		}
	case Prone:
		m.exitProne()
	}
}

func (m *Machine) enterProne() {
	m.lower(Prone)
	m.emit(ProneStarted)
	m.restartGait()
	m.applyGait()
	m.lockInput()
}

func (m *Machine) exitProne() bool {
	if !m.headroomClear() {
		return false
	}
	m.raise()
	m.emit(ProneEnded)
	m.applyGait()
	m.lockInput()
	return true
}

// lockInput drops move input for the prone transition duration.
func (m *Machine) lockInput() {
	if m.settings.ProneTransitionDuration <= 0 {
		return
	}
	m.inputLock = m.settings.ProneTransitionDuration
	m.frame.InputDirection = mgl32.Vec2{}
}

func (m *Machine) updateMoving() {
	moving := hasDirection(m.frame.InputDirection)
	if moving == m.moving {
		return
	}
	m.moving = moving
	if moving {
		m.emit(StartMoving)
	} else {
		m.emit(StopMoving)
	}
}

func (m *Machine) lower(pose PoseState) {
	m.pose = pose
	m.capsule = m.standing.Lowered(m.settings.CrouchRatio)
}

func (m *Machine) raise() {
	m.pose = Standing
	m.capsule = m.standing
}

// applyGait reassigns the desired gait for the current state and pose.
// Idle keeps the previous target velocity and takes only the idle smoothing.
func (m *Machine) applyGait() {
	switch m.state {
	case Idle:
		m.frame.DesiredGait.VelocitySmoothing = m.settings.Gaits.Idle.VelocitySmoothing
	case Walking, Sprinting:
		if g, ok := m.settings.Gaits.Lookup(m.state, m.pose); ok {
			m.frame.DesiredGait = g
		}
	}
}

func (m *Machine) restartGait() {
	m.cachedGait = m.frame.DesiredGait
	m.gaitProgress = 0
}

func (m *Machine) grounded() bool {
	return m.physics == nil || m.physics.Grounded()
}

// headroomClear probes the space the standing capsule would occupy.
// A failed query counts as obstructed.
func (m *Machine) headroomClear() bool {
	if m.physics == nil {
		return true
	}
	center, radius := m.standing.HeadProbe()
	hit, err := m.physics.OverlapSphere(m.physics.Position().Add(center), radius)
	return err == nil && !hit
}

func (m *Machine) emit(ev Event) {
	m.events = append(m.events, ev)
	m.listeners.Emit(ev)
}

func (m *Machine) blendInput(jumped bool) BlendInput {
	return BlendInput{
		Gait:           m.EffectiveGait(),
		Velocity:       m.frame.Velocity,
		Input:          m.frame.InputDirection,
		Facing:         m.facing,
		State:          m.state,
		Pose:           m.pose,
		Jumped:         jumped,
		SlideProgress:  m.frame.SlideProgress,
		SlideDirection: m.frame.SlideDirection,
	}
}

func (m *Machine) commit(out BlendOutput) {
	m.frame.Velocity = out.Velocity
	m.frame.SlideProgress = out.SlideProgress
}

func hasDirection(v mgl32.Vec2) bool {
	return !math.Approx(v.Len(), 0)
}

func forwardOnly(v mgl32.Vec2) bool {
	return v.Y() > 0 && math.Approx(v.X(), 0)
}
