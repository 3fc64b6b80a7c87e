package locomotion

import (
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Mover applies a displacement request to the host character. It may clamp
// against collision; the controller never reads the result back.
type Mover interface {
	Move(displacement mgl32.Vec3)
}

// Result is the outcome of one Controller tick.
type Result struct {
	Advanced      bool // false when the tick was rejected
	State         MovementState
	Pose          PoseState
	Velocity      mgl32.Vec3
	Displacement  mgl32.Vec3
	SlideProgress float32
	Params        AnimParams
	Capsule       Capsule
	Events        []Event
}

// Controller runs the machine, the blender and the host collaborators in
// the order advance, blend, move, write parameters.
type Controller struct {
	machine *Machine
	blender *Blender
	mover   Mover
	sink    ParamSink
	log     *zap.Logger
	last    Result
}

// Option configures a Controller.
type Option func(*Controller)

// WithMover sets the displacement consumer.
func WithMover(m Mover) Option {
	return func(c *Controller) { c.mover = m }
}

// WithParamSink sets the animator parameter consumer.
func WithParamSink(s ParamSink) Option {
	return func(c *Controller) { c.sink = s }
}

// WithLogger sets the logger used for transition edges.
func WithLogger(l *zap.Logger) Option {
	return func(c *Controller) {
		if l != nil {
			c.log = l
		}
	}
}

// NewController creates a controller for one character.
func NewController(settings *Settings, capsule Capsule, physics Physics, opts ...Option) *Controller {
	c := &Controller{
		machine: NewMachine(settings, capsule, physics),
		blender: NewBlender(settings),
		log:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.last = c.snapshot(BlendOutput{Velocity: c.machine.frame.Velocity})
	return c
}

// Machine returns the underlying state machine.
func (c *Controller) Machine() *Machine { return c.machine }

// Gates returns the gate conditions of the machine.
func (c *Controller) Gates() *Gates { return c.machine.Gates() }

// Listeners returns the edge listeners of the machine.
func (c *Controller) Listeners() *Listeners { return c.machine.Listeners() }

// Last returns the result of the most recent accepted tick.
func (c *Controller) Last() Result { return c.last }

// SetSettings swaps the tuning for both machine and blender.
func (c *Controller) SetSettings(s *Settings) {
	c.machine.SetSettings(s)
	c.blender.SetSettings(s)
}

// Tick advances the character by dt seconds. A rejected tick returns the
// previous result with Advanced false and no events.
func (c *Controller) Tick(dt float32, in Input) Result {
	tr, ok := c.machine.Advance(dt, in)
	if !ok {
		r := c.last
		r.Advanced = false
		r.Events = nil
		return r
	}

	out := c.blender.Step(dt, c.machine.blendInput(tr.Jumped))
	c.machine.commit(out)

	r := c.snapshot(out)
	r.Advanced = true
	r.Events = tr.Events
	r.Displacement = out.Velocity.Mul(dt)

	if c.mover != nil {
		c.mover.Move(r.Displacement)
	}
	if c.sink != nil {
		WriteParams(c.sink, out.Params)
	}

	if tr.Changed() || len(tr.Events) > 0 {
		if ce := c.log.Check(zapcore.DebugLevel, "locomotion transition"); ce != nil {
			ce.Write(
				zap.Stringer("from", tr.From),
				zap.Stringer("to", tr.To),
				zap.Stringer("from_pose", tr.FromPose),
				zap.Stringer("to_pose", tr.ToPose),
				zap.Stringers("events", tr.Events),
			)
		}
	}

	c.last = r
	return r
}

func (c *Controller) snapshot(out BlendOutput) Result {
	return Result{
		State:         c.machine.state,
		Pose:          c.machine.pose,
		Velocity:      out.Velocity,
		SlideProgress: out.SlideProgress,
		Params:        out.Params,
		Capsule:       c.machine.capsule,
	}
}
