// Package scenario drives a locomotion controller from a scripted input
// timeline and records what happened on every tick.
package scenario

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"

	"github.com/Faultbox/locomotion/internal/locomotion"
	"github.com/Faultbox/locomotion/internal/world"
)

//go:embed default.yaml
var defaultScenario []byte

// Button is a digital input.
type Button string

const (
	ButtonJump   Button = "jump"
	ButtonCrouch Button = "crouch"
	ButtonProne  Button = "prone"
	ButtonSprint Button = "sprint"
	ButtonSlide  Button = "slide"
)

func (b Button) valid() bool {
	switch b {
	case ButtonJump, ButtonCrouch, ButtonProne, ButtonSprint, ButtonSlide:
		return true
	}
	return false
}

// Segment is a span of ticks [From, Until) with constant input. Pressed
// buttons fire on the first tick only; held buttons fire on every tick.
type Segment struct {
	From   int            `yaml:"from"`
	Until  int            `yaml:"until"`
	Move   mgl32.Vec2     `yaml:"move"`
	Facing *float32       `yaml:"facing,omitempty"` // degrees, applied at From
	Hold   []Button       `yaml:"hold,omitempty"`
	Press  []Button       `yaml:"press,omitempty"`
	Set    map[string]any `yaml:"set,omitempty"` // blackboard writes at From
}

func (s Segment) active(tick int) bool {
	return tick >= s.From && tick < s.Until
}

// Expectation is a check against the recorded trace at one tick.
type Expectation struct {
	Tick  int    `yaml:"tick"`
	State string `yaml:"state,omitempty"`
	Pose  string `yaml:"pose,omitempty"`
	Event string `yaml:"event,omitempty"`
}

// Scenario is a scripted run.
type Scenario struct {
	Name     string        `yaml:"name"`
	Facing   float32       `yaml:"facing"` // initial yaw, degrees
	World    world.Layout  `yaml:"world"`
	Segments []Segment     `yaml:"segments"`
	Expect   []Expectation `yaml:"expect,omitempty"`
}

// Default returns the built-in scenario.
func Default() (*Scenario, error) {
	sc, err := Parse(defaultScenario)
	if err != nil {
		return nil, fmt.Errorf("default scenario: %w", err)
	}
	return sc, nil
}

// Load reads and validates a scenario file.
func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("loading scenario %s: %w", path, err)
	}
	sc, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("loading scenario %s: %w", path, err)
	}
	return sc, nil
}

// Parse decodes and validates a scenario document.
func Parse(data []byte) (*Scenario, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var sc Scenario
	if err := dec.Decode(&sc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("empty scenario")
		}
		return nil, fmt.Errorf("decode yaml: %w", err)
	}
	if err := sc.Validate(); err != nil {
		return nil, err
	}
	return &sc, nil
}

// Validate reports every problem in the scenario.
func (s *Scenario) Validate() error {
	var err error
	if len(s.Segments) == 0 {
		err = multierr.Append(err, errors.New("no segments"))
	}
	for i, seg := range s.Segments {
		if seg.From < 0 || seg.Until <= seg.From {
			err = multierr.Append(err, fmt.Errorf("segment %d: need 0 <= from < until, got %d..%d", i, seg.From, seg.Until))
		}
		if seg.Move.X() < -1 || seg.Move.X() > 1 || seg.Move.Y() < -1 || seg.Move.Y() > 1 {
			err = multierr.Append(err, fmt.Errorf("segment %d: move %v outside [-1, 1]", i, seg.Move))
		}
		for _, b := range append(append([]Button(nil), seg.Hold...), seg.Press...) {
			if !b.valid() {
				err = multierr.Append(err, fmt.Errorf("segment %d: unknown button %q", i, b))
			}
		}
	}
	for i, e := range s.Expect {
		if e.Tick < 0 || e.Tick >= s.Length() {
			err = multierr.Append(err, fmt.Errorf("expect %d: tick %d outside scenario", i, e.Tick))
		}
		if e.State != "" {
			if _, perr := locomotion.ParseMovementState(e.State); perr != nil {
				err = multierr.Append(err, fmt.Errorf("expect %d: %w", i, perr))
			}
		}
		if e.Pose != "" {
			if _, perr := locomotion.ParsePoseState(e.Pose); perr != nil {
				err = multierr.Append(err, fmt.Errorf("expect %d: %w", i, perr))
			}
		}
		if e.Event != "" {
			if _, perr := locomotion.ParseEvent(e.Event); perr != nil {
				err = multierr.Append(err, fmt.Errorf("expect %d: %w", i, perr))
			}
		}
	}
	if verr := s.World.Validate(); verr != nil {
		err = multierr.Append(err, fmt.Errorf("world: %w", verr))
	}
	if err != nil {
		return fmt.Errorf("invalid scenario: %w", err)
	}
	return nil
}

// Length returns the number of ticks the scenario covers.
func (s *Scenario) Length() int {
	n := 0
	for _, seg := range s.Segments {
		n = max(n, seg.Until)
	}
	return n
}

// Input returns the control state for tick. facing is the current yaw in
// radians; segments starting at tick may replace it. Later segments win
// when several set a move direction.
func (s *Scenario) Input(tick int, facing float32) locomotion.Input {
	in := locomotion.Input{Facing: facing}
	for _, seg := range s.Segments {
		if !seg.active(tick) {
			continue
		}
		if seg.From == tick && seg.Facing != nil {
			in.Facing = mgl32.DegToRad(*seg.Facing)
		}
		if seg.Move != (mgl32.Vec2{}) {
			in.Move = seg.Move
		}
		for _, b := range seg.Hold {
			press(&in, b)
		}
		if seg.From == tick {
			for _, b := range seg.Press {
				press(&in, b)
			}
		}
	}
	return in
}

// Sets returns the blackboard writes scheduled for tick, in segment order.
func (s *Scenario) Sets(tick int) []map[string]any {
	var sets []map[string]any
	for _, seg := range s.Segments {
		if seg.From == tick && len(seg.Set) > 0 {
			sets = append(sets, seg.Set)
		}
	}
	return sets
}

func press(in *locomotion.Input, b Button) {
	switch b {
	case ButtonJump:
		in.Jump = true
	case ButtonCrouch:
		in.CrouchToggle = true
	case ButtonProne:
		in.ProneToggle = true
	case ButtonSprint:
		in.SprintHeld = true
	case ButtonSlide:
		in.SlideRequested = true
	}
}
