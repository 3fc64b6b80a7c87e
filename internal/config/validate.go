package config

import (
	"errors"
	"fmt"

	"go.uber.org/multierr"

	"github.com/Faultbox/locomotion/internal/gatescript"
	"github.com/Faultbox/locomotion/internal/logger"
)

// ErrInvalidConfig wraps every validation failure.
var ErrInvalidConfig = errors.New("invalid config")

// Validate reports every problem in the config at once.
func (c *Config) Validate() error {
	var err error
	err = multierr.Append(err, c.Movement.validate())
	err = multierr.Append(err, c.Capsule.validate())
	err = multierr.Append(err, c.Simulation.validate())
	err = multierr.Append(err, c.Gates.validate())
	if !logger.ValidLevel(c.Logging.Level) {
		err = multierr.Append(err, fmt.Errorf("logging.level: unknown level %q", c.Logging.Level))
	}
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return nil
}

type check struct {
	name string
	ok   bool
	msg  string
}

func collect(prefix string, checks []check) error {
	var err error
	for _, c := range checks {
		if !c.ok {
			err = multierr.Append(err, fmt.Errorf("%s.%s: %s", prefix, c.name, c.msg))
		}
	}
	return err
}

func (g GaitConfig) checks(name string) []check {
	return []check{
		{name + ".target_velocity", g.TargetVelocity >= 0, "must be >= 0"},
		{name + ".velocity_smoothing", g.VelocitySmoothing >= 0, "must be >= 0"},
	}
}

func (m *MovementConfig) validate() error {
	var checks []check
	checks = append(checks, m.Gaits.Idle.checks("gaits.idle")...)
	checks = append(checks, m.Gaits.Walking.checks("gaits.walking")...)
	checks = append(checks, m.Gaits.Sprinting.checks("gaits.sprinting")...)
	checks = append(checks, m.Gaits.Crouching.checks("gaits.crouching")...)
	checks = append(checks, m.Gaits.Prone.checks("gaits.prone")...)
	checks = append(checks,
		check{"crouch_ratio", m.CrouchRatio > 0 && m.CrouchRatio <= 1, "must be in (0, 1]"},
		check{"jump_impulse", m.JumpImpulse >= 0, "must be >= 0"},
		check{"gravity", m.Gravity >= 0, "must be >= 0"},
		check{"max_fall_speed", m.MaxFallSpeed >= 0, "must be >= 0"},
		check{"air_friction", m.AirFriction >= 0 && m.AirFriction <= 1, "must be in [0, 1]"},
		check{"air_smoothing", m.AirSmoothing >= 0, "must be >= 0"},
		check{"slide_speed", m.SlideSpeed >= 0, "must be >= 0"},
		check{"slide_rate", m.SlideRate > 0, "must be > 0"},
		check{"slide_smoothing", m.SlideSmoothing >= 0, "must be >= 0"},
		check{"slide_speed_ratio", m.SlideSpeedRatio >= 0, "must be >= 0"},
		check{"sprint_weight_enter_rate", m.SprintWeightEnterRate > 0, "must be > 0"},
		check{"sprint_weight_exit_rate", m.SprintWeightExitRate > 0, "must be > 0"},
		check{"prone_transition_duration", m.ProneTransitionDuration >= 0, "must be >= 0"},
	)

	err := collect("movement", checks)
	if cerr := m.SlideCurve.Validate(); cerr != nil {
		err = multierr.Append(err, fmt.Errorf("movement.slide_curve: %w", cerr))
	}
	if cerr := m.AccelerationCurve.Validate(); cerr != nil {
		err = multierr.Append(err, fmt.Errorf("movement.acceleration_curve: %w", cerr))
	}
	return err
}

func (c CapsuleConfig) validate() error {
	return collect("capsule", []check{
		{"radius", c.Radius > 0, "must be > 0"},
		{"height", c.Height >= 2*c.Radius, "must be at least twice the radius"},
	})
}

func (s SimulationConfig) validate() error {
	return collect("simulation", []check{
		{"tick_rate", s.TickRate > 0, "must be > 0"},
		{"ticks", s.Ticks >= 0, "must be >= 0"},
	})
}

func (g GatesConfig) validate() error {
	board, err := g.NewBlackboard()
	if err != nil {
		return err
	}

	for _, gate := range []struct {
		name  string
		exprs []string
	}{{"sprint", g.Sprint}, {"prone", g.Prone}, {"slide", g.Slide}} {
		for i, expr := range gate.exprs {
			if _, cerr := gatescript.Compile(expr, board); cerr != nil {
				err = multierr.Append(err, fmt.Errorf("gates.%s[%d]: %w", gate.name, i, cerr))
			}
		}
	}
	return err
}

// NewBlackboard returns a blackboard seeded with the configured values.
func (g GatesConfig) NewBlackboard() (*gatescript.Blackboard, error) {
	board := gatescript.NewBlackboard()
	for name, v := range g.Blackboard {
		if err := board.Set(name, v); err != nil {
			return nil, fmt.Errorf("gates.blackboard: %w", err)
		}
	}
	return board, nil
}
