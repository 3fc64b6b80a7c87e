// Package config handles simulator configuration loading and management.
package config

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/locomotion/internal/locomotion"
	"github.com/Faultbox/locomotion/pkg/math"
)

// Config holds all simulator settings.
type Config struct {
	Movement   MovementConfig   `yaml:"movement" envPrefix:"MOVEMENT_"`
	Capsule    CapsuleConfig    `yaml:"capsule" envPrefix:"CAPSULE_"`
	Simulation SimulationConfig `yaml:"simulation" envPrefix:"SIM_"`
	Gates      GatesConfig      `yaml:"gates" envPrefix:"GATES_"`
	Logging    LoggingConfig    `yaml:"logging" envPrefix:"LOG_"`
}

// GaitConfig is one movement profile.
type GaitConfig struct {
	TargetVelocity    float32 `yaml:"target_velocity" env:"TARGET_VELOCITY"`
	VelocitySmoothing float32 `yaml:"velocity_smoothing" env:"VELOCITY_SMOOTHING"`
}

// GaitsConfig holds the gait table.
type GaitsConfig struct {
	Idle      GaitConfig `yaml:"idle" envPrefix:"IDLE_"`
	Walking   GaitConfig `yaml:"walking" envPrefix:"WALKING_"`
	Sprinting GaitConfig `yaml:"sprinting" envPrefix:"SPRINTING_"`
	Crouching GaitConfig `yaml:"crouching" envPrefix:"CROUCHING_"`
	Prone     GaitConfig `yaml:"prone" envPrefix:"PRONE_"`
}

// MovementConfig holds the character tuning.
type MovementConfig struct {
	Gaits       GaitsConfig `yaml:"gaits" envPrefix:"GAIT_"`
	CrouchRatio float32     `yaml:"crouch_ratio" env:"CROUCH_RATIO"`

	JumpImpulse  float32 `yaml:"jump_impulse" env:"JUMP_IMPULSE"`
	Gravity      float32 `yaml:"gravity" env:"GRAVITY"`
	MaxFallSpeed float32 `yaml:"max_fall_speed" env:"MAX_FALL_SPEED"`
	AirFriction  float32 `yaml:"air_friction" env:"AIR_FRICTION"`
	AirSmoothing float32 `yaml:"air_smoothing" env:"AIR_SMOOTHING"`
	GroundStick  float32 `yaml:"ground_stick" env:"GROUND_STICK"`

	SlideCurve      math.Curve `yaml:"slide_curve"`
	SlideSpeed      float32    `yaml:"slide_speed" env:"SLIDE_SPEED"`
	SlideRate       float32    `yaml:"slide_rate" env:"SLIDE_RATE"`
	SlideSmoothing  float32    `yaml:"slide_smoothing" env:"SLIDE_SMOOTHING"`
	SlideSpeedRatio float32    `yaml:"slide_speed_ratio" env:"SLIDE_SPEED_RATIO"`

	SprintWeightEnterRate float32 `yaml:"sprint_weight_enter_rate" env:"SPRINT_WEIGHT_ENTER_RATE"`
	SprintWeightExitRate  float32 `yaml:"sprint_weight_exit_rate" env:"SPRINT_WEIGHT_EXIT_RATE"`

	ProneTransitionDuration float32    `yaml:"prone_transition_duration" env:"PRONE_TRANSITION_DURATION"`
	AccelerationCurve       math.Curve `yaml:"acceleration_curve"`
}

// CapsuleConfig is the standing collider.
type CapsuleConfig struct {
	Height float32    `yaml:"height" env:"HEIGHT"`
	Radius float32    `yaml:"radius" env:"RADIUS"`
	Center mgl32.Vec3 `yaml:"center"`
}

// SimulationConfig controls the headless runner.
type SimulationConfig struct {
	TickRate float32 `yaml:"tick_rate" env:"TICK_RATE"` // Hz
	Scenario string  `yaml:"scenario" env:"SCENARIO"`   // empty runs the built-in scenario
	Ticks    int     `yaml:"ticks" env:"TICKS"`         // 0 runs the whole scenario
	Facing   float32 `yaml:"facing" env:"FACING"`       // initial yaw, degrees
	Realtime bool    `yaml:"realtime" env:"REALTIME"`   // pace ticks on the wall clock
	Watch    bool    `yaml:"watch" env:"WATCH"`         // reload config on change
}

// GatesConfig holds gate expressions and the values they read.
type GatesConfig struct {
	Sprint     []string       `yaml:"sprint" env:"SPRINT" envSeparator:";"`
	Prone      []string       `yaml:"prone" env:"PRONE" envSeparator:";"`
	Slide      []string       `yaml:"slide" env:"SLIDE" envSeparator:";"`
	Blackboard map[string]any `yaml:"blackboard"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level" env:"LEVEL"`
	LogFile string `yaml:"log_file" env:"FILE"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Movement: MovementFromSettings(locomotion.DefaultSettings()),
		Capsule: CapsuleConfig{
			Height: 1.8,
			Radius: 0.3,
			Center: mgl32.Vec3{0, 0.9, 0},
		},
		Simulation: SimulationConfig{
			TickRate: 60,
		},
		Gates: GatesConfig{
			Blackboard: map[string]any{},
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

func (g GaitConfig) gait() locomotion.GaitSettings {
	return locomotion.GaitSettings{TargetVelocity: g.TargetVelocity, VelocitySmoothing: g.VelocitySmoothing}
}

func gaitConfig(g locomotion.GaitSettings) GaitConfig {
	return GaitConfig{TargetVelocity: g.TargetVelocity, VelocitySmoothing: g.VelocitySmoothing}
}

// Settings converts the movement section to locomotion tuning.
func (m *MovementConfig) Settings() *locomotion.Settings {
	return &locomotion.Settings{
		Gaits: locomotion.GaitTable{
			Idle:      m.Gaits.Idle.gait(),
			Walking:   m.Gaits.Walking.gait(),
			Sprinting: m.Gaits.Sprinting.gait(),
			Crouching: m.Gaits.Crouching.gait(),
			Prone:     m.Gaits.Prone.gait(),
		},
		CrouchRatio:             m.CrouchRatio,
		JumpImpulse:             m.JumpImpulse,
		Gravity:                 m.Gravity,
		MaxFallSpeed:            m.MaxFallSpeed,
		AirFriction:             m.AirFriction,
		AirSmoothing:            m.AirSmoothing,
		GroundStick:             m.GroundStick,
		SlideCurve:              m.SlideCurve,
		SlideSpeed:              m.SlideSpeed,
		SlideRate:               m.SlideRate,
		SlideSmoothing:          m.SlideSmoothing,
		SlideSpeedRatio:         m.SlideSpeedRatio,
		SprintWeightEnterRate:   m.SprintWeightEnterRate,
		SprintWeightExitRate:    m.SprintWeightExitRate,
		ProneTransitionDuration: m.ProneTransitionDuration,
		AccelerationCurve:       m.AccelerationCurve,
	}
}

// MovementFromSettings builds a movement section from locomotion tuning.
func MovementFromSettings(s locomotion.Settings) MovementConfig {
	return MovementConfig{
		Gaits: GaitsConfig{
			Idle:      gaitConfig(s.Gaits.Idle),
			Walking:   gaitConfig(s.Gaits.Walking),
			Sprinting: gaitConfig(s.Gaits.Sprinting),
			Crouching: gaitConfig(s.Gaits.Crouching),
			Prone:     gaitConfig(s.Gaits.Prone),
		},
		CrouchRatio:             s.CrouchRatio,
		JumpImpulse:             s.JumpImpulse,
		Gravity:                 s.Gravity,
		MaxFallSpeed:            s.MaxFallSpeed,
		AirFriction:             s.AirFriction,
		AirSmoothing:            s.AirSmoothing,
		GroundStick:             s.GroundStick,
		SlideCurve:              s.SlideCurve,
		SlideSpeed:              s.SlideSpeed,
		SlideRate:               s.SlideRate,
		SlideSmoothing:          s.SlideSmoothing,
		SlideSpeedRatio:         s.SlideSpeedRatio,
		SprintWeightEnterRate:   s.SprintWeightEnterRate,
		SprintWeightExitRate:    s.SprintWeightExitRate,
		ProneTransitionDuration: s.ProneTransitionDuration,
		AccelerationCurve:       s.AccelerationCurve,
	}
}

// Capsule converts the capsule section.
func (c CapsuleConfig) Capsule() locomotion.Capsule {
	return locomotion.Capsule{Height: c.Height, Radius: c.Radius, Center: c.Center}
}

// TickDelta returns the seconds per simulation tick.
func (s SimulationConfig) TickDelta() float32 {
	if s.TickRate <= 0 {
		return 0
	}
	return 1 / s.TickRate
}
