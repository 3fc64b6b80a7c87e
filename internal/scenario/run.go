package scenario

import (
	"context"
	"fmt"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/Faultbox/locomotion/internal/gatescript"
	"github.com/Faultbox/locomotion/internal/locomotion"
	"github.com/Faultbox/locomotion/internal/world"
)

// Frame is the recorded outcome of one tick.
type Frame struct {
	Tick          int
	State         locomotion.MovementState
	Pose          locomotion.PoseState
	Position      mgl32.Vec3
	Velocity      mgl32.Vec3
	SlideProgress float32
	Params        locomotion.AnimParams
	Events        []locomotion.Event
}

// Trace is the full record of a run.
type Trace struct {
	Frames []Frame
}

// Count returns how often ev fired over the run.
func (t *Trace) Count(ev locomotion.Event) int {
	n := 0
	for _, f := range t.Frames {
		for _, e := range f.Events {
			if e == ev {
				n++
			}
		}
	}
	return n
}

// Final returns the last frame, or the zero frame for an empty trace.
func (t *Trace) Final() Frame {
	if len(t.Frames) == 0 {
		return Frame{}
	}
	return t.Frames[len(t.Frames)-1]
}

// At returns the frame recorded for tick.
func (t *Trace) At(tick int) (Frame, bool) {
	if tick < 0 || tick >= len(t.Frames) {
		return Frame{}, false
	}
	return t.Frames[tick], true
}

// Options tune a run.
type Options struct {
	TickRate float32 // Hz, required
	Ticks    int     // 0 runs the whole scenario
	Realtime bool    // sleep between ticks

	// Board receives the segment blackboard writes. It may be nil.
	Board *gatescript.Blackboard
	// Reload is polled between ticks and returns new tuning, or nil.
	Reload func() *locomotion.Settings
	Log    *zap.Logger
}

// Prepare builds the world and a controller standing at its spawn point.
func Prepare(sc *Scenario, settings *locomotion.Settings, capsule locomotion.Capsule, opts ...locomotion.Option) (*locomotion.Controller, *world.World, error) {
	w, err := world.New(sc.World, capsule)
	if err != nil {
		return nil, nil, fmt.Errorf("prepare scenario %s: %w", sc.Name, err)
	}
	opts = append([]locomotion.Option{locomotion.WithMover(w)}, opts...)
	return locomotion.NewController(settings, capsule, w, opts...), w, nil
}

// Run steps c through the scenario and records every tick. It returns the
// partial trace and ctx.Err() if ctx ends first.
func Run(ctx context.Context, sc *Scenario, c *locomotion.Controller, w *world.World, opts Options) (*Trace, error) {
	if !(opts.TickRate > 0) {
		return nil, fmt.Errorf("run scenario %s: tick rate must be > 0, got %v", sc.Name, opts.TickRate)
	}
	log := opts.Log
	if log == nil {
		log = zap.NewNop()
	}

	dt := 1 / opts.TickRate
	ticks := sc.Length()
	if opts.Ticks > 0 {
		ticks = opts.Ticks
	}

	var pace <-chan time.Time
	if opts.Realtime {
		ticker := time.NewTicker(time.Duration(float64(time.Second) / float64(opts.TickRate)))
		defer ticker.Stop()
		pace = ticker.C
	}

	trace := &Trace{Frames: make([]Frame, 0, ticks)}
	facing := mgl32.DegToRad(sc.Facing)

	for tick := 0; tick < ticks; tick++ {
		if pace != nil {
			select {
			case <-ctx.Done():
				return trace, ctx.Err()
			case <-pace:
			}
		} else if err := ctx.Err(); err != nil {
			return trace, err
		}

		if opts.Reload != nil {
			if s := opts.Reload(); s != nil {
				c.SetSettings(s)
				log.Info("settings reloaded", zap.Int("tick", tick))
			}
		}

		if opts.Board != nil {
			for _, set := range sc.Sets(tick) {
				for name, v := range set {
					if err := opts.Board.Set(name, v); err != nil {
						log.Warn("blackboard write rejected", zap.Int("tick", tick), zap.Error(err))
					}
				}
			}
		}

		in := sc.Input(tick, facing)
		facing = in.Facing

		r := c.Tick(dt, in)
		w.SetCapsule(r.Capsule)

		trace.Frames = append(trace.Frames, Frame{
			Tick:          tick,
			State:         r.State,
			Pose:          r.Pose,
			Position:      w.Position(),
			Velocity:      r.Velocity,
			SlideProgress: r.SlideProgress,
			Params:        r.Params,
			Events:        r.Events,
		})
	}

	log.Info("scenario finished",
		zap.String("scenario", sc.Name),
		zap.Int("ticks", len(trace.Frames)),
		zap.Stringer("state", trace.Final().State),
		zap.Stringer("pose", trace.Final().Pose),
	)
	return trace, nil
}

// Check compares the trace against the scenario expectations and reports
// every mismatch.
func (s *Scenario) Check(t *Trace) error {
	var err error
	for _, e := range s.Expect {
		f, ok := t.At(e.Tick)
		if !ok {
			err = multierr.Append(err, fmt.Errorf("tick %d: not recorded", e.Tick))
			continue
		}
		if e.State != "" && f.State.String() != e.State {
			err = multierr.Append(err, fmt.Errorf("tick %d: state %v, want %s", e.Tick, f.State, e.State))
		}
		if e.Pose != "" && f.Pose.String() != e.Pose {
			err = multierr.Append(err, fmt.Errorf("tick %d: pose %v, want %s", e.Tick, f.Pose, e.Pose))
		}
		if e.Event != "" && !hasEvent(f.Events, e.Event) {
			err = multierr.Append(err, fmt.Errorf("tick %d: event %s did not fire, got %v", e.Tick, e.Event, f.Events))
		}
	}
	return err
}

func hasEvent(events []locomotion.Event, name string) bool {
	for _, ev := range events {
		if ev.String() == name {
			return true
		}
	}
	return false
}
