package scenario

import (
	"context"
	"errors"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/Faultbox/locomotion/internal/gatescript"
	"github.com/Faultbox/locomotion/internal/locomotion"
	"github.com/Faultbox/locomotion/internal/world"
)

func testCapsule() locomotion.Capsule {
	return locomotion.Capsule{Height: 1.8, Radius: 0.3, Center: [3]float32{0, 0.9, 0}}
}

func prepare(t *testing.T, sc *Scenario) (*locomotion.Controller, *world.World) {
	t.Helper()
	s := locomotion.DefaultSettings()
	c, w, err := Prepare(sc, &s, testCapsule())
	if err != nil {
		t.Fatalf("Prepare() error = %v", err)
	}
	return c, w
}

func TestRunDefault(t *testing.T) {
	sc, err := Default()
	if err != nil {
		t.Fatal(err)
	}
	c, w := prepare(t, sc)

	trace, err := Run(context.Background(), sc, c, w, Options{TickRate: 60})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if len(trace.Frames) != sc.Length() {
		t.Fatalf("recorded %d frames, want %d", len(trace.Frames), sc.Length())
	}
	if err := sc.Check(trace); err != nil {
		t.Errorf("Check() error = %v", err)
	}
	if n := trace.Count(locomotion.Landed); n != 1 {
		t.Errorf("landed %d times, want 1", n)
	}
	if trace.Final().Position.Z() <= 0 {
		t.Errorf("final position %v, want forward progress", trace.Final().Position)
	}
}

func TestRunTickLimit(t *testing.T) {
	sc, err := Parse([]byte(minimal))
	if err != nil {
		t.Fatal(err)
	}
	c, w := prepare(t, sc)

	trace, err := Run(context.Background(), sc, c, w, Options{TickRate: 60, Ticks: 7})
	if err != nil {
		t.Fatal(err)
	}
	if len(trace.Frames) != 7 {
		t.Errorf("recorded %d frames, want 7", len(trace.Frames))
	}
}

func TestRunRejectsTickRate(t *testing.T) {
	sc, _ := Default()
	c, w := prepare(t, sc)
	if _, err := Run(context.Background(), sc, c, w, Options{}); err == nil {
		t.Error("Run() with zero tick rate succeeded")
	}
}

func TestPrepareInvalidWorld(t *testing.T) {
	sc := &Scenario{Name: "broken", World: world.Layout{StepHeight: -1}}
	s := locomotion.DefaultSettings()
	if _, _, err := Prepare(sc, &s, testCapsule()); err == nil {
		t.Error("Prepare() with an invalid layout succeeded")
	}
}

func TestRunCanceled(t *testing.T) {
	sc, _ := Default()
	c, w := prepare(t, sc)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	trace, err := Run(ctx, sc, c, w, Options{TickRate: 60})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Run() error = %v, want context.Canceled", err)
	}
	if len(trace.Frames) != 0 {
		t.Errorf("recorded %d frames after cancel", len(trace.Frames))
	}
}

func TestRunReload(t *testing.T) {
	sc, err := Parse([]byte(minimal))
	if err != nil {
		t.Fatal(err)
	}
	c, w := prepare(t, sc)

	fast := locomotion.DefaultSettings()
	fast.Gaits.Walking.TargetVelocity = 40
	fast.Gaits.Sprinting.TargetVelocity = 40
	reloads := 0
	reload := func() *locomotion.Settings {
		reloads++
		if reloads == 3 {
			return &fast
		}
		return nil
	}

	core, logs := observer.New(zapcore.InfoLevel)
	if _, err := Run(context.Background(), sc, c, w, Options{TickRate: 60, Ticks: 4, Reload: reload, Log: zap.New(core)}); err != nil {
		t.Fatal(err)
	}
	if reloads != 4 {
		t.Errorf("reload polled %d times, want 4", reloads)
	}
	if c.Machine().Settings() != &fast {
		t.Error("reloaded settings not applied")
	}
	if n := logs.FilterMessage("settings reloaded").Len(); n != 1 {
		t.Errorf("logged %d reloads, want 1", n)
	}
}

func TestRunWritesBlackboard(t *testing.T) {
	sc, err := Parse([]byte(minimal))
	if err != nil {
		t.Fatal(err)
	}
	board := gatescript.NewBlackboard()
	c, w := prepare(t, sc)

	if _, err := Run(context.Background(), sc, c, w, Options{TickRate: 60, Board: board}); err != nil {
		t.Fatal(err)
	}
	if v, ok := board.Get("ammo"); !ok || v != int64(3) {
		t.Errorf("ammo = %v (%v), want 3", v, ok)
	}
}

func TestCheck(t *testing.T) {
	sc, err := Parse([]byte(`
segments:
  - {from: 0, until: 3}
expect:
  - {tick: 1, state: walking, pose: prone, event: jumped}
  - {tick: 2, state: idle}
`))
	if err != nil {
		t.Fatal(err)
	}

	trace := &Trace{Frames: []Frame{
		{Tick: 0},
		{Tick: 1, State: locomotion.Idle, Pose: locomotion.Standing},
	}}
	err = sc.Check(trace)
	if err == nil {
		t.Fatal("Check() error = nil")
	}
	for _, want := range []string{"tick 1: state idle, want walking", "tick 1: pose standing, want prone", "tick 1: event jumped", "tick 2: not recorded"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error %q missing %q", err, want)
		}
	}

	trace.Frames = append(trace.Frames, Frame{Tick: 2, State: locomotion.Idle})
	trace.Frames[1] = Frame{Tick: 1, State: locomotion.Walking, Pose: locomotion.Prone, Events: []locomotion.Event{locomotion.Jumped}}
	if err := sc.Check(trace); err != nil {
		t.Errorf("Check() error = %v", err)
	}
}
