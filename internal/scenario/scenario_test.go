package scenario

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

const minimal = `
name: minimal
world:
  floor: 0
  spawn: [0, 0, 0]
segments:
  - {from: 0, until: 10, move: [0, 1], hold: [sprint], press: [jump]}
  - {from: 5, until: 20, facing: 90, move: [1, 0], set: {ammo: 3}}
expect:
  - {tick: 2, state: in_air}
`

func TestParse(t *testing.T) {
	sc, err := Parse([]byte(minimal))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if sc.Name != "minimal" {
		t.Errorf("name = %q", sc.Name)
	}
	if len(sc.Segments) != 2 || len(sc.Expect) != 1 {
		t.Fatalf("segments = %d, expect = %d", len(sc.Segments), len(sc.Expect))
	}
	if sc.Segments[0].Move != (mgl32.Vec2{0, 1}) {
		t.Errorf("move = %v", sc.Segments[0].Move)
	}
	if f := sc.Segments[1].Facing; f == nil || *f != 90 {
		t.Errorf("facing = %v, want 90", f)
	}
	if sc.Length() != 20 {
		t.Errorf("Length() = %d, want 20", sc.Length())
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want string
	}{
		{"empty", "", "empty scenario"},
		{"unknown field", "name: x\nspeed: 3\n", "decode yaml"},
		{"no segments", "name: x\n", "no segments"},
		{"bad range", "segments:\n  - {from: 5, until: 5}\n", "segment 0"},
		{"bad move", "segments:\n  - {from: 0, until: 5, move: [2, 0]}\n", "outside [-1, 1]"},
		{"bad button", "segments:\n  - {from: 0, until: 5, hold: [dash]}\n", `unknown button "dash"`},
		{"expect out of range", "segments:\n  - {from: 0, until: 5}\nexpect:\n  - {tick: 5, state: idle}\n", "outside scenario"},
		{"expect bad state", "segments:\n  - {from: 0, until: 5}\nexpect:\n  - {tick: 1, state: flying}\n", "flying"},
		{"expect bad event", "segments:\n  - {from: 0, until: 5}\nexpect:\n  - {tick: 1, event: exploded}\n", "exploded"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.doc))
			if err == nil {
				t.Fatal("Parse() error = nil")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q does not mention %q", err, tt.want)
			}
		})
	}
}

func TestInput(t *testing.T) {
	sc, err := Parse([]byte(minimal))
	if err != nil {
		t.Fatal(err)
	}

	in := sc.Input(0, 0)
	if !in.Jump || !in.SprintHeld || in.Move != (mgl32.Vec2{0, 1}) {
		t.Errorf("tick 0 input = %+v", in)
	}

	in = sc.Input(1, 0)
	if in.Jump {
		t.Error("pressed button repeated on tick 1")
	}
	if !in.SprintHeld {
		t.Error("held button released on tick 1")
	}

	in = sc.Input(5, 0)
	if in.Move != (mgl32.Vec2{1, 0}) {
		t.Errorf("later segment move = %v, want [1 0]", in.Move)
	}
	if !mgl32.FloatEqual(in.Facing, mgl32.DegToRad(90)) {
		t.Errorf("facing = %v, want pi/2", in.Facing)
	}

	in = sc.Input(6, 0.25)
	if in.Facing != 0.25 {
		t.Errorf("facing = %v, want carried 0.25", in.Facing)
	}

	if in := sc.Input(25, 0); in.Move != (mgl32.Vec2{}) || in.SprintHeld {
		t.Errorf("input past the end = %+v, want zero", in)
	}
}

func TestSets(t *testing.T) {
	sc, err := Parse([]byte(minimal))
	if err != nil {
		t.Fatal(err)
	}
	sets := sc.Sets(5)
	if len(sets) != 1 || sets[0]["ammo"] != 3 {
		t.Errorf("Sets(5) = %v", sets)
	}
	if sets := sc.Sets(6); len(sets) != 0 {
		t.Errorf("Sets(6) = %v, want none", sets)
	}
}

func TestDefault(t *testing.T) {
	sc, err := Default()
	if err != nil {
		t.Fatalf("Default() error = %v", err)
	}
	if sc.Length() == 0 || len(sc.Expect) == 0 {
		t.Errorf("default scenario is empty: %d ticks, %d expectations", sc.Length(), len(sc.Expect))
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "walk.yaml")
	if err := os.WriteFile(path, []byte(minimal), 0o644); err != nil {
		t.Fatal(err)
	}
	sc, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if sc.Name != "minimal" {
		t.Errorf("name = %q", sc.Name)
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("Load() of a missing file succeeded")
	}
}
