package gatescript

import (
	"strings"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/Faultbox/locomotion/internal/locomotion"
)

func newBoard(t *testing.T, vals map[string]any) *Blackboard {
	t.Helper()
	b := NewBlackboard()
	for k, v := range vals {
		if err := b.Set(k, v); err != nil {
			t.Fatalf("Set(%s): %v", k, err)
		}
	}
	return b
}

func TestEval(t *testing.T) {
	tests := []struct {
		name string
		expr string
		vals map[string]any
		want bool
	}{
		{"threshold met", "stamina > 10 && !reloading", map[string]any{"stamina": 20.0, "reloading": false}, true},
		{"threshold missed", "stamina > 10 && !reloading", map[string]any{"stamina": 5, "reloading": false}, false},
		{"reloading", "stamina > 10 && !reloading", map[string]any{"stamina": 50, "reloading": true}, false},
		{"string compare", `weapon != "lmg"`, map[string]any{"weapon": "rifle"}, true},
		{"literal", "true", nil, true},
		{"falsy int", "ammo", map[string]any{"ammo": 0}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := Compile(tt.expr, newBoard(t, tt.vals))
			if err != nil {
				t.Fatalf("Compile: %v", err)
			}
			got, err := s.Eval()
			if err != nil {
				t.Fatalf("Eval: %v", err)
			}
			if got != tt.want {
				t.Errorf("Eval() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestEvalSeesBlackboardUpdates(t *testing.T) {
	b := newBoard(t, map[string]any{"stamina": 100.0})
	s, err := Compile("stamina >= 25", b)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}

	for _, tt := range []struct {
		stamina float32
		want    bool
	}{{100, true}, {24.5, false}, {25, true}} {
		if err := b.Set("stamina", tt.stamina); err != nil {
			t.Fatal(err)
		}
		if got, _ := s.Eval(); got != tt.want {
			t.Errorf("stamina %v: got %v, want %v", tt.stamina, got, tt.want)
		}
	}
}

func TestCompileErrors(t *testing.T) {
	b := newBoard(t, map[string]any{"stamina": 1})
	for _, expr := range []string{"", "   ", "unknown > 1", "stamina >"} {
		if _, err := Compile(expr, b); err == nil {
			t.Errorf("Compile(%q) succeeded, want error", expr)
		}
	}
}

func TestBlackboardRejectsUnsupported(t *testing.T) {
	b := NewBlackboard()
	if err := b.Set("ch", make(chan int)); err == nil {
		t.Error("Set(chan) succeeded")
	}
	if names := b.Names(); len(names) != 0 {
		t.Errorf("Names() = %v, want empty", names)
	}
}

func TestPredicateDeniesOnError(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	b := newBoard(t, map[string]any{"ammo": 0})

	s, err := Compile("10 / ammo > 1", b)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if s.Predicate(zap.New(core))() {
		t.Error("predicate allowed on runtime error")
	}
	if logs.Len() != 1 {
		t.Fatalf("logged %d entries, want 1", logs.Len())
	}
	if got := logs.All()[0].ContextMap()["expr"]; got != "10 / ammo > 1" {
		t.Errorf("logged expr = %v", got)
	}
}

func TestEvalRecoversDivisionByZero(t *testing.T) {
	b := newBoard(t, map[string]any{"stamina": 0})
	s, err := Compile("100 / stamina > 1", b)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}

	ok, err := s.Eval()
	if err == nil {
		t.Fatal("Eval() error = nil, want division error")
	}
	if ok {
		t.Error("Eval() allowed on division by zero")
	}
}

func TestDivisionByZeroDeniesSprint(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	b := newBoard(t, map[string]any{"stamina": 0})
	settings := locomotion.DefaultSettings()
	m := locomotion.NewMachine(&settings, locomotion.Capsule{Height: 1.8, Radius: 0.3}, nil)

	if err := Bind(&m.Gates().Sprint, []string{"100 / stamina > 1"}, b, zap.New(core)); err != nil {
		t.Fatalf("Bind: %v", err)
	}

	m.Advance(1.0/60, locomotion.Input{Move: mgl32.Vec2{0, 1}, SprintHeld: true})
	if m.State() != locomotion.Walking {
		t.Errorf("state = %v, want walking when the gate script fails", m.State())
	}
	if n := logs.FilterMessage("gate script failed").Len(); n != 1 {
		t.Errorf("logged %d gate failures, want 1", n)
	}
}

func TestBindDrivesMachineGate(t *testing.T) {
	b := newBoard(t, map[string]any{"stamina": 100, "reloading": false})
	settings := locomotion.DefaultSettings()
	m := locomotion.NewMachine(&settings, locomotion.Capsule{Height: 1.8, Radius: 0.3}, nil)

	if err := Bind(&m.Gates().Sprint, []string{"stamina > 10", "!reloading"}, b, nil); err != nil {
		t.Fatalf("Bind: %v", err)
	}
	if n := m.Gates().Sprint.Len(); n != 2 {
		t.Fatalf("gate has %d predicates, want 2", n)
	}

	_ = b.Set("reloading", true)
	m.Advance(1.0/60, locomotion.Input{Move: mgl32.Vec2{0, 1}, SprintHeld: true})
	if m.State() != locomotion.Walking {
		t.Errorf("state = %v while reloading, want walking", m.State())
	}

	_ = b.Set("reloading", false)
	m.Advance(1.0/60, locomotion.Input{Move: mgl32.Vec2{0, 1}, SprintHeld: true})
	if m.State() != locomotion.Sprinting {
		t.Errorf("state = %v, want sprinting", m.State())
	}
}

func TestBindStopsOnFirstError(t *testing.T) {
	var g locomotion.Gate
	err := Bind(&g, []string{"true", "nope("}, NewBlackboard(), nil)
	if err == nil || !strings.Contains(err.Error(), "nope(") {
		t.Fatalf("Bind error = %v, want compile error naming the expression", err)
	}
	if g.Len() != 0 {
		t.Errorf("gate has %d predicates after failed bind, want 0", g.Len())
	}
}
