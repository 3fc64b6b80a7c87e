package animparams

import (
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/Faultbox/locomotion/internal/locomotion"
)

func TestTable(t *testing.T) {
	tbl := NewTable()
	locomotion.WriteParams(tbl, locomotion.AnimParams{MoveY: 1, SpeedMagnitude: 1, Moving: true})

	if v, ok := tbl.Float(locomotion.ParamMoveY); !ok || v != 1 {
		t.Errorf("MoveY = %v, %v; want 1, true", v, ok)
	}
	if v, ok := tbl.Bool(locomotion.ParamMoving); !ok || !v {
		t.Errorf("Moving = %v, %v; want true, true", v, ok)
	}
	if _, ok := tbl.Float("Missing"); ok {
		t.Error("unexpected value for Missing")
	}
	if tbl.Len() != 8 {
		t.Errorf("Len() = %d, want 8", tbl.Len())
	}

	want := "MoveX=0.000 MoveY=1.000 Velocity=1.000 Sprinting=0.000 InAir=false Moving=true Crouching=false Proning=false"
	if got := tbl.String(); got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestLoggingOnlyLogsChanges(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	tbl := NewTable()
	sink := NewLogging(tbl, zap.New(core))

	sink.SetFloat("MoveY", 0.5)
	sink.SetFloat("MoveY", 0.5)
	sink.SetFloat("MoveY", 0.500001)
	sink.SetFloat("MoveY", 0.75)
	sink.SetBool("InAir", false)
	sink.SetBool("InAir", false)
	sink.SetBool("InAir", true)

	if logs.Len() != 4 {
		t.Errorf("logged %d entries, want 4", logs.Len())
	}
	if v, _ := tbl.Float("MoveY"); v != 0.75 {
		t.Errorf("forwarded MoveY = %v, want 0.75", v)
	}
	if v, _ := tbl.Bool("InAir"); !v {
		t.Error("forwarded InAir = false")
	}
}

func TestMulti(t *testing.T) {
	a, b := NewTable(), NewTable()
	m := Multi{a, NewLogging(nil, nil), b}
	m.SetFloat("Velocity", 3)
	m.SetBool("Crouching", true)

	for i, tbl := range []*Table{a, b} {
		if v, _ := tbl.Float("Velocity"); v != 3 {
			t.Errorf("sink %d Velocity = %v", i, v)
		}
		if v, _ := tbl.Bool("Crouching"); !v {
			t.Errorf("sink %d Crouching = false", i)
		}
	}
}
