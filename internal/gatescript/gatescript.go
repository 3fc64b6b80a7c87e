// Package gatescript compiles tengo expressions into locomotion gate
// predicates. Expressions read named values from a Blackboard, e.g.
//
//	stamina > 10 && !reloading
package gatescript

import (
	"fmt"
	"sort"
	"strings"

	"github.com/d5/tengo/v2"
	"go.uber.org/zap"

	"github.com/Faultbox/locomotion/internal/locomotion"
)

const resultVar = "__allow"

// Blackboard holds the values gate expressions may read. Numbers are stored
// as int64 or float64 so they convert to tengo objects.
type Blackboard struct {
	vals map[string]any
}

// NewBlackboard returns an empty blackboard.
func NewBlackboard() *Blackboard {
	return &Blackboard{vals: map[string]any{}}
}

// Set stores v under name. Unsupported types are rejected.
func (b *Blackboard) Set(name string, v any) error {
	nv, err := normalize(v)
	if err != nil {
		return fmt.Errorf("set %s: %w", name, err)
	}
	b.vals[name] = nv
	return nil
}

// Get returns the value stored under name.
func (b *Blackboard) Get(name string) (any, bool) {
	v, ok := b.vals[name]
	return v, ok
}

// Names returns every variable name in sorted order.
func (b *Blackboard) Names() []string {
	names := make([]string, 0, len(b.vals))
	for n := range b.vals {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

func normalize(v any) (any, error) {
	switch x := v.(type) {
	case bool, string, int64, float64:
		return x, nil
	case int:
		return int64(x), nil
	case int32:
		return int64(x), nil
	case uint:
		return int64(x), nil
	case float32:
		return float64(x), nil
	default:
		return nil, fmt.Errorf("unsupported value type %T", v)
	}
}

// Script is a compiled gate expression bound to a blackboard. It is not safe
// for concurrent use.
type Script struct {
	expr     string
	board    *Blackboard
	vars     []string
	compiled *tengo.Compiled
}

// Compile builds expr against the variables currently on board. Variables
// added to the board later are invisible to the script.
func Compile(expr string, board *Blackboard) (*Script, error) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return nil, fmt.Errorf("compile gate: empty expression")
	}

	script := tengo.NewScript([]byte(fmt.Sprintf("%s := (%s)", resultVar, expr)))
	vars := board.Names()
	for _, name := range vars {
		v, _ := board.Get(name)
		if err := script.Add(name, v); err != nil {
			return nil, fmt.Errorf("compile gate %q: %w", expr, err)
		}
	}

	compiled, err := script.Compile()
	if err != nil {
		return nil, fmt.Errorf("compile gate %q: %w", expr, err)
	}
	return &Script{expr: expr, board: board, vars: vars, compiled: compiled}, nil
}

// String returns the source expression.
func (s *Script) String() string { return s.expr }

// Eval runs the script against the current blackboard values and reports
// the truthiness of the result. A runtime panic inside the VM, such as an
// integer division by zero, is returned as an error.
func (s *Script) Eval() (allow bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			allow, err = false, fmt.Errorf("eval gate %q: %v", s.expr, r)
		}
	}()

	for _, name := range s.vars {
		v, ok := s.board.Get(name)
		if !ok {
			continue
		}
		if err := s.compiled.Set(name, v); err != nil {
			return false, fmt.Errorf("eval gate %q: %w", s.expr, err)
		}
	}
	if err := s.compiled.Run(); err != nil {
		return false, fmt.Errorf("eval gate %q: %w", s.expr, err)
	}
	return s.compiled.Get(resultVar).Bool(), nil
}

// Predicate adapts the script to a locomotion gate. A script error denies
// the gate and is logged at warn.
func (s *Script) Predicate(log *zap.Logger) locomotion.Predicate {
	if log == nil {
		log = zap.NewNop()
	}
	return func() bool {
		ok, err := s.Eval()
		if err != nil {
			log.Warn("gate script failed", zap.String("expr", s.expr), zap.Error(err))
			return false
		}
		return ok
	}
}

// Bind compiles every expression and appends it to gate in order.
func Bind(gate *locomotion.Gate, exprs []string, board *Blackboard, log *zap.Logger) error {
	scripts := make([]*Script, 0, len(exprs))
	for _, e := range exprs {
		s, err := Compile(e, board)
		if err != nil {
			return err
		}
		scripts = append(scripts, s)
	}
	for _, s := range scripts {
		gate.Add(s.Predicate(log))
	}
	return nil
}
