// Package animparams provides ParamSink implementations for hosts without a
// real animator.
package animparams

import (
	"fmt"
	"strings"

	"github.com/elliotchance/orderedmap/v2"
	"go.uber.org/zap"

	"github.com/Faultbox/locomotion/internal/locomotion"
	"github.com/Faultbox/locomotion/pkg/math"
)

// Table records the latest value of every parameter in first-write order.
type Table struct {
	floats *orderedmap.OrderedMap[string, float32]
	bools  *orderedmap.OrderedMap[string, bool]
}

// NewTable returns an empty table.
func NewTable() *Table {
	return &Table{
		floats: orderedmap.NewOrderedMap[string, float32](),
		bools:  orderedmap.NewOrderedMap[string, bool](),
	}
}

func (t *Table) SetFloat(name string, v float32) { t.floats.Set(name, v) }
func (t *Table) SetBool(name string, v bool)     { t.bools.Set(name, v) }

// Float returns the last value written to name.
func (t *Table) Float(name string) (float32, bool) { return t.floats.Get(name) }

// Bool returns the last value written to name.
func (t *Table) Bool(name string) (bool, bool) { return t.bools.Get(name) }

// Len returns the number of distinct parameters written.
func (t *Table) Len() int { return t.floats.Len() + t.bools.Len() }

// String formats the table as name=value pairs, floats first.
func (t *Table) String() string {
	var sb strings.Builder
	for el := t.floats.Front(); el != nil; el = el.Next() {
		if sb.Len() > 0 {
			sb.WriteByte(' ')
		}
		fmt.Fprintf(&sb, "%s=%.3f", el.Key, el.Value)
	}
	for el := t.bools.Front(); el != nil; el = el.Next() {
		if sb.Len() > 0 {
			sb.WriteByte(' ')
		}
		fmt.Fprintf(&sb, "%s=%t", el.Key, el.Value)
	}
	return sb.String()
}

// Logging forwards to another sink and logs every value that changed.
// Float changes below math.Epsilon are not logged.
type Logging struct {
	next locomotion.ParamSink
	log  *zap.Logger
	seen *Table
}

// NewLogging wraps next, which may be nil.
func NewLogging(next locomotion.ParamSink, log *zap.Logger) *Logging {
	if log == nil {
		log = zap.NewNop()
	}
	return &Logging{next: next, log: log, seen: NewTable()}
}

func (l *Logging) SetFloat(name string, v float32) {
	if prev, ok := l.seen.Float(name); !ok || !math.Approx(prev, v) {
		l.seen.SetFloat(name, v)
		l.log.Debug("anim param", zap.String("name", name), zap.Float32("value", v))
	}
	if l.next != nil {
		l.next.SetFloat(name, v)
	}
}

func (l *Logging) SetBool(name string, v bool) {
	if prev, ok := l.seen.Bool(name); !ok || prev != v {
		l.seen.SetBool(name, v)
		l.log.Debug("anim param", zap.String("name", name), zap.Bool("value", v))
	}
	if l.next != nil {
		l.next.SetBool(name, v)
	}
}

// Multi fans writes out to several sinks in order.
type Multi []locomotion.ParamSink

func (m Multi) SetFloat(name string, v float32) {
	for _, s := range m {
		s.SetFloat(name, v)
	}
}

func (m Multi) SetBool(name string, v bool) {
	for _, s := range m {
		s.SetBool(name, v)
	}
}
