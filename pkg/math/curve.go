package math

import (
	"fmt"
	"sort"
)

// Keyframe is a single control point of a Curve. Tangents are slopes
// (value per unit time) on either side of the key.
type Keyframe struct {
	Time       float32 `yaml:"time"`
	Value      float32 `yaml:"value"`
	InTangent  float32 `yaml:"in_tangent,omitempty"`
	OutTangent float32 `yaml:"out_tangent,omitempty"`
}

// Curve is a keyframed scalar curve evaluated with cubic Hermite segments.
// Times before the first key or after the last key clamp to the end values.
// A curve without keys evaluates to 1 everywhere so it is neutral when used
// as a multiplier.
type Curve struct {
	Keys []Keyframe `yaml:"keys"`
}

// ConstantCurve returns a curve that always evaluates to v.
func ConstantCurve(v float32) Curve {
	return Curve{Keys: []Keyframe{{Time: 0, Value: v}}}
}

// LinearCurve returns a straight ramp from (t0, v0) to (t1, v1).
func LinearCurve(t0, v0, t1, v1 float32) Curve {
	var slope float32
	if t1 != t0 {
		slope = (v1 - v0) / (t1 - t0)
	}
	return Curve{Keys: []Keyframe{
		{Time: t0, Value: v0, OutTangent: slope},
		{Time: t1, Value: v1, InTangent: slope},
	}}
}

// EaseCurve returns a flat-tangent S curve from (t0, v0) to (t1, v1).
func EaseCurve(t0, v0, t1, v1 float32) Curve {
	return Curve{Keys: []Keyframe{
		{Time: t0, Value: v0},
		{Time: t1, Value: v1},
	}}
}

// Duration returns the time of the last key, or 0 for an empty curve.
func (c Curve) Duration() float32 {
	if len(c.Keys) == 0 {
		return 0
	}
	return c.Keys[len(c.Keys)-1].Time
}

// Evaluate samples the curve at t.
func (c Curve) Evaluate(t float32) float32 {
	n := len(c.Keys)
	switch {
	case n == 0:
		return 1
	case n == 1 || t <= c.Keys[0].Time:
		return c.Keys[0].Value
	case t >= c.Keys[n-1].Time:
		return c.Keys[n-1].Value
	}

	// First key strictly after t; keys are sorted, see Validate.
	i := sort.Search(n, func(i int) bool { return c.Keys[i].Time > t })
	a, b := c.Keys[i-1], c.Keys[i]

	span := b.Time - a.Time
	if span <= 0 {
		return b.Value
	}
	s := (t - a.Time) / span
	s2 := s * s
	s3 := s2 * s

	h00 := 2*s3 - 3*s2 + 1
	h10 := s3 - 2*s2 + s
	h01 := -2*s3 + 3*s2
	h11 := s3 - s2

	return h00*a.Value + h10*span*a.OutTangent + h01*b.Value + h11*span*b.InTangent
}

// Validate checks that key times are finite and strictly increasing.
func (c Curve) Validate() error {
	for i, k := range c.Keys {
		if !IsFinite(k.Time) || !IsFinite(k.Value) || !IsFinite(k.InTangent) || !IsFinite(k.OutTangent) {
			return fmt.Errorf("key %d: non-finite component", i)
		}
		if i > 0 && k.Time <= c.Keys[i-1].Time {
			return fmt.Errorf("key %d: time %.3f not after previous key %.3f", i, k.Time, c.Keys[i-1].Time)
		}
	}
	return nil
}
