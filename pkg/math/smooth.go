// Package math provides float32 helpers for per-tick movement code.
//
// Vectors are mgl32 types; scalar math goes through math32 so that nothing
// has to round-trip through float64.
package math

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// Epsilon is the threshold used by Approx.
const Epsilon = 1e-5

// ExpDecayAlpha returns the interpolation factor of a first-order low-pass
// filter with the given rate over dt seconds: 1 - e^(-rate*dt).
// The result is framerate independent and always in [0, 1].
func ExpDecayAlpha(rate, dt float32) float32 {
	if rate <= 0 || dt <= 0 {
		return 0
	}
	return 1 - math32.Exp(-rate*dt)
}

// Lerp interpolates between a and b by t (unclamped).
func Lerp(a, b, t float32) float32 {
	return a + (b-a)*t
}

// LerpVec2 interpolates between two 2D vectors by t.
func LerpVec2(a, b mgl32.Vec2, t float32) mgl32.Vec2 {
	return a.Add(b.Sub(a).Mul(t))
}

// LerpVec3 interpolates between two 3D vectors by t.
func LerpVec3(a, b mgl32.Vec3, t float32) mgl32.Vec3 {
	return a.Add(b.Sub(a).Mul(t))
}

// Approx reports whether a and b differ by no more than Epsilon.
func Approx(a, b float32) bool {
	return math32.Abs(a-b) <= Epsilon
}

// Clamp01 clamps v to [0, 1].
func Clamp01(v float32) float32 {
	return mgl32.Clamp(v, 0, 1)
}

// Normalize2 returns v scaled to unit length, or the zero vector when v is
// too short to have a direction.
func Normalize2(v mgl32.Vec2) mgl32.Vec2 {
	l := v.Len()
	if l <= Epsilon {
		return mgl32.Vec2{}
	}
	return v.Mul(1 / l)
}

// Normalize3 is Normalize2 for 3D vectors.
func Normalize3(v mgl32.Vec3) mgl32.Vec3 {
	l := v.Len()
	if l <= Epsilon {
		return mgl32.Vec3{}
	}
	return v.Mul(1 / l)
}

// Horizontal drops the Y component of v.
func Horizontal(v mgl32.Vec3) mgl32.Vec3 {
	return mgl32.Vec3{v.X(), 0, v.Z()}
}

// IsFinite reports whether f is neither NaN nor infinite.
func IsFinite(f float32) bool {
	return !math32.IsNaN(f) && !math32.IsInf(f, 0)
}
