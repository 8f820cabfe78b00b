package common

import "math"

const (
	BaseWidth  = 480
	BaseHeight = 800
)

func Lerp(a, b, t float64) float64 {
	return a + t*(b-a)
}

// Clamp limits v to [lo, hi]. NaN clamps to lo.
func Clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) || v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func Clamp01(v float64) float64 {
	return Clamp(v, 0, 1)
}

// CubicBezier is a CSS-style timing curve through (0,0), (X1,Y1), (X2,Y2), (1,1).
type CubicBezier struct {
	X1, Y1, X2, Y2 float64
}

// SweepEase is the curve every mask sweep uses.
var SweepEase = CubicBezier{X1: 0.32, Y1: 0.72, X2: 0, Y2: 1}

// HoverEase is the curve used for social row hover fills.
var HoverEase = CubicBezier{X1: 0.22, Y1: 1, X2: 0.36, Y2: 1}

// At maps linear progress t in [0,1] to eased progress.
func (c CubicBezier) At(t float64) float64 {
	t = Clamp01(t)
	if t == 0 || t == 1 {
		return t
	}
	// solve x(u) = t for u, then evaluate y(u)
	u := t
	for i := 0; i < 8; i++ {
		x := bezier(u, c.X1, c.X2) - t
		dx := bezierSlope(u, c.X1, c.X2)
		if math.Abs(x) < 1e-6 {
			return bezier(u, c.Y1, c.Y2)
		}
		if math.Abs(dx) < 1e-6 {
			break
		}
		u -= x / dx
		if u < 0 || u > 1 {
			break
		}
	}
	lo, hi := 0.0, 1.0
	u = t
	for i := 0; i < 32; i++ {
		x := bezier(u, c.X1, c.X2)
		if math.Abs(x-t) < 1e-6 {
			break
		}
		if x < t {
			lo = u
		} else {
			hi = u
		}
		u = (lo + hi) / 2
	}
	return bezier(u, c.Y1, c.Y2)
}

func bezier(u, p1, p2 float64) float64 {
	inv := 1 - u
	return 3*inv*inv*u*p1 + 3*inv*u*u*p2 + u*u*u
}

func bezierSlope(u, p1, p2 float64) float64 {
	inv := 1 - u
	return 3*inv*inv*p1 + 6*inv*u*(p2-p1) + 3*u*u*(1-p2)
}

// EaseOut is a cubic ease-out.
func EaseOut(t float64) float64 {
	t = Clamp01(t)
	inv := 1 - t
	return 1 - inv*inv*inv
}
