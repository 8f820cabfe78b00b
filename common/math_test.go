package common

import (
	"math"
	"testing"
)

func TestClamp(t *testing.T) {
	tests := []struct {
		name string
		in   float64
		want float64
	}{
		{"inside", 0.4, 0.4},
		{"below", -3, 0},
		{"above", 1.2, 1},
		{"nan", math.NaN(), 0},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := Clamp01(tc.in); got != tc.want {
				t.Fatalf("Clamp01(%v) = %v, want %v", tc.in, got, tc.want)
			}
		})
	}
}

func TestCubicBezier(t *testing.T) {
	curves := map[string]CubicBezier{
		"sweep":  SweepEase,
		"hover":  HoverEase,
		"linear": {X1: 0, Y1: 0, X2: 1, Y2: 1},
	}
	for name, c := range curves {
		t.Run(name, func(t *testing.T) {
			if c.At(0) != 0 || c.At(1) != 1 {
				t.Fatalf("endpoints: %v %v", c.At(0), c.At(1))
			}
			if c.At(-1) != 0 || c.At(2) != 1 {
				t.Fatal("input outside [0,1] must clamp")
			}
			prev := 0.0
			for i := 1; i <= 100; i++ {
				y := c.At(float64(i) / 100)
				if y < prev-1e-4 {
					t.Fatalf("not monotonic at %d: %v < %v", i, y, prev)
				}
				prev = y
			}
		})
	}

	if got := (CubicBezier{X2: 1, Y2: 1}).At(0.3); math.Abs(got-0.3) > 1e-4 {
		t.Fatalf("linear curve at 0.3 = %v", got)
	}
	if SweepEase.At(0.5) <= 0.5 {
		t.Fatal("sweep curve should lead linear progress")
	}
}

func TestLerpAndEaseOut(t *testing.T) {
	if got := Lerp(0.5, 0, 0.5); got != 0.25 {
		t.Fatalf("Lerp = %v", got)
	}
	if EaseOut(0) != 0 || EaseOut(1) != 1 || EaseOut(0.5) != 0.875 {
		t.Fatalf("EaseOut: %v %v %v", EaseOut(0), EaseOut(1), EaseOut(0.5))
	}
}
