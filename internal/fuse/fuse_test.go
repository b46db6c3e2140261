package fuse

import (
	"math"
	"testing"
)

func TestFuse_Basic(t *testing.T) {
	tests := []struct {
		name   string
		prob   float64
		logic  float64
		weight float64
		want   float64
	}{
		{"no adjustment", 0.6, 0, 0.1, 0.6},
		{"positive logic raises", 0.6, 2, 0.1, 0.8},
		{"negative logic lowers", 0.6, -2, 0.1, 0.4},
		{"zero weight ignores logic", 0.6, 100, 0, 0.6},
		{"stronger weight", 0.5, 1, 0.3, 0.8},
		{"clamped at one", 0.9, 50, 0.1, 1},
		{"clamped at zero", 0.1, -50, 0.1, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Fuse(tt.prob, tt.logic, tt.weight)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("Fuse(%v, %v, %v) = %v, expected %v", tt.prob, tt.logic, tt.weight, got, tt.want)
			}
		})
	}
}

func TestFuse_AlwaysBounded(t *testing.T) {
	probs := []float64{0, 0.25, 0.5, 0.75, 1}
	logics := []float64{-1e6, -10, -1.5, 0, 1.5, 10, 1e6}

	for _, p := range probs {
		for _, l := range logics {
			got := Fuse(p, l, DefaultWeight)
			if got < 0 || got > 1 {
				t.Errorf("Fuse(%v, %v) = %v, out of [0,1]", p, l, got)
			}
		}
	}
}

func TestFuse_MonotonicInLogicScore(t *testing.T) {
	logics := []float64{-20, -5, -1, 0, 1, 5, 20}

	for _, p := range []float64{0, 0.3, 0.7, 1} {
		prev := math.Inf(-1)
		for _, l := range logics {
			got := Fuse(p, l, DefaultWeight)
			if got < prev {
				t.Errorf("Fuse(%v, %v) = %v decreased below %v", p, l, got, prev)
			}
			prev = got
		}
	}
}
