package kaze

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestThomasSolveIdentity(t *testing.T) {
	a := []float32{1, 1, 1}
	b := []float32{0, 0}
	d := []float32{2, 3, 4}
	out := make([]float32, 3)
	thomasSolve(a, b, d, out)
	assert.InDeltaSlice(t, []float64{2, 3, 4}, toF64(out), 1e-5)
}

func TestThomasSolveTridiagonal(t *testing.T) {
	// Diagonally dominant tridiagonal system with a known solution.
	a := []float32{4, 4, 4}
	b := []float32{-1, -1}
	x := []float32{1, 2, 3}
	d := []float32{
		a[0]*x[0] + b[0]*x[1],
		b[0]*x[0] + a[1]*x[1] + b[1]*x[2],
		b[1]*x[1] + a[2]*x[2],
	}
	out := make([]float32, 3)
	thomasSolve(a, b, d, out)
	assert.InDeltaSlice(t, toF64(x), toF64(out), 1e-4)
}

func TestSolve3x3Identity(t *testing.T) {
	a := [3][3]float32{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}}
	b := [3]float32{1, 2, 3}
	x, ok := solve3x3(a, b)
	assert.True(t, ok)
	assert.InDelta(t, 1, x[0], 1e-6)
	assert.InDelta(t, 2, x[1], 1e-6)
	assert.InDelta(t, 3, x[2], 1e-6)
}

func TestSolve3x3Singular(t *testing.T) {
	a := [3][3]float32{{1, 1, 1}, {1, 1, 1}, {1, 1, 1}}
	b := [3]float32{1, 2, 3}
	_, ok := solve3x3(a, b)
	assert.False(t, ok)
}

func toF64(xs []float32) []float64 {
	out := make([]float64, len(xs))
	for i, x := range xs {
		out[i] = float64(x)
	}
	return out
}
