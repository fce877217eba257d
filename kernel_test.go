package tinyvecdb

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScalarDotAgreesWithDispatchedKernel(t *testing.T) {
	a := []float32{1, 2, 3, 4, 5, 6, 7, 8, 9}
	b := []float32{9, 8, 7, 6, 5, 4, 3, 2, 1}

	want := scalarDot(a, b)
	got := dot(a, b)
	assert.InDelta(t, want, got, 1e-3)
}

func TestSimilarityIdenticalNormalizedVectors(t *testing.T) {
	v := normalize([]float32{1, 2, 3})
	sim := similarity(v, v)
	assert.InDelta(t, 1.0, sim, 1e-5)
}

func TestSimilarityDimensionMismatchIsNegativeInfinity(t *testing.T) {
	sim := similarity([]float32{1, 2}, []float32{1, 2, 3})
	assert.True(t, math.IsInf(float64(sim), -1))
}

func TestSimilarityNaNIsExcludedFromTopK(t *testing.T) {
	sim := similarity([]float32{float32(math.NaN())}, []float32{1})
	assert.True(t, math.IsInf(float64(sim), -1))
}
