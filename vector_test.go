package tinyvecdb

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeProducesUnitVector(t *testing.T) {
	v := normalize([]float32{3, 4})
	var sumSq float64
	for _, x := range v {
		sumSq += float64(x) * float64(x)
	}
	assert.InDelta(t, 1.0, math.Sqrt(sumSq), 1e-5)
}

func TestNormalizeGuardsZeroVector(t *testing.T) {
	v := normalize([]float32{0, 0, 0})
	for _, x := range v {
		assert.False(t, isNaN32(x))
		assert.False(t, isInf32(x))
	}
}

func TestValidateVectorRejectsWrongDimensions(t *testing.T) {
	err := validateVector([]float32{1, 2, 3}, 4)
	assert.ErrorIs(t, err, ErrDimensionMismatch)
}

func TestValidateVectorRejectsEmpty(t *testing.T) {
	err := validateVector(nil, 0)
	assert.ErrorIs(t, err, ErrInvalidVector)
}

func TestValidateVectorRejectsNaNAndInf(t *testing.T) {
	assert.ErrorIs(t, validateVector([]float32{float32(math.NaN()), 1}, 0), ErrInvalidVector)
	assert.ErrorIs(t, validateVector([]float32{float32(math.Inf(1)), 1}, 0), ErrInvalidVector)
}

func TestValidateVectorAcceptsAnyDimensionWhenUnset(t *testing.T) {
	assert.NoError(t, validateVector([]float32{1, 2, 3}, 0))
}
