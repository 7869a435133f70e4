package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// fixedRand is a deterministic Rand for tests: UniformN returns a configured
// value (clamped to n-1), Bernoulli always returns a configured bool.
type fixedRand struct {
	uniform   int
	bernoulli bool
}

func (r fixedRand) UniformN(n int) int {
	if r.uniform >= n {
		return n - 1
	}
	return r.uniform
}

func (r fixedRand) Bernoulli(p float64) bool {
	return r.bernoulli
}

func TestSampleDriftWholeAndFraction(t *testing.T) {
	t.Run("zero drift with no Bernoulli hit yields zero", func(t *testing.T) {
		got := SampleDrift(0, 10, fixedRand{uniform: 0, bernoulli: false})
		assert.Equal(t, 0, got)
	})

	t.Run("fractional Bernoulli hit adds one", func(t *testing.T) {
		// d*n = 0.25*10 = 2.5: whole=2, frac=0.5
		got := SampleDrift(0.25, 10, fixedRand{uniform: 2, bernoulli: true})
		assert.Equal(t, 3, got)
	})

	t.Run("fractional Bernoulli miss keeps the whole part", func(t *testing.T) {
		got := SampleDrift(0.25, 10, fixedRand{uniform: 2, bernoulli: false})
		assert.Equal(t, 2, got)
	})

	t.Run("n=0 always yields zero", func(t *testing.T) {
		got := SampleDrift(0.9, 0, fixedRand{uniform: 5, bernoulli: true})
		assert.Equal(t, 0, got)
	})
}

func TestMathRandBounds(t *testing.T) {
	r := NewMathRand(1)
	for i := 0; i < 200; i++ {
		v := r.UniformN(5)
		assert.True(t, v >= 0 && v < 5)
	}
	assert.False(t, r.Bernoulli(0))
	assert.True(t, r.Bernoulli(1))
}
