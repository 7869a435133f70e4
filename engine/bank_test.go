package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBankGenerateKitNonEmptyBank(t *testing.T) {
	t.Run("empty bank yields nil for any index and drift", func(t *testing.T) {
		b := NewBank(8)
		for i := 0; i < 8; i++ {
			got := b.GenerateKit(i, 0.5, fixedRand{uniform: 0, bernoulli: false})
			assert.Nil(t, got)
		}
	})

	t.Run("non-empty bank always resolves a kit", func(t *testing.T) {
		b := NewBank(8)
		b.Kits[3] = NewKit(8)
		for i := 0; i < 8; i++ {
			got := b.GenerateKit(i, 0.9, fixedRand{uniform: 2, bernoulli: true})
			assert.NotNil(t, got)
			assert.Same(t, b.Kits[3], got)
		}
	})

	t.Run("scans forward from index to the first non-empty slot", func(t *testing.T) {
		b := NewBank(4)
		b.Kits[2] = NewKit(4)
		got := b.GenerateKit(0, 0, fixedRand{uniform: 0, bernoulli: false})
		assert.Same(t, b.Kits[2], got)
	})

	t.Run("drift advances past the first non-empty slot to the next one", func(t *testing.T) {
		b := NewBank(4)
		b.Kits[0] = NewKit(4)
		b.Kits[2] = NewKit(4)
		got := b.GenerateKit(0, 1.0, fixedRand{uniform: 1, bernoulli: false})
		assert.Same(t, b.Kits[2], got)
	})
}
