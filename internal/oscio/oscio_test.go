package oscio

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParsePadAddress(t *testing.T) {
	t.Run("well-formed address", func(t *testing.T) {
		bank, pad, err := parsePadAddress("/pad/2/5/hold")
		assert.NoError(t, err)
		assert.Equal(t, 2, bank)
		assert.Equal(t, uint8(5), pad)
	})

	t.Run("wrong prefix", func(t *testing.T) {
		_, _, err := parsePadAddress("/track/2/5/hold")
		assert.Error(t, err)
	})

	t.Run("too few segments", func(t *testing.T) {
		_, _, err := parsePadAddress("/pad/2/hold")
		assert.Error(t, err)
	})

	t.Run("non-numeric bank", func(t *testing.T) {
		_, _, err := parsePadAddress("/pad/x/5/hold")
		assert.Error(t, err)
	})
}
