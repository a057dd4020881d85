package binutil_test

import (
	"testing"

	"github.com/scanollie/ntfsmft/binutil"
	"github.com/stretchr/testify/assert"
)

func TestIsOnlyZeroesYes(t *testing.T) {
	assert.True(t, binutil.IsOnlyZeroes([]byte{0, 0, 0, 0, 0, 0}))
}

func TestIsOnlyZeroesNo(t *testing.T) {
	assert.False(t, binutil.IsOnlyZeroes([]byte{0, 0, 0, 0, 0, 1}))
}

func TestTryUint32InBounds(t *testing.T) {
	r := binutil.NewLittleEndianReader([]byte{0x01, 0x00, 0x00, 0x00, 0xAA})
	v, ok := r.TryUint32(0)
	assert.True(t, ok)
	assert.Equal(t, uint32(1), v)
}

func TestTryUint32OutOfBounds(t *testing.T) {
	r := binutil.NewLittleEndianReader([]byte{0x01, 0x00})
	_, ok := r.TryUint32(0)
	assert.False(t, ok)
}

func TestTryReadNegativeOffset(t *testing.T) {
	r := binutil.NewLittleEndianReader([]byte{0x01, 0x02, 0x03})
	_, ok := r.TryRead(-1, 2)
	assert.False(t, ok)
}

func TestTryBytePastEnd(t *testing.T) {
	r := binutil.NewLittleEndianReader([]byte{0x01})
	_, ok := r.TryByte(5)
	assert.False(t, ok)
}
