package service

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRandomHexShapeAndUniqueness(t *testing.T) {
	hex8 := regexp.MustCompile(`^[0-9a-f]{8}$`)

	seen := make(map[string]bool, 1000)
	for i := 0; i < 1000; i++ {
		id, err := randomHex(4)
		require.NoError(t, err)
		assert.True(t, hex8.MatchString(id), "id %q is not 8 lowercase hex chars", id)
		assert.False(t, seen[id], "id %q repeated", id)
		seen[id] = true
	}
}

func TestRandomHexLength(t *testing.T) {
	id, err := randomHex(16)
	require.NoError(t, err)
	assert.Len(t, id, 32)
}
