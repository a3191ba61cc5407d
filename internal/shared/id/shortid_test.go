package id

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate_DefaultLength(t *testing.T) {
	got, err := Generate(0)
	require.NoError(t, err)
	assert.Len(t, got, DefaultLength)
}

func TestGenerate_Alphabet(t *testing.T) {
	got, err := Generate(64)
	require.NoError(t, err)
	for _, c := range got {
		assert.Contains(t, alphabet, string(c))
	}
}

func TestGenerateWithPrefix(t *testing.T) {
	got, err := GenerateWithPrefix(PrefixSeatAssignment, 12)
	require.NoError(t, err)
	assert.True(t, HasPrefix(got, PrefixSeatAssignment))
	assert.Len(t, got, len(PrefixSeatAssignment)+1+12)
}

func TestGenerate_Uniqueness(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		id := MustGenerate(DefaultLength)
		require.False(t, seen[id], "duplicate id generated: %s", id)
		seen[id] = true
	}
}
