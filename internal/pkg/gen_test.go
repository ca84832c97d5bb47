package pkg

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateRoomCode(t *testing.T) {
	for i := 0; i < 100; i++ {
		// When: a code is generated
		code, err := GenerateRoomCode()
		require.NoError(t, err)

		// Then: it is six characters from the unambiguous alphabet
		require.Len(t, code, CodeLength)
		for _, r := range code {
			assert.True(t, strings.ContainsRune(CodeAlphabet, r), "unexpected glyph %q", r)
		}
		assert.NotContains(t, code, "0")
		assert.NotContains(t, code, "O")
		assert.NotContains(t, code, "1")
		assert.NotContains(t, code, "I")
	}
}

func TestGenerateSessionID(t *testing.T) {
	first := GenerateSessionID()
	second := GenerateSessionID()

	_, err := uuid.Parse(first)
	require.NoError(t, err)
	assert.NotEqual(t, first, second)
}
