package pkg

import (
	"crypto/rand"
	"fmt"
	"math/big"

	"github.com/google/uuid"
)

const (
	// CodeAlphabet excludes glyphs that are easy to confuse: 0/O and 1/I.
	CodeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
	CodeLength   = 6
)

// GenerateSessionID - generates a new unique session identifier.
func GenerateSessionID() string {
	return uuid.NewString()
}

// GeneratePlayerID - generates a new participant identifier.
func GeneratePlayerID() string {
	return uuid.NewString()
}

// GenerateRoomCode - draws a join code from CodeAlphabet.
func GenerateRoomCode() (string, error) {
	code := make([]byte, CodeLength)
	limit := big.NewInt(int64(len(CodeAlphabet)))

	for i := range code {
		n, err := rand.Int(rand.Reader, limit)
		if err != nil {
			return "", fmt.Errorf("failed to read random index: %w", err)
		}
		code[i] = CodeAlphabet[n.Int64()]
	}

	return string(code), nil
}
