package blackwhite

import (
	"fmt"
	"math/rand/v2"

	"github.com/rocketscienceinc/blackwhite-backend/internal/apperror"
)

// Picker returns a uniformly distributed int in [0, n).
type Picker func(n int) int

// NextMove picks one of the remaining tiles uniformly at random.
// An empty hand means the session was driven past its nine rounds.
func NextMove(remaining []int, pick Picker) (int, error) {
	if len(remaining) == 0 {
		return 0, fmt.Errorf("simulated opponent: %w", apperror.ErrExhaustedTiles)
	}

	if pick == nil {
		pick = rand.IntN
	}

	return remaining[pick(len(remaining))], nil
}
