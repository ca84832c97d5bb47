package blackwhite

import (
	"testing"
	"time"

	"github.com/rocketscienceinc/blackwhite-backend/internal/entity"
	"github.com/stretchr/testify/assert"
)

var start = time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

func move(round int, playerID string, tile, seq int) entity.Move {
	return entity.Move{
		SessionID: "s1",
		Round:     round,
		PlayerID:  playerID,
		Tile:      tile,
		Seq:       seq,
		CreatedAt: start.Add(time.Duration(seq) * time.Millisecond),
	}
}

func TestColorOf(t *testing.T) {
	for tile := MinTile; tile <= MaxTile; tile++ {
		if tile%2 == 0 {
			assert.Equal(t, ColorDark, ColorOf(tile), tile)
		} else {
			assert.Equal(t, ColorLight, ColorOf(tile), tile)
		}
	}
}

func TestRemainingTiles(t *testing.T) {
	t.Run("Nothing used leaves every tile", func(t *testing.T) {
		assert.Equal(t, []int{0, 1, 2, 3, 4, 5, 6, 7, 8}, RemainingTiles(nil))
	})

	t.Run("Returns the ascending complement", func(t *testing.T) {
		assert.Equal(t, []int{0, 2, 3, 5, 6, 7}, RemainingTiles([]int{8, 1, 4}))
	})

	t.Run("Used and remaining always cover every tile", func(t *testing.T) {
		used := []int{}
		for _, tile := range []int{3, 7, 0, 8, 5, 1, 6, 2, 4} {
			before := RemainingTiles(used)
			used = append(used, tile)
			after := RemainingTiles(used)

			// Then: exactly the played tile disappears
			assert.Len(t, after, len(before)-1)
			assert.NotContains(t, after, tile)
			assert.Len(t, append(append([]int{}, used...), after...), MaxTile+1)
		}

		assert.Empty(t, RemainingTiles(used))
	})
}

func TestCompareRound(t *testing.T) {
	t.Run("Equal tiles tie", func(t *testing.T) {
		for tile := MinTile; tile <= MaxTile; tile++ {
			assert.Equal(t, Tie, CompareRound(tile, tile))
		}
	})

	t.Run("Comparison is antisymmetric", func(t *testing.T) {
		for a := MinTile; a <= MaxTile; a++ {
			for b := MinTile; b <= MaxTile; b++ {
				if a == b {
					continue
				}

				forward, backward := CompareRound(a, b), CompareRound(b, a)
				if a > b {
					assert.Equal(t, AWins, forward)
					assert.Equal(t, BWins, backward)
				} else {
					assert.Equal(t, BWins, forward)
					assert.Equal(t, AWins, backward)
				}
			}
		}
	})
}

func TestUsedTiles(t *testing.T) {
	moves := []entity.Move{
		move(1, "alice", 7, 1),
		move(1, "bob", 2, 2),
		move(2, "bob", 0, 3),
		move(2, "alice", 3, 4),
	}

	assert.Equal(t, []int{3, 7}, UsedTiles(moves, "alice"))
	assert.Equal(t, []int{0, 2}, UsedTiles(moves, "bob"))
	assert.True(t, IsTileUsed(moves, "alice", 7))
	assert.False(t, IsTileUsed(moves, "alice", 2))
}

func TestRoundMoves(t *testing.T) {
	// Given: moves stored out of order
	moves := []entity.Move{
		move(2, "alice", 3, 4),
		move(1, "bob", 2, 2),
		move(2, "bob", 0, 3),
		move(1, "alice", 7, 1),
	}

	// When: selecting round 2
	roundMoves := RoundMoves(moves, 2)

	// Then: they come back in acceptance order
	assert.Equal(t, []entity.Move{move(2, "bob", 0, 3), move(2, "alice", 3, 4)}, roundMoves)

	found, ok := FindMove(moves, 1, "bob")
	assert.True(t, ok)
	assert.Equal(t, 2, found.Tile)

	_, ok = FindMove(moves, 3, "bob")
	assert.False(t, ok)
}
