// Package blackwhite holds the rules of the Black & White tile game:
// tile colors, round comparison, scores derived from the move log and
// the simulated opponent's move pick. Everything here is pure; inputs are
// expected to be validated by the caller.
package blackwhite

import (
	"sort"

	"github.com/rocketscienceinc/blackwhite-backend/internal/entity"
)

const (
	MinTile   = 0
	MaxTile   = 8
	MaxRounds = 9
)

type Color string

const (
	ColorDark  Color = "black"
	ColorLight Color = "white"
)

type RoundResult int

const (
	Tie RoundResult = iota
	AWins
	BWins
)

// ColorOf returns ColorDark for even tiles and ColorLight for odd ones.
func ColorOf(tile int) Color {
	if tile%2 == 0 {
		return ColorDark
	}

	return ColorLight
}

func IsValidTile(tile int) bool {
	return tile >= MinTile && tile <= MaxTile
}

// RemainingTiles returns the ascending complement of used within MinTile..MaxTile.
func RemainingTiles(used []int) []int {
	var seen [MaxTile + 1]bool
	for _, tile := range used {
		if IsValidTile(tile) {
			seen[tile] = true
		}
	}

	remaining := make([]int, 0, MaxTile+1)
	for tile := MinTile; tile <= MaxTile; tile++ {
		if !seen[tile] {
			remaining = append(remaining, tile)
		}
	}

	return remaining
}

// CompareRound - strictly greater value wins, equal values tie.
func CompareRound(tileA, tileB int) RoundResult {
	switch {
	case tileA > tileB:
		return AWins
	case tileB > tileA:
		return BWins
	default:
		return Tie
	}
}

// UsedTiles returns the tiles played by playerID, ascending.
func UsedTiles(moves []entity.Move, playerID string) []int {
	used := make([]int, 0, MaxTile+1)
	for _, move := range moves {
		if move.PlayerID == playerID {
			used = append(used, move.Tile)
		}
	}

	sort.Ints(used)

	return used
}

func IsTileUsed(moves []entity.Move, playerID string, tile int) bool {
	for _, move := range moves {
		if move.PlayerID == playerID && move.Tile == tile {
			return true
		}
	}

	return false
}

// SortMoves orders moves by acceptance, storage gives no ordering guarantee.
func SortMoves(moves []entity.Move) {
	sort.SliceStable(moves, func(i, j int) bool {
		return moves[i].Before(moves[j])
	})
}

// RoundMoves returns the moves recorded for round in acceptance order.
func RoundMoves(moves []entity.Move, round int) []entity.Move {
	roundMoves := make([]entity.Move, 0, 2)
	for _, move := range moves {
		if move.Round == round {
			roundMoves = append(roundMoves, move)
		}
	}

	SortMoves(roundMoves)

	return roundMoves
}

// FindMove returns the move of playerID in round.
func FindMove(moves []entity.Move, round int, playerID string) (entity.Move, bool) {
	for _, move := range moves {
		if move.Round == round && move.PlayerID == playerID {
			return move, true
		}
	}

	return entity.Move{}, false
}
