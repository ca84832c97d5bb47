package blackwhite

import (
	"sort"

	"github.com/rocketscienceinc/blackwhite-backend/internal/entity"
)

// Round is a complete round: both sides have a move recorded for it.
type Round struct {
	Number int
	// First moved first in the round.
	First  entity.Move
	Second entity.Move
	// Winner is the winning player id, "" on a tie.
	Winner string
}

// IsTie reports whether neither side won the round.
func (that Round) IsTie() bool {
	return that.Winner == ""
}

// MoveOf returns the move of playerID in the round.
func (that Round) MoveOf(playerID string) (entity.Move, bool) {
	switch playerID {
	case that.First.PlayerID:
		return that.First, true
	case that.Second.PlayerID:
		return that.Second, true
	default:
		return entity.Move{}, false
	}
}

// Leader returns who opens the following round: the round winner, or on a
// tie whoever moved first in this round.
func (that Round) Leader() string {
	if that.IsTie() {
		return that.First.PlayerID
	}

	return that.Winner
}

// ResolveRound builds a Round from two moves by different players, or reports false.
func ResolveRound(number int, roundMoves []entity.Move) (Round, bool) {
	if len(roundMoves) != 2 || roundMoves[0].PlayerID == roundMoves[1].PlayerID {
		return Round{}, false
	}

	moves := []entity.Move{roundMoves[0], roundMoves[1]}
	SortMoves(moves)

	round := Round{Number: number, First: moves[0], Second: moves[1]}

	switch CompareRound(round.First.Tile, round.Second.Tile) {
	case AWins:
		round.Winner = round.First.PlayerID
	case BWins:
		round.Winner = round.Second.PlayerID
	case Tie:
	}

	return round, true
}

// CompletedRounds returns every complete round in ascending order. Incomplete
// rounds are skipped.
func CompletedRounds(moves []entity.Move) []Round {
	byRound := make(map[int][]entity.Move)
	for _, move := range moves {
		byRound[move.Round] = append(byRound[move.Round], move)
	}

	numbers := make([]int, 0, len(byRound))
	for number := range byRound {
		numbers = append(numbers, number)
	}

	sort.Ints(numbers)

	rounds := make([]Round, 0, len(numbers))
	for _, number := range numbers {
		if round, ok := ResolveRound(number, byRound[number]); ok {
			rounds = append(rounds, round)
		}
	}

	return rounds
}

// ScoreFor counts the complete rounds won by playerID. Always derived from
// the full move log, so it is safe to call at any point of a session.
func ScoreFor(playerID string, moves []entity.Move) int {
	if playerID == "" {
		return 0
	}

	score := 0
	for _, round := range CompletedRounds(moves) {
		if round.Winner == playerID {
			score++
		}
	}

	return score
}

// FinalOutcome returns the player with the higher score, or entity.OutcomeTie.
func FinalOutcome(playerA, playerB string, moves []entity.Move) string {
	scoreA := ScoreFor(playerA, moves)
	scoreB := ScoreFor(playerB, moves)

	switch {
	case scoreA > scoreB:
		return playerA
	case scoreB > scoreA:
		return playerB
	default:
		return entity.OutcomeTie
	}
}
