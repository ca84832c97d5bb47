package usecase

import (
	"time"

	"github.com/rocketscienceinc/blackwhite-backend/internal/blackwhite"
	"github.com/rocketscienceinc/blackwhite-backend/internal/entity"
)

// buildView redacts the session for playerID: the opponent's move in an
// open round shows only its color.
func buildView(session *entity.Session, moves []entity.Move, playerID string, now time.Time, timeout time.Duration) *entity.SessionView {
	opponentID := session.Opponent(playerID)

	view := &entity.SessionView{
		ID:        session.ID,
		Code:      session.Code,
		Mode:      session.Mode,
		Status:    session.Status,
		Round:     session.Round,
		MaxRounds: blackwhite.MaxRounds,
		Turn:      session.Turn,
		Winner:    session.Winner,

		Me:         playerID,
		OpponentID: opponentID,

		MyTiles:           blackwhite.RemainingTiles(blackwhite.UsedTiles(moves, playerID)),
		OpponentTilesLeft: len(blackwhite.RemainingTiles(blackwhite.UsedTiles(moves, opponentID))),
		MyScore:           blackwhite.ScoreFor(playerID, moves),
		OpponentScore:     blackwhite.ScoreFor(opponentID, moves),
		IsMyTurn:          session.Turn == playerID,
	}

	if session.IsActive() {
		seconds := int(session.TimeRemaining(now, timeout) / time.Second)
		view.TimeRemaining = &seconds
	}

	roundMoves := blackwhite.RoundMoves(moves, session.Round)
	revealed := len(roundMoves) == 2

	for _, move := range roundMoves {
		switch move.PlayerID {
		case playerID:
			view.CurrentRound.MyMove = tileView(move.Tile, true)
		case opponentID:
			view.CurrentRound.OpponentMove = tileView(move.Tile, revealed)
		}
	}

	completed := blackwhite.CompletedRounds(moves)
	view.CompletedRounds = make([]entity.RoundView, 0, len(completed))

	for _, round := range completed {
		mine, _ := round.MoveOf(playerID)
		theirs, _ := round.MoveOf(opponentID)

		outcome := entity.RoundOutcomeTie
		switch round.Winner {
		case "":
		case playerID:
			outcome = entity.RoundOutcomeMe
		default:
			outcome = entity.RoundOutcomeOpponent
		}

		view.CompletedRounds = append(view.CompletedRounds, entity.RoundView{
			Round:        round.Number,
			MyTile:       mine.Tile,
			OpponentTile: theirs.Tile,
			Outcome:      outcome,
		})
	}

	return view
}

func tileView(tile int, reveal bool) *entity.TileView {
	view := &entity.TileView{Color: string(blackwhite.ColorOf(tile))}
	if reveal {
		view.Tile = &tile
	}

	return view
}

func buildSummary(session *entity.Session, playerID string) entity.SessionSummary {
	return entity.SessionSummary{
		ID:         session.ID,
		Code:       session.Code,
		Mode:       session.Mode,
		Status:     session.Status,
		Round:      session.Round,
		OpponentID: session.Opponent(playerID),
		IsMyTurn:   session.Turn == playerID,
		Winner:     session.Winner,
		CreatedAt:  session.CreatedAt,
		UpdatedAt:  session.UpdatedAt,
	}
}
