package apperror

import "errors"

// participant-facing errors.
var (
	ErrNotFound         = errors.New("session not found")
	ErrNotAParticipant  = errors.New("you are not a player in this session")
	ErrInvalidState     = errors.New("session is not in a valid state for this action")
	ErrNotYourTurn      = errors.New("it's not your turn")
	ErrTimeout          = errors.New("move timeout, session forfeited")
	ErrInvalidTile      = errors.New("invalid tile")
	ErrNotJoinable      = errors.New("session is not joinable")
	ErrAlreadyInSession = errors.New("you are already in this session")
	ErrInvalidMode      = errors.New("invalid session mode")
	ErrUnauthorized     = errors.New("unauthorized")
)

// internal errors: a broken invariant or a systemic resource problem.
var (
	ErrExhaustedTiles      = errors.New("no remaining tiles to play")
	ErrAllocationExhausted = errors.New("could not allocate a unique session code")
	ErrLockNotAcquired     = errors.New("could not acquire session lock")
)

var clientErrors = []error{
	ErrNotFound,
	ErrNotAParticipant,
	ErrInvalidState,
	ErrNotYourTurn,
	ErrTimeout,
	ErrInvalidTile,
	ErrNotJoinable,
	ErrAlreadyInSession,
	ErrInvalidMode,
	ErrUnauthorized,
}

// IsClientError reports whether err is recoverable by the client.
func IsClientError(err error) bool {
	for _, target := range clientErrors {
		if errors.Is(err, target) {
			return true
		}
	}

	return false
}

// IsInternal reports whether err must be surfaced as an internal failure.
func IsInternal(err error) bool {
	return err != nil && !IsClientError(err)
}
