package apperror

import "errors"

var (
	ErrGameNotFound         = errors.New("game not found")
	ErrIncorrectSecret      = errors.New("incorrect secret")
	ErrNotHost              = errors.New("only the host can start the game")
	ErrGameAlreadyStarted   = errors.New("game is already started")
	ErrGameNotStarted       = errors.New("game is not started")
	ErrRoundNotComplete     = errors.New("round is not complete")
	ErrNarrativeUnavailable = errors.New("narrative service unavailable")
)
