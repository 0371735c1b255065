package poker

import "errors"

var (
	ErrGameNotFound        = errors.New("game not found")
	ErrRoundNotFound       = errors.New("round not found")
	ErrParticipantNotFound = errors.New("participant not found")
	ErrNotAdmin            = errors.New("only the game admin can perform this action")
	ErrRoundRevealed       = errors.New("round already revealed")
	ErrRoundNotRevealed    = errors.New("round is not revealed")
	ErrInvalidVotingSystem = errors.New("unknown voting system")
	ErrInvalidVoteValue    = errors.New("value is not part of the game's voting system")
	ErrInvalidRole         = errors.New("role must be voter or spectator")
)
