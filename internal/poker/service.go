// Package poker implements the estimation core: the game registry,
// participant roster, round state machine, and vote ledger. Every command
// runs as a single database transaction; reads are plain queries. All
// state lives in the database, so any number of server processes can
// share one game.
package poker

import (
	"time"

	"gorm.io/gorm"
)

const (
	StatusLobby    = "lobby"
	StatusVoting   = "voting"
	StatusRevealed = "revealed"
)

const (
	RoleVoter     = "voter"
	RoleSpectator = "spectator"
)

// HiddenValue replaces a vote's real value in reads while the round has
// not been revealed.
const HiddenValue float64 = -1

type Service struct {
	db *gorm.DB
}

func New(conn *gorm.DB) *Service {
	return &Service{db: conn}
}

func timeNowUTC() time.Time {
	return time.Now().UTC()
}
