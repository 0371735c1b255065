package poker

import (
	"errors"

	"planning-poker/internal/db"

	"gorm.io/gorm"
)

// CreateGame allocates a unique join code, inserts the game in lobby
// status, and enrolls the creator as the first participant (always a
// voter). The join-code lookup and insert happen in one transaction; the
// unique index on join_code is the backstop for two creates racing on the
// same code, in which case the whole transaction is retried with a fresh
// code.
func (s *Service) CreateGame(name, votingSystem, adminName, sessionID string) (gameID uint, joinCode string, err error) {
	if _, ok := VotingSystems[votingSystem]; !ok {
		return 0, "", ErrInvalidVotingSystem
	}
	for {
		gameID, joinCode, err = s.createGame(name, votingSystem, adminName, sessionID)
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			continue
		}
		return gameID, joinCode, err
	}
}

func (s *Service) createGame(name, votingSystem, adminName, sessionID string) (uint, string, error) {
	var game db.Game
	err := s.db.Transaction(func(tx *gorm.DB) error {
		code := newJoinCode()
		for {
			var existing db.Game
			lookupErr := tx.Where("join_code = ?", code).First(&existing).Error
			if errors.Is(lookupErr, gorm.ErrRecordNotFound) {
				break
			}
			if lookupErr != nil {
				return lookupErr
			}
			code = newJoinCode()
		}

		game = db.Game{
			Name:           name,
			VotingSystem:   votingSystem,
			Status:         StatusLobby,
			JoinCode:       code,
			AdminSessionID: sessionID,
		}
		if err := tx.Create(&game).Error; err != nil {
			return err
		}

		admin := db.Participant{
			GameID:      game.ID,
			DisplayName: adminName,
			Role:        RoleVoter,
			SessionID:   sessionID,
			IsOnline:    true,
		}
		if err := tx.Create(&admin).Error; err != nil {
			return err
		}

		return recordEvent(tx, game.ID, nil, &admin.ID, "game_created", EventPayload{
			JoinCode:    game.JoinCode,
			DisplayName: adminName,
		})
	})
	if err != nil {
		return 0, "", err
	}
	return game.ID, game.JoinCode, nil
}

// Game returns a game by id, or (nil, nil) when it does not exist.
func (s *Service) Game(gameID uint) (*db.Game, error) {
	var game db.Game
	err := s.db.First(&game, gameID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &game, nil
}

// GameByJoinCode is an exact, case-sensitive lookup. Returns (nil, nil)
// when no game carries the code.
func (s *Service) GameByJoinCode(joinCode string) (*db.Game, error) {
	var game db.Game
	err := s.db.Where("join_code = ?", joinCode).First(&game).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &game, nil
}
