package poker

import (
	"errors"

	"planning-poker/internal/db"

	"gorm.io/gorm"
)

// Join enrolls a session in a game, or updates the existing enrollment.
// The upsert key is (game, session): joining twice with the same session
// refreshes the display name and role and marks the participant online
// instead of creating a duplicate row.
func (s *Service) Join(gameID uint, displayName, role, sessionID string) (uint, error) {
	if role != RoleVoter && role != RoleSpectator {
		return 0, ErrInvalidRole
	}
	var participantID uint
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var game db.Game
		if err := tx.First(&game, gameID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrGameNotFound
			}
			return err
		}

		var existing db.Participant
		err := tx.Where("game_id = ? AND session_id = ?", gameID, sessionID).First(&existing).Error
		if err == nil {
			participantID = existing.ID
			return tx.Model(&existing).Updates(map[string]any{
				"display_name": displayName,
				"role":         role,
				"is_online":    true,
			}).Error
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		participant := db.Participant{
			GameID:      gameID,
			DisplayName: displayName,
			Role:        role,
			SessionID:   sessionID,
			IsOnline:    true,
		}
		if err := tx.Create(&participant).Error; err != nil {
			return err
		}
		participantID = participant.ID
		return recordEvent(tx, gameID, nil, &participant.ID, "participant_joined", EventPayload{
			DisplayName: displayName,
			Role:        role,
		})
	})
	if err != nil {
		return 0, err
	}
	return participantID, nil
}

// Participants lists a game's roster in join order.
func (s *Service) Participants(gameID uint) ([]db.Participant, error) {
	var participants []db.Participant
	err := s.db.Where("game_id = ?", gameID).Order("id asc").Find(&participants).Error
	return participants, err
}

// Participant returns a participant by id, or (nil, nil) when it does
// not exist.
func (s *Service) Participant(participantID uint) (*db.Participant, error) {
	var participant db.Participant
	err := s.db.First(&participant, participantID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &participant, nil
}

// Me resolves the caller's participant row from their session id. Returns
// (nil, nil) when the session has not joined the game, so callers can
// distinguish "not a participant" from a query failure.
func (s *Service) Me(gameID uint, sessionID string) (*db.Participant, error) {
	var participant db.Participant
	err := s.db.Where("game_id = ? AND session_id = ?", gameID, sessionID).First(&participant).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &participant, nil
}

// UpdatePresence flips the best-effort online flag. Liveness is driven by
// the client (visibility and unload events); there is no server heartbeat.
func (s *Service) UpdatePresence(participantID uint, isOnline bool) error {
	result := s.db.Model(&db.Participant{}).Where("id = ?", participantID).Update("is_online", isOnline)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrParticipantNotFound
	}
	return nil
}
