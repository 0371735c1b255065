package poker

import (
	"encoding/json"

	"planning-poker/internal/db"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// EventPayload is the JSON body persisted with each audit event. Vote
// values are deliberately never recorded here: the events endpoint is
// readable by anyone in the game and values stay secret until reveal.
type EventPayload struct {
	JoinCode      string `json:"join_code,omitempty"`
	DisplayName   string `json:"participant,omitempty"`
	ParticipantID uint   `json:"participant_id,omitempty"`
	RoundID       uint   `json:"round_id,omitempty"`
	Topic         string `json:"topic,omitempty"`
	Status        string `json:"status,omitempty"`
	Role          string `json:"role,omitempty"`
	Reason        string `json:"reason,omitempty"`
}

func recordEvent(tx *gorm.DB, gameID uint, roundID, participantID *uint, eventType string, payload EventPayload) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	event := db.Event{
		GameID:        gameID,
		RoundID:       roundID,
		ParticipantID: participantID,
		Type:          eventType,
		Payload:       datatypes.JSON(data),
	}
	return tx.Create(&event).Error
}

// Events returns the audit trail for a game in chronological order.
func (s *Service) Events(gameID uint) ([]db.Event, error) {
	var events []db.Event
	err := s.db.Where("game_id = ?", gameID).Order("id asc").Find(&events).Error
	return events, err
}
