package db

import "time"

type Participant struct {
	ID          uint      `gorm:"primaryKey"`
	GameID      uint      `gorm:"not null;index;index:idx_participants_game_session"`
	DisplayName string    `gorm:"size:64;not null"`
	Role        string    `gorm:"size:16;not null"`
	SessionID   string    `gorm:"size:64;not null;index;index:idx_participants_game_session"`
	IsOnline    bool      `gorm:"not null;default:false"`
	CreatedAt   time.Time `gorm:"not null"`
	UpdatedAt   time.Time `gorm:"not null"`
	Votes       []Vote
}
