package db

import "time"

type Round struct {
	ID         uint   `gorm:"primaryKey"`
	GameID     uint   `gorm:"not null;index;index:idx_rounds_game_status"`
	Topic      string `gorm:"size:280;not null"`
	Status     string `gorm:"size:32;not null;index:idx_rounds_game_status"`
	RevealedAt *time.Time
	CreatedAt  time.Time `gorm:"not null"`
	UpdatedAt  time.Time `gorm:"not null"`
	Votes      []Vote
}
