package db

import "time"

type Vote struct {
	ID            uint      `gorm:"primaryKey"`
	RoundID       uint      `gorm:"not null;index;index:idx_votes_round_participant"`
	ParticipantID uint      `gorm:"not null;index;index:idx_votes_round_participant"`
	Value         float64   `gorm:"not null"`
	CreatedAt     time.Time `gorm:"not null"`
	UpdatedAt     time.Time `gorm:"not null"`
}
