package db

import "time"

type Game struct {
	ID             uint      `gorm:"primaryKey"`
	Name           string    `gorm:"size:64;not null"`
	VotingSystem   string    `gorm:"size:32;not null"`
	Status         string    `gorm:"size:32;not null"`
	CurrentTopic   string    `gorm:"size:280"`
	JoinCode       string    `gorm:"size:12;uniqueIndex;not null"`
	AdminSessionID string    `gorm:"size:64;index;not null"`
	CreatedAt      time.Time `gorm:"not null"`
	UpdatedAt      time.Time `gorm:"not null"`
	Participants   []Participant
	Rounds         []Round
	Events         []Event
}
