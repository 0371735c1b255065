package poker

import (
	"errors"
	"math"

	"planning-poker/internal/db"

	"gorm.io/gorm"
)

// StartRound opens a new estimation round for a topic. Only the game
// admin may start rounds. Any round still in voting status is force
// revealed first: starting a new round always closes the previous one,
// even if not everyone voted.
func (s *Service) StartRound(gameID uint, topic, sessionID string) (uint, error) {
	var roundID uint
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var game db.Game
		if err := tx.First(&game, gameID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrGameNotFound
			}
			return err
		}
		if game.AdminSessionID != sessionID {
			return ErrNotAdmin
		}

		var current db.Round
		err := tx.Where("game_id = ? AND status = ?", gameID, StatusVoting).First(&current).Error
		if err == nil {
			now := timeNowUTC()
			if err := tx.Model(&current).Updates(map[string]any{
				"status":      StatusRevealed,
				"revealed_at": now,
			}).Error; err != nil {
				return err
			}
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		round := db.Round{
			GameID: gameID,
			Topic:  topic,
			Status: StatusVoting,
		}
		if err := tx.Create(&round).Error; err != nil {
			return err
		}
		roundID = round.ID

		if err := tx.Model(&db.Game{}).Where("id = ?", gameID).Updates(map[string]any{
			"status":        StatusVoting,
			"current_topic": topic,
		}).Error; err != nil {
			return err
		}

		return recordEvent(tx, gameID, &round.ID, nil, "round_started", EventPayload{
			RoundID: round.ID,
			Topic:   topic,
		})
	})
	if err != nil {
		return 0, err
	}
	return roundID, nil
}

// RevealRound exposes all votes for a round. Idempotent: revealing an
// already-revealed round is a no-op. Admin only.
func (s *Service) RevealRound(roundID uint, sessionID string) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var round db.Round
		if err := tx.First(&round, roundID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrRoundNotFound
			}
			return err
		}
		if round.Status == StatusRevealed {
			return nil
		}

		var game db.Game
		if err := tx.First(&game, round.GameID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrGameNotFound
			}
			return err
		}
		if game.AdminSessionID != sessionID {
			return ErrNotAdmin
		}

		if err := revealRound(tx, &round); err != nil {
			return err
		}
		return recordEvent(tx, round.GameID, &round.ID, nil, "round_revealed", EventPayload{
			RoundID: round.ID,
		})
	})
}

// Revote reopens a revealed round for the same topic: every vote for the
// round is deleted and the round returns to voting status. Fails on a
// round still in progress.
func (s *Service) Revote(roundID uint, sessionID string) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var round db.Round
		if err := tx.First(&round, roundID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrRoundNotFound
			}
			return err
		}
		if round.Status != StatusRevealed {
			return ErrRoundNotRevealed
		}

		var game db.Game
		if err := tx.First(&game, round.GameID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrGameNotFound
			}
			return err
		}
		if game.AdminSessionID != sessionID {
			return ErrNotAdmin
		}

		if err := tx.Where("round_id = ?", round.ID).Delete(&db.Vote{}).Error; err != nil {
			return err
		}
		if err := tx.Model(&round).Updates(map[string]any{
			"status":      StatusVoting,
			"revealed_at": nil,
		}).Error; err != nil {
			return err
		}
		if err := tx.Model(&db.Game{}).Where("id = ?", round.GameID).Update("status", StatusVoting).Error; err != nil {
			return err
		}
		return recordEvent(tx, round.GameID, &round.ID, nil, "round_revote", EventPayload{
			RoundID: round.ID,
		})
	})
}

// AutoReveal reveals the round if every voter in the game has cast a
// vote. System-invoked, so there is no admin check; it silently no-ops
// when the round is missing or already revealed, since it may race
// harmlessly with an explicit reveal.
func (s *Service) AutoReveal(roundID uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var round db.Round
		if err := tx.First(&round, roundID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			return err
		}
		_, err := maybeAutoReveal(tx, &round)
		return err
	})
}

// revealRound is the voting->revealed transition shared by explicit
// reveal and auto-reveal. It also mirrors the status onto the parent
// game.
func revealRound(tx *gorm.DB, round *db.Round) error {
	now := timeNowUTC()
	if err := tx.Model(round).Updates(map[string]any{
		"status":      StatusRevealed,
		"revealed_at": now,
	}).Error; err != nil {
		return err
	}
	return tx.Model(&db.Game{}).Where("id = ?", round.GameID).Update("status", StatusRevealed).Error
}

// maybeAutoReveal applies the all-voted check: reveal once the vote count
// reaches the voter count, but never for a game with zero voters (an
// empty round must not reveal itself instantly).
func maybeAutoReveal(tx *gorm.DB, round *db.Round) (bool, error) {
	if round.Status == StatusRevealed {
		return false, nil
	}
	var voterCount int64
	if err := tx.Model(&db.Participant{}).
		Where("game_id = ? AND role = ?", round.GameID, RoleVoter).
		Count(&voterCount).Error; err != nil {
		return false, err
	}
	var voteCount int64
	if err := tx.Model(&db.Vote{}).Where("round_id = ?", round.ID).Count(&voteCount).Error; err != nil {
		return false, err
	}
	if voterCount == 0 || voteCount < voterCount {
		return false, nil
	}
	if err := revealRound(tx, round); err != nil {
		return false, err
	}
	err := recordEvent(tx, round.GameID, &round.ID, nil, "round_revealed", EventPayload{
		RoundID: round.ID,
		Reason:  "all_voted",
	})
	return true, err
}

// Round returns a round by id, or (nil, nil) when it does not exist.
func (s *Service) Round(roundID uint) (*db.Round, error) {
	var round db.Round
	err := s.db.First(&round, roundID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &round, nil
}

// CurrentRound returns the round in voting status for a game, if any.
func (s *Service) CurrentRound(gameID uint) (*db.Round, error) {
	var round db.Round
	err := s.db.Where("game_id = ? AND status = ?", gameID, StatusVoting).First(&round).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &round, nil
}

// LatestRound returns the most recently created round regardless of
// status, or (nil, nil) before any round exists.
func (s *Service) LatestRound(gameID uint) (*db.Round, error) {
	var round db.Round
	err := s.db.Where("game_id = ?", gameID).Order("id desc").First(&round).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &round, nil
}

// RoundSummary is a round enriched with its vote count and average for
// session summaries.
type RoundSummary struct {
	Round     db.Round
	VoteCount int
	Average   float64
}

// RoundHistory lists all rounds for a game, newest first, each joined
// against the vote ledger. The average is rounded to one decimal and is
// 0 for a round with no votes.
func (s *Service) RoundHistory(gameID uint) ([]RoundSummary, error) {
	var rounds []db.Round
	if err := s.db.Where("game_id = ?", gameID).Order("id desc").Find(&rounds).Error; err != nil {
		return nil, err
	}
	summaries := make([]RoundSummary, 0, len(rounds))
	for _, round := range rounds {
		var votes []db.Vote
		if err := s.db.Where("round_id = ?", round.ID).Find(&votes).Error; err != nil {
			return nil, err
		}
		sum := 0.0
		for _, vote := range votes {
			sum += vote.Value
		}
		average := 0.0
		if len(votes) > 0 {
			average = round1(sum / float64(len(votes)))
		}
		summaries = append(summaries, RoundSummary{
			Round:     round,
			VoteCount: len(votes),
			Average:   average,
		})
	}
	return summaries, nil
}

func round1(value float64) float64 {
	return math.Round(value*10) / 10
}
