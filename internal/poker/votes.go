package poker

import (
	"errors"
	"math"
	"strconv"

	"planning-poker/internal/db"

	"gorm.io/gorm"
)

// CastVote records or replaces a participant's vote for a round. One vote
// per (round, participant): casting again overwrites the value. Votes are
// immutable once the round is revealed. After a first-time vote the
// all-voted check runs and may reveal the round; changing an existing
// vote never re-runs the check, since a reveal cannot be un-triggered.
func (s *Service) CastVote(roundID, participantID uint, value float64) (uint, error) {
	var voteID uint
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var round db.Round
		if err := tx.First(&round, roundID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrRoundNotFound
			}
			return err
		}
		if round.Status == StatusRevealed {
			return ErrRoundRevealed
		}

		var game db.Game
		if err := tx.First(&game, round.GameID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrGameNotFound
			}
			return err
		}
		if !isValidVoteValue(game.VotingSystem, value) {
			return ErrInvalidVoteValue
		}

		var existing db.Vote
		err := tx.Where("round_id = ? AND participant_id = ?", roundID, participantID).First(&existing).Error
		if err == nil {
			voteID = existing.ID
			return tx.Model(&existing).Update("value", value).Error
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		vote := db.Vote{
			RoundID:       roundID,
			ParticipantID: participantID,
			Value:         value,
		}
		if err := tx.Create(&vote).Error; err != nil {
			return err
		}
		voteID = vote.ID
		if err := recordEvent(tx, round.GameID, &round.ID, &participantID, "vote_cast", EventPayload{
			RoundID:       round.ID,
			ParticipantID: participantID,
		}); err != nil {
			return err
		}
		_, err = maybeAutoReveal(tx, &round)
		return err
	})
	if err != nil {
		return 0, err
	}
	return voteID, nil
}

// RemoveVote withdraws a participant's vote ("click again to un-vote").
// No-op when no vote exists; fails once the round is revealed.
func (s *Service) RemoveVote(roundID, participantID uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var round db.Round
		if err := tx.First(&round, roundID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrRoundNotFound
			}
			return err
		}
		if round.Status == StatusRevealed {
			return ErrRoundRevealed
		}

		result := tx.Where("round_id = ? AND participant_id = ?", roundID, participantID).Delete(&db.Vote{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return nil
		}
		return recordEvent(tx, round.GameID, &round.ID, &participantID, "vote_removed", EventPayload{
			RoundID:       round.ID,
			ParticipantID: participantID,
		})
	})
}

// VotesForRound returns every vote for a round. While the round is not
// revealed each value is replaced with HiddenValue, so readers can see
// who has voted but never what. This masking happens here, at the query
// layer, and is never delegated to clients.
func (s *Service) VotesForRound(roundID uint) ([]db.Vote, error) {
	var round db.Round
	err := s.db.First(&round, roundID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return []db.Vote{}, nil
	}
	if err != nil {
		return nil, err
	}

	var votes []db.Vote
	if err := s.db.Where("round_id = ?", roundID).Order("id asc").Find(&votes).Error; err != nil {
		return nil, err
	}
	if round.Status != StatusRevealed {
		for i := range votes {
			votes[i].Value = HiddenValue
		}
	}
	return votes, nil
}

// MyVote returns the caller's own vote unmasked, so a voter can see and
// toggle their current selection while it stays hidden from everyone
// else. (nil, nil) when no vote has been cast.
func (s *Service) MyVote(roundID, participantID uint) (*db.Vote, error) {
	var vote db.Vote
	err := s.db.Where("round_id = ? AND participant_id = ?", roundID, participantID).First(&vote).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &vote, nil
}

// Stats summarizes a revealed round's votes.
type Stats struct {
	Average          float64        `json:"average"`
	Min              float64        `json:"min"`
	Max              float64        `json:"max"`
	TotalVotes       int            `json:"total_votes"`
	Distribution     map[string]int `json:"distribution"`
	IsConsensus      bool           `json:"is_consensus"`
	AgreementPercent int            `json:"agreement_percent"`
}

// RoundStats computes post-reveal statistics, or (nil, nil) when the
// round does not exist, is not revealed, or has no votes. Consensus means
// unanimity; agreement is the share of votes on the most common value and
// equals 100 exactly when consensus holds.
func (s *Service) RoundStats(roundID uint) (*Stats, error) {
	var round db.Round
	err := s.db.First(&round, roundID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if round.Status != StatusRevealed {
		return nil, nil
	}

	var votes []db.Vote
	if err := s.db.Where("round_id = ?", roundID).Find(&votes).Error; err != nil {
		return nil, err
	}
	if len(votes) == 0 {
		return nil, nil
	}

	sum := 0.0
	min := votes[0].Value
	max := votes[0].Value
	distribution := make(map[string]int)
	for _, vote := range votes {
		sum += vote.Value
		if vote.Value < min {
			min = vote.Value
		}
		if vote.Value > max {
			max = vote.Value
		}
		distribution[formatValue(vote.Value)]++
	}

	modeCount := 0
	for _, count := range distribution {
		if count > modeCount {
			modeCount = count
		}
	}

	return &Stats{
		Average:          round1(sum / float64(len(votes))),
		Min:              min,
		Max:              max,
		TotalVotes:       len(votes),
		Distribution:     distribution,
		IsConsensus:      len(distribution) == 1,
		AgreementPercent: int(math.Round(float64(modeCount) / float64(len(votes)) * 100)),
	}, nil
}

func formatValue(value float64) string {
	return strconv.FormatFloat(value, 'f', -1, 64)
}
