package server

import (
	"planning-poker/internal/db"
	"planning-poker/internal/poker"
)

// snapshot assembles the full client view of a game: the game itself,
// the roster, the latest round with its (masked) votes, and post-reveal
// stats. The admin session id never leaves the server.
func (s *Server) snapshot(gameID uint) (map[string]any, error) {
	game, err := s.poker.Game(gameID)
	if err != nil {
		return nil, err
	}
	if game == nil {
		return nil, poker.ErrGameNotFound
	}

	participants, err := s.poker.Participants(gameID)
	if err != nil {
		return nil, err
	}

	round, err := s.poker.LatestRound(gameID)
	if err != nil {
		return nil, err
	}

	payload := map[string]any{
		"game":         gameJSON(game),
		"participants": participantsJSON(participants),
		"round":        nil,
		"votes":        []any{},
		"stats":        nil,
	}
	if round == nil {
		return payload, nil
	}

	votes, err := s.poker.VotesForRound(round.ID)
	if err != nil {
		return nil, err
	}
	stats, err := s.poker.RoundStats(round.ID)
	if err != nil {
		return nil, err
	}
	payload["round"] = roundJSON(round)
	payload["votes"] = votesJSON(votes)
	if stats != nil {
		payload["stats"] = stats
	}
	return payload, nil
}

func gameJSON(game *db.Game) map[string]any {
	return map[string]any{
		"id":            game.ID,
		"name":          game.Name,
		"voting_system": game.VotingSystem,
		"card_values":   poker.CardValues(game.VotingSystem),
		"status":        game.Status,
		"current_topic": game.CurrentTopic,
		"join_code":     game.JoinCode,
	}
}

func participantsJSON(participants []db.Participant) []map[string]any {
	out := make([]map[string]any, 0, len(participants))
	for _, participant := range participants {
		out = append(out, map[string]any{
			"id":           participant.ID,
			"display_name": participant.DisplayName,
			"role":         participant.Role,
			"is_online":    participant.IsOnline,
		})
	}
	return out
}

func roundJSON(round *db.Round) map[string]any {
	out := map[string]any{
		"id":     round.ID,
		"topic":  round.Topic,
		"status": round.Status,
	}
	if round.RevealedAt != nil {
		out["revealed_at"] = round.RevealedAt
	}
	return out
}

func votesJSON(votes []db.Vote) []map[string]any {
	out := make([]map[string]any, 0, len(votes))
	for _, vote := range votes {
		out = append(out, map[string]any{
			"id":             vote.ID,
			"participant_id": vote.ParticipantID,
			"value":          vote.Value,
		})
	}
	return out
}

func historyJSON(history []poker.RoundSummary) []map[string]any {
	out := make([]map[string]any, 0, len(history))
	for _, summary := range history {
		entry := roundJSON(&summary.Round)
		entry["vote_count"] = summary.VoteCount
		entry["average"] = summary.Average
		out = append(out, entry)
	}
	return out
}
