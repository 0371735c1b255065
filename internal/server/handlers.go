package server

import (
	"io"
	"log"
	"net/http"
	"strconv"
	"strings"

	"planning-poker/internal/poker"
)

type createGameRequest struct {
	Name         string `json:"name"`
	VotingSystem string `json:"voting_system"`
	AdminName    string `json:"admin_name"`
	SessionID    string `json:"session_id"`
}

type joinRequest struct {
	DisplayName string `json:"display_name"`
	Role        string `json:"role"`
	SessionID   string `json:"session_id"`
}

type startRoundRequest struct {
	Topic     string `json:"topic"`
	SessionID string `json:"session_id"`
}

type sessionRequest struct {
	SessionID string `json:"session_id"`
}

type castVoteRequest struct {
	ParticipantID uint    `json:"participant_id"`
	Value         float64 `json:"value"`
}

type presenceRequest struct {
	IsOnline bool `json:"is_online"`
}

func (s *Server) handleCreateGame(w http.ResponseWriter, r *http.Request) {
	var req createGameRequest
	if err := readJSON(r.Body, &req); err != nil {
		writeError(w, http.StatusBadRequest, "name, voting_system, and admin_name are required")
		return
	}
	name, err := validateName("name", req.Name)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	adminName, err := validateName("admin_name", req.AdminName)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	sessionID := s.sessions.resolve(w, r, req.SessionID)

	gameID, joinCode, err := s.poker.CreateGame(name, req.VotingSystem, adminName, sessionID)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	s.sessions.RememberName(sessionID, adminName)
	log.Printf("game created game_id=%d join_code=%s voting_system=%s", gameID, joinCode, req.VotingSystem)
	writeJSON(w, http.StatusCreated, map[string]any{
		"game_id":    gameID,
		"join_code":  joinCode,
		"session_id": sessionID,
	})
}

func (s *Server) handleGetGame(w http.ResponseWriter, r *http.Request) {
	gameID, ok := pathID(r, "gameID")
	if !ok {
		http.NotFound(w, r)
		return
	}
	snapshot, err := s.snapshot(gameID)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, snapshot)
}

func (s *Server) handleGetGameByJoinCode(w http.ResponseWriter, r *http.Request) {
	joinCode := strings.TrimSpace(r.PathValue("joinCode"))
	game, err := s.poker.GameByJoinCode(joinCode)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	if game == nil {
		writeError(w, http.StatusNotFound, "game not found")
		return
	}
	writeJSON(w, http.StatusOK, gameJSON(game))
}

func (s *Server) handleJoinGame(w http.ResponseWriter, r *http.Request) {
	gameID, ok := pathID(r, "gameID")
	if !ok {
		http.NotFound(w, r)
		return
	}
	var req joinRequest
	if err := readJSON(r.Body, &req); err != nil {
		writeError(w, http.StatusBadRequest, "display_name is required")
		return
	}
	displayName, err := validateName("display_name", req.DisplayName)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	role := req.Role
	if role == "" {
		role = poker.RoleVoter
	}
	sessionID := s.sessions.resolve(w, r, req.SessionID)

	participantID, err := s.poker.Join(gameID, displayName, role, sessionID)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	s.sessions.RememberName(sessionID, displayName)
	log.Printf("participant joined game_id=%d participant_id=%d role=%s", gameID, participantID, role)
	writeJSON(w, http.StatusOK, map[string]any{
		"participant_id": participantID,
		"session_id":     sessionID,
	})
	s.broadcastGame(gameID)
}

func (s *Server) handleListParticipants(w http.ResponseWriter, r *http.Request) {
	gameID, ok := pathID(r, "gameID")
	if !ok {
		http.NotFound(w, r)
		return
	}
	game, err := s.poker.Game(gameID)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	if game == nil {
		writeError(w, http.StatusNotFound, "game not found")
		return
	}
	participants, err := s.poker.Participants(gameID)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, participantsJSON(participants))
}

// handleGetMe resolves the caller's participant row. A confirmed
// non-participant gets an explicit null rather than an error, so the
// join-redirect flow can tell "definitely not joined" from a failed
// request.
func (s *Server) handleGetMe(w http.ResponseWriter, r *http.Request) {
	gameID, ok := pathID(r, "gameID")
	if !ok {
		http.NotFound(w, r)
		return
	}
	sessionID := s.sessions.resolve(w, r, r.URL.Query().Get("session_id"))
	me, err := s.poker.Me(gameID, sessionID)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	payload := map[string]any{
		"participant":       nil,
		"last_display_name": s.sessions.LastName(sessionID),
	}
	if me != nil {
		payload["participant"] = map[string]any{
			"id":           me.ID,
			"display_name": me.DisplayName,
			"role":         me.Role,
			"is_online":    me.IsOnline,
		}
	}
	writeJSON(w, http.StatusOK, payload)
}

func (s *Server) handleStartRound(w http.ResponseWriter, r *http.Request) {
	gameID, ok := pathID(r, "gameID")
	if !ok {
		http.NotFound(w, r)
		return
	}
	var req startRoundRequest
	if err := readJSON(r.Body, &req); err != nil {
		writeError(w, http.StatusBadRequest, "topic is required")
		return
	}
	topic, err := validateTopic(req.Topic)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	sessionID := s.sessions.resolve(w, r, req.SessionID)

	roundID, err := s.poker.StartRound(gameID, topic, sessionID)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	log.Printf("round started game_id=%d round_id=%d", gameID, roundID)
	writeJSON(w, http.StatusCreated, map[string]any{
		"round_id": roundID,
	})
	s.broadcastGame(gameID)
}

func (s *Server) handleRoundHistory(w http.ResponseWriter, r *http.Request) {
	gameID, ok := pathID(r, "gameID")
	if !ok {
		http.NotFound(w, r)
		return
	}
	game, err := s.poker.Game(gameID)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	if game == nil {
		writeError(w, http.StatusNotFound, "game not found")
		return
	}
	history, err := s.poker.RoundHistory(gameID)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, historyJSON(history))
}

func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	gameID, ok := pathID(r, "gameID")
	if !ok {
		http.NotFound(w, r)
		return
	}
	game, err := s.poker.Game(gameID)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	if game == nil {
		writeError(w, http.StatusNotFound, "game not found")
		return
	}
	records, err := s.poker.Events(gameID)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	events := make([]map[string]any, 0, len(records))
	for _, record := range records {
		events = append(events, map[string]any{
			"id":             record.ID,
			"type":           record.Type,
			"round_id":       record.RoundID,
			"participant_id": record.ParticipantID,
			"payload":        record.Payload,
			"created_at":     record.CreatedAt,
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"game_id": gameID,
		"events":  events,
	})
}

func (s *Server) handleRevealRound(w http.ResponseWriter, r *http.Request) {
	roundID, ok := pathID(r, "roundID")
	if !ok {
		http.NotFound(w, r)
		return
	}
	var req sessionRequest
	if err := readJSON(r.Body, &req); err != nil && err != io.EOF {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	sessionID := s.sessions.resolve(w, r, req.SessionID)

	if err := s.poker.RevealRound(roundID, sessionID); err != nil {
		s.writeServiceError(w, err)
		return
	}
	log.Printf("round revealed round_id=%d", roundID)
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	s.broadcastRound(roundID)
}

func (s *Server) handleRevoteRound(w http.ResponseWriter, r *http.Request) {
	roundID, ok := pathID(r, "roundID")
	if !ok {
		http.NotFound(w, r)
		return
	}
	var req sessionRequest
	if err := readJSON(r.Body, &req); err != nil && err != io.EOF {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	sessionID := s.sessions.resolve(w, r, req.SessionID)

	if err := s.poker.Revote(roundID, sessionID); err != nil {
		s.writeServiceError(w, err)
		return
	}
	log.Printf("round revote round_id=%d", roundID)
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	s.broadcastRound(roundID)
}

func (s *Server) handleCastVote(w http.ResponseWriter, r *http.Request) {
	roundID, ok := pathID(r, "roundID")
	if !ok {
		http.NotFound(w, r)
		return
	}
	var req castVoteRequest
	if err := readJSON(r.Body, &req); err != nil || req.ParticipantID == 0 {
		writeError(w, http.StatusBadRequest, "participant_id and value are required")
		return
	}

	voteID, err := s.poker.CastVote(roundID, req.ParticipantID, req.Value)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	log.Printf("vote cast round_id=%d participant_id=%d", roundID, req.ParticipantID)
	writeJSON(w, http.StatusOK, map[string]any{
		"vote_id": voteID,
	})
	s.broadcastRound(roundID)
}

func (s *Server) handleRemoveVote(w http.ResponseWriter, r *http.Request) {
	roundID, ok := pathID(r, "roundID")
	if !ok {
		http.NotFound(w, r)
		return
	}
	participantID, err := strconv.ParseUint(r.URL.Query().Get("participant_id"), 10, 32)
	if err != nil || participantID == 0 {
		writeError(w, http.StatusBadRequest, "participant_id is required")
		return
	}

	if err := s.poker.RemoveVote(roundID, uint(participantID)); err != nil {
		s.writeServiceError(w, err)
		return
	}
	log.Printf("vote removed round_id=%d participant_id=%d", roundID, participantID)
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	s.broadcastRound(roundID)
}

func (s *Server) handleVotesForRound(w http.ResponseWriter, r *http.Request) {
	roundID, ok := pathID(r, "roundID")
	if !ok {
		http.NotFound(w, r)
		return
	}
	votes, err := s.poker.VotesForRound(roundID)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, votesJSON(votes))
}

func (s *Server) handleMyVote(w http.ResponseWriter, r *http.Request) {
	roundID, ok := pathID(r, "roundID")
	if !ok {
		http.NotFound(w, r)
		return
	}
	participantID, err := strconv.ParseUint(r.URL.Query().Get("participant_id"), 10, 32)
	if err != nil || participantID == 0 {
		writeError(w, http.StatusBadRequest, "participant_id is required")
		return
	}
	vote, err := s.poker.MyVote(roundID, uint(participantID))
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	payload := map[string]any{"vote": nil}
	if vote != nil {
		payload["vote"] = map[string]any{
			"id":             vote.ID,
			"participant_id": vote.ParticipantID,
			"value":          vote.Value,
		}
	}
	writeJSON(w, http.StatusOK, payload)
}

func (s *Server) handleRoundStats(w http.ResponseWriter, r *http.Request) {
	roundID, ok := pathID(r, "roundID")
	if !ok {
		http.NotFound(w, r)
		return
	}
	stats, err := s.poker.RoundStats(roundID)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"stats": stats})
}

func (s *Server) handleUpdatePresence(w http.ResponseWriter, r *http.Request) {
	participantID, ok := pathID(r, "participantID")
	if !ok {
		http.NotFound(w, r)
		return
	}
	var req presenceRequest
	if err := readJSON(r.Body, &req); err != nil {
		writeError(w, http.StatusBadRequest, "is_online is required")
		return
	}
	participant, err := s.poker.Participant(participantID)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	if participant == nil {
		writeError(w, http.StatusNotFound, "participant not found")
		return
	}
	if err := s.poker.UpdatePresence(participantID, req.IsOnline); err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	s.broadcastGame(participant.GameID)
}

// broadcastRound resolves a round to its game and pushes a snapshot.
func (s *Server) broadcastRound(roundID uint) {
	round, err := s.poker.Round(roundID)
	if err != nil || round == nil {
		return
	}
	s.broadcastGame(round.GameID)
}
