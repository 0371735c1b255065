package server

import (
	"net/http"

	"planning-poker/internal/config"
	"planning-poker/internal/poker"

	"gorm.io/gorm"
)

type Server struct {
	poker    *poker.Service
	ws       *wsHub
	cfg      config.Config
	sessions *sessionStore
}

func New(conn *gorm.DB, cfg config.Config) *Server {
	return &Server{
		poker:    poker.New(conn),
		ws:       newWSHub(),
		cfg:      cfg,
		sessions: newSessionStore(conn),
	}
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/games", s.handleCreateGame)
	mux.HandleFunc("GET /api/games/{gameID}", s.handleGetGame)
	mux.HandleFunc("GET /api/join/{joinCode}", s.handleGetGameByJoinCode)
	mux.HandleFunc("POST /api/games/{gameID}/join", s.handleJoinGame)
	mux.HandleFunc("GET /api/games/{gameID}/participants", s.handleListParticipants)
	mux.HandleFunc("GET /api/games/{gameID}/me", s.handleGetMe)
	mux.HandleFunc("POST /api/games/{gameID}/rounds", s.handleStartRound)
	mux.HandleFunc("GET /api/games/{gameID}/rounds", s.handleRoundHistory)
	mux.HandleFunc("GET /api/games/{gameID}/events", s.handleEvents)
	mux.HandleFunc("POST /api/rounds/{roundID}/reveal", s.handleRevealRound)
	mux.HandleFunc("POST /api/rounds/{roundID}/revote", s.handleRevoteRound)
	mux.HandleFunc("POST /api/rounds/{roundID}/votes", s.handleCastVote)
	mux.HandleFunc("DELETE /api/rounds/{roundID}/votes", s.handleRemoveVote)
	mux.HandleFunc("GET /api/rounds/{roundID}/votes", s.handleVotesForRound)
	mux.HandleFunc("GET /api/rounds/{roundID}/votes/me", s.handleMyVote)
	mux.HandleFunc("GET /api/rounds/{roundID}/stats", s.handleRoundStats)
	mux.HandleFunc("POST /api/participants/{participantID}/presence", s.handleUpdatePresence)
	mux.HandleFunc("GET /ws/games/{gameID}", s.handleWebsocket)
	return mux
}
