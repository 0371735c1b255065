package server

import (
	"errors"
	"net/http"

	"planning-poker/internal/poker"
)

// statusForError maps core errors onto HTTP status codes in one place so
// handlers stay uniform.
func statusForError(err error) int {
	switch {
	case errors.Is(err, poker.ErrGameNotFound),
		errors.Is(err, poker.ErrRoundNotFound),
		errors.Is(err, poker.ErrParticipantNotFound):
		return http.StatusNotFound
	case errors.Is(err, poker.ErrNotAdmin):
		return http.StatusForbidden
	case errors.Is(err, poker.ErrRoundRevealed),
		errors.Is(err, poker.ErrRoundNotRevealed):
		return http.StatusConflict
	case errors.Is(err, poker.ErrInvalidVotingSystem),
		errors.Is(err, poker.ErrInvalidVoteValue),
		errors.Is(err, poker.ErrInvalidRole):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) writeServiceError(w http.ResponseWriter, err error) {
	status := statusForError(err)
	if status == http.StatusInternalServerError {
		writeError(w, status, "internal error")
		return
	}
	writeError(w, status, err.Error())
}
