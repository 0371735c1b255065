package server

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"
)

func readJSON(body io.Reader, dest any) error {
	decoder := json.NewDecoder(body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(dest)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{
		"error": message,
	})
}

func pathID(r *http.Request, name string) (uint, bool) {
	value, err := strconv.ParseUint(r.PathValue(name), 10, 32)
	if err != nil || value == 0 {
		return 0, false
	}
	return uint(value), true
}
