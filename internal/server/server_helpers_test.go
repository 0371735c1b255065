package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strconv"
	"testing"

	"planning-poker/internal/config"
	"planning-poker/internal/db"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	path := filepath.Join(t.TempDir(), "server.db")
	conn, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}
	if err := db.Migrate(conn); err != nil {
		t.Fatalf("migrate test database: %v", err)
	}
	srv := New(conn, config.Default())
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func doRequest(t *testing.T, ts *httptest.Server, method, path string, payload any) *http.Response {
	t.Helper()
	var body *bytes.Buffer
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("marshal request: %v", err)
		}
		body = bytes.NewBuffer(data)
	} else {
		body = bytes.NewBuffer(nil)
	}
	req, err := http.NewRequest(method, ts.URL+path, body)
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := ts.Client().Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	return resp
}

func decodeBody(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	defer resp.Body.Close()
	var body map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return body
}

func decodeList(t *testing.T, resp *http.Response) []map[string]any {
	t.Helper()
	defer resp.Body.Close()
	var body []map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return body
}

// createGame creates a fibonacci game whose admin session is
// "sess-admin" and returns (gameID, joinCode).
func createGame(t *testing.T, ts *httptest.Server) (int, string) {
	t.Helper()
	resp := doRequest(t, ts, http.MethodPost, "/api/games", map[string]string{
		"name":          "Sprint 12",
		"voting_system": "fibonacci",
		"admin_name":    "Ada",
		"session_id":    "sess-admin",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create game: expected status %d, got %d", http.StatusCreated, resp.StatusCode)
	}
	body := decodeBody(t, resp)
	return int(body["game_id"].(float64)), body["join_code"].(string)
}

func joinGame(t *testing.T, ts *httptest.Server, gameID int, name, role, session string) int {
	t.Helper()
	resp := doRequest(t, ts, http.MethodPost, gamePath(gameID, "join"), map[string]string{
		"display_name": name,
		"role":         role,
		"session_id":   session,
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("join game: expected status %d, got %d", http.StatusOK, resp.StatusCode)
	}
	body := decodeBody(t, resp)
	return int(body["participant_id"].(float64))
}

func startRound(t *testing.T, ts *httptest.Server, gameID int, topic string) int {
	t.Helper()
	resp := doRequest(t, ts, http.MethodPost, gamePath(gameID, "rounds"), map[string]string{
		"topic":      topic,
		"session_id": "sess-admin",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("start round: expected status %d, got %d", http.StatusCreated, resp.StatusCode)
	}
	body := decodeBody(t, resp)
	return int(body["round_id"].(float64))
}

func castVote(t *testing.T, ts *httptest.Server, roundID, participantID int, value float64) {
	t.Helper()
	resp := doRequest(t, ts, http.MethodPost, roundPath(roundID, "votes"), map[string]any{
		"participant_id": participantID,
		"value":          value,
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("cast vote: expected status %d, got %d", http.StatusOK, resp.StatusCode)
	}
	resp.Body.Close()
}

func gamePath(gameID int, action string) string {
	path := "/api/games/" + strconv.Itoa(gameID)
	if action != "" {
		path += "/" + action
	}
	return path
}

func roundPath(roundID int, action string) string {
	path := "/api/rounds/" + strconv.Itoa(roundID)
	if action != "" {
		path += "/" + action
	}
	return path
}
