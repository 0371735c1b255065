package poker

import (
	"strings"
	"testing"
)

func TestCreateGame(t *testing.T) {
	svc := newTestService(t)

	gameID, joinCode, err := svc.CreateGame("Sprint 12", "fibonacci", "Ada", "sess-ada")
	if err != nil {
		t.Fatalf("create game: %v", err)
	}
	if gameID == 0 {
		t.Fatal("expected a game id")
	}
	if len(joinCode) != joinCodeLength {
		t.Fatalf("expected %d-char join code, got %q", joinCodeLength, joinCode)
	}

	game, err := svc.Game(gameID)
	if err != nil || game == nil {
		t.Fatalf("load game: %v", err)
	}
	if game.Status != StatusLobby {
		t.Fatalf("expected lobby status, got %q", game.Status)
	}
	if game.AdminSessionID != "sess-ada" {
		t.Fatalf("expected admin session recorded, got %q", game.AdminSessionID)
	}

	participants, err := svc.Participants(gameID)
	if err != nil {
		t.Fatalf("list participants: %v", err)
	}
	if len(participants) != 1 {
		t.Fatalf("expected admin enrolled as participant, got %d rows", len(participants))
	}
	if participants[0].Role != RoleVoter || !participants[0].IsOnline {
		t.Fatalf("expected online voter, got %+v", participants[0])
	}
}

func TestCreateGameRejectsUnknownVotingSystem(t *testing.T) {
	svc := newTestService(t)

	if _, _, err := svc.CreateGame("Sprint 12", "tshirt", "Ada", "sess-ada"); err != ErrInvalidVotingSystem {
		t.Fatalf("expected ErrInvalidVotingSystem, got %v", err)
	}
}

func TestJoinCodesUniqueAndWellFormed(t *testing.T) {
	svc := newTestService(t)

	seen := make(map[string]struct{})
	for i := 0; i < 20; i++ {
		_, joinCode, err := svc.CreateGame("Game", "power", "Ada", "sess-ada")
		if err != nil {
			t.Fatalf("create game: %v", err)
		}
		if len(joinCode) != joinCodeLength {
			t.Fatalf("expected %d chars, got %q", joinCodeLength, joinCode)
		}
		for _, r := range joinCode {
			if !strings.ContainsRune(joinCodeAlphabet, r) {
				t.Fatalf("join code %q contains %q outside the alphabet", joinCode, r)
			}
		}
		if _, dup := seen[joinCode]; dup {
			t.Fatalf("duplicate join code %q", joinCode)
		}
		seen[joinCode] = struct{}{}
	}
}

func TestGameByJoinCode(t *testing.T) {
	svc := newTestService(t)
	gameID, joinCode, _ := newTestGame(t, svc, "sess-ada")

	game, err := svc.GameByJoinCode(joinCode)
	if err != nil {
		t.Fatalf("lookup by join code: %v", err)
	}
	if game == nil || game.ID != gameID {
		t.Fatalf("expected game %d, got %+v", gameID, game)
	}

	// Exact match only: no case normalization.
	game, err = svc.GameByJoinCode(strings.ToLower(joinCode))
	if err != nil {
		t.Fatalf("lowercase lookup: %v", err)
	}
	if game != nil {
		t.Fatalf("expected no match for lowercased code, got %+v", game)
	}

	game, err = svc.GameByJoinCode("ZZZZZZ")
	if err != nil {
		t.Fatalf("missing lookup: %v", err)
	}
	if game != nil {
		t.Fatalf("expected nil for unknown code, got %+v", game)
	}
}

func TestGameMissingReturnsNil(t *testing.T) {
	svc := newTestService(t)

	game, err := svc.Game(9999)
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if game != nil {
		t.Fatalf("expected nil game, got %+v", game)
	}
}
