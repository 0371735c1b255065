package poker

import "testing"

func TestJoinIsIdempotentPerSession(t *testing.T) {
	svc := newTestService(t)
	gameID, _, _ := newTestGame(t, svc, "sess-ada")

	firstID, err := svc.Join(gameID, "Bob", RoleVoter, "sess-bob")
	if err != nil {
		t.Fatalf("join: %v", err)
	}
	secondID, err := svc.Join(gameID, "Bobby", RoleSpectator, "sess-bob")
	if err != nil {
		t.Fatalf("re-join: %v", err)
	}
	if firstID != secondID {
		t.Fatalf("expected same participant row, got %d and %d", firstID, secondID)
	}

	participants, err := svc.Participants(gameID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(participants) != 2 {
		t.Fatalf("expected admin plus one participant, got %d", len(participants))
	}
	bob := participants[1]
	if bob.DisplayName != "Bobby" || bob.Role != RoleSpectator {
		t.Fatalf("expected re-join to update name and role, got %+v", bob)
	}
	if !bob.IsOnline {
		t.Fatal("expected re-join to mark participant online")
	}
}

func TestJoinUnknownGame(t *testing.T) {
	svc := newTestService(t)

	if _, err := svc.Join(9999, "Bob", RoleVoter, "sess-bob"); err != ErrGameNotFound {
		t.Fatalf("expected ErrGameNotFound, got %v", err)
	}
}

func TestJoinRejectsUnknownRole(t *testing.T) {
	svc := newTestService(t)
	gameID, _, _ := newTestGame(t, svc, "sess-ada")

	if _, err := svc.Join(gameID, "Bob", "observer", "sess-bob"); err != ErrInvalidRole {
		t.Fatalf("expected ErrInvalidRole, got %v", err)
	}
}

func TestParticipantsListedInJoinOrder(t *testing.T) {
	svc := newTestService(t)
	gameID, _, _ := newTestGame(t, svc, "sess-ada")

	for _, name := range []string{"Bob", "Cleo", "Dan"} {
		if _, err := svc.Join(gameID, name, RoleVoter, "sess-"+name); err != nil {
			t.Fatalf("join %s: %v", name, err)
		}
	}
	participants, err := svc.Participants(gameID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	want := []string{"Ada", "Bob", "Cleo", "Dan"}
	if len(participants) != len(want) {
		t.Fatalf("expected %d participants, got %d", len(want), len(participants))
	}
	for i, name := range want {
		if participants[i].DisplayName != name {
			t.Fatalf("expected %s at position %d, got %s", name, i, participants[i].DisplayName)
		}
	}
}

func TestMeDistinguishesAbsence(t *testing.T) {
	svc := newTestService(t)
	gameID, _, _ := newTestGame(t, svc, "sess-ada")

	me, err := svc.Me(gameID, "sess-ada")
	if err != nil {
		t.Fatalf("me: %v", err)
	}
	if me == nil || me.DisplayName != "Ada" {
		t.Fatalf("expected admin participant, got %+v", me)
	}

	me, err = svc.Me(gameID, "sess-stranger")
	if err != nil {
		t.Fatalf("me for stranger: %v", err)
	}
	if me != nil {
		t.Fatalf("expected nil for non-participant, got %+v", me)
	}
}

func TestUpdatePresence(t *testing.T) {
	svc := newTestService(t)
	gameID, _, adminID := newTestGame(t, svc, "sess-ada")

	if err := svc.UpdatePresence(adminID, false); err != nil {
		t.Fatalf("update presence: %v", err)
	}
	me, err := svc.Me(gameID, "sess-ada")
	if err != nil || me == nil {
		t.Fatalf("me: %v", err)
	}
	if me.IsOnline {
		t.Fatal("expected participant to be offline")
	}

	if err := svc.UpdatePresence(9999, true); err != ErrParticipantNotFound {
		t.Fatalf("expected ErrParticipantNotFound, got %v", err)
	}
}
