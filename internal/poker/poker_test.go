package poker

import (
	"path/filepath"
	"testing"

	"planning-poker/internal/db"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	path := filepath.Join(t.TempDir(), "poker.db")
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
	return New(conn)
}

// newTestGame creates a fibonacci game with an admin session and returns
// the game id, join code, and the admin's participant id.
func newTestGame(t *testing.T, svc *Service, adminSession string) (uint, string, uint) {
	t.Helper()
	gameID, joinCode, err := svc.CreateGame("Sprint 12", "fibonacci", "Ada", adminSession)
	if err != nil {
		t.Fatalf("create game: %v", err)
	}
	me, err := svc.Me(gameID, adminSession)
	if err != nil || me == nil {
		t.Fatalf("resolve admin participant: %v", err)
	}
	return gameID, joinCode, me.ID
}
