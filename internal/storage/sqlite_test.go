package storage

import (
	"context"
	"database/sql"
	"math/rand/v2"
	"os"
	"testing"

	_ "github.com/mattn/go-sqlite3"

	"github.com/fieldmine/minesweeper/internal/mines"
)

func setupTestStore(t *testing.T) *Sqlite {
	t.Helper()

	f, err := os.CreateTemp(t.TempDir(), "sqlite-storage-")
	if err != nil {
		t.Fatalf("failed to create temp file: %v", err)
	}
	f.Close()

	db, err := sql.Open("sqlite3", f.Name())
	if err != nil {
		t.Fatalf("failed to connect sqlite db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	s, err := NewSqlite(db, "sessions")
	if err != nil {
		t.Fatalf("failed to create new store: %v", err)
	}
	return s
}

func newTestSession(t *testing.T) (*Session, *mines.Game) {
	t.Helper()

	game, err := mines.NewGame(
		mines.GameParams{Width: 9, Height: 9, MineCount: 10},
		rand.New(rand.NewPCG(1, 2)),
	)
	if err != nil {
		t.Fatal(err)
	}
	session, err := NewSession(game, nil)
	if err != nil {
		t.Fatal(err)
	}
	return session, game
}

func TestSqliteBadName(t *testing.T) {
	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	if _, err := NewSqlite(db, "bad name; drop table"); err != ErrBadName {
		t.Fatalf("expected bad name error, received %v", err)
	}
}

func TestSqliteFetchMissing(t *testing.T) {
	s := setupTestStore(t)

	if _, err := s.Fetch(context.Background(), "no-such-id"); err != ErrNotFound {
		t.Fatalf("expected not found error, received %v", err)
	}
}

func TestSqliteCreateAndFetch(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	session, _ := newTestSession(t)
	if err := s.Create(ctx, session); err != nil {
		t.Fatalf("failed to create session: %v", err)
	}
	if session.SessionId == "" {
		t.Fatal("create did not assign a session id")
	}

	fetched, err := s.Fetch(ctx, session.SessionId)
	if err != nil {
		t.Fatalf("failed to fetch session: %v", err)
	}
	if fetched.Width != 9 || fetched.Height != 9 || fetched.MineCount != 10 {
		t.Fatalf("fetched wrong session: %+v", fetched)
	}
	if fetched.Status != mines.StatusEmpty.String() {
		t.Fatalf("have status %q, want %q", fetched.Status, mines.StatusEmpty)
	}

	game, err := fetched.Game()
	if err != nil {
		t.Fatalf("failed to decode stored game: %v", err)
	}
	if game.Status() != mines.StatusEmpty {
		t.Fatalf("decoded game has status %v", game.Status())
	}
}

func TestSqliteUpdate(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	session, game := newTestSession(t)
	if err := s.Create(ctx, session); err != nil {
		t.Fatal(err)
	}

	game.Sweep(4, 4)
	if err := session.Sync(game); err != nil {
		t.Fatal(err)
	}
	if err := s.Update(ctx, session); err != nil {
		t.Fatalf("failed to update session: %v", err)
	}

	fetched, err := s.Fetch(ctx, session.SessionId)
	if err != nil {
		t.Fatal(err)
	}
	if fetched.Status != mines.StatusPlaying.String() {
		t.Fatalf("have status %q, want %q", fetched.Status, mines.StatusPlaying)
	}
	if fetched.StartedAt == nil {
		t.Fatal("update lost started_at")
	}
}

func TestSqliteUpdateMissing(t *testing.T) {
	s := setupTestStore(t)

	session, _ := newTestSession(t)
	session.SessionId = "no-such-id"
	if err := s.Update(context.Background(), session); err != ErrNotFound {
		t.Fatalf("expected not found error, received %v", err)
	}
}

func TestSqliteDelete(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	if err := s.Delete(ctx, "missing"); err != nil {
		t.Fatalf("deleting a missing session should not fail: %v", err)
	}

	session, _ := newTestSession(t)
	if err := s.Create(ctx, session); err != nil {
		t.Fatal(err)
	}
	if err := s.Delete(ctx, session.SessionId); err != nil {
		t.Fatalf("failed to delete session: %v", err)
	}
	if _, err := s.Fetch(ctx, session.SessionId); err != ErrNotFound {
		t.Fatalf("expected not found error, received %v", err)
	}
}

func TestSqliteCount(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	for i := 0; i < 4; i++ {
		session, _ := newTestSession(t)
		if err := s.Create(ctx, session); err != nil {
			t.Fatal(err)
		}
	}

	count, err := s.Count(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if count != 4 {
		t.Fatalf("have %d, want %d", count, 4)
	}
}

func TestSessionSyncStampsEnd(t *testing.T) {
	session, game := newTestSession(t)

	game.Sweep(4, 4)
	board := game.Board()
	for x := range board.Width {
		for y := range board.Height {
			if board.At(x, y).State.Mined() {
				game.Flag(x, y)
			}
		}
	}
	if game.Status() != mines.StatusVictory {
		t.Fatalf("expected victory, have %v", game.Status())
	}

	if err := session.Sync(game); err != nil {
		t.Fatal(err)
	}
	if session.EndedAt == nil {
		t.Fatal("sync did not stamp ended_at on a finished game")
	}
	if session.Status != mines.StatusVictory.String() {
		t.Fatalf("have status %q", session.Status)
	}
}
