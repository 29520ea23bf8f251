package storage

import (
	"context"
	"errors"
	"time"

	"github.com/fieldmine/minesweeper/internal/mines"
)

var ErrNotFound = errors.New("value not found")

// Session is one stored game: its shape, lifecycle status and the
// serialized engine state. PlayerId is nil for anonymous play.
type Session struct {
	SessionId string
	PlayerId  *int64
	Width     int
	Height    int
	MineCount int
	Status    string
	State     []byte
	StartedAt *time.Time
	EndedAt   *time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewSession wraps a freshly created game. The backend assigns
// SessionId and the timestamps on Create.
func NewSession(game *mines.Game, playerId *int64) (*Session, error) {
	state, err := game.Bytes()
	if err != nil {
		return nil, err
	}
	params := game.Params()
	return &Session{
		PlayerId:  playerId,
		Width:     params.Width,
		Height:    params.Height,
		MineCount: params.MineCount,
		Status:    game.Status().String(),
		State:     state,
	}, nil
}

// Sync folds the game's current state back into the session after a
// move, stamping EndedAt when the game has just finished.
func (s *Session) Sync(game *mines.Game) error {
	state, err := game.Bytes()
	if err != nil {
		return err
	}
	s.State = state
	s.Status = game.Status().String()
	if s.StartedAt == nil && !game.StartedAt().IsZero() {
		startedAt := game.StartedAt().UTC()
		s.StartedAt = &startedAt
	}
	if game.Status().Terminal() && s.EndedAt == nil {
		endedAt := time.Now().UTC()
		s.EndedAt = &endedAt
	}
	return nil
}

func (s *Session) Game() (*mines.Game, error) {
	return mines.ParseGameFromBytes(s.State)
}

// Sessions is the session store. Fetch returns [ErrNotFound] for an
// unknown id.
type Sessions interface {
	Create(ctx context.Context, session *Session) error
	Fetch(ctx context.Context, sessionId string) (*Session, error)
	Update(ctx context.Context, session *Session) error
	Delete(ctx context.Context, sessionId string) error
}

type Player struct {
	PlayerId     int64
	Username     string
	PasswordHash []byte
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

var ErrUsernameTaken = errors.New("username taken")

// Players holds registered accounts. Only the postgres backend
// implements it; development deployments run anonymous-only.
type Players interface {
	CreatePlayer(ctx context.Context, username string, passwordHash []byte) (*Player, error)
	FetchPlayer(ctx context.Context, username string) (*Player, error)
}

type Highscore struct {
	SessionId  string  `json:"session_id"`
	Username   *string `json:"username,omitempty"`
	Width      int     `json:"width"`
	Height     int     `json:"height"`
	MineCount  int     `json:"mine_count"`
	PlaytimeMs float64 `json:"playtime_ms"`
}

type HighscoreFilter struct {
	Username   *string
	GameParams *mines.GameParams
}

type Highscores interface {
	ListHighscores(ctx context.Context, filter HighscoreFilter) ([]Highscore, error)
}
