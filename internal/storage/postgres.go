package storage

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fieldmine/minesweeper/internal/mines"
)

// Postgres backs sessions, players and highscores with a pgx pool.
type Postgres struct {
	db *pgxpool.Pool
}

func NewPostgres(db *pgxpool.Pool) *Postgres {
	return &Postgres{db: db}
}

type sessionRow struct {
	GameSessionId int64
	PlayerId      *int64
	Width         int
	Height        int
	MineCount     int
	Status        string
	State         []byte
	StartedAt     pgtype.Timestamptz
	EndedAt       pgtype.Timestamptz
	CreatedAt     pgtype.Timestamptz
	UpdatedAt     pgtype.Timestamptz
}

func (r sessionRow) session() *Session {
	s := &Session{
		SessionId: strconv.FormatInt(r.GameSessionId, 10),
		PlayerId:  r.PlayerId,
		Width:     r.Width,
		Height:    r.Height,
		MineCount: r.MineCount,
		Status:    r.Status,
		State:     r.State,
		CreatedAt: r.CreatedAt.Time,
		UpdatedAt: r.UpdatedAt.Time,
	}
	if r.StartedAt.Valid {
		t := r.StartedAt.Time
		s.StartedAt = &t
	}
	if r.EndedAt.Valid {
		t := r.EndedAt.Time
		s.EndedAt = &t
	}
	return s
}

func timestamptz(t *time.Time) pgtype.Timestamptz {
	if t == nil {
		return pgtype.Timestamptz{}
	}
	return pgtype.Timestamptz{Time: *t, Valid: true}
}

func (p *Postgres) Create(ctx context.Context, session *Session) error {
	args := pgx.NamedArgs{
		"width":      session.Width,
		"height":     session.Height,
		"mine_count": session.MineCount,
		"status":     session.Status,
		"state":      session.State,
		"started_at": timestamptz(session.StartedAt),
	}
	if session.PlayerId != nil {
		args["player_id"] = *session.PlayerId
	}

	rows, _ := p.db.Query(
		ctx,
		`INSERT INTO game_session (
			player_id, width, height, mine_count, status, state, started_at
		)
		VALUES (
			@player_id, @width, @height, @mine_count, @status, @state, @started_at
		)
		RETURNING *;`,
		args,
	)
	row, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[sessionRow])
	if err != nil {
		return err
	}
	*session = *row.session()
	return nil
}

func (p *Postgres) Fetch(ctx context.Context, sessionId string) (*Session, error) {
	id, err := strconv.ParseInt(sessionId, 10, 64)
	if err != nil {
		return nil, ErrNotFound
	}
	rows, _ := p.db.Query(
		ctx, "SELECT * FROM game_session WHERE game_session_id = $1", id,
	)
	row, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[sessionRow])
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return row.session(), nil
}

func (p *Postgres) Update(ctx context.Context, session *Session) error {
	id, err := strconv.ParseInt(session.SessionId, 10, 64)
	if err != nil {
		return ErrNotFound
	}
	tag, err := p.db.Exec(
		ctx,
		`UPDATE game_session SET
			status = @status,
			state = @state,
			started_at = @started_at,
			ended_at = @ended_at
		WHERE game_session_id = @game_session_id`,
		pgx.NamedArgs{
			"game_session_id": id,
			"status":          session.Status,
			"state":           session.State,
			"started_at":      timestamptz(session.StartedAt),
			"ended_at":        timestamptz(session.EndedAt),
		},
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (p *Postgres) Delete(ctx context.Context, sessionId string) error {
	id, err := strconv.ParseInt(sessionId, 10, 64)
	if err != nil {
		return ErrNotFound
	}
	_, err = p.db.Exec(
		ctx, "DELETE FROM game_session WHERE game_session_id = $1", id,
	)
	return err
}

type playerRow struct {
	PlayerId     int64
	Username     string
	PasswordHash []byte
	CreatedAt    pgtype.Timestamptz
	UpdatedAt    pgtype.Timestamptz
}

func (r playerRow) player() *Player {
	return &Player{
		PlayerId:     r.PlayerId,
		Username:     r.Username,
		PasswordHash: r.PasswordHash,
		CreatedAt:    r.CreatedAt.Time,
		UpdatedAt:    r.UpdatedAt.Time,
	}
}

func (p *Postgres) CreatePlayer(
	ctx context.Context, username string, passwordHash []byte,
) (*Player, error) {
	rows, _ := p.db.Query(
		ctx,
		"INSERT INTO player (username, password_hash) VALUES ($1, $2) RETURNING *",
		username, passwordHash,
	)
	row, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[playerRow])
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) &&
		pgerrcode.IsIntegrityConstraintViolation(pgErr.Code) {
		return nil, ErrUsernameTaken
	}
	if err != nil {
		return nil, err
	}
	return row.player(), nil
}

func (p *Postgres) FetchPlayer(ctx context.Context, username string) (*Player, error) {
	rows, _ := p.db.Query(
		ctx, "SELECT * FROM player WHERE username = $1", username,
	)
	row, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[playerRow])
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return row.player(), nil
}

type highscoreRow struct {
	GameSessionId int64
	Username      *string
	Width         int
	Height        int
	MineCount     int
	PlaytimeMs    float64
}

func (p *Postgres) ListHighscores(
	ctx context.Context, filter HighscoreFilter,
) ([]Highscore, error) {
	query := `
	SELECT
		game_session_id,
		username,
		width,
		height,
		mine_count,
		(
			extract('epoch' from ended_at) -
			extract('epoch' from started_at)
		) * 1000 playtime_ms
	FROM game_session
		LEFT OUTER JOIN player using (player_id)
	WHERE
		status = @won_status
		AND ended_at IS NOT NULL
		AND started_at IS NOT NULL
	`
	args := pgx.NamedArgs{"won_status": mines.StatusVictory.String()}
	if filter.Username != nil {
		query += " AND username = @username"
		args["username"] = *filter.Username
	}
	if filter.GameParams != nil {
		query += " AND width = @width AND height = @height AND mine_count = @mine_count"
		args["width"] = filter.GameParams.Width
		args["height"] = filter.GameParams.Height
		args["mine_count"] = filter.GameParams.MineCount
	}
	query += " ORDER BY playtime_ms;"

	rows, err := p.db.Query(ctx, query, args)
	if err != nil {
		return nil, err
	}
	hsRows, err := pgx.CollectRows(rows, pgx.RowToStructByName[highscoreRow])
	if err != nil {
		return nil, err
	}
	highscores := make([]Highscore, len(hsRows))
	for i, r := range hsRows {
		highscores[i] = Highscore{
			SessionId:  strconv.FormatInt(r.GameSessionId, 10),
			Username:   r.Username,
			Width:      r.Width,
			Height:     r.Height,
			MineCount:  r.MineCount,
			PlaytimeMs: r.PlaytimeMs,
		}
	}
	return highscores, nil
}
