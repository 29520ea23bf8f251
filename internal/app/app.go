package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"golang.org/x/sync/errgroup"

	"github.com/fieldmine/minesweeper/internal/config"
	"github.com/fieldmine/minesweeper/internal/database"
	"github.com/fieldmine/minesweeper/internal/middleware"
	"github.com/fieldmine/minesweeper/internal/storage"
)

type App struct {
	logger     *slog.Logger
	router     *http.ServeMux
	migrations fs.FS

	sessions   storage.Sessions
	players    storage.Players
	highscores storage.Highscores

	cookies *config.Cookies
	ws      *config.WebSocket
}

func New(logger *slog.Logger, migrations fs.FS) *App {
	return &App{
		logger:     logger,
		router:     http.NewServeMux(),
		migrations: migrations,
	}
}

// setupStorage picks the backend: a file-backed sqlite store when
// SQLITE_PATH is set (sessions only, anonymous play), otherwise
// postgres with accounts and highscores.
func (a *App) setupStorage(ctx context.Context) error {
	if path := config.SqlitePath(); path != "" {
		db, err := sql.Open("sqlite3", path)
		if err != nil {
			return fmt.Errorf("unable to open sqlite db: %w", err)
		}
		sessions, err := storage.NewSqlite(db, "sessions")
		if err != nil {
			return fmt.Errorf("unable to create sqlite session store: %w", err)
		}
		a.sessions = sessions
		a.logger.Info("using sqlite session store", slog.String("path", path))
		return nil
	}

	db, _, err := database.ConnectAndMigrate(ctx, a.migrations)
	if err != nil {
		return fmt.Errorf("unable to connect to db: %w", err)
	}
	pg := storage.NewPostgres(db)
	a.sessions = pg
	a.players = pg
	a.highscores = pg
	return nil
}

// setupAuth is best-effort: without JWT keys and cookie settings the
// server still runs, anonymous-only.
func (a *App) setupAuth() {
	jwt, err := config.NewJWT()
	if err != nil {
		a.logger.Warn("jwt not configured, auth disabled", slog.Any("error", err))
		return
	}
	cookies, err := config.NewCookies(jwt)
	if err != nil {
		a.logger.Warn("cookies not configured, auth disabled", slog.Any("error", err))
		return
	}
	a.cookies = cookies
}

func (a *App) Start(ctx context.Context) error {
	if err := a.setupStorage(ctx); err != nil {
		return err
	}
	a.setupAuth()

	ws, err := config.NewWebSocket()
	if err != nil {
		return err
	}
	a.ws = ws

	a.loadRoutes()

	mws := []middleware.Middleware{
		middleware.Cors(),
		middleware.Logging(a.logger),
	}
	if a.cookies != nil {
		mws = append(mws, middleware.Auth(a.cookies))
	}

	addr := ":" + config.Port()
	server := &http.Server{
		Addr:         addr,
		WriteTimeout: time.Second * 15,
		ReadTimeout:  time.Second * 15,
		IdleTimeout:  time.Second * 60,
		Handler:      middleware.Wrap(a.router, mws...),
	}

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		a.logger.Info("server listening", slog.String("addr", addr))
		err := server.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("failed to listen and serve: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gCtx.Done()
		sCtx, cancel := context.WithTimeout(context.Background(), time.Second*15)
		defer cancel()
		return server.Shutdown(sCtx)
	})

	return g.Wait()
}
