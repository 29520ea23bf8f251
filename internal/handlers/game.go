package handlers

import (
	"errors"
	"io"
	"log/slog"
	"math/rand/v2"
	"net/http"
	"strings"

	"github.com/fieldmine/minesweeper/internal/config"
	"github.com/fieldmine/minesweeper/internal/middleware"
	"github.com/fieldmine/minesweeper/internal/mines"
	"github.com/fieldmine/minesweeper/internal/storage"
)

type GameHandler struct {
	logger   *slog.Logger
	sessions storage.Sessions
	ws       *config.WebSocket
	rnd      *rand.Rand
}

func NewGameHandler(
	logger *slog.Logger,
	sessions storage.Sessions,
	ws *config.WebSocket,
	rnd *rand.Rand,
) *GameHandler {
	return &GameHandler{
		logger:   logger,
		sessions: sessions,
		ws:       ws,
		rnd:      rnd,
	}
}

func (g GameHandler) NewGame(w http.ResponseWriter, r *http.Request) {
	dto, err := ParseNewGameDTO(r.URL.Query())
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		sendJSONOrLog(w, g.logger, wrapError(err))
		return
	}

	params := mines.GameParams{
		Width:     dto.Width,
		Height:    dto.Height,
		MineCount: dto.MineCount,
	}
	game, err := mines.NewGame(params, g.rnd)
	var ice mines.InvalidConfigurationError
	if errors.As(err, &ice) {
		w.WriteHeader(http.StatusBadRequest)
		sendJSONOrLog(w, g.logger, wrapError(err))
		return
	}
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		g.logger.Error("unable to create a new game", "error", err)
		return
	}

	var playerId *int64
	if claims, loggedIn := middleware.PlayerClaims(r); loggedIn {
		g.logger.Debug("creating player session", "player_id", claims.PlayerId)
		playerId = &claims.PlayerId
	} else {
		g.logger.Debug("creating anonymous session")
	}

	session, err := storage.NewSession(game, playerId)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		g.logger.Error("unable to encode game state", "error", err)
		return
	}
	if err := g.sessions.Create(r.Context(), session); err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		g.logger.Error("unable to create game session", "error", err)
		return
	}

	sendJSONOrLog(w, g.logger, NewSessionDTO(session, game, nil))
}

// loadSession fetches the session named in the request path and
// decodes its game, writing the error response itself on failure.
func (g GameHandler) loadSession(
	w http.ResponseWriter, r *http.Request,
) (*storage.Session, *mines.Game, bool) {
	session, err := g.sessions.Fetch(r.Context(), r.PathValue("id"))
	if errors.Is(err, storage.ErrNotFound) {
		w.WriteHeader(http.StatusNotFound)
		return nil, nil, false
	}
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		g.logger.Error("unable to fetch session", "error", err)
		return nil, nil, false
	}

	game, err := session.Game()
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		g.logger.Error("stored session state is invalid", "error", err)
		return nil, nil, false
	}
	return session, game, true
}

func (g GameHandler) Fetch(w http.ResponseWriter, r *http.Request) {
	session, game, ok := g.loadSession(w, r)
	if !ok {
		return
	}
	sendJSONOrLog(w, g.logger, NewSessionDTO(session, game, nil))
}

func (g GameHandler) MakeAMove(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	move, err := ParseGameMove(query.Get("move"))
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		sendJSONOrLog(w, g.logger, wrapError(err))
		return
	}

	pos, err := ParsePosition(query)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		sendJSONOrLog(w, g.logger, wrapError(err))
		return
	}

	session, game, ok := g.loadSession(w, r)
	if !ok {
		return
	}

	if !game.Board().ValidatePosition(pos.X, pos.Y) {
		w.WriteHeader(http.StatusBadRequest)
		sendJSONOrLog(w, g.logger, wrapError(errors.New("invalid tile position")))
		return
	}

	switch move {
	case MoveSweep:
		game.Sweep(pos.X, pos.Y)
	case MoveFlag:
		game.Flag(pos.X, pos.Y)
	case MoveQuestion:
		game.Question(pos.X, pos.Y)
	}

	events := game.Events().Drain()

	if err := session.Sync(game); err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		g.logger.Error("unable to serialize game state", "error", err)
		return
	}
	if err := g.sessions.Update(r.Context(), session); err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		g.logger.Error("unable to update session", "error", err)
		return
	}

	sendJSONOrLog(w, g.logger, NewSessionDTO(session, game, events))
}

// Batch executes a newline-separated command script from the request
// body against the session in one round trip.
func (g GameHandler) Batch(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	session, game, ok := g.loadSession(w, r)
	if !ok {
		return
	}

	for _, c := range byPiece(strings.TrimSpace(string(body)), "\n") {
		if err := executeCommand(game, c); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			sendJSONOrLog(w, g.logger, wrapError(err))
			return
		}
		if game.Status().Terminal() {
			break
		}
	}

	events := game.Events().Drain()

	if err := session.Sync(game); err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		g.logger.Error("unable to serialize game state", "error", err)
		return
	}
	if err := g.sessions.Update(r.Context(), session); err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		g.logger.Error("unable to update session", "error", err)
		return
	}

	sendJSONOrLog(w, g.logger, NewSessionDTO(session, game, events))
}

func (g GameHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := g.sessions.Delete(r.Context(), r.PathValue("id")); err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		g.logger.Error("unable to delete session", "error", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
