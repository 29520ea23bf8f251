package handlers

import (
	"log/slog"
	"net/http"

	"github.com/fieldmine/minesweeper/internal/mines"
	"github.com/fieldmine/minesweeper/internal/storage"
)

type HighscoreHandler struct {
	logger     *slog.Logger
	highscores storage.Highscores
}

func NewHighscoreHandler(
	logger *slog.Logger, highscores storage.Highscores,
) *HighscoreHandler {
	return &HighscoreHandler{logger: logger, highscores: highscores}
}

// List serves won games ordered by playtime, optionally narrowed by
// ?seed=WxHmN and ?username=.
func (h HighscoreHandler) List(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	var filter storage.HighscoreFilter
	if username := query.Get("username"); username != "" {
		filter.Username = &username
	}
	if seed := query.Get("seed"); seed != "" {
		params, err := mines.ParseSeed(seed)
		if err != nil {
			w.WriteHeader(http.StatusBadRequest)
			sendJSONOrLog(w, h.logger, wrapError(err))
			return
		}
		filter.GameParams = params
	}

	highscores, err := h.highscores.ListHighscores(r.Context(), filter)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		h.logger.Error("unable to list highscores", "error", err)
		return
	}

	sendJSONOrLog(w, h.logger, highscores)
}
