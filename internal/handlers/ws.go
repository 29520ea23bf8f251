package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gorilla/websocket"

	"github.com/fieldmine/minesweeper/internal/storage"
)

// ConnectWS streams the session over a websocket: each text message
// is a command script, each reply the updated session with the
// engine events the script produced.
func (g GameHandler) ConnectWS(w http.ResponseWriter, r *http.Request) {
	sessionId := r.PathValue("id")
	session, err := g.sessions.Fetch(r.Context(), sessionId)
	if errors.Is(err, storage.ErrNotFound) {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		g.logger.Error("unable to fetch session", "error", err)
		return
	}

	c, err := g.ws.Upgrader.Upgrade(w, r, nil)
	if err != nil {
		g.logger.Error("unable to upgrade connection", "error", err)
		return
	}
	defer c.Close()

	for {
		mt, message, err := c.ReadMessage()
		if err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure) {
				g.logger.Warn("unable to read message", "error", err)
			}
			break
		}
		if mt != websocket.TextMessage {
			break
		}

		game, err := session.Game()
		if err != nil {
			g.logger.Error("stored session state is invalid", "error", err)
			return
		}

		text := strings.TrimSpace(string(message))
		for _, command := range byPiece(text, "\n") {
			if err := executeCommand(game, command); err != nil {
				g.logger.Error("unable to execute command", "command", command, "error", err)
				return
			}
			if game.Status().Terminal() {
				break
			}
		}

		events := game.Events().Drain()

		if err := session.Sync(game); err != nil {
			g.logger.Error("unable to serialize game state", "error", err)
			return
		}
		if err := g.sessions.Update(r.Context(), session); err != nil {
			g.logger.Error("unable to update session", "error", err)
			return
		}

		if err := c.WriteJSON(NewSessionDTO(session, game, events)); err != nil {
			g.logger.Error("unable to write message", "error", err)
			break
		}
	}
}
