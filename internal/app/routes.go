package app

import (
	"hash/maphash"
	"math/rand/v2"

	"github.com/fieldmine/minesweeper/internal/handlers"
)

func createRand() *rand.Rand {
	return rand.New(rand.NewPCG(
		new(maphash.Hash).Sum64(), new(maphash.Hash).Sum64(),
	))
}

func (a *App) loadRoutes() {
	game := handlers.NewGameHandler(a.logger, a.sessions, a.ws, createRand())

	a.router.HandleFunc("POST /game", game.NewGame)
	a.router.HandleFunc("GET /game/{id}", game.Fetch)
	a.router.HandleFunc("POST /game/{id}/move", game.MakeAMove)
	a.router.HandleFunc("POST /game/{id}/batch", game.Batch)
	a.router.HandleFunc("DELETE /game/{id}", game.Delete)
	a.router.HandleFunc("/game/{id}/connect", game.ConnectWS)

	if a.highscores != nil {
		highscores := handlers.NewHighscoreHandler(a.logger, a.highscores)
		a.router.HandleFunc("GET /highscores", highscores.List)
	}

	if a.players != nil && a.cookies != nil {
		auth := handlers.NewAuth(a.logger, a.players, a.cookies)
		a.router.HandleFunc("GET /auth/status", auth.Status)
		a.router.HandleFunc("POST /auth/register", auth.Register)
		a.router.HandleFunc("POST /auth/login", auth.Login)
		a.router.HandleFunc("POST /auth/logout", auth.Logout)
	}
}
