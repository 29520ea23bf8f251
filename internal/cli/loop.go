package cli

import (
	"bufio"
	"fmt"
	"io"

	"github.com/fieldmine/minesweeper/internal/mines"
)

const clearScreen = "\x1b[2J\x1b[H"

// Run drives one game to completion over a line-oriented terminal. It
// redraws after every board-changing event and returns when the game
// ends, the player quits, or input is exhausted.
func Run(game *mines.Game, in io.Reader, out io.Writer) error {
	scanner := bufio.NewScanner(in)

	fmt.Fprint(out, clearScreen, Render(game))

	for {
		for {
			ev, ok := game.Events().Next()
			if !ok {
				break
			}
			switch ev.Kind {
			case mines.EventSweepDone, mines.EventFlagTile, mines.EventRevealMine:
				fmt.Fprint(out, clearScreen, Render(game))
			}
		}

		switch game.Status() {
		case mines.StatusGameOver:
			fmt.Fprintln(out, loseStyle.Render("Game Over!"))
			return nil
		case mines.StatusVictory:
			fmt.Fprintln(out, winStyle.Render("You Win!"))
			return nil
		}

		if !scanner.Scan() {
			return scanner.Err()
		}
		board := game.Board()
		action, err := ParseAction(scanner.Text(), board.Width, board.Height)
		if err != nil {
			fmt.Fprintln(out, err)
			continue
		}
		switch action.Kind {
		case ActionSweep:
			game.Sweep(action.X, action.Y)
		case ActionFlag:
			game.Flag(action.X, action.Y)
		case ActionQuestion:
			game.Question(action.X, action.Y)
		case ActionQuit:
			return nil
		}
	}
}
