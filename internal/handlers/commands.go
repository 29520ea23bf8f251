package handlers

import (
	"errors"
	"strconv"
	"strings"

	"github.com/fieldmine/minesweeper/internal/mines"
)

// Maps known commands to number of arguments
var commandNargs = map[string]int{
	"s": 2,
	"f": 2,
	"q": 2,
}

func parseXY(twoStrings []string) (x int, y int, err error) {
	if x, err = strconv.Atoi(twoStrings[0]); err != nil {
		err = errors.New("first argument must be an int")
		return
	}
	if y, err = strconv.Atoi(twoStrings[1]); err != nil {
		err = errors.New("second argument must be an int")
		return
	}
	return
}

// executeCommand applies one textual command to a game: "s x y"
// sweeps, "f x y" flags, "q x y" toggles the unsure marker.
func executeCommand(g *mines.Game, c string) (err error) {
	parts := strings.Split(strings.TrimSpace(c), " ")
	nargs, ok := commandNargs[parts[0]]
	if !ok {
		return errors.New("unknown command")
	}
	if nargs != len(parts)-1 {
		return errors.New("invalid number of arguments")
	}
	x, y, err := parseXY(parts[1:])
	if err != nil {
		return err
	}
	if !g.Board().ValidatePosition(x, y) {
		return errors.New("invalid tile coordinates")
	}
	switch parts[0] {
	case "s":
		g.Sweep(x, y)
	case "f":
		g.Flag(x, y)
	case "q":
		g.Question(x, y)
	}
	return nil
}
