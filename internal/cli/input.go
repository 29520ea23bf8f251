package cli

import (
	"errors"
	"strconv"
	"strings"
)

type ActionKind int

const (
	ActionSweep ActionKind = iota
	ActionFlag
	ActionQuestion
	ActionQuit
)

// Action is one parsed player command. X and Y are 0-based engine
// coordinates; they are meaningless for ActionQuit.
type Action struct {
	Kind ActionKind
	X, Y int
}

var ErrInvalidLocation = errors.New("Invalid Location")

// ParseAction parses one input line: "x,y" sweeps, "fx,y" flags,
// "?x,y" marks unsure, "q" quits. Coordinates are 1-based as printed
// on the board headers; a missing coordinate defaults to 1.
func ParseAction(line string, width, height int) (Action, error) {
	line = strings.TrimSpace(line)
	if line == "" {
		return Action{}, ErrInvalidLocation
	}

	kind := ActionSweep
	switch line[0] {
	case 'f':
		kind = ActionFlag
		line = line[1:]
	case '?':
		kind = ActionQuestion
		line = line[1:]
	case 'q':
		return Action{Kind: ActionQuit}, nil
	}

	x, y := 0, 0
	for i, part := range strings.SplitN(line, ",", 2) {
		coordinate, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			coordinate = 1
		}
		if coordinate < 1 {
			return Action{}, ErrInvalidLocation
		}
		if i == 0 {
			x = coordinate - 1
		} else {
			y = coordinate - 1
		}
	}
	if x >= width || y >= height {
		return Action{}, ErrInvalidLocation
	}
	return Action{Kind: kind, X: x, Y: y}, nil
}
