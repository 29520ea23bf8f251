package cli

import (
	"fmt"
	"math/rand/v2"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fieldmine/minesweeper/internal/mines"
)

func newTestGame(t *testing.T, w, h, mc int) *mines.Game {
	t.Helper()
	game, err := mines.NewGame(
		mines.GameParams{Width: w, Height: h, MineCount: mc},
		rand.New(rand.NewPCG(1, 2)),
	)
	require.NoError(t, err)
	return game
}

func TestRunQuit(t *testing.T) {
	t.Parallel()

	game := newTestGame(t, 3, 3, 0)
	var out strings.Builder
	err := Run(game, strings.NewReader("2,2\nq\n"), &out)
	require.NoError(t, err)

	assert.Equal(t, mines.StatusPlaying, game.Status())
	assert.True(t, game.Board().At(0, 0).Swept)
	assert.Contains(t, out.String(), "Commands =")
}

func TestRunGameOver(t *testing.T) {
	t.Parallel()

	game := newTestGame(t, 9, 9, 30)
	game.Sweep(4, 4)
	require.Equal(t, mines.StatusPlaying, game.Status())

	board := game.Board()
	input := ""
	for x := range board.Width {
		for y := range board.Height {
			if board.At(x, y).State.Mined() {
				input = fmt.Sprintf("%d,%d\n", x+1, y+1)
			}
		}
	}
	require.NotEmpty(t, input)

	var out strings.Builder
	err := Run(game, strings.NewReader(input), &out)
	require.NoError(t, err)

	assert.Equal(t, mines.StatusGameOver, game.Status())
	assert.Contains(t, out.String(), "Game Over!")
}

func TestRunReportsBadInput(t *testing.T) {
	t.Parallel()

	game := newTestGame(t, 3, 3, 0)
	var out strings.Builder
	err := Run(game, strings.NewReader("9,9\nq\n"), &out)
	require.NoError(t, err)
	assert.Contains(t, out.String(), "Invalid Location")
}
