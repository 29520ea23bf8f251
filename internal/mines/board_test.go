package mines_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fieldmine/minesweeper/internal/mines"
)

func TestBoardClone(t *testing.T) {
	t.Parallel()

	board, err := mines.NewBoard(4, 3, 2)
	require.NoError(t, err)
	board.Tiles[1][2].State = mines.Mine
	board.Tiles[0][0].Modifier = mines.Flagged
	board.Flags = 1

	clone := board.Clone()
	assert.Equal(t, board, clone)

	clone.Tiles[1][2].State = mines.Zero
	clone.Flags = 0
	assert.Equal(t, mines.Mine, board.At(1, 2).State)
	assert.Equal(t, 1, board.Flags)
}

func TestValidatePosition(t *testing.T) {
	t.Parallel()

	board, err := mines.NewBoard(4, 3, 0)
	require.NoError(t, err)

	tests := []struct {
		x, y int
		want bool
	}{
		{0, 0, true},
		{3, 2, true},
		{-1, 0, false},
		{0, -1, false},
		{4, 0, false},
		{0, 3, false},
	}
	for _, test := range tests {
		assert.Equal(t, test.want, board.ValidatePosition(test.x, test.y),
			"%d:%d", test.x, test.y)
	}
}

func TestPlayerView(t *testing.T) {
	t.Parallel()

	board, err := mines.NewBoard(3, 4, 1)
	require.NoError(t, err)
	board.Tiles[0][0].State = mines.Mine
	board.Tiles[1][0].State = mines.One
	board.Tiles[1][0].Swept = true
	board.Tiles[2][0].Swept = true // Zero
	board.Tiles[0][1].Modifier = mines.Flagged
	board.Tiles[1][1].Modifier = mines.Unsure

	rows := board.PlayerView()
	require.Len(t, rows, 4)
	assert.Equal(t, "#1 ", rows[0])
	assert.Equal(t, "F?#", rows[1])
	assert.Equal(t, "###", rows[2])
	assert.Equal(t, "###", rows[3])
}
