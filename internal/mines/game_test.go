package mines_test

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fieldmine/minesweeper/internal/mines"
)

func testRand() *rand.Rand {
	return rand.New(rand.NewPCG(1, 2))
}

func mustNewGame(t *testing.T, w, h, mc int) *mines.Game {
	t.Helper()
	game, err := mines.NewGame(mines.GameParams{Width: w, Height: h, MineCount: mc}, testRand())
	require.NoError(t, err)
	return game
}

func TestNewGameValidation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		params  mines.GameParams
		wantErr bool
	}{
		{
			name:   "9x9(10)",
			params: mines.GameParams{Width: 9, Height: 9, MineCount: 10},
		},
		{
			name:   "30x16(99)",
			params: mines.GameParams{Width: 30, Height: 16, MineCount: 99},
		},
		{
			name:   "max mines",
			params: mines.GameParams{Width: 9, Height: 9, MineCount: 72},
		},
		{
			name:   "no mines",
			params: mines.GameParams{Width: 5, Height: 5, MineCount: 0},
		},
		{
			name:    "zero width",
			params:  mines.GameParams{Width: 0, Height: 9, MineCount: 5},
			wantErr: true,
		},
		{
			name:    "zero height",
			params:  mines.GameParams{Width: 9, Height: 0, MineCount: 5},
			wantErr: true,
		},
		{
			name:    "negative mines",
			params:  mines.GameParams{Width: 9, Height: 9, MineCount: -1},
			wantErr: true,
		},
		{
			name:    "no room for safe zone",
			params:  mines.GameParams{Width: 9, Height: 9, MineCount: 73},
			wantErr: true,
		},
		{
			name:    "board smaller than safe zone",
			params:  mines.GameParams{Width: 2, Height: 2, MineCount: 1},
			wantErr: true,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()
			game, err := mines.NewGame(test.params, testRand())
			if test.wantErr {
				var ice mines.InvalidConfigurationError
				require.ErrorAs(t, err, &ice)
				assert.Nil(t, game)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, mines.StatusEmpty, game.Status())
			assert.Equal(t, test.params, game.Params())
		})
	}
}

func TestFirstSweepIsSafe(t *testing.T) {
	t.Parallel()

	params := mines.GameParams{Width: 9, Height: 9, MineCount: 72}
	for _, start := range []struct{ x, y int }{
		{0, 0}, {8, 8}, {0, 8}, {8, 0}, {4, 4}, {0, 4},
	} {
		game, err := mines.NewGame(params, testRand())
		require.NoError(t, err)

		game.Sweep(start.x, start.y)

		require.Equal(t, mines.StatusPlaying, game.Status(),
			"first sweep at %d:%d must not hit a mine", start.x, start.y)
		tile := game.Board().At(start.x, start.y)
		assert.True(t, tile.Swept)
		assert.False(t, tile.State.Mined())
	}
}

func TestGenerationPlacesExactMineCount(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		params mines.GameParams
	}{
		{"9x9(10)", mines.GameParams{Width: 9, Height: 9, MineCount: 10}},
		{"16x16(40)", mines.GameParams{Width: 16, Height: 16, MineCount: 40}},
		{"30x16(99)", mines.GameParams{Width: 30, Height: 16, MineCount: 99}},
		{"9x9(72)", mines.GameParams{Width: 9, Height: 9, MineCount: 72}},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()
			game, err := mines.NewGame(test.params, testRand())
			require.NoError(t, err)
			game.Sweep(test.params.Width/2, test.params.Height/2)

			mineCount := 0
			board := game.Board()
			for x := range board.Width {
				for y := range board.Height {
					if board.At(x, y).State.Mined() {
						mineCount++
					}
				}
			}
			assert.Equal(t, test.params.MineCount, mineCount)
		})
	}
}

func TestNeighborCounts(t *testing.T) {
	t.Parallel()

	game := mustNewGame(t, 16, 16, 60)
	game.Sweep(8, 8)

	board := game.Board()
	for x := range board.Width {
		for y := range board.Height {
			tile := board.At(x, y)
			if tile.State.Mined() {
				continue
			}
			want := 0
			for dx := -1; dx <= 1; dx++ {
				for dy := -1; dy <= 1; dy++ {
					nx, ny := x+dx, y+dy
					if board.ValidatePosition(nx, ny) && board.At(nx, ny).State.Mined() {
						want++
					}
				}
			}
			assert.Equal(t, want, tile.State.Count(), "tile %d:%d", x, y)
		}
	}
}

func TestCascadeClosure(t *testing.T) {
	t.Parallel()

	// A swept Zero tile must have all 8 neighbors swept, and no mine
	// may ever be swept by a cascade.
	game := mustNewGame(t, 30, 16, 20)
	game.Sweep(15, 8)

	board := game.Board()
	for x := range board.Width {
		for y := range board.Height {
			tile := board.At(x, y)
			if tile.Swept {
				assert.False(t, tile.State.Mined(), "swept mine at %d:%d", x, y)
			}
			if !tile.Swept || tile.State != mines.Zero {
				continue
			}
			for dx := -1; dx <= 1; dx++ {
				for dy := -1; dy <= 1; dy++ {
					nx, ny := x+dx, y+dy
					if board.ValidatePosition(nx, ny) {
						assert.True(t, board.At(nx, ny).Swept,
							"unswept neighbor %d:%d of swept zero tile %d:%d", nx, ny, x, y)
					}
				}
			}
		}
	}
}

func TestSweepMineEndsGame(t *testing.T) {
	t.Parallel()

	game := mustNewGame(t, 9, 9, 30)
	game.Sweep(4, 4)
	require.Equal(t, mines.StatusPlaying, game.Status())
	game.Events().Drain()

	board := game.Board()
	mineX, mineY := -1, -1
	for x := range board.Width {
		for y := range board.Height {
			if board.At(x, y).State.Mined() {
				mineX, mineY = x, y
			}
		}
	}
	require.NotEqual(t, -1, mineX)

	game.Sweep(mineX, mineY)
	assert.Equal(t, mines.StatusGameOver, game.Status())

	kinds := eventKinds(game.Events().Drain())
	assert.Equal(t, []mines.EventKind{
		mines.EventRevealTile, mines.EventRevealMine, mines.EventGameEnd,
	}, kinds)

	// terminal: no further action does anything
	game.Sweep(0, 0)
	game.Flag(0, 0)
	game.Question(0, 0)
	assert.Equal(t, mines.StatusGameOver, game.Status())
	assert.Zero(t, game.Events().Len())
}

func TestSweepNoOps(t *testing.T) {
	t.Parallel()

	game := mustNewGame(t, 9, 9, 10)
	game.Sweep(4, 4)
	game.Events().Drain()

	// out of bounds
	game.Sweep(-1, 0)
	game.Sweep(9, 9)
	assert.Zero(t, game.Events().Len())

	// already swept
	game.Sweep(4, 4)
	assert.Zero(t, game.Events().Len())

	// flagged and unsure targets are protected
	unswept := findUnswept(game, false)
	game.Flag(unswept.x, unswept.y)
	game.Events().Drain()
	game.Sweep(unswept.x, unswept.y)
	assert.Zero(t, game.Events().Len())
	assert.False(t, game.Board().At(unswept.x, unswept.y).Swept)

	game.Flag(unswept.x, unswept.y)
	game.Question(unswept.x, unswept.y)
	game.Events().Drain()
	game.Sweep(unswept.x, unswept.y)
	assert.Zero(t, game.Events().Len())
	assert.False(t, game.Board().At(unswept.x, unswept.y).Swept)
}

func TestFlagToggle(t *testing.T) {
	t.Parallel()

	game := mustNewGame(t, 9, 9, 10)

	// flagging before the first sweep is a no-op
	game.Flag(0, 0)
	assert.Equal(t, mines.NoModifier, game.Board().At(0, 0).Modifier)
	assert.Zero(t, game.Events().Len())

	game.Sweep(4, 4)
	game.Events().Drain()

	p := findUnswept(game, false)
	game.Flag(p.x, p.y)
	assert.Equal(t, mines.Flagged, game.Board().At(p.x, p.y).Modifier)
	assert.Equal(t, 1, game.Board().Flags)

	game.Flag(p.x, p.y)
	assert.Equal(t, mines.NoModifier, game.Board().At(p.x, p.y).Modifier)
	assert.Equal(t, 0, game.Board().Flags)
	assert.Equal(t, 0, game.Board().ValidFlags)

	kinds := eventKinds(game.Events().Drain())
	assert.Equal(t, []mines.EventKind{mines.EventFlagTile, mines.EventFlagTile}, kinds)

	// flagging a swept tile does nothing
	game.Flag(4, 4)
	assert.Zero(t, game.Events().Len())
}

func TestValidFlagsTracksMines(t *testing.T) {
	t.Parallel()

	game := mustNewGame(t, 9, 9, 10)
	game.Sweep(4, 4)
	game.Events().Drain()

	mine := findUnswept(game, true)
	game.Flag(mine.x, mine.y)
	assert.Equal(t, 1, game.Board().ValidFlags)

	game.Flag(mine.x, mine.y)
	assert.Equal(t, 0, game.Board().ValidFlags)

	safe := findUnswept(game, false)
	game.Flag(safe.x, safe.y)
	assert.Equal(t, 0, game.Board().ValidFlags)
	assert.Equal(t, 1, game.Board().Flags)
}

func TestFlagAllMinesWins(t *testing.T) {
	t.Parallel()

	game := mustNewGame(t, 9, 9, 10)
	game.Sweep(4, 4)
	game.Events().Drain()

	board := game.Board()
	for x := range board.Width {
		for y := range board.Height {
			if board.At(x, y).State.Mined() {
				game.Flag(x, y)
			}
		}
	}

	assert.Equal(t, mines.StatusVictory, game.Status())

	events := game.Events().Drain()
	kinds := eventKinds(events)
	require.Len(t, kinds, 12) // 10 flags + FlagAllMines + GameEnd
	assert.Equal(t, mines.EventFlagAllMines, kinds[10])
	assert.Equal(t, mines.EventGameEnd, kinds[11])
	require.NotNil(t, events[11].Board)
	assert.Equal(t, 10, events[11].Board.ValidFlags)

	// terminal
	game.Sweep(0, 0)
	assert.Equal(t, mines.StatusVictory, game.Status())
}

func TestQuestionToggle(t *testing.T) {
	t.Parallel()

	game := mustNewGame(t, 9, 9, 10)
	game.Sweep(4, 4)
	game.Events().Drain()

	p := findUnswept(game, false)
	game.Question(p.x, p.y)
	assert.Equal(t, mines.Unsure, game.Board().At(p.x, p.y).Modifier)
	assert.Zero(t, game.Events().Len())
	assert.Equal(t, 0, game.Board().Flags)

	game.Question(p.x, p.y)
	assert.Equal(t, mines.NoModifier, game.Board().At(p.x, p.y).Modifier)

	// flagged tiles keep their flag
	game.Flag(p.x, p.y)
	game.Question(p.x, p.y)
	assert.Equal(t, mines.Flagged, game.Board().At(p.x, p.y).Modifier)
}

func TestFirstSweepEventOrder(t *testing.T) {
	t.Parallel()

	game := mustNewGame(t, 9, 9, 10)
	game.Sweep(4, 4)

	events := game.Events().Drain()
	kinds := eventKinds(events)
	require.GreaterOrEqual(t, len(kinds), 3)
	assert.Equal(t, mines.EventGameStart, kinds[0])
	assert.Equal(t, mines.EventInitDone, kinds[1])
	assert.Equal(t, mines.EventRevealTile, kinds[2])
	assert.Equal(t, mines.EventSweepDone, kinds[len(kinds)-1])

	// each revealed tile is reported exactly once
	seen := map[[2]int]bool{}
	for _, ev := range events {
		if ev.Kind != mines.EventRevealTile {
			continue
		}
		key := [2]int{ev.X, ev.Y}
		assert.False(t, seen[key], "duplicate reveal of %d:%d", ev.X, ev.Y)
		seen[key] = true
	}

	assert.Zero(t, game.Events().Len())
}

func TestEventsFIFO(t *testing.T) {
	t.Parallel()

	game := mustNewGame(t, 9, 9, 10)
	game.Sweep(4, 4)

	first, ok := game.Events().Next()
	require.True(t, ok)
	assert.Equal(t, mines.EventGameStart, first.Kind)
	second, ok := game.Events().Next()
	require.True(t, ok)
	assert.Equal(t, mines.EventInitDone, second.Kind)

	game.Events().Drain()
	_, ok = game.Events().Next()
	assert.False(t, ok)
}

func TestGameStateRoundTrip(t *testing.T) {
	t.Parallel()

	game := mustNewGame(t, 9, 9, 10)
	game.Sweep(4, 4)
	p := findUnswept(game, false)
	game.Flag(p.x, p.y)
	game.Events().Drain()

	buf, err := game.Bytes()
	require.NoError(t, err)

	restored, err := mines.ParseGameFromBytes(buf)
	require.NoError(t, err)

	assert.Equal(t, game.Status(), restored.Status())
	assert.Equal(t, game.Params(), restored.Params())
	assert.Equal(t, game.Board().Tiles, restored.Board().Tiles)
	assert.Equal(t, game.Board().Flags, restored.Board().Flags)
	assert.WithinDuration(t, game.StartedAt(), restored.StartedAt(), 0)
	assert.Zero(t, restored.Events().Len())

	// a restored game keeps playing
	restored.Flag(p.x, p.y)
	assert.Equal(t, 0, restored.Board().Flags)
}

func TestSeedRoundTrip(t *testing.T) {
	t.Parallel()

	params := mines.GameParams{Width: 30, Height: 16, MineCount: 99}
	assert.Equal(t, "30x16m99", params.Seed())

	parsed, err := mines.ParseSeed("30x16m99")
	require.NoError(t, err)
	assert.Equal(t, params, *parsed)

	_, err = mines.ParseSeed("30:16:99")
	assert.Error(t, err)
}

func eventKinds(events []mines.Event) []mines.EventKind {
	kinds := make([]mines.EventKind, len(events))
	for i, ev := range events {
		kinds[i] = ev.Kind
	}
	return kinds
}

func findUnswept(game *mines.Game, mined bool) (p struct{ x, y int }) {
	board := game.Board()
	for x := range board.Width {
		for y := range board.Height {
			tile := board.At(x, y)
			if !tile.Swept && tile.Modifier == mines.NoModifier &&
				tile.State.Mined() == mined {
				return struct{ x, y int }{x, y}
			}
		}
	}
	return struct{ x, y int }{-1, -1}
}
