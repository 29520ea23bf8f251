package mines

import (
	"fmt"
	"strings"
)

// safeZoneSize is the number of cells reserved around the first sweep;
// generation needs at least this many mine-free cells to terminate.
const safeZoneSize = 9

type InvalidConfigurationError struct {
	reason string
}

// [InvalidConfigurationError] implements [error]
func (e InvalidConfigurationError) Error() string {
	return "invalid configuration: " + e.reason
}

// Board is pure storage: a column-major grid of tiles plus derived
// counters. All behavior lives on [Game].
type Board struct {
	Tiles      [][]Tile // Tiles[x][y], width columns of height tiles
	Width      int
	Height     int
	MineCount  int
	Flags      int
	ValidFlags int // flagged tiles that are actually mines
}

// NewBoard allocates a blank unswept board. The mine count is bounded
// by Width*Height-9, not Width*Height, because generation
// unconditionally reserves up to 9 cells around the first sweep.
func NewBoard(width, height, mineCount int) (*Board, error) {
	if width <= 0 || height <= 0 {
		return nil, InvalidConfigurationError{
			fmt.Sprintf("board dimensions must be positive, got %dx%d", width, height),
		}
	}
	if mineCount < 0 {
		return nil, InvalidConfigurationError{
			fmt.Sprintf("mine count must not be negative, got %d", mineCount),
		}
	}
	if mineCount > width*height-safeZoneSize {
		return nil, InvalidConfigurationError{
			fmt.Sprintf("%d mines do not fit a %dx%d board with a safe zone",
				mineCount, width, height),
		}
	}
	tiles := make([][]Tile, width)
	for x := range tiles {
		tiles[x] = make([]Tile, height)
	}
	return &Board{
		Tiles:     tiles,
		Width:     width,
		Height:    height,
		MineCount: mineCount,
	}, nil
}

// At returns a snapshot of the tile at x:y. Out-of-range coordinates
// are a programming error; use [Board.ValidatePosition] first.
func (b *Board) At(x, y int) Tile {
	return b.Tiles[x][y]
}

func (b *Board) ValidatePosition(x, y int) bool {
	return 0 <= x && x < b.Width && 0 <= y && y < b.Height
}

// Clone deep-copies the board so consumers can hold it past further
// engine mutations.
func (b *Board) Clone() *Board {
	clone := *b
	clone.Tiles = make([][]Tile, b.Width)
	for x := range b.Tiles {
		clone.Tiles[x] = make([]Tile, b.Height)
		copy(clone.Tiles[x], b.Tiles[x])
	}
	return &clone
}

// PlayerView renders the player-visible grid as one string per row,
// one rune per tile.
func (b *Board) PlayerView() []string {
	rows := make([]string, b.Height)
	for y := range b.Height {
		var row strings.Builder
		for x := range b.Width {
			row.WriteString(b.Tiles[x][y].View())
		}
		rows[y] = row.String()
	}
	return rows
}
