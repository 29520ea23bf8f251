package mines

import "strconv"

// TileState is the ground truth of a single tile, fixed once generation
// completes: either a mine, or the exact count of mined 8-neighbors
// (Zero through Eight).
type TileState int8

const (
	Zero TileState = iota
	One
	Two
	Three
	Four
	Five
	Six
	Seven
	Eight
	Mine
)

func (s TileState) Mined() bool {
	return s == Mine
}

// Count reports the number of mined neighbors; 0 for a mine.
func (s TileState) Count() int {
	if s == Mine {
		return 0
	}
	return int(s)
}

func (s TileState) String() string {
	switch {
	case s == Mine:
		return "X"
	case s == Zero:
		return " "
	default:
		return strconv.Itoa(int(s))
	}
}

// TileModifier is a player-placed marker on an unswept tile. Unsure is
// stored but carries no engine behavior.
type TileModifier int8

const (
	NoModifier TileModifier = iota
	Flagged
	Unsure
)

func (m TileModifier) String() string {
	switch m {
	case Flagged:
		return "F"
	case Unsure:
		return "?"
	default:
		return ""
	}
}

type Tile struct {
	State    TileState
	Modifier TileModifier
	Swept    bool
	safe     bool // generation-only: inside the first-sweep safe zone
}

// View renders the tile as the player sees it: markers on unswept
// tiles, then the hidden cover, then the true state once swept.
func (t Tile) View() string {
	if !t.Swept {
		if t.Modifier != NoModifier {
			return t.Modifier.String()
		}
		return "#"
	}
	return t.State.String()
}
