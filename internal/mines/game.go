package mines

import (
	"bytes"
	"encoding/gob"
	"fmt"
	"hash/maphash"
	"log/slog"
	"math/rand/v2"
	"time"
)

var Log *slog.Logger = slog.Default()

// GameParams is the shape of a game: board dimensions plus mine count.
type GameParams struct {
	Width, Height, MineCount int
}

func (p GameParams) Unpack() (w int, h int, mc int) {
	return p.Width, p.Height, p.MineCount
}

// Seed is the canonical string form of the params, e.g. "30x16m99".
// Used as the grouping key for highscores.
func (p GameParams) Seed() string {
	return fmt.Sprintf("%dx%dm%d", p.Width, p.Height, p.MineCount)
}

func ParseSeed(seed string) (*GameParams, error) {
	p := &GameParams{}
	n, err := fmt.Sscanf(seed, "%dx%dm%d", &p.Width, &p.Height, &p.MineCount)
	if n != 3 || err != nil {
		return nil, fmt.Errorf(`invalid game params seed %q (n = %d, err = %w)`, seed, n, err)
	}
	return p, nil
}

// Status is the lifecycle phase of a game. GameOver and Victory are
// terminal; every action on a terminal game is a no-op.
type Status int

const (
	StatusEmpty Status = iota // board allocated, mines not yet placed
	StatusPlaying
	StatusGameOver
	StatusVictory
)

func (s Status) String() string {
	switch s {
	case StatusEmpty:
		return "empty"
	case StatusPlaying:
		return "playing"
	case StatusGameOver:
		return "game-over"
	case StatusVictory:
		return "victory"
	default:
		return "unknown"
	}
}

func (s Status) Terminal() bool {
	return s == StatusGameOver || s == StatusVictory
}

// allowedTransitions pins down the status machine: Empty starts
// Playing on the first sweep, Playing ends one of two ways.
var allowedTransitions = map[Status][]Status{
	StatusEmpty:   {StatusPlaying},
	StatusPlaying: {StatusGameOver, StatusVictory},
}

func (g *Game) transition(to Status) {
	for _, next := range allowedTransitions[g.status] {
		if next == to {
			g.status = to
			return
		}
	}
	Log.Error("illegal status transition", "from", g.status, "to", to)
}

// Game drives one board through its lifecycle. Mines are not placed
// until the first sweep, so the first swept tile is never a mine.
//
// A Game is single-owner state; it is not safe for concurrent use.
type Game struct {
	board     *Board
	status    Status
	startedAt time.Time
	rnd       *rand.Rand
	events    Events
}

// NewGame allocates a game in the Empty state. r drives mine
// placement; pass nil to use an unseeded generator.
func NewGame(params GameParams, r *rand.Rand) (*Game, error) {
	board, err := NewBoard(params.Width, params.Height, params.MineCount)
	if err != nil {
		return nil, err
	}
	if r == nil {
		r = defaultRand()
	}
	return &Game{board: board, rnd: r}, nil
}

func defaultRand() *rand.Rand {
	return rand.New(rand.NewPCG(
		new(maphash.Hash).Sum64(), new(maphash.Hash).Sum64(),
	))
}

func (g *Game) Status() Status { return g.status }

func (g *Game) Params() GameParams {
	return GameParams{g.board.Width, g.board.Height, g.board.MineCount}
}

// Board exposes the live board for read access. Callers that need a
// stable copy should use [Game.Snapshot].
func (g *Game) Board() *Board { return g.board }

func (g *Game) Snapshot() *Board { return g.board.Clone() }

// StartedAt is zero until the first sweep places the mines.
func (g *Game) StartedAt() time.Time { return g.startedAt }

func (g *Game) Elapsed() time.Duration {
	if g.startedAt.IsZero() {
		return 0
	}
	return time.Since(g.startedAt)
}

// Events exposes the pending event queue. Consumers drain it after
// each action; the engine only ever appends.
func (g *Game) Events() *Events { return &g.events }

// Sweep reveals the tile at x:y. On the first sweep of the game it
// first places the mines, keeping the 3x3 neighborhood of x:y clear.
// Out-of-bounds, marked, already-swept or post-game sweeps do nothing.
func (g *Game) Sweep(x, y int) {
	if g.status.Terminal() || !g.board.ValidatePosition(x, y) {
		return
	}
	if g.status == StatusEmpty {
		g.generate(x, y)
	}
	tile := &g.board.Tiles[x][y]
	if tile.Modifier != NoModifier || tile.Swept {
		return
	}
	tile.Swept = true
	g.events.add(Event{Kind: EventRevealTile, X: x, Y: y, Tile: *tile})

	if tile.State.Mined() {
		g.events.add(Event{Kind: EventRevealMine, X: x, Y: y, Tile: *tile})
		g.transition(StatusGameOver)
		g.events.add(Event{Kind: EventGameEnd, Board: g.board.Clone()})
		return
	}

	g.events.add(Event{Kind: EventSweepBegin, X: x, Y: y})
	g.cascade(x, y)
	g.events.add(Event{Kind: EventSweepDone, X: x, Y: y})
}

type position struct{ x, y int }

// cascade breadth-first expands the revealed region from x:y: every
// revealed Zero tile also reveals its 8 neighbors. Numbered tiles form
// the border and do not expand. Flags in the region (necessarily on
// non-mines) are cleared as their tiles are revealed.
func (g *Game) cascade(x, y int) {
	if g.board.Tiles[x][y].State != Zero {
		return
	}
	queue := []position{{x, y}}
	for len(queue) > 0 {
		p := queue[0]
		queue = queue[1:]
		for dx := -1; dx <= 1; dx++ {
			for dy := -1; dy <= 1; dy++ {
				nx, ny := p.x+dx, p.y+dy
				if !g.board.ValidatePosition(nx, ny) {
					continue
				}
				tile := &g.board.Tiles[nx][ny]
				if tile.Swept {
					continue
				}
				if tile.Modifier == Flagged {
					g.board.Flags--
				}
				tile.Modifier = NoModifier
				tile.Swept = true
				g.events.add(Event{Kind: EventRevealTile, X: nx, Y: ny, Tile: *tile})
				if tile.State == Zero {
					queue = append(queue, position{nx, ny})
				}
			}
		}
	}
}

// generate places the mines, computes neighbor counts and starts the
// clock. The 3x3 neighborhood of the first sweep (clipped to the
// board) is kept mine-free; NewBoard's bound guarantees termination.
func (g *Game) generate(startX, startY int) {
	g.events.add(Event{Kind: EventGameStart})

	b := g.board
	for dx := -1; dx <= 1; dx++ {
		for dy := -1; dy <= 1; dy++ {
			if x, y := startX+dx, startY+dy; b.ValidatePosition(x, y) {
				b.Tiles[x][y].safe = true
			}
		}
	}

	for placed := 0; placed < b.MineCount; {
		x, y := g.rnd.IntN(b.Width), g.rnd.IntN(b.Height)
		tile := &b.Tiles[x][y]
		if tile.safe || tile.State.Mined() {
			continue
		}
		tile.State = Mine
		placed++
	}

	for x := range b.Width {
		for y := range b.Height {
			tile := &b.Tiles[x][y]
			tile.safe = false
			if tile.State.Mined() {
				continue
			}
			count := 0
			for dx := -1; dx <= 1; dx++ {
				for dy := -1; dy <= 1; dy++ {
					if nx, ny := x+dx, y+dy; b.ValidatePosition(nx, ny) && b.Tiles[nx][ny].State.Mined() {
						count++
					}
				}
			}
			tile.State = TileState(count)
		}
	}

	g.startedAt = time.Now()
	g.transition(StatusPlaying)
	g.events.add(Event{Kind: EventInitDone})
	Log.Debug("board generated",
		"seed", g.Params().Seed(), "start_x", startX, "start_y", startY)
}

// Flag toggles a flag on the unswept tile at x:y. Placing the flag
// that marks the last remaining mine wins the game. Flagging does
// nothing before the first sweep or after the game ends.
func (g *Game) Flag(x, y int) {
	if g.status != StatusPlaying || !g.board.ValidatePosition(x, y) {
		return
	}
	tile := &g.board.Tiles[x][y]
	if tile.Swept {
		return
	}
	if tile.Modifier == Flagged {
		tile.Modifier = NoModifier
		g.board.Flags--
		if tile.State.Mined() {
			g.board.ValidFlags--
		}
		g.events.add(Event{Kind: EventFlagTile, X: x, Y: y, Tile: *tile})
		return
	}
	tile.Modifier = Flagged
	g.board.Flags++
	if tile.State.Mined() {
		g.board.ValidFlags++
	}
	g.events.add(Event{Kind: EventFlagTile, X: x, Y: y, Tile: *tile})

	if g.board.ValidFlags == g.board.MineCount {
		g.events.add(Event{Kind: EventFlagAllMines})
		g.transition(StatusVictory)
		g.events.add(Event{Kind: EventGameEnd, Board: g.board.Clone()})
	}
}

// Question toggles the Unsure marker on an unswept unflagged tile. The
// marker is bookkeeping for the player; the engine never reads it and
// emits no event for it.
func (g *Game) Question(x, y int) {
	if g.status != StatusPlaying || !g.board.ValidatePosition(x, y) {
		return
	}
	tile := &g.board.Tiles[x][y]
	if tile.Swept || tile.Modifier == Flagged {
		return
	}
	if tile.Modifier == Unsure {
		tile.Modifier = NoModifier
	} else {
		tile.Modifier = Unsure
	}
}

// gameState is the gob shape of a Game. Pending events and the rand
// source are deliberately not persisted.
type gameState struct {
	Board     *Board
	Status    Status
	StartedAt time.Time
}

func (g *Game) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	state := gameState{Board: g.board, Status: g.status, StartedAt: g.startedAt}
	if err := gob.NewEncoder(&buf).Encode(state); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func ParseGameFromBytes(buf []byte) (*Game, error) {
	var state gameState
	if err := gob.NewDecoder(bytes.NewBuffer(buf)).Decode(&state); err != nil {
		return nil, err
	}
	return &Game{
		board:     state.Board,
		status:    state.Status,
		startedAt: state.StartedAt,
		rnd:       defaultRand(),
	}, nil
}
