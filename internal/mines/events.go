package mines

// EventKind discriminates what happened inside the engine. Events are
// facts about state that has already changed, never commands.
type EventKind int

const (
	EventGameStart EventKind = iota
	EventInitDone
	EventSweepBegin
	EventSweepDone
	EventRevealTile
	EventRevealMine
	EventFlagTile
	EventFlagAllMines
	EventGameEnd
)

func (k EventKind) String() string {
	switch k {
	case EventGameStart:
		return "game-start"
	case EventInitDone:
		return "init-done"
	case EventSweepBegin:
		return "sweep-begin"
	case EventSweepDone:
		return "sweep-done"
	case EventRevealTile:
		return "reveal-tile"
	case EventRevealMine:
		return "reveal-mine"
	case EventFlagTile:
		return "flag-tile"
	case EventFlagAllMines:
		return "flag-all-mines"
	case EventGameEnd:
		return "game-end"
	default:
		return "unknown"
	}
}

// Event is a single engine occurrence. X, Y and Tile are set for the
// tile-scoped kinds (RevealTile, RevealMine, FlagTile); Board carries a
// final snapshot and is set only for GameEnd.
type Event struct {
	Kind  EventKind
	X, Y  int
	Tile  Tile
	Board *Board
}

// Events is a FIFO buffer of pending engine events. It is owned by a
// single Game and is not safe for concurrent use.
type Events struct {
	queue []Event
}

func (e *Events) add(ev Event) {
	e.queue = append(e.queue, ev)
}

// Next pops the oldest pending event. The second return is false when
// the queue is empty.
func (e *Events) Next() (Event, bool) {
	if len(e.queue) == 0 {
		return Event{}, false
	}
	ev := e.queue[0]
	e.queue = e.queue[1:]
	return ev, true
}

// Drain returns all pending events in order and empties the queue.
func (e *Events) Drain() []Event {
	evs := e.queue
	e.queue = nil
	return evs
}

func (e *Events) Len() int {
	return len(e.queue)
}
