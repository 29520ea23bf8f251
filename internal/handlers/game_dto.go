package handlers

import (
	"fmt"

	"github.com/gorilla/schema"

	"github.com/fieldmine/minesweeper/internal/mines"
	"github.com/fieldmine/minesweeper/internal/storage"
)

type NewGameDTO struct {
	Width     int `schema:"width,required"`
	Height    int `schema:"height,required"`
	MineCount int `schema:"mine_count,required"`
}

func ParseNewGameDTO(src map[string][]string) (NewGameDTO, error) {
	var dto NewGameDTO
	dec := schema.NewDecoder()
	dec.IgnoreUnknownKeys(true)
	err := dec.Decode(&dto, src)
	return dto, err
}

type PositionDTO struct {
	X int `schema:"x,required"`
	Y int `schema:"y,required"`
}

func ParsePosition(src map[string][]string) (PositionDTO, error) {
	var dto PositionDTO
	dec := schema.NewDecoder()
	dec.IgnoreUnknownKeys(true)
	err := dec.Decode(&dto, src)
	return dto, err
}

type GameMove int

const (
	MoveSweep GameMove = iota
	MoveFlag
	MoveQuestion
)

func ParseGameMove(move string) (GameMove, error) {
	switch move {
	case "sweep":
		return MoveSweep, nil
	case "flag":
		return MoveFlag, nil
	case "question":
		return MoveQuestion, nil
	}
	return 0, fmt.Errorf("move must be one of sweep, flag, question")
}

type EventDTO struct {
	Kind string `json:"kind"`
	X    int    `json:"x,omitempty"`
	Y    int    `json:"y,omitempty"`
	Tile string `json:"tile,omitempty"`
}

func newEventDTOs(events []mines.Event) []EventDTO {
	dtos := make([]EventDTO, len(events))
	for i, ev := range events {
		dto := EventDTO{Kind: ev.Kind.String()}
		switch ev.Kind {
		case mines.EventRevealTile, mines.EventRevealMine, mines.EventFlagTile:
			dto.X = ev.X
			dto.Y = ev.Y
			dto.Tile = ev.Tile.View()
		}
		dtos[i] = dto
	}
	return dtos
}

type SessionDTO struct {
	SessionId string     `json:"session_id"`
	Grid      []string   `json:"grid"`
	Width     int        `json:"width"`
	Height    int        `json:"height"`
	MineCount int        `json:"mine_count"`
	Flags     int        `json:"flags"`
	Status    string     `json:"status"`
	StartedAt *int64     `json:"started_at,omitempty"`
	EndedAt   *int64     `json:"ended_at,omitempty"`
	Events    []EventDTO `json:"events,omitempty"`
}

func NewSessionDTO(
	session *storage.Session, game *mines.Game, events []mines.Event,
) *SessionDTO {
	board := game.Board()
	dto := &SessionDTO{
		SessionId: session.SessionId,
		Grid:      board.PlayerView(),
		Width:     board.Width,
		Height:    board.Height,
		MineCount: board.MineCount,
		Flags:     board.Flags,
		Status:    game.Status().String(),
		Events:    newEventDTOs(events),
	}
	if session.StartedAt != nil {
		ms := session.StartedAt.UnixMilli()
		dto.StartedAt = &ms
	}
	if session.EndedAt != nil {
		ms := session.EndedAt.UnixMilli()
		dto.EndedAt = &ms
	}
	return dto
}
