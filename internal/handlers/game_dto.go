package handlers

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/schema"

	"github.com/LewisGaul/minegauler-sub000/internal/game"
	"github.com/LewisGaul/minegauler-sub000/internal/solver"
)

type CreateNewGameDTO struct {
	Width     int `schema:"width,required"`
	Height    int `schema:"height,required"`
	MineCount int `schema:"mine_count,required"`
	PerCell   int `schema:"per_cell"`
}

func ParseCreateNewGameDTO(src map[string][]string) (CreateNewGameDTO, error) {
	var dto CreateNewGameDTO
	dec := schema.NewDecoder()
	dec.IgnoreUnknownKeys(true)
	err := dec.Decode(&dto, src)
	if err == nil && dto.PerCell == 0 {
		dto.PerCell = 1
	}
	return dto, err
}

type Position struct {
	X int `schema:"x,required"`
	Y int `schema:"y,required"`
}

func ParsePosition(src map[string][]string) (Position, error) {
	dec := schema.NewDecoder()
	dec.IgnoreUnknownKeys(true)
	var pos Position
	err := dec.Decode(&pos, src)
	return pos, err
}

type GameMove uint8

const (
	Open GameMove = iota + 1
	Flag
	Chord
)

var ErrBadMove = fmt.Errorf("move must be one of 'open', 'flag', 'chord'")

func ParseGameMove(s string) (GameMove, error) {
	switch strings.ToLower(s) {
	case "open":
		return Open, nil
	case "flag":
		return Flag, nil
	case "chord":
		return Chord, nil
	}
	return 0, ErrBadMove
}

type GameSessionDTO struct {
	GameSessionId string           `json:"game_session_id"`
	Grid          []game.CellState `json:"grid"`
	Width         int              `json:"width"`
	Height        int              `json:"height"`
	MineCount     int              `json:"mine_count"`
	PerCell       int              `json:"per_cell"`
	Dead          bool             `json:"dead"`
	Won           bool             `json:"won"`
	StartedAt     int64            `json:"started_at"`
	EndedAt       *int64           `json:"ended_at,omitempty"`
}

func NewGameSessionDTO(
	gameSessionId int64,
	startedAt time.Time,
	endedAt *time.Time,
	g *game.GameState,
) *GameSessionDTO {
	var endedAtInt *int64
	if endedAt != nil {
		e := endedAt.UnixMilli()
		endedAtInt = &e
	}
	return &GameSessionDTO{
		GameSessionId: strconv.FormatInt(gameSessionId, 10),
		StartedAt:     startedAt.UnixMilli(),
		EndedAt:       endedAtInt,
		Grid:          g.PlayerGrid,
		Width:         g.Width,
		Height:        g.Height,
		MineCount:     g.MineCount,
		PerCell:       g.PerCell,
		Dead:          g.Dead,
		Won:           g.Won,
	}
}

// ProbabilityGridDTO carries per-cell mine probabilities for every
// unclicked cell, row-major. Revealed cells are omitted.
type ProbabilityGridDTO struct {
	GameSessionId string            `json:"game_session_id"`
	Width         int               `json:"width"`
	Height        int               `json:"height"`
	MineCount     int               `json:"mine_count"`
	PerCell       int               `json:"per_cell"`
	Cells         []ProbabilityCell `json:"cells"`
}

type ProbabilityCell struct {
	X           int     `json:"x"`
	Y           int     `json:"y"`
	Probability float64 `json:"probability"`
}

func NewProbabilityGridDTO(
	gameSessionId int64, g *game.GameState, grid *solver.Grid,
) *ProbabilityGridDTO {
	cells := make([]ProbabilityCell, 0, grid.Len())
	for y := 0; y < g.Height; y++ {
		for x := 0; x < g.Width; x++ {
			if p, ok := grid.At(x, y); ok {
				cells = append(cells, ProbabilityCell{X: x, Y: y, Probability: p})
			}
		}
	}
	return &ProbabilityGridDTO{
		GameSessionId: strconv.FormatInt(gameSessionId, 10),
		Width:         g.Width,
		Height:        g.Height,
		MineCount:     g.MineCount,
		PerCell:       g.PerCell,
		Cells:         cells,
	}
}
