package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"github.com/LewisGaul/minegauler-sub000/internal/game"
	"github.com/LewisGaul/minegauler-sub000/internal/repository"
	"github.com/LewisGaul/minegauler-sub000/internal/solver"
)

// Live play protocol: one text message per line, commands are
//
//	g          fetch current state
//	o X Y      open cell
//	f X Y      cycle flag
//	c X Y      chord
//	p          mine probabilities for the current board
//	r          forfeit
//
// Every command except p is answered with a session DTO; p is answered
// with a probability grid DTO.
func parseXY(args []string) (x int, y int, err error) {
	if x, err = strconv.Atoi(args[0]); err != nil {
		return 0, 0, fmt.Errorf("first argument must be an int")
	}
	if y, err = strconv.Atoi(args[1]); err != nil {
		return 0, 0, fmt.Errorf("second argument must be an int")
	}
	return x, y, nil
}

var commandNargs = map[string]int{
	"g": 0,
	"o": 2,
	"f": 2,
	"c": 2,
	"p": 0,
	"r": 0,
}

func (h Game) runCommand(state *game.GameState, command string) (probs bool, err error) {
	parts := strings.Split(command, " ")

	nargs, ok := commandNargs[parts[0]]
	if !ok {
		return false, fmt.Errorf("unknown command")
	}
	if nargs != len(parts)-1 {
		return false, fmt.Errorf("invalid number of arguments")
	}

	switch parts[0] {
	case "g":
		return false, nil
	case "p":
		return true, nil
	case "r":
		state.RevealAll()
		return false, nil
	}

	x, y, err := parseXY(parts[1:])
	if err != nil {
		return false, err
	}
	if !state.ValidatePosition(x, y) {
		return false, fmt.Errorf("invalid square coordinates")
	}

	switch parts[0] {
	case "o":
		state.OpenCell(x, y)
	case "f":
		state.FlagCell(x, y)
	case "c":
		state.ChordCell(x, y)
	}
	return false, nil
}

func (h Game) ConnectWS(w http.ResponseWriter, r *http.Request) {
	session, state, ok := h.fetchSession(w, r)
	if !ok {
		return
	}

	c, err := h.ws.Upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error("unable to upgrade connection", "error", err)
		return
	}
	defer c.Close()

	for {
		mt, message, err := c.ReadMessage()
		if err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure) {
				h.logger.Warn("abnormal ws break", "error", err)
			}
			return
		}
		if mt != websocket.TextMessage {
			return
		}

		var sendProbs bool
		for _, command := range strings.Split(strings.TrimSpace(string(message)), "\n") {
			probs, err := h.runCommand(state, command)
			if err != nil {
				h.logger.Error("unable to process command", "error", err)
				return
			}
			sendProbs = sendProbs || probs
			if state.Over() {
				state.RevealMines()
				break
			}
		}

		if sendProbs {
			grid, err := solver.Solve(
				r.Context(), state.Board(), state.MineCount, state.PerCell,
			)
			if err != nil {
				if err := c.WriteJSON(wrapError(err)); err != nil {
					h.logger.Error("unable to write json", "error", err)
					return
				}
				continue
			}
			if err := c.WriteJSON(
				NewProbabilityGridDTO(session.GameSessionId, state, grid),
			); err != nil {
				h.logger.Error("unable to write json", "error", err)
				return
			}
			continue
		}

		encoded, err := state.Bytes()
		if err != nil {
			h.logger.Error("unable to serialize game state", "error", err)
			return
		}
		params := repository.UpdateGameSessionParams{
			Dead:  &state.Dead,
			Won:   &state.Won,
			State: &encoded,
		}
		if state.Over() && !session.EndedAt.Valid {
			endedAt := time.Now().UTC()
			params.EndedAt = &endedAt
			session.EndedAt.Time = endedAt
			session.EndedAt.Valid = true
		}
		session, err = h.repo.UpdateGameSession(r.Context(), session.GameSessionId, params)
		if err != nil {
			h.logger.Error("unable to update session in db", "error", err)
			return
		}

		if err := c.WriteJSON(h.sessionDTO(session, state)); err != nil {
			h.logger.Error("unable to write json", "error", err)
			return
		}
	}
}
