package handlers

import (
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"net/http"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/LewisGaul/minegauler-sub000/internal/config"
	"github.com/LewisGaul/minegauler-sub000/internal/game"
	"github.com/LewisGaul/minegauler-sub000/internal/middleware"
	"github.com/LewisGaul/minegauler-sub000/internal/repository"
	"github.com/LewisGaul/minegauler-sub000/internal/solver"
)

type Game struct {
	logger  *slog.Logger
	repo    *repository.Queries
	cookies *config.Cookies
	ws      *config.WebSocket
	rnd     *rand.Rand
}

func NewGame(
	logger *slog.Logger,
	db *pgxpool.Pool,
	cookies *config.Cookies,
	ws *config.WebSocket,
	rnd *rand.Rand,
) *Game {
	return &Game{
		logger:  logger,
		repo:    repository.New(db),
		cookies: cookies,
		ws:      ws,
		rnd:     rnd,
	}
}

var ErrGameOver = fmt.Errorf("game is over")

func endedAtOrNil(s *repository.GameSession) *time.Time {
	if s.EndedAt.Valid {
		t := s.EndedAt.Time
		return &t
	}
	return nil
}

func (h Game) sessionDTO(s *repository.GameSession, g *game.GameState) *GameSessionDTO {
	return NewGameSessionDTO(s.GameSessionId, s.StartedAt.Time, endedAtOrNil(s), g)
}

// fetchSession loads a session row and decodes its game state, writing
// the appropriate status on failure. ok is false when a response has
// already been sent.
func (h Game) fetchSession(
	w http.ResponseWriter, r *http.Request,
) (*repository.GameSession, *game.GameState, bool) {
	sessionId, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return nil, nil, false
	}

	session, err := h.repo.FetchGameSession(r.Context(), sessionId)
	if errors.Is(err, pgx.ErrNoRows) {
		w.WriteHeader(http.StatusNotFound)
		return nil, nil, false
	}
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		h.logger.Error("unable to fetch session from db", "error", err)
		return nil, nil, false
	}

	state, err := game.DecodeGameState(session.State)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		h.logger.Error("db returned invalid game_session.state", "error", err)
		return nil, nil, false
	}

	return session, state, true
}

func (h Game) saveAndSend(
	w http.ResponseWriter, r *http.Request,
	session *repository.GameSession, state *game.GameState,
) {
	encoded, err := state.Bytes()
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
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

	updated, err := h.repo.UpdateGameSession(r.Context(), session.GameSessionId, params)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		h.logger.Error("unable to update session in db", "error", err)
		return
	}

	sendJSONOrLog(w, h.logger, h.sessionDTO(updated, state))
}

func (h Game) Create(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	dto, err := ParseCreateNewGameDTO(query)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		sendJSONOrLog(w, h.logger, wrapError(err))
		return
	}

	gameParams := game.GameParams(dto)
	if err := gameParams.Validate(); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		sendJSONOrLog(w, h.logger, wrapError(err))
		return
	}

	pos, err := ParsePosition(query)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		sendJSONOrLog(w, h.logger, wrapError(err))
		return
	}
	if !gameParams.ValidatePosition(pos.X, pos.Y) {
		w.WriteHeader(http.StatusBadRequest)
		sendJSONOrLog(w, h.logger, wrapError(fmt.Errorf("invalid cell position")))
		return
	}

	state, err := game.NewGame(gameParams, pos.X, pos.Y, h.rnd)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		h.logger.Error("unable to generate a new game", "error", err)
		return
	}

	createParams := repository.CreateGameSessionParams{}
	if claims, loggedIn := middleware.PlayerClaims(r.Context()); loggedIn {
		createParams.PlayerId = &claims.PlayerId
	}

	session, err := h.repo.CreateGameSession(r.Context(), state, createParams)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		h.logger.Error("unable to create game session", "error", err)
		return
	}

	sendJSONOrLog(w, h.logger, h.sessionDTO(session, state))
}

func (h Game) Fetch(w http.ResponseWriter, r *http.Request) {
	session, state, ok := h.fetchSession(w, r)
	if !ok {
		return
	}
	sendJSONOrLog(w, h.logger, h.sessionDTO(session, state))
}

func (h Game) MakeAMove(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	move, err := ParseGameMove(query.Get("move"))
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		sendJSONOrLog(w, h.logger, wrapError(err))
		return
	}

	pos, err := ParsePosition(query)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		sendJSONOrLog(w, h.logger, wrapError(err))
		return
	}

	session, state, ok := h.fetchSession(w, r)
	if !ok {
		return
	}

	if !state.ValidatePosition(pos.X, pos.Y) {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	if state.Over() {
		w.WriteHeader(http.StatusConflict)
		sendJSONOrLog(w, h.logger, wrapError(ErrGameOver))
		return
	}

	switch move {
	case Open:
		state.OpenCell(pos.X, pos.Y)
	case Flag:
		state.FlagCell(pos.X, pos.Y)
	case Chord:
		state.ChordCell(pos.X, pos.Y)
	}

	if state.Over() {
		state.RevealMines()
	}

	h.saveAndSend(w, r, session, state)
}

func (h Game) Forfeit(w http.ResponseWriter, r *http.Request) {
	session, state, ok := h.fetchSession(w, r)
	if !ok {
		return
	}

	state.RevealAll()

	h.saveAndSend(w, r, session, state)
}

// Probabilities runs the mine probability engine against the player's
// current view of the board.
func (h Game) Probabilities(w http.ResponseWriter, r *http.Request) {
	session, state, ok := h.fetchSession(w, r)
	if !ok {
		return
	}

	grid, err := solver.Solve(
		r.Context(), state.Board(), state.MineCount, state.PerCell,
	)
	if errors.Is(err, solver.ErrInfeasible) {
		w.WriteHeader(http.StatusConflict)
		sendJSONOrLog(w, h.logger, wrapError(err))
		return
	}
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		h.logger.Error("probability solve failed", "error", err)
		return
	}

	sendJSONOrLog(w, h.logger, NewProbabilityGridDTO(session.GameSessionId, state, grid))
}
