package handlers

import (
	"net/http"

	"github.com/LewisGaul/minegauler-sub000/internal/game"
	"github.com/LewisGaul/minegauler-sub000/internal/repository"
)

func (h Game) Highscores(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	var filter repository.HighscoreFilter
	if query.Has("username") {
		username := query.Get("username")
		filter.Username = &username
	}
	if query.Has("width") {
		dto, err := ParseCreateNewGameDTO(query)
		if err != nil {
			w.WriteHeader(http.StatusBadRequest)
			sendJSONOrLog(w, h.logger, wrapError(err))
			return
		}
		params := game.GameParams(dto)
		filter.GameParams = &params
	}

	highscores, err := h.repo.GetHighscores(r.Context(), filter)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		h.logger.Error("unable to fetch highscores", "error", err)
		return
	}

	sendJSONOrLog(w, h.logger, highscores)
}
