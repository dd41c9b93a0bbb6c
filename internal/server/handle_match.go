package server

import (
	"net/http"
	"strings"

	"github.com/quizbrawl/arena/internal/arena"
)

type CreateMatchRequest struct {
	HostName string `json:"hostName"`
}

type CreateMatchResponse struct {
	MatchID   string         `json:"matchId"`
	HostToken string         `json:"hostToken"`
	PlayerID  arena.PlayerID `json:"playerId"`
}

func handleCreateMatch(matches *Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req CreateMatchRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		req.HostName = strings.TrimSpace(req.HostName)
		if req.HostName == "" {
			writeError(w, http.StatusBadRequest, "hostName is required")
			return
		}

		m, hostToken, err := matches.CreateMatch(req.HostName)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		writeJSON(w, http.StatusCreated, CreateMatchResponse{
			MatchID:   m.ID,
			HostToken: hostToken,
			PlayerID:  m.hostID,
		})
	}
}
