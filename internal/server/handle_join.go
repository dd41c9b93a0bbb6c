package server

import (
	"errors"
	"net/http"
	"strings"

	"github.com/quizbrawl/arena/internal/arena"
)

type JoinRequest struct {
	PlayerName string `json:"playerName"`
}

type JoinResponse struct {
	Token    string         `json:"token"`
	PlayerID arena.PlayerID `json:"playerId"`
	MatchID  string         `json:"matchId"`
}

func handleJoin() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req JoinRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		req.PlayerName = strings.TrimSpace(req.PlayerName)
		if req.PlayerName == "" {
			writeError(w, http.StatusBadRequest, "playerName is required")
			return
		}

		m := matchFrom(r)
		token, playerID, err := m.Join(req.PlayerName)
		if errors.Is(err, arena.ErrEnded) {
			writeError(w, http.StatusConflict, "match has ended")
			return
		}
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		writeJSON(w, http.StatusOK, JoinResponse{
			Token:    token,
			PlayerID: playerID,
			MatchID:  m.ID,
		})
	}
}

func handleLeave() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r)
		if token == "" {
			writeError(w, http.StatusUnauthorized, "invalid or missing session token")
			return
		}

		if err := matchFrom(r).Leave(token); err != nil {
			writeError(w, http.StatusUnauthorized, "invalid or missing session token")
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
