package server

import (
	"errors"
	"io"
	"net/http"

	"github.com/quizbrawl/arena/internal/arena"
)

// hostOnly rejects requests that do not carry the match host's token.
func hostOnly(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !matchFrom(r).IsHostToken(bearerToken(r)) {
			writeError(w, http.StatusForbidden, "host token required")
			return
		}
		next(w, r)
	}
}

func handleStart() http.HandlerFunc {
	return hostOnly(func(w http.ResponseWriter, r *http.Request) {
		err := matchFrom(r).Start()
		switch {
		case errors.Is(err, arena.ErrNotWaiting):
			writeError(w, http.StatusConflict, "game already started or ended")
		case errors.Is(err, arena.ErrNoPlayers):
			writeError(w, http.StatusConflict, "no players to start with")
		case err != nil:
			writeError(w, http.StatusInternalServerError, "internal error")
		default:
			writeJSON(w, http.StatusOK, map[string]string{"status": "started"})
		}
	})
}

type ForceEndRequest struct {
	Reason string `json:"reason"`
}

func handleForceEnd() http.HandlerFunc {
	return hostOnly(func(w http.ResponseWriter, r *http.Request) {
		// The body is optional; an empty one falls back to the default reason.
		var req ForceEndRequest
		if err := readJSON(r, &req); err != nil && !errors.Is(err, io.EOF) {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if req.Reason == "" {
			req.Reason = "ended by host"
		}

		if err := matchFrom(r).ForceEnd(req.Reason); err != nil {
			writeError(w, http.StatusServiceUnavailable, "match is not responding")
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ending"})
	})
}
