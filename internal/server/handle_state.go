package server

import (
	"net/http"

	"github.com/quizbrawl/arena/internal/arena"
)

type StateResponse struct {
	MatchID         string                     `json:"matchId"`
	State           arena.State                `json:"state"`
	Players         []arena.PlayerStatePayload `json:"players"`
	CurrentTurn     arena.PlayerID             `json:"currentTurn"`
	QuestionNumber  int                        `json:"questionNumber"`
	CurrentQuestion *arena.QuestionPayload     `json:"currentQuestion,omitempty"`
	ChainActive     bool                       `json:"chainActive"`
}

// handleState returns a point-in-time snapshot. Reconnecting clients use
// this to rebuild their view before resuming the event stream.
func handleState() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, err := playerFromRequest(r); err != nil {
			writeError(w, http.StatusUnauthorized, "invalid or missing session token")
			return
		}

		m := matchFrom(r)
		snap, err := m.Snapshot()
		if err != nil {
			writeError(w, http.StatusServiceUnavailable, "match is not responding")
			return
		}

		writeJSON(w, http.StatusOK, StateResponse{
			MatchID:         m.ID,
			State:           snap.State,
			Players:         snap.Players,
			CurrentTurn:     snap.CurrentTurn,
			QuestionNumber:  snap.QuestionNumber,
			CurrentQuestion: snap.CurrentQuestion,
			ChainActive:     snap.ChainActive,
		})
	}
}
