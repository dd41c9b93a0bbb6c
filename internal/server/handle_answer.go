package server

import (
	"net/http"
)

type AnswerRequest struct {
	Answer string `json:"answer"`
}

// handleAnswer forwards the answer to the session loop. The loop is the
// single authority on turn order and timing, so the HTTP layer accepts the
// submission without judging it; the verdict arrives on the event stream.
func handleAnswer() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		playerID, err := playerFromRequest(r)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "invalid or missing session token")
			return
		}

		var req AnswerRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		if err := matchFrom(r).Submit(playerID, req.Answer); err != nil {
			writeError(w, http.StatusServiceUnavailable, "match is not accepting answers")
			return
		}
		writeJSON(w, http.StatusAccepted, map[string]string{"status": "accepted"})
	}
}
