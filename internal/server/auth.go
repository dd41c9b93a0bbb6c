package server

import (
	"net/http"
	"strings"

	"github.com/quizbrawl/arena/internal/arena"
)

// bearerToken extracts the Authorization bearer token, empty if absent.
func bearerToken(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	token, found := strings.CutPrefix(auth, "Bearer ")
	if !found {
		return ""
	}
	return token
}

func playerFromRequest(r *http.Request) (arena.PlayerID, error) {
	token := bearerToken(r)
	if token == "" {
		return 0, errNoSession
	}
	return matchFrom(r).PlayerFromToken(token)
}
