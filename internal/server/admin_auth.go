package server

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
)

type adminSession struct {
	AdminID int64
	Email   string
}

var errNoAdminSession = errors.New("no valid admin session")

const adminCookieName = "admin_session"

// newToken returns n random bytes as lowercase hex.
func newToken(n int) string {
	buf := make([]byte, n)
	rand.Read(buf)
	return hex.EncodeToString(buf)
}
