package server

import (
	"context"
	"errors"
	"time"
)

var ErrNotFound = errors.New("not found")

// MatchRecord is the archived summary of a finished match.
type MatchRecord struct {
	ID            string  `json:"id"`
	StartedAt     string  `json:"startedAt"`
	EndedAt       string  `json:"endedAt"`
	WinnerName    *string `json:"winnerName"`
	EndReason     string  `json:"endReason"`
	Forced        bool    `json:"forced"`
	PlayerCount   int     `json:"playerCount"`
	QuestionCount int     `json:"questionCount"`
}

// Store is the persistence surface for admin accounts and match history.
// Live match state never touches the database; sessions are in-memory and
// only their outcome is archived.
type Store interface {
	AdminByEmail(ctx context.Context, email string) (adminID int64, passwordHash string, err error)
	CreateAdmin(ctx context.Context, email, passwordHash string) error
	CountAdmins(ctx context.Context) (int, error)

	CreateAdminSession(ctx context.Context, adminID int64, token string, expiresAt time.Time) error
	AdminFromSession(ctx context.Context, token string) (adminSession, error)
	DeleteAdminSession(ctx context.Context, token string) error

	ArchiveMatch(ctx context.Context, rec MatchRecord) error
	ListMatches(ctx context.Context) ([]MatchRecord, error)
}
