package server

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

func (s *SQLiteStore) AdminByEmail(ctx context.Context, email string) (int64, string, error) {
	var adminID int64
	var passwordHash string
	err := s.db.QueryRowContext(ctx, `
		SELECT id, password_hash FROM admins WHERE email = ?
	`, email).Scan(&adminID, &passwordHash)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, "", ErrNotFound
	}
	return adminID, passwordHash, err
}

func (s *SQLiteStore) CreateAdmin(ctx context.Context, email, passwordHash string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO admins (email, password_hash) VALUES (?, ?)
	`, email, passwordHash)
	return err
}

func (s *SQLiteStore) CountAdmins(ctx context.Context) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM admins`).Scan(&count)
	return count, err
}

func (s *SQLiteStore) CreateAdminSession(ctx context.Context, adminID int64, token string, expiresAt time.Time) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO admin_sessions (token, admin_id, expires_at) VALUES (?, ?, ?)
	`, token, adminID, expiresAt.UTC().Format(time.RFC3339))
	return err
}

func (s *SQLiteStore) AdminFromSession(ctx context.Context, token string) (adminSession, error) {
	var sess adminSession
	var expiresAt string
	err := s.db.QueryRowContext(ctx, `
		SELECT a.id, a.email, s.expires_at
		FROM admin_sessions s
		JOIN admins a ON a.id = s.admin_id
		WHERE s.token = ?
	`, token).Scan(&sess.AdminID, &sess.Email, &expiresAt)
	if errors.Is(err, sql.ErrNoRows) {
		return adminSession{}, errNoAdminSession
	}
	if err != nil {
		return adminSession{}, err
	}

	exp, err := time.Parse(time.RFC3339, expiresAt)
	if err != nil || time.Now().After(exp) {
		s.DeleteAdminSession(ctx, token)
		return adminSession{}, errNoAdminSession
	}
	return sess, nil
}

func (s *SQLiteStore) DeleteAdminSession(ctx context.Context, token string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM admin_sessions WHERE token = ?`, token)
	return err
}

func (s *SQLiteStore) ArchiveMatch(ctx context.Context, rec MatchRecord) error {
	forced := 0
	if rec.Forced {
		forced = 1
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO matches (id, started_at, ended_at, winner_name, end_reason, forced, player_count, question_count)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, rec.ID, rec.StartedAt, rec.EndedAt, rec.WinnerName, rec.EndReason, forced, rec.PlayerCount, rec.QuestionCount)
	return err
}

func (s *SQLiteStore) ListMatches(ctx context.Context) ([]MatchRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, started_at, ended_at, winner_name, end_reason, forced, player_count, question_count
		FROM matches
		ORDER BY ended_at DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := []MatchRecord{}
	for rows.Next() {
		var rec MatchRecord
		var winner sql.NullString
		var forced int
		if err := rows.Scan(&rec.ID, &rec.StartedAt, &rec.EndedAt, &winner, &rec.EndReason, &forced, &rec.PlayerCount, &rec.QuestionCount); err != nil {
			return nil, err
		}
		if winner.Valid {
			rec.WinnerName = &winner.String
		}
		rec.Forced = forced != 0
		records = append(records, rec)
	}
	return records, rows.Err()
}
