package questions

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
)

// ErrNotFound is returned when a question does not exist.
var ErrNotFound = errors.New("question not found")

// Question is a catalogue row as stored in SQLite. Options are persisted
// as a JSON array in a TEXT column.
type Question struct {
	ID               int64    `json:"id"`
	Category         string   `json:"category"`
	Prompt           string   `json:"prompt"`
	Options          []string `json:"options"`
	CorrectAnswer    string   `json:"correctAnswer"`
	TimeLimitSeconds int      `json:"timeLimitSeconds"`
}

// Catalog serves question content from the database and generates chain
// questions procedurally.
type Catalog struct {
	db     *sql.DB
	logger *slog.Logger
}

func NewCatalog(db *sql.DB, logger *slog.Logger) *Catalog {
	return &Catalog{db: db, logger: logger}
}

func (c *Catalog) List(ctx context.Context, category string) ([]Question, error) {
	query := "SELECT id, category, prompt, options, correct_answer, time_limit_seconds FROM questions"
	args := []any{}
	if category != "" {
		query += " WHERE category = ?"
		args = append(args, category)
	}
	query += " ORDER BY id"

	rows, err := c.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing questions: %w", err)
	}
	defer rows.Close()

	var out []Question
	for rows.Next() {
		q, err := scanQuestion(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, q)
	}
	return out, rows.Err()
}

func (c *Catalog) GetByID(ctx context.Context, id int64) (Question, error) {
	row := c.db.QueryRowContext(ctx,
		"SELECT id, category, prompt, options, correct_answer, time_limit_seconds FROM questions WHERE id = ?", id)
	q, err := scanQuestion(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Question{}, ErrNotFound
	}
	return q, err
}

func (c *Catalog) Create(ctx context.Context, q Question) (int64, error) {
	options, err := json.Marshal(q.Options)
	if err != nil {
		return 0, fmt.Errorf("encoding options: %w", err)
	}
	res, err := c.db.ExecContext(ctx,
		"INSERT INTO questions (category, prompt, options, correct_answer, time_limit_seconds) VALUES (?, ?, ?, ?, ?)",
		q.Category, q.Prompt, string(options), q.CorrectAnswer, q.TimeLimitSeconds)
	if err != nil {
		return 0, fmt.Errorf("inserting question: %w", err)
	}
	return res.LastInsertId()
}

func (c *Catalog) Update(ctx context.Context, q Question) error {
	options, err := json.Marshal(q.Options)
	if err != nil {
		return fmt.Errorf("encoding options: %w", err)
	}
	res, err := c.db.ExecContext(ctx,
		"UPDATE questions SET category = ?, prompt = ?, options = ?, correct_answer = ?, time_limit_seconds = ? WHERE id = ?",
		q.Category, q.Prompt, string(options), q.CorrectAnswer, q.TimeLimitSeconds, q.ID)
	if err != nil {
		return fmt.Errorf("updating question: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (c *Catalog) Delete(ctx context.Context, id int64) error {
	res, err := c.db.ExecContext(ctx, "DELETE FROM questions WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting question: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// Categories returns the distinct categories present in the catalogue.
func (c *Catalog) Categories(ctx context.Context) ([]string, error) {
	rows, err := c.db.QueryContext(ctx, "SELECT DISTINCT category FROM questions ORDER BY category")
	if err != nil {
		return nil, fmt.Errorf("listing categories: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		out = append(out, name)
	}
	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanQuestion(row scanner) (Question, error) {
	var q Question
	var options string
	if err := row.Scan(&q.ID, &q.Category, &q.Prompt, &options, &q.CorrectAnswer, &q.TimeLimitSeconds); err != nil {
		return Question{}, err
	}
	if err := json.Unmarshal([]byte(options), &q.Options); err != nil {
		return Question{}, fmt.Errorf("decoding options for question %d: %w", q.ID, err)
	}
	return q, nil
}
