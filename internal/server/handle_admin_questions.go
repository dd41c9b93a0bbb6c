package server

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/quizbrawl/arena/internal/questions"
)

// QuestionRequest is the request body for creating or updating a question.
type QuestionRequest struct {
	Category         string   `json:"category"`
	Prompt           string   `json:"prompt"`
	Options          []string `json:"options"`
	CorrectAnswer    string   `json:"correctAnswer"`
	TimeLimitSeconds int      `json:"timeLimitSeconds"`
}

func (q *QuestionRequest) validate() string {
	q.Category = strings.TrimSpace(q.Category)
	q.Prompt = strings.TrimSpace(q.Prompt)
	q.CorrectAnswer = strings.TrimSpace(q.CorrectAnswer)
	switch {
	case q.Category == "":
		return "category is required"
	case q.Prompt == "":
		return "prompt is required"
	case q.CorrectAnswer == "":
		return "correctAnswer is required"
	case q.TimeLimitSeconds <= 0:
		return "timeLimitSeconds must be positive"
	}
	return ""
}

func handleAdminListQuestions(catalog *questions.Catalog) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := catalog.List(r.Context(), r.URL.Query().Get("category"))
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		if list == nil {
			list = []questions.Question{}
		}
		writeJSON(w, http.StatusOK, list)
	}
}

func handleAdminCreateQuestion(catalog *questions.Catalog) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req QuestionRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if msg := req.validate(); msg != "" {
			writeError(w, http.StatusBadRequest, msg)
			return
		}

		id, err := catalog.Create(r.Context(), questions.Question{
			Category:         req.Category,
			Prompt:           req.Prompt,
			Options:          req.Options,
			CorrectAnswer:    req.CorrectAnswer,
			TimeLimitSeconds: req.TimeLimitSeconds,
		})
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		q, err := catalog.GetByID(r.Context(), id)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		writeJSON(w, http.StatusCreated, q)
	}
}

func handleAdminGetQuestion(catalog *questions.Catalog) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid question id")
			return
		}

		q, err := catalog.GetByID(r.Context(), id)
		if errors.Is(err, questions.ErrNotFound) {
			writeError(w, http.StatusNotFound, "question not found")
			return
		}
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		writeJSON(w, http.StatusOK, q)
	}
}

func handleAdminUpdateQuestion(catalog *questions.Catalog) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid question id")
			return
		}

		var req QuestionRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if msg := req.validate(); msg != "" {
			writeError(w, http.StatusBadRequest, msg)
			return
		}

		q := questions.Question{
			ID:               id,
			Category:         req.Category,
			Prompt:           req.Prompt,
			Options:          req.Options,
			CorrectAnswer:    req.CorrectAnswer,
			TimeLimitSeconds: req.TimeLimitSeconds,
		}
		err = catalog.Update(r.Context(), q)
		if errors.Is(err, questions.ErrNotFound) {
			writeError(w, http.StatusNotFound, "question not found")
			return
		}
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		writeJSON(w, http.StatusOK, q)
	}
}

func handleAdminDeleteQuestion(catalog *questions.Catalog) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid question id")
			return
		}

		err = catalog.Delete(r.Context(), id)
		if errors.Is(err, questions.ErrNotFound) {
			writeError(w, http.StatusNotFound, "question not found")
			return
		}
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
	}
}
