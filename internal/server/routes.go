package server

import (
	"database/sql"
	"log/slog"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/swaggest/swgui/v5emb"

	"github.com/quizbrawl/arena/internal/questions"
)

func addRoutes(r chi.Router, logger *slog.Logger, store Store, matches *Registry, broker *Broker, catalog *questions.Catalog, db *sql.DB, spaDir string) {
	r.Get("/openapi.json", handleOpenAPI())
	r.Mount("/docs", v5emb.New("QuizBrawl Arena API", "/openapi.json", "/docs"))
	r.Get("/healthz", handleHealth(logger, db))

	r.Post("/api/matches", handleCreateMatch(matches))

	// Match routes — {match} resolved by matchMiddleware.
	r.Route("/api/matches/{match}", func(r chi.Router) {
		r.Use(matchMiddleware(matches))
		r.Post("/join", handleJoin())
		r.Post("/leave", handleLeave())
		r.Post("/start", handleStart())
		r.Post("/end", handleForceEnd())
		r.Post("/answer", handleAnswer())
		r.Get("/state", handleState())
		r.Get("/events", handleEvents(broker))
	})

	// Admin auth.
	r.Post("/api/admin/login", handleAdminLogin(store))
	r.Post("/api/admin/logout", handleAdminLogout(store))

	// Admin surface — requires the admin_session cookie.
	r.Group(func(r chi.Router) {
		r.Use(adminAuthMiddleware(store))
		r.Get("/api/admin/me", handleAdminMe())
		r.Get("/api/admin/matches", handleAdminListMatches(store))

		r.Route("/api/admin/questions", func(r chi.Router) {
			r.Get("/", handleAdminListQuestions(catalog))
			r.Post("/", handleAdminCreateQuestion(catalog))
			r.Get("/{id}", handleAdminGetQuestion(catalog))
			r.Put("/{id}", handleAdminUpdateQuestion(catalog))
			r.Delete("/{id}", handleAdminDeleteQuestion(catalog))
		})
	})

	if spaDir != "" {
		if info, err := os.Stat(spaDir); err == nil && info.IsDir() {
			logger.Info("serving SPA", "dir", spaDir)
			r.NotFound(handleSPA(spaDir))
		}
	}
}
