package server

import (
	"context"
	"log/slog"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/quizbrawl/arena/internal/questions"
)

// Seed bootstraps the first admin account and a starter question set.
// Idempotent: does nothing when admins or questions already exist.
func Seed(ctx context.Context, logger *slog.Logger, store Store, catalog *questions.Catalog, adminEmail, adminPassword string) error {
	count, err := store.CountAdmins(ctx)
	if err != nil {
		return err
	}
	if count == 0 {
		hash, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.DefaultCost)
		if err != nil {
			return err
		}
		email := strings.TrimSpace(strings.ToLower(adminEmail))
		if err := store.CreateAdmin(ctx, email, string(hash)); err != nil {
			return err
		}
		logger.Info("bootstrap admin created", "email", email)
	}

	existing, err := catalog.List(ctx, "")
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		return nil
	}

	for _, q := range starterQuestions {
		if _, err := catalog.Create(ctx, q); err != nil {
			return err
		}
	}
	logger.Info("starter questions seeded", "count", len(starterQuestions))
	return nil
}

var starterQuestions = []questions.Question{
	{Category: "general", Prompt: "How many continents are there?", Options: []string{"5", "6", "7"}, CorrectAnswer: "7", TimeLimitSeconds: 20},
	{Category: "general", Prompt: "What color do you get by mixing blue and yellow?", Options: []string{"green", "purple", "orange"}, CorrectAnswer: "green", TimeLimitSeconds: 20},
	{Category: "general", Prompt: "How many minutes are in two hours?", Options: []string{"90", "120", "150"}, CorrectAnswer: "120", TimeLimitSeconds: 20},
	{Category: "science", Prompt: "What planet is known as the Red Planet?", Options: []string{"Venus", "Mars", "Jupiter"}, CorrectAnswer: "Mars", TimeLimitSeconds: 25},
	{Category: "science", Prompt: "What gas do plants absorb from the air?", Options: []string{"oxygen", "nitrogen", "carbon dioxide"}, CorrectAnswer: "carbon dioxide", TimeLimitSeconds: 25},
	{Category: "science", Prompt: "What is H2O commonly called?", Options: []string{"salt", "water", "hydrogen"}, CorrectAnswer: "water", TimeLimitSeconds: 20},
	{Category: "history", Prompt: "In what year did World War II end?", Options: []string{"1943", "1945", "1947"}, CorrectAnswer: "1945", TimeLimitSeconds: 25},
	{Category: "history", Prompt: "Who was the first person to walk on the Moon?", Options: []string{"Buzz Aldrin", "Neil Armstrong", "Yuri Gagarin"}, CorrectAnswer: "Neil Armstrong", TimeLimitSeconds: 25},
	{Category: "history", Prompt: "Which ancient civilization built the pyramids of Giza?", Options: []string{"Romans", "Greeks", "Egyptians"}, CorrectAnswer: "Egyptians", TimeLimitSeconds: 25},
}
