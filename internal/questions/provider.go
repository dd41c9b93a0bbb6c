package questions

import (
	"context"
	"fmt"
	"math/rand"
	"strconv"
	"time"

	"github.com/quizbrawl/arena/internal/arena"
)

const queryTimeout = 2 * time.Second

// Get returns a random catalogue question of the given category, or nil
// when none is available. Chain questions are generated procedurally
// instead of drawn from the catalogue.
func (c *Catalog) Get(category string) *arena.QuestionEnvelope {
	if category == arena.ChainCategory {
		return freshChain()
	}

	ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
	defer cancel()

	row := c.db.QueryRowContext(ctx,
		"SELECT id, category, prompt, options, correct_answer, time_limit_seconds FROM questions WHERE category = ? ORDER BY RANDOM() LIMIT 1",
		category)
	q, err := scanQuestion(row)
	if err != nil {
		c.logger.Error("drawing question", "category", category, "error", err)
		return nil
	}
	return &arena.QuestionEnvelope{
		Category:         q.Category,
		PromptText:       q.Prompt,
		Options:          q.Options,
		CorrectAnswer:    q.CorrectAnswer,
		TimeLimitSeconds: q.TimeLimitSeconds,
	}
}

// GetContinuation extends an arithmetic chain from the running value. A
// value that does not parse as an integer cannot be continued.
func (c *Catalog) GetContinuation(chainValue string, linkCount int) *arena.QuestionEnvelope {
	current, err := strconv.Atoi(chainValue)
	if err != nil {
		c.logger.Warn("chain value not numeric, dropping chain", "value", chainValue)
		return nil
	}
	return nextLink(current, linkCount)
}

// freshChain starts a new arithmetic chain from a small random seed.
func freshChain() *arena.QuestionEnvelope {
	a := rand.Intn(20) + 1
	b := rand.Intn(9) + 1
	return chainEnvelope(fmt.Sprintf("%d + %d = ?", a, b), a+b)
}

func nextLink(current, linkCount int) *arena.QuestionEnvelope {
	// Later links use bigger operands to keep the chain from going stale.
	step := rand.Intn(9+linkCount*2) + 1
	if rand.Intn(2) == 0 && current-step > 0 {
		return chainEnvelope(fmt.Sprintf("%d - %d = ?", current, step), current-step)
	}
	return chainEnvelope(fmt.Sprintf("%d + %d = ?", current, step), current+step)
}

func chainEnvelope(prompt string, answer int) *arena.QuestionEnvelope {
	return &arena.QuestionEnvelope{
		Category:         arena.ChainCategory,
		PromptText:       prompt,
		CorrectAnswer:    strconv.Itoa(answer),
		TimeLimitSeconds: 15,
	}
}
