package arena

import (
	"math/rand"
	"sort"
)

// QuestionEnvelope is the unit of content handed out by a QuestionProvider.
// The core treats OpaquePayload as an uninterpreted blob for the client;
// only TimeLimitSeconds may be mutated after creation (by the timer hook).
type QuestionEnvelope struct {
	Category         string
	PromptText       string
	Options          []string
	CorrectAnswer    string
	TimeLimitSeconds int
	OpaquePayload    string
}

// QuestionProvider supplies question content. Both methods fail by
// returning nil; the coordinator schedules one retry before treating the
// failure as fatal.
type QuestionProvider interface {
	// Get returns a fresh question of the given category.
	Get(category string) *QuestionEnvelope

	// GetContinuation returns the next link of a chain question, built from
	// the running value and the number of links already produced.
	GetContinuation(chainValue string, linkCount int) *QuestionEnvelope
}

// drawCategory picks a category by weighted random draw. Weights are
// non-negative; a zero-weight category is never drawn. When the total
// weight is zero the draw is uniform over all configured categories.
func drawCategory(weights map[string]float64, rng *rand.Rand) string {
	if len(weights) == 0 {
		return ""
	}
	names := make([]string, 0, len(weights))
	for name := range weights {
		names = append(names, name)
	}
	sort.Strings(names)

	total := 0.0
	for _, name := range names {
		if w := weights[name]; w > 0 {
			total += w
		}
	}
	if total == 0 {
		return names[rng.Intn(len(names))]
	}

	pick := rng.Float64() * total
	for _, name := range names {
		w := weights[name]
		if w <= 0 {
			continue
		}
		pick -= w
		if pick < 0 {
			return name
		}
	}
	return names[len(names)-1]
}
