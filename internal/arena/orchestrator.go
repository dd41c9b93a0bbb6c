package arena

import (
	"log/slog"
	"math/rand"
)

// ChainCategory is the category whose questions continue across turns: each
// accepted answer becomes the running value the next link is built from.
const ChainCategory = "chain"

type chainState struct {
	value string // running value, updated on each accepted answer
	links int    // continuations produced so far
}

// skipDirective tells the coordinator a hook vetoed the question; the turn
// passes without consuming a question slot.
type skipDirective struct {
	redirect PlayerID // NoPlayer when the hook named nobody
}

// Orchestrator assembles the next question for a player: hook pipeline,
// chain continuation, weighted category draw, provider fetch, timer hook.
type Orchestrator struct {
	provider QuestionProvider
	hooks    *safeHooks
	weights  map[string]float64
	maxLinks int
	rng      *rand.Rand
	logger   *slog.Logger
	chain    *chainState
}

func newOrchestrator(provider QuestionProvider, hooks *safeHooks, weights map[string]float64, maxLinks int, rng *rand.Rand, logger *slog.Logger) *Orchestrator {
	return &Orchestrator{
		provider: provider,
		hooks:    hooks,
		weights:  weights,
		maxLinks: maxLinks,
		rng:      rng,
		logger:   logger,
	}
}

// nextQuestion runs the generation pipeline for the acting player. Exactly
// one of the returns is set: a question, a skip directive, or neither when
// the provider came up empty (caller retries, then gives up).
func (o *Orchestrator) nextQuestion(forPlayer PlayerID) (*QuestionEnvelope, *skipDirective) {
	proceed, redirect := o.hooks.questionStarting(forPlayer)
	if !proceed {
		return nil, &skipDirective{redirect: redirect}
	}

	category, overridden := o.hooks.typeSelecting(forPlayer)
	if overridden {
		if _, known := o.weights[category]; !known {
			o.logger.Warn("ignoring unknown category override", "category", category)
			overridden = false
		}
	}

	var env *QuestionEnvelope
	continued := false
	switch {
	case !overridden && o.chain != nil:
		env = o.provider.GetContinuation(o.chain.value, o.chain.links)
		if env == nil {
			// Chain cannot continue; fall back to a fresh draw.
			o.chain = nil
		} else {
			continued = true
		}
	case overridden:
		env = o.provider.Get(category)
	}
	if env == nil {
		env = o.provider.Get(drawCategory(o.weights, o.rng))
	}
	if env == nil {
		return nil, nil
	}

	env.TimeLimitSeconds = o.hooks.timerStarting(forPlayer, env.TimeLimitSeconds)

	// Only a continuation extends the chain; any fresh chain draw starts
	// over, discarding a stale running value.
	if env.Category == ChainCategory {
		if continued {
			o.chain.links++
		} else {
			o.chain = &chainState{links: 0}
		}
	} else if !continued {
		o.chain = nil
	}
	return env, nil
}

// noteAnswer updates chain bookkeeping after an answer resolves. A wrong
// answer or reaching the configured link cap clears the chain; otherwise
// the accepted answer becomes the running value for the next link.
func (o *Orchestrator) noteAnswer(correct bool, answer string) {
	if o.chain == nil {
		return
	}
	if !correct {
		o.chain = nil
		return
	}
	if o.chain.links+1 >= o.maxLinks {
		o.chain = nil
		return
	}
	o.chain.value = answer
}

func (o *Orchestrator) clearChain() {
	o.chain = nil
}

func (o *Orchestrator) chainActive() bool {
	return o.chain != nil
}
