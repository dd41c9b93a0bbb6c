package arena

import (
	"math/rand"
	"testing"
)

// fakeProvider serves canned questions and records requests.
type fakeProvider struct {
	get          func(category string) *QuestionEnvelope
	continuation func(value string, links int) *QuestionEnvelope

	gotCategories []string
	contCalls     int
}

func (f *fakeProvider) Get(category string) *QuestionEnvelope {
	f.gotCategories = append(f.gotCategories, category)
	if f.get == nil {
		return &QuestionEnvelope{Category: category, PromptText: "q", CorrectAnswer: "a", TimeLimitSeconds: 30}
	}
	return f.get(category)
}

func (f *fakeProvider) GetContinuation(value string, links int) *QuestionEnvelope {
	f.contCalls++
	if f.continuation == nil {
		return nil
	}
	return f.continuation(value, links)
}

func testOrchestrator(p QuestionProvider, bus HookBus, weights map[string]float64, maxLinks int) *Orchestrator {
	if weights == nil {
		weights = map[string]float64{"geo": 1, ChainCategory: 1}
	}
	return newOrchestrator(p, newSafeHooks(bus, nil), weights, maxLinks, rand.New(rand.NewSource(1)), discardLogger())
}

func TestNextQuestionSkipDirective(t *testing.T) {
	p := &fakeProvider{}
	o := testOrchestrator(p, &stubHooks{
		starting: func(PlayerID) (bool, PlayerID) { return false, 4 },
	}, nil, 10)

	env, skip := o.nextQuestion(2)
	if env != nil {
		t.Fatal("expected no question on skip")
	}
	if skip == nil || skip.redirect != 4 {
		t.Fatalf("skip = %+v, want redirect 4", skip)
	}
	if len(p.gotCategories) != 0 {
		t.Error("provider should not be consulted on skip")
	}
}

func TestNextQuestionCategoryOverride(t *testing.T) {
	p := &fakeProvider{}
	o := testOrchestrator(p, &stubHooks{
		selecting: func(PlayerID) (string, bool) { return "geo", true },
	}, map[string]float64{"geo": 0, "history": 1}, 10)

	env, _ := o.nextQuestion(1)
	if env == nil {
		t.Fatal("expected a question")
	}
	if env.Category != "geo" {
		t.Errorf("category = %q, want geo", env.Category)
	}
}

func TestNextQuestionUnknownOverrideIgnored(t *testing.T) {
	p := &fakeProvider{}
	o := testOrchestrator(p, &stubHooks{
		selecting: func(PlayerID) (string, bool) { return "bogus", true },
	}, map[string]float64{"history": 1}, 10)

	env, _ := o.nextQuestion(1)
	if env == nil {
		t.Fatal("expected a question")
	}
	if env.Category != "history" {
		t.Errorf("category = %q, want history (weighted draw fallback)", env.Category)
	}
}

func TestNextQuestionTimerHookMutatesLimit(t *testing.T) {
	p := &fakeProvider{}
	o := testOrchestrator(p, &stubHooks{
		timer: func(_ PlayerID, s int) int { return s * 2 },
	}, map[string]float64{"geo": 1}, 10)

	env, _ := o.nextQuestion(1)
	if env.TimeLimitSeconds != 60 {
		t.Errorf("time limit = %d, want 60", env.TimeLimitSeconds)
	}
}

func TestChainActivationAndLinkCount(t *testing.T) {
	p := &fakeProvider{
		get: func(category string) *QuestionEnvelope {
			return &QuestionEnvelope{Category: category, CorrectAnswer: "7", TimeLimitSeconds: 30}
		},
		continuation: func(value string, links int) *QuestionEnvelope {
			return &QuestionEnvelope{Category: ChainCategory, CorrectAnswer: value + "x", TimeLimitSeconds: 30}
		},
	}
	o := testOrchestrator(p, nil, map[string]float64{ChainCategory: 1}, 3)

	// Fresh chain question.
	env, _ := o.nextQuestion(1)
	if env == nil || !o.chainActive() {
		t.Fatal("expected active chain after fresh chain question")
	}
	if o.chain.links != 0 {
		t.Fatalf("fresh chain links = %d, want 0", o.chain.links)
	}

	// First correct answer feeds the running value.
	o.noteAnswer(true, "7")
	if o.chain.value != "7" {
		t.Fatalf("running value = %q, want 7", o.chain.value)
	}

	// Continuation increments the link count.
	env, _ = o.nextQuestion(1)
	if env == nil || o.chain.links != 1 {
		t.Fatalf("after continuation: links = %d, want 1", o.chain.links)
	}

	// Second correct: links+1 == 2 < 3, chain survives.
	o.noteAnswer(true, "7x")
	if !o.chainActive() {
		t.Fatal("chain should survive below the link cap")
	}

	env, _ = o.nextQuestion(1)
	if env == nil || o.chain.links != 2 {
		t.Fatalf("links = %d, want 2", o.chain.links)
	}

	// Third correct hits the cap and clears the chain.
	o.noteAnswer(true, "7xx")
	if o.chainActive() {
		t.Error("chain should clear at the configured link cap")
	}
}

func TestChainClearsOnWrongAnswer(t *testing.T) {
	p := &fakeProvider{}
	o := testOrchestrator(p, nil, map[string]float64{ChainCategory: 1}, 10)

	o.nextQuestion(1)
	if !o.chainActive() {
		t.Fatal("expected active chain")
	}
	o.noteAnswer(false, "")
	if o.chainActive() {
		t.Error("wrong answer should clear the chain")
	}
}

func TestChainFallsBackWhenContinuationFails(t *testing.T) {
	p := &fakeProvider{
		get: func(category string) *QuestionEnvelope {
			return &QuestionEnvelope{Category: category, CorrectAnswer: "a", TimeLimitSeconds: 30}
		},
		continuation: func(string, int) *QuestionEnvelope { return nil },
	}
	o := testOrchestrator(p, nil, map[string]float64{ChainCategory: 1, "geo": 0}, 10)
	o.chain = &chainState{value: "not-a-number", links: 2}

	env, _ := o.nextQuestion(1)
	if env == nil {
		t.Fatal("expected fallback question")
	}
	if p.contCalls != 1 {
		t.Errorf("continuation calls = %d, want 1", p.contCalls)
	}
	// The fallback drew the chain category again, so a fresh chain starts.
	if o.chain == nil || o.chain.links != 0 {
		t.Errorf("expected fresh chain after fallback, got %+v", o.chain)
	}
}

func TestDrawCategoryZeroWeightNeverDrawn(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	weights := map[string]float64{"a": 0, "b": 1}
	for i := 0; i < 200; i++ {
		if got := drawCategory(weights, rng); got != "b" {
			t.Fatalf("zero-weight category drawn: %q", got)
		}
	}
}

func TestDrawCategoryZeroTotalUniform(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	weights := map[string]float64{"a": 0, "b": 0}
	seen := map[string]bool{}
	for i := 0; i < 200; i++ {
		seen[drawCategory(weights, rng)] = true
	}
	if !seen["a"] || !seen["b"] {
		t.Errorf("zero-total draw not uniform: %v", seen)
	}
}

func TestChainOverrideStartsFreshChain(t *testing.T) {
	p := &fakeProvider{
		get: func(category string) *QuestionEnvelope {
			return &QuestionEnvelope{Category: category, CorrectAnswer: "5", TimeLimitSeconds: 30}
		},
	}
	o := testOrchestrator(p, &stubHooks{
		selecting: func(PlayerID) (string, bool) { return ChainCategory, true },
	}, map[string]float64{ChainCategory: 1, "geo": 1}, 10)
	o.chain = &chainState{value: "42", links: 4}

	env, _ := o.nextQuestion(1)
	if env == nil || env.Category != ChainCategory {
		t.Fatalf("env = %+v, want chain question", env)
	}
	// The override bypassed the continuation, so the old running value and
	// link count must not carry over.
	if p.contCalls != 0 {
		t.Errorf("continuation calls = %d, want 0", p.contCalls)
	}
	if o.chain == nil || o.chain.links != 0 || o.chain.value != "" {
		t.Errorf("chain = %+v, want fresh state", o.chain)
	}
}

func TestNonChainOverrideClearsActiveChain(t *testing.T) {
	p := &fakeProvider{}
	o := testOrchestrator(p, &stubHooks{
		selecting: func(PlayerID) (string, bool) { return "geo", true },
	}, map[string]float64{ChainCategory: 1, "geo": 1}, 10)
	o.chain = &chainState{value: "42", links: 4}

	env, _ := o.nextQuestion(1)
	if env == nil || env.Category != "geo" {
		t.Fatalf("env = %+v, want geo question", env)
	}
	if o.chainActive() {
		t.Error("interposed non-chain question should clear the chain")
	}
}
