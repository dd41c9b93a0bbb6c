package arena

import "time"

// Rules is the game tuning a session runs with. Zero values are filled in
// by withDefaults; CategoryWeights has no default and must name at least
// one category.
type Rules struct {
	StartingHealth  int
	DamagePerWrong  int
	MaxChainLinks   int
	CategoryWeights map[string]float64

	// TurnChangeDelay is the pause between an answer resolving and the next
	// turn being announced.
	TurnChangeDelay time.Duration

	// DamageGraceDelay is the pause between announcing a wrong answer and
	// applying its health penalty.
	DamageGraceDelay time.Duration

	// BroadcastGapDelay staggers the game-start broadcast sequence so
	// receivers finish applying one message before the next arrives.
	BroadcastGapDelay time.Duration

	// ProviderRetryDelay is the pause before the single retry after the
	// question provider returns nothing.
	ProviderRetryDelay time.Duration
}

func (r Rules) withDefaults() Rules {
	if r.StartingHealth <= 0 {
		r.StartingHealth = 100
	}
	if r.DamagePerWrong <= 0 {
		r.DamagePerWrong = 20
	}
	if r.MaxChainLinks <= 0 {
		r.MaxChainLinks = 10
	}
	if r.TurnChangeDelay <= 0 {
		r.TurnChangeDelay = 2 * time.Second
	}
	if r.DamageGraceDelay <= 0 {
		r.DamageGraceDelay = 1500 * time.Millisecond
	}
	if r.BroadcastGapDelay <= 0 {
		r.BroadcastGapDelay = 300 * time.Millisecond
	}
	if r.ProviderRetryDelay <= 0 {
		r.ProviderRetryDelay = time.Second
	}
	return r
}
