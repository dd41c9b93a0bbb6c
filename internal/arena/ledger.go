package arena

// Ledger is the authoritative health bookkeeping. It mutates the roster's
// Player records in place so there is exactly one copy of health/alive
// state. Invariants: health stays in [0, maxHealth]; alive == (health > 0).
type Ledger struct {
	roster *Roster
}

func NewLedger(roster *Roster) *Ledger {
	return &Ledger{roster: roster}
}

// Initialize sets a player's starting and maximum health and marks them
// alive. Unknown ids are ignored.
func (l *Ledger) Initialize(id PlayerID, startingHealth int) {
	p := l.roster.Get(id)
	if p == nil {
		return
	}
	if startingHealth < 0 {
		startingHealth = 0
	}
	p.Health = startingHealth
	p.MaxHealth = startingHealth
	p.Alive = startingHealth > 0
}

// ApplyDamage subtracts amount, clamped at zero. The died flag reports the
// death exactly at the computation site: true on the hit that crosses zero
// and on any later hit against an already-dead player (which is otherwise a
// no-op, keeping retried damage idempotent).
func (l *Ledger) ApplyDamage(id PlayerID, amount int) (newHealth int, died bool) {
	p := l.roster.Get(id)
	if p == nil {
		return 0, false
	}
	if !p.Alive {
		return p.Health, true
	}
	if amount < 0 {
		amount = 0
	}
	p.Health -= amount
	if p.Health <= 0 {
		p.Health = 0
		p.Alive = false
		return 0, true
	}
	return p.Health, false
}

// Heal adds amount, clamped at max health. Healing does not revive.
func (l *Ledger) Heal(id PlayerID, amount int) int {
	p := l.roster.Get(id)
	if p == nil {
		return 0
	}
	if !p.Alive || amount < 0 {
		return p.Health
	}
	p.Health += amount
	if p.Health > p.MaxHealth {
		p.Health = p.MaxHealth
	}
	return p.Health
}

// Revive puts a dead player back into play at the given health, clamped to
// [1, maxHealth].
func (l *Ledger) Revive(id PlayerID, health int) {
	p := l.roster.Get(id)
	if p == nil || p.Alive {
		return
	}
	if health < 1 {
		health = 1
	}
	if health > p.MaxHealth {
		health = p.MaxHealth
	}
	p.Health = health
	p.Alive = true
}

func (l *Ledger) IsAlive(id PlayerID) bool {
	p := l.roster.Get(id)
	return p != nil && p.Alive
}

// HealthOf returns current and max health; (0, 0) for unknown ids.
func (l *Ledger) HealthOf(id PlayerID) (current, max int) {
	p := l.roster.Get(id)
	if p == nil {
		return 0, 0
	}
	return p.Health, p.MaxHealth
}
