package arena

import "log/slog"

// HookBus is the contract through which an external effect engine (card
// effects and the like) intercepts the question flow. The coordinator never
// knows why a hook fires; it only honors the result. Every hook has a safe
// default — proceed, no override, value unchanged — which is also what a
// panicking or absent implementation resolves to.
type HookBus interface {
	// OnQuestionStarting runs before a question is generated. proceed=false
	// skips the question; redirect optionally names who acts next.
	OnQuestionStarting(player PlayerID) (proceed bool, redirect PlayerID)

	// OnQuestionTypeSelecting may override the next question's category.
	// ok=false means no override.
	OnQuestionTypeSelecting(player PlayerID) (category string, ok bool)

	// OnTimerStarting may replace the question's time limit, in seconds.
	OnTimerStarting(player PlayerID, seconds int) int

	// OnDamageCalculating may replace the damage of a wrong answer.
	OnDamageCalculating(base int) int
}

// safeHooks guards every hook call site: a nil bus or a panic inside the
// engine resolves to the hook's safe default so the main flow always
// completes.
type safeHooks struct {
	bus    HookBus
	logger *slog.Logger
}

func newSafeHooks(bus HookBus, logger *slog.Logger) *safeHooks {
	if logger == nil {
		logger = slog.Default()
	}
	return &safeHooks{bus: bus, logger: logger}
}

func (h *safeHooks) questionStarting(player PlayerID) (proceed bool, redirect PlayerID) {
	proceed, redirect = true, NoPlayer
	if h.bus == nil {
		return
	}
	defer h.recover("question_starting", func() { proceed, redirect = true, NoPlayer })
	proceed, redirect = h.bus.OnQuestionStarting(player)
	return
}

func (h *safeHooks) typeSelecting(player PlayerID) (category string, ok bool) {
	if h.bus == nil {
		return "", false
	}
	defer h.recover("type_selecting", func() { category, ok = "", false })
	category, ok = h.bus.OnQuestionTypeSelecting(player)
	return
}

func (h *safeHooks) timerStarting(player PlayerID, seconds int) (out int) {
	out = seconds
	if h.bus == nil {
		return
	}
	defer h.recover("timer_starting", func() { out = seconds })
	v := h.bus.OnTimerStarting(player, seconds)
	if v <= 0 {
		h.logger.Warn("ignoring non-positive timer override", "value", v)
		return seconds
	}
	return v
}

func (h *safeHooks) damageCalculating(base int) (out int) {
	out = base
	if h.bus == nil {
		return
	}
	defer h.recover("damage_calculating", func() { out = base })
	v := h.bus.OnDamageCalculating(base)
	if v < 0 {
		h.logger.Warn("ignoring negative damage override", "value", v)
		return base
	}
	return v
}

func (h *safeHooks) recover(hook string, reset func()) {
	if r := recover(); r != nil {
		h.logger.Error("effect hook panicked", "hook", hook, "panic", r)
		reset()
	}
}
