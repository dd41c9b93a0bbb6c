package arena

import "testing"

// stubHooks lets each test override individual hook points.
type stubHooks struct {
	starting  func(PlayerID) (bool, PlayerID)
	selecting func(PlayerID) (string, bool)
	timer     func(PlayerID, int) int
	damage    func(int) int
}

func (s *stubHooks) OnQuestionStarting(p PlayerID) (bool, PlayerID) {
	if s.starting == nil {
		return true, NoPlayer
	}
	return s.starting(p)
}

func (s *stubHooks) OnQuestionTypeSelecting(p PlayerID) (string, bool) {
	if s.selecting == nil {
		return "", false
	}
	return s.selecting(p)
}

func (s *stubHooks) OnTimerStarting(p PlayerID, seconds int) int {
	if s.timer == nil {
		return seconds
	}
	return s.timer(p, seconds)
}

func (s *stubHooks) OnDamageCalculating(base int) int {
	if s.damage == nil {
		return base
	}
	return s.damage(base)
}

func TestSafeHooksNilBusDefaults(t *testing.T) {
	h := newSafeHooks(nil, nil)

	if proceed, redirect := h.questionStarting(1); !proceed || redirect != NoPlayer {
		t.Errorf("questionStarting = (%v, %d), want (true, %d)", proceed, redirect, NoPlayer)
	}
	if _, ok := h.typeSelecting(1); ok {
		t.Error("typeSelecting should report no override")
	}
	if got := h.timerStarting(1, 30); got != 30 {
		t.Errorf("timerStarting = %d, want 30", got)
	}
	if got := h.damageCalculating(20); got != 20 {
		t.Errorf("damageCalculating = %d, want 20", got)
	}
}

func TestSafeHooksPanicFallsBackToDefaults(t *testing.T) {
	h := newSafeHooks(&stubHooks{
		starting:  func(PlayerID) (bool, PlayerID) { panic("boom") },
		selecting: func(PlayerID) (string, bool) { panic("boom") },
		timer:     func(PlayerID, int) int { panic("boom") },
		damage:    func(int) int { panic("boom") },
	}, nil)

	if proceed, _ := h.questionStarting(1); !proceed {
		t.Error("panicking starting hook should default to proceed")
	}
	if _, ok := h.typeSelecting(1); ok {
		t.Error("panicking selecting hook should default to no override")
	}
	if got := h.timerStarting(1, 30); got != 30 {
		t.Errorf("panicking timer hook: got %d, want 30", got)
	}
	if got := h.damageCalculating(20); got != 20 {
		t.Errorf("panicking damage hook: got %d, want 20", got)
	}
}

func TestSafeHooksRejectsInvalidOverrides(t *testing.T) {
	h := newSafeHooks(&stubHooks{
		timer:  func(PlayerID, int) int { return -5 },
		damage: func(int) int { return -1 },
	}, nil)

	if got := h.timerStarting(1, 30); got != 30 {
		t.Errorf("negative timer override accepted: %d", got)
	}
	if got := h.damageCalculating(20); got != 20 {
		t.Errorf("negative damage override accepted: %d", got)
	}
}

func TestSafeHooksZeroDamageOverrideAllowed(t *testing.T) {
	h := newSafeHooks(&stubHooks{damage: func(int) int { return 0 }}, nil)
	if got := h.damageCalculating(20); got != 0 {
		t.Errorf("zero damage override rejected: got %d, want 0", got)
	}
}
