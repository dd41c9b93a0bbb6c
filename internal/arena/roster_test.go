package arena

import "testing"

func TestRosterDuplicateAddIgnored(t *testing.T) {
	r := NewRoster(nil)
	r.AddPlayer(1, "first", true)
	r.AddPlayer(1, "second", false)

	p := r.Get(1)
	if p == nil {
		t.Fatal("player missing")
	}
	if p.Name != "first" || !p.IsHost {
		t.Errorf("duplicate add overwrote record: %+v", p)
	}
	if r.Len() != 1 {
		t.Errorf("Len = %d, want 1", r.Len())
	}
}

func TestRosterAliveIdsSorted(t *testing.T) {
	r := NewRoster(nil)
	l := NewLedger(r)
	for _, id := range []PlayerID{7, 2, 5} {
		r.AddPlayer(id, "p", false)
		l.Initialize(id, 100)
	}
	l.ApplyDamage(5, 100)

	ids := r.AliveIds()
	if len(ids) != 2 || ids[0] != 2 || ids[1] != 7 {
		t.Errorf("AliveIds = %v, want [2 7]", ids)
	}
}

func TestRosterRemove(t *testing.T) {
	r := NewRoster(nil)
	r.AddPlayer(1, "p", false)
	r.RemovePlayer(1)

	if r.ContainsPlayer(1) {
		t.Error("player still present after remove")
	}
	if r.Get(1) != nil {
		t.Error("Get should return nil after remove")
	}
}
