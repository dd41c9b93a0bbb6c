package arena

import (
	"log/slog"
	"sort"
)

// PlayerID is a stable small integer, unique within one session.
type PlayerID int

// NoPlayer is the sentinel returned when no player can hold the turn.
const NoPlayer PlayerID = 0

// Player is the authoritative per-player record. It is owned by the
// session's roster; health and the alive flag are mutated only through the
// Ledger. Everyone outside the host rebuilds a read-only copy from
// PlayerStateSync / HealthUpdate broadcasts.
type Player struct {
	ID        PlayerID
	Name      string
	IsHost    bool
	Alive     bool
	Health    int
	MaxHealth int
}

// Roster tracks connected players. It is the single owner of the Player
// records; no other component holds a parallel copy.
type Roster struct {
	players map[PlayerID]*Player
	logger  *slog.Logger
}

func NewRoster(logger *slog.Logger) *Roster {
	if logger == nil {
		logger = slog.Default()
	}
	return &Roster{
		players: make(map[PlayerID]*Player),
		logger:  logger,
	}
}

// AddPlayer registers a player. A duplicate id is logged and ignored.
func (r *Roster) AddPlayer(id PlayerID, name string, isHost bool) {
	if _, ok := r.players[id]; ok {
		r.logger.Warn("duplicate player ignored", "player", id, "name", name)
		return
	}
	r.players[id] = &Player{ID: id, Name: name, IsHost: isHost}
}

func (r *Roster) RemovePlayer(id PlayerID) {
	delete(r.players, id)
}

func (r *Roster) ContainsPlayer(id PlayerID) bool {
	_, ok := r.players[id]
	return ok
}

// Get returns the player record, or nil when absent.
func (r *Roster) Get(id PlayerID) *Player {
	return r.players[id]
}

// AliveIds returns the ids of living players in ascending order. The stable
// order is what makes the round-robin turn rotation deterministic.
func (r *Roster) AliveIds() []PlayerID {
	ids := make([]PlayerID, 0, len(r.players))
	for id, p := range r.players {
		if p.Alive {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func (r *Roster) AliveCount() int {
	n := 0
	for _, p := range r.players {
		if p.Alive {
			n++
		}
	}
	return n
}

// All returns every player in ascending id order.
func (r *Roster) All() []*Player {
	out := make([]*Player, 0, len(r.players))
	for _, p := range r.players {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (r *Roster) Len() int {
	return len(r.players)
}
