package server

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/quizbrawl/arena/internal/arena"
)

var errNoSession = errors.New("no valid session")

// How long a finished match stays resolvable so clients can fetch the
// final state before the registry forgets it.
const endedMatchRetention = 10 * time.Minute

// How long command posts and replies may wait on a session loop before the
// transport gives up.
const commandTimeout = 3 * time.Second

// Registry owns the live matches. Each match wraps one arena session
// running on its own goroutine; the registry hands out bearer tokens and
// routes HTTP requests to the right inbox.
type Registry struct {
	provider arena.QuestionProvider
	rules    arena.Rules
	broker   *Broker
	store    Store
	logger   *slog.Logger

	mu      sync.RWMutex
	matches map[string]*Match
}

func NewRegistry(provider arena.QuestionProvider, rules arena.Rules, broker *Broker, store Store, logger *slog.Logger) *Registry {
	return &Registry{
		provider: provider,
		rules:    rules,
		broker:   broker,
		store:    store,
		logger:   logger,
		matches:  make(map[string]*Match),
	}
}

// Match is the transport-side handle for one live session.
type Match struct {
	ID        string
	CreatedAt time.Time

	session *arena.Session
	logger  *slog.Logger

	mu        sync.RWMutex
	tokens    map[string]arena.PlayerID
	hostToken string
	hostID    arena.PlayerID
}

// CreateMatch spins up a session, joins the host, and returns the match
// with the host's bearer token.
func (r *Registry) CreateMatch(hostName string) (*Match, string, error) {
	id := newToken(8)
	logger := r.logger.With("match", id)

	m := &Match{
		ID:        id,
		CreatedAt: time.Now(),
		logger:    logger,
		tokens:    make(map[string]arena.PlayerID),
	}

	sess, err := arena.NewSession(arena.Config{
		Provider: r.provider,
		Rules:    r.rules,
		Out:      r.broker.publisher(id),
		Logger:   logger,
		OnEnd:    func(out arena.Outcome) { r.archive(m, out) },
	})
	if err != nil {
		return nil, "", err
	}
	m.session = sess
	go sess.Run()

	hostID, err := m.join(hostName, true)
	if err != nil {
		sess.Stop()
		return nil, "", err
	}

	token := newToken(16)
	m.mu.Lock()
	m.tokens[token] = hostID
	m.hostToken = token
	m.hostID = hostID
	m.mu.Unlock()

	r.mu.Lock()
	r.matches[id] = m
	r.mu.Unlock()

	logger.Info("match created", "host", hostName, "hostPlayerId", hostID)
	return m, token, nil
}

// Get resolves a live match by ID.
func (r *Registry) Get(id string) (*Match, bool) {
	r.mu.RLock()
	m, ok := r.matches[id]
	r.mu.RUnlock()
	return m, ok
}

// archive persists the outcome and schedules eviction. Runs on the session
// goroutine, so the database write happens elsewhere.
func (r *Registry) archive(m *Match, out arena.Outcome) {
	endedAt := time.Now()
	go func() {
		snap, err := m.Snapshot()
		if err != nil {
			r.logger.Error("snapshotting ended match", "match", m.ID, "error", err)
		}

		rec := MatchRecord{
			ID:            m.ID,
			StartedAt:     m.CreatedAt.UTC().Format(time.RFC3339),
			EndedAt:       endedAt.UTC().Format(time.RFC3339),
			EndReason:     out.Reason,
			Forced:        out.Forced,
			PlayerCount:   len(snap.Players),
			QuestionCount: snap.QuestionNumber,
		}
		if out.WinnerName != "" {
			rec.WinnerName = &out.WinnerName
		}

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := r.store.ArchiveMatch(ctx, rec); err != nil {
			r.logger.Error("archiving match", "match", m.ID, "error", err)
		}

		time.AfterFunc(endedMatchRetention, func() { r.evict(m.ID) })
	}()
}

func (r *Registry) evict(id string) {
	r.mu.Lock()
	m, ok := r.matches[id]
	delete(r.matches, id)
	r.mu.Unlock()
	if ok {
		m.session.Stop()
		r.logger.Info("match evicted", "match", id)
	}
}

// Close stops every live session.
func (r *Registry) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, m := range r.matches {
		m.session.Stop()
		delete(r.matches, id)
	}
	return nil
}

// Join adds a player and issues their bearer token.
func (m *Match) Join(name string) (token string, playerID arena.PlayerID, err error) {
	playerID, err = m.join(name, false)
	if err != nil {
		return "", 0, err
	}
	token = newToken(16)
	m.mu.Lock()
	m.tokens[token] = playerID
	m.mu.Unlock()
	return token, playerID, nil
}

func (m *Match) join(name string, host bool) (arena.PlayerID, error) {
	reply := make(chan arena.JoinResult, 1)
	if err := m.post(arena.Join{Name: name, Host: host, Reply: reply}); err != nil {
		return 0, err
	}
	select {
	case res := <-reply:
		return res.PlayerID, res.Err
	case <-time.After(commandTimeout):
		return 0, errors.New("session not responding")
	}
}

// Leave removes the player and revokes their token.
func (m *Match) Leave(token string) error {
	m.mu.Lock()
	playerID, ok := m.tokens[token]
	delete(m.tokens, token)
	m.mu.Unlock()
	if !ok {
		return errNoSession
	}
	return m.post(arena.Leave{PlayerID: playerID})
}

// Submit forwards an answer to the session loop. Validation happens there;
// the transport only authenticates.
func (m *Match) Submit(playerID arena.PlayerID, answer string) error {
	return m.post(arena.Submit{From: playerID, Answer: answer})
}

// Start begins the game. Host only; the caller has already checked that.
func (m *Match) Start() error {
	reply := make(chan error, 1)
	if err := m.post(arena.Start{Reply: reply}); err != nil {
		return err
	}
	select {
	case err := <-reply:
		return err
	case <-time.After(commandTimeout):
		return errors.New("session not responding")
	}
}

// ForceEnd tears the match down on behalf of the host.
func (m *Match) ForceEnd(reason string) error {
	return m.post(arena.ForceEnd{Reason: reason})
}

// Snapshot returns a point-in-time copy of the session state.
func (m *Match) Snapshot() (arena.Snapshot, error) {
	reply := make(chan arena.Snapshot, 1)
	if err := m.post(arena.SnapshotReq{Reply: reply}); err != nil {
		return arena.Snapshot{}, err
	}
	select {
	case snap := <-reply:
		return snap, nil
	case <-time.After(commandTimeout):
		return arena.Snapshot{}, errors.New("session not responding")
	}
}

func (m *Match) post(cmd any) error {
	select {
	case m.session.Inbox <- cmd:
		return nil
	case <-time.After(commandTimeout):
		return errors.New("session inbox full")
	}
}

// PlayerFromToken authenticates a bearer token for this match.
func (m *Match) PlayerFromToken(token string) (arena.PlayerID, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	playerID, ok := m.tokens[token]
	if !ok {
		return 0, errNoSession
	}
	return playerID, nil
}

// IsHostToken reports whether the token belongs to the match host.
func (m *Match) IsHostToken(token string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return token != "" && token == m.hostToken
}
