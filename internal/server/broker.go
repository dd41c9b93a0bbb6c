package server

import (
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/quizbrawl/arena/internal/arena"
)

// Broker is an in-process pub/sub for match broadcasts, keyed by match ID.
// Published messages are JSON-encoded once and fanned out to every
// subscriber of that match.
type Broker struct {
	logger *slog.Logger
	mu     sync.RWMutex
	subs   map[string]map[chan []byte]struct{}
}

func NewBroker(logger *slog.Logger) *Broker {
	return &Broker{
		logger: logger,
		subs:   make(map[string]map[chan []byte]struct{}),
	}
}

// Subscribe returns a channel that receives JSON-encoded messages for the
// given match.
func (b *Broker) Subscribe(matchID string) chan []byte {
	ch := make(chan []byte, 32)
	b.mu.Lock()
	if b.subs[matchID] == nil {
		b.subs[matchID] = make(map[chan []byte]struct{})
	}
	b.subs[matchID][ch] = struct{}{}
	b.mu.Unlock()
	return ch
}

// Unsubscribe removes a channel from the match's subscribers.
func (b *Broker) Unsubscribe(matchID string, ch chan []byte) {
	b.mu.Lock()
	delete(b.subs[matchID], ch)
	if len(b.subs[matchID]) == 0 {
		delete(b.subs, matchID)
	}
	b.mu.Unlock()
}

// Publish sends a message to all subscribers of the given match.
func (b *Broker) Publish(matchID string, msg arena.Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		b.logger.Error("encoding broadcast", "match", matchID, "type", msg.Type, "error", err)
		return
	}
	b.mu.RLock()
	for ch := range b.subs[matchID] {
		select {
		case ch <- data:
		default:
			// Drop if subscriber is slow.
		}
	}
	b.mu.RUnlock()
}

// publisher adapts the broker to a single match's broadcast channel.
func (b *Broker) publisher(matchID string) arena.Broadcaster {
	return matchPublisher{broker: b, matchID: matchID}
}

type matchPublisher struct {
	broker  *Broker
	matchID string
}

func (p matchPublisher) Broadcast(msg arena.Message) {
	p.broker.Publish(p.matchID, msg)
}
