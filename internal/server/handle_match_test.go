package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/quizbrawl/arena/internal/arena"
	"github.com/quizbrawl/arena/internal/database"
	"github.com/quizbrawl/arena/internal/migrations"
	"github.com/quizbrawl/arena/internal/questions"
)

type testEnv struct {
	router  http.Handler
	store   *SQLiteStore
	catalog *questions.Catalog
	matches *Registry
	broker  *Broker
}

func setupEnv(t *testing.T) *testEnv {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	db, err := database.Open(context.Background(), ":memory:")
	if err != nil {
		t.Fatalf("opening db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := migrations.Run(db); err != nil {
		t.Fatalf("running migrations: %v", err)
	}

	store := NewSQLiteStore(db)
	catalog := questions.NewCatalog(db, logger)
	if _, err := catalog.Create(context.Background(), questions.Question{
		Category: "geo", Prompt: "Capital of France?", Options: []string{"Paris", "Lyon"},
		CorrectAnswer: "Paris", TimeLimitSeconds: 30,
	}); err != nil {
		t.Fatalf("seeding question: %v", err)
	}

	// Short flow delays so game progression does not slow the tests down.
	rules := arena.Rules{
		StartingHealth:    100,
		DamagePerWrong:    20,
		MaxChainLinks:     10,
		CategoryWeights:   map[string]float64{"geo": 1},
		TurnChangeDelay:   time.Millisecond,
		DamageGraceDelay:  time.Millisecond,
		BroadcastGapDelay: time.Millisecond,
	}

	broker := NewBroker(logger)
	matches := NewRegistry(catalog, rules, broker, store, logger)
	t.Cleanup(func() { matches.Close() })

	r := chi.NewRouter()
	addRoutes(r, logger, store, matches, broker, catalog, db, "")

	return &testEnv{router: r, store: store, catalog: catalog, matches: matches, broker: broker}
}

func (e *testEnv) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encoding body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func (e *testEnv) createMatch(t *testing.T, hostName string) CreateMatchResponse {
	t.Helper()
	rec := e.do(t, http.MethodPost, "/api/matches", "", CreateMatchRequest{HostName: hostName})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create match: status = %d, body %s", rec.Code, rec.Body)
	}
	var resp CreateMatchResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decoding: %v", err)
	}
	return resp
}

func (e *testEnv) joinMatch(t *testing.T, matchID, name string) JoinResponse {
	t.Helper()
	rec := e.do(t, http.MethodPost, "/api/matches/"+matchID+"/join", "", JoinRequest{PlayerName: name})
	if rec.Code != http.StatusOK {
		t.Fatalf("join: status = %d, body %s", rec.Code, rec.Body)
	}
	var resp JoinResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decoding: %v", err)
	}
	return resp
}

func TestCreateMatchAndJoin(t *testing.T) {
	env := setupEnv(t)

	created := env.createMatch(t, "alice")
	if created.MatchID == "" || created.HostToken == "" {
		t.Fatalf("create match response incomplete: %+v", created)
	}

	joined := env.joinMatch(t, created.MatchID, "bob")
	if joined.Token == "" || joined.PlayerID == created.PlayerID {
		t.Errorf("join response = %+v", joined)
	}

	rec := env.do(t, http.MethodPost, "/api/matches/"+created.MatchID+"/join", "", JoinRequest{})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("join without name: status = %d, want 400", rec.Code)
	}

	rec = env.do(t, http.MethodPost, "/api/matches/nope/join", "", JoinRequest{PlayerName: "carol"})
	if rec.Code != http.StatusNotFound {
		t.Errorf("join unknown match: status = %d, want 404", rec.Code)
	}
}

func TestStartRequiresHostToken(t *testing.T) {
	env := setupEnv(t)

	created := env.createMatch(t, "alice")
	joined := env.joinMatch(t, created.MatchID, "bob")
	base := "/api/matches/" + created.MatchID

	rec := env.do(t, http.MethodPost, base+"/start", joined.Token, nil)
	if rec.Code != http.StatusForbidden {
		t.Errorf("start with player token: status = %d, want 403", rec.Code)
	}

	rec = env.do(t, http.MethodPost, base+"/start", created.HostToken, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("start with host token: status = %d, body %s", rec.Code, rec.Body)
	}

	rec = env.do(t, http.MethodPost, base+"/start", created.HostToken, nil)
	if rec.Code != http.StatusConflict {
		t.Errorf("second start: status = %d, want 409", rec.Code)
	}
}

func TestAnswerRequiresAuth(t *testing.T) {
	env := setupEnv(t)

	created := env.createMatch(t, "alice")
	env.joinMatch(t, created.MatchID, "bob")
	base := "/api/matches/" + created.MatchID

	rec := env.do(t, http.MethodPost, base+"/answer", "", AnswerRequest{Answer: "Paris"})
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("answer without token: status = %d, want 401", rec.Code)
	}

	rec = env.do(t, http.MethodPost, base+"/answer", created.HostToken, AnswerRequest{Answer: "Paris"})
	if rec.Code != http.StatusAccepted {
		t.Errorf("answer with token: status = %d, want 202", rec.Code)
	}
}

func TestStateSnapshot(t *testing.T) {
	env := setupEnv(t)

	created := env.createMatch(t, "alice")
	env.joinMatch(t, created.MatchID, "bob")
	base := "/api/matches/" + created.MatchID

	rec := env.do(t, http.MethodGet, base+"/state", created.HostToken, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("state: status = %d, body %s", rec.Code, rec.Body)
	}
	var state StateResponse
	if err := json.NewDecoder(rec.Body).Decode(&state); err != nil {
		t.Fatalf("decoding: %v", err)
	}
	if state.State != arena.StateWaitingToStart {
		t.Errorf("state = %q, want waiting_to_start", state.State)
	}
	if len(state.Players) != 2 {
		t.Errorf("players = %d, want 2", len(state.Players))
	}

	if rec := env.do(t, http.MethodPost, base+"/start", created.HostToken, nil); rec.Code != http.StatusOK {
		t.Fatalf("start: status = %d", rec.Code)
	}

	rec = env.do(t, http.MethodGet, base+"/state", created.HostToken, nil)
	if err := json.NewDecoder(rec.Body).Decode(&state); err != nil {
		t.Fatalf("decoding: %v", err)
	}
	if state.State != arena.StateInProgress {
		t.Errorf("state after start = %q, want in_progress", state.State)
	}
	if state.CurrentTurn == arena.NoPlayer {
		t.Error("no current turn after start")
	}
}

func TestLeaveRevokesToken(t *testing.T) {
	env := setupEnv(t)

	created := env.createMatch(t, "alice")
	joined := env.joinMatch(t, created.MatchID, "bob")
	base := "/api/matches/" + created.MatchID

	rec := env.do(t, http.MethodPost, base+"/leave", joined.Token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("leave: status = %d, body %s", rec.Code, rec.Body)
	}

	rec = env.do(t, http.MethodGet, base+"/state", joined.Token, nil)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("state after leave: status = %d, want 401", rec.Code)
	}
}

func TestForceEndHostOnly(t *testing.T) {
	env := setupEnv(t)

	created := env.createMatch(t, "alice")
	joined := env.joinMatch(t, created.MatchID, "bob")
	base := "/api/matches/" + created.MatchID

	rec := env.do(t, http.MethodPost, base+"/end", joined.Token, ForceEndRequest{Reason: "bye"})
	if rec.Code != http.StatusForbidden {
		t.Errorf("end with player token: status = %d, want 403", rec.Code)
	}

	rec = env.do(t, http.MethodPost, base+"/end", created.HostToken, ForceEndRequest{Reason: "bye"})
	if rec.Code != http.StatusOK {
		t.Errorf("end with host token: status = %d, want 200", rec.Code)
	}
}

func TestBrokerFansOutMatchMessages(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	broker := NewBroker(logger)

	ch := broker.Subscribe("m1")
	defer broker.Unsubscribe("m1", ch)
	other := broker.Subscribe("m2")
	defer broker.Unsubscribe("m2", other)

	broker.Publish("m1", arena.Message{
		Type:      arena.MsgPlayerTurnChanged,
		Direction: arena.HostToAll,
		Payload:   arena.TurnChangedPayload{PlayerID: 3},
	})

	select {
	case data := <-ch:
		var msg struct {
			Type string `json:"type"`
		}
		if err := json.Unmarshal(data, &msg); err != nil {
			t.Fatalf("decoding: %v", err)
		}
		if msg.Type != string(arena.MsgPlayerTurnChanged) {
			t.Errorf("type = %q", msg.Type)
		}
	case <-time.After(time.Second):
		t.Fatal("no message delivered")
	}

	select {
	case <-other:
		t.Fatal("message leaked to another match")
	default:
	}
}

func TestForceEndBodyOptionalButValidated(t *testing.T) {
	env := setupEnv(t)

	created := env.createMatch(t, "alice")
	base := "/api/matches/" + created.MatchID

	req := httptest.NewRequest(http.MethodPost, base+"/end", strings.NewReader("{not json"))
	req.Header.Set("Authorization", "Bearer "+created.HostToken)
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("end with malformed body: status = %d, want 400", rec.Code)
	}

	// An empty body is allowed and falls back to the default reason.
	rec2 := env.do(t, http.MethodPost, base+"/end", created.HostToken, nil)
	if rec2.Code != http.StatusOK {
		t.Errorf("end with empty body: status = %d, want 200", rec2.Code)
	}
}
