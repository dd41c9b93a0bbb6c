package arena

import (
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"strings"
	"sync"
	"time"
)

// State is the session lifecycle.
type State string

const (
	StateUninitialized  State = "uninitialized"
	StateInitializing   State = "initializing"
	StateWaitingToStart State = "waiting_to_start"
	StateInProgress     State = "in_progress"
	StateEnded          State = "ended"
)

var (
	ErrNotWaiting = errors.New("game is not waiting to start")
	ErrNoPlayers  = errors.New("no players to start with")
	ErrEnded      = errors.New("game has ended")
)

// Outcome summarizes how a session ended.
type Outcome struct {
	WinnerID   PlayerID
	WinnerName string
	Reason     string
	Forced     bool
}

// Config wires a session's collaborators. Provider and at least one
// category weight are mandatory; everything else has a usable default.
type Config struct {
	Provider QuestionProvider
	Hooks    HookBus
	Rules    Rules
	Out      Broadcaster
	Sched    Scheduler
	Logger   *slog.Logger
	Rand     *rand.Rand

	// OnEnd runs on the session goroutine once, when the session ends.
	OnEnd func(Outcome)
}

// Session is the host-authoritative coordinator. All state is owned by the
// goroutine running Run; everyone else talks to it through the Inbox.
type Session struct {
	Inbox chan any

	state  State
	roster *Roster
	ledger *Ledger
	orch   *Orchestrator
	hooks  *safeHooks
	rules  Rules
	out    Broadcaster
	sched  Scheduler
	logger *slog.Logger
	onEnd  func(Outcome)

	currentTurn     PlayerID
	turnSeq         int
	questionNumber  int
	currentQuestion *QuestionEnvelope
	pendingDamage   bool
	retriedFetch    bool
	cancelTimer     CancelFunc
	nextID          PlayerID

	quit     chan struct{}
	stopOnce sync.Once
}

// NewSession builds a session and runs its initialization phase. A missing
// provider or an empty category table is fatal: no session is returned and
// nothing will ever run half-configured.
func NewSession(cfg Config) (*Session, error) {
	s := &Session{
		Inbox:  make(chan any, 256),
		state:  StateUninitialized,
		quit:   make(chan struct{}),
		nextID: 1,
	}
	s.state = StateInitializing

	if cfg.Provider == nil {
		return nil, errors.New("question provider is required")
	}
	if len(cfg.Rules.CategoryWeights) == 0 {
		return nil, errors.New("at least one category weight is required")
	}
	for name, w := range cfg.Rules.CategoryWeights {
		if w < 0 {
			return nil, fmt.Errorf("category %q has negative weight", name)
		}
	}

	s.logger = cfg.Logger
	if s.logger == nil {
		s.logger = slog.Default()
	}
	s.rules = cfg.Rules.withDefaults()
	s.out = cfg.Out
	s.sched = cfg.Sched
	if s.sched == nil {
		s.sched = NewScheduler()
	}
	rng := cfg.Rand
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	s.roster = NewRoster(s.logger)
	s.ledger = NewLedger(s.roster)
	s.hooks = newSafeHooks(cfg.Hooks, s.logger)
	s.orch = newOrchestrator(cfg.Provider, s.hooks, s.rules.CategoryWeights, s.rules.MaxChainLinks, rng, s.logger)
	s.onEnd = cfg.OnEnd

	s.state = StateWaitingToStart
	return s, nil
}

// Run processes inbox commands until Stop. Everything mutating session
// state happens here.
func (s *Session) Run() {
	for {
		select {
		case <-s.quit:
			return
		case cmd := <-s.Inbox:
			s.handleCommand(cmd)
		}
	}
}

func (s *Session) Stop() {
	s.stopOnce.Do(func() { close(s.quit) })
}

func (s *Session) handleCommand(cmd any) {
	switch c := cmd.(type) {
	case Join:
		id, err := s.join(c.Name, c.Host)
		if c.Reply != nil {
			c.Reply <- JoinResult{PlayerID: id, Err: err}
		}
	case Leave:
		s.leave(c.PlayerID)
	case Submit:
		s.submit(c.From, c.Answer)
	case Start:
		err := s.startGame()
		if c.Reply != nil {
			c.Reply <- err
		}
	case ForceEnd:
		s.endGame(true, c.Reason)
	case SnapshotReq:
		if c.Reply != nil {
			c.Reply <- s.snapshot()
		}
	case timerFired:
		c.fn()
	default:
		s.logger.Warn("unknown session command", "command", fmt.Sprintf("%T", cmd))
	}
}

// schedule arranges fn to run on the loop after d. The returned cancel only
// prevents the continuation from being posted; fn itself must still
// re-check session state, which is the real cancellation mechanism.
func (s *Session) schedule(d time.Duration, fn func()) CancelFunc {
	return s.sched.AfterFunc(d, func() { s.post(timerFired{fn: fn}) })
}

func (s *Session) post(cmd any) {
	select {
	case s.Inbox <- cmd:
	case <-s.quit:
	}
}

// --- membership ---

func (s *Session) join(name string, host bool) (PlayerID, error) {
	if s.state == StateEnded {
		return NoPlayer, ErrEnded
	}
	id := s.nextID
	s.nextID++
	s.roster.AddPlayer(id, name, host)

	// Mid-game joiners enter the rotation immediately at full health.
	if s.state == StateInProgress {
		s.ledger.Initialize(id, s.rules.StartingHealth)
		s.syncPlayer(id)
	}
	s.logger.Info("player joined", "player", id, "name", name, "host", host)
	return id, nil
}

func (s *Session) leave(id PlayerID) {
	if !s.roster.ContainsPlayer(id) {
		return
	}
	heldTurn := s.state == StateInProgress && id == s.currentTurn
	s.roster.RemovePlayer(id)
	s.logger.Info("player left", "player", id)

	if s.state != StateInProgress {
		return
	}
	if s.roster.AliveCount() <= 1 {
		s.endGame(false, "not enough players")
		return
	}
	if heldTurn {
		s.dropCurrentQuestion()
		s.orch.clearChain()
		if !s.pendingDamage {
			s.advanceTurn()
		}
	}
}

func (s *Session) syncPlayer(id PlayerID) {
	p := s.roster.Get(id)
	if p == nil {
		return
	}
	broadcast(s.out, MsgPlayerStateSync, PlayerStatePayload{
		PlayerID:  p.ID,
		Name:      p.Name,
		IsHost:    p.IsHost,
		Health:    p.Health,
		MaxHealth: p.MaxHealth,
		Alive:     p.Alive,
	})
}

// --- game start ---

func (s *Session) startGame() error {
	if s.state != StateWaitingToStart {
		return ErrNotWaiting
	}
	if s.roster.Len() == 0 {
		return ErrNoPlayers
	}
	for _, p := range s.roster.All() {
		s.ledger.Initialize(p.ID, s.rules.StartingHealth)
	}
	alive := s.roster.AliveIds()
	if len(alive) == 0 {
		return ErrNoPlayers
	}

	s.state = StateInProgress
	s.questionNumber = 0
	s.turnSeq++
	s.currentTurn = alive[0]
	s.logger.Info("game started", "players", s.roster.Len(), "first_turn", s.currentTurn)

	broadcast(s.out, MsgGameStart, GameStartPayload{
		TotalPlayers:      s.roster.Len(),
		AliveCount:        len(alive),
		FirstTurnPlayerID: s.currentTurn,
	})

	// The transport does not order messages of different types relative to
	// each other, so the opening sequence is staggered: snapshot, then turn,
	// then question.
	gap := s.rules.BroadcastGapDelay
	s.schedule(gap, func() {
		if s.state != StateInProgress {
			return
		}
		for _, p := range s.roster.All() {
			s.syncPlayer(p.ID)
		}
		s.schedule(gap, func() {
			if s.state != StateInProgress {
				return
			}
			broadcast(s.out, MsgPlayerTurnChanged, TurnChangedPayload{PlayerID: s.currentTurn})
			s.schedule(gap, s.beginQuestion)
		})
	})
	return nil
}

// --- question flow ---

func (s *Session) beginQuestion() {
	if s.state != StateInProgress || s.pendingDamage {
		return
	}
	if !s.ledger.IsAlive(s.currentTurn) {
		s.advanceTurn()
		return
	}

	env, skip := s.orch.nextQuestion(s.currentTurn)
	if skip != nil {
		s.handleSkip(skip)
		return
	}
	if env == nil {
		if !s.retriedFetch {
			s.retriedFetch = true
			s.logger.Warn("question provider returned nothing, retrying", "player", s.currentTurn)
			s.schedule(s.rules.ProviderRetryDelay, s.beginQuestion)
			return
		}
		s.logger.Error("question provider failed twice, ending session")
		s.endFatal()
		return
	}
	s.retriedFetch = false
	s.questionNumber++
	s.currentQuestion = env

	broadcast(s.out, MsgGameProgress, GameProgressPayload{
		QuestionNumber: s.questionNumber,
		AliveCount:     s.roster.AliveCount(),
		TurnPlayerID:   s.currentTurn,
		Category:       env.Category,
		TimeLimit:      env.TimeLimitSeconds,
	})
	broadcast(s.out, MsgQuestion, QuestionPayload{
		QuestionNumber: s.questionNumber,
		Category:       env.Category,
		PromptText:     env.PromptText,
		Options:        env.Options,
		TimeLimit:      env.TimeLimitSeconds,
		OpaquePayload:  env.OpaquePayload,
	})

	// No answer before the limit resolves as an explicit non-answer. The
	// question number pins the continuation to this question.
	qn := s.questionNumber
	s.cancelTimer = s.schedule(time.Duration(env.TimeLimitSeconds)*time.Second, func() {
		if s.state != StateInProgress || s.currentQuestion == nil || s.questionNumber != qn {
			return
		}
		s.logger.Info("answer timed out", "player", s.currentTurn, "question", qn)
		s.submit(s.currentTurn, "")
	})
}

// handleSkip passes the turn without consuming a question slot. The
// redirect target must be alive; otherwise the rotation decides.
func (s *Session) handleSkip(skip *skipDirective) {
	target := skip.redirect
	if target == NoPlayer || !s.ledger.IsAlive(target) {
		target = NextAfter(s.roster.AliveIds(), s.currentTurn)
	}
	if target == NoPlayer {
		s.endGame(false, "no players left")
		return
	}
	s.logger.Info("turn skipped by hook", "from", s.currentTurn, "to", target)
	s.turnSeq++
	s.currentTurn = target
	broadcast(s.out, MsgPlayerTurnChanged, TurnChangedPayload{PlayerID: target})
	s.schedule(s.rules.TurnChangeDelay, s.beginQuestion)
}

// --- answer processing ---

func (s *Session) submit(from PlayerID, answer string) {
	// Protocol violations are dropped without touching state; a late or
	// misbehaving client must not corrupt the session.
	if s.state != StateInProgress {
		s.logger.Info("dropping answer outside active game", "player", from)
		return
	}
	if from != s.currentTurn {
		s.logger.Info("dropping answer from non-turn player", "player", from, "turn", s.currentTurn)
		return
	}
	if s.currentQuestion == nil {
		s.logger.Info("dropping answer with no open question", "player", from)
		return
	}

	q := s.currentQuestion
	s.dropCurrentQuestion()

	answer = strings.TrimSpace(answer)
	correct := answer != "" && strings.EqualFold(answer, strings.TrimSpace(q.CorrectAnswer))

	broadcast(s.out, MsgAnswerResult, AnswerResultPayload{
		IsCorrect:     correct,
		CorrectAnswer: q.CorrectAnswer,
	})
	broadcast(s.out, MsgPlayerAnswerResult, PlayerAnswerResultPayload{
		PlayerID:   from,
		IsCorrect:  correct,
		AnswerText: answer,
	})

	if correct {
		s.orch.noteAnswer(true, q.CorrectAnswer)
		s.scheduleAdvance()
		return
	}

	damage := s.hooks.damageCalculating(s.rules.DamagePerWrong)
	s.pendingDamage = true
	target := from
	s.schedule(s.rules.DamageGraceDelay, func() {
		s.applyPendingDamage(target, damage)
	})
}

// applyPendingDamage is the grace-delayed penalty. It re-checks everything:
// the session may have ended or the player left while the delay ran.
func (s *Session) applyPendingDamage(target PlayerID, damage int) {
	s.pendingDamage = false
	if s.state != StateInProgress {
		return
	}
	if !s.roster.ContainsPlayer(target) {
		s.orch.clearChain()
		s.scheduleAdvance()
		return
	}

	wasAlive := s.ledger.IsAlive(target)
	newHealth, died := s.ledger.ApplyDamage(target, damage)
	_, maxHealth := s.ledger.HealthOf(target)
	broadcast(s.out, MsgHealthUpdate, HealthUpdatePayload{
		PlayerID:  target,
		NewHealth: newHealth,
		MaxHealth: maxHealth,
	})
	if died && wasAlive {
		p := s.roster.Get(target)
		s.logger.Info("player eliminated", "player", target)
		broadcast(s.out, MsgPlayerDeath, PlayerDeathPayload{PlayerID: target, Name: p.Name})
	}

	s.orch.clearChain()

	if s.roster.AliveCount() <= 1 {
		s.endGame(false, "elimination")
		return
	}
	s.scheduleAdvance()
}

// --- turn rotation ---

// scheduleAdvance delays the rotation by the turn-change gap. The turn
// generation pins the continuation: if anything else moves the turn while
// the delay runs (a leave, a skip), the stale advance is a no-op.
func (s *Session) scheduleAdvance() {
	seq := s.turnSeq
	s.schedule(s.rules.TurnChangeDelay, func() {
		if s.turnSeq != seq {
			return
		}
		s.advanceTurn()
	})
}

func (s *Session) advanceTurn() {
	if s.state != StateInProgress || s.pendingDamage {
		return
	}
	alive := s.roster.AliveIds()
	if len(alive) <= 1 {
		s.endGame(false, "elimination")
		return
	}
	next := NextAfter(alive, s.currentTurn)
	if next == NoPlayer {
		s.endGame(false, "no players left")
		return
	}
	s.turnSeq++
	s.currentTurn = next
	broadcast(s.out, MsgPlayerTurnChanged, TurnChangedPayload{PlayerID: next})
	s.beginQuestion()
}

// --- ending ---

// endGame is idempotent: a second call is a no-op and broadcasts nothing.
func (s *Session) endGame(forced bool, reason string) {
	if s.state == StateEnded {
		return
	}
	s.state = StateEnded
	s.dropCurrentQuestion()
	s.orch.clearChain()

	alive := s.roster.AliveIds()
	outcome := Outcome{Reason: reason, Forced: forced}

	switch {
	case forced:
		broadcast(s.out, MsgForceReturnToRoom, ForceReturnPayload{Reason: reason})
	case len(alive) == 1:
		winner := s.roster.Get(alive[0])
		outcome.WinnerID = winner.ID
		outcome.WinnerName = winner.Name
		broadcast(s.out, MsgGameVictory, GameVictoryPayload{
			WinnerID:   winner.ID,
			WinnerName: winner.Name,
			Reason:     reason,
		})
	default:
		broadcast(s.out, MsgGameEndWithoutWinner, GameEndPayload{Reason: reason})
	}

	s.currentTurn = NoPlayer
	s.pendingDamage = false
	s.logger.Info("game ended", "reason", reason, "forced", forced, "winner", outcome.WinnerID)
	if s.onEnd != nil {
		s.onEnd(outcome)
	}
}

// endFatal terminates after an unrecoverable internal failure, leaving no
// client in an un-terminated state.
func (s *Session) endFatal() {
	s.endGame(false, "internal error")
}

func (s *Session) dropCurrentQuestion() {
	s.currentQuestion = nil
	if s.cancelTimer != nil {
		s.cancelTimer()
		s.cancelTimer = nil
	}
}

// --- snapshot ---

func (s *Session) snapshot() Snapshot {
	snap := Snapshot{
		State:          s.state,
		CurrentTurn:    s.currentTurn,
		QuestionNumber: s.questionNumber,
		ChainActive:    s.orch.chainActive(),
		Players:        make([]PlayerStatePayload, 0, s.roster.Len()),
	}
	for _, p := range s.roster.All() {
		snap.Players = append(snap.Players, PlayerStatePayload{
			PlayerID:  p.ID,
			Name:      p.Name,
			IsHost:    p.IsHost,
			Health:    p.Health,
			MaxHealth: p.MaxHealth,
			Alive:     p.Alive,
		})
	}
	if q := s.currentQuestion; q != nil {
		snap.CurrentQuestion = &QuestionPayload{
			QuestionNumber: s.questionNumber,
			Category:       q.Category,
			PromptText:     q.PromptText,
			Options:        q.Options,
			TimeLimit:      q.TimeLimitSeconds,
			OpaquePayload:  q.OpaquePayload,
		}
	}
	return snap
}
