package arena

// Projection is the receiver side of the sync channel: a read-only view of
// the session rebuilt purely from host broadcasts. The transport delivers
// at-least-once, so Apply must tolerate replays — every payload carries
// absolute values and applying the same message twice leaves the view
// unchanged.
type Projection struct {
	State          State
	Players        map[PlayerID]PlayerStatePayload
	CurrentTurn    PlayerID
	QuestionNumber int
	Question       *QuestionPayload
	LastResult     *AnswerResultPayload
	WinnerID       PlayerID
	EndReason      string
}

func NewProjection() *Projection {
	return &Projection{
		State:   StateWaitingToStart,
		Players: make(map[PlayerID]PlayerStatePayload),
	}
}

// Apply folds one broadcast into the view. Unknown message types are
// ignored so old clients survive catalogue growth.
func (p *Projection) Apply(msg Message) {
	switch msg.Type {
	case MsgGameStart:
		if pl, ok := msg.Payload.(GameStartPayload); ok {
			p.State = StateInProgress
			p.CurrentTurn = pl.FirstTurnPlayerID
		}
	case MsgPlayerStateSync:
		if pl, ok := msg.Payload.(PlayerStatePayload); ok {
			p.Players[pl.PlayerID] = pl
		}
	case MsgPlayerTurnChanged:
		if pl, ok := msg.Payload.(TurnChangedPayload); ok {
			p.CurrentTurn = pl.PlayerID
		}
	case MsgQuestion:
		if pl, ok := msg.Payload.(QuestionPayload); ok {
			// A replayed question for an older number must not roll the
			// view backwards.
			if pl.QuestionNumber >= p.QuestionNumber {
				p.QuestionNumber = pl.QuestionNumber
				q := pl
				p.Question = &q
				p.LastResult = nil
			}
		}
	case MsgAnswerResult:
		if pl, ok := msg.Payload.(AnswerResultPayload); ok {
			r := pl
			p.LastResult = &r
			p.Question = nil
		}
	case MsgHealthUpdate:
		if pl, ok := msg.Payload.(HealthUpdatePayload); ok {
			rec, known := p.Players[pl.PlayerID]
			if !known {
				rec = PlayerStatePayload{PlayerID: pl.PlayerID}
			}
			rec.Health = pl.NewHealth
			rec.MaxHealth = pl.MaxHealth
			rec.Alive = pl.NewHealth > 0
			p.Players[pl.PlayerID] = rec
		}
	case MsgPlayerDeath:
		if pl, ok := msg.Payload.(PlayerDeathPayload); ok {
			if rec, known := p.Players[pl.PlayerID]; known {
				rec.Health = 0
				rec.Alive = false
				p.Players[pl.PlayerID] = rec
			}
		}
	case MsgGameVictory:
		if pl, ok := msg.Payload.(GameVictoryPayload); ok {
			p.State = StateEnded
			p.WinnerID = pl.WinnerID
			p.EndReason = pl.Reason
			p.Question = nil
		}
	case MsgGameEndWithoutWinner:
		if pl, ok := msg.Payload.(GameEndPayload); ok {
			p.State = StateEnded
			p.WinnerID = NoPlayer
			p.EndReason = pl.Reason
			p.Question = nil
		}
	case MsgForceReturnToRoom:
		if pl, ok := msg.Payload.(ForceReturnPayload); ok {
			p.State = StateEnded
			p.EndReason = pl.Reason
			p.Question = nil
		}
	}
}

// AliveCount reports how many players the view currently believes alive.
func (p *Projection) AliveCount() int {
	n := 0
	for _, rec := range p.Players {
		if rec.Alive {
			n++
		}
	}
	return n
}
