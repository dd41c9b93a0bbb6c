package arena

// Message catalogue for the host sync channel. The host coordinator is the
// only sender of HostToAll/HostToOne messages; clients only ever send
// SubmitAnswer. Delivery is assumed reliable and per-sender ordered, but
// at-least-once: receivers must apply every payload idempotently (see
// Projection).

type Direction string

const (
	HostToAll    Direction = "host_to_all"
	HostToOne    Direction = "host_to_one"
	ClientToHost Direction = "client_to_host"
)

type MessageType string

const (
	MsgGameStart             MessageType = "game_start"
	MsgPlayerStateSync       MessageType = "player_state_sync"
	MsgPlayerTurnChanged     MessageType = "player_turn_changed"
	MsgGameProgress          MessageType = "game_progress"
	MsgQuestion              MessageType = "question"
	MsgSubmitAnswer          MessageType = "submit_answer"
	MsgAnswerResult          MessageType = "answer_result"
	MsgPlayerAnswerResult    MessageType = "player_answer_result"
	MsgHealthUpdate          MessageType = "health_update"
	MsgPlayerDeath           MessageType = "player_death"
	MsgGameVictory           MessageType = "game_victory"
	MsgGameEndWithoutWinner  MessageType = "game_end_without_winner"
	MsgForceReturnToRoom     MessageType = "force_return_to_room"
)

// Message is the envelope put on the wire. Payload is one of the typed
// payload structs below, matching Type.
type Message struct {
	Type      MessageType `json:"type"`
	Direction Direction   `json:"direction"`
	Payload   any         `json:"payload"`
}

type GameStartPayload struct {
	TotalPlayers      int      `json:"totalPlayers"`
	AliveCount        int      `json:"aliveCount"`
	FirstTurnPlayerID PlayerID `json:"firstTurnPlayerId"`
}

type PlayerStatePayload struct {
	PlayerID  PlayerID `json:"playerId"`
	Name      string   `json:"name"`
	IsHost    bool     `json:"isHost"`
	Health    int      `json:"health"`
	MaxHealth int      `json:"maxHealth"`
	Alive     bool     `json:"alive"`
}

type TurnChangedPayload struct {
	PlayerID PlayerID `json:"playerId"`
}

type GameProgressPayload struct {
	QuestionNumber int      `json:"questionNumber"`
	AliveCount     int      `json:"aliveCount"`
	TurnPlayerID   PlayerID `json:"turnPlayerId"`
	Category       string   `json:"category"`
	TimeLimit      int      `json:"timeLimit"`
}

type QuestionPayload struct {
	QuestionNumber int      `json:"questionNumber"`
	Category       string   `json:"category"`
	PromptText     string   `json:"promptText"`
	Options        []string `json:"options"`
	TimeLimit      int      `json:"timeLimit"`
	OpaquePayload  string   `json:"opaquePayload,omitempty"`
}

type SubmitAnswerPayload struct {
	AnswerText string `json:"answerText"`
}

type AnswerResultPayload struct {
	IsCorrect     bool   `json:"isCorrect"`
	CorrectAnswer string `json:"correctAnswer"`
}

type PlayerAnswerResultPayload struct {
	PlayerID   PlayerID `json:"playerId"`
	IsCorrect  bool     `json:"isCorrect"`
	AnswerText string   `json:"answerText"`
}

type HealthUpdatePayload struct {
	PlayerID  PlayerID `json:"playerId"`
	NewHealth int      `json:"newHealth"`
	MaxHealth int      `json:"maxHealth"`
}

type PlayerDeathPayload struct {
	PlayerID PlayerID `json:"playerId"`
	Name     string   `json:"name"`
}

type GameVictoryPayload struct {
	WinnerID   PlayerID `json:"winnerId"`
	WinnerName string   `json:"winnerName"`
	Reason     string   `json:"reason"`
}

type GameEndPayload struct {
	Reason string `json:"reason"`
}

type ForceReturnPayload struct {
	Reason string `json:"reason"`
}

// Broadcaster carries host broadcasts to every participant. Implementations
// must not block the caller; the coordinator runs on a single goroutine.
type Broadcaster interface {
	Broadcast(msg Message)
}

func broadcast(b Broadcaster, t MessageType, payload any) {
	if b == nil {
		return
	}
	b.Broadcast(Message{Type: t, Direction: HostToAll, Payload: payload})
}
