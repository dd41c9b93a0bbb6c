package arena

// Commands accepted on the session inbox. Everything that touches game
// state goes through the inbox and is handled on the session's single
// goroutine, including timer continuations.

// Join registers a participant. Issued once per connection.
type Join struct {
	Name  string
	Host  bool
	Reply chan<- JoinResult
}

type JoinResult struct {
	PlayerID PlayerID
	Err      error
}

// Leave is issued on disconnect.
type Leave struct {
	PlayerID PlayerID
}

// Submit is the ClientToHost answer message, already authenticated by the
// transport layer.
type Submit struct {
	From   PlayerID
	Answer string
}

// Start moves the session from WaitingToStart to InProgress.
type Start struct {
	Reply chan<- error
}

// ForceEnd tears the session down externally (host migration, admin stop).
type ForceEnd struct {
	Reason string
}

// SnapshotReq asks for a read-only copy of the session state.
type SnapshotReq struct {
	Reply chan<- Snapshot
}

// Snapshot is a point-in-time copy of the host's view, safe to hand to
// other goroutines.
type Snapshot struct {
	State           State
	Players         []PlayerStatePayload
	CurrentTurn     PlayerID
	QuestionNumber  int
	CurrentQuestion *QuestionPayload
	ChainActive     bool
}

// timerFired wraps a scheduled continuation so it runs on the loop.
type timerFired struct {
	fn func()
}
