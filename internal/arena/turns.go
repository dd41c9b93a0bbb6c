package arena

// NextAfter picks the next acting player, round-robin over the alive list
// with wrap-around. When current is no longer in the list (disconnected
// while holding the turn) the rotation restarts from the first entry. An
// empty list returns NoPlayer; the caller must treat that as a game-end
// trigger, never retry.
func NextAfter(alive []PlayerID, current PlayerID) PlayerID {
	if len(alive) == 0 {
		return NoPlayer
	}
	for i, id := range alive {
		if id == current {
			return alive[(i+1)%len(alive)]
		}
	}
	return alive[0]
}
