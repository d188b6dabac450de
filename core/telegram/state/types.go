package state

// Session is the conversation state of one user.
type Session[P comparable, D any] struct {
	Prompt P
	Draft  *D
}

// Idle reports whether the session awaits no input.
func (s Session[P, D]) Idle() bool {
	var zero P
	return s.Prompt == zero
}

// Manager stores sessions keyed by user id.
type Manager[P comparable, D any] interface {
	// Get returns a copy of the user's session; absent users are idle.
	Get(userID int64) Session[P, D]
	// Begin sets a new prompt and drops any staged draft.
	Begin(userID int64, prompt P)
	// Stage moves to prompt keeping draft for the next step.
	Stage(userID int64, prompt P, draft *D)
	// Clear returns the user to idle.
	Clear(userID int64)
	// Active counts users with a pending prompt.
	Active() int
}
