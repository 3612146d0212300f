package vacancy

import "github.com/anvarov/ishbot/internal/database"

// transitions is the authoritative status state machine: pending moves to
// approved or rejected, approved moves to filled, and rejected/filled are
// terminal.
var transitions = map[database.Status][]database.Status{
	database.StatusPending:  {database.StatusApproved, database.StatusRejected},
	database.StatusApproved: {database.StatusFilled},
	database.StatusRejected: {},
	database.StatusFilled:   {},
}

// CanTransition reports whether a vacancy may move from one status to another.
func CanTransition(from, to database.Status) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}
