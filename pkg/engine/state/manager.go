// Package state tracks the explicit conversation state of a session and the
// transitions the dialogue allows between them.
package state

import (
	"log"

	"smart-hire-be/pkg/store"
)

// valid lists, per state, the states a transition may land in next. Stale UI
// buttons can legally arrive out of order (a user may click an old
// suggestion minutes later), so an unlisted transition is applied anyway but
// logged for diagnosis; the table documents the nominal flow.
var valid = map[store.State][]store.State{
	store.StateIdle:                 {store.StateMatched, store.StateNoMatch, store.StateChoosingContractCandidate, store.StateChoosingContractType, store.StateAwaitingCandidateName},
	store.StateMatched:              {store.StateSelectingInviteCount, store.StateChoosingContractCandidate, store.StateChoosingContractType, store.StateIdle},
	store.StateNoMatch:              {store.StateIdle, store.StateNoMatch},
	store.StateSelectingInviteCount: {store.StateSelectingCandidates, store.StateAwaitingDate},
	store.StateSelectingCandidates:  {store.StateSelectingCandidates, store.StateAwaitingDate},
	store.StateAwaitingDate:         {store.StateAwaitingLocation},
	store.StateAwaitingLocation:     {store.StateInvitationsSent, store.StateAwaitingLocation},
	store.StateInvitationsSent:      {store.StateSelectingInviteCount, store.StateIdle},

	store.StateChoosingContractCandidate: {store.StateChoosingContractType, store.StateAwaitingSalary},
	store.StateChoosingContractType:      {store.StateAwaitingSalary, store.StateChoosingContractCandidate},
	store.StateAwaitingSalary:            {store.StateAwaitingStartDate},
	store.StateAwaitingStartDate:         {store.StateAwaitingEndDate, store.StateContractGenerated},
	store.StateAwaitingEndDate:           {store.StateContractGenerated},
	store.StateContractGenerated:         {store.StateIdle, store.StateSelectingInviteCount},

	store.StateAwaitingCandidateName: {store.StateChoosingContractType, store.StateChoosingContractCandidate, store.StateAwaitingCandidateName, store.StateIdle},
}

// Manager applies and logs state transitions.
type Manager struct {
	logger *log.Logger
}

func NewManager(logger *log.Logger) *Manager {
	return &Manager{logger: logger}
}

// Transition moves the session to the given state, reporting whether the
// move was in the nominal table.
func (m *Manager) Transition(session *store.Session, to store.State) bool {
	from := session.State
	session.State = to
	if from == to {
		return true
	}
	for _, next := range valid[from] {
		if next == to {
			m.logger.Printf("[STATE] %s: %s -> %s", session.ID, from, to)
			return true
		}
	}
	// Reset-style jumps are always legal.
	if to == store.StateIdle {
		m.logger.Printf("[STATE] %s: %s -> %s (reset)", session.ID, from, to)
		return true
	}
	m.logger.Printf("[STATE] %s: %s -> %s (off the nominal path, likely stale button)", session.ID, from, to)
	return false
}
