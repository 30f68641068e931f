package app

import (
	"sync"

	"truco/internal/domain"
)

// ActionKind names a message-style action.
type ActionKind string

const (
	ActionDeal         ActionKind = "deal"
	ActionPlayCard     ActionKind = "play_card"
	ActionRequestRaise ActionKind = "request_raise"
	ActionRespondRaise ActionKind = "respond_raise"
)

// Action is one player (or session-layer) request against a match.
type Action struct {
	Kind      ActionKind
	UserID    string
	CardIndex int
	Level     domain.RaiseLevel
	Accept    bool
}

// Table is a handle to one match that applies actions one at a time in arrival order.
// Use it when callers are not already serialized per match.
type Table struct {
	mu   sync.Mutex
	svc  *Service
	game *domain.Game
}

// NewTable wraps game. The Table takes ownership; do not touch game directly afterwards.
func NewTable(svc *Service, game *domain.Game) *Table {
	return &Table{svc: svc, game: game}
}

// Join registers a player.
func (t *Table) Join(userID string) ([]Event, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.svc.Join(t.game, userID)
}

// Apply runs action under the table lock.
func (t *Table) Apply(action Action) ([]Event, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.svc.Apply(t.game, action)
}

// Snapshot returns userID's view.
func (t *Table) Snapshot(userID string) Snapshot {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.svc.Snapshot(t.game, userID)
}

// Phase returns the current phase.
func (t *Table) Phase() domain.Phase {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.game.Phase
}

// Deal starts the next hand.
func (t *Table) Deal() ([]Event, error) {
	return t.Apply(Action{Kind: ActionDeal})
}
