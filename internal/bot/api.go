package bot

import (
	"truco/internal/app"
	"truco/internal/domain"
)

// MoveKind enumerates what a bot can do on its turn.
type MoveKind string

const (
	MovePlay   MoveKind = "play"
	MoveRaise  MoveKind = "raise"
	MoveAccept MoveKind = "accept"
	MoveReject MoveKind = "reject"
)

// Move represents the decision made by the AI.
type Move struct {
	Kind      MoveKind
	CardIndex int
	Level     domain.RaiseLevel
}

// Action converts the move into the engine action submitted on behalf of userID.
func (m Move) Action(userID string) app.Action {
	switch m.Kind {
	case MoveRaise:
		return app.Action{Kind: app.ActionRequestRaise, UserID: userID, Level: m.Level}
	case MoveAccept:
		return app.Action{Kind: app.ActionRespondRaise, UserID: userID, Accept: true}
	case MoveReject:
		return app.Action{Kind: app.ActionRespondRaise, UserID: userID, Accept: false}
	}
	return app.Action{Kind: app.ActionPlayCard, UserID: userID, CardIndex: m.CardIndex}
}

// Brain is the interface that all bot strategies must implement.
// Decide returns ok=false when the viewer has nothing to do.
type Brain interface {
	Decide(view app.Snapshot) (move Move, ok bool)
}
