package app

import (
	"errors"
	"fmt"
)

// Root error kinds. Every rejected action wraps exactly one of them and leaves state unchanged.
var (
	ErrIllegalAction = errors.New("illegal action")
	ErrMatchTerminal = errors.New("match finished")
)

var (
	ErrUnknownPlayer  = fmt.Errorf("%w: player not in match", ErrIllegalAction)
	ErrMatchFull      = fmt.Errorf("%w: match is full", ErrIllegalAction)
	ErrTooFewPlayers  = fmt.Errorf("%w: not enough players to deal", ErrIllegalAction)
	ErrWrongPhase     = fmt.Errorf("%w: action not allowed in this phase", ErrIllegalAction)
	ErrNotYourTurn    = fmt.Errorf("%w: not your turn", ErrIllegalAction)
	ErrInvalidCard    = fmt.Errorf("%w: no such card in hand", ErrIllegalAction)
	ErrRaisePending   = fmt.Errorf("%w: a raise is awaiting a response", ErrIllegalAction)
	ErrNoRaisePending = fmt.Errorf("%w: no raise to respond to", ErrIllegalAction)
	ErrSelfResponse   = fmt.Errorf("%w: cannot respond to own raise", ErrIllegalAction)
	ErrRaiseTooLow    = fmt.Errorf("%w: raise must exceed current value", ErrIllegalAction)
	ErrUnknownRaise   = fmt.Errorf("%w: unknown raise level", ErrIllegalAction)
	ErrUnknownAction  = fmt.Errorf("%w: unknown action", ErrIllegalAction)
)

// Error kinds reported to clients.
const (
	KindIllegalAction = "illegal_action"
	KindMatchTerminal = "match_terminal"
)

// ErrorKind classifies a rejected action for the wire. It returns "" for nil and
// KindIllegalAction for anything it does not recognise.
func ErrorKind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrMatchTerminal):
		return KindMatchTerminal
	}
	return KindIllegalAction
}
