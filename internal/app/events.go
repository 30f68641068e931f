package app

import "truco/internal/domain"

// EventKind identifies emitted domain events for Nakama dispatch.
type EventKind string

const (
	EventPlayerJoined   EventKind = "player_joined"
	EventHandStarted    EventKind = "hand_started"
	EventHandDealt      EventKind = "hand_dealt"
	EventCardPlayed     EventKind = "card_played"
	EventRoundResolved  EventKind = "round_resolved"
	EventRaiseRequested EventKind = "raise_requested"
	EventRaiseAnswered  EventKind = "raise_answered"
	EventHandEnded      EventKind = "hand_ended"
	EventMatchEnded     EventKind = "match_ended"
)

// Event is a domain/app event with optional targeted recipients.
type Event struct {
	Kind       EventKind
	Payload    any
	Recipients []string // user IDs; empty means broadcast
}

type PlayerJoinedPayload struct {
	UserID string
	Seat   domain.Seat
}

type HandStartedPayload struct {
	HandNumber      int
	TurnUp          domain.Card
	ManilhaRank     domain.Rank
	FirstTurnUserID string
}

// HandDealtPayload is sent privately to the owner of the hand.
type HandDealtPayload struct {
	UserID string
	Hand   []domain.Card
}

type CardPlayedPayload struct {
	UserID         string
	Card           domain.Card
	NextTurnUserID string
}

type RoundResolvedPayload struct {
	Round          int
	WinnerUserID   string // empty on a draw
	Draw           bool
	RoundWins      domain.Pair[int]
	NextTurnUserID string
}

type RaiseRequestedPayload struct {
	UserID string
	Level  domain.RaiseLevel
}

type RaiseAnsweredPayload struct {
	UserID   string
	Accepted bool
	Value    int
}

// HandEndReason says why a hand stopped.
type HandEndReason string

const (
	HandEndRounds   HandEndReason = "rounds"
	HandEndRejected HandEndReason = "raise_rejected"
)

type HandEndedPayload struct {
	WinnerUserID string // empty when the hand was drawn
	Points       int
	Reason       HandEndReason
	Scores       domain.Pair[int]
}

type MatchEndedPayload struct {
	WinnerUserID string
	Scores       domain.Pair[int]
}
