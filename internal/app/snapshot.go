package app

import "truco/internal/domain"

// Snapshot is a per-player view of a match. It never carries the opponent's cards or
// the undealt deck.
type Snapshot struct {
	UserID  string
	Seat    domain.Seat
	Variant string
	Phase   domain.Phase
	Players [2]string

	Hand              []domain.Card
	OpponentCardCount int
	Played            []domain.Play
	TurnUp            *domain.Card
	ManilhaRank       domain.Rank

	Scores     domain.Pair[int]
	RoundWins  domain.Pair[int]
	RoundIndex int
	HandNumber int
	Wager      domain.Wager

	TurnUserID   string
	WinnerUserID string
}

// OnTurn reports whether the viewer is the player to act.
func (s Snapshot) OnTurn() bool {
	return s.UserID != "" && s.TurnUserID == s.UserID
}

// AwaitingResponse reports whether the viewer must answer a pending raise.
func (s Snapshot) AwaitingResponse() bool {
	return s.Wager.Pending && s.Seat.Valid() && s.Wager.RequestedBy != s.Seat
}

// OwnRoundWins returns the viewer's round wins in the current hand.
func (s Snapshot) OwnRoundWins() int {
	if !s.Seat.Valid() {
		return 0
	}
	return s.RoundWins.Get(s.Seat)
}

// Snapshot builds the view of game for userID. Slices are copies.
func (s *Service) Snapshot(game *domain.Game, userID string) Snapshot {
	seat := game.SeatOf(userID)
	snap := Snapshot{
		UserID:       userID,
		Seat:         seat,
		Variant:      game.Variant,
		Phase:        game.Phase,
		Players:      game.Players,
		Played:       append([]domain.Play(nil), game.Played...),
		ManilhaRank:  game.ManilhaRank,
		Scores:       game.Scores,
		RoundWins:    game.RoundWins,
		RoundIndex:   game.RoundIndex,
		HandNumber:   game.HandNumber,
		Wager:        game.Wager,
		TurnUserID:   game.PlayerAt(game.Turn),
		WinnerUserID: game.PlayerAt(game.Winner),
	}
	if game.HasTurnUp {
		turnUp := game.TurnUp
		snap.TurnUp = &turnUp
	}
	if seat.Valid() {
		snap.Hand = append([]domain.Card(nil), game.Hands.Get(seat)...)
		snap.OpponentCardCount = len(game.Hands.Get(seat.Other()))
	}
	return snap
}
