package app

import (
	"math/rand"
	"time"

	"truco/internal/domain"
)

// Service contains Truco use-cases operating on domain state.
// Every method validates before mutating: a returned error means the game is untouched.
// Callers serialize access per game; the Service itself holds no match state.
type Service struct {
	rng *rand.Rand
}

// NewService constructs a Service with provided rng or a time-seeded default.
func NewService(rng *rand.Rand) *Service {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Service{rng: rng}
}

// Join registers userID into the first free seat. The second registration moves the
// match from waiting to dealing. Joining again with a seated user is a no-op.
func (s *Service) Join(game *domain.Game, userID string) ([]Event, error) {
	if game.Phase == domain.PhaseFinished {
		return nil, ErrMatchTerminal
	}
	if userID == "" {
		return nil, ErrUnknownPlayer
	}
	if game.SeatOf(userID) != domain.NoSeat {
		return nil, nil
	}
	seat := domain.LowestAvailableSeat(&game.Players)
	if seat == domain.NoSeat {
		return nil, ErrMatchFull
	}
	if game.Phase != domain.PhaseWaiting {
		return nil, ErrWrongPhase
	}

	game.Players[seat] = userID
	if game.PlayerCount() == PlayersPerMatch {
		game.Phase = domain.PhaseDealing
	}
	return []Event{{
		Kind:    EventPlayerJoined,
		Payload: PlayerJoinedPayload{UserID: userID, Seat: seat},
	}}, nil
}

// DealCards starts a new hand: fresh shuffled deck, turn-up, manilhas, three cards each.
func (s *Service) DealCards(game *domain.Game) ([]Event, error) {
	if game.Phase == domain.PhaseFinished {
		return nil, ErrMatchTerminal
	}
	if game.PlayerCount() != PlayersPerMatch {
		return nil, ErrTooFewPlayers
	}
	if game.Phase != domain.PhaseDealing {
		return nil, ErrWrongPhase
	}

	deck := domain.BuildDeck()
	domain.Shuffle(deck, s.rng)

	turnUp, deck := domain.DrawTurnUp(deck)
	manilha := domain.ManilhaRank(turnUp.Rank)

	handA, deck := domain.Draw(deck, domain.HandSize)
	handB, deck := domain.Draw(deck, domain.HandSize)

	// One pass over every card location so no copy of a card can diverge.
	domain.ApplyManilhaStrength(deck, manilha)
	domain.ApplyManilhaStrength(handA, manilha)
	domain.ApplyManilhaStrength(handB, manilha)
	turnUpSlice := []domain.Card{turnUp}
	domain.ApplyManilhaStrength(turnUpSlice, manilha)

	game.Deck = deck
	game.Discard = nil
	game.TurnUp = turnUpSlice[0]
	game.HasTurnUp = true
	game.ManilhaRank = manilha
	game.Hands = domain.Pair[[]domain.Card]{A: handA, B: handB}
	game.Played = nil
	game.RoundWins = domain.Pair[int]{}
	game.RoundIndex = 1
	game.Wager = domain.NewWager()
	game.HandNumber++
	game.Phase = domain.PhasePlaying
	game.Turn = game.HandStarter

	events := make([]Event, 0, PlayersPerMatch+1)
	events = append(events, Event{
		Kind: EventHandStarted,
		Payload: HandStartedPayload{
			HandNumber:      game.HandNumber,
			TurnUp:          game.TurnUp,
			ManilhaRank:     manilha,
			FirstTurnUserID: game.PlayerAt(game.Turn),
		},
	})
	for _, seat := range []domain.Seat{domain.SeatA, domain.SeatB} {
		userID := game.PlayerAt(seat)
		events = append(events, Event{
			Kind:       EventHandDealt,
			Payload:    HandDealtPayload{UserID: userID, Hand: append([]domain.Card(nil), game.Hands.Get(seat)...)},
			Recipients: []string{userID},
		})
	}
	return events, nil
}

// PlayCard lays the card at cardIndex of the actor's hand. The second card of a round
// resolves it, and possibly the hand and the match.
func (s *Service) PlayCard(game *domain.Game, actorUserID string, cardIndex int) ([]Event, error) {
	seat, err := s.actorOnTurn(game, actorUserID)
	if err != nil {
		return nil, err
	}
	hand := game.Hands.Get(seat)
	if cardIndex < 0 || cardIndex >= len(hand) {
		return nil, ErrInvalidCard
	}

	card, rest := domain.RemoveCardAt(hand, cardIndex)
	game.Hands.Set(seat, rest)
	game.Played = append(game.Played, domain.Play{Seat: seat, Card: card})

	if len(game.Played) < 2 {
		game.Turn = seat.Other()
		return []Event{{
			Kind:    EventCardPlayed,
			Payload: CardPlayedPayload{UserID: actorUserID, Card: card, NextTurnUserID: game.PlayerAt(game.Turn)},
		}}, nil
	}

	roundEvents := s.resolveRound(game)
	played := Event{
		Kind:    EventCardPlayed,
		Payload: CardPlayedPayload{UserID: actorUserID, Card: card, NextTurnUserID: game.PlayerAt(game.Turn)},
	}
	return append([]Event{played}, roundEvents...), nil
}

// RequestRaise asks the opponent to raise the hand to level. Play is suspended until
// the opponent answers.
func (s *Service) RequestRaise(game *domain.Game, actorUserID string, level domain.RaiseLevel) ([]Event, error) {
	seat, err := s.actorOnTurn(game, actorUserID)
	if err != nil {
		return nil, err
	}
	if !level.Valid() {
		return nil, ErrUnknownRaise
	}
	if int(level) <= game.Wager.CurrentValue {
		return nil, ErrRaiseTooLow
	}

	game.Wager.Pending = true
	game.Wager.RequestedBy = seat
	game.Wager.CurrentValue = int(level)

	return []Event{{
		Kind:    EventRaiseRequested,
		Payload: RaiseRequestedPayload{UserID: actorUserID, Level: level},
	}}, nil
}

// RespondRaise accepts or rejects the pending raise. Rejecting hands the requester the
// requested value and ends the hand.
func (s *Service) RespondRaise(game *domain.Game, actorUserID string, accept bool) ([]Event, error) {
	if game.Phase == domain.PhaseFinished {
		return nil, ErrMatchTerminal
	}
	seat := game.SeatOf(actorUserID)
	if seat == domain.NoSeat {
		return nil, ErrUnknownPlayer
	}
	if game.Phase != domain.PhasePlaying {
		return nil, ErrWrongPhase
	}
	if !game.Wager.Pending {
		return nil, ErrNoRaisePending
	}
	if game.Wager.RequestedBy == seat {
		return nil, ErrSelfResponse
	}

	requester := game.Wager.RequestedBy
	game.Wager.Pending = false
	game.Wager.RequestedBy = domain.NoSeat

	answered := Event{
		Kind:    EventRaiseAnswered,
		Payload: RaiseAnsweredPayload{UserID: actorUserID, Accepted: accept, Value: game.Wager.CurrentValue},
	}
	if accept {
		game.Wager.LastRaiser = requester
		return []Event{answered}, nil
	}
	return append([]Event{answered}, s.endHand(game, requester, HandEndRejected)...), nil
}

// Apply dispatches a message-style action to the matching use-case.
func (s *Service) Apply(game *domain.Game, action Action) ([]Event, error) {
	switch action.Kind {
	case ActionDeal:
		return s.DealCards(game)
	case ActionPlayCard:
		return s.PlayCard(game, action.UserID, action.CardIndex)
	case ActionRequestRaise:
		return s.RequestRaise(game, action.UserID, action.Level)
	case ActionRespondRaise:
		return s.RespondRaise(game, action.UserID, action.Accept)
	}
	return nil, ErrUnknownAction
}

// actorOnTurn checks the preconditions shared by PlayCard and RequestRaise.
func (s *Service) actorOnTurn(game *domain.Game, actorUserID string) (domain.Seat, error) {
	if game.Phase == domain.PhaseFinished {
		return domain.NoSeat, ErrMatchTerminal
	}
	seat := game.SeatOf(actorUserID)
	if seat == domain.NoSeat {
		return domain.NoSeat, ErrUnknownPlayer
	}
	if game.Phase != domain.PhasePlaying {
		return domain.NoSeat, ErrWrongPhase
	}
	if game.Wager.Pending {
		return domain.NoSeat, ErrRaisePending
	}
	if game.Turn != seat {
		return domain.NoSeat, ErrNotYourTurn
	}
	return seat, nil
}

func (s *Service) resolveRound(game *domain.Game) []Event {
	lead, follow := game.Played[0], game.Played[1]
	winner := domain.CompareRound(lead, follow)
	if winner.Valid() {
		game.RoundWins.Set(winner, game.RoundWins.Get(winner)+1)
		game.Turn = winner
	} else {
		game.Turn = lead.Seat
	}

	round := game.RoundIndex
	game.Discard = append(game.Discard, lead.Card, follow.Card)
	game.Played = nil
	game.RoundIndex++

	events := []Event{{
		Kind: EventRoundResolved,
		Payload: RoundResolvedPayload{
			Round:          round,
			WinnerUserID:   game.PlayerAt(winner),
			Draw:           !winner.Valid(),
			RoundWins:      game.RoundWins,
			NextTurnUserID: game.PlayerAt(game.Turn),
		},
	}}

	if handWinner, over := domain.HandWinner(game.RoundWins, game.RoundIndex); over {
		events = append(events, s.endHand(game, handWinner, HandEndRounds)...)
	}
	return events
}

// endHand scores the hand for winner (NoSeat for a drawn hand) and either finishes the
// match or prepares the next deal.
func (s *Service) endHand(game *domain.Game, winner domain.Seat, reason HandEndReason) []Event {
	points := game.Wager.CurrentValue
	if winner.Valid() {
		game.Scores.Set(winner, game.Scores.Get(winner)+points)
	} else {
		points = 0
	}

	for _, p := range game.Played {
		game.Discard = append(game.Discard, p.Card)
	}
	game.Discard = append(game.Discard, game.Hands.A...)
	game.Discard = append(game.Discard, game.Hands.B...)
	game.Played = nil
	game.Hands = domain.Pair[[]domain.Card]{}

	events := []Event{{
		Kind: EventHandEnded,
		Payload: HandEndedPayload{
			WinnerUserID: game.PlayerAt(winner),
			Points:       points,
			Reason:       reason,
			Scores:       game.Scores,
		},
	}}

	if winner.Valid() && game.Scores.Get(winner) >= domain.TargetScore {
		game.Phase = domain.PhaseFinished
		game.Winner = winner
		game.Turn = domain.NoSeat
		return append(events, Event{
			Kind:    EventMatchEnded,
			Payload: MatchEndedPayload{WinnerUserID: game.PlayerAt(winner), Scores: game.Scores},
		})
	}

	game.Wager = domain.NewWager()
	game.HandStarter = game.HandStarter.Other()
	game.Turn = game.HandStarter
	game.Phase = domain.PhaseDealing
	return events
}
