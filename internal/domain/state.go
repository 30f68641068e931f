package domain

// Phase represents the lifecycle stage of a Truco match.
type Phase string

const (
	// PhaseWaiting is the initial state while fewer than two players are registered.
	PhaseWaiting Phase = "waiting"
	// PhaseDealing is between hands; cards must be dealt before play resumes.
	PhaseDealing Phase = "dealing"
	// PhasePlaying is the active hand. A pending raise is a sub-state of playing.
	PhasePlaying Phase = "playing"
	// PhaseFinished is terminal: a player reached the target score.
	PhaseFinished Phase = "finished"
)

const (
	// TargetScore ends the match once a player's score reaches it.
	TargetScore = 12
	// HandSize is the number of cards dealt to each player.
	HandSize = 3
	// RoundsPerHand is the maximum number of rounds in a hand.
	RoundsPerHand = 3
	// RoundsToWin is the round-win count that ends a hand early.
	RoundsToWin = 2
	// InitialWager is the point value of a hand before any raise.
	InitialWager = 1
)

// Seat identifies one slot of the fixed two-player pair.
type Seat int8

const (
	NoSeat Seat = -1
	SeatA  Seat = 0
	SeatB  Seat = 1
)

// Other returns the opposing seat.
func (s Seat) Other() Seat {
	switch s {
	case SeatA:
		return SeatB
	case SeatB:
		return SeatA
	}
	return NoSeat
}

// Valid reports whether s addresses one of the two seats.
func (s Seat) Valid() bool {
	return s == SeatA || s == SeatB
}

func (s Seat) String() string {
	switch s {
	case SeatA:
		return "A"
	case SeatB:
		return "B"
	}
	return "none"
}

// Pair holds one value per seat. Its order is fixed for the match's lifetime.
type Pair[T any] struct {
	A T
	B T
}

// Get returns the value for seat s. s must be valid.
func (p *Pair[T]) Get(s Seat) T {
	if s == SeatB {
		return p.B
	}
	return p.A
}

// Set stores v for seat s. s must be valid.
func (p *Pair[T]) Set(s Seat, v T) {
	if s == SeatB {
		p.B = v
		return
	}
	p.A = v
}

// Play is a card laid down by a seat during the current round.
type Play struct {
	Seat Seat
	Card Card
}

// Wager tracks the value of the current hand and any pending raise.
type Wager struct {
	Pending     bool
	RequestedBy Seat // NoSeat unless Pending
	// CurrentValue holds the requested level while a raise is pending.
	CurrentValue int
	// LastRaiser is the seat whose raise was last accepted this hand.
	LastRaiser Seat
}

// NewWager returns the wager every hand starts with.
func NewWager() Wager {
	return Wager{RequestedBy: NoSeat, CurrentValue: InitialWager, LastRaiser: NoSeat}
}

// Game is the authoritative state of a single match. It is not safe for concurrent use.
type Game struct {
	Variant string
	Phase   Phase

	// Players holds user IDs in seat order; an empty string is an unregistered seat.
	Players [2]string

	Deck        []Card // undealt remainder of the current hand
	Discard     []Card // resolved plays and leftover hand cards
	TurnUp      Card
	HasTurnUp   bool
	ManilhaRank Rank
	Hands       Pair[[]Card]
	Played      []Play

	RoundWins  Pair[int]
	RoundIndex int
	Scores     Pair[int]
	Wager      Wager

	Turn        Seat
	HandStarter Seat
	HandNumber  int
	Winner      Seat
}

// NewGame returns a match in the waiting phase.
func NewGame(variant string) *Game {
	return &Game{
		Variant:     variant,
		Phase:       PhaseWaiting,
		Wager:       NewWager(),
		Turn:        NoSeat,
		HandStarter: SeatA,
		Winner:      NoSeat,
		RoundIndex:  1,
	}
}

// SeatOf returns the seat of userID or NoSeat.
func (g *Game) SeatOf(userID string) Seat {
	if userID == "" {
		return NoSeat
	}
	for i, id := range g.Players {
		if id == userID {
			return Seat(i)
		}
	}
	return NoSeat
}

// PlayerAt returns the user ID registered at seat s.
func (g *Game) PlayerAt(s Seat) string {
	if !s.Valid() {
		return ""
	}
	return g.Players[s]
}

// PlayerCount returns the number of registered players.
func (g *Game) PlayerCount() int {
	n := 0
	for _, id := range g.Players {
		if id != "" {
			n++
		}
	}
	return n
}

// CardsInPlay counts every card the game currently accounts for, turn-up included.
func (g *Game) CardsInPlay() int {
	n := len(g.Deck) + len(g.Discard) + len(g.Hands.A) + len(g.Hands.B) + len(g.Played)
	if g.HasTurnUp {
		n++
	}
	return n
}
