package domain

import "math/rand"

// DeckSize is the number of cards in a Truco deck (8s, 9s and 10s removed).
const DeckSize = 40

// Suit is a card suit.
type Suit int8

const (
	Hearts Suit = iota
	Diamonds
	Spades
	Clubs
)

// Suits lists every suit in deck-building order.
var Suits = [4]Suit{Hearts, Diamonds, Spades, Clubs}

// Rank is a card rank, ordered from weakest to strongest base value.
type Rank int8

const (
	Four Rank = iota
	Five
	Six
	Seven
	Queen
	Jack
	King
	Ace
	Two
	Three
)

// Ranks lists every rank in the cyclic strength order used to derive the manilha.
var Ranks = [10]Rank{Four, Five, Six, Seven, Queen, Jack, King, Ace, Two, Three}

// manilhaBase is added to the suit priority to compute a manilha's strength.
// The highest base strength is 10, so every manilha outranks every plain card.
const manilhaBase = 14

// Card is a single card. Strength and IsManilha are fixed once the turn-up is known.
type Card struct {
	Suit      Suit
	Rank      Rank
	Strength  int
	IsManilha bool
}

// BaseStrength returns the strength a rank has when it is not the manilha (4=1 ... 3=10).
func BaseStrength(r Rank) int {
	return int(r) + 1
}

// SuitPriority orders manilhas: diamonds < spades < hearts < clubs.
func SuitPriority(s Suit) int {
	switch s {
	case Diamonds:
		return 0
	case Spades:
		return 1
	case Hearts:
		return 2
	case Clubs:
		return 3
	}
	return -1
}

// BaseStrength ignores any manilha promotion.
func (c Card) BaseStrength() int {
	return BaseStrength(c.Rank)
}

// SameCard reports whether two cards are the same physical card.
func (c Card) SameCard(o Card) bool {
	return c.Suit == o.Suit && c.Rank == o.Rank
}

// BuildDeck returns the 40-card deck in canonical order with base strengths.
func BuildDeck() []Card {
	deck := make([]Card, 0, DeckSize)
	for _, s := range Suits {
		for _, r := range Ranks {
			deck = append(deck, Card{Suit: s, Rank: r, Strength: BaseStrength(r)})
		}
	}
	return deck
}

// Shuffle permutes the deck in place with a Fisher-Yates shuffle driven by rng.
func Shuffle(deck []Card, rng *rand.Rand) {
	for i := len(deck) - 1; i > 0; i-- {
		j := rng.Intn(i + 1)
		deck[i], deck[j] = deck[j], deck[i]
	}
}

// DrawTurnUp removes the last card of the deck and returns it with the shortened deck.
func DrawTurnUp(deck []Card) (Card, []Card) {
	last := len(deck) - 1
	return deck[last], deck[:last]
}

// Draw removes n cards from the end of the deck.
func Draw(deck []Card, n int) ([]Card, []Card) {
	cut := len(deck) - n
	drawn := make([]Card, n)
	// Pop order: the last card of the deck is drawn first.
	for i := 0; i < n; i++ {
		drawn[i] = deck[len(deck)-1-i]
	}
	return drawn, deck[:cut]
}

// ManilhaRank returns the rank following the turn-up rank in the cyclic order.
func ManilhaRank(turnUp Rank) Rank {
	return Ranks[(int(turnUp)+1)%len(Ranks)]
}

// ApplyManilhaStrength promotes every card of manilhaRank and resets the others to base strength.
func ApplyManilhaStrength(cards []Card, manilhaRank Rank) {
	for i := range cards {
		if cards[i].Rank == manilhaRank {
			cards[i].IsManilha = true
			cards[i].Strength = manilhaBase + SuitPriority(cards[i].Suit)
			continue
		}
		cards[i].IsManilha = false
		cards[i].Strength = BaseStrength(cards[i].Rank)
	}
}
