package domain

import "fmt"

var suitNames = map[Suit]string{
	Hearts:   "hearts",
	Diamonds: "diamonds",
	Spades:   "spades",
	Clubs:    "clubs",
}

var suitSymbols = map[Suit]string{
	Hearts:   "♥",
	Diamonds: "♦",
	Spades:   "♠",
	Clubs:    "♣",
}

var rankNames = [10]string{"4", "5", "6", "7", "Q", "J", "K", "A", "2", "3"}

func (s Suit) String() string {
	if name, ok := suitNames[s]; ok {
		return name
	}
	return fmt.Sprintf("suit(%d)", int8(s))
}

func (r Rank) String() string {
	if r < 0 || int(r) >= len(rankNames) {
		return fmt.Sprintf("rank(%d)", int8(r))
	}
	return rankNames[r]
}

func (c Card) String() string {
	return c.Rank.String() + suitSymbols[c.Suit]
}

// ParseSuit accepts the suit names used on the wire.
func ParseSuit(s string) (Suit, error) {
	for suit, name := range suitNames {
		if name == s {
			return suit, nil
		}
	}
	return 0, fmt.Errorf("invalid suit: %q", s)
}

// ParseRank accepts "4".."7", "Q", "J", "K", "A", "2", "3".
func ParseRank(s string) (Rank, error) {
	for i, name := range rankNames {
		if name == s {
			return Rank(i), nil
		}
	}
	return 0, fmt.Errorf("invalid rank: %q", s)
}
