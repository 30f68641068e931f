package bot

import (
	"math/rand"

	"truco/internal/domain"
)

const (
	strongHand = 70
	weakHand   = 40

	mediumMin = 5 // Q
	mediumMax = 8 // A
)

// EvaluateHandStrength scores a hand in [0,100].
func EvaluateHandStrength(hand []domain.Card) int {
	score := 0
	for _, c := range hand {
		switch {
		case c.IsManilha:
			score += 35
		case c.Strength >= 8:
			score += 20
		case c.Strength >= 5:
			score += 10
		default:
			score += 5
		}
	}
	if score > 100 {
		return 100
	}
	return score
}

// ChooseCard picks the index of the card to play given the cards already on the table
// this round. It returns -1 for an empty hand.
func ChooseCard(hand []domain.Card, played []domain.Play, rng *rand.Rand) int {
	if len(hand) == 0 {
		return -1
	}
	if len(played) == 0 {
		return chooseLead(hand, rng)
	}
	return chooseResponse(hand, played[0].Card)
}

func chooseLead(hand []domain.Card, rng *rand.Rand) int {
	strength := EvaluateHandStrength(hand)

	// Strong hands lead a middling card and keep the rest hidden.
	if strength > strongHand {
		best := -1
		for i, c := range hand {
			if c.IsManilha || c.Strength < mediumMin || c.Strength > mediumMax {
				continue
			}
			if best == -1 || c.Strength < hand[best].Strength {
				best = i
			}
		}
		if best != -1 {
			return best
		}
	}

	if strength < weakHand {
		return domain.Weakest(hand)
	}

	plain := make([]int, 0, len(hand))
	for i, c := range hand {
		if !c.IsManilha {
			plain = append(plain, i)
		}
	}
	if len(plain) > 0 {
		return plain[rng.Intn(len(plain))]
	}
	return 0
}

// chooseResponse wins as cheaply as possible, otherwise throws the weakest card.
func chooseResponse(hand []domain.Card, lead domain.Card) int {
	best := -1
	for i, c := range hand {
		if c.Strength <= lead.Strength {
			continue
		}
		if best == -1 || c.Strength < hand[best].Strength {
			best = i
		}
	}
	if best != -1 {
		return best
	}
	return domain.Weakest(hand)
}
