package bot

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"

	"truco/internal/domain"
)

func base(s domain.Suit, r domain.Rank) domain.Card {
	return domain.Card{Suit: s, Rank: r, Strength: domain.BaseStrength(r)}
}

func mani(s domain.Suit, r domain.Rank) domain.Card {
	return domain.Card{Suit: s, Rank: r, Strength: 14 + domain.SuitPriority(s), IsManilha: true}
}

func TestEvaluateHandStrength(t *testing.T) {
	tests := []struct {
		name string
		hand []domain.Card
		want int
	}{
		{name: "empty", hand: nil, want: 0},
		{name: "low cards", hand: []domain.Card{base(domain.Hearts, domain.Four), base(domain.Clubs, domain.Seven)}, want: 10},
		{name: "medium", hand: []domain.Card{base(domain.Hearts, domain.Queen), base(domain.Clubs, domain.Jack), base(domain.Spades, domain.King)}, want: 30},
		{name: "high", hand: []domain.Card{base(domain.Hearts, domain.Ace), base(domain.Clubs, domain.Two), base(domain.Spades, domain.Three)}, want: 60},
		{name: "mixed", hand: []domain.Card{mani(domain.Clubs, domain.Four), base(domain.Clubs, domain.Ace), base(domain.Spades, domain.Six)}, want: 60},
		{name: "capped", hand: []domain.Card{mani(domain.Clubs, domain.Four), mani(domain.Hearts, domain.Four), mani(domain.Spades, domain.Four)}, want: 100},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, EvaluateHandStrength(tt.hand))
		})
	}
}

func TestChooseCardEmptyHand(t *testing.T) {
	assert.Equal(t, -1, ChooseCard(nil, nil, rand.New(rand.NewSource(1))))
}

func TestChooseCardLeadStrongHidesManilhas(t *testing.T) {
	// 35 + 35 + 10 = 80: strong, leads the cheapest medium card.
	hand := []domain.Card{mani(domain.Clubs, domain.Five), base(domain.Hearts, domain.King), mani(domain.Hearts, domain.Five)}
	for seed := int64(0); seed < 20; seed++ {
		assert.Equal(t, 1, ChooseCard(hand, nil, rand.New(rand.NewSource(seed))))
	}

	// 35 + 20 + 20 = 75: the 2 sits above the medium band, the ace does not.
	hand = []domain.Card{mani(domain.Clubs, domain.Five), base(domain.Spades, domain.Two), base(domain.Hearts, domain.Ace)}
	assert.Equal(t, 2, ChooseCard(hand, nil, rand.New(rand.NewSource(1))))
}

func TestChooseCardLeadStrongWithoutMediumFallsThrough(t *testing.T) {
	// 35 + 35 + 20 = 90 with a 3 outside the medium band: random non-manilha.
	hand := []domain.Card{mani(domain.Clubs, domain.Five), base(domain.Hearts, domain.Three), mani(domain.Hearts, domain.Five)}
	assert.Equal(t, 1, ChooseCard(hand, nil, rand.New(rand.NewSource(1))))

	all := []domain.Card{mani(domain.Clubs, domain.Five), mani(domain.Hearts, domain.Five), mani(domain.Spades, domain.Five)}
	assert.Equal(t, 0, ChooseCard(all, nil, rand.New(rand.NewSource(1))))
}

func TestChooseCardLeadWeakPlaysLowest(t *testing.T) {
	// 5 + 10 + 20 = 35.
	hand := []domain.Card{base(domain.Hearts, domain.King), base(domain.Clubs, domain.Five), base(domain.Spades, domain.Three)}
	assert.Equal(t, 1, ChooseCard(hand, nil, rand.New(rand.NewSource(9))))
}

func TestChooseCardLeadMediumAvoidsManilha(t *testing.T) {
	// 35 + 5 + 5 = 45.
	hand := []domain.Card{mani(domain.Clubs, domain.Jack), base(domain.Hearts, domain.Four), base(domain.Spades, domain.Six)}
	seen := map[int]bool{}
	for seed := int64(0); seed < 50; seed++ {
		idx := ChooseCard(hand, nil, rand.New(rand.NewSource(seed)))
		assert.NotEqual(t, 0, idx)
		seen[idx] = true
	}
	assert.Len(t, seen, 2)
}

func TestChooseCardResponse(t *testing.T) {
	hand := []domain.Card{base(domain.Hearts, domain.Three), base(domain.Clubs, domain.King), base(domain.Spades, domain.Four)}
	rng := rand.New(rand.NewSource(1))

	lead := []domain.Play{{Seat: domain.SeatA, Card: base(domain.Diamonds, domain.Jack)}}
	assert.Equal(t, 1, ChooseCard(hand, lead, rng), "cheapest winner")

	lead = []domain.Play{{Seat: domain.SeatA, Card: mani(domain.Diamonds, domain.Seven)}}
	assert.Equal(t, 2, ChooseCard(hand, lead, rng), "cannot win, dump the weakest")

	lead = []domain.Play{{Seat: domain.SeatA, Card: base(domain.Diamonds, domain.King)}}
	assert.Equal(t, 0, ChooseCard(hand, lead, rng), "a tie is not a win")
}
