package bot

import (
	"fmt"
	"math/rand"
	"strings"
)

// Personality is the fixed temperament assigned to a bot when it is created.
type Personality string

const (
	Aggressive    Personality = "aggressive"
	Conservative  Personality = "conservative"
	Balanced      Personality = "balanced"
	Unpredictable Personality = "unpredictable"
)

// Personalities lists every known temperament.
var Personalities = []Personality{Aggressive, Conservative, Balanced, Unpredictable}

// ParsePersonality resolves a case-insensitive personality name.
func ParsePersonality(s string) (Personality, error) {
	p := Personality(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := DefaultTuning[p]; !ok {
		return "", fmt.Errorf("unknown bot personality: %q", s)
	}
	return p, nil
}

// RandomPersonality picks one personality uniformly.
func RandomPersonality(rng *rand.Rand) Personality {
	return Personalities[rng.Intn(len(Personalities))]
}

// ShouldRequestRaise decides whether to ask for the next raise level.
func ShouldRequestRaise(p Personality, strength int, rng *rand.Rand) bool {
	t := TuningFor(p)
	return strength > t.RequestStrength && rng.Float64() > t.RequestChance
}

// ShouldAcceptRaise decides whether to accept a pending raise. wonRound reports whether
// the bot already took a round in this hand.
func ShouldAcceptRaise(p Personality, strength int, wonRound bool, rng *rand.Rand) bool {
	t := TuningFor(p)
	if wonRound {
		strength += CourageBonus
	}
	if strength <= t.AcceptStrength {
		return false
	}
	return t.AcceptChance == 0 || rng.Float64() > t.AcceptChance
}
