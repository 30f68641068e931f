package bot

import (
	"fmt"
	"math/rand"
	"time"
)

// NewBrain creates a policy brain for the given personality.
func NewBrain(p Personality, rng *rand.Rand) (Brain, error) {
	if _, ok := DefaultTuning[p]; !ok {
		return nil, fmt.Errorf("unknown bot personality: %q", p)
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &PolicyBrain{Personality: p, rng: rng}, nil
}

// NewAgent builds an agent for identity. An identity without a personality gets a random one.
func NewAgent(identity BotIdentity, rng *rand.Rand) (*Agent, error) {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	p := RandomPersonality(rng)
	if identity.Personality != "" {
		parsed, err := ParsePersonality(identity.Personality)
		if err != nil {
			return nil, err
		}
		p = parsed
	}
	brain, err := NewBrain(p, rng)
	if err != nil {
		return nil, err
	}
	return &Agent{ID: identity.UserID, Name: identity.DisplayName, Strategy: brain}, nil
}
