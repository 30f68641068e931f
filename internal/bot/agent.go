package bot

import (
	"math/rand"

	"truco/internal/app"
	"truco/internal/domain"
)

// PolicyBrain is the threshold policy driven by a personality.
type PolicyBrain struct {
	Personality Personality
	rng         *rand.Rand
}

// Decide answers pending raises, may ask for the next raise level, and otherwise picks a card.
func (b *PolicyBrain) Decide(view app.Snapshot) (Move, bool) {
	if view.Phase != domain.PhasePlaying || !view.Seat.Valid() {
		return Move{}, false
	}
	strength := EvaluateHandStrength(view.Hand)

	if view.AwaitingResponse() {
		if ShouldAcceptRaise(b.Personality, strength, view.OwnRoundWins() > 0, b.rng) {
			return Move{Kind: MoveAccept}, true
		}
		return Move{Kind: MoveReject}, true
	}
	if view.Wager.Pending || !view.OnTurn() || len(view.Hand) == 0 {
		return Move{}, false
	}

	// Only raise over the opponent; never top our own accepted raise.
	if view.Wager.LastRaiser != view.Seat {
		if next, ok := domain.NextRaiseLevel(view.Wager.CurrentValue); ok && ShouldRequestRaise(b.Personality, strength, b.rng) {
			return Move{Kind: MoveRaise, Level: next}, true
		}
	}

	return Move{Kind: MovePlay, CardIndex: ChooseCard(view.Hand, view.Played, b.rng)}, true
}

// Agent represents an autonomous bot player.
type Agent struct {
	ID       string
	Name     string
	Strategy Brain
}

// Decide asks the agent for its move in view. ok is false when the agent should wait.
func (a *Agent) Decide(view app.Snapshot) (Move, bool) {
	if view.UserID != a.ID {
		return Move{}, false
	}
	return a.Strategy.Decide(view)
}
