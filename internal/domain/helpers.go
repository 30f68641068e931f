package domain

// LowestAvailableSeat returns the first free seat, or NoSeat when both are taken.
func LowestAvailableSeat(players *[2]string) Seat {
	for i, userID := range players {
		if userID == "" {
			return Seat(i)
		}
	}
	return NoSeat
}

// LabelPayload holds the values advertised in the match label.
type LabelPayload struct {
	Open    bool   `json:"open"`
	Game    string `json:"game"`
	Phase   string `json:"phase"`
	Variant string `json:"variant"`
	Tier    string `json:"tier"`
}

// ComputeLabel derives the advertised label from match state.
func ComputeLabel(g *Game, tier string) LabelPayload {
	open := g.Phase == PhaseWaiting && g.PlayerCount() < 2
	return LabelPayload{Open: open, Game: "truco", Phase: string(g.Phase), Variant: g.Variant, Tier: tier}
}

// RemoveCardAt removes the card at index i and returns it with the remaining hand.
// The caller validates i.
func RemoveCardAt(hand []Card, i int) (Card, []Card) {
	card := hand[i]
	out := make([]Card, 0, len(hand)-1)
	out = append(out, hand[:i]...)
	out = append(out, hand[i+1:]...)
	return card, out
}

// Weakest returns the index of the lowest-strength card, the first one on ties, or -1.
func Weakest(hand []Card) int {
	if len(hand) == 0 {
		return -1
	}
	idx := 0
	for i, c := range hand {
		if c.Strength < hand[idx].Strength {
			idx = i
		}
	}
	return idx
}
