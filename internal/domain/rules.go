package domain

// RaiseLevel is the point value a raise asks for.
type RaiseLevel int

const (
	Truco RaiseLevel = 3
	Seis  RaiseLevel = 6
	Nove  RaiseLevel = 9
	Doze  RaiseLevel = 12
)

// RaiseLevels lists the accepted raise levels in escalation order.
var RaiseLevels = [4]RaiseLevel{Truco, Seis, Nove, Doze}

// Valid reports whether l is one of the accepted raise levels.
func (l RaiseLevel) Valid() bool {
	for _, v := range RaiseLevels {
		if v == l {
			return true
		}
	}
	return false
}

func (l RaiseLevel) String() string {
	switch l {
	case Truco:
		return "truco"
	case Seis:
		return "seis"
	case Nove:
		return "nove"
	case Doze:
		return "doze"
	}
	return "invalid"
}

// NextRaiseLevel returns the smallest accepted level above value.
func NextRaiseLevel(value int) (RaiseLevel, bool) {
	for _, l := range RaiseLevels {
		if int(l) > value {
			return l, true
		}
	}
	return 0, false
}

// RoundResult is the outcome of one resolved round.
type RoundResult struct {
	Index  int
	Plays  [2]Play
	Winner Seat // NoSeat on a draw
}

// Draw reports whether neither card won.
func (r RoundResult) Draw() bool {
	return r.Winner == NoSeat
}

// CompareRound decides a round from its two plays by strength.
func CompareRound(lead, follow Play) Seat {
	switch {
	case lead.Card.Strength > follow.Card.Strength:
		return lead.Seat
	case follow.Card.Strength > lead.Card.Strength:
		return follow.Seat
	}
	return NoSeat
}

// HandWinner reports whether the hand is over and who won it after a resolved round.
// The returned seat is NoSeat when the hand ended drawn.
func HandWinner(wins Pair[int], roundIndex int) (Seat, bool) {
	switch {
	case wins.A >= RoundsToWin:
		return SeatA, true
	case wins.B >= RoundsToWin:
		return SeatB, true
	case roundIndex > RoundsPerHand:
		switch {
		case wins.A > wins.B:
			return SeatA, true
		case wins.B > wins.A:
			return SeatB, true
		}
		return NoSeat, true
	}
	return NoSeat, false
}

// Settlement describes money changes at the end of a staked match.
type Settlement struct {
	BalanceChanges map[string]int64
}

// CalculateSettlement moves the stake from the loser to the winner. It is empty until the
// match is finished or when the stake is zero.
func (g *Game) CalculateSettlement(stake int64) Settlement {
	s := Settlement{BalanceChanges: make(map[string]int64, 2)}
	if g.Phase != PhaseFinished || !g.Winner.Valid() || stake <= 0 {
		return s
	}
	s.BalanceChanges[g.PlayerAt(g.Winner)] = stake
	s.BalanceChanges[g.PlayerAt(g.Winner.Other())] = -stake
	return s
}
