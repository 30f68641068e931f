package domain

import (
	"testing"
)

func TestCompareRound(t *testing.T) {
	manilha := Card{Suit: Clubs, Rank: Queen, Strength: 17, IsManilha: true}
	three := Card{Suit: Hearts, Rank: Three, Strength: 10}
	kingH := Card{Suit: Hearts, Rank: King, Strength: 7}
	kingS := Card{Suit: Spades, Rank: King, Strength: 7}

	tests := []struct {
		name   string
		lead   Play
		follow Play
		want   Seat
	}{
		{name: "lead manilha beats plain", lead: Play{SeatA, manilha}, follow: Play{SeatB, three}, want: SeatA},
		{name: "follower wins", lead: Play{SeatA, kingH}, follow: Play{SeatB, three}, want: SeatB},
		{name: "equal strength draws", lead: Play{SeatB, kingH}, follow: Play{SeatA, kingS}, want: NoSeat},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CompareRound(tt.lead, tt.follow); got != tt.want {
				t.Fatalf("CompareRound() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestHandWinner(t *testing.T) {
	tests := []struct {
		name       string
		wins       Pair[int]
		roundIndex int
		wantSeat   Seat
		wantOver   bool
	}{
		{name: "first round win continues", wins: Pair[int]{A: 1}, roundIndex: 2, wantSeat: NoSeat, wantOver: false},
		{name: "two wins for A", wins: Pair[int]{A: 2}, roundIndex: 3, wantSeat: SeatA, wantOver: true},
		{name: "two wins for B", wins: Pair[int]{A: 1, B: 2}, roundIndex: 4, wantSeat: SeatB, wantOver: true},
		{name: "after third round A ahead", wins: Pair[int]{A: 1}, roundIndex: 4, wantSeat: SeatA, wantOver: true},
		{name: "after third round B ahead", wins: Pair[int]{B: 1}, roundIndex: 4, wantSeat: SeatB, wantOver: true},
		{name: "three draws", wins: Pair[int]{}, roundIndex: 4, wantSeat: NoSeat, wantOver: true},
		{name: "one each after three", wins: Pair[int]{A: 1, B: 1}, roundIndex: 4, wantSeat: NoSeat, wantOver: true},
		{name: "one each after two", wins: Pair[int]{A: 1, B: 1}, roundIndex: 3, wantSeat: NoSeat, wantOver: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seat, over := HandWinner(tt.wins, tt.roundIndex)
			if seat != tt.wantSeat || over != tt.wantOver {
				t.Fatalf("HandWinner() = (%v, %t), want (%v, %t)", seat, over, tt.wantSeat, tt.wantOver)
			}
		})
	}
}

func TestNextRaiseLevel(t *testing.T) {
	tests := []struct {
		value int
		want  RaiseLevel
		ok    bool
	}{
		{1, Truco, true}, {3, Seis, true}, {6, Nove, true}, {9, Doze, true}, {12, 0, false},
	}
	for _, tt := range tests {
		got, ok := NextRaiseLevel(tt.value)
		if got != tt.want || ok != tt.ok {
			t.Errorf("NextRaiseLevel(%d) = (%v, %t), want (%v, %t)", tt.value, got, ok, tt.want, tt.ok)
		}
	}
	if RaiseLevel(4).Valid() {
		t.Error("level 4 should be invalid")
	}
}

func TestCalculateSettlement(t *testing.T) {
	tests := []struct {
		name     string
		phase    Phase
		winner   Seat
		stake    int64
		expected map[string]int64
	}{
		{
			name:     "A wins staked match",
			phase:    PhaseFinished,
			winner:   SeatA,
			stake:    100,
			expected: map[string]int64{"u0": 100, "u1": -100},
		},
		{
			name:     "B wins staked match",
			phase:    PhaseFinished,
			winner:   SeatB,
			stake:    250,
			expected: map[string]int64{"u1": 250, "u0": -250},
		},
		{
			name:     "free play settles nothing",
			phase:    PhaseFinished,
			winner:   SeatA,
			stake:    0,
			expected: map[string]int64{},
		},
		{
			name:     "unfinished match settles nothing",
			phase:    PhasePlaying,
			winner:   NoSeat,
			stake:    100,
			expected: map[string]int64{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			game := &Game{Players: [2]string{"u0", "u1"}, Phase: tt.phase, Winner: tt.winner}
			settlement := game.CalculateSettlement(tt.stake)
			if len(settlement.BalanceChanges) != len(tt.expected) {
				t.Fatalf("expected %d changes, got %d", len(tt.expected), len(settlement.BalanceChanges))
			}
			for uid, want := range tt.expected {
				if got := settlement.BalanceChanges[uid]; got != want {
					t.Errorf("player %s: got %d, want %d", uid, got, want)
				}
			}
		})
	}
}
