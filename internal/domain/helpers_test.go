package domain

import (
	"encoding/json"
	"reflect"
	"testing"
)

func TestLowestAvailableSeat(t *testing.T) {
	tests := []struct {
		name    string
		players [2]string
		want    Seat
	}{
		{name: "all empty", players: [2]string{"", ""}, want: SeatA},
		{name: "first taken", players: [2]string{"u1", ""}, want: SeatB},
		{name: "second taken", players: [2]string{"", "u2"}, want: SeatA},
		{name: "full", players: [2]string{"u1", "u2"}, want: NoSeat},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := LowestAvailableSeat(&tt.players); got != tt.want {
				t.Fatalf("LowestAvailableSeat() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestComputeLabel(t *testing.T) {
	game := NewGame("paulista")
	game.Players[0] = "a"
	label := ComputeLabel(game, "casual")
	if !label.Open || label.Game != "truco" || label.Phase != string(PhaseWaiting) || label.Variant != "paulista" || label.Tier != "casual" {
		t.Fatalf("unexpected label: %+v", label)
	}

	game.Players[1] = "b"
	game.Phase = PhaseDealing
	label = ComputeLabel(game, "casual")
	if label.Open {
		t.Fatalf("expected label.Open=false for full match")
	}

	if _, err := json.Marshal(label); err != nil {
		t.Fatalf("label should marshal: %v", err)
	}
}

func TestRemoveCardAt(t *testing.T) {
	hand := []Card{
		{Suit: Spades, Rank: Four},
		{Suit: Hearts, Rank: Five},
		{Suit: Diamonds, Rank: Six},
	}

	card, rest := RemoveCardAt(hand, 1)
	if !card.SameCard(Card{Suit: Hearts, Rank: Five}) {
		t.Fatalf("removed %v, want 5 of hearts", card)
	}
	want := []Card{{Suit: Spades, Rank: Four}, {Suit: Diamonds, Rank: Six}}
	if !reflect.DeepEqual(rest, want) {
		t.Fatalf("RemoveCardAt() = %v, want %v", rest, want)
	}
	if len(hand) != 3 {
		t.Fatalf("input hand modified: %v", hand)
	}
}

func TestWeakest(t *testing.T) {
	hand := []Card{{Strength: 7}, {Strength: 2}, {Strength: 2}, {Strength: 15}}
	if got := Weakest(hand); got != 1 {
		t.Fatalf("Weakest() = %d, want 1", got)
	}
	if got := Weakest(nil); got != -1 {
		t.Fatalf("Weakest(nil) = %d, want -1", got)
	}
}

func TestPairAccessors(t *testing.T) {
	var p Pair[int]
	p.Set(SeatA, 3)
	p.Set(SeatB, 9)
	if p.Get(SeatA) != 3 || p.Get(SeatB) != 9 {
		t.Fatalf("unexpected pair %+v", p)
	}
	if SeatA.Other() != SeatB || SeatB.Other() != SeatA || NoSeat.Other() != NoSeat {
		t.Fatal("Other() mismatch")
	}
}
