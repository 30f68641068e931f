package nakama

import (
	"fmt"
	"math"

	"truco/internal/app"
	"truco/internal/domain"

	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"
)

var marshalOptions = protojson.MarshalOptions{EmitUnpopulated: true}

// encodePayload renders m as JSON through structpb so every frame uses one encoder.
func encodePayload(m map[string]interface{}) ([]byte, error) {
	s, err := structpb.NewStruct(m)
	if err != nil {
		return nil, fmt.Errorf("failed to build payload: %w", err)
	}
	return marshalOptions.Marshal(s)
}

func decodePayload(data []byte) (*structpb.Struct, error) {
	s := &structpb.Struct{}
	if len(data) == 0 {
		return s, nil
	}
	if err := protojson.Unmarshal(data, s); err != nil {
		return nil, fmt.Errorf("invalid payload: %w", err)
	}
	return s, nil
}

func intField(s *structpb.Struct, key string) (int, error) {
	v, ok := s.GetFields()[key]
	if !ok {
		return 0, fmt.Errorf("missing field %q", key)
	}
	n, ok := v.GetKind().(*structpb.Value_NumberValue)
	if !ok || n.NumberValue != math.Trunc(n.NumberValue) || math.Abs(n.NumberValue) > math.MaxInt32 {
		return 0, fmt.Errorf("field %q must be an integer", key)
	}
	return int(n.NumberValue), nil
}

func boolField(s *structpb.Struct, key string) (bool, error) {
	v, ok := s.GetFields()[key]
	if !ok {
		return false, fmt.Errorf("missing field %q", key)
	}
	b, ok := v.GetKind().(*structpb.Value_BoolValue)
	if !ok {
		return false, fmt.Errorf("field %q must be a boolean", key)
	}
	return b.BoolValue, nil
}

// cardIndexField reads the played card as "card_index" or, failing that, as a
// {"suit","rank"} object looked up in hand. A named card missing from hand yields -1,
// which the engine rejects as an invalid card.
func cardIndexField(s *structpb.Struct, hand []domain.Card) (int, error) {
	ref, named := s.GetFields()["card"]
	if _, indexed := s.GetFields()["card_index"]; indexed || !named {
		return intField(s, "card_index")
	}
	card := ref.GetStructValue()
	if card == nil {
		return 0, fmt.Errorf("field %q must be an object", "card")
	}
	suit, err := domain.ParseSuit(card.GetFields()["suit"].GetStringValue())
	if err != nil {
		return 0, err
	}
	rank, err := domain.ParseRank(card.GetFields()["rank"].GetStringValue())
	if err != nil {
		return 0, err
	}
	for i, c := range hand {
		if c.Suit == suit && c.Rank == rank {
			return i, nil
		}
	}
	return -1, nil
}

// decodeAction turns a client frame into an engine action for userID. hand is the
// sender's current hand, used to resolve cards sent by name.
func decodeAction(opCode int64, userID string, data []byte, hand []domain.Card) (app.Action, error) {
	s, err := decodePayload(data)
	if err != nil {
		return app.Action{}, err
	}
	action := app.Action{UserID: userID}
	switch opCode {
	case OpPlayCard:
		action.Kind = app.ActionPlayCard
		action.CardIndex, err = cardIndexField(s, hand)
	case OpRequestRaise:
		var level int
		level, err = intField(s, "level")
		action.Kind = app.ActionRequestRaise
		action.Level = domain.RaiseLevel(level)
	case OpRespondRaise:
		action.Kind = app.ActionRespondRaise
		action.Accept, err = boolField(s, "accept")
	default:
		err = fmt.Errorf("op code %d carries no action", opCode)
	}
	return action, err
}

func cardValue(c domain.Card) map[string]interface{} {
	return map[string]interface{}{
		"suit":       c.Suit.String(),
		"rank":       c.Rank.String(),
		"strength":   c.Strength,
		"is_manilha": c.IsManilha,
	}
}

func cardsValue(cards []domain.Card) []interface{} {
	out := make([]interface{}, len(cards))
	for i, c := range cards {
		out[i] = cardValue(c)
	}
	return out
}

// pairValue keys per-seat counters by user id.
func pairValue(players [2]string, p domain.Pair[int]) map[string]interface{} {
	out := make(map[string]interface{}, 2)
	for i, userID := range players {
		if userID != "" {
			out[userID] = p.Get(domain.Seat(i))
		}
	}
	return out
}

func snapshotValue(snap app.Snapshot) map[string]interface{} {
	played := make([]interface{}, len(snap.Played))
	for i, p := range snap.Played {
		played[i] = map[string]interface{}{
			"user_id": snap.Players[p.Seat],
			"card":    cardValue(p.Card),
		}
	}
	var turnUp interface{}
	if snap.TurnUp != nil {
		turnUp = cardValue(*snap.TurnUp)
	}
	requestedBy := ""
	if snap.Wager.RequestedBy.Valid() {
		requestedBy = snap.Players[snap.Wager.RequestedBy]
	}

	return map[string]interface{}{
		"user_id":             snap.UserID,
		"variant":             snap.Variant,
		"phase":               string(snap.Phase),
		"hand":                cardsValue(snap.Hand),
		"opponent_card_count": snap.OpponentCardCount,
		"played":              played,
		"turn_up":             turnUp,
		"manilha_rank":        snap.ManilhaRank.String(),
		"scores":              pairValue(snap.Players, snap.Scores),
		"round_wins":          pairValue(snap.Players, snap.RoundWins),
		"round":               snap.RoundIndex,
		"hand_number":         snap.HandNumber,
		"wager": map[string]interface{}{
			"pending":       snap.Wager.Pending,
			"requested_by":  requestedBy,
			"current_value": snap.Wager.CurrentValue,
		},
		"turn_user_id":      snap.TurnUserID,
		"winner_user_id":    snap.WinnerUserID,
		"awaiting_response": snap.AwaitingResponse(),
	}
}

// eventFrame maps an engine event to its op code and payload. ok is false for events the
// per-player state frame already covers.
func eventFrame(ev app.Event, players [2]string) (int64, map[string]interface{}, bool) {
	switch p := ev.Payload.(type) {
	case app.RaiseRequestedPayload:
		return OpRaiseRequested, map[string]interface{}{
			"user_id":    p.UserID,
			"level":      int(p.Level),
			"level_name": p.Level.String(),
		}, true
	case app.RaiseAnsweredPayload:
		return OpRaiseAnswered, map[string]interface{}{
			"user_id":  p.UserID,
			"accepted": p.Accepted,
			"value":    p.Value,
		}, true
	case app.RoundResolvedPayload:
		return OpRoundResolved, map[string]interface{}{
			"round":             p.Round,
			"winner_user_id":    p.WinnerUserID,
			"draw":              p.Draw,
			"round_wins":        pairValue(players, p.RoundWins),
			"next_turn_user_id": p.NextTurnUserID,
		}, true
	case app.HandEndedPayload:
		return OpHandEnded, map[string]interface{}{
			"winner_user_id": p.WinnerUserID,
			"points":         p.Points,
			"reason":         string(p.Reason),
			"scores":         pairValue(players, p.Scores),
		}, true
	case app.MatchEndedPayload:
		return OpMatchEnded, map[string]interface{}{
			"winner_user_id": p.WinnerUserID,
			"scores":         pairValue(players, p.Scores),
		}, true
	}
	return 0, nil, false
}

// encodeLabel renders the match label consumed by the quick-match query.
func encodeLabel(label domain.LabelPayload) (string, error) {
	b, err := encodePayload(map[string]interface{}{
		"open":    label.Open,
		"game":    label.Game,
		"phase":   label.Phase,
		"variant": label.Variant,
		"tier":    label.Tier,
	})
	if err != nil {
		return "", err
	}
	return string(b), nil
}
