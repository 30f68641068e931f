package bot

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"truco/internal/app"
	"truco/internal/domain"
)

const botID = "bot-1"

func botView() app.Snapshot {
	return app.Snapshot{
		UserID:            botID,
		Seat:              domain.SeatB,
		Phase:             domain.PhasePlaying,
		Players:           [2]string{"human", botID},
		Hand:              []domain.Card{mani(domain.Clubs, domain.Five), mani(domain.Hearts, domain.Five), base(domain.Spades, domain.Ace)},
		OpponentCardCount: 3,
		RoundIndex:        1,
		Wager:             domain.NewWager(),
		TurnUserID:        botID,
	}
}

func newTestAgent(t *testing.T, p Personality, seed int64) *Agent {
	t.Helper()
	brain, err := NewBrain(p, rand.New(rand.NewSource(seed)))
	require.NoError(t, err)
	return &Agent{ID: botID, Name: "Zé Pereira", Strategy: brain}
}

func TestAgentWaitsWhenNotOnTurn(t *testing.T) {
	agent := newTestAgent(t, Aggressive, 1)
	view := botView()
	view.TurnUserID = "human"
	_, ok := agent.Decide(view)
	assert.False(t, ok)

	view = botView()
	view.Phase = domain.PhaseDealing
	_, ok = agent.Decide(view)
	assert.False(t, ok)

	view = botView()
	view.UserID = "human"
	_, ok = agent.Decide(view)
	assert.False(t, ok, "agent only acts on its own view")
}

func TestAgentWaitsOnOwnPendingRaise(t *testing.T) {
	agent := newTestAgent(t, Aggressive, 1)
	view := botView()
	view.Wager = domain.Wager{Pending: true, RequestedBy: domain.SeatB, CurrentValue: 3, LastRaiser: domain.NoSeat}
	_, ok := agent.Decide(view)
	assert.False(t, ok)
}

func TestAgentAnswersPendingRaise(t *testing.T) {
	view := botView()
	view.TurnUserID = "human"
	view.Wager = domain.Wager{Pending: true, RequestedBy: domain.SeatA, CurrentValue: 3, LastRaiser: domain.NoSeat}

	move, ok := newTestAgent(t, Aggressive, 1).Decide(view)
	require.True(t, ok)
	assert.Equal(t, MoveAccept, move.Kind, "90 strength accepts")

	view.Hand = []domain.Card{base(domain.Hearts, domain.Four), base(domain.Clubs, domain.Five)}
	move, ok = newTestAgent(t, Conservative, 1).Decide(view)
	require.True(t, ok)
	assert.Equal(t, MoveReject, move.Kind)
	assert.Equal(t, app.Action{Kind: app.ActionRespondRaise, UserID: botID, Accept: false}, move.Action(botID))
}

func TestAgentRaisesOrPlays(t *testing.T) {
	raised, played := 0, 0
	for seed := int64(0); seed < 200; seed++ {
		move, ok := newTestAgent(t, Aggressive, seed).Decide(botView())
		require.True(t, ok)
		switch move.Kind {
		case MoveRaise:
			assert.Equal(t, domain.Truco, move.Level)
			raised++
		case MovePlay:
			assert.Equal(t, 2, move.CardIndex, "strong hand leads the ace")
			played++
		default:
			t.Fatalf("unexpected move %+v", move)
		}
	}
	assert.Positive(t, raised)
	assert.Positive(t, played)
}

func TestAgentNeverTopsOwnRaise(t *testing.T) {
	view := botView()
	view.Wager = domain.Wager{RequestedBy: domain.NoSeat, CurrentValue: 3, LastRaiser: domain.SeatB}
	for seed := int64(0); seed < 100; seed++ {
		move, ok := newTestAgent(t, Unpredictable, seed).Decide(view)
		require.True(t, ok)
		assert.Equal(t, MovePlay, move.Kind)
	}

	view.Wager.LastRaiser = domain.SeatA
	raisedTo := map[domain.RaiseLevel]bool{}
	for seed := int64(0); seed < 100; seed++ {
		move, _ := newTestAgent(t, Unpredictable, seed).Decide(view)
		if move.Kind == MoveRaise {
			raisedTo[move.Level] = true
		}
	}
	assert.Equal(t, map[domain.RaiseLevel]bool{domain.Seis: true}, raisedTo)
}

func TestAgentCannotRaisePastDoze(t *testing.T) {
	view := botView()
	view.Wager = domain.Wager{RequestedBy: domain.NoSeat, CurrentValue: 12, LastRaiser: domain.SeatA}
	for seed := int64(0); seed < 50; seed++ {
		move, ok := newTestAgent(t, Unpredictable, seed).Decide(view)
		require.True(t, ok)
		assert.Equal(t, MovePlay, move.Kind)
	}
}

func TestMoveAction(t *testing.T) {
	assert.Equal(t, app.Action{Kind: app.ActionPlayCard, UserID: "u", CardIndex: 2}, Move{Kind: MovePlay, CardIndex: 2}.Action("u"))
	assert.Equal(t, app.Action{Kind: app.ActionRequestRaise, UserID: "u", Level: domain.Nove}, Move{Kind: MoveRaise, Level: domain.Nove}.Action("u"))
	assert.Equal(t, app.Action{Kind: app.ActionRespondRaise, UserID: "u", Accept: true}, Move{Kind: MoveAccept}.Action("u"))
}

func TestNewAgent(t *testing.T) {
	agent, err := NewAgent(BotIdentity{UserID: "b", DisplayName: "Maria Caipira", Personality: "balanced"}, rand.New(rand.NewSource(1)))
	require.NoError(t, err)
	assert.Equal(t, "b", agent.ID)
	assert.Equal(t, "Maria Caipira", agent.Name)
	assert.Equal(t, Balanced, agent.Strategy.(*PolicyBrain).Personality)

	agent, err = NewAgent(BotIdentity{UserID: "c"}, rand.New(rand.NewSource(1)))
	require.NoError(t, err)
	assert.Contains(t, Personalities, agent.Strategy.(*PolicyBrain).Personality)

	_, err = NewAgent(BotIdentity{UserID: "d", Personality: "reckless"}, nil)
	assert.Error(t, err)

	_, err = NewBrain(Personality("reckless"), nil)
	assert.Error(t, err)
}
