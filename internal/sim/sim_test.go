package sim

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"truco/internal/bot"
	"truco/internal/domain"
)

func TestPlayMatchFinishes(t *testing.T) {
	for seed := int64(1); seed <= 20; seed++ {
		res, err := PlayMatch(seed, [2]bot.Personality{bot.Aggressive, bot.Conservative}, "", 0, nil)
		require.NoError(t, err, "seed %d", seed)

		require.True(t, res.Winner.Valid())
		assert.GreaterOrEqual(t, res.Scores.Get(res.Winner), domain.TargetScore)
		assert.Less(t, res.Scores.Get(res.Winner.Other()), domain.TargetScore)
		assert.Greater(t, res.Hands, 0)
		assert.LessOrEqual(t, res.Rejections, res.Raises)
		assert.NotEmpty(t, res.MatchID)
	}
}

func TestPlayMatchIsDeterministic(t *testing.T) {
	lineup := [2]bot.Personality{bot.Balanced, bot.Unpredictable}
	first, err := PlayMatch(7, lineup, "mineiro", 0, nil)
	require.NoError(t, err)
	second, err := PlayMatch(7, lineup, "mineiro", 0, nil)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestPlayMatchActionLimit(t *testing.T) {
	_, err := PlayMatch(3, [2]bot.Personality{bot.Balanced, bot.Balanced}, "", 1, nil)
	assert.Error(t, err)
}

func TestRunAggregates(t *testing.T) {
	cfg := Config{Matches: 24, Workers: 4, Seed: 42}
	summary, err := Run(context.Background(), cfg)
	require.NoError(t, err)

	require.Len(t, summary.Results, cfg.Matches)
	assert.Equal(t, cfg.Matches, summary.SeatWins.A+summary.SeatWins.B)

	wins, played, hands := 0, 0, 0
	for p, n := range summary.Wins {
		assert.Contains(t, bot.Personalities, p)
		wins += n
	}
	for _, n := range summary.Played {
		played += n
	}
	for _, res := range summary.Results {
		hands += res.Hands
	}
	assert.Equal(t, cfg.Matches, wins)
	assert.Equal(t, 2*cfg.Matches, played)
	assert.Equal(t, hands, summary.Hands)
	assert.Greater(t, summary.AverageHands(), 1.0)

	again, err := Run(context.Background(), Config{Matches: 24, Workers: 1, Seed: 42})
	require.NoError(t, err)
	assert.Equal(t, summary.Results, again.Results)
}

func TestRunPinnedPersonalities(t *testing.T) {
	summary, err := Run(context.Background(), Config{
		Matches:       6,
		Workers:       2,
		Seed:          5,
		Personalities: [2]bot.Personality{bot.Aggressive, ""},
	})
	require.NoError(t, err)
	for _, res := range summary.Results {
		assert.Equal(t, bot.Aggressive, res.Personalities[domain.SeatA])
	}
	assert.InDelta(t, float64(summary.Wins[bot.Aggressive])/float64(summary.Played[bot.Aggressive]), summary.WinRate(bot.Aggressive), 1e-9)
}

func TestRunRejectsEmptyRun(t *testing.T) {
	_, err := Run(context.Background(), Config{})
	assert.Error(t, err)
}

func TestRunHonoursCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Run(ctx, Config{Matches: 4, Workers: 1, Seed: 1})
	assert.ErrorIs(t, err, context.Canceled)
}
