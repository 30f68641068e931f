// Package sim plays bot-vs-bot Truco matches headlessly on top of app.Table.
package sim

import (
	"context"
	"errors"
	"fmt"
	"math/rand"

	"truco/internal/app"
	"truco/internal/bot"
	"truco/internal/domain"

	"github.com/decred/slog"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

const defaultMaxActions = 2000

// ErrStalled is returned when neither bot is willing to move in a live match.
var ErrStalled = errors.New("sim: no bot can move")

// Config controls a simulation run.
type Config struct {
	Matches int
	Workers int
	Seed    int64
	Variant string

	// Personalities pins the bot in each seat. An empty entry is drawn at random per match.
	Personalities [2]bot.Personality

	// MaxActions aborts a match that has not finished after this many applied actions.
	MaxActions int

	Log slog.Logger
}

// MatchResult is the outcome of one simulated match.
type MatchResult struct {
	MatchID       string
	Seed          int64
	Personalities [2]bot.Personality
	Winner        domain.Seat
	Scores        domain.Pair[int]
	Hands         int
	Raises        int
	Rejections    int
	Actions       int
}

// WinnerPersonality returns the personality of the winning seat.
func (r MatchResult) WinnerPersonality() bot.Personality {
	if !r.Winner.Valid() {
		return ""
	}
	return r.Personalities[r.Winner]
}

// Summary aggregates a run.
type Summary struct {
	Results  []MatchResult
	SeatWins domain.Pair[int]
	Wins     map[bot.Personality]int
	Played   map[bot.Personality]int
	Hands    int
	Raises   int
}

// AverageHands returns the mean number of hands per match.
func (s Summary) AverageHands() float64 {
	if len(s.Results) == 0 {
		return 0
	}
	return float64(s.Hands) / float64(len(s.Results))
}

// WinRate returns the share of matches won by p among the matches it played.
func (s Summary) WinRate(p bot.Personality) float64 {
	if s.Played[p] == 0 {
		return 0
	}
	return float64(s.Wins[p]) / float64(s.Played[p])
}

type seatedAgent struct {
	agent       *bot.Agent
	personality bot.Personality
}

// Run plays cfg.Matches matches across cfg.Workers goroutines. Match seeds are drawn
// up front from cfg.Seed so a run is reproducible regardless of scheduling.
func Run(ctx context.Context, cfg Config) (Summary, error) {
	if cfg.Matches <= 0 {
		return Summary{}, fmt.Errorf("sim: matches must be positive, got %d", cfg.Matches)
	}
	log := cfg.Log
	if log == nil {
		log = slog.Disabled
	}
	workers := cfg.Workers
	if workers <= 0 {
		workers = 1
	}

	master := rand.New(rand.NewSource(cfg.Seed))
	seeds := make([]int64, cfg.Matches)
	lineups := make([][2]bot.Personality, cfg.Matches)
	for i := range seeds {
		seeds[i] = master.Int63()
		for seat, p := range cfg.Personalities {
			if p == "" {
				p = bot.RandomPersonality(master)
			}
			lineups[i][seat] = p
		}
	}

	results := make([]MatchResult, cfg.Matches)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i := range seeds {
		i := i
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			res, err := PlayMatch(seeds[i], lineups[i], cfg.Variant, cfg.MaxActions, log)
			if err != nil {
				return fmt.Errorf("match %d (seed %d): %w", i, seeds[i], err)
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Summary{}, err
	}

	summary := Summary{
		Results: results,
		Wins:    make(map[bot.Personality]int),
		Played:  make(map[bot.Personality]int),
	}
	for _, res := range results {
		for _, p := range res.Personalities {
			summary.Played[p]++
		}
		summary.Wins[res.WinnerPersonality()]++
		summary.SeatWins.Set(res.Winner, summary.SeatWins.Get(res.Winner)+1)
		summary.Hands += res.Hands
		summary.Raises += res.Raises
	}
	log.Infof("Simulated %d matches, seat wins %d-%d, %.1f hands per match",
		len(results), summary.SeatWins.A, summary.SeatWins.B, summary.AverageHands())
	return summary, nil
}

// PlayMatch plays one match to completion with the given seat personalities.
func PlayMatch(seed int64, lineup [2]bot.Personality, variant string, maxActions int, log slog.Logger) (MatchResult, error) {
	if log == nil {
		log = slog.Disabled
	}
	if maxActions <= 0 {
		maxActions = defaultMaxActions
	}
	if variant == "" {
		variant = "paulista"
	}

	rng := rand.New(rand.NewSource(seed))
	matchID := uuid.NewSHA1(uuid.NameSpaceOID, []byte(fmt.Sprintf("truco-sim-%d", seed))).String()
	table := app.NewTable(app.NewService(rng), domain.NewGame(variant))

	var seats [2]seatedAgent
	for i, p := range lineup {
		brain, err := bot.NewBrain(p, rng)
		if err != nil {
			return MatchResult{}, err
		}
		userID := uuid.NewSHA1(uuid.NameSpaceOID, []byte(fmt.Sprintf("%s/%d", matchID, i))).String()
		seats[i] = seatedAgent{
			agent:       &bot.Agent{ID: userID, Name: string(p), Strategy: brain},
			personality: p,
		}
		if _, err := table.Join(userID); err != nil {
			return MatchResult{}, fmt.Errorf("join seat %d: %w", i, err)
		}
	}

	res := MatchResult{MatchID: matchID, Seed: seed, Personalities: lineup, Winner: domain.NoSeat}
	for res.Actions < maxActions {
		var (
			events []app.Event
			err    error
		)
		switch table.Phase() {
		case domain.PhaseFinished:
			snap := table.Snapshot(seats[0].agent.ID)
			res.Scores = snap.Scores
			res.Winner = domain.SeatA
			if snap.WinnerUserID != seats[0].agent.ID {
				res.Winner = domain.SeatB
			}
			log.Debugf("Match %s: %s beat %s %d-%d", matchID, res.WinnerPersonality(),
				lineup[res.Winner.Other()], res.Scores.Get(res.Winner), res.Scores.Get(res.Winner.Other()))
			return res, nil
		case domain.PhaseDealing:
			events, err = table.Deal()
		case domain.PhasePlaying:
			events, err = step(table, seats)
		default:
			return res, fmt.Errorf("unexpected phase %s", table.Phase())
		}
		if err != nil {
			return res, err
		}
		res.Actions++
		tally(&res, events)
	}
	return res, fmt.Errorf("match %s did not finish within %d actions", matchID, maxActions)
}

// step lets whichever bot is due act once.
func step(table *app.Table, seats [2]seatedAgent) ([]app.Event, error) {
	for _, s := range seats {
		view := table.Snapshot(s.agent.ID)
		move, ok := s.agent.Decide(view)
		if !ok {
			continue
		}
		events, err := table.Apply(move.Action(s.agent.ID))
		if err != nil {
			return nil, fmt.Errorf("%s bot %s: %w", s.personality, move.Kind, err)
		}
		return events, nil
	}
	return nil, ErrStalled
}

func tally(res *MatchResult, events []app.Event) {
	for _, ev := range events {
		switch p := ev.Payload.(type) {
		case app.RaiseRequestedPayload:
			res.Raises++
		case app.RaiseAnsweredPayload:
			if !p.Accepted {
				res.Rejections++
			}
		case app.HandEndedPayload:
			res.Hands++
		}
	}
}
