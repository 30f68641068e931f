package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"time"

	"truco/internal/bot"
	"truco/internal/sim"

	"github.com/decred/slog"
)

var (
	matches    = flag.Int("matches", 100, "Number of matches to simulate")
	seed       = flag.Int64("seed", 0, "Master seed (0 uses the clock)")
	workers    = flag.Int("workers", runtime.NumCPU(), "Concurrent matches")
	variant    = flag.String("variant", "paulista", "Variant recorded on each match")
	seatA      = flag.String("a", "", "Personality for seat A (random if empty)")
	seatB      = flag.String("b", "", "Personality for seat B (random if empty)")
	debugLevel = flag.String("debuglevel", "info", "Log level: trace, debug, info, warn, error, critical, off")
)

func parseSeat(v string) (bot.Personality, error) {
	if v == "" {
		return "", nil
	}
	return bot.ParsePersonality(v)
}

func realMain() error {
	flag.Parse()

	lvl, ok := slog.LevelFromString(*debugLevel)
	if !ok {
		return fmt.Errorf("unknown debug level %q", *debugLevel)
	}
	log := slog.NewBackend(os.Stdout).Logger("SIM")
	log.SetLevel(lvl)

	var lineup [2]bot.Personality
	for i, v := range []string{*seatA, *seatB} {
		p, err := parseSeat(v)
		if err != nil {
			return err
		}
		lineup[i] = p
	}

	masterSeed := *seed
	if masterSeed == 0 {
		masterSeed = time.Now().UnixNano()
	}
	log.Infof("Running %d matches on %d workers (seed %d)", *matches, *workers, masterSeed)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	start := time.Now()
	summary, err := sim.Run(ctx, sim.Config{
		Matches:       *matches,
		Workers:       *workers,
		Seed:          masterSeed,
		Variant:       *variant,
		Personalities: lineup,
		Log:           log,
	})
	if err != nil {
		return err
	}

	fmt.Printf("matches: %d  hands/match: %.2f  raises: %d  elapsed: %s\n",
		len(summary.Results), summary.AverageHands(), summary.Raises, time.Since(start).Round(time.Millisecond))
	fmt.Printf("seat A wins: %d  seat B wins: %d\n", summary.SeatWins.A, summary.SeatWins.B)
	for _, p := range bot.Personalities {
		if summary.Played[p] == 0 {
			continue
		}
		fmt.Printf("%-14s played %4d  won %4d  (%.1f%%)\n", p, summary.Played[p], summary.Wins[p], 100*summary.WinRate(p))
	}
	return nil
}

func main() {
	if err := realMain(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
