package app

import (
	"math/rand"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"truco/internal/domain"
)

func TestTableSerializesConcurrentActions(t *testing.T) {
	table := NewTable(NewService(rand.New(rand.NewSource(99))), domain.NewGame("paulista"))
	_, err := table.Join(alice)
	require.NoError(t, err)
	_, err = table.Join(bob)
	require.NoError(t, err)
	_, err = table.Apply(Action{Kind: ActionDeal})
	require.NoError(t, err)

	// Both players hammer card 0 at once; exactly one of the two opening plays can win.
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
	)
	for i := 0; i < 16; i++ {
		for _, user := range []string{alice, bob} {
			wg.Add(1)
			go func(user string) {
				defer wg.Done()
				if _, err := table.Apply(Action{Kind: ActionPlayCard, UserID: user, CardIndex: 0}); err == nil {
					mu.Lock()
					successes++
					mu.Unlock()
				}
			}(user)
		}
	}
	wg.Wait()

	assert.GreaterOrEqual(t, successes, 1)
	assert.LessOrEqual(t, successes, 2*domain.HandSize)
	if table.Phase() == domain.PhasePlaying {
		snapA := table.Snapshot(alice)
		snapB := table.Snapshot(bob)
		played := (domain.HandSize - len(snapA.Hand)) + (domain.HandSize - len(snapB.Hand))
		assert.Equal(t, successes, played)
	} else {
		assert.Equal(t, domain.PhaseDealing, table.Phase())
		assert.GreaterOrEqual(t, successes, 2*domain.RoundsToWin)
	}
}

func TestTableRejectsWhenTerminal(t *testing.T) {
	game := domain.NewGame("paulista")
	game.Players = [2]string{alice, bob}
	game.Phase = domain.PhaseFinished
	game.Winner = domain.SeatA
	table := NewTable(NewService(nil), game)

	_, err := table.Apply(Action{Kind: ActionDeal})
	assert.ErrorIs(t, err, ErrMatchTerminal)
	assert.Equal(t, domain.PhaseFinished, table.Phase())
	assert.Equal(t, alice, table.Snapshot(bob).WinnerUserID)
}
