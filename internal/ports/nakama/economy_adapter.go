package nakama

import (
	"context"
	"encoding/json"
	"fmt"

	"truco/internal/ports"

	"github.com/heroiclabs/nakama-common/runtime"
)

// NakamaEconomyAdapter reads and moves chips held in Nakama wallets.
type NakamaEconomyAdapter struct {
	nk runtime.NakamaModule
}

// NewNakamaEconomyAdapter wraps nk as a ports.EconomyPort.
func NewNakamaEconomyAdapter(nk runtime.NakamaModule) *NakamaEconomyAdapter {
	return &NakamaEconomyAdapter{nk: nk}
}

// GetBalance returns the user's chips, used to gate entry to staked tiers.
func (a *NakamaEconomyAdapter) GetBalance(ctx context.Context, userID string) (int64, error) {
	account, err := a.nk.AccountGetId(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to get account %s: %w", userID, err)
	}

	var wallet map[string]int64
	if account.Wallet != "" {
		if err := json.Unmarshal([]byte(account.Wallet), &wallet); err != nil {
			return 0, fmt.Errorf("failed to decode wallet of %s: %w", userID, err)
		}
	}
	return wallet[ports.ChipsCurrency], nil
}

// UpdateBalances applies a stake settlement in one wallet transaction, so either every
// player is paid or none is. Zero amounts are dropped.
func (a *NakamaEconomyAdapter) UpdateBalances(ctx context.Context, updates []ports.WalletUpdate) error {
	batch := walletBatch(updates)
	if len(batch) == 0 {
		return nil
	}
	if _, err := a.nk.WalletsUpdate(ctx, batch, true); err != nil {
		return fmt.Errorf("failed to settle %d wallets: %w", len(batch), err)
	}
	return nil
}

func walletBatch(updates []ports.WalletUpdate) []*runtime.WalletUpdate {
	batch := make([]*runtime.WalletUpdate, 0, len(updates))
	for _, update := range updates {
		if update.Amount == 0 {
			continue
		}
		batch = append(batch, &runtime.WalletUpdate{
			UserID:    update.UserID,
			Changeset: map[string]int64{ports.ChipsCurrency: update.Amount},
			Metadata:  update.Metadata,
		})
	}
	return batch
}

var _ ports.EconomyPort = (*NakamaEconomyAdapter)(nil)
