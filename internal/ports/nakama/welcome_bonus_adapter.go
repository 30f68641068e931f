package nakama

import (
	"context"
	"errors"
	"fmt"
	"time"

	"truco/internal/ports"

	"github.com/heroiclabs/nakama-common/runtime"
)

const (
	startingChipsCollection = "onboarding"
	startingChipsKey        = "starting_chips_v1"
)

// NakamaWelcomeBonusAdapter credits a new player's starting chips at most once.
type NakamaWelcomeBonusAdapter struct {
	nk runtime.NakamaModule
}

func NewNakamaWelcomeBonusAdapter(nk runtime.NakamaModule) *NakamaWelcomeBonusAdapter {
	return &NakamaWelcomeBonusAdapter{nk: nk}
}

// GrantWelcomeBonusOnce writes the starting-chips receipt and the wallet credit in a
// single MultiUpdate. The receipt is created with version "*", so on a repeat grant
// Nakama rejects the whole update and false is returned with no error.
func (a *NakamaWelcomeBonusAdapter) GrantWelcomeBonusOnce(ctx context.Context, userID string, amount int64, metadata map[string]interface{}) (bool, error) {
	receipt, credit, err := startingChipsUpdate(userID, amount, metadata, time.Now())
	if err != nil {
		return false, err
	}

	if _, _, err := a.nk.MultiUpdate(ctx, nil, []*runtime.StorageWrite{receipt}, nil, []*runtime.WalletUpdate{credit}, true); err != nil {
		if errors.Is(err, runtime.ErrStorageRejectedVersion) {
			return false, nil
		}
		return false, fmt.Errorf("failed to credit %d starting chips to %s: %w", amount, userID, err)
	}
	return true, nil
}

// startingChipsUpdate builds the create-only receipt and the matching chips credit.
func startingChipsUpdate(userID string, amount int64, metadata map[string]interface{}, now time.Time) (*runtime.StorageWrite, *runtime.WalletUpdate, error) {
	if userID == "" {
		return nil, nil, fmt.Errorf("userID is required")
	}
	if amount <= 0 {
		return nil, nil, fmt.Errorf("starting chips must be positive, got %d", amount)
	}

	value, err := encodePayload(map[string]interface{}{
		"currency":   ports.ChipsCurrency,
		"amount":     amount,
		"granted_at": now.UTC().Format(time.RFC3339),
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to encode starting chips receipt: %w", err)
	}

	receipt := &runtime.StorageWrite{
		Collection:      startingChipsCollection,
		Key:             startingChipsKey,
		UserID:          userID,
		Value:           string(value),
		Version:         "*",
		PermissionRead:  runtime.STORAGE_PERMISSION_NO_READ,
		PermissionWrite: runtime.STORAGE_PERMISSION_NO_WRITE,
	}
	credit := &runtime.WalletUpdate{
		UserID:    userID,
		Changeset: map[string]int64{ports.ChipsCurrency: amount},
		Metadata:  metadata,
	}
	return receipt, credit, nil
}

var _ ports.WelcomeBonusPort = (*NakamaWelcomeBonusAdapter)(nil)
