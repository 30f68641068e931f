package ports

import "context"

// ChipsCurrency is the wallet key holding a player's chips.
const ChipsCurrency = "chips"

// WalletUpdate represents a single chip change for a user.
type WalletUpdate struct {
	UserID   string
	Amount   int64
	Metadata map[string]interface{}
}

// EconomyPort defines the interface for managing player chips.
type EconomyPort interface {
	// GetBalance retrieves the current chip balance for a user.
	GetBalance(ctx context.Context, userID string) (int64, error)

	// UpdateBalances applies multiple wallet changes.
	// Used when a staked match ends to move the stake from loser to winner.
	UpdateBalances(ctx context.Context, updates []WalletUpdate) error
}
