package ports

import "context"

// WelcomeBonusPort grants a new account's starting chips at most once.
type WelcomeBonusPort interface {
	// GrantWelcomeBonusOnce credits amount chips unless the user already received them.
	// Returns granted=false when the grant had been made before.
	GrantWelcomeBonusOnce(ctx context.Context, userID string, amount int64, metadata map[string]interface{}) (bool, error)
}
