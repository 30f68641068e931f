package nakama

import (
	"context"
	"fmt"

	"truco/internal/ports"

	"github.com/heroiclabs/nakama-common/runtime"
)

// NakamaAccountAdapter writes the friendly name picked at onboarding.
type NakamaAccountAdapter struct {
	nk runtime.NakamaModule
}

func NewNakamaAccountAdapter(nk runtime.NakamaModule) *NakamaAccountAdapter {
	return &NakamaAccountAdapter{nk: nk}
}

// UpdateProfile sets username and display name. Metadata, avatar and locale are left as they are.
func (a *NakamaAccountAdapter) UpdateProfile(ctx context.Context, userID, username, displayName string) error {
	if userID == "" {
		return fmt.Errorf("userID is required")
	}
	if err := a.nk.AccountUpdateId(ctx, userID, username, nil, displayName, "", "", "", ""); err != nil {
		return fmt.Errorf("failed to set display name %q for %s: %w", displayName, userID, err)
	}
	return nil
}

var _ ports.AccountPort = (*NakamaAccountAdapter)(nil)
