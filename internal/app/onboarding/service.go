package onboarding

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"truco/internal/ports"
)

const (
	defaultStartingChips = 1000
)

// Result captures non-fatal onboarding outcomes.
type Result struct {
	// ProfileUpdateErr is set when the profile update failed but onboarding continued.
	ProfileUpdateErr error
	// StartingChipsGranted is false when the account already received its chips.
	StartingChipsGranted bool
}

// Service handles post-auth onboarding for new users.
type Service struct {
	accounts ports.AccountPort
	bonuses  ports.WelcomeBonusPort
	rng      *rand.Rand
}

// NewService constructs an onboarding service with required ports.
// accounts/bonuses must be non-nil; rng may be nil to use a time-seeded default.
func NewService(accounts ports.AccountPort, bonuses ports.WelcomeBonusPort, rng *rand.Rand) *Service {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Service{
		accounts: accounts,
		bonuses:  bonuses,
		rng:      rng,
	}
}

// OnboardNewUser gives a newly created account a display name and its starting chips.
// Returns an error only if the chips cannot be granted.
func (s *Service) OnboardNewUser(ctx context.Context, userID string) (Result, error) {
	if s.accounts == nil || s.bonuses == nil {
		return Result{}, fmt.Errorf("onboarding service not configured")
	}

	result := Result{}
	displayName := s.generateFriendlyName()
	if err := s.accounts.UpdateProfile(ctx, userID, displayName, displayName); err != nil {
		result.ProfileUpdateErr = err
	}

	granted, err := s.bonuses.GrantWelcomeBonusOnce(ctx, userID, defaultStartingChips, map[string]interface{}{
		"reason": "starting_chips",
	})
	if err != nil {
		return result, fmt.Errorf("failed to grant starting chips: %w", err)
	}
	result.StartingChipsGranted = granted

	return result, nil
}

func (s *Service) generateFriendlyName() string {
	adjectives := []string{"Bravo", "Matreiro", "Ligeiro", "Esperto", "Valente", "Sereno", "Arretado", "Maroto", "Teimoso", "Sortudo"}
	nouns := []string{"Tatu", "Onca", "Sabia", "Lobo", "Gaviao", "Jacare", "Tucano", "Capivara", "Tropeiro", "Boiadeiro"}

	adj := adjectives[s.rng.Intn(len(adjectives))]
	noun := nouns[s.rng.Intn(len(nouns))]
	num := s.rng.Intn(9000) + 1000

	return fmt.Sprintf("%s%s%d", noun, adj, num)
}
