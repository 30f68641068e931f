package bot

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/google/uuid"
	"github.com/heroiclabs/nakama-common/runtime"
)

type BotIdentity struct {
	DeviceID    string `json:"device_id"`
	UserID      string `json:"user_id"`
	Username    string `json:"username"`
	DisplayName string `json:"display_name"`
	Personality string `json:"personality"` // empty picks one at random per match
	AvatarIndex int    `json:"avatar_index"`
}

// defaultBotNames is the pool used when no identities file was loaded.
var defaultBotNames = []string{
	"Zé Pereira", "João Mineiro", "Pedro Gaúcho", "Maria Caipira",
	"Antônio Sertanejo", "Carlos Matuto", "Francisco Roceiro",
	"Sebastião Caboclo", "Joaquim Caipira", "Manuel Tropeiro",
}

var (
	botIdentities     []BotIdentity
	botIDMap          map[string]bool
	botDisplayNameMap map[string]string
	botConfigMap      map[string]BotIdentity
	loadOnce          sync.Once
	provisionOnce     sync.Once
	loadErr           error

	fallbackOnce       sync.Once
	fallbackIdentities []BotIdentity
	fallbackIDs        map[string]bool
)

// LoadIdentities loads the bot profiles from the given path.
func LoadIdentities(path string) error {
	loadOnce.Do(func() {
		data, err := os.ReadFile(path)
		if err != nil {
			loadErr = fmt.Errorf("failed to read bot identities: %w", err)
			return
		}

		identities, err := parseIdentities(data)
		if err != nil {
			loadErr = err
			return
		}

		botIdentities = identities
		botIDMap = make(map[string]bool)
		botDisplayNameMap = make(map[string]string)
		botConfigMap = make(map[string]BotIdentity)
		for _, identity := range botIdentities {
			if identity.UserID != "" {
				mapIdentity(identity)
			}
		}
	})
	return loadErr
}

func parseIdentities(data []byte) ([]BotIdentity, error) {
	var identities []BotIdentity
	if err := json.Unmarshal(data, &identities); err != nil {
		return nil, fmt.Errorf("failed to unmarshal bot identities: %w", err)
	}
	for i, identity := range identities {
		if identity.Personality == "" {
			continue
		}
		if _, err := ParsePersonality(identity.Personality); err != nil {
			return nil, fmt.Errorf("bot identity %d: %w", i, err)
		}
	}
	return identities, nil
}

func mapIdentity(identity BotIdentity) {
	if botIDMap == nil {
		botIDMap = make(map[string]bool)
		botDisplayNameMap = make(map[string]string)
		botConfigMap = make(map[string]BotIdentity)
	}
	botIDMap[identity.UserID] = true
	botDisplayNameMap[identity.UserID] = identity.DisplayName
	botConfigMap[identity.UserID] = identity
}

// botUserID derives a stable user id from a bot's name.
func botUserID(name string) string {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte("truco://bot/"+name)).String()
}

func defaultIdentities() []BotIdentity {
	fallbackOnce.Do(func() {
		fallbackIDs = make(map[string]bool, len(defaultBotNames))
		for i, name := range defaultBotNames {
			identity := BotIdentity{
				UserID:      botUserID(name),
				Username:    fmt.Sprintf("bot%02d", i+1),
				DisplayName: name,
				AvatarIndex: i,
			}
			fallbackIdentities = append(fallbackIdentities, identity)
			fallbackIDs[identity.UserID] = true
		}
	})
	return fallbackIdentities
}

// ProvisionBots creates or refreshes the Nakama accounts of the loaded bots and tags them
// with is_bot metadata. It returns the first authentication failure; the remaining bots
// are still provisioned.
func ProvisionBots(ctx context.Context, nk runtime.NakamaModule, logger runtime.Logger) error {
	var err error
	provisionOnce.Do(func() {
		err = provisionIdentities(ctx, nk, logger, botIdentities)
	})
	return err
}

func provisionIdentities(ctx context.Context, nk runtime.NakamaModule, logger runtime.Logger, identities []BotIdentity) error {
	var firstErr error
	for i := range identities {
		identity := &identities[i]
		if identity.DeviceID == "" {
			continue
		}

		userID, username, _, err := nk.AuthenticateDevice(ctx, identity.DeviceID, identity.Username, true)
		if err != nil {
			logger.Error("ProvisionBots: Failed to authenticate bot %s: %v", identity.Username, err)
			if firstErr == nil {
				firstErr = fmt.Errorf("failed to provision bot %s: %w", identity.DeviceID, err)
			}
			continue
		}

		identity.UserID = userID
		identity.Username = username

		metadata := map[string]interface{}{
			"is_bot":       true,
			"personality":  identity.Personality,
			"avatar_index": identity.AvatarIndex,
		}
		if err := nk.AccountUpdateId(ctx, userID, identity.Username, metadata, identity.DisplayName, "", "", "", ""); err != nil {
			logger.Warn("ProvisionBots: Failed to update bot account %s: %v", userID, err)
		}

		mapIdentity(*identity)
		logger.Info("ProvisionBots: Bot %s (%s) is ready. Personality: %q", identity.DisplayName, userID, identity.Personality)
	}
	return firstErr
}

// GetBotConfig returns the full identity configuration for a given bot ID.
func GetBotConfig(userID string) (BotIdentity, bool) {
	if config, ok := botConfigMap[userID]; ok {
		return config, true
	}
	for _, identity := range defaultIdentities() {
		if identity.UserID == userID {
			return identity, true
		}
	}
	return BotIdentity{}, false
}

// GetBotDisplayName returns the display name for a bot ID, or an empty string if not a bot.
func GetBotDisplayName(userID string) string {
	config, ok := GetBotConfig(userID)
	if !ok {
		return ""
	}
	if config.DisplayName == "" {
		return config.Username
	}
	return config.DisplayName
}

// GetBotIdentity returns an identity for a bot by index (mod pool size).
func GetBotIdentity(index int) BotIdentity {
	pool := botIdentities
	if len(pool) == 0 {
		pool = defaultIdentities()
	}
	if index < 0 {
		index = -index
	}
	return pool[index%len(pool)]
}

// IsBot reports whether the given user ID belongs to the bot pool.
func IsBot(userID string) bool {
	if botIDMap[userID] {
		return true
	}
	defaultIdentities()
	return fallbackIDs[userID]
}
