package config

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"
)

const (
	defaultStake            = 100
	defaultBotMinDelayMs    = 1500
	defaultBotMaxDelayMs    = 3500
	defaultBotAutoFillDelay = 2
	defaultTickRate         = 5
)

// StakeTier is a named bet level. A zero stake is free play.
type StakeTier struct {
	ID    string `json:"id"`
	Stake int64  `json:"stake"`
}

type GameConfig struct {
	DefaultTier string      `json:"default_tier"`
	Tiers       []StakeTier `json:"tiers"`
	// BotMinDelayMs and BotMaxDelayMs bound the pause before a bot acts.
	BotMinDelayMs int `json:"bot_min_delay_ms"`
	BotMaxDelayMs int `json:"bot_max_delay_ms"`
	// BotAutoFillDelaySeconds configures how many seconds to wait before adding a bot to a solo free-play lobby.
	BotAutoFillDelaySeconds int `json:"bot_auto_fill_delay_seconds"`
	TickRate                int `json:"tick_rate"`
}

var (
	cfg      *GameConfig
	loadOnce sync.Once
	loadErr  error
)

// LoadGameConfig loads the game configuration from the given path.
func LoadGameConfig(path string) error {
	loadOnce.Do(func() {
		data, err := os.ReadFile(path)
		if err != nil {
			loadErr = fmt.Errorf("failed to read game config: %w", err)
			return
		}

		c, err := parseGameConfig(data)
		if err != nil {
			loadErr = err
			return
		}
		cfg = c
	})
	return loadErr
}

func parseGameConfig(data []byte) (*GameConfig, error) {
	var c GameConfig
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("failed to unmarshal game config: %w", err)
	}
	if c.BotMinDelayMs < 0 || c.BotMaxDelayMs < c.BotMinDelayMs {
		return nil, fmt.Errorf("invalid bot delay range %d..%d ms", c.BotMinDelayMs, c.BotMaxDelayMs)
	}
	for _, tier := range c.Tiers {
		if tier.Stake < 0 {
			return nil, fmt.Errorf("tier %q has negative stake", tier.ID)
		}
	}
	return &c, nil
}

// GetStake returns the stake for a given tier ID, or the default if not found.
func GetStake(tierID string) int64 {
	return cfg.stake(tierID)
}

func (c *GameConfig) stake(tierID string) int64 {
	if c == nil {
		return defaultStake
	}

	target := tierID
	if target == "" {
		target = c.DefaultTier
	}

	for _, tier := range c.Tiers {
		if tier.ID == target {
			return tier.Stake
		}
	}

	// Fallback to default tier if specific ID not found
	for _, tier := range c.Tiers {
		if tier.ID == c.DefaultTier {
			return tier.Stake
		}
	}

	return defaultStake
}

// ResolveTier returns tierID when configured, otherwise the default tier.
func ResolveTier(tierID string) string {
	if cfg == nil {
		return tierID
	}
	for _, tier := range cfg.Tiers {
		if tier.ID == tierID {
			return tierID
		}
	}
	return cfg.DefaultTier
}

// BotDelayRange returns the bounds of a bot's thinking pause.
func BotDelayRange() (time.Duration, time.Duration) {
	if cfg == nil || cfg.BotMaxDelayMs == 0 {
		return defaultBotMinDelayMs * time.Millisecond, defaultBotMaxDelayMs * time.Millisecond
	}
	return time.Duration(cfg.BotMinDelayMs) * time.Millisecond, time.Duration(cfg.BotMaxDelayMs) * time.Millisecond
}

// BotAutoFillDelaySeconds returns how long a solo free-play lobby waits for a bot.
func BotAutoFillDelaySeconds() int {
	if cfg == nil || cfg.BotAutoFillDelaySeconds <= 0 {
		return defaultBotAutoFillDelay
	}
	return cfg.BotAutoFillDelaySeconds
}

// TickRate returns the match loop frequency.
func TickRate() int {
	if cfg == nil || cfg.TickRate <= 0 {
		return defaultTickRate
	}
	return cfg.TickRate
}
