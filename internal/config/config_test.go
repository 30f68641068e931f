package config

import (
	"testing"
	"time"
)

const sampleConfig = `{
	"default_tier": "casual",
	"tiers": [
		{"id": "free", "stake": 0},
		{"id": "casual", "stake": 100},
		{"id": "high", "stake": 1000}
	],
	"bot_min_delay_ms": 1500,
	"bot_max_delay_ms": 3500,
	"bot_auto_fill_delay_seconds": 2,
	"tick_rate": 5
}`

func TestStakeLookup(t *testing.T) {
	c, err := parseGameConfig([]byte(sampleConfig))
	if err != nil {
		t.Fatalf("parseGameConfig() error = %v", err)
	}

	tests := []struct {
		tier string
		want int64
	}{
		{tier: "free", want: 0},
		{tier: "high", want: 1000},
		{tier: "", want: 100},
		{tier: "unknown", want: 100},
	}
	for _, tt := range tests {
		if got := c.stake(tt.tier); got != tt.want {
			t.Errorf("stake(%q) = %d, want %d", tt.tier, got, tt.want)
		}
	}

	var missing *GameConfig
	if got := missing.stake("high"); got != defaultStake {
		t.Errorf("nil config stake = %d, want %d", got, defaultStake)
	}
}

func TestParseGameConfigRejectsBadValues(t *testing.T) {
	bad := []string{
		`{`,
		`{"bot_min_delay_ms": 4000, "bot_max_delay_ms": 1000}`,
		`{"tiers": [{"id": "x", "stake": -5}]}`,
	}
	for _, data := range bad {
		if _, err := parseGameConfig([]byte(data)); err == nil {
			t.Errorf("parseGameConfig(%s) expected error", data)
		}
	}
}

func TestDefaultsWithoutConfig(t *testing.T) {
	if cfg != nil {
		t.Skip("config already loaded")
	}
	lo, hi := BotDelayRange()
	if lo != 1500*time.Millisecond || hi != 3500*time.Millisecond {
		t.Fatalf("BotDelayRange() = %v..%v", lo, hi)
	}
	if BotAutoFillDelaySeconds() != 2 {
		t.Fatalf("BotAutoFillDelaySeconds() = %d", BotAutoFillDelaySeconds())
	}
	if TickRate() != 5 {
		t.Fatalf("TickRate() = %d", TickRate())
	}
	if GetStake("anything") != defaultStake {
		t.Fatalf("GetStake() without config should use the default")
	}
	if ResolveTier("vip") != "vip" {
		t.Fatalf("ResolveTier() without config should echo its input")
	}
}
