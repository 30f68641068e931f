package nakama

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"truco/internal/config"

	"github.com/heroiclabs/nakama-common/runtime"
)

// QuickMatchRequest is the optional payload of the quick-match RPC.
type QuickMatchRequest struct {
	Tier    string `json:"tier"`
	Variant string `json:"variant"`
}

// QuickMatchResponse is the payload returned to clients when requesting a lobby-capable match.
type QuickMatchResponse struct {
	MatchID string `json:"match_id"`
	IsNew   bool   `json:"is_new"`
}

// RegisterRPCs registers Nakama RPC endpoints.
func RegisterRPCs(initializer runtime.Initializer) error {
	return initializer.RegisterRpc(RpcQuickMatch, rpcQuickMatch)
}

// quickMatchQuery builds the label query for an open lobby on tier.
func quickMatchQuery(tier string) string {
	return fmt.Sprintf("+label.open:T +label.game:truco +label.tier:%s", tier)
}

func parseQuickMatchRequest(payload string) (QuickMatchRequest, error) {
	var req QuickMatchRequest
	if strings.TrimSpace(payload) == "" {
		return req, nil
	}
	if err := json.Unmarshal([]byte(payload), &req); err != nil {
		return req, fmt.Errorf("invalid quick match payload: %w", err)
	}
	return req, nil
}

func rpcQuickMatch(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error) {
	req, err := parseQuickMatchRequest(payload)
	if err != nil {
		return "", runtime.NewError(err.Error(), 3) // INVALID_ARGUMENT
	}
	tier := config.ResolveTier(req.Tier)

	limit := 10
	authoritative := true

	minSize := 1
	maxSize := 1 // one waiting player

	matches, err := nk.MatchList(ctx, limit, authoritative, "", &minSize, &maxSize, quickMatchQuery(tier))
	if err != nil {
		logger.Error("MatchList error: %v", err)
		return "", err
	}

	if len(matches) > 0 {
		resp := QuickMatchResponse{MatchID: matches[0].MatchId, IsNew: false}
		b, _ := json.Marshal(resp)
		return string(b), nil
	}

	// Create new match; seat assignment happens in MatchJoin (server-authoritative).
	matchID, err := nk.MatchCreate(ctx, MatchNameTruco, map[string]interface{}{
		"tier":    tier,
		"variant": req.Variant,
	})
	if err != nil {
		logger.Error("MatchCreate error: %v", err)
		return "", err
	}

	resp := QuickMatchResponse{MatchID: matchID, IsNew: true}
	b, _ := json.Marshal(resp)
	return string(b), nil
}
