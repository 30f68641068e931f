package nakama

import (
	"context"
	"database/sql"
	"fmt"
	"math/rand"
	"time"

	"truco/internal/app"
	"truco/internal/bot"
	"truco/internal/config"
	"truco/internal/domain"
	"truco/internal/ports"

	"github.com/heroiclabs/nakama-common/runtime"
)

// MatchState holds the authoritative runtime state for the Nakama match handler.
type MatchState struct {
	Tier                 string                      `json:"tier"`                    // Stake tier id
	Stake                int64                       `json:"stake"`                   // Chips the loser pays the winner; 0 is free play
	Tick                 int64                       `json:"tick"`                    // Current tick of the match
	TickRate             int                         `json:"tick_rate"`               // Ticks per second
	Presences            map[string]runtime.Presence `json:"-"`                       // Map UserId -> Presence for targeted messaging
	App                  *app.Service                `json:"-"`                       // Truco app service with game logic
	Game                 *domain.Game                `json:"-"`                       // Authoritative game state, created with the match
	Settled              bool                        `json:"settled"`                 // Whether the stake has been paid out
	BotsEnabled          bool                        `json:"bots_enabled"`            // Whether AI players are allowed
	BotMinDelay          int64                       `json:"bot_min_delay"`           // Min ticks a bot waits
	BotMaxDelay          int64                       `json:"bot_max_delay"`           // Max ticks a bot waits
	BotAutoFillDelay     int64                       `json:"bot_auto_fill_delay"`     // Ticks to wait before auto-filling with a bot
	BotWaitUntil         int64                       `json:"bot_wait_until"`          // Tick when the bot should act
	LastSinglePlayerTick int64                       `json:"last_single_player_tick"` // Tick when a single player started waiting
	Bots                 map[string]*bot.Agent       `json:"-"`                       // Active bot agents
	Economy              ports.EconomyPort           `json:"-"`                       // Interface to Nakama wallet
	rng                  *rand.Rand
}

// GetOpenSeatsCount returns the number of free seats.
func (ms *MatchState) GetOpenSeatsCount() int {
	return app.PlayersPerMatch - ms.Game.PlayerCount()
}

func (ms *MatchState) GetHumanPlayerCount() int {
	count := 0
	for _, seat := range ms.Game.Players {
		if seat != "" && !isBotUserId(seat) {
			count++
		}
	}
	return count
}

// isBotUserId reports whether the given user id represents a bot seat.
func isBotUserId(userId string) bool {
	return bot.IsBot(userId)
}

// findFirstHumanSeat returns the first seat index with a human occupant or -1 if none exist.
func findFirstHumanSeat(seats []string) int {
	for i, userId := range seats {
		if userId != "" && !isBotUserId(userId) {
			return i
		}
	}
	return -1
}

// shouldTerminateNoHumans returns true when there are no humans in the match.
func shouldTerminateNoHumans(seats []string) bool {
	return findFirstHumanSeat(seats) == -1
}

// durationToTicks converts d to whole ticks at rate, never below one.
func durationToTicks(d time.Duration, rate int) int64 {
	ticks := int64(d * time.Duration(rate) / time.Second)
	if ticks < 1 {
		return 1
	}
	return ticks
}

// newMatchState builds the initial state for a match on tier with the given variant.
func newMatchState(tier, variant string, economy ports.EconomyPort, rng *rand.Rand) *MatchState {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if variant == "" {
		variant = defaultVariant
	}
	tier = config.ResolveTier(tier)
	tickRate := config.TickRate()
	minDelay, maxDelay := config.BotDelayRange()

	return &MatchState{
		Tier:             tier,
		Stake:            config.GetStake(tier),
		TickRate:         tickRate,
		Presences:        make(map[string]runtime.Presence),
		App:              app.NewService(rng),
		Game:             domain.NewGame(variant),
		BotsEnabled:      true,
		BotMinDelay:      durationToTicks(minDelay, tickRate),
		BotMaxDelay:      durationToTicks(maxDelay, tickRate),
		BotAutoFillDelay: int64(config.BotAutoFillDelaySeconds() * tickRate),
		Bots:             make(map[string]*bot.Agent),
		Economy:          economy,
		rng:              rng,
	}
}

// NewMatch is the factory function registered with Nakama.
func NewMatch(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule) (runtime.Match, error) {
	return &matchHandler{}, nil
}

type matchHandler struct{}

// MatchInit is called when the match is created.
func (mh *matchHandler) MatchInit(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, params map[string]interface{}) (interface{}, int, string) {
	logger.Debug("MatchInit: Initializing match handler.")

	tier, _ := params["tier"].(string)
	variant, _ := params["variant"].(string)
	state := newMatchState(tier, variant, NewNakamaEconomyAdapter(nk), nil)

	// Read environment variables for bot configuration
	if env, ok := ctx.Value(runtime.RUNTIME_CTX_ENV).(map[string]string); ok {
		if val, ok := env[EnvBotsEnabled]; ok {
			state.BotsEnabled = val == "true"
		}
	}

	label, err := encodeLabel(domain.ComputeLabel(state.Game, state.Tier))
	if err != nil {
		logger.Error("MatchInit: Failed to marshal label: %v", err)
		return nil, 0, ""
	}

	logger.Info("MatchInit: Created %s match on tier %s (stake %d).", state.Game.Variant, state.Tier, state.Stake)
	return state, state.TickRate, label
}

func (mh *matchHandler) MatchJoinAttempt(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presence runtime.Presence, metadata map[string]string) (interface{}, bool, string) {
	matchState, ok := state.(*MatchState)
	if !ok {
		return state, false, "state not found"
	}

	if matchState.Game.SeatOf(presence.GetUserId()) != domain.NoSeat {
		return state, true, ""
	}
	if matchState.Game.Phase != domain.PhaseWaiting || matchState.GetOpenSeatsCount() <= 0 {
		return state, false, "Match full"
	}

	if matchState.Stake > 0 && matchState.Economy != nil {
		balance, err := matchState.Economy.GetBalance(ctx, presence.GetUserId())
		if err != nil {
			logger.Warn("MatchJoinAttempt: Could not read balance for %s: %v", presence.GetUserId(), err)
			return state, false, "wallet unavailable"
		}
		if balance < matchState.Stake {
			return state, false, fmt.Sprintf("need %d chips, have %d", matchState.Stake, balance)
		}
	}

	return state, true, ""
}

func (mh *matchHandler) MatchJoin(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presences []runtime.Presence) interface{} {
	matchState, ok := state.(*MatchState)
	if !ok {
		logger.Error("MatchJoin: state not found")
		return state
	}

	for _, p := range presences {
		matchState.Presences[p.GetUserId()] = p
		if _, err := matchState.App.Join(matchState.Game, p.GetUserId()); err != nil {
			logger.Warn("MatchJoin: User %s could not take a seat: %v", p.GetUserId(), err)
		}
	}

	mh.seatsChanged(ctx, matchState, dispatcher, logger)
	return matchState
}

// MatchLeave is called when one or more players leave the match.
// A seated player leaving abandons the match.
func (mh *matchHandler) MatchLeave(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presences []runtime.Presence) interface{} {
	matchState, ok := state.(*MatchState)
	if !ok {
		logger.Error("MatchLeave: state not found")
		return state
	}

	abandoned := false
	for _, p := range presences {
		delete(matchState.Presences, p.GetUserId())
		if matchState.Game.SeatOf(p.GetUserId()) == domain.NoSeat {
			continue
		}
		abandoned = true
		logger.Info("MatchLeave: User %s left, abandoning match.", p.GetUserId())
		mh.broadcast(matchState, dispatcher, logger, OpPlayerLeft, map[string]interface{}{"user_id": p.GetUserId()}, nil)
	}

	if abandoned || shouldTerminateNoHumans(matchState.Game.Players[:]) {
		if matchState.Game.Phase == domain.PhaseFinished {
			mh.settle(ctx, matchState, logger)
		}
		return nil
	}
	return matchState
}

func (mh *matchHandler) MatchLoop(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, messages []runtime.MatchData) interface{} {
	matchState, ok := state.(*MatchState)
	if !ok {
		return state
	}

	matchState.Tick = tick

	for _, msg := range messages {
		switch msg.GetOpCode() {
		case OpPlayCard, OpRequestRaise, OpRespondRaise:
			mh.handleClientAction(ctx, matchState, dispatcher, logger, msg)
		case OpRequestSnapshot:
			mh.sendState(matchState, dispatcher, logger, msg.GetUserId())
		default:
			logger.Warn("MatchLoop: Unknown opcode received: %d", msg.GetOpCode())
		}
	}

	if matchState.Game.Phase == domain.PhaseFinished && !matchState.Settled {
		mh.settle(ctx, matchState, logger)
	}

	if matchState.BotsEnabled {
		mh.processBots(ctx, matchState, dispatcher, logger)
	}

	return matchState
}

func (mh *matchHandler) handleClientAction(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, msg runtime.MatchData) {
	senderID := msg.GetUserId()
	var hand []domain.Card
	if seat := state.Game.SeatOf(senderID); seat.Valid() {
		hand = state.Game.Hands.Get(seat)
	}
	action, err := decodeAction(msg.GetOpCode(), senderID, msg.GetData(), hand)
	if err != nil {
		logger.Warn("handleClientAction: Bad payload from %s (op %d): %v", senderID, msg.GetOpCode(), err)
		mh.sendError(state, dispatcher, logger, senderID, errCodeBadPayload, app.KindIllegalAction, err.Error())
		return
	}
	mh.applyAction(ctx, state, dispatcher, logger, action)
}

// applyAction runs action through the engine and publishes the outcome. Human and bot
// actions both come through here.
func (mh *matchHandler) applyAction(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, action app.Action) {
	events, err := state.App.Apply(state.Game, action)
	if err != nil {
		logger.Warn("applyAction: %s by %s rejected: %v", action.Kind, action.UserID, err)
		mh.sendError(state, dispatcher, logger, action.UserID, errCodeRejected, app.ErrorKind(err), err.Error())
		return
	}
	mh.publish(ctx, state, dispatcher, logger, events)
}

// publish broadcasts events, refreshes every player's view, and deals the next hand when due.
func (mh *matchHandler) publish(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, events []app.Event) {
	for _, ev := range events {
		mh.broadcastEvent(ctx, state, dispatcher, logger, ev)
	}
	mh.broadcastState(state, dispatcher, logger)

	if state.Game.Phase == domain.PhaseDealing {
		mh.dealNextHand(ctx, state, dispatcher, logger)
	}
}

func (mh *matchHandler) dealNextHand(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	events, err := state.App.DealCards(state.Game)
	if err != nil {
		logger.Error("dealNextHand: Failed to deal: %v", err)
		return
	}
	logger.Debug("dealNextHand: Hand %d dealt, turn-up %v, manilha %v.", state.Game.HandNumber, state.Game.TurnUp, state.Game.ManilhaRank)
	state.BotWaitUntil = 0
	mh.publish(ctx, state, dispatcher, logger, events)
}

// seatsChanged refreshes the label and roster and starts play once both seats are taken.
func (mh *matchHandler) seatsChanged(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	mh.updateLabel(state, dispatcher, logger)
	mh.broadcastRoster(state, dispatcher, logger)
	if state.Game.Phase == domain.PhaseDealing {
		logger.Info("seatsChanged: Both seats taken, starting match.")
		mh.dealNextHand(ctx, state, dispatcher, logger)
	}
}

func (mh *matchHandler) processBots(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	// 1. Auto-fill a free-play lobby with a bot if a single human waits long enough
	if state.Game.Phase == domain.PhaseWaiting {
		if state.Stake == 0 && state.GetHumanPlayerCount() == 1 && state.GetOpenSeatsCount() > 0 {
			if state.LastSinglePlayerTick == 0 {
				state.LastSinglePlayerTick = state.Tick
				logger.Debug("processBots: Single player detected, starting auto-fill timer.")
			}

			if state.Tick-state.LastSinglePlayerTick >= state.BotAutoFillDelay {
				state.LastSinglePlayerTick = 0
				mh.addBot(ctx, state, dispatcher, logger)
			}
		} else {
			state.LastSinglePlayerTick = 0
		}
		return
	}

	// 2. Handle bot turns in-game
	if state.Game.Phase != domain.PhasePlaying {
		return
	}
	for botID, agent := range state.Bots {
		view := state.App.Snapshot(state.Game, botID)
		if !botMustAct(view) {
			continue
		}

		if state.BotWaitUntil == 0 {
			delay := state.BotMinDelay
			if span := state.BotMaxDelay - state.BotMinDelay; span > 0 {
				delay += state.rng.Int63n(span + 1)
			}
			state.BotWaitUntil = state.Tick + delay
			logger.Debug("processBots: Bot %s will act at tick %d (current %d)", botID, state.BotWaitUntil, state.Tick)
		}
		if state.Tick < state.BotWaitUntil {
			return
		}
		state.BotWaitUntil = 0

		move, ok := agent.Decide(view)
		if !ok {
			return
		}
		logger.Debug("processBots: Bot %s chose %s", botID, move.Kind)
		mh.applyAction(ctx, state, dispatcher, logger, move.Action(botID))
		return
	}
	state.BotWaitUntil = 0
}

// botMustAct reports whether the viewer is expected to move now.
func botMustAct(view app.Snapshot) bool {
	if view.Phase != domain.PhasePlaying {
		return false
	}
	return view.AwaitingResponse() || (view.OnTurn() && !view.Wager.Pending)
}

func (mh *matchHandler) addBot(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	identity := bot.GetBotIdentity(state.rng.Intn(1 << 16))
	if identity.UserID == "" || state.Game.SeatOf(identity.UserID) != domain.NoSeat {
		logger.Warn("processBots: No usable bot identity available.")
		return
	}

	agent, err := bot.NewAgent(identity, state.rng)
	if err != nil {
		logger.Error("processBots: Failed to create bot agent for %s: %v", identity.UserID, err)
		return
	}
	if _, err := state.App.Join(state.Game, identity.UserID); err != nil {
		logger.Error("processBots: Bot %s could not join: %v", identity.UserID, err)
		return
	}
	state.Bots[identity.UserID] = agent

	logger.Info("processBots: Added bot %s (%s)", identity.DisplayName, identity.UserID)
	mh.seatsChanged(ctx, state, dispatcher, logger)
}

func (mh *matchHandler) displayName(state *MatchState, userID string) string {
	if p, exists := state.Presences[userID]; exists {
		return p.GetUsername()
	}
	if name := bot.GetBotDisplayName(userID); name != "" {
		return name
	}
	return userID
}

func (mh *matchHandler) broadcastRoster(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	players := make([]interface{}, 0, app.PlayersPerMatch)
	for i, userID := range state.Game.Players {
		if userID == "" {
			continue
		}
		players = append(players, map[string]interface{}{
			"user_id":      userID,
			"seat":         i,
			"display_name": mh.displayName(state, userID),
			"is_bot":       isBotUserId(userID),
		})
	}

	mh.broadcast(state, dispatcher, logger, OpRoster, map[string]interface{}{
		"players": players,
		"tier":    state.Tier,
		"stake":   state.Stake,
		"variant": state.Game.Variant,
		"phase":   string(state.Game.Phase),
	}, nil)
}

// broadcastState sends each connected seated player their own view.
func (mh *matchHandler) broadcastState(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	for _, userID := range state.Game.Players {
		if userID != "" {
			mh.sendState(state, dispatcher, logger, userID)
		}
	}
}

func (mh *matchHandler) sendState(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, userID string) {
	presence, ok := state.Presences[userID]
	if !ok {
		return
	}
	snap := state.App.Snapshot(state.Game, userID)
	mh.broadcast(state, dispatcher, logger, OpGameState, snapshotValue(snap), []runtime.Presence{presence})
}

// broadcastEvent handles the conversion and dispatching of app events to Nakama.
func (mh *matchHandler) broadcastEvent(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, ev app.Event) {
	switch p := ev.Payload.(type) {
	case app.HandEndedPayload:
		logger.Info("Event: hand_ended (winner=%q, points=%d, reason=%s, scores=%d-%d)", p.WinnerUserID, p.Points, p.Reason, p.Scores.A, p.Scores.B)
	case app.MatchEndedPayload:
		logger.Info("Event: match_ended (winner=%s, scores=%d-%d)", p.WinnerUserID, p.Scores.A, p.Scores.B)
		mh.settle(ctx, state, logger)
		mh.updateLabel(state, dispatcher, logger)
	}

	opCode, body, ok := eventFrame(ev, state.Game.Players)
	if !ok {
		return
	}

	var recipients []runtime.Presence
	if len(ev.Recipients) > 0 {
		for _, uid := range ev.Recipients {
			if p, ok := state.Presences[uid]; ok {
				recipients = append(recipients, p)
			}
		}

		// If we had intended recipients but none are connected (e.g. they are bots),
		// we MUST NOT broadcast to everyone else.
		if len(recipients) == 0 {
			return
		}
	}

	mh.broadcast(state, dispatcher, logger, opCode, body, recipients)
}

// settle pays the stake from loser to winner. Bots have no wallet. A failed wallet
// update leaves the match unsettled so the next tick retries it.
func (mh *matchHandler) settle(ctx context.Context, state *MatchState, logger runtime.Logger) {
	if state.Settled || state.Economy == nil {
		return
	}

	settlement := state.Game.CalculateSettlement(state.Stake)
	updates := make([]ports.WalletUpdate, 0, len(settlement.BalanceChanges))
	for userID, amount := range settlement.BalanceChanges {
		if isBotUserId(userID) {
			continue
		}
		updates = append(updates, ports.WalletUpdate{
			UserID: userID,
			Amount: amount,
			Metadata: map[string]interface{}{
				"match_id": ctx.Value(runtime.RUNTIME_CTX_MATCH_ID),
				"reason":   "match_settlement",
				"tier":     state.Tier,
			},
		})
	}
	if len(updates) > 0 {
		if err := state.Economy.UpdateBalances(ctx, updates); err != nil {
			logger.Error("settle: Failed to pay out stake %d, will retry: %v", state.Stake, err)
			return
		}
	}
	state.Settled = true
}

func (mh *matchHandler) broadcast(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, opCode int64, body map[string]interface{}, recipients []runtime.Presence) {
	bytes, err := encodePayload(body)
	if err != nil {
		logger.Error("Failed to marshal op %d: %v", opCode, err)
		return
	}
	if err := dispatcher.BroadcastMessage(opCode, bytes, recipients, nil, true); err != nil {
		logger.Warn("Failed to send op %d: %v", opCode, err)
	}
}

// sendError sends a game error frame to a specific user.
func (mh *matchHandler) sendError(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, userID string, code int, kind, message string) {
	presence, ok := state.Presences[userID]
	if !ok {
		if !isBotUserId(userID) {
			logger.Warn("Cannot send error to %s: Presence not found", userID)
		}
		return
	}

	mh.broadcast(state, dispatcher, logger, OpGameError, map[string]interface{}{
		"code":    code,
		"kind":    kind,
		"message": message,
	}, []runtime.Presence{presence})
}

func (mh *matchHandler) updateLabel(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	label, err := encodeLabel(domain.ComputeLabel(state.Game, state.Tier))
	if err != nil {
		logger.Error("UpdateLabel: Failed to marshal: %v", err)
		return
	}
	if err := dispatcher.MatchLabelUpdate(label); err != nil {
		logger.Error("UpdateLabel: Failed to update: %v", err)
	}
}

func (mh *matchHandler) MatchTerminate(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, graceSeconds int) interface{} {
	logger.Debug("MatchTerminate: Match terminated with %d grace seconds", graceSeconds)
	return state
}

func (mh *matchHandler) MatchSignal(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, data string) (interface{}, string) {
	return state, ""
}
