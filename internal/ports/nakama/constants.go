package nakama

const (
	// RpcQuickMatch is the Nakama RPC id clients call to find or create a lobby-capable match.
	RpcQuickMatch = "quick_match"

	// MatchNameTruco is the authoritative match handler name registered with Nakama.
	MatchNameTruco = "truco_match"

	// EnvBotsEnabled is the runtime env key that toggles bot opponents.
	EnvBotsEnabled = "truco_bots_enabled"

	gameConfigPath    = "data/game_config.json"
	botIdentitiesPath = "data/bot_identities.json"
	defaultVariant    = "paulista"
)

// Op codes for client messages and server events.
const (
	// Client -> Server
	OpPlayCard        int64 = 1
	OpRequestRaise    int64 = 2
	OpRespondRaise    int64 = 3
	OpRequestSnapshot int64 = 4

	// Server -> Client events
	OpRoster         int64 = 101
	OpGameState      int64 = 102 // sent privately
	OpRaiseRequested int64 = 103
	OpRaiseAnswered  int64 = 104
	OpRoundResolved  int64 = 105
	OpHandEnded      int64 = 106
	OpMatchEnded     int64 = 107
	OpPlayerLeft     int64 = 108
	OpGameError      int64 = 109 // sent privately
)

// Error codes carried by OpGameError.
const (
	errCodeRejected   = 400
	errCodeBadPayload = 422
)
