package nakama

const (
	// RpcQuickMatch is the Nakama RPC id clients call to find or create an open lobby.
	RpcQuickMatch = "quick_match"
	// RpcCreateTable creates a private table and returns an invite token for it.
	RpcCreateTable = "create_table"

	// MatchName is the authoritative match handler name registered with Nakama.
	MatchName = "supersuit_match"
	// GameLabel is the value of the "game" key in match labels.
	GameLabel = "supersuit"

	// InviteMetadataKey is the join metadata key carrying a private-table invite token.
	InviteMetadataKey = "invite"

	tickRate = 5
)

// Op codes for client messages and server events.
const (
	// Client -> Server
	OpStartGame      int64 = 1
	OpPlayCard       int64 = 2
	OpRevealTrump    int64 = 3
	OpNextGame       int64 = 4
	OpConfigureNames int64 = 5

	// Server -> Client events
	OpMatchState     int64 = 101 // per presence, carries the recipient's own hand
	OpHandDealt      int64 = 102 // send privately
	OpCardPlayed     int64 = 103
	OpTrumpRevealed  int64 = 104
	OpTrickCompleted int64 = 105
	OpTrickStarted   int64 = 106
	OpGameStarted    int64 = 107
	OpGameEnded      int64 = 108
	OpBigWin         int64 = 109
	OpIntentRejected int64 = 110 // send privately
	OpTableHalted    int64 = 111
)

// Label states.
const (
	labelLobby     = "lobby"
	labelPlaying   = "playing"
	labelCompleted = "completed"
	labelHalted    = "halted"
)

// Rejection codes sent with OpIntentRejected.
const (
	rejectBadRequest = 400
	rejectForbidden  = 403
	rejectConflict   = 409
)
