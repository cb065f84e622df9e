package constants

// Centralized constants for headers, env keys and cookie names.
const (
	// Environment variable keys
	EnvSessionSecret       = "SESSION_SECRET"
	EnvSessionSecureCookie = "SESSION_SECURE_COOKIE"
	EnvConfigPath          = "ODDREALM_CONFIG"
	EnvDatabasePath        = "ODDREALM_DB"

	// HTTP headers and content types
	HeaderAuthorization = "Authorization"
	HeaderContentType   = "Content-Type"

	ContentTypeJSON = "application/json"

	CacheControlHeader  = "Cache-Control"
	CacheControlNoCache = "no-cache, no-store, must-revalidate"

	// Authorization prefix
	BearerPrefix = "Bearer "

	// Session / Cookie names
	CookieSessionName = "od_session"
)

// Routes used by the backend router
const (
	RouteAPIPrefix = "/api"

	RouteSession     = "/session"
	RouteProfile     = "/profile"
	RouteLeaderboard = "/leaderboard"

	RouteRequests      = "/requests"
	RouteRequestByID   = "/requests/:requestUUID"
	RouteRequestAccept = "/requests/:requestUUID/accept"

	RouteBattleCurrent = "/battle"
	RouteBattleMove    = "/battles/:battleUUID/move"
	RouteBattleEnd     = "/battles/:battleUUID/end"

	RouteTrainings    = "/trainings"
	RouteTrainingMove = "/trainings/:trainingUUID/move"
)

// Common JSON response keys
const (
	JSONKeyError   = "error"
	JSONKeyMessage = "message"
	JSONKeyStatus  = "status"
)

// Common error messages used across API handlers
const (
	ErrInvalidRequest = "Invalid request"

	ErrNameRequired      = "name is required"
	ErrNameExceeds       = "Name exceeds 32 characters"
	ErrUnknownClass      = "Unknown class"
	ErrFailedCreateUser  = "Failed to create profile"
	ErrProfileNotFound   = "Profile not found"
	ErrFailedFetchStats  = "Failed to fetch stats"
	ErrFailedLeaderboard = "Failed to fetch leaderboard"

	ErrInsufficientHealth   = "Health below half; rest before challenging"
	ErrRequestNotFound      = "Challenge request not found"
	ErrNotCancellable       = "Request can no longer be cancelled"
	ErrSelfAcceptance       = "Cannot accept your own challenge"
	ErrAlreadyAccepted      = "Challenge already taken or expired"
	ErrFailedCreateRequest  = "Failed to create challenge request"
	ErrFailedListRequests   = "Failed to list challenge requests"
	ErrWaitWindowOutOfRange = "Wait window out of range"

	ErrBattleNotFound    = "Battle not found, please refresh"
	ErrNotInBattle       = "You are not part of this battle"
	ErrInvalidZone       = "Unknown target zone"
	ErrStoreContention   = "Battle is busy, try again"
	ErrFailedFetchBattle = "Failed to fetch battle"
	ErrFailedSubmitMove  = "Failed to submit move"
	ErrFailedEndBattle   = "Failed to end battle"

	ErrTrainingNotFound = "Training bout not found"
	ErrTrainingFinished = "Training bout already finished"
	ErrFailedStartBout  = "Failed to start training bout"

	ErrFailedCreateSession = "Failed to create session"
	ErrAuthRequired        = "Authentication required"
	ErrInvalidSession      = "Invalid session"
)

// Logging field names
const (
	LogFieldBattleUUID    = "battle_uuid"
	LogFieldRequestUUID   = "request_uuid"
	LogFieldCombatantUUID = "combatant_uuid"
	LogFieldRound         = "round"
	LogFieldCount         = "count"
	LogFieldAddr          = "addr"
	LogFieldSource        = "source"
)
