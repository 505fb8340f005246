package domain

// Logical collection names. Every DAL call is parameterized by one of
// these; nothing else in the codebase hardcodes a collection string.
const (
	CollectionUsers          = "users"
	CollectionAccessTokens   = "access_tokens"
	CollectionTempPassport   = "temp_passport"
	CollectionPassport       = "passport"
	CollectionRequestTracker = "request_tracker"
)
