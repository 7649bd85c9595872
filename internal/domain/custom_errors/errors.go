package custom_errors

import "errors"

// Ledger errors
var (
	ErrLedgerUnavailable   = errors.New("ledger unavailable")
	ErrLedgerCall          = errors.New("ledger call failed")
	ErrSignerUnavailable   = errors.New("signer unavailable")
	ErrTransactionRejected = errors.New("transaction rejected")
	ErrTransactionReverted = errors.New("transaction reverted")
	ErrEditUnsupported     = errors.New("post editing is not supported by the ledger contract")
)

// Content store errors
var (
	ErrContentFetch     = errors.New("content fetch failed")
	ErrStoreUpload      = errors.New("content upload failed")
	ErrStoreUnavailable = errors.New("content store unavailable")
)

// Post errors
var (
	ErrInvalidInput      = errors.New("invalid input")
	ErrPostNotFound      = errors.New("post not found")
	ErrRefreshSuperseded = errors.New("refresh superseded by a newer request")
)

// Journal errors
var (
	ErrPublicationNotFound = errors.New("publication not found")
	ErrDatabaseQuery       = errors.New("database query failed")
)

// Cache errors
var (
	ErrCacheMiss = errors.New("cache miss")
)
