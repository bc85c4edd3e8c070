package errors

// ErrorCode represents a unique error code for identifying different error types.
type ErrorCode int

const (
	// General errors (1-99)
	ErrCodeUnknown ErrorCode = 1

	// Extraction errors (100-199)
	ErrCodeStateNotFound           ErrorCode = 100
	ErrCodeStateMalformed          ErrorCode = 101
	ErrCodeStateVersionUnsupported ErrorCode = 102

	// Normalization errors (200-299)
	ErrCodeCandlesNotFound ErrorCode = 200
	ErrCodeEmptyRange      ErrorCode = 201

	// Configuration errors (300-399)
	ErrCodeInvalidConfig      ErrorCode = 300
	ErrCodeInvalidPeriod      ErrorCode = 301
	ErrCodeInvalidRange       ErrorCode = 302
	ErrCodeInvalidMACDPeriods ErrorCode = 303

	// Fetch errors (400-499)
	ErrCodeFetchFailed ErrorCode = 400
	ErrCodeHTTPStatus  ErrorCode = 401

	// Store errors (500-599)
	ErrCodeStoreInit  ErrorCode = 500
	ErrCodeStoreQuery ErrorCode = 501
	ErrCodeStoreWrite ErrorCode = 502

	// Watchlist errors (600-699)
	ErrCodeWatchlistLoad     ErrorCode = 600
	ErrCodeWatchlistSave     ErrorCode = 601
	ErrCodeWatchlistNotFound ErrorCode = 602
)
