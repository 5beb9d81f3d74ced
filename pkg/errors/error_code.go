package errors

// ErrorCode represents a unique error code for identifying different error types.
type ErrorCode int

const (
	// General errors (1-99)
	ErrCodeUnknown ErrorCode = 1

	// Configuration errors (100-199)
	ErrCodeInvalidParameter     ErrorCode = 100
	ErrCodeInvalidConfiguration ErrorCode = 101
	ErrCodeMissingParameter     ErrorCode = 109
	ErrCodeInvalidVersion       ErrorCode = 110
	ErrCodeInvalidPolicy        ErrorCode = 120

	// Remote API errors (200-299)
	ErrCodeAuthFailed         ErrorCode = 200
	ErrCodeVersionFetchFailed ErrorCode = 201

	// Compatibility errors (400-499)
	ErrCodeVersionMismatch ErrorCode = 404

	// Output errors (700-799)
	ErrCodeReportWriteFailed ErrorCode = 701
)
