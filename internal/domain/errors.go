package domain

import "errors"

var (
	// ErrConnectionRefused indicates no analyzer server is listening on the
	// configured host and port.
	ErrConnectionRefused = errors.New("connection refused")

	// ErrConnectionClosed indicates the analyzer server closed the connection
	// before the terminator pattern was received.
	ErrConnectionClosed = errors.New("connection closed")

	// ErrInvalidInput indicates an argument violates the documented
	// preconditions (invalid UTF-8 text, nil sentence).
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotConfigured indicates the analyzer transport or a configuration
	// value is in no recognised state.
	ErrNotConfigured = errors.New("not defined")

	// ErrBackendUnavailable indicates the analyzer executable cannot be found.
	ErrBackendUnavailable = errors.New("analyzer backend unavailable")

	// ErrTimeout indicates the analyzer did not answer within the deadline.
	ErrTimeout = errors.New("analyzer timeout")

	// ErrParse indicates an analyzer output line could not be parsed.
	ErrParse = errors.New("malformed analyzer output")
)
