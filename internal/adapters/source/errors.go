package source

import "errors"

// Sentinel error kinds for this package.
var (
	ErrNotConfigured  = errors.New("source not configured")
	ErrUpstreamStatus = errors.New("unexpected upstream status")
	ErrMissingColumn  = errors.New("missing column")
	ErrUnsupported    = errors.New("unsupported file type")
	ErrEmptySheet     = errors.New("empty sheet")
	ErrInvalidPick    = errors.New("invalid pick")
	ErrDuplicatePick  = errors.New("pick already reported")
	ErrPickTaken      = errors.New("pick number already holds another player")
	ErrPlayerTaken    = errors.New("player already drafted")
	ErrPickNotFound   = errors.New("pick not reported")
)
