package service

import "errors"

// Sentinel errors returned by the service.
var (
	ErrNotStarted     = errors.New("service not started")
	ErrManualDisabled = errors.New("manual picks are disabled in sheet mode")
	ErrNoPicks        = errors.New("no picks reported yet")
	ErrUnknownMode    = errors.New("unknown results mode")
)
