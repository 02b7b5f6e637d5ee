package scoring

import "errors"

// Sentinel error kinds for this package.
var (
	ErrMalformedEntry = errors.New("malformed entry")
	ErrUnknownPolicy  = errors.New("unknown entry policy")
)
