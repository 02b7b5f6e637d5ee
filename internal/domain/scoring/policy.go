package scoring

import (
	"fmt"
	"strings"

	"github.com/clparker78/straight-razor-draft/internal/domain/model"
)

// Policy decides what to do with entries that do not hold exactly 32 guesses.
type Policy string

const (
	// Lenient scores every entry; missing slots count as unmatched and extra ones are dropped.
	Lenient Policy = "lenient"
	// Strict rejects entries whose width is not 32 before scoring.
	Strict Policy = "strict"
)

// ParsePolicy maps a config value to a Policy. Empty means Lenient.
func ParsePolicy(s string) (Policy, error) {
	switch Policy(strings.ToLower(strings.TrimSpace(s))) {
	case "", Lenient:
		return Lenient, nil
	case Strict:
		return Strict, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownPolicy, s)
	}
}

// Rejection describes an entry left off the board.
type Rejection struct {
	Participant string
	Slots       int
	Err         error
}

// Validate applies policy to entries and returns the ones to score. Under
// Lenient nothing is rejected and oversized entries are cut to 32 slots.
func Validate(entries []model.Entry, policy Policy) ([]model.Entry, []Rejection) {
	valid := make([]model.Entry, 0, len(entries))
	var rejected []Rejection

	for _, e := range entries {
		n := len(e.Predictions)
		if n == model.FirstRound {
			valid = append(valid, e)
			continue
		}
		if policy == Strict {
			rejected = append(rejected, Rejection{
				Participant: e.Participant,
				Slots:       n,
				Err:         fmt.Errorf("%w: %s has %d slots, want %d", ErrMalformedEntry, e.Participant, n, model.FirstRound),
			})
			continue
		}
		if n > model.FirstRound {
			e.Predictions = e.Predictions[:model.FirstRound:model.FirstRound]
		}
		valid = append(valid, e)
	}
	return valid, rejected
}
