package scoring

import (
	"github.com/clparker78/straight-razor-draft/internal/domain/model"
)

// Option applies a configuration option to the Engine.
type Option func(*Engine)

// WithPolicy sets the entry width policy.
func WithPolicy(p Policy) Option {
	return func(e *Engine) {
		if p != "" {
			e.policy = p
		}
	}
}

// Result is the outcome of one scoring pass.
type Result struct {
	Board    model.Leaderboard
	Rejected []Rejection
}

// Engine validates entries with its policy and scores the survivors.
type Engine struct {
	policy Policy
}

// NewEngine creates an engine; the default policy is Lenient.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{policy: Lenient}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Policy reports the configured width policy.
func (e *Engine) Policy() Policy { return e.policy }

// Run validates and scores. The board length equals the number of accepted entries.
func (e *Engine) Run(entries []model.Entry, picks []model.Pick) Result {
	valid, rejected := Validate(entries, e.policy)
	return Result{
		Board:    Score(valid, picks),
		Rejected: rejected,
	}
}
