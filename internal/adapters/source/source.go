// Package source loads reported picks and contest entries and reports each
// load as an explicit Outcome instead of failing the refresh.
package source

import (
	"context"
	"time"

	"github.com/clparker78/straight-razor-draft/internal/domain/model"
)

// Status of a load.
type Status string

const (
	StatusLoaded      Status = "loaded"
	StatusUnavailable Status = "unavailable"
)

// Outcome is the result of fetching a source. An unavailable outcome carries
// the zero Data and the reason in Err.
type Outcome[T any] struct {
	Status   Status
	Data     T
	Err      error
	Cached   bool
	LoadedAt time.Time
}

// Loaded wraps data fetched at t.
func Loaded[T any](data T, t time.Time) Outcome[T] {
	return Outcome[T]{Status: StatusLoaded, Data: data, LoadedAt: t}
}

// Unavailable reports a failed load.
func Unavailable[T any](err error) Outcome[T] {
	return Outcome[T]{Status: StatusUnavailable, Err: err}
}

// OK reports whether data was loaded.
func (o Outcome[T]) OK() bool { return o.Status == StatusLoaded }

// Loader fetches one data set.
type Loader[T any] interface {
	Load(ctx context.Context) (T, error)
}

// ResultsLoader loads reported picks ordered by pick number.
type ResultsLoader = Loader[[]model.Pick]

// EntriesLoader loads contest entries in file order.
type EntriesLoader = Loader[[]model.Entry]
