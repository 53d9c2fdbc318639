// Package filtering runs ordered pre-ranking steps over stored records and
// reports how many records each step dropped.
package filtering

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/spigell/hh-matcher/internal/talent"
)

// Filter represents a single filtering step applied to records.
type Filter[T talent.Record] interface {
	Name() string
	Disable(reason string)
	IsEnabled() bool

	Validate() error
	Apply(ctx context.Context, records []T) ([]T, Step, error)
}

// Step describes the result of executing a filtering step.
type Step struct {
	Initial int
	Dropped int
	Left    int
}

// Trace is the ordered list of executed steps.
type Trace []NamedStep

type NamedStep struct {
	Name string
	Step
}

// Left returns how many records were left after the named step ran.
func (t Trace) Left(name string) (int, bool) {
	for _, s := range t {
		if s.Name == name {
			return s.Left, true
		}
	}
	return 0, false
}

// DisableByName marks a filter with the provided name as disabled while keeping it in the list.
func DisableByName[T talent.Record](steps []Filter[T], name, reason string) {
	for _, step := range steps {
		if step.Name() == name {
			step.Disable(reason)
		}
	}
}

// Run executes the supplied filters sequentially. Input order is preserved.
func Run[T talent.Record](ctx context.Context, logger *zap.Logger, steps []Filter[T], records []T) ([]T, Trace, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	for _, step := range steps {
		if !step.IsEnabled() {
			continue
		}
		if err := step.Validate(); err != nil {
			return nil, nil, fmt.Errorf("%s: %w", step.Name(), err)
		}
	}

	trace := make(Trace, 0, len(steps))
	for _, step := range steps {
		if !step.IsEnabled() {
			logger.Debug("filter disabled", zap.String("name", step.Name()))
			continue
		}

		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}

		next, info, err := step.Apply(ctx, records)
		if err != nil {
			return nil, nil, fmt.Errorf("%s: %w", step.Name(), err)
		}

		logger.Debug("filter step",
			zap.String("name", step.Name()),
			zap.Int("initial", info.Initial),
			zap.Int("dropped", info.Dropped),
			zap.Int("left", info.Left),
		)

		trace = append(trace, NamedStep{Name: step.Name(), Step: info})
		records = next
	}

	return records, trace, nil
}

// keep copies the records accepted by keep into a new slice.
func keep[T talent.Record](records []T, accept func(T) bool) ([]T, Step) {
	out := make([]T, 0, len(records))
	for _, r := range records {
		if accept(r) {
			out = append(out, r)
		}
	}
	return out, Step{Initial: len(records), Dropped: len(records) - len(out), Left: len(out)}
}
