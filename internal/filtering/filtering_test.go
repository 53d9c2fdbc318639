package filtering

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/spigell/hh-matcher/internal/talent"
)

func profiles() []talent.Profile {
	return []talent.Profile{
		{ID: "p1", OwnerID: "alice", Embedding: []float32{1, 0}},
		{ID: "p2", OwnerID: "bob"},
		{ID: "p3", OwnerID: "carol", Embedding: []float32{0, 1}},
		{ID: "p4", OwnerID: "alice", Embedding: []float32{1, 1}},
		{ID: "p5", OwnerID: "dave", Embedding: []float32{1, 1, 1}},
	}
}

func ids(records []talent.Profile) []string {
	out := make([]string, 0, len(records))
	for _, r := range records {
		out = append(out, r.ID)
	}
	return out
}

func equal(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestRunStepsInOrder(t *testing.T) {
	core, observed := observer.New(zapcore.DebugLevel)
	steps := []Filter[talent.Profile]{
		NewExcludeOwner[talent.Profile]("alice"),
		NewHasEmbedding[talent.Profile](),
		NewDimension[talent.Profile](2),
	}

	out, trace, err := Run(context.Background(), zap.New(core), steps, profiles())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := ids(out); !equal(got, []string{"p3"}) {
		t.Fatalf("unexpected records left: %v", got)
	}

	if len(trace) != 3 {
		t.Fatalf("expected 3 executed steps, got %d", len(trace))
	}

	want := []NamedStep{
		{Name: ExcludeOwnerName, Step: Step{Initial: 5, Dropped: 2, Left: 3}},
		{Name: HasEmbeddingName, Step: Step{Initial: 3, Dropped: 1, Left: 2}},
		{Name: DimensionName, Step: Step{Initial: 2, Dropped: 1, Left: 1}},
	}
	for i := range want {
		if trace[i] != want[i] {
			t.Fatalf("step %d: expected %+v, got %+v", i, want[i], trace[i])
		}
	}

	if left, ok := trace.Left(ExcludeOwnerName); !ok || left != 3 {
		t.Fatalf("expected 3 left after owner exclusion, got %d (%v)", left, ok)
	}

	if n := observed.FilterMessage("filter step").Len(); n != 3 {
		t.Fatalf("expected 3 filter step entries, got %d", n)
	}
}

func TestExcludeOwnerDisabledWhenEmpty(t *testing.T) {
	core, observed := observer.New(zapcore.DebugLevel)
	steps := []Filter[talent.Profile]{NewExcludeOwner[talent.Profile]("")}

	out, trace, err := Run(context.Background(), zap.New(core), steps, profiles())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out) != 5 {
		t.Fatalf("expected all records to pass, got %d", len(out))
	}
	if _, ok := trace.Left(ExcludeOwnerName); ok {
		t.Fatalf("disabled step should not appear in trace")
	}
	if observed.FilterMessage("filter disabled").Len() != 1 {
		t.Fatalf("expected disabled step to be logged")
	}
}

func TestDisableByName(t *testing.T) {
	steps := []Filter[talent.Profile]{
		NewExcludeOwner[talent.Profile]("alice"),
		NewHasEmbedding[talent.Profile](),
	}
	DisableByName(steps, ExcludeOwnerName, "requested")

	if steps[0].IsEnabled() {
		t.Fatalf("expected exclude_owner to be disabled")
	}
	if !steps[1].IsEnabled() {
		t.Fatalf("has_embedding cannot be disabled")
	}
}

func TestRunValidatesBeforeApplying(t *testing.T) {
	steps := []Filter[talent.Profile]{NewDimension[talent.Profile](0)}

	if _, _, err := Run(context.Background(), nil, steps, profiles()); err == nil {
		t.Fatalf("expected validation error for zero dimension")
	}
}

func TestRunStopsOnCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := Run(ctx, nil, []Filter[talent.Profile]{NewHasEmbedding[talent.Profile]()}, profiles())
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestRunKeepsInputUntouched(t *testing.T) {
	input := profiles()
	if _, _, err := Run(context.Background(), nil, []Filter[talent.Profile]{NewHasEmbedding[talent.Profile]()}, input); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := ids(input); !equal(got, []string{"p1", "p2", "p3", "p4", "p5"}) {
		t.Fatalf("input was modified: %v", got)
	}
}
