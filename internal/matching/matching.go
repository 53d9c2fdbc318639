// Package matching ranks stored records against a free-text query by cosine
// similarity of their embeddings.
package matching

import (
	"cmp"
	"context"
	"math"
	"slices"

	"go.uber.org/zap"

	"github.com/spigell/hh-matcher/internal/ai"
	"github.com/spigell/hh-matcher/internal/filtering"
	"github.com/spigell/hh-matcher/internal/logger"
	"github.com/spigell/hh-matcher/internal/talent"
)

// Ranked pairs a record with its similarity to the query.
type Ranked[T talent.Record] struct {
	Record T
	Score  float64
}

// Result holds the top matches, best first, and how many records were
// eligible after owner exclusion.
type Result[T talent.Record] struct {
	Matches         []Ranked[T]
	TotalConsidered int
}

type Engine struct {
	embedder ai.Embedder
	logger   *zap.Logger
}

func NewEngine(embedder ai.Embedder, log *zap.Logger) *Engine {
	return &Engine{
		embedder: embedder,
		logger:   logger.Component(log, "matching"),
	}
}

// Match embeds query and ranks records against it. Records owned by
// excludeOwner are never returned. The query is embedded at most once and not
// at all when topK <= 0 or no record is left to rank.
func Match[T talent.Record](ctx context.Context, e *Engine, query string, records []T, topK int, excludeOwner string) (*Result[T], error) {
	steps := []filtering.Filter[T]{
		filtering.NewExcludeOwner[T](excludeOwner),
		filtering.NewHasEmbedding[T](),
	}

	eligible, trace, err := filtering.Run(ctx, e.logger, steps, records)
	if err != nil {
		return nil, err
	}

	considered, ok := trace.Left(filtering.ExcludeOwnerName)
	if !ok {
		considered = len(records)
	}

	result := &Result[T]{Matches: []Ranked[T]{}, TotalConsidered: considered}
	if topK <= 0 || len(eligible) == 0 {
		e.logger.Debug("nothing to rank",
			zap.Int("top_k", topK),
			zap.Int("considered", considered),
			zap.Int("eligible", len(eligible)),
		)
		return result, nil
	}

	vec, err := ai.Embed(ctx, e.embedder, query)
	if err != nil {
		return nil, err
	}

	scored, _, err := filtering.Run(ctx, e.logger, []filtering.Filter[T]{filtering.NewDimension[T](len(vec))}, eligible)
	if err != nil {
		return nil, err
	}
	if skipped := len(eligible) - len(scored); skipped > 0 {
		e.logger.Warn("records with a different embedding dimension skipped",
			zap.Int("skipped", skipped),
			zap.Int("dimension", len(vec)),
		)
	}

	result.Matches = Rank(vec, scored, topK)

	e.logger.Debug("ranked",
		zap.Int("considered", considered),
		zap.Int("scored", len(scored)),
		zap.Int("returned", len(result.Matches)),
	)

	return result, nil
}

// Rank scores every record against query and returns the best topK.
// Ties keep the order of records.
func Rank[T talent.Record](query []float32, records []T, topK int) []Ranked[T] {
	if topK <= 0 {
		return []Ranked[T]{}
	}

	ranked := make([]Ranked[T], 0, len(records))
	for _, r := range records {
		ranked = append(ranked, Ranked[T]{Record: r, Score: Cosine(query, r.Vector())})
	}

	slices.SortStableFunc(ranked, func(a, b Ranked[T]) int {
		return cmp.Compare(b.Score, a.Score)
	})

	if len(ranked) > topK {
		ranked = ranked[:topK]
	}
	return ranked
}

// Cosine returns the cosine similarity of a and b clamped to [-1, 1].
// Vectors of different length, zero norm or non-finite components score 0.
func Cosine(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}

	var dot, na, nb float64
	for i := range a {
		x, y := float64(a[i]), float64(b[i])
		dot += x * y
		na += x * x
		nb += y * y
	}
	if na == 0 || nb == 0 {
		return 0
	}

	sim := dot / (math.Sqrt(na) * math.Sqrt(nb))
	if math.IsNaN(sim) {
		return 0
	}
	return math.Max(-1, math.Min(1, sim))
}
