// Package hashing provides an offline embedder based on the hashing trick.
// Vectors only capture shared vocabulary, so it is meant for local runs and tests.
package hashing

import (
	"context"
	"fmt"
	"hash/fnv"
	"math"
	"regexp"
	"strings"
)

const DefaultDimension = 256

var tokenPattern = regexp.MustCompile(`[\p{L}\p{N}][\p{L}\p{N}+#.]*`)

var stopwords = map[string]struct{}{
	"a": {}, "an": {}, "the": {}, "and": {}, "or": {}, "for": {}, "to": {}, "of": {},
	"in": {}, "on": {}, "at": {}, "by": {}, "with": {}, "as": {}, "is": {}, "are": {},
	"be": {}, "we": {}, "you": {}, "our": {}, "your": {}, "this": {}, "that": {},
}

// Embedder maps tokens into a fixed number of buckets and L2-normalises the counts.
type Embedder struct {
	dimension int
}

func New(dimension int) *Embedder {
	if dimension <= 0 {
		dimension = DefaultDimension
	}
	return &Embedder{dimension: dimension}
}

func (e *Embedder) Model() string { return fmt.Sprintf("hashing-%d", e.dimension) }

func (e *Embedder) Dimension() int { return e.dimension }

// Embed fails when text has no indexable tokens (empty, only stopwords or
// punctuation), since a zero vector has no direction to compare.
func (e *Embedder) Embed(ctx context.Context, text string) ([]float32, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	vec := make([]float64, e.dimension)
	tokens := 0
	for _, tok := range tokenPattern.FindAllString(strings.ToLower(text), -1) {
		tok = strings.TrimRight(tok, ".")
		if _, skip := stopwords[tok]; skip || tok == "" {
			continue
		}
		h := fnv.New32a()
		_, _ = h.Write([]byte(tok))
		vec[h.Sum32()%uint32(e.dimension)]++
		tokens++
	}

	if tokens == 0 {
		return nil, fmt.Errorf("no tokens found in text")
	}

	norm := 0.0
	for _, v := range vec {
		norm += v * v
	}
	norm = math.Sqrt(norm)

	out := make([]float32, e.dimension)
	for i, v := range vec {
		out[i] = float32(v / norm)
	}

	return out, nil
}
