// Package insights computes summary statistics over full collections.
//
// Every call recomputes from scratch in O(n) over the records it is given.
// That is fine for the small collections this service holds; larger
// deployments need a precomputed view, not a cache in front of this code.
package insights

import (
	"bytes"
	"encoding/json"
	"sort"
)

// TopLimit is the number of entries kept in every ranked list.
const TopLimit = 10

// Count is a label with the number of records that carry it.
type Count struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// Labels returns the labels of counts in order.
func Labels(counts []Count) []string {
	out := make([]string, 0, len(counts))
	for _, c := range counts {
		out = append(out, c.Label)
	}
	return out
}

// Distribution is an ordered label to count mapping. It encodes as a JSON
// object whose keys keep the distribution order.
type Distribution []Count

// Total is the sum of all bucket counts.
func (d Distribution) Total() int {
	n := 0
	for _, c := range d {
		n += c.Count
	}
	return n
}

// Get returns the count of label, zero when absent.
func (d Distribution) Get(label string) int {
	for _, c := range d {
		if c.Label == label {
			return c.Count
		}
	}
	return 0
}

func (d Distribution) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, c := range d {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(c.Label)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		val, err := json.Marshal(c.Count)
		if err != nil {
			return nil, err
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Top counts labels and returns the most frequent ones, at most limit.
// Equal counts keep first-seen order. Empty labels are ignored.
func Top(labels []string, limit int) []Count {
	counts := []Count(Tally(labels))
	if limit <= 0 {
		return []Count{}
	}

	// Tally is in first-seen order; a stable sort keeps it on ties.
	sort.SliceStable(counts, func(i, j int) bool {
		return counts[i].Count > counts[j].Count
	})
	if len(counts) > limit {
		counts = counts[:limit]
	}
	return counts
}

// Tally counts labels in first-seen order. Empty labels are ignored.
func Tally(labels []string) Distribution {
	index := make(map[string]int, len(labels))
	out := Distribution{}
	for _, l := range labels {
		if l == "" {
			continue
		}
		if i, ok := index[l]; ok {
			out[i].Count++
			continue
		}
		index[l] = len(out)
		out = append(out, Count{Label: l, Count: 1})
	}
	return out
}

// Rule assigns a record to Label when Match reports true.
type Rule[T any] struct {
	Label string
	Match func(T) bool
}

// Classifier places every record into exactly one bucket. Rules are tried in
// order and the first match wins; records matching no rule go to Fallback.
// Buckets are reported in Order, zero counts included.
type Classifier[T any] struct {
	Order    []string
	Rules    []Rule[T]
	Fallback string
}

// Distribute classifies records. No records yield an empty distribution.
func (c Classifier[T]) Distribute(records []T) Distribution {
	out := Distribution{}
	if len(records) == 0 {
		return out
	}

	index := make(map[string]int, len(c.Order))
	for _, label := range c.Order {
		index[label] = len(out)
		out = append(out, Count{Label: label})
	}

	for _, r := range records {
		label := c.classify(r)
		i, ok := index[label]
		if !ok {
			i = len(out)
			index[label] = i
			out = append(out, Count{Label: label})
		}
		out[i].Count++
	}
	return out
}

func (c Classifier[T]) classify(record T) string {
	for _, rule := range c.Rules {
		if rule.Match(record) {
			return rule.Label
		}
	}
	return c.Fallback
}
