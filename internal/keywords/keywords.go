// Package keywords finds known skill terms in free text.
package keywords

import "strings"

// Term is one vocabulary entry. Match is lower case; Display is what callers see.
type Term struct {
	Match   string
	Display string
}

// Vocabulary is the default closed skill list, in output order.
var Vocabulary = []Term{
	{"python", "Python"},
	{"java", "Java"},
	{"javascript", "JavaScript"},
	{"typescript", "TypeScript"},
	{"react", "React"},
	{"node.js", "Node.js"},
	{"golang", "Go"},
	{"sql", "SQL"},
	{"postgresql", "PostgreSQL"},
	{"graphql", "GraphQL"},
	{"aws", "AWS"},
	{"docker", "Docker"},
	{"kubernetes", "Kubernetes"},
	{"terraform", "Terraform"},
	{"linux", "Linux"},
	{"git", "Git"},
	{"machine learning", "Machine Learning"},
	{"data analysis", "Data Analysis"},
	{"project management", "Project Management"},
	{"communication", "Communication"},
	{"leadership", "Leadership"},
	{"problem solving", "Problem Solving"},
	{"teamwork", "Teamwork"},
	{"agile", "Agile"},
	{"scrum", "Scrum"},
}

// Extractor scans text for the terms of a fixed vocabulary. It is safe for concurrent use.
type Extractor struct {
	terms []Term
}

// New builds an extractor over terms. Terms with an empty match are ignored
// and later duplicates of a display form collapse into the first.
func New(terms []Term) *Extractor {
	seen := make(map[string]struct{}, len(terms))
	kept := make([]Term, 0, len(terms))
	for _, t := range terms {
		t.Match = strings.ToLower(strings.TrimSpace(t.Match))
		if t.Match == "" {
			continue
		}
		if t.Display == "" {
			t.Display = t.Match
		}
		if _, ok := seen[t.Display]; ok {
			continue
		}
		seen[t.Display] = struct{}{}
		kept = append(kept, t)
	}
	return &Extractor{terms: kept}
}

// Default returns an extractor over Vocabulary.
func Default() *Extractor {
	return New(Vocabulary)
}

// Extract returns the display form of every term that occurs as a substring of
// the lower-cased text joined with requirements, in vocabulary order.
func (e *Extractor) Extract(text string, requirements ...string) []string {
	haystack := strings.ToLower(text + " " + strings.Join(requirements, " "))

	found := []string{}
	for _, t := range e.terms {
		if strings.Contains(haystack, t.Match) {
			found = append(found, t.Display)
		}
	}
	return found
}
