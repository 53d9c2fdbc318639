package talent

import (
	"fmt"
	"strings"
)

const DefaultCategory = "Full-time"

// Posting is a job description published by a poster. An owner may have many.
type Posting struct {
	ID           string    `json:"id"`
	OwnerID      string    `json:"owner_id"`
	Title        string    `json:"title"`
	Organization string    `json:"organization"`
	Description  string    `json:"description"`
	Requirements []string  `json:"requirements"`
	Location     string    `json:"location"`
	Compensation string    `json:"compensation_range,omitempty"`
	Category     string    `json:"category"`
	Embedding    []float32 `json:"embedding,omitempty"`
}

func (p Posting) RecordID() string  { return p.ID }
func (p Posting) Owner() string     { return p.OwnerID }
func (p Posting) Vector() []float32 { return p.Embedding }

// EmbeddingText is the text a posting embedding is computed from.
func (p Posting) EmbeddingText() string {
	return fmt.Sprintf("%s %s %s", p.Title, p.Description, strings.Join(p.Requirements, " "))
}

// Submission is an unvalidated request to publish a posting.
type Submission struct {
	OwnerID      string   `json:"owner_id" yaml:"owner_id" mapstructure:"owner_id"`
	Title        string   `json:"title" yaml:"title"`
	Organization string   `json:"organization" yaml:"organization"`
	Description  string   `json:"description" yaml:"description"`
	Requirements []string `json:"requirements" yaml:"requirements"`
	Location     string   `json:"location" yaml:"location"`
	Compensation string   `json:"compensation_range" yaml:"compensation_range" mapstructure:"compensation_range"`
	Category     string   `json:"category" yaml:"category"`
}

// MissingField returns the name of the first required field that is blank.
func (s Submission) MissingField() string {
	required := []struct {
		name  string
		value string
	}{
		{"owner_id", s.OwnerID},
		{"title", s.Title},
		{"organization", s.Organization},
		{"description", s.Description},
		{"location", s.Location},
	}
	for _, f := range required {
		if strings.TrimSpace(f.value) == "" {
			return f.name
		}
	}
	if s.Requirements == nil {
		return "requirements"
	}
	return ""
}

// Posting builds the posting the submission describes, without id or embedding.
func (s Submission) Posting() Posting {
	category := strings.TrimSpace(s.Category)
	if category == "" {
		category = DefaultCategory
	}
	reqs := make([]string, 0, len(s.Requirements))
	for _, r := range s.Requirements {
		if r = strings.TrimSpace(r); r != "" {
			reqs = append(reqs, r)
		}
	}
	return Posting{
		OwnerID:      strings.TrimSpace(s.OwnerID),
		Title:        strings.TrimSpace(s.Title),
		Organization: strings.TrimSpace(s.Organization),
		Description:  strings.TrimSpace(s.Description),
		Requirements: reqs,
		Location:     strings.TrimSpace(s.Location),
		Compensation: strings.TrimSpace(s.Compensation),
		Category:     category,
	}
}
