package talent

// MatchResult is one ranked entry returned by a match call. It is never persisted.
type MatchResult struct {
	SubjectID   string        `json:"subject_id"`
	OwnerID     string        `json:"owner_id"`
	DisplayName string        `json:"display_name"`
	Score       float64       `json:"similarity_score"`
	Snippet     string        `json:"snippet"`
	Metadata    MatchMetadata `json:"metadata"`
}

// MatchMetadata carries the side-specific details shown next to a match.
type MatchMetadata struct {
	Organization string   `json:"organization,omitempty"`
	Location     string   `json:"location,omitempty"`
	Compensation string   `json:"compensation_range,omitempty"`
	Requirements []string `json:"requirements,omitempty"`
	Skills       []string `json:"skills,omitempty"`
}
