package talent

import "strings"

// Profile is a candidate résumé. An owner has at most one live profile.
type Profile struct {
	ID         string    `json:"id"`
	OwnerID    string    `json:"owner_id"`
	Name       string    `json:"name"`
	Email      string    `json:"email,omitempty"`
	Skills     []string  `json:"skills"`
	Experience string    `json:"experience"`
	Education  string    `json:"education"`
	RawText    string    `json:"raw_text"`
	Embedding  []float32 `json:"embedding,omitempty"`
}

func (p Profile) RecordID() string  { return p.ID }
func (p Profile) Owner() string     { return p.OwnerID }
func (p Profile) Vector() []float32 { return p.Embedding }

// HasSkill reports whether the profile lists the skill, ignoring case.
func (p Profile) HasSkill(skill string) bool {
	for _, s := range p.Skills {
		if strings.EqualFold(s, skill) {
			return true
		}
	}
	return false
}
