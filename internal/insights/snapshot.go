package insights

import (
	"strings"

	"github.com/spigell/hh-matcher/internal/talent"
	"github.com/spigell/hh-matcher/internal/utils"
)

const (
	LevelEntry  = "Entry"
	LevelMid    = "Mid"
	LevelSenior = "Senior"

	educationSnippetLimit = 50
)

// ProfileSnapshot summarises the candidate pool.
type ProfileSnapshot struct {
	TotalProfiles        int          `json:"total_profiles"`
	TopSkills            []Count      `json:"top_skills"`
	ExperienceLevels     Distribution `json:"experience_levels"`
	EducationBackgrounds []string     `json:"education_backgrounds"`
}

// PostingSnapshot summarises the open postings.
type PostingSnapshot struct {
	TotalPostings    int          `json:"total_postings"`
	TopOrganizations []Count      `json:"top_organizations"`
	PopularSkills    []Count      `json:"popular_skills"`
	Categories       Distribution `json:"categories"`
	TopLocations     []Count      `json:"top_locations"`
}

// SkillExtractor returns the known skills mentioned in text and requirements.
type SkillExtractor interface {
	Extract(text string, requirements ...string) []string
}

func containsAny(text string, words ...string) bool {
	for _, w := range words {
		if strings.Contains(text, w) {
			return true
		}
	}
	return false
}

// ExperienceLevels buckets profiles by keywords in their experience text.
var ExperienceLevels = Classifier[talent.Profile]{
	Order: []string{LevelEntry, LevelMid, LevelSenior},
	Rules: []Rule[talent.Profile]{
		{
			Label: LevelSenior,
			Match: func(p talent.Profile) bool {
				return containsAny(strings.ToLower(p.Experience), "senior", "lead", "manager", "director")
			},
		},
		{
			Label: LevelMid,
			Match: func(p talent.Profile) bool {
				exp := strings.ToLower(p.Experience)
				return containsAny(exp, "years", "experience") && !containsAny(exp, "entry", "junior", "intern")
			},
		},
	},
	Fallback: LevelEntry,
}

// Profiles computes the candidate pool snapshot.
func Profiles(profiles []talent.Profile) ProfileSnapshot {
	var skills, education []string
	seenEducation := make(map[string]struct{})

	for _, p := range profiles {
		skills = append(skills, p.Skills...)

		if strings.TrimSpace(p.Education) == "" {
			continue
		}
		edu := utils.Snippet(p.Education, educationSnippetLimit)
		if _, ok := seenEducation[edu]; ok {
			continue
		}
		seenEducation[edu] = struct{}{}
		education = append(education, edu)
	}

	backgrounds := utils.FirstN(education, TopLimit)
	if backgrounds == nil {
		backgrounds = []string{}
	}

	return ProfileSnapshot{
		TotalProfiles:        len(profiles),
		TopSkills:            Top(skills, TopLimit),
		ExperienceLevels:     ExperienceLevels.Distribute(profiles),
		EducationBackgrounds: backgrounds,
	}
}

// Postings computes the posting market snapshot.
func Postings(postings []talent.Posting, extractor SkillExtractor) PostingSnapshot {
	organizations := make([]string, 0, len(postings))
	locations := make([]string, 0, len(postings))
	categories := make([]string, 0, len(postings))
	var skills []string

	for _, p := range postings {
		organizations = append(organizations, p.Organization)
		locations = append(locations, p.Location)
		categories = append(categories, p.Category)
		if extractor != nil {
			skills = append(skills, extractor.Extract(p.Description, p.Requirements...)...)
		}
	}

	return PostingSnapshot{
		TotalPostings:    len(postings),
		TopOrganizations: Top(organizations, TopLimit),
		PopularSkills:    Top(skills, TopLimit),
		Categories:       Tally(categories),
		TopLocations:     Top(locations, TopLimit),
	}
}

// SkillGap returns the popular skills the profile does not list, keeping their order.
func SkillGap(profile talent.Profile, popular []Count) []string {
	gap := []string{}
	for _, c := range popular {
		if !profile.HasSkill(c.Label) {
			gap = append(gap, c.Label)
		}
	}
	return gap
}
