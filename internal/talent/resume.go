package talent

import (
	"strings"
)

const unknownName = "Unknown"

type section int

const (
	sectionNone section = iota
	sectionSkills
	sectionExperience
	sectionEducation
)

// sectionHeaders is checked in order; the first group found in a line switches the section.
var sectionHeaders = []struct {
	section  section
	keywords []string
}{
	{sectionSkills, []string{"skill", "technical"}},
	{sectionExperience, []string{"experience", "work", "employment"}},
	{sectionEducation, []string{"education", "degree", "university"}},
}

// ParsedResume holds the fields recovered from plain résumé text.
type ParsedResume struct {
	Name       string
	Email      string
	Skills     []string
	Experience string
	Education  string
}

// ParseResume splits résumé text into sections by line-level header keywords.
// The first line is taken as the name. It is a heuristic, not a parser for any format.
func ParseResume(text string) ParsedResume {
	lines := strings.Split(text, "\n")

	parsed := ParsedResume{Name: unknownName}
	if first := strings.TrimSpace(lines[0]); first != "" {
		parsed.Name = first
	}

	var (
		current    = sectionNone
		experience []string
		education  []string
		seen       = make(map[string]struct{})
	)

	addSkill := func(s string) {
		s = strings.TrimSpace(s)
		if s == "" {
			return
		}
		key := strings.ToLower(s)
		if _, ok := seen[key]; ok {
			return
		}
		seen[key] = struct{}{}
		parsed.Skills = append(parsed.Skills, s)
	}

	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if strings.Contains(line, "@") && strings.Contains(line, ".") {
			parsed.Email = line
		}

		if header, ok := detectSection(line); ok {
			current = header
			continue
		}

		switch current {
		case sectionSkills:
			switch {
			case strings.Contains(line, ","):
				for _, s := range strings.Split(line, ",") {
					addSkill(s)
				}
			case strings.HasPrefix(line, "•"):
				addSkill(strings.TrimPrefix(line, "•"))
			case strings.HasPrefix(line, "-"):
				addSkill(strings.TrimPrefix(line, "-"))
			}
		case sectionExperience:
			experience = append(experience, line)
		case sectionEducation:
			education = append(education, line)
		}
	}

	parsed.Experience = strings.Join(experience, " ")
	parsed.Education = strings.Join(education, " ")

	return parsed
}

func detectSection(line string) (section, bool) {
	lower := strings.ToLower(line)
	for _, h := range sectionHeaders {
		for _, kw := range h.keywords {
			if strings.Contains(lower, kw) {
				return h.section, true
			}
		}
	}
	return sectionNone, false
}
