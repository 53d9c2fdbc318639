// Package compose renders routed results as a narrative reply with follow-up suggestions.
// It only formats what it is given and never fetches data itself.
package compose

import (
	"fmt"
	"strings"

	"github.com/spigell/hh-matcher/internal/insights"
	"github.com/spigell/hh-matcher/internal/routing"
	"github.com/spigell/hh-matcher/internal/talent"
	"github.com/spigell/hh-matcher/internal/utils"
)

const (
	narrativeMatches = 3
	listedSkills     = 5
	candidateSkills  = 4
	overviewEntries  = 3
)

// Matches is a ranked match list with the number of records considered.
type Matches struct {
	Items []talent.MatchResult `json:"matches"`
	Total int                  `json:"total"`
}

// Data is everything the service fetched for one routed query. Nil fields were not fetched.
type Data struct {
	Matches     *Matches
	Profiles    *insights.ProfileSnapshot
	Postings    *insights.PostingSnapshot
	OwnProfile  *talent.Profile
	OwnPostings []talent.Posting
	SkillGap    []string
}

// Reply is the structured answer to a routed query.
type Reply struct {
	Intent      routing.Intent `json:"intent"`
	SubIntent   string         `json:"sub_intent"`
	Narrative   string         `json:"narrative"`
	Data        any            `json:"data,omitempty"`
	Suggestions []string       `json:"suggestions"`
}

// Compose renders data for the routed decision. Intents without the data
// they need fall back to the help reply.
func Compose(d routing.Decision, role talent.Role, data Data) Reply {
	var (
		r  Reply
		ok bool
	)

	switch d.Intent {
	case routing.FindMatches:
		r, ok = matches(role, data.Matches)
	case routing.CountStats:
		r, ok = count(role, data)
	case routing.SkillAnalysis:
		r, ok = skills(role, data)
	case routing.MarketInsights:
		r, ok = market(data.Postings)
	case routing.ProfileFeedback:
		r, ok = feedback(data)
	case routing.JobManagement:
		r, ok = postings(data)
	}

	if !ok {
		return Help(role)
	}

	r.Intent, r.SubIntent = d.Intent, d.SubIntent
	return r
}

// Help is the capability overview. Both roles get three suggestions in the same structure.
func Help(role talent.Role) Reply {
	first := "Find me suitable jobs"
	if role == talent.RolePoster {
		first = "Show me qualified candidates"
	}

	return Reply{
		Intent:      routing.General,
		SubIntent:   routing.SubHelp,
		Narrative:   "I'm here to help! I can assist with job matching, skill analysis, and market insights. What would you like to know?",
		Suggestions: []string{first, "Analyze market trends", "Get skill recommendations"},
	}
}

func matches(role talent.Role, m *Matches) (Reply, bool) {
	if m == nil {
		m = &Matches{Items: []talent.MatchResult{}}
	}
	if role == talent.RolePoster {
		return candidateMatches(m), true
	}
	return postingMatches(m), true
}

func postingMatches(m *Matches) Reply {
	if len(m.Items) == 0 {
		return Reply{
			Narrative:   "I couldn't find any job matches right now. Try uploading your resume first!",
			Data:        m,
			Suggestions: []string{"Upload my resume", "View market trends", "Get career advice"},
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "I found %d great job opportunities for you:\n\n", len(m.Items))
	for i, job := range utils.FirstN(m.Items, narrativeMatches) {
		fmt.Fprintf(&b, "%d. **%s** at %s\n", i+1, job.DisplayName, job.Metadata.Organization)
		fmt.Fprintf(&b, "   Location: %s | Match Score: %.2f\n", job.Metadata.Location, job.Score)
		fmt.Fprintf(&b, "   %s\n\n", job.Snippet)
	}

	return Reply{
		Narrative: b.String(),
		Data:      m,
		Suggestions: []string{
			"Tell me more about the first job",
			"What skills should I improve?",
			"Show me remote opportunities",
		},
	}
}

func candidateMatches(m *Matches) Reply {
	if len(m.Items) == 0 {
		return Reply{
			Narrative:   "No matching candidates found. Try posting a job description first!",
			Data:        m,
			Suggestions: []string{"Post a new job", "View talent market insights", "Adjust job requirements"},
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "I found %d qualified candidates:\n\n", len(m.Items))
	for i, c := range utils.FirstN(m.Items, narrativeMatches) {
		fmt.Fprintf(&b, "%d. **%s**\n", i+1, c.DisplayName)
		fmt.Fprintf(&b, "   Match Score: %.2f\n", c.Score)
		fmt.Fprintf(&b, "   Skills: %s\n", strings.Join(utils.FirstN(c.Metadata.Skills, candidateSkills), ", "))
		fmt.Fprintf(&b, "   %s\n\n", c.Snippet)
	}

	return Reply{
		Narrative: b.String(),
		Data:      m,
		Suggestions: []string{
			"Show me more details about candidate 1",
			"Filter by specific skills",
			"View candidate portfolios",
		},
	}
}

func count(role talent.Role, data Data) (Reply, bool) {
	if role == talent.RolePoster {
		if data.Profiles == nil {
			return Reply{}, false
		}

		var b strings.Builder
		fmt.Fprintf(&b, "There are %d candidates in the talent pool.\n", data.Profiles.TotalProfiles)
		writeDistribution(&b, data.Profiles.ExperienceLevels)

		return Reply{
			Narrative:   b.String(),
			Data:        data.Profiles,
			Suggestions: []string{"Show me qualified candidates", "View talent market insights", "Post a new job"},
		}, true
	}

	if data.Postings == nil {
		return Reply{}, false
	}

	var b strings.Builder
	fmt.Fprintf(&b, "There are %d open job postings right now.\n", data.Postings.TotalPostings)
	if len(data.Postings.Categories) > 0 {
		b.WriteString("\nBy type:\n")
		for _, c := range data.Postings.Categories {
			fmt.Fprintf(&b, "• %s: %d\n", c.Label, c.Count)
		}
	}

	return Reply{
		Narrative:   b.String(),
		Data:        data.Postings,
		Suggestions: []string{"Find me suitable jobs", "Analyze market trends", "What skills are trending?"},
	}, true
}

func skills(role talent.Role, data Data) (Reply, bool) {
	if role == talent.RolePoster {
		snap := data.Profiles
		if snap == nil || snap.TotalProfiles == 0 {
			return Reply{}, false
		}

		var b strings.Builder
		b.WriteString("Talent Pool Analysis:\n\n")
		if len(snap.TopSkills) > 0 {
			b.WriteString("Most common skills in candidate pool:\n")
			writeNumbered(&b, insights.Labels(utils.FirstN(snap.TopSkills, listedSkills)))
		}
		writeDistribution(&b, snap.ExperienceLevels)

		return Reply{
			Narrative: b.String(),
			Data:      snap,
			Suggestions: []string{
				"Find candidates with specific skills",
				"Post job for entry-level candidates",
				"View market salary trends",
			},
		}, true
	}

	if data.Postings == nil || data.Postings.TotalPostings == 0 {
		return Reply{}, false
	}

	var b strings.Builder
	b.WriteString("Based on current market trends, here are the most in-demand skills:\n\n")
	writeNumbered(&b, insights.Labels(utils.FirstN(data.Postings.PopularSkills, listedSkills)))
	b.WriteString("\nConsider developing these skills to improve your job prospects!")

	return Reply{
		Narrative: b.String(),
		Data: map[string]any{
			"posting_insights": data.Postings,
			"profile_insights": data.Profiles,
		},
		Suggestions: []string{
			"Find jobs requiring these skills",
			"Show me learning resources",
			"Analyze my current skills",
		},
	}, true
}

func market(snap *insights.PostingSnapshot) (Reply, bool) {
	if snap == nil || snap.TotalPostings == 0 {
		return Reply{}, false
	}

	var b strings.Builder
	b.WriteString("Current Job Market Overview:\n\n")
	fmt.Fprintf(&b, "• Total active positions: %d\n", snap.TotalPostings)
	fmt.Fprintf(&b, "• Top hiring companies: %s\n", strings.Join(insights.Labels(utils.FirstN(snap.TopOrganizations, overviewEntries)), ", "))
	fmt.Fprintf(&b, "• Popular locations: %s\n", strings.Join(insights.Labels(utils.FirstN(snap.TopLocations, overviewEntries)), ", "))

	return Reply{
		Narrative: b.String(),
		Data:      snap,
		Suggestions: []string{
			"Show me jobs at top companies",
			"Find remote opportunities",
			"What skills are trending?",
		},
	}, true
}

func feedback(data Data) (Reply, bool) {
	if data.OwnProfile == nil {
		return Reply{
			Narrative:   "I couldn't find your resume yet. Upload it first to get feedback!",
			Suggestions: []string{"Upload my resume", "View market trends", "Get skill recommendations"},
		}, true
	}

	p := data.OwnProfile
	var b strings.Builder
	fmt.Fprintf(&b, "Your resume lists %d skills: %s.\n", len(p.Skills), strings.Join(p.Skills, ", "))
	if len(data.SkillGap) > 0 {
		b.WriteString("\nIn-demand skills you don't list yet:\n")
		writeNumbered(&b, utils.FirstN(data.SkillGap, listedSkills))
	} else {
		b.WriteString("\nYour skills already cover the most in-demand ones.\n")
	}

	return Reply{
		Narrative: b.String(),
		Data: map[string]any{
			"skills":    p.Skills,
			"skill_gap": data.SkillGap,
		},
		Suggestions: []string{"Find me suitable jobs", "What skills should I improve?", "Analyze market trends"},
	}, true
}

func postings(data Data) (Reply, bool) {
	if len(data.OwnPostings) == 0 {
		return Reply{
			Narrative:   "You haven't posted any jobs yet. Post one to start matching candidates!",
			Data:        []talent.Posting{},
			Suggestions: []string{"Post a new job", "View talent market insights", "Show me qualified candidates"},
		}, true
	}

	var b strings.Builder
	fmt.Fprintf(&b, "You have %d active job postings:\n\n", len(data.OwnPostings))
	for i, p := range data.OwnPostings {
		fmt.Fprintf(&b, "%d. **%s** at %s (%s, %s)\n", i+1, p.Title, p.Organization, p.Location, p.Category)
	}

	return Reply{
		Narrative:   b.String(),
		Data:        data.OwnPostings,
		Suggestions: []string{"Show me qualified candidates", "Post a new job", "View talent market insights"},
	}, true
}

func writeNumbered(b *strings.Builder, items []string) {
	for i, item := range items {
		fmt.Fprintf(b, "%d. %s\n", i+1, item)
	}
}

func writeDistribution(b *strings.Builder, d insights.Distribution) {
	if len(d) == 0 {
		return
	}
	b.WriteString("\nExperience Distribution:\n")
	for _, c := range d {
		fmt.Fprintf(b, "• %s: %d candidates\n", c.Label, c.Count)
	}
}
