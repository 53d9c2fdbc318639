// Package routing classifies natural-language questions into intents using
// ordered keyword rules. The first rule whose keywords occur in the query wins.
package routing

import (
	"strings"

	"github.com/spigell/hh-matcher/internal/talent"
)

type Intent string

const (
	FindMatches     Intent = "find_matches"
	CountStats      Intent = "count_stats"
	SkillAnalysis   Intent = "skill_analysis"
	MarketInsights  Intent = "market_insights"
	ProfileFeedback Intent = "profile_feedback"
	JobManagement   Intent = "job_management"
	General         Intent = "general"
)

const (
	SubSearch         = "search"
	SubRecommendation = "recommendation"
	SubCount          = "count"
	SubImprovement    = "improvement"
	SubMarket         = "market"
	SubTrends         = "trends"
	SubAnalysis       = "analysis"
	SubHelp           = "help"
)

// Refinement selects a sub-intent inside a matched rule. An empty Intent keeps the rule's intent.
type Refinement struct {
	Keywords  []string
	Intent    Intent
	SubIntent string
}

// Rule maps a keyword group to an intent. SubIntent is used when no refinement matches.
type Rule struct {
	Name        string
	Keywords    []string
	Intent      Intent
	SubIntent   string
	Refinements []Refinement
}

// Decision is the outcome of routing one query. Rule is empty for the help fallback.
type Decision struct {
	Intent    Intent `json:"intent"`
	SubIntent string `json:"sub_intent"`
	Rule      string `json:"rule,omitempty"`
}

var matchRefinements = []Refinement{
	{Keywords: []string{"best", "top", "recommend", "suitable"}, SubIntent: SubRecommendation},
	{Keywords: []string{"how many", "count"}, Intent: CountStats, SubIntent: SubCount},
}

var seekerRules = []Rule{
	{
		Name:        "jobs",
		Keywords:    []string{"job", "position", "role", "opportunity"},
		Intent:      FindMatches,
		SubIntent:   SubSearch,
		Refinements: matchRefinements,
	},
	{
		Name:      "skills",
		Keywords:  []string{"skill", "improve", "missing", "gap"},
		Intent:    SkillAnalysis,
		SubIntent: SubImprovement,
	},
	{
		Name:      "market",
		Keywords:  []string{"market", "trend", "popular", "demand"},
		Intent:    MarketInsights,
		SubIntent: SubTrends,
	},
	{
		Name:      "resume",
		Keywords:  []string{"resume", "cv", "profile"},
		Intent:    ProfileFeedback,
		SubIntent: SubAnalysis,
	},
}

var posterRules = []Rule{
	{
		Name:        "candidates",
		Keywords:    []string{"candidate", "applicant", "resume"},
		Intent:      FindMatches,
		SubIntent:   SubSearch,
		Refinements: matchRefinements,
	},
	{
		Name:      "talent",
		Keywords:  []string{"skill", "talent", "expertise"},
		Intent:    SkillAnalysis,
		SubIntent: SubMarket,
	},
	{
		Name:      "postings",
		Keywords:  []string{"job", "position", "posting"},
		Intent:    JobManagement,
		SubIntent: SubAnalysis,
	},
}

// Rules returns a copy of the rule table of role in evaluation order.
// Unknown roles have no rules.
func Rules(role talent.Role) []Rule {
	var rules []Rule
	switch role {
	case talent.RoleSeeker:
		rules = seekerRules
	case talent.RolePoster:
		rules = posterRules
	}

	out := make([]Rule, len(rules))
	for i, r := range rules {
		r.Keywords = append([]string(nil), r.Keywords...)
		r.Refinements = append([]Refinement(nil), r.Refinements...)
		out[i] = r
	}
	return out
}

// Route classifies query for role. Queries matching no rule get the help intent.
func Route(query string, role talent.Role) Decision {
	return Evaluate(Rules(role), query)
}

// Evaluate runs query through rules top-down.
func Evaluate(rules []Rule, query string) Decision {
	q := strings.ToLower(query)

	for _, rule := range rules {
		if !containsAny(q, rule.Keywords) {
			continue
		}

		d := Decision{Intent: rule.Intent, SubIntent: rule.SubIntent, Rule: rule.Name}
		for _, ref := range rule.Refinements {
			if !containsAny(q, ref.Keywords) {
				continue
			}
			if ref.Intent != "" {
				d.Intent = ref.Intent
			}
			d.SubIntent = ref.SubIntent
			break
		}
		return d
	}

	return Decision{Intent: General, SubIntent: SubHelp}
}

// Intents lists every intent reachable for role, in rule order, ending with General.
func Intents(role talent.Role) []Intent {
	seen := map[Intent]struct{}{}
	var out []Intent
	add := func(i Intent) {
		if _, ok := seen[i]; ok || i == "" {
			return
		}
		seen[i] = struct{}{}
		out = append(out, i)
	}

	for _, r := range Rules(role) {
		add(r.Intent)
		for _, ref := range r.Refinements {
			add(ref.Intent)
		}
	}
	add(General)
	return out
}

func containsAny(text string, words []string) bool {
	for _, w := range words {
		if strings.Contains(text, w) {
			return true
		}
	}
	return false
}
