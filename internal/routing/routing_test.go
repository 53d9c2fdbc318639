package routing

import (
	"testing"

	"github.com/spigell/hh-matcher/internal/talent"
)

func TestRoute(t *testing.T) {
	cases := []struct {
		query string
		role  talent.Role
		want  Decision
	}{
		{"how many candidates do we have", talent.RolePoster, Decision{CountStats, SubCount, "candidates"}},
		{"Show me the BEST candidates", talent.RolePoster, Decision{FindMatches, SubRecommendation, "candidates"}},
		{"any applicant for backend?", talent.RolePoster, Decision{FindMatches, SubSearch, "candidates"}},
		{"what expertise is out there", talent.RolePoster, Decision{SkillAnalysis, SubMarket, "talent"}},
		{"list my postings", talent.RolePoster, Decision{JobManagement, SubAnalysis, "postings"}},
		{"hello", talent.RolePoster, Decision{General, SubHelp, ""}},

		{"find me suitable jobs", talent.RoleSeeker, Decision{FindMatches, SubRecommendation, "jobs"}},
		{"how many jobs are open", talent.RoleSeeker, Decision{CountStats, SubCount, "jobs"}},
		{"any job in Berlin", talent.RoleSeeker, Decision{FindMatches, SubSearch, "jobs"}},
		{"which skills should I improve", talent.RoleSeeker, Decision{SkillAnalysis, SubImprovement, "skills"}},
		{"what is in demand", talent.RoleSeeker, Decision{MarketInsights, SubTrends, "market"}},
		{"review my cv", talent.RoleSeeker, Decision{ProfileFeedback, SubAnalysis, "resume"}},
		{"", talent.RoleSeeker, Decision{General, SubHelp, ""}},

		{"find candidates", talent.Role("admin"), Decision{General, SubHelp, ""}},
	}

	for _, tc := range cases {
		t.Run(string(tc.role)+"/"+tc.query, func(t *testing.T) {
			if got := Route(tc.query, tc.role); got != tc.want {
				t.Fatalf("expected %+v, got %+v", tc.want, got)
			}
		})
	}
}

func TestRouteFirstRuleWins(t *testing.T) {
	// "job" and "skill" both occur; the job rule comes first for seekers.
	got := Route("what skill does this job need", talent.RoleSeeker)
	if got.Intent != FindMatches {
		t.Fatalf("expected first rule to win, got %+v", got)
	}

	// For posters "resume" belongs to the candidate rule, not to a feedback rule.
	got = Route("resume review", talent.RolePoster)
	if got.Intent != FindMatches {
		t.Fatalf("expected candidate search, got %+v", got)
	}
}

func TestRouteIsDeterministic(t *testing.T) {
	queries := []string{"top jobs", "how many candidates", "market trend", "skill gap", "posting"}
	for _, role := range []talent.Role{talent.RoleSeeker, talent.RolePoster} {
		for _, q := range queries {
			first := Route(q, role)
			for i := 0; i < 50; i++ {
				if got := Route(q, role); got != first {
					t.Fatalf("route(%q, %s) changed from %+v to %+v", q, role, first, got)
				}
			}
		}
	}
}

func TestIntentsPerRole(t *testing.T) {
	has := func(intents []Intent, want Intent) bool {
		for _, i := range intents {
			if i == want {
				return true
			}
		}
		return false
	}

	seeker := Intents(talent.RoleSeeker)
	if has(seeker, JobManagement) {
		t.Fatalf("seekers must not reach %s: %v", JobManagement, seeker)
	}
	if !has(seeker, ProfileFeedback) || !has(seeker, CountStats) || !has(seeker, General) {
		t.Fatalf("unexpected seeker intents: %v", seeker)
	}

	poster := Intents(talent.RolePoster)
	if has(poster, ProfileFeedback) || has(poster, MarketInsights) {
		t.Fatalf("unexpected poster intents: %v", poster)
	}
	if !has(poster, JobManagement) || !has(poster, CountStats) {
		t.Fatalf("unexpected poster intents: %v", poster)
	}
}

func TestRulesReturnsCopy(t *testing.T) {
	rules := Rules(talent.RoleSeeker)
	rules[0].Keywords[0] = "mutated"
	rules[0].Refinements[0].SubIntent = "mutated"

	fresh := Rules(talent.RoleSeeker)
	if fresh[0].Keywords[0] != "job" || fresh[0].Refinements[0].SubIntent != SubRecommendation {
		t.Fatalf("rule table was modified through a returned copy")
	}
}

func TestEvaluateCustomTable(t *testing.T) {
	rules := []Rule{
		{Name: "a", Keywords: []string{"alpha"}, Intent: MarketInsights, SubIntent: SubTrends},
		{Name: "b", Keywords: []string{"alp"}, Intent: SkillAnalysis, SubIntent: SubMarket},
	}

	if got := Evaluate(rules, "ALPHA"); got.Rule != "a" {
		t.Fatalf("expected rule a, got %+v", got)
	}
	if got := Evaluate(rules, "alps"); got.Rule != "b" {
		t.Fatalf("expected rule b, got %+v", got)
	}
}
