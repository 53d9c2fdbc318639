package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/spigell/hh-matcher/internal/ai"
	"github.com/spigell/hh-matcher/internal/ai/hashing"
	"github.com/spigell/hh-matcher/internal/routing"
	"github.com/spigell/hh-matcher/internal/store/memory"
	"github.com/spigell/hh-matcher/internal/talent"
)

// countingEmbedder wraps another embedder and records every call.
type countingEmbedder struct {
	inner ai.Embedder
	err   error
	calls int
}

func (c *countingEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	c.calls++
	if c.err != nil {
		return nil, c.err
	}
	return c.inner.Embed(ctx, text)
}

func (c *countingEmbedder) Model() string { return c.inner.Model() }

type fixture struct {
	svc      *Service
	embedder *countingEmbedder
	profiles *memory.Collection[talent.Profile]
	postings *memory.Collection[talent.Posting]
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	f := &fixture{
		embedder: &countingEmbedder{inner: hashing.New(64)},
		profiles: memory.New[talent.Profile](),
		postings: memory.New[talent.Posting](),
	}

	n := 0
	svc, err := New(Deps{
		Profiles: f.profiles,
		Postings: f.postings,
		Embedder: f.embedder,
		NewID: func() string {
			n++
			return fmt.Sprintf("id-%d", n)
		},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	f.svc = svc
	return f
}

const resume = `Jane Doe
jane@example.com
Skills
Go, Kubernetes, PostgreSQL
Experience
Senior backend engineer, 6 years building payment services.
Education
BSc Computer Science`

func submission(owner, title string) talent.Submission {
	return talent.Submission{
		OwnerID:      owner,
		Title:        title,
		Organization: "Acme",
		Description:  title + " building backend services",
		Requirements: []string{"Go", "Kubernetes"},
		Location:     "Remote",
	}
}

func TestScenarioEmptyStore(t *testing.T) {
	f := newFixture(t)

	res, err := f.svc.FindCandidates(context.Background(), "backend engineer", 5, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Matches) != 0 || res.TotalCandidates != 0 {
		t.Fatalf("expected empty result, got %+v", res)
	}
	if res.Matches == nil {
		t.Fatalf("matches must encode as an empty list")
	}
	if f.embedder.calls != 0 {
		t.Fatalf("embedder must not be called for an empty store")
	}
}

func TestScenarioTopTwoOfThree(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	for i, text := range []string{
		"Ann\nSkills\nGo, SQL\nExperience\nbackend engineer writing Go services",
		"Bob\nSkills\nPython\nExperience\ndata scientist building models",
		"Cid\nSkills\nGo\nExperience\nplatform engineer running Kubernetes",
	} {
		if _, err := f.svc.UploadProfile(ctx, fmt.Sprintf("owner-%d", i), text); err != nil {
			t.Fatalf("upload %d: %v", i, err)
		}
	}

	res, err := f.svc.FindCandidates(ctx, "backend engineer Go services", 2, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Matches) != 2 {
		t.Fatalf("expected 2 matches, got %d", len(res.Matches))
	}
	if res.Matches[0].Score < res.Matches[1].Score {
		t.Fatalf("scores must be non-increasing: %v", res.Matches)
	}
	if res.TotalCandidates != 3 {
		t.Fatalf("expected 3 candidates considered, got %d", res.TotalCandidates)
	}
	if res.Matches[0].DisplayName != "Ann" {
		t.Fatalf("expected Ann to rank first, got %s", res.Matches[0].DisplayName)
	}
}

func TestScenarioCountQueryForPoster(t *testing.T) {
	f := newFixture(t)

	reply, err := f.svc.RouteQuery(context.Background(), Query{OwnerID: "acme", Role: "poster", Text: "how many candidates do we have"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if reply.Intent != routing.CountStats || reply.SubIntent != routing.SubCount {
		t.Fatalf("expected count_stats/count, got %s/%s", reply.Intent, reply.SubIntent)
	}
	if !strings.Contains(reply.Narrative, "There are 0 candidates") {
		t.Fatalf("unexpected narrative: %q", reply.Narrative)
	}
}

func TestScenarioAuthorExcluded(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	profileText := "Author\nSkills\nGo\nExperience\nGo Developer building backend services"
	if _, err := f.svc.UploadProfile(ctx, "author", profileText); err != nil {
		t.Fatalf("upload: %v", err)
	}
	// The author's own posting is the closest text to the profile.
	if _, err := f.svc.PostPosting(ctx, submission("author", "Go Developer")); err != nil {
		t.Fatalf("post: %v", err)
	}
	if _, err := f.svc.PostPosting(ctx, talent.Submission{
		OwnerID:      "other",
		Title:        "Accountant",
		Organization: "Ledger",
		Description:  "bookkeeping and taxes",
		Requirements: []string{},
		Location:     "Paris",
	}); err != nil {
		t.Fatalf("post: %v", err)
	}

	all, err := f.svc.FindPostings(ctx, profileText, 10, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if all.Matches[0].OwnerID != "author" {
		t.Fatalf("setup: expected the author's posting to rank first without exclusion")
	}

	res, err := f.svc.FindPostings(ctx, profileText, 10, "author")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, m := range res.Matches {
		if m.OwnerID == "author" {
			t.Fatalf("author's posting returned: %+v", m)
		}
	}
	if res.TotalJobs != 1 {
		t.Fatalf("expected 1 job considered, got %d", res.TotalJobs)
	}
}

func TestInputErrorsDoNotTouchCollaborators(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	calls := []struct {
		name  string
		field string
		run   func() error
	}{
		{"empty job description", "job_description", func() error {
			_, err := f.svc.FindCandidates(ctx, "  ", 5, "")
			return err
		}},
		{"empty profile text", "profile_text", func() error {
			_, err := f.svc.FindPostings(ctx, "", 5, "")
			return err
		}},
		{"unknown role", "role", func() error {
			_, err := f.svc.RouteQuery(ctx, Query{Role: "admin", Text: "hi"})
			return err
		}},
		{"empty query", "query", func() error {
			_, err := f.svc.RouteQuery(ctx, Query{Role: "job_seeker", Text: " "})
			return err
		}},
		{"bad context", "context", func() error {
			_, err := f.svc.RouteQuery(ctx, Query{Role: "seeker", Text: "jobs", Context: map[string]any{"top_k": "many"}})
			return err
		}},
		{"boolean context top_k", "context", func() error {
			_, err := f.svc.RouteQuery(ctx, Query{Role: "seeker", Text: "jobs", Context: map[string]any{"top_k": true}})
			return err
		}},
		{"fractional context top_k", "context", func() error {
			_, err := f.svc.RouteQuery(ctx, Query{Role: "seeker", Text: "jobs", Context: map[string]any{"top_k": 2.5}})
			return err
		}},
		{"missing posting field", "location", func() error {
			sub := submission("acme", "SRE")
			sub.Location = ""
			_, err := f.svc.PostPosting(ctx, sub)
			return err
		}},
		{"missing owner", "owner_id", func() error {
			_, err := f.svc.UploadProfile(ctx, "", resume)
			return err
		}},
	}

	for _, c := range calls {
		t.Run(c.name, func(t *testing.T) {
			var inputErr *InputError
			if err := c.run(); !errors.As(err, &inputErr) {
				t.Fatalf("expected InputError, got %v", err)
			}
			if inputErr.Field != c.field {
				t.Fatalf("expected field %s, got %s", c.field, inputErr.Field)
			}
		})
	}

	if f.embedder.calls != 0 {
		t.Fatalf("embedder called %d times on rejected input", f.embedder.calls)
	}
}

func TestEmbeddingFailurePropagates(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	if _, err := f.svc.UploadProfile(ctx, "alice", resume); err != nil {
		t.Fatalf("upload: %v", err)
	}

	f.embedder.err = errors.New("provider unavailable")

	_, err := f.svc.FindCandidates(ctx, "backend", 5, "")
	var embErr *ai.EmbeddingError
	if !errors.As(err, &embErr) {
		t.Fatalf("expected EmbeddingError, got %v", err)
	}

	_, err = f.svc.PostPosting(ctx, submission("acme", "SRE"))
	if !errors.As(err, &embErr) {
		t.Fatalf("expected EmbeddingError, got %v", err)
	}

	postings, err := f.svc.ListPostings(ctx, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(postings) != 0 {
		t.Fatalf("failed posting must not be stored")
	}
}

func TestUploadProfileReplacesPrevious(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	first, err := f.svc.UploadProfile(ctx, "alice", resume)
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	if first.Name != "Jane Doe" || first.Email != "jane@example.com" {
		t.Fatalf("unexpected parsed profile: %+v", first)
	}
	if strings.Join(first.Skills, ",") != "Go,Kubernetes,PostgreSQL" {
		t.Fatalf("unexpected skills: %v", first.Skills)
	}

	second, err := f.svc.UploadProfile(ctx, "alice", "Jane Doe\nI write python and docker tooling")
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	if strings.Join(second.Skills, ",") != "Python,Docker" {
		t.Fatalf("expected keyword fallback skills, got %v", second.Skills)
	}

	third, err := f.svc.UploadProfile(ctx, "bob", "Bob\nI like gardening")
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	if len(third.Skills) != 1 || third.Skills[0] != "General" {
		t.Fatalf("expected General fallback, got %v", third.Skills)
	}

	all, err := f.profiles.ListAll(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 2 || all[0].ID != second.ID || all[1].ID != third.ID {
		t.Fatalf("expected one live profile per owner, got %+v", all)
	}
}

func TestPostPostingDefaults(t *testing.T) {
	f := newFixture(t)

	p, err := f.svc.PostPosting(context.Background(), submission("acme", "SRE"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.ID == "" || p.Category != talent.DefaultCategory || len(p.Embedding) != 64 {
		t.Fatalf("unexpected posting: %+v", p)
	}
}

func TestRouteQueryFindsJobsFromOwnProfile(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	if _, err := f.svc.UploadProfile(ctx, "alice", resume); err != nil {
		t.Fatalf("upload: %v", err)
	}
	if _, err := f.svc.PostPosting(ctx, submission("acme", "Backend Engineer")); err != nil {
		t.Fatalf("post: %v", err)
	}

	reply, err := f.svc.RouteQuery(ctx, Query{OwnerID: "alice", Role: "job_seeker", Text: "Find me suitable jobs"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if reply.Intent != routing.FindMatches || !strings.Contains(reply.Narrative, "Backend Engineer") {
		t.Fatalf("unexpected reply: %+v", reply)
	}

	none, err := f.svc.RouteQuery(ctx, Query{OwnerID: "nobody", Role: "seeker", Text: "Find me suitable jobs"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(none.Narrative, "Try uploading your resume first") {
		t.Fatalf("expected no-match narrative, got %q", none.Narrative)
	}
}

func TestRouteQueryUsesContextHints(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	for _, owner := range []string{"a", "b", "c"} {
		if _, err := f.svc.UploadProfile(ctx, owner, resume); err != nil {
			t.Fatalf("upload: %v", err)
		}
	}

	reply, err := f.svc.RouteQuery(ctx, Query{
		OwnerID: "acme",
		Role:    "employer",
		Text:    "show me top candidates",
		Context: map[string]any{"job_description": "Go backend engineer", "top_k": "2"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasPrefix(reply.Narrative, "I found 2 qualified candidates") {
		t.Fatalf("unexpected narrative: %q", reply.Narrative)
	}
}

func TestRouteQueryProfileFeedbackAndJobManagement(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	if _, err := f.svc.UploadProfile(ctx, "alice", resume); err != nil {
		t.Fatalf("upload: %v", err)
	}
	sub := submission("acme", "Data Engineer")
	sub.Requirements = []string{"Python", "Go"}
	if _, err := f.svc.PostPosting(ctx, sub); err != nil {
		t.Fatalf("post: %v", err)
	}

	feedback, err := f.svc.RouteQuery(ctx, Query{OwnerID: "alice", Role: "seeker", Text: "review my resume"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if feedback.Intent != routing.ProfileFeedback || !strings.Contains(feedback.Narrative, "1. Python") {
		t.Fatalf("unexpected feedback: %+v", feedback)
	}

	jobs, err := f.svc.RouteQuery(ctx, Query{OwnerID: "acme", Role: "poster", Text: "list my job postings"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if jobs.Intent != routing.JobManagement || !strings.Contains(jobs.Narrative, "1. **Data Engineer** at Acme") {
		t.Fatalf("unexpected job listing: %+v", jobs)
	}
}

func TestRouteQueryGeneralHelp(t *testing.T) {
	f := newFixture(t)

	reply, err := f.svc.RouteQuery(context.Background(), Query{Role: "poster", Text: "hello there"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if reply.Intent != routing.General || len(reply.Suggestions) != 3 {
		t.Fatalf("unexpected reply: %+v", reply)
	}
}

func TestInsightsCountRecordsWithoutEmbedding(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	if err := f.profiles.Append(ctx, talent.Profile{ID: "p1", OwnerID: "x", Skills: []string{"Go"}}); err != nil {
		t.Fatalf("append: %v", err)
	}

	snap, err := f.svc.GetProfileInsights(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if snap.TotalProfiles != 1 {
		t.Fatalf("expected record without embedding to be counted, got %d", snap.TotalProfiles)
	}

	res, err := f.svc.FindCandidates(ctx, "go", 5, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Matches) != 0 || res.TotalCandidates != 1 {
		t.Fatalf("expected no ranked matches but one considered, got %+v", res)
	}
}
