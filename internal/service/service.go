// Package service exposes the matching, insight and routing operations over
// the profile and posting collections.
package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/spigell/hh-matcher/internal/ai"
	"github.com/spigell/hh-matcher/internal/insights"
	"github.com/spigell/hh-matcher/internal/keywords"
	"github.com/spigell/hh-matcher/internal/logger"
	"github.com/spigell/hh-matcher/internal/matching"
	"github.com/spigell/hh-matcher/internal/store"
	"github.com/spigell/hh-matcher/internal/talent"
	"github.com/spigell/hh-matcher/internal/utils"
)

const (
	snippetLimit  = 200
	metadataItems = 5
	fallbackSkill = "General"
)

// Deps aggregates the collaborators of the service.
type Deps struct {
	Profiles  store.Collection[talent.Profile]
	Postings  store.Collection[talent.Posting]
	Embedder  ai.Embedder
	Extractor *keywords.Extractor
	Logger    *zap.Logger
	// NewID generates record ids. Random UUIDs when nil.
	NewID func() string
}

type Service struct {
	profiles  store.Collection[talent.Profile]
	postings  store.Collection[talent.Posting]
	embedder  ai.Embedder
	engine    *matching.Engine
	extractor *keywords.Extractor
	logger    *zap.Logger
	newID     func() string
}

func New(deps Deps) (*Service, error) {
	if deps.Profiles == nil || deps.Postings == nil {
		return nil, fmt.Errorf("profile and posting collections are required")
	}
	if deps.Embedder == nil {
		return nil, fmt.Errorf("embedder is required")
	}

	log := logger.Component(deps.Logger, "service")
	if deps.Extractor == nil {
		deps.Extractor = keywords.Default()
	}
	if deps.NewID == nil {
		deps.NewID = uuid.NewString
	}

	return &Service{
		profiles:  deps.Profiles,
		postings:  deps.Postings,
		embedder:  deps.Embedder,
		engine:    matching.NewEngine(deps.Embedder, deps.Logger),
		extractor: deps.Extractor,
		logger:    log,
		newID:     deps.NewID,
	}, nil
}

// CandidateMatches is the answer to FindCandidates.
type CandidateMatches struct {
	Matches         []talent.MatchResult `json:"matches"`
	TotalCandidates int                  `json:"total_candidates"`
}

// PostingMatches is the answer to FindPostings.
type PostingMatches struct {
	Matches   []talent.MatchResult `json:"matches"`
	TotalJobs int                  `json:"total_jobs"`
}

// FindCandidates ranks stored profiles against a job description.
func (s *Service) FindCandidates(ctx context.Context, jobDescription string, topK int, excludeOwner string) (*CandidateMatches, error) {
	if strings.TrimSpace(jobDescription) == "" {
		return nil, inputError("job_description", "must not be empty")
	}

	profiles, err := s.profiles.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list profiles: %w", err)
	}

	res, err := matching.Match(ctx, s.engine, jobDescription, profiles, topK, excludeOwner)
	if err != nil {
		return nil, fmt.Errorf("match candidates: %w", err)
	}

	out := &CandidateMatches{Matches: make([]talent.MatchResult, 0, len(res.Matches)), TotalCandidates: res.TotalConsidered}
	for _, m := range res.Matches {
		out.Matches = append(out.Matches, profileResult(m))
	}

	s.logger.Info("candidates matched",
		zap.Int("top_k", topK),
		zap.Int("total_candidates", out.TotalCandidates),
		zap.Int("returned", len(out.Matches)),
	)

	return out, nil
}

// FindPostings ranks stored postings against profile text.
func (s *Service) FindPostings(ctx context.Context, profileText string, topK int, excludeOwner string) (*PostingMatches, error) {
	if strings.TrimSpace(profileText) == "" {
		return nil, inputError("profile_text", "must not be empty")
	}

	postings, err := s.postings.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list postings: %w", err)
	}

	res, err := matching.Match(ctx, s.engine, profileText, postings, topK, excludeOwner)
	if err != nil {
		return nil, fmt.Errorf("match postings: %w", err)
	}

	out := &PostingMatches{Matches: make([]talent.MatchResult, 0, len(res.Matches)), TotalJobs: res.TotalConsidered}
	for _, m := range res.Matches {
		out.Matches = append(out.Matches, postingResult(m))
	}

	s.logger.Info("postings matched",
		zap.Int("top_k", topK),
		zap.Int("total_jobs", out.TotalJobs),
		zap.Int("returned", len(out.Matches)),
	)

	return out, nil
}

// GetProfileInsights summarises every stored profile, with or without an embedding.
func (s *Service) GetProfileInsights(ctx context.Context) (*insights.ProfileSnapshot, error) {
	profiles, err := s.profiles.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list profiles: %w", err)
	}

	snap := insights.Profiles(profiles)
	return &snap, nil
}

// GetPostingInsights summarises every stored posting, with or without an embedding.
func (s *Service) GetPostingInsights(ctx context.Context) (*insights.PostingSnapshot, error) {
	postings, err := s.postings.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list postings: %w", err)
	}

	snap := insights.Postings(postings, s.extractor)
	return &snap, nil
}

// Insights fetches both snapshots concurrently.
func (s *Service) Insights(ctx context.Context) (*insights.ProfileSnapshot, *insights.PostingSnapshot, error) {
	var (
		profiles *insights.ProfileSnapshot
		postings *insights.PostingSnapshot
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		profiles, err = s.GetProfileInsights(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		postings, err = s.GetPostingInsights(gctx)
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return profiles, postings, nil
}

// UploadProfile parses résumé text, embeds it and makes it the owner's only profile.
func (s *Service) UploadProfile(ctx context.Context, ownerID, text string) (*talent.Profile, error) {
	ownerID = strings.TrimSpace(ownerID)
	if ownerID == "" {
		return nil, inputError("owner_id", "must not be empty")
	}
	if strings.TrimSpace(text) == "" {
		return nil, inputError("text", "must not be empty")
	}

	parsed := talent.ParseResume(text)
	skills := parsed.Skills
	if len(skills) == 0 {
		skills = s.extractor.Extract(text)
	}
	if len(skills) == 0 {
		skills = []string{fallbackSkill}
	}

	vec, err := ai.Embed(ctx, s.embedder, text)
	if err != nil {
		return nil, fmt.Errorf("embed profile: %w", err)
	}

	profile := talent.Profile{
		ID:         s.newID(),
		OwnerID:    ownerID,
		Name:       parsed.Name,
		Email:      parsed.Email,
		Skills:     skills,
		Experience: parsed.Experience,
		Education:  parsed.Education,
		RawText:    text,
		Embedding:  vec,
	}

	if err := s.profiles.ReplaceByOwner(ctx, ownerID, profile); err != nil {
		return nil, fmt.Errorf("store profile: %w", err)
	}

	s.logger.Info("profile stored",
		append(logger.RequestFields(ownerID, string(talent.RoleSeeker)),
			zap.String("profile_id", profile.ID),
			zap.Int("skills", len(profile.Skills)),
		)...,
	)

	return &profile, nil
}

// PostPosting validates a submission, embeds it and appends the posting.
func (s *Service) PostPosting(ctx context.Context, sub talent.Submission) (*talent.Posting, error) {
	if field := sub.MissingField(); field != "" {
		return nil, inputError(field, "is required")
	}

	posting := sub.Posting()

	vec, err := ai.Embed(ctx, s.embedder, posting.EmbeddingText())
	if err != nil {
		return nil, fmt.Errorf("embed posting: %w", err)
	}

	posting.ID = s.newID()
	posting.Embedding = vec

	if err := s.postings.Append(ctx, posting); err != nil {
		return nil, fmt.Errorf("store posting: %w", err)
	}

	s.logger.Info("posting stored",
		append(logger.RequestFields(posting.OwnerID, string(talent.RolePoster)),
			zap.String("posting_id", posting.ID),
			zap.String("title", posting.Title),
		)...,
	)

	return &posting, nil
}

// ListPostings returns the postings of owner, or every posting when owner is empty.
func (s *Service) ListPostings(ctx context.Context, ownerID string) ([]talent.Posting, error) {
	var (
		postings []talent.Posting
		err      error
	)
	if ownerID == "" {
		postings, err = s.postings.ListAll(ctx)
	} else {
		postings, err = s.postings.ListByOwner(ctx, ownerID)
	}
	if err != nil {
		return nil, fmt.Errorf("list postings: %w", err)
	}
	if postings == nil {
		postings = []talent.Posting{}
	}
	return postings, nil
}

// OwnProfile returns the owner's live profile, nil when none was uploaded.
func (s *Service) OwnProfile(ctx context.Context, ownerID string) (*talent.Profile, error) {
	profiles, err := s.profiles.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list profiles of %s: %w", ownerID, err)
	}
	if len(profiles) == 0 {
		return nil, nil
	}
	p := profiles[len(profiles)-1]
	return &p, nil
}

func profileResult(m matching.Ranked[talent.Profile]) talent.MatchResult {
	p := m.Record
	return talent.MatchResult{
		SubjectID:   p.ID,
		OwnerID:     p.OwnerID,
		DisplayName: p.Name,
		Score:       m.Score,
		Snippet:     utils.Snippet(p.Experience, snippetLimit),
		Metadata: talent.MatchMetadata{
			Skills: utils.FirstN(p.Skills, metadataItems),
		},
	}
}

func postingResult(m matching.Ranked[talent.Posting]) talent.MatchResult {
	p := m.Record
	return talent.MatchResult{
		SubjectID:   p.ID,
		OwnerID:     p.OwnerID,
		DisplayName: p.Title,
		Score:       m.Score,
		Snippet:     utils.Snippet(p.Description, snippetLimit),
		Metadata: talent.MatchMetadata{
			Organization: p.Organization,
			Location:     p.Location,
			Compensation: p.Compensation,
			Requirements: utils.FirstN(p.Requirements, metadataItems),
		},
	}
}
