package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/mitchellh/mapstructure"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/spigell/hh-matcher/internal/compose"
	"github.com/spigell/hh-matcher/internal/insights"
	"github.com/spigell/hh-matcher/internal/logger"
	"github.com/spigell/hh-matcher/internal/routing"
	"github.com/spigell/hh-matcher/internal/talent"
)

const (
	routedTopK            = 5
	defaultJobDescription = "software developer"
)

// Query is a natural-language question asked on behalf of an owner.
type Query struct {
	OwnerID string         `json:"owner_id"`
	Role    string         `json:"role"`
	Text    string         `json:"query"`
	Context map[string]any `json:"context,omitempty"`
}

// routeContext holds the optional hints a caller may pass along with a query.
type routeContext struct {
	ProfileText    string `mapstructure:"profile_text"`
	ResumeText     string `mapstructure:"resume_text"`
	JobDescription string `mapstructure:"job_description"`
	TopK           int    `mapstructure:"top_k"`
}

func decodeContext(raw map[string]any) (routeContext, error) {
	rc := routeContext{TopK: routedTopK}
	if len(raw) == 0 {
		return rc, nil
	}

	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook: topKHook("context"),
		Result:     &rc,
	})
	if err != nil {
		return rc, err
	}
	if err := dec.Decode(raw); err != nil {
		return rc, inputError("context", err.Error())
	}
	return rc, nil
}

// RouteQuery classifies the query, fetches the data its intent needs and composes the reply.
func (s *Service) RouteQuery(ctx context.Context, q Query) (*compose.Reply, error) {
	role, ok := talent.ParseRole(strings.TrimSpace(q.Role))
	if !ok {
		return nil, inputError("role", fmt.Sprintf("unknown role %q", q.Role))
	}
	if strings.TrimSpace(q.Text) == "" {
		return nil, inputError("query", "must not be empty")
	}

	rc, err := decodeContext(q.Context)
	if err != nil {
		return nil, err
	}

	decision := routing.Route(q.Text, role)

	log := logger.WithFields(s.logger, logger.RequestFields(q.OwnerID, string(role))...)
	log.Info("query routed",
		zap.String("intent", string(decision.Intent)),
		zap.String("sub_intent", decision.SubIntent),
		zap.String("rule", decision.Rule),
	)

	data, err := s.fetch(ctx, decision, role, q.OwnerID, rc)
	if err != nil {
		return nil, err
	}

	reply := compose.Compose(decision, role, data)
	return &reply, nil
}

func (s *Service) fetch(ctx context.Context, d routing.Decision, role talent.Role, owner string, rc routeContext) (compose.Data, error) {
	var data compose.Data

	switch d.Intent {
	case routing.FindMatches:
		m, err := s.routedMatches(ctx, role, owner, rc)
		if err != nil {
			return data, err
		}
		data.Matches = m

	case routing.CountStats:
		if role == talent.RolePoster {
			snap, err := s.GetProfileInsights(ctx)
			if err != nil {
				return data, err
			}
			data.Profiles = snap
		} else {
			snap, err := s.GetPostingInsights(ctx)
			if err != nil {
				return data, err
			}
			data.Postings = snap
		}

	case routing.SkillAnalysis:
		profiles, postings, err := s.Insights(ctx)
		if err != nil {
			return data, err
		}
		data.Profiles, data.Postings = profiles, postings

	case routing.MarketInsights:
		snap, err := s.GetPostingInsights(ctx)
		if err != nil {
			return data, err
		}
		data.Postings = snap

	case routing.ProfileFeedback:
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			p, err := s.OwnProfile(gctx, owner)
			data.OwnProfile = p
			return err
		})
		g.Go(func() error {
			snap, err := s.GetPostingInsights(gctx)
			data.Postings = snap
			return err
		})
		if err := g.Wait(); err != nil {
			return data, err
		}
		if data.OwnProfile != nil && data.Postings != nil {
			data.SkillGap = insights.SkillGap(*data.OwnProfile, data.Postings.PopularSkills)
		}

	case routing.JobManagement:
		if owner == "" {
			break
		}
		postings, err := s.ListPostings(ctx, owner)
		if err != nil {
			return data, err
		}
		data.OwnPostings = postings
	}

	return data, nil
}

// routedMatches picks the text to match with: the context hint first, then the
// owner's own stored record. Seekers without any text get no matches.
func (s *Service) routedMatches(ctx context.Context, role talent.Role, owner string, rc routeContext) (*compose.Matches, error) {
	if role == talent.RolePoster {
		text := rc.JobDescription
		if strings.TrimSpace(text) == "" && owner != "" {
			own, err := s.postings.ListByOwner(ctx, owner)
			if err != nil {
				return nil, fmt.Errorf("list postings of %s: %w", owner, err)
			}
			if len(own) > 0 {
				text = own[len(own)-1].EmbeddingText()
			}
		}
		if strings.TrimSpace(text) == "" {
			text = defaultJobDescription
		}

		res, err := s.FindCandidates(ctx, text, rc.TopK, owner)
		if err != nil {
			return nil, err
		}
		return &compose.Matches{Items: res.Matches, Total: res.TotalCandidates}, nil
	}

	text := rc.ProfileText
	if strings.TrimSpace(text) == "" {
		text = rc.ResumeText
	}
	if strings.TrimSpace(text) == "" && owner != "" {
		p, err := s.OwnProfile(ctx, owner)
		if err != nil {
			return nil, err
		}
		if p != nil {
			text = p.RawText
		}
	}
	if strings.TrimSpace(text) == "" {
		return &compose.Matches{Items: []talent.MatchResult{}}, nil
	}

	res, err := s.FindPostings(ctx, text, rc.TopK, owner)
	if err != nil {
		return nil, err
	}
	return &compose.Matches{Items: res.Matches, Total: res.TotalJobs}, nil
}
