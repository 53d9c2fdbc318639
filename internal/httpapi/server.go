// Package httpapi serves the matching service over JSON/HTTP.
package httpapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/spigell/hh-matcher/internal/compose"
	"github.com/spigell/hh-matcher/internal/insights"
	"github.com/spigell/hh-matcher/internal/logger"
	"github.com/spigell/hh-matcher/internal/service"
	"github.com/spigell/hh-matcher/internal/session"
	"github.com/spigell/hh-matcher/internal/talent"
)

const defaultTopK = 10

// Backend is the part of the service the HTTP layer calls.
type Backend interface {
	FindCandidates(ctx context.Context, jobDescription string, topK int, excludeOwner string) (*service.CandidateMatches, error)
	FindPostings(ctx context.Context, profileText string, topK int, excludeOwner string) (*service.PostingMatches, error)
	GetProfileInsights(ctx context.Context) (*insights.ProfileSnapshot, error)
	GetPostingInsights(ctx context.Context) (*insights.PostingSnapshot, error)
	RouteQuery(ctx context.Context, q service.Query) (*compose.Reply, error)
	UploadProfile(ctx context.Context, ownerID, text string) (*talent.Profile, error)
	PostPosting(ctx context.Context, sub talent.Submission) (*talent.Posting, error)
	ListPostings(ctx context.Context, ownerID string) ([]talent.Posting, error)
}

type Options struct {
	// RequireSession rejects API calls without a valid bearer token.
	RequireSession bool
	// Model is reported by the health endpoint.
	Model string
}

type Server struct {
	backend  Backend
	sessions *session.Manager
	opts     Options
	logger   *zap.Logger
}

func NewServer(backend Backend, sessions *session.Manager, opts Options, log *zap.Logger) *Server {
	if sessions == nil {
		sessions = session.NewManager(log)
	}
	return &Server{
		backend:  backend,
		sessions: sessions,
		opts:     opts,
		logger:   logger.Component(log, "http"),
	}
}

// Router builds the chi router with every route mounted.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.accessLog)
	r.Use(middleware.Recoverer)

	r.Get("/health", s.health)

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/sessions/register", s.register)
		r.Post("/sessions/login", s.login)

		r.Group(func(r chi.Router) {
			if s.opts.RequireSession {
				r.Use(s.authenticate)
			}

			r.Post("/profiles", s.uploadProfile)
			r.Post("/postings", s.postPosting)
			r.Get("/postings", s.listPostings)
			r.Post("/match/candidates", s.matchCandidates)
			r.Post("/match/postings", s.matchPostings)
			r.Get("/insights/profiles", s.profileInsights)
			r.Get("/insights/postings", s.postingInsights)
			r.Post("/chat", s.chat)
		})
	})

	return r
}

func (s *Server) accessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Debug("request served",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("request_id", middleware.GetReqID(r.Context())),
		)
	})
}

type userKey struct{}

func (s *Server) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := strings.TrimSpace(strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer "))
		user, err := s.sessions.Validate(token)
		if err != nil {
			s.fail(w, r, err)
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), userKey{}, user)))
	})
}

// owner returns the session user's id when the request is authenticated,
// otherwise the explicit owner id.
func owner(r *http.Request, explicit string) string {
	if u, ok := r.Context().Value(userKey{}).(*session.User); ok {
		return u.ID
	}
	return strings.TrimSpace(explicit)
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	status, body := classify(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", zap.String("path", r.URL.Path), zap.Error(err))
	}
	writeJSON(w, status, ErrorBody{Error: body})
}

func decode(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return &service.InputError{Field: "body", Reason: fmt.Sprintf("malformed JSON: %v", err)}
	}
	return nil
}

// topK accepts integers and digit strings. Absent means the default.
func topK(raw any) (int, error) {
	if raw == nil {
		return defaultTopK, nil
	}
	return service.ParseTopK("top_k", raw)
}

func (s *Server) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy", "embedding_model": s.opts.Model})
}

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

func (s *Server) register(w http.ResponseWriter, r *http.Request) {
	var req credentials
	if err := decode(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}

	if strings.TrimSpace(req.Email) == "" || req.Password == "" {
		s.fail(w, r, &service.InputError{Field: "email", Reason: "email and password are required"})
		return
	}
	role, ok := talent.ParseRole(req.Role)
	if !ok {
		s.fail(w, r, &service.InputError{Field: "role", Reason: fmt.Sprintf("unknown role %q", req.Role)})
		return
	}

	id, err := s.sessions.Register(req.Email, req.Password, role)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"user_id": id})
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	var req credentials
	if err := decode(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}

	sess, err := s.sessions.Login(req.Email, req.Password)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sess)
}

type profileRequest struct {
	OwnerID string `json:"owner_id"`
	Text    string `json:"text"`
}

func (s *Server) uploadProfile(w http.ResponseWriter, r *http.Request) {
	var req profileRequest
	if err := decode(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}

	p, err := s.backend.UploadProfile(r.Context(), owner(r, req.OwnerID), req.Text)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"profile_id": p.ID, "name": p.Name, "skills": p.Skills})
}

func (s *Server) postPosting(w http.ResponseWriter, r *http.Request) {
	var sub talent.Submission
	if err := decode(r, &sub); err != nil {
		s.fail(w, r, err)
		return
	}
	sub.OwnerID = owner(r, sub.OwnerID)

	p, err := s.backend.PostPosting(r.Context(), sub)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"posting_id": p.ID})
}

func (s *Server) listPostings(w http.ResponseWriter, r *http.Request) {
	postings, err := s.backend.ListPostings(r.Context(), r.URL.Query().Get("owner_id"))
	if err != nil {
		s.fail(w, r, err)
		return
	}

	// Embeddings stay server side.
	for i := range postings {
		postings[i].Embedding = nil
	}
	writeJSON(w, http.StatusOK, map[string]any{"postings": postings})
}

type candidatesRequest struct {
	JobDescription string `json:"job_description"`
	TopK           any    `json:"top_k"`
	ExcludeOwnerID string `json:"exclude_owner_id"`
}

func (s *Server) matchCandidates(w http.ResponseWriter, r *http.Request) {
	var req candidatesRequest
	if err := decode(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	k, err := topK(req.TopK)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	res, err := s.backend.FindCandidates(r.Context(), req.JobDescription, k, req.ExcludeOwnerID)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

type postingsRequest struct {
	ProfileText    string `json:"profile_text"`
	TopK           any    `json:"top_k"`
	ExcludeOwnerID string `json:"exclude_owner_id"`
}

func (s *Server) matchPostings(w http.ResponseWriter, r *http.Request) {
	var req postingsRequest
	if err := decode(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	k, err := topK(req.TopK)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	res, err := s.backend.FindPostings(r.Context(), req.ProfileText, k, req.ExcludeOwnerID)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) profileInsights(w http.ResponseWriter, r *http.Request) {
	snap, err := s.backend.GetProfileInsights(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

func (s *Server) postingInsights(w http.ResponseWriter, r *http.Request) {
	snap, err := s.backend.GetPostingInsights(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

func (s *Server) chat(w http.ResponseWriter, r *http.Request) {
	var q service.Query
	if err := decode(r, &q); err != nil {
		s.fail(w, r, err)
		return
	}
	q.OwnerID = owner(r, q.OwnerID)
	if u, ok := r.Context().Value(userKey{}).(*session.User); ok && q.Role == "" {
		q.Role = string(u.Role)
	}

	reply, err := s.backend.RouteQuery(r.Context(), q)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, reply)
}
