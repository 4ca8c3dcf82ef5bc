// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/okian/rolematch/internal/domain/catalog"
	"github.com/okian/rolematch/internal/domain/model"
	"github.com/okian/rolematch/internal/domain/options"
	"github.com/okian/rolematch/internal/domain/scoring"
	"github.com/okian/rolematch/pkg/logger"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	RecommendDependencies
	BatchDependencies
	CatalogDependencies
	ReadyDependencies
}

// ReadyDependencies report whether the service can answer queries.
type ReadyDependencies interface {
	Ready(ctx context.Context) (map[string]string, error)
}

// RecommendDependencies serve single-candidate recommendations.
type RecommendDependencies interface {
	Defaults() scoring.Params
	Recommend(ctx context.Context, candidate model.CandidateProfile, p scoring.Params) ([]string, error)
	Explain(ctx context.Context, candidate model.CandidateProfile, p scoring.Params) ([]scoring.ScoredJob, error)
}

// BatchDependencies serve batch recommendations.
type BatchDependencies interface {
	Defaults() scoring.Params
	RecommendBatch(ctx context.Context, candidates []model.CandidateProfile, p scoring.Params) ([][]string, error)
}

// CatalogDependencies expose read-only catalog data.
type CatalogDependencies interface {
	Roles(ctx context.Context) ([]catalog.RoleCount, error)
	Options() options.Choices
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler    *HealthHandler
	statsHandler     *StatsHandler
	recommendHandler *RecommendHandler
	batchHandler     *BatchHandler
	catalogHandler   *CatalogHandler

	rateLimitPerMin int
}

// ServerOption configures a Server.
type ServerOption func(*Server)

// WithRateLimit limits POST routes to n requests per minute per client IP.
// Zero disables limiting.
func WithRateLimit(n int) ServerOption {
	return func(s *Server) {
		if n >= 0 {
			s.rateLimitPerMin = n
		}
	}
}

// WithMaxBatch caps the number of candidates in one batch request.
func WithMaxBatch(n int) ServerOption {
	return func(s *Server) {
		if n > 0 {
			s.batchHandler.maxBatch = n
		}
	}
}

// WithLogger sets the logger used for server-side failures.
func WithLogger(l logger.Logger) ServerOption {
	return func(s *Server) {
		if l != nil {
			s.recommendHandler.log = l
			s.batchHandler.log = l
			s.catalogHandler.log = l
		}
	}
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider, opts ...ServerOption) *Server {
	s := &Server{
		healthHandler:    NewHealthHandler(deps),
		statsHandler:     NewStatsHandler(statsProvider),
		recommendHandler: NewRecommendHandler(deps),
		batchHandler:     NewBatchHandler(deps),
		catalogHandler:   NewCatalogHandler(deps),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	limit := RateLimit(s.rateLimitPerMin)

	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/readyz", MetricsMiddleware(s.healthHandler.HandleReady, "readyz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/options", MetricsMiddleware(s.catalogHandler.HandleOptions, "options"))
	mux.HandleFunc("/catalog/roles", MetricsMiddleware(s.catalogHandler.HandleRoles, "catalog_roles"))
	mux.Handle("/recommend", limit(MetricsMiddleware(s.recommendHandler.HandleRecommend, "recommend")))
	mux.Handle("/recommend/batch", limit(MetricsMiddleware(s.batchHandler.HandleBatch, "recommend_batch")))
}

// candidateRequest mirrors the OpenAPI CandidateProfile schema.
type candidateRequest struct {
	CandidateID         *int64   `json:"candidate_id,omitempty" validate:"omitempty,gte=1"`
	Skills              []string `json:"skills" validate:"max=100,dive,required,max=100"`
	CurrentRole         string   `json:"current_role" validate:"max=200"`
	CourseUniversity    string   `json:"course_university" validate:"max=300"`
	LanguageProficiency []string `json:"language_proficiency" validate:"max=20,dive,required,max=50"`
	PreviousInternship  string   `json:"previous_internship" validate:"max=200"`
	ExperienceYears     float64  `json:"experience_years" validate:"gte=0,lte=80"`
}

func (c candidateRequest) profile() model.CandidateProfile {
	return model.CandidateProfile{
		Skills:              c.Skills,
		CurrentRole:         c.CurrentRole,
		CourseUniversity:    c.CourseUniversity,
		LanguageProficiency: c.LanguageProficiency,
		PreviousInternship:  c.PreviousInternship,
		ExperienceYears:     c.ExperienceYears,
	}
}

// paramsRequest carries optional ranking overrides. Range checks are left
// to the scorer so that its error contract reaches the client.
type paramsRequest struct {
	TopN  *int     `json:"top_n,omitempty"`
	Alpha *float64 `json:"alpha,omitempty"`
}

func (p paramsRequest) resolve(defaults scoring.Params) scoring.Params {
	out := defaults
	if p.TopN != nil {
		out.TopN = *p.TopN
	}
	if p.Alpha != nil {
		out.Alpha = *p.Alpha
	}
	return out
}

type errorResponse struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	writeErrorFields(w, status, code, err, nil)
}

func writeErrorFields(w http.ResponseWriter, status int, code string, err error, fields map[string]string) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg, Fields: fields})
}

// statusFor maps domain errors to an HTTP status and error code.
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, scoring.ErrInvalidInput):
		return http.StatusBadRequest, "invalid_input"
	case errors.Is(err, ErrBadRequest), errors.Is(err, ErrBatchSize):
		return http.StatusBadRequest, "bad_request"
	case errors.Is(err, ErrValidation):
		return http.StatusBadRequest, "validation_failed"
	case errors.Is(err, scoring.ErrVectorizerMismatch):
		return http.StatusInternalServerError, "vectorizer_mismatch"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable, "canceled"
	default:
		return http.StatusInternalServerError, "internal_error"
	}
}

// fail writes err with its mapped status and logs server-side failures.
func fail(ctx context.Context, w http.ResponseWriter, log logger.Logger, op string, err error) {
	status, code := statusFor(err)
	if status >= http.StatusInternalServerError {
		log.Error(ctx, "request failed",
			logger.String("op", op),
			logger.String("request_id", RequestIDFrom(ctx)),
			logger.Error(err),
		)
	}
	writeError(w, status, code, err)
}
