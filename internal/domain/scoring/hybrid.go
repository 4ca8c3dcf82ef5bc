// Package scoring ranks catalog roles for a candidate by blending text
// similarity with role popularity.
//
// The hybrid score of a posting is
//
//	alpha*cosine(candidate, posting) + (1-alpha)*count(posting role)
//
// The popularity term is a raw count and is not rescaled, so very frequent
// roles can outweigh any similarity difference.
package scoring

import (
	"cmp"
	"context"
	"fmt"
	"slices"

	"github.com/okian/rolematch/internal/domain/catalog"
	"github.com/okian/rolematch/internal/domain/model"
	"github.com/okian/rolematch/internal/domain/vectorizer"
	"gonum.org/v1/gonum/floats"
)

// ScoredJob pairs a catalog index with its signals.
type ScoredJob struct {
	Index      int     `json:"index"`
	Role       string  `json:"role"`
	Content    float64 `json:"content"`
	Popularity float64 `json:"popularity"`
	Score      float64 `json:"score"`
}

// Recommend ranks jobs for candidate and returns up to TopN distinct roles,
// best first. Every posting is transformed on each call; use Scorer to reuse
// posting vectors across calls.
func Recommend(candidate model.CandidateProfile, jobs []model.JobPosting, vec vectorizer.Vectorizer, opts ...Option) ([]string, error) {
	p := buildParams(opts)
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if len(jobs) == 0 {
		return nil, fmt.Errorf("catalog is empty: %w", ErrInvalidInput)
	}
	if vec == nil {
		return nil, fmt.Errorf("vectorizer is nil: %w", ErrInvalidInput)
	}

	jobVecs := make([][]float64, len(jobs))
	roles := make([]string, len(jobs))
	counts := make(map[string]int, len(jobs))
	for i, j := range jobs {
		v, err := vec.Transform(j.CombinedFeatures)
		if err != nil {
			return nil, fmt.Errorf("transform posting %d: %w", i, err)
		}
		jobVecs[i] = v
		roles[i] = j.TargetRole
		counts[j.TargetRole]++
	}
	popularity := make([]float64, len(jobs))
	for i, r := range roles {
		popularity[i] = float64(counts[r])
	}

	cv, err := vec.Transform(candidate.CombinedFeatures())
	if err != nil {
		return nil, fmt.Errorf("transform candidate: %w", err)
	}
	scored, err := rank(cv, jobVecs, roles, popularity, p.Alpha)
	if err != nil {
		return nil, err
	}
	return RolesOf(TopJobs(scored, p.TopN)), nil
}

// Scorer ranks candidates against a fixed catalog. Posting vectors and
// popularity are computed once in NewScorer; a Scorer is read-only afterwards
// and safe for concurrent use.
type Scorer struct {
	vec        vectorizer.Vectorizer
	jobVecs    [][]float64
	roles      []string
	popularity []float64
}

// NewScorer transforms every posting of c with vec.
func NewScorer(c *catalog.Catalog, vec vectorizer.Vectorizer) (*Scorer, error) {
	if c == nil || c.Len() == 0 {
		return nil, fmt.Errorf("catalog is empty: %w", ErrInvalidInput)
	}
	if vec == nil {
		return nil, fmt.Errorf("vectorizer is nil: %w", ErrInvalidInput)
	}
	s := &Scorer{
		vec:        vec,
		jobVecs:    make([][]float64, c.Len()),
		roles:      make([]string, c.Len()),
		popularity: make([]float64, c.Len()),
	}
	for i := 0; i < c.Len(); i++ {
		p := c.Posting(i)
		v, err := vec.Transform(p.CombinedFeatures)
		if err != nil {
			return nil, fmt.Errorf("transform posting %d: %w", i, err)
		}
		if i > 0 && len(v) != len(s.jobVecs[0]) {
			return nil, fmt.Errorf("posting %d has dimension %d, want %d: %w",
				i, len(v), len(s.jobVecs[0]), ErrVectorizerMismatch)
		}
		s.jobVecs[i] = v
		s.roles[i] = p.TargetRole
		s.popularity[i] = float64(c.Popularity(p.TargetRole))
	}
	return s, nil
}

// Len returns the number of postings the scorer ranks.
func (s *Scorer) Len() int { return len(s.roles) }

// Recommend returns up to TopN distinct roles for candidate, best first.
func (s *Scorer) Recommend(ctx context.Context, candidate model.CandidateProfile, opts ...Option) ([]string, error) {
	top, err := s.Explain(ctx, candidate, opts...)
	if err != nil {
		return nil, err
	}
	return RolesOf(top), nil
}

// Explain returns, for each recommended role, the posting that introduced it
// with its content, popularity and hybrid scores.
func (s *Scorer) Explain(ctx context.Context, candidate model.CandidateProfile, opts ...Option) ([]ScoredJob, error) {
	p := buildParams(opts)
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("scoring: %w", err)
	}
	cv, err := s.vec.Transform(candidate.CombinedFeatures())
	if err != nil {
		return nil, fmt.Errorf("transform candidate: %w", err)
	}
	scored, err := rank(cv, s.jobVecs, s.roles, s.popularity, p.Alpha)
	if err != nil {
		return nil, err
	}
	return TopJobs(scored, p.TopN), nil
}

// rank scores every posting and stable-sorts by descending hybrid score, so
// equal scores keep catalog order.
func rank(cv []float64, jobVecs [][]float64, roles []string, popularity []float64, alpha float64) ([]ScoredJob, error) {
	scored := make([]ScoredJob, len(jobVecs))
	for i, jv := range jobVecs {
		content, err := Cosine(cv, jv)
		if err != nil {
			return nil, fmt.Errorf("posting %d: %w", i, err)
		}
		scored[i] = ScoredJob{
			Index:      i,
			Role:       roles[i],
			Content:    content,
			Popularity: popularity[i],
			Score:      alpha*content + (1-alpha)*popularity[i],
		}
	}
	slices.SortStableFunc(scored, func(a, b ScoredJob) int {
		return cmp.Compare(b.Score, a.Score)
	})
	return scored, nil
}

// TopJobs walks ranked postings and keeps the first posting of each role
// until topN roles are collected.
func TopJobs(ranked []ScoredJob, topN int) []ScoredJob {
	if topN <= 0 {
		return nil
	}
	size := min(topN, len(ranked))
	out := make([]ScoredJob, 0, size)
	seen := make(map[string]struct{}, size)
	for _, j := range ranked {
		if len(out) >= topN {
			break
		}
		if _, dup := seen[j.Role]; dup {
			continue
		}
		seen[j.Role] = struct{}{}
		out = append(out, j)
	}
	return out
}

// RolesOf extracts role labels in order.
func RolesOf(jobs []ScoredJob) []string {
	out := make([]string, len(jobs))
	for i, j := range jobs {
		out[i] = j.Role
	}
	return out
}

// Cosine returns the cosine similarity of a and b, or 0 when either has zero
// norm. Vectors of different length wrap ErrVectorizerMismatch.
func Cosine(a, b []float64) (float64, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("dimension %d vs %d: %w", len(a), len(b), ErrVectorizerMismatch)
	}
	na, nb := floats.Norm(a, 2), floats.Norm(b, 2)
	if na == 0 || nb == 0 {
		return 0, nil
	}
	return floats.Dot(a, b) / (na * nb), nil
}
