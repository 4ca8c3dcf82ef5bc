package api

import (
	"net/http"

	"github.com/okian/rolematch/internal/domain/options"
	"github.com/okian/rolematch/internal/domain/types"
	"github.com/okian/rolematch/pkg/logger"
)

// RecommendHandler handles single-candidate recommendation requests.
type RecommendHandler struct {
	deps RecommendDependencies
	log  logger.Logger
}

// NewRecommendHandler creates a new recommend handler.
func NewRecommendHandler(deps RecommendDependencies) *RecommendHandler {
	return &RecommendHandler{deps: deps, log: logger.Nop()}
}

type recommendRequest struct {
	candidateRequest
	paramsRequest
}

type recommendResponse struct {
	CandidateID     *int64                 `json:"candidate_id,omitempty"`
	Roles           []string               `json:"roles"`
	Recommendations []types.Recommendation `json:"recommendations"`
	Explanations    []types.Explanation    `json:"explanations,omitempty"`
	// UnknownSkills lists submitted skills outside the predefined choices.
	// They are still scored as free text.
	UnknownSkills []string `json:"unknown_skills,omitempty"`
}

// HandleRecommend handles POST /recommend requests. With ?explain=true the
// response also carries the score breakdown of each role.
func (h *RecommendHandler) HandleRecommend(w http.ResponseWriter, r *http.Request) {
	const op = "api.recommend"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req recommendRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if fields, err := validate(req); err != nil {
		writeErrorFields(w, http.StatusBadRequest, "validation_failed", WrapKind(op, ErrValidation, err), fields)
		return
	}

	ctx := r.Context()
	params := req.resolve(h.deps.Defaults())
	candidate := req.profile()
	resp := recommendResponse{
		CandidateID:   req.CandidateID,
		UnknownSkills: options.UnknownSkills(req.Skills),
	}

	if r.URL.Query().Get("explain") == "true" {
		scored, err := h.deps.Explain(ctx, candidate, params)
		if err != nil {
			fail(ctx, w, h.log, op, err)
			return
		}
		resp.Roles = make([]string, len(scored))
		resp.Explanations = make([]types.Explanation, len(scored))
		for i, s := range scored {
			resp.Roles[i] = s.Role
			resp.Explanations[i] = types.Explanation{
				Rank:       i + 1,
				Role:       s.Role,
				Content:    s.Content,
				Popularity: s.Popularity,
				Score:      s.Score,
			}
		}
	} else {
		roles, err := h.deps.Recommend(ctx, candidate, params)
		if err != nil {
			fail(ctx, w, h.log, op, err)
			return
		}
		resp.Roles = roles
	}
	if resp.Roles == nil {
		resp.Roles = []string{}
	}
	resp.Recommendations = types.Rank(resp.Roles)
	writeJSON(w, http.StatusOK, resp)
}
