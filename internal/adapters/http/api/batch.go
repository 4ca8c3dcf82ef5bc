package api

import (
	"fmt"
	"net/http"

	"github.com/okian/rolematch/internal/domain/model"
	"github.com/okian/rolematch/internal/domain/types"
	"github.com/okian/rolematch/pkg/logger"
)

const defaultMaxBatch = 100

// BatchHandler handles batch recommendation requests.
type BatchHandler struct {
	deps     BatchDependencies
	log      logger.Logger
	maxBatch int
}

// NewBatchHandler creates a new batch handler.
func NewBatchHandler(deps BatchDependencies) *BatchHandler {
	return &BatchHandler{deps: deps, log: logger.Nop(), maxBatch: defaultMaxBatch}
}

type batchRequest struct {
	Candidates []candidateRequest `json:"candidates" validate:"required,dive"`
	paramsRequest
}

type batchResult struct {
	CandidateID     *int64                 `json:"candidate_id,omitempty"`
	Roles           []string               `json:"roles"`
	Recommendations []types.Recommendation `json:"recommendations"`
}

type batchResponse struct {
	Results []batchResult `json:"results"`
}

// HandleBatch handles POST /recommend/batch requests. Results follow the
// order of the submitted candidates.
func (h *BatchHandler) HandleBatch(w http.ResponseWriter, r *http.Request) {
	const op = "api.recommend_batch"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req batchRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if n := len(req.Candidates); n == 0 || n > h.maxBatch {
		writeError(w, http.StatusBadRequest, "bad_request",
			WrapKind(op, ErrBatchSize, fmt.Errorf("got %d candidates, want 1..%d", n, h.maxBatch)))
		return
	}
	if fields, err := validate(req); err != nil {
		writeErrorFields(w, http.StatusBadRequest, "validation_failed", WrapKind(op, ErrValidation, err), fields)
		return
	}

	profiles := make([]model.CandidateProfile, len(req.Candidates))
	for i, c := range req.Candidates {
		profiles[i] = c.profile()
	}
	ctx := r.Context()
	out, err := h.deps.RecommendBatch(ctx, profiles, req.resolve(h.deps.Defaults()))
	if err != nil {
		fail(ctx, w, h.log, op, err)
		return
	}

	resp := batchResponse{Results: make([]batchResult, len(out))}
	for i, roles := range out {
		if roles == nil {
			roles = []string{}
		}
		resp.Results[i] = batchResult{
			CandidateID:     req.Candidates[i].CandidateID,
			Roles:           roles,
			Recommendations: types.Rank(roles),
		}
	}
	writeJSON(w, http.StatusOK, resp)
}
