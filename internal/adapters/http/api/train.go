// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/okian/givematch/internal/domain/model"
)

// trainSamplePayload mirrors the OpenAPI TrainingSample schema.
type trainSamplePayload struct {
	Donor     donorPayload     `json:"donor" validate:"required"`
	Recipient recipientPayload `json:"recipient" validate:"required"`
	// OutcomeScore is the observed success of the match in [0,1].
	OutcomeScore float64 `json:"outcome_score" validate:"gte=0,lte=1"`
}

// trainRequest mirrors the OpenAPI schema for POST /train. The wire field
// is named matches because each sample records a historical match outcome.
type trainRequest struct {
	Matches []trainSamplePayload `json:"matches" validate:"required,dive"`
}

// TrainHandler handles training requests.
type TrainHandler struct {
	deps Dependencies
}

// NewTrainHandler creates a new train handler.
func NewTrainHandler(deps Dependencies) *TrainHandler {
	return &TrainHandler{deps: deps}
}

// HandlePostTrain handles POST /train requests. An undersized sample set
// is a successful response with a skipped status, not an error.
func (h *TrainHandler) HandlePostTrain(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req trainRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", fmt.Errorf("%w: %w", ErrBadRequest, err))
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", fmt.Errorf("%w: %w", ErrBadRequest, err))
		return
	}

	samples := make([]model.TrainingSample, len(req.Matches))
	for i, sp := range req.Matches {
		samples[i] = model.TrainingSample{
			Donor:        sp.Donor.toModel(),
			Recipient:    sp.Recipient.toModel(),
			OutcomeScore: sp.OutcomeScore,
		}
	}

	out, err := h.deps.Train(r.Context(), samples)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", ErrInternal)
		return
	}
	writeJSON(w, http.StatusOK, out)
}
