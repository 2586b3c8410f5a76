// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/okian/givematch/internal/domain/model"
)

// transactionPayload mirrors the OpenAPI Transaction schema. The ID is
// optional; when present, repeated analyses of the same transaction are
// served from the verdict cache.
type transactionPayload struct {
	ID       string  `json:"id"`
	Amount   float64 `json:"amount" validate:"gt=0"`
	Location struct {
		Country string `json:"country" validate:"required"`
	} `json:"location"`
	UserHistory struct {
		TrustScore *float64 `json:"trust_score" validate:"omitempty,gte=0,lte=100"`
	} `json:"user_history"`
}

// fraudRequest mirrors the OpenAPI schema for POST /fraud/analyze.
type fraudRequest struct {
	Transaction transactionPayload `json:"transaction" validate:"required"`
}

// FraudHandler handles transaction fraud analysis requests.
type FraudHandler struct {
	deps Dependencies
}

// NewFraudHandler creates a new fraud handler.
func NewFraudHandler(deps Dependencies) *FraudHandler {
	return &FraudHandler{deps: deps}
}

// HandlePostAnalyze handles POST /fraud/analyze requests.
func (h *FraudHandler) HandlePostAnalyze(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req fraudRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", fmt.Errorf("%w: %w", ErrBadRequest, err))
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", fmt.Errorf("%w: %w", ErrBadRequest, err))
		return
	}

	tx := req.Transaction
	verdict, err := h.deps.AnalyzeFraud(r.Context(), model.Transaction{
		ID:             tx.ID,
		Amount:         tx.Amount,
		Country:        tx.Location.Country,
		UserTrustScore: tx.UserHistory.TrustScore,
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", ErrInternal)
		return
	}
	writeJSON(w, http.StatusOK, verdict)
}
