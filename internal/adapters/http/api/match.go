// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	service "github.com/okian/givematch/internal/app"
	"github.com/okian/givematch/internal/domain/model"
)

// defaultMaxMatchLimit caps requested result sizes when the server is not
// configured otherwise.
const defaultMaxMatchLimit = 50

// matchRequest mirrors the OpenAPI schema for POST /match.
type matchRequest struct {
	Donor      donorPayload       `json:"donor" validate:"required"`
	Recipients []recipientPayload `json:"recipients" validate:"required,min=1,dive"`
	// Limit is the maximum number of matches to return. Zero means the
	// service default.
	Limit int `json:"limit" validate:"gte=0"`
}

// MatchHandler handles match requests.
type MatchHandler struct {
	deps     Dependencies
	maxLimit int
}

// NewMatchHandler creates a new match handler.
func NewMatchHandler(deps Dependencies, maxLimit int) *MatchHandler {
	if maxLimit <= 0 {
		maxLimit = defaultMaxMatchLimit
	}
	return &MatchHandler{deps: deps, maxLimit: maxLimit}
}

// HandlePostMatch handles POST /match requests.
func (h *MatchHandler) HandlePostMatch(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req matchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", fmt.Errorf("%w: %w", ErrBadRequest, err))
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", fmt.Errorf("%w: %w", ErrBadRequest, err))
		return
	}

	limit := req.Limit
	if limit > h.maxLimit {
		limit = h.maxLimit
	}
	recipients := make([]model.Recipient, len(req.Recipients))
	for i, rp := range req.Recipients {
		recipients[i] = rp.toModel()
	}

	res, err := h.deps.Match(r.Context(), req.Donor.toModel(), recipients, limit)
	if err != nil {
		if errors.Is(err, service.ErrInvalidInput) {
			writeError(w, http.StatusBadRequest, "bad_request", err)
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", ErrInternal)
		return
	}
	writeJSON(w, http.StatusOK, res)
}
