package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"mkranker-server/internal/domain"
	apperrors "mkranker-server/pkg/errors"

	"github.com/gorilla/mux"
)

// GenerationHandler runs AI workflows for the authenticated user.
type GenerationHandler struct {
	generationService domain.GenerationService
	logger            domain.Logger
}

// NewGenerationHandler creates a new generation handler
func NewGenerationHandler(generationService domain.GenerationService, logger domain.Logger) *GenerationHandler {
	return &GenerationHandler{
		generationService: generationService,
		logger:            logger,
	}
}

type generateResponse struct {
	ID      string                `json:"id"`
	Feature domain.FeatureKey     `json:"feature"`
	Output  string                `json:"output"`
	Quota   *domain.QuotaDecision `json:"quota"`
}

type quotaDeniedResponse struct {
	Error   string                `json:"error"`
	Upgrade bool                  `json:"upgrade"`
	Quota   *domain.QuotaDecision `json:"quota"`
}

// Generate handles POST /generate/{feature}. The body is the feature's form
// fields, forwarded to the workflow as-is. A quota denial is a 402 with an
// upsell flag so the frontend can tell it apart from a retryable failure.
func (h *GenerationHandler) Generate(w http.ResponseWriter, r *http.Request) {
	user, ok := GetUserFromContext(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "User not found in context")
		return
	}
	token, _ := GetTokenFromContext(r)

	vars := mux.Vars(r)
	feature, err := domain.ParseFeatureKey(vars["feature"])
	if err != nil {
		writeError(w, http.StatusBadRequest, "Unknown feature")
		return
	}

	fields := make(map[string]interface{})
	if r.Body != nil {
		if err := json.NewDecoder(r.Body).Decode(&fields); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid request body")
			return
		}
	}

	result, decision, err := h.generationService.Generate(r.Context(), user.ID, feature, fields, token)
	if err != nil {
		h.logger.Error("Generation failed", err, "user_id", user.ID, "feature", feature)
		if errors.Is(err, domain.ErrUnknownFeature) {
			writeError(w, http.StatusBadRequest, "Unknown feature")
			return
		}
		writeError(w, apperrors.GetStatusCode(err), "Generation failed, please try again")
		return
	}

	if !decision.Allowed {
		writeJSON(w, http.StatusPaymentRequired, quotaDeniedResponse{
			Error:   string(domain.DenyReasonLimitExceeded),
			Upgrade: true,
			Quota:   decision,
		})
		return
	}

	writeJSON(w, http.StatusOK, generateResponse{
		ID:      result.ID,
		Feature: result.Feature,
		Output:  result.Output,
		Quota:   decision,
	})
}

// History handles GET /history/{feature}.
func (h *GenerationHandler) History(w http.ResponseWriter, r *http.Request) {
	user, ok := GetUserFromContext(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "User not found in context")
		return
	}
	token, _ := GetTokenFromContext(r)

	vars := mux.Vars(r)
	feature, err := domain.ParseFeatureKey(vars["feature"])
	if err != nil {
		writeError(w, http.StatusBadRequest, "Unknown feature")
		return
	}

	entries, err := h.generationService.History(r.Context(), user.ID, feature, token)
	if err != nil {
		h.logger.Error("Failed to list history", err, "user_id", user.ID, "feature", feature)
		writeError(w, http.StatusInternalServerError, "Failed to retrieve history")
		return
	}

	writeJSON(w, http.StatusOK, entries)
}
