package handler

import (
	"net/http"

	"mkranker-server/internal/domain"
)

// UsageHandler serves the dashboard usage summary.
type UsageHandler struct {
	quotaService domain.QuotaService
	profileRepo  domain.ProfileRepository
	logger       domain.Logger
}

// NewUsageHandler creates a new usage handler
func NewUsageHandler(quotaService domain.QuotaService, profileRepo domain.ProfileRepository, logger domain.Logger) *UsageHandler {
	return &UsageHandler{
		quotaService: quotaService,
		profileRepo:  profileRepo,
		logger:       logger,
	}
}

// GetUsage handles GET /usage: per-feature used/limit/remaining against the
// effective plan. First dashboard load lazily creates the profile and the
// zeroed ledger row.
func (h *UsageHandler) GetUsage(w http.ResponseWriter, r *http.Request) {
	user, ok := GetUserFromContext(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "User not found in context")
		return
	}
	token, _ := GetTokenFromContext(r)

	if _, err := h.profileRepo.GetOrCreate(r.Context(), user.ID, user.Email, token); err != nil {
		// Summary still works without the profile row; just log it.
		h.logger.Warn("Failed to ensure profile row", "user_id", user.ID, "error", err)
	}

	summary, err := h.quotaService.Summary(r.Context(), user.ID, token)
	if err != nil {
		h.logger.Error("Failed to build usage summary", err, "user_id", user.ID)
		writeError(w, http.StatusInternalServerError, "Failed to retrieve usage")
		return
	}

	writeJSON(w, http.StatusOK, summary)
}
