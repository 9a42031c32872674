package handler

import (
	"crypto/subtle"
	"encoding/json"
	"net/http"

	"mkranker-server/internal/domain"

	"github.com/gorilla/mux"
)

// AdminHandler exposes admin-only endpoints protected by X-Admin-Secret.
// These endpoints are intended for internal use (support tooling) and should not be exposed publicly without additional safeguards.
//
// They bypass the payment flow entirely: support can force a plan onto an
// account and reset its usage ledger.
type AdminHandler struct {
	subscriptionService domain.SubscriptionService
	quotaService        domain.QuotaService
	config              domain.Config
	logger              domain.Logger
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(subscriptionService domain.SubscriptionService, quotaService domain.QuotaService, config domain.Config, logger domain.Logger) *AdminHandler {
	return &AdminHandler{
		subscriptionService: subscriptionService,
		quotaService:        quotaService,
		config:              config,
		logger:              logger,
	}
}

// authorize checks the X-Admin-Secret header against ADMIN_API_SECRET.
func (h *AdminHandler) authorize(r *http.Request) bool {
	secret := r.Header.Get("X-Admin-Secret")
	expected := h.config.GetAdminAPISecret()
	return expected != "" && secret != "" &&
		subtle.ConstantTimeCompare([]byte(secret), []byte(expected)) == 1
}

type reactivateRequest struct {
	PlanID string `json:"plan_id"`
	Days   int    `json:"days,omitempty"`
}

// ReactivateSubscription handles POST /admin/users/{id}/reactivate: forces
// status=active on the given plan (default 30 days) and zeroes the usage
// ledger, so the next quota check evaluates against the new plan's ceilings.
func (h *AdminHandler) ReactivateSubscription(w http.ResponseWriter, r *http.Request) {
	if !h.authorize(r) {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	vars := mux.Vars(r)
	userID := vars["id"]
	if userID == "" {
		writeError(w, http.StatusBadRequest, "User id is required")
		return
	}

	var req reactivateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	sub, err := h.subscriptionService.Reactivate(r.Context(), userID, domain.PlanID(req.PlanID), req.Days)
	if err != nil {
		if err == domain.ErrUnknownPlan {
			writeError(w, http.StatusBadRequest, "Unknown plan")
			return
		}
		h.logger.Error("Admin reactivation failed", err, "user_id", userID, "plan_id", req.PlanID)
		writeError(w, http.StatusInternalServerError, "Failed to reactivate subscription")
		return
	}

	h.logger.Info("Admin reactivated subscription",
		"user_id", userID, "plan_id", sub.PlanID, "expires_on", sub.ExpiresOn.Format("2006-01-02"))
	writeJSON(w, http.StatusOK, sub)
}

// ResetUsage handles POST /admin/users/{id}/usage/reset.
func (h *AdminHandler) ResetUsage(w http.ResponseWriter, r *http.Request) {
	if !h.authorize(r) {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	vars := mux.Vars(r)
	userID := vars["id"]
	if userID == "" {
		writeError(w, http.StatusBadRequest, "User id is required")
		return
	}

	if err := h.quotaService.ResetUsage(r.Context(), userID, ""); err != nil {
		h.logger.Error("Admin usage reset failed", err, "user_id", userID)
		writeError(w, http.StatusInternalServerError, "Failed to reset usage")
		return
	}

	h.logger.Info("Admin reset usage ledger", "user_id", userID)
	writeJSON(w, http.StatusOK, map[string]string{"user_id": userID, "status": "reset"})
}
