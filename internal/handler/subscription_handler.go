package handler

import (
	"net/http"

	"mkranker-server/internal/domain"
)

// SubscriptionHandler exposes the account's plan state.
type SubscriptionHandler struct {
	subscriptionService domain.SubscriptionService
	logger              domain.Logger
}

// NewSubscriptionHandler creates a new subscription handler
func NewSubscriptionHandler(subscriptionService domain.SubscriptionService, logger domain.Logger) *SubscriptionHandler {
	return &SubscriptionHandler{
		subscriptionService: subscriptionService,
		logger:              logger,
	}
}

// GetSubscription handles GET /subscription: the effective plan after
// expiry has been applied, plus status and expiry date.
func (h *SubscriptionHandler) GetSubscription(w http.ResponseWriter, r *http.Request) {
	user, ok := GetUserFromContext(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "User not found in context")
		return
	}
	token, _ := GetTokenFromContext(r)

	view, err := h.subscriptionService.View(r.Context(), user.ID, token)
	if err != nil {
		h.logger.Error("Failed to resolve subscription", err, "user_id", user.ID)
		writeError(w, http.StatusInternalServerError, "Failed to retrieve subscription")
		return
	}

	writeJSON(w, http.StatusOK, view)
}
