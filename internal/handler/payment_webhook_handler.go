package handler

import (
	"crypto/subtle"
	"encoding/json"
	"net/http"

	"mkranker-server/internal/domain"
)

// PaymentWebhookHandler receives callbacks from the payment gateway.
// Authentication is a shared token header configured on the gateway side.
type PaymentWebhookHandler struct {
	subscriptionService domain.SubscriptionService
	config              domain.Config
	logger              domain.Logger
}

// NewPaymentWebhookHandler creates a new payment webhook handler
func NewPaymentWebhookHandler(subscriptionService domain.SubscriptionService, config domain.Config, logger domain.Logger) *PaymentWebhookHandler {
	return &PaymentWebhookHandler{
		subscriptionService: subscriptionService,
		config:              config,
		logger:              logger,
	}
}

// paymentEvent is the gateway's callback payload. The checkout passes the
// Supabase user id through as a custom field, so no email lookup is needed.
type paymentEvent struct {
	Event       string `json:"event"`
	UserID      string `json:"user_id"`
	ProductCode string `json:"product_code"`
	PeriodDays  int    `json:"period_days,omitempty"`
}

// HandleEvent handles POST /webhooks/payment.
//
// An approved payment activates the product's plan for the paid period
// (default 30 days) and resets the usage ledger; refunds and cancellations
// deactivate the subscription. Unknown events are acknowledged and ignored
// so the gateway does not retry them forever.
func (h *PaymentWebhookHandler) HandleEvent(w http.ResponseWriter, r *http.Request) {
	token := r.Header.Get("X-Webhook-Token")
	expected := h.config.GetPaymentWebhookToken()
	if expected == "" || token == "" || subtle.ConstantTimeCompare([]byte(token), []byte(expected)) != 1 {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var event paymentEvent
	if err := json.NewDecoder(r.Body).Decode(&event); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if event.UserID == "" {
		writeError(w, http.StatusBadRequest, "user_id is required")
		return
	}

	switch event.Event {
	case "payment.approved", "subscription.renewed":
		planID, err := domain.PlanByProductCode(event.ProductCode)
		if err != nil {
			h.logger.Warn("Payment event for unknown product",
				"user_id", event.UserID, "product_code", event.ProductCode)
			writeError(w, http.StatusBadRequest, "Unknown product code")
			return
		}

		sub, err := h.subscriptionService.Reactivate(r.Context(), event.UserID, planID, event.PeriodDays)
		if err != nil {
			h.logger.Error("Failed to activate subscription from payment", err,
				"user_id", event.UserID, "product_code", event.ProductCode)
			writeError(w, http.StatusInternalServerError, "Failed to activate subscription")
			return
		}

		h.logger.Info("Subscription activated from payment",
			"user_id", event.UserID, "plan_id", sub.PlanID, "event", event.Event)
		writeJSON(w, http.StatusOK, map[string]string{"status": "activated"})

	case "payment.refunded", "subscription.canceled":
		if err := h.subscriptionService.Cancel(r.Context(), event.UserID); err != nil {
			h.logger.Error("Failed to deactivate subscription from payment event", err,
				"user_id", event.UserID, "event", event.Event)
			writeError(w, http.StatusInternalServerError, "Failed to deactivate subscription")
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "deactivated"})

	default:
		h.logger.Debug("Ignoring payment event", "event", event.Event, "user_id", event.UserID)
		writeJSON(w, http.StatusOK, map[string]string{"status": "ignored"})
	}
}
