package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"mkranker-server/internal/config"
	"mkranker-server/internal/domain"
)

func newWebhookHandler(subService *MockSubscriptionService) *PaymentWebhookHandler {
	cfg := &config.AppConfig{PaymentWebhookToken: "gateway-token"}
	return NewPaymentWebhookHandler(subService, cfg, NewMockHandlerLogger())
}

func postWebhook(handler *PaymentWebhookHandler, token, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/webhooks/payment", strings.NewReader(body))
	if token != "" {
		req.Header.Set("X-Webhook-Token", token)
	}
	rr := httptest.NewRecorder()
	handler.HandleEvent(rr, req)
	return rr
}

func TestPaymentWebhook_Unauthorized(t *testing.T) {
	handler := newWebhookHandler(NewMockSubscriptionService())

	rr := postWebhook(handler, "wrong-token", `{"event":"payment.approved","user_id":"user-1","product_code":"mkranker-solo"}`)
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected status %d, got %d", http.StatusUnauthorized, rr.Code)
	}

	rr = postWebhook(handler, "", `{"event":"payment.approved","user_id":"user-1","product_code":"mkranker-solo"}`)
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected status %d for missing token, got %d", http.StatusUnauthorized, rr.Code)
	}
}

func TestPaymentWebhook_ApprovedActivatesPlan(t *testing.T) {
	subService := NewMockSubscriptionService()
	handler := newWebhookHandler(subService)

	rr := postWebhook(handler, "gateway-token", `{"event":"payment.approved","user_id":"user-1","product_code":"mkranker-discovery"}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d: %s", http.StatusOK, rr.Code, rr.Body.String())
	}

	var resp map[string]string
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp["status"] != "activated" {
		t.Fatalf("expected status activated, got %s", resp["status"])
	}
	if len(subService.reactivated) != 1 || subService.reactivated[0] != domain.PlanDiscovery {
		t.Fatalf("expected reactivation onto discovery, got %+v", subService.reactivated)
	}
}

func TestPaymentWebhook_RenewedActivatesPlan(t *testing.T) {
	subService := NewMockSubscriptionService()
	handler := newWebhookHandler(subService)

	rr := postWebhook(handler, "gateway-token", `{"event":"subscription.renewed","user_id":"user-1","product_code":"mkranker-escala","period_days":365}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rr.Code)
	}
	if len(subService.reactivated) != 1 || subService.reactivated[0] != domain.PlanEscala {
		t.Fatalf("expected reactivation onto escala, got %+v", subService.reactivated)
	}
}

func TestPaymentWebhook_UnknownProduct(t *testing.T) {
	handler := newWebhookHandler(NewMockSubscriptionService())

	rr := postWebhook(handler, "gateway-token", `{"event":"payment.approved","user_id":"user-1","product_code":"mkranker-platinum"}`)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected status %d, got %d", http.StatusBadRequest, rr.Code)
	}
}

func TestPaymentWebhook_RefundDeactivates(t *testing.T) {
	subService := NewMockSubscriptionService()
	handler := newWebhookHandler(subService)

	rr := postWebhook(handler, "gateway-token", `{"event":"payment.refunded","user_id":"user-1"}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rr.Code)
	}
	if len(subService.canceled) != 1 || subService.canceled[0] != "user-1" {
		t.Fatalf("expected cancellation for user-1, got %+v", subService.canceled)
	}
}

func TestPaymentWebhook_UnknownEventIgnored(t *testing.T) {
	subService := NewMockSubscriptionService()
	handler := newWebhookHandler(subService)

	rr := postWebhook(handler, "gateway-token", `{"event":"payment.chargeback_opened","user_id":"user-1"}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rr.Code)
	}

	var resp map[string]string
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp["status"] != "ignored" {
		t.Fatalf("expected status ignored, got %s", resp["status"])
	}
	if len(subService.reactivated) != 0 || len(subService.canceled) != 0 {
		t.Fatalf("unknown event must not mutate subscriptions")
	}
}

func TestPaymentWebhook_MissingUserID(t *testing.T) {
	handler := newWebhookHandler(NewMockSubscriptionService())

	rr := postWebhook(handler, "gateway-token", `{"event":"payment.approved","product_code":"mkranker-solo"}`)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected status %d, got %d", http.StatusBadRequest, rr.Code)
	}
}
