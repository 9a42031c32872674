package handler

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
)

// NewRouter creates a new HTTP router with all routes configured
func NewRouter(
	usageHandler *UsageHandler,
	generationHandler *GenerationHandler,
	subscriptionHandler *SubscriptionHandler,
	adminHandler *AdminHandler,
	paymentWebhookHandler *PaymentWebhookHandler,
	authMiddleware func(http.Handler) http.Handler,
	allowedOrigins []string,
) http.Handler {
	router := mux.NewRouter()

	// API prefix
	api := router.PathPrefix("/api/v1").Subrouter()

	// Health check endpoint (no auth required)
	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok","service":"mkranker-server"}`))
	}).Methods("GET")

	// Payment gateway callback (token-authenticated, no user session)
	api.HandleFunc("/webhooks/payment", paymentWebhookHandler.HandleEvent).Methods("POST")

	// Admin routes (X-Admin-Secret, no user session)
	api.HandleFunc("/admin/users/{id}/reactivate", adminHandler.ReactivateSubscription).Methods("POST")
	api.HandleFunc("/admin/users/{id}/usage/reset", adminHandler.ResetUsage).Methods("POST")

	// Protected routes (require authentication)
	protected := api.PathPrefix("").Subrouter()
	protected.Use(authMiddleware)

	protected.HandleFunc("/usage", usageHandler.GetUsage).Methods("GET")
	protected.HandleFunc("/subscription", subscriptionHandler.GetSubscription).Methods("GET")
	protected.HandleFunc("/generate/{feature}", generationHandler.Generate).Methods("POST")
	protected.HandleFunc("/history/{feature}", generationHandler.History).Methods("GET")

	// Configure CORS
	c := cors.New(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodPut,
			http.MethodDelete,
			http.MethodOptions,
		},
		AllowedHeaders: []string{
			"Accept",
			"Authorization",
			"Content-Type",
			"X-CSRF-Token",
		},
		ExposedHeaders: []string{
			"Link",
		},
		AllowCredentials: true,
		MaxAge:           300, // Maximum value not ignored by any of major browsers
	})

	return c.Handler(router)
}
