package main

import (
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"mkranker-server/internal/config"
	"mkranker-server/internal/handler"

	"github.com/joho/godotenv"
)

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found or could not be loaded: %v", err)
	}
	// Wiring
	container := config.NewContainer()

	// Handlers
	usageHandler := handler.NewUsageHandler(
		container.QuotaService,
		container.ProfileRepository,
		container.Logger,
	)

	generationHandler := handler.NewGenerationHandler(
		container.GenerationService,
		container.Logger,
	)

	subscriptionHandler := handler.NewSubscriptionHandler(
		container.SubscriptionService,
		container.Logger,
	)

	adminHandler := handler.NewAdminHandler(
		container.SubscriptionService,
		container.QuotaService,
		container.Config,
		container.Logger,
	)

	paymentWebhookHandler := handler.NewPaymentWebhookHandler(
		container.SubscriptionService,
		container.Config,
		container.Logger,
	)

	authMiddleware := handler.NewAuthMiddleware(
		container.SupabaseClient,
		container.Logger,
	)

	// Router
	router := handler.NewRouter(
		usageHandler,
		generationHandler,
		subscriptionHandler,
		adminHandler,
		paymentWebhookHandler,
		authMiddleware.Middleware,
		container.Config.GetCORSAllowedOrigins(),
	)

	// start server
	server := &http.Server{
		Addr:    ":" + container.Config.GetServerPort(),
		Handler: router,
	}

	// Run server
	go func() {
		container.Logger.Info("Server listening", "address", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			container.Logger.Error("Server failed to start", err)
			os.Exit(1)
		}
	}()
	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	container.Logger.Info("Shutting down server...")
	_ = server.Close()

	container.Logger.Info("Server exited")
}
