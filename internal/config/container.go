package config

import (
	"mkranker-server/internal/domain"
	"mkranker-server/internal/infra/n8n"
	"mkranker-server/internal/infra/supabase"
	"mkranker-server/internal/repository"
	"mkranker-server/internal/service"
	"mkranker-server/pkg/logger"
)

// Container holds all application dependencies
type Container struct {
	Config              domain.Config
	Logger              domain.Logger
	SupabaseClient      domain.SupabaseClient
	UsageRepository     domain.UsageRepository
	SubscriptionRepo    domain.SubscriptionRepository
	ProfileRepository   domain.ProfileRepository
	HistoryRepository   domain.HistoryRepository
	SubscriptionService domain.SubscriptionService
	QuotaService        domain.QuotaService
	GenerationService   domain.GenerationService
}

// NewContainer creates a new dependency injection container
func NewContainer() *Container {
	config := NewConfig()
	appLogger := logger.NewLogger(config.GetLogLevel())

	// Initialize Supabase client
	supabaseClient := supabase.NewClient(config, appLogger)
	if err := supabaseClient.Initialize(); err != nil {
		appLogger.Error("Failed to initialize Supabase client", err)
	}

	// Initialize repositories
	usageRepo := repository.NewSupabaseUsageRepository(supabaseClient, appLogger)
	subscriptionRepo := repository.NewSupabaseSubscriptionRepository(supabaseClient, appLogger)
	profileRepo := repository.NewSupabaseProfileRepository(supabaseClient, appLogger)
	historyRepo := repository.NewSupabaseHistoryRepository(supabaseClient, appLogger)

	// Initialize services
	subscriptionService := service.NewSubscriptionService(subscriptionRepo, usageRepo, appLogger)
	quotaService := service.NewQuotaService(usageRepo, subscriptionService, appLogger)
	generator := n8n.NewClient(config, appLogger)
	generationService := service.NewGenerationService(quotaService, generator, historyRepo, appLogger)

	return &Container{
		Config:              config,
		Logger:              appLogger,
		SupabaseClient:      supabaseClient,
		UsageRepository:     usageRepo,
		SubscriptionRepo:    subscriptionRepo,
		ProfileRepository:   profileRepo,
		HistoryRepository:   historyRepo,
		SubscriptionService: subscriptionService,
		QuotaService:        quotaService,
		GenerationService:   generationService,
	}
}

// GetConfig returns the configuration instance
func (c *Container) GetConfig() domain.Config {
	return c.Config
}

// GetLogger returns the logger instance
func (c *Container) GetLogger() domain.Logger {
	return c.Logger
}

// GetSupabaseClient returns the Supabase client instance
func (c *Container) GetSupabaseClient() domain.SupabaseClient {
	return c.SupabaseClient
}
