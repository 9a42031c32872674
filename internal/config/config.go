package config

import (
	"os"
	"strings"

	"mkranker-server/internal/domain"
)

// AppConfig implements the domain.Config interface
type AppConfig struct {
	ServerPort             string
	LogLevel               string
	SupabaseURL            string
	SupabaseKey            string
	SupabaseServiceRoleKey string
	AdminAPISecret         string
	N8NWebhookBaseURL      string
	N8NWebhookToken        string
	PaymentWebhookToken    string
	CORSAllowedOrigins     []string
}

// NewConfig creates a new configuration instance with default values
func NewConfig() domain.Config {
	return &AppConfig{
		// Cloud Run (and many PaaS) provide the listening port via PORT.
		// Keep SERVER_PORT for local/dev compatibility.
		ServerPort:             getEnvOrDefault("PORT", getEnvOrDefault("SERVER_PORT", "8080")),
		LogLevel:               getEnvOrDefault("LOG_LEVEL", "info"),
		SupabaseURL:            getEnvOrDefault("SUPABASE_URL", ""),
		SupabaseKey:            getEnvOrDefault("SUPABASE_ANON_KEY", ""),
		SupabaseServiceRoleKey: getEnvOrDefault("SUPABASE_SERVICE_ROLE_KEY", ""),
		AdminAPISecret:         getEnvOrDefault("ADMIN_API_SECRET", ""),
		N8NWebhookBaseURL:      getEnvOrDefault("N8N_WEBHOOK_BASE_URL", ""),
		N8NWebhookToken:        getEnvOrDefault("N8N_WEBHOOK_TOKEN", ""),
		PaymentWebhookToken:    getEnvOrDefault("PAYMENT_WEBHOOK_TOKEN", ""),
		CORSAllowedOrigins: getEnvListOrDefault("CORS_ALLOWED_ORIGINS", []string{
			"http://localhost:5173", // Vite dev server
			"http://localhost:4173", // Vite preview
			"http://localhost:3000", // Alternative dev port
		}),
	}
}

// GetServerPort returns the server port
func (c *AppConfig) GetServerPort() string {
	return c.ServerPort
}

// GetLogLevel returns the logging level
func (c *AppConfig) GetLogLevel() string {
	return c.LogLevel
}

// GetSupabaseURL returns the Supabase URL
func (c *AppConfig) GetSupabaseURL() string {
	return c.SupabaseURL
}

// GetSupabaseKey returns the Supabase anon key
func (c *AppConfig) GetSupabaseKey() string {
	return c.SupabaseKey
}

// GetSupabaseServiceRoleKey returns the Supabase service role key
func (c *AppConfig) GetSupabaseServiceRoleKey() string {
	return c.SupabaseServiceRoleKey
}

// GetAdminAPISecret returns the shared secret for admin endpoints
func (c *AppConfig) GetAdminAPISecret() string {
	return c.AdminAPISecret
}

// GetN8NWebhookBaseURL returns the base URL of the n8n workflows
func (c *AppConfig) GetN8NWebhookBaseURL() string {
	return c.N8NWebhookBaseURL
}

// GetN8NWebhookToken returns the bearer token for workflow webhooks
func (c *AppConfig) GetN8NWebhookToken() string {
	return c.N8NWebhookToken
}

// GetPaymentWebhookToken returns the shared token the payment gateway sends
func (c *AppConfig) GetPaymentWebhookToken() string {
	return c.PaymentWebhookToken
}

// GetCORSAllowedOrigins returns the allowed browser origins
func (c *AppConfig) GetCORSAllowedOrigins() []string {
	return c.CORSAllowedOrigins
}

// Helper functions for environment variable handling
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvListOrDefault(key string, defaultValue []string) []string {
	if value := os.Getenv(key); value != "" {
		parts := strings.Split(value, ",")
		origins := make([]string, 0, len(parts))
		for _, part := range parts {
			if trimmed := strings.TrimSpace(part); trimmed != "" {
				origins = append(origins, trimmed)
			}
		}
		if len(origins) > 0 {
			return origins
		}
	}
	return defaultValue
}
