package domain

import "github.com/supabase-community/supabase-go"

type SupabaseClient interface {
	Initialize() error
	ValidateToken(token string) (*SupabaseUser, error)

	DB() *supabase.Client
	GetClientWithToken(token string) (*supabase.Client, error)

	// ServiceRoleClient bypasses RLS. Admin and payment-webhook paths only.
	ServiceRoleClient() (*supabase.Client, error)
}
