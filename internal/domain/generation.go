package domain

import (
	"context"
	"time"
)

// GenerationRequest is a user's request to run one of the AI workflows.
// Fields carries the form input as-is; the workflow defines its own shape
// per feature, so we forward it opaquely.
type GenerationRequest struct {
	UserID  string
	Feature FeatureKey
	Fields  map[string]interface{}
}

// GenerationResult is the stored outcome of a successful workflow run.
type GenerationResult struct {
	ID        string     `json:"id"`
	Feature   FeatureKey `json:"feature"`
	Output    string     `json:"output"`
	CreatedAt time.Time  `json:"created_at"`
}

// HistoryEntry is one row in a feature's result history table.
type HistoryEntry struct {
	ID        string                 `json:"id"`
	UserID    string                 `json:"user_id"`
	Input     map[string]interface{} `json:"input"`
	Output    string                 `json:"output"`
	CreatedAt time.Time              `json:"created_at"`
}

// ContentGenerator calls the external workflow that produces the content.
// The guard has no visibility into the workflow beyond success or failure.
type ContentGenerator interface {
	Generate(ctx context.Context, req *GenerationRequest) (string, error)
}
