package domain

import "errors"

// Domain errors
var (
	ErrUnknownPlan          = errors.New("unknown plan")
	ErrUnknownFeature       = errors.New("unknown feature")
	ErrSubscriptionNotFound = errors.New("subscription not found")
	ErrInvalidToken         = errors.New("invalid token")
	ErrGenerationFailed     = errors.New("content generation failed")
)

// ValidationError represents a validation error with field and message information.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return e.Field + ": " + e.Message
	}
	return e.Message
}
