package domain

// DenyReason says why a quota check denied the operation. System failures
// are not a DenyReason: they surface as errors so callers can tell "show
// upsell" apart from "show retry".
type DenyReason string

const (
	DenyReasonLimitExceeded DenyReason = "limit_exceeded"
)

// QuotaDecision is the tagged outcome of a quota check. A denied decision
// is side-effect free; only an allowed CheckAndConsume moves the counter.
type QuotaDecision struct {
	Allowed   bool       `json:"allowed"`
	Reason    DenyReason `json:"reason,omitempty"`
	Plan      PlanID     `json:"plan"`
	Feature   FeatureKey `json:"feature"`
	Limit     int        `json:"limit"`
	Used      int        `json:"used"`
	Remaining int        `json:"remaining"`
	Unlimited bool       `json:"unlimited"`
}
