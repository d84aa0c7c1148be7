package model

// ValidationResult reports whether a variant may be submitted, with the rule
// violations in precedence order.
type ValidationResult struct {
	Platform Platform        `json:"platform"`
	IsValid  bool            `json:"is_valid"`
	Errors   []PlatformError `json:"errors,omitempty"`
}
