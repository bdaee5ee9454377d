package models

// TargetingContext is the visitor information supplied with a display
// request. It is treated as immutable for the duration of an evaluation.
type TargetingContext struct {
	SessionID  string `json:"session_id"`
	BranchID   string `json:"branch_id,omitempty"`
	CustomerID string `json:"customer_id,omitempty"`
	UserRole   string `json:"user_role,omitempty"`
}
