package models

import (
	"time"
)

// Customer 代表系統中的客戶
// Customer is the slice of the customer record targeting needs.
type Customer struct {
	ID        string    `json:"id"`
	BranchID  string    `json:"branch_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
