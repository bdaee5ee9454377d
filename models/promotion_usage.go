package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PromotionUsage records a promotion applied to an order.
type PromotionUsage struct {
	ID              uuid.UUID        `json:"id"`
	PromotionID     string           `json:"promotion_id"`
	OrderID         string           `json:"order_id"`
	CustomerID      string           `json:"customer_id,omitempty"`
	BranchID        string           `json:"branch_id,omitempty"`
	DiscountApplied *decimal.Decimal `json:"discount_applied,omitempty"`
	OriginalAmount  *decimal.Decimal `json:"original_amount,omitempty"`
	FinalAmount     *decimal.Decimal `json:"final_amount,omitempty"`
	UsedAt          time.Time        `json:"used_at"`
}
