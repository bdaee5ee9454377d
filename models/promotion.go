package models

import (
	"time"

	"goflare.io/display/models/enum"
)

// Promotion 代表一則促銷內容
// Promotion is a unit of promotional content with a validity window,
// a targeting rule and display configuration.
type Promotion struct {
	ID              string              `json:"id"`
	Title           string              `json:"title"`
	Description     string              `json:"description"`
	ImageURL        string              `json:"image_url,omitempty"`
	LinkURL         string              `json:"link_url,omitempty"`
	ValidFrom       time.Time           `json:"valid_from"`
	ValidUntil      time.Time           `json:"valid_until"`
	IsActive        bool                `json:"is_active"`
	TargetAudience  enum.TargetAudience `json:"target_audience"`
	TargetBranchIDs []string            `json:"target_branch_ids,omitempty"`
	DisplayMode     enum.DisplayMode    `json:"display_mode,omitempty"`
	DisplayPriority int                 `json:"display_priority"`
	DisplaySettings DisplaySettings     `json:"display_settings"`
	CreatedAt       time.Time           `json:"created_at"`

	TotalViews       int64 `json:"total_views"`
	TotalClicks      int64 `json:"total_clicks"`
	TotalConversions int64 `json:"total_conversions"`
	TotalUses        int64 `json:"total_uses"`
}

// TargetsBranch reports whether branchID is one of the promotion's target branches.
func (p *Promotion) TargetsBranch(branchID string) bool {
	for _, id := range p.TargetBranchIDs {
		if id == branchID {
			return true
		}
	}
	return false
}
