// Package eligibility decides whether a promotion may be shown at all.
package eligibility

import (
	"time"

	"goflare.io/display/models"
)

// IsEligible reports whether p is active and now falls inside
// [ValidFrom, ValidUntil], both ends inclusive. A missing bound makes the
// promotion ineligible.
func IsEligible(p *models.Promotion, now time.Time) bool {
	if p == nil || !p.IsActive {
		return false
	}
	if p.ValidFrom.IsZero() || p.ValidUntil.IsZero() {
		return false
	}
	return !now.Before(p.ValidFrom) && !now.After(p.ValidUntil)
}

// Filter returns the eligible promotions in input order.
func Filter(promotions []*models.Promotion, now time.Time) []*models.Promotion {
	eligible := make([]*models.Promotion, 0, len(promotions))
	for _, p := range promotions {
		if IsEligible(p, now) {
			eligible = append(eligible, p)
		}
	}
	return eligible
}
