// Package targeting decides whether a promotion is relevant to a visitor.
package targeting

import (
	"context"

	"go.uber.org/zap"

	"goflare.io/display/models"
	"goflare.io/display/models/enum"
)

// CustomerLookup resolves whether a customer counts as new.
type CustomerLookup interface {
	IsNewCustomer(ctx context.Context, customerID string) (bool, error)
}

// Filter evaluates targeting rules. Rules that need a customer lookup fail
// closed: a missing customer id or a lookup error excludes the promotion.
type Filter struct {
	lookup CustomerLookup
	logger *zap.Logger
}

func NewFilter(lookup CustomerLookup, logger *zap.Logger) *Filter {
	return &Filter{
		lookup: lookup,
		logger: logger,
	}
}

// Matches reports whether p targets the visitor described by tctx.
func (f *Filter) Matches(ctx context.Context, p *models.Promotion, tctx models.TargetingContext) bool {
	return f.matches(ctx, p, tctx, f.isNewCustomer)
}

// Apply returns the promotions matching tctx in input order. Each customer
// is looked up at most once per call.
func (f *Filter) Apply(ctx context.Context, promotions []*models.Promotion, tctx models.TargetingContext) []*models.Promotion {
	memo := newMemoLookup(f.isNewCustomer)

	matched := make([]*models.Promotion, 0, len(promotions))
	for _, p := range promotions {
		if f.matches(ctx, p, tctx, memo.isNewCustomer) {
			matched = append(matched, p)
		}
	}
	return matched
}

type newCustomerFunc func(ctx context.Context, customerID string) (bool, error)

func (f *Filter) matches(ctx context.Context, p *models.Promotion, tctx models.TargetingContext, isNew newCustomerFunc) bool {
	switch p.TargetAudience {
	case enum.TargetAudienceAll, "":
		return true

	case enum.TargetAudienceSpecificBranch:
		return tctx.BranchID != "" && p.TargetsBranch(tctx.BranchID)

	case enum.TargetAudienceNewCustomers, enum.TargetAudienceReturningCustomers:
		if tctx.CustomerID == "" {
			return false
		}
		fresh, err := isNew(ctx, tctx.CustomerID)
		if err != nil {
			f.logger.Warn("customer lookup failed, excluding promotion",
				zap.Error(err),
				zap.String("promotion_id", p.ID),
				zap.String("customer_id", tctx.CustomerID))
			return false
		}
		if p.TargetAudience == enum.TargetAudienceNewCustomers {
			return fresh
		}
		return !fresh
	}

	f.logger.Warn("unknown target audience, excluding promotion",
		zap.String("promotion_id", p.ID),
		zap.String("target_audience", string(p.TargetAudience)))
	return false
}

func (f *Filter) isNewCustomer(ctx context.Context, customerID string) (bool, error) {
	if f.lookup == nil {
		return false, errNoLookup
	}
	return f.lookup.IsNewCustomer(ctx, customerID)
}
