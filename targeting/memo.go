package targeting

import (
	"context"
	"errors"
)

var errNoLookup = errors.New("no customer lookup configured")

type memoResult struct {
	fresh bool
	err   error
}

type memoLookup struct {
	next    newCustomerFunc
	results map[string]memoResult
}

func newMemoLookup(next newCustomerFunc) *memoLookup {
	return &memoLookup{
		next:    next,
		results: make(map[string]memoResult),
	}
}

func (m *memoLookup) isNewCustomer(ctx context.Context, customerID string) (bool, error) {
	if r, ok := m.results[customerID]; ok {
		return r.fresh, r.err
	}
	fresh, err := m.next(ctx, customerID)
	m.results[customerID] = memoResult{fresh: fresh, err: err}
	return fresh, err
}
