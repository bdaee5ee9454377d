package customer

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"goflare.io/display/driver"
	"goflare.io/display/models"
	"goflare.io/display/targeting"
)

// DefaultNewCustomerWindow is how long after registration a customer
// counts as new.
const DefaultNewCustomerWindow = 30 * 24 * time.Hour

type Service interface {
	targeting.CustomerLookup
	GetByID(ctx context.Context, id string) (*models.Customer, error)
}

var _ Service = (*service)(nil)

type service struct {
	repo               Repository
	transactionManager *driver.TransactionManager
	window             time.Duration
	now                func() time.Time
	logger             *zap.Logger
}

func NewService(repo Repository, tm *driver.TransactionManager, window time.Duration, logger *zap.Logger) Service {
	if window <= 0 {
		window = DefaultNewCustomerWindow
	}
	return &service{
		repo:               repo,
		transactionManager: tm,
		window:             window,
		now:                time.Now,
		logger:             logger,
	}
}

func (s *service) GetByID(ctx context.Context, id string) (*models.Customer, error) {
	var customer *models.Customer
	err := s.transactionManager.ExecuteReadOnlyTransaction(ctx, func(tx pgx.Tx) error {
		var err error
		customer, err = s.repo.GetByID(ctx, tx, id)
		return err
	})
	return customer, err
}

// IsNewCustomer reports whether the customer registered within the window.
// Unknown customers return ErrNotFound.
func (s *service) IsNewCustomer(ctx context.Context, customerID string) (bool, error) {
	customer, err := s.GetByID(ctx, customerID)
	if err != nil {
		return false, err
	}
	return !customer.CreatedAt.Before(s.now().Add(-s.window)), nil
}
