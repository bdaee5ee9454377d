package customer

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"goflare.io/display/driver"
	"goflare.io/display/models"
)

var ErrNotFound = errors.New("customer not found")

var _ Repository = (*repository)(nil)

type Repository interface {
	GetByID(ctx context.Context, tx pgx.Tx, id string) (*models.Customer, error)
}

type repository struct {
	conn   driver.PostgresPool
	logger *zap.Logger
}

func NewRepository(conn driver.PostgresPool, logger *zap.Logger) Repository {
	return &repository{
		conn:   conn,
		logger: logger,
	}
}

const getCustomerQuery = `SELECT id, COALESCE(branch_id, ''), created_at FROM customers WHERE id = $1`

func (r *repository) GetByID(ctx context.Context, tx pgx.Tx, id string) (*models.Customer, error) {
	var customer models.Customer

	err := tx.QueryRow(ctx, getCustomerQuery, id).Scan(&customer.ID, &customer.BranchID, &customer.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		r.logger.Error("error getting customer", zap.Error(err), zap.String("customer_id", id))
		return nil, fmt.Errorf("failed to get customer %s: %w", id, err)
	}

	return &customer, nil
}
