package repository

import (
	"context"

	"sales-tracker/internal/domain"
)

// SaleRepository defines persistence operations for Sale entities. There is
// deliberately no update or delete: the ledger only grows.
type SaleRepository interface {
	Init(ctx context.Context) error
	Create(ctx context.Context, sale *domain.Sale) (int64, error)
	ListByUser(ctx context.Context, userID int64) ([]domain.Sale, error)
}
