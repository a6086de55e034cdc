package repository

import (
	"context"

	"sales-tracker/internal/domain"
)

// LoginAttemptRepository appends to the authentication audit trail.
type LoginAttemptRepository interface {
	Init(ctx context.Context) error
	Create(ctx context.Context, attempt *domain.LoginAttempt) (int64, error)
	ListByUsername(ctx context.Context, username string) ([]domain.LoginAttempt, error)
}
