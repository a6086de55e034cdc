package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"sales-tracker/internal/domain"
	"sales-tracker/internal/repository"
)

const createSalesTable = `
CREATE TABLE IF NOT EXISTS sales (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	user_id INTEGER NOT NULL,
	item_description TEXT NOT NULL,
	amount_cents INTEGER NOT NULL,
	commission_cents INTEGER NOT NULL,
	timestamp DATETIME NOT NULL,
	photo_path TEXT,
	created_at DATETIME NOT NULL,
	FOREIGN KEY (user_id) REFERENCES users (id)
);
`

type SaleRepository struct {
	db *sql.DB
}

func NewSaleRepository(db *sql.DB) repository.SaleRepository {
	return &SaleRepository{db: db}
}

func (r *SaleRepository) Init(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, createSalesTable); err != nil {
		return fmt.Errorf("create sales table: %w", err)
	}
	return nil
}

func (r *SaleRepository) Create(ctx context.Context, sale *domain.Sale) (int64, error) {
	if sale.CreatedAt.IsZero() {
		sale.CreatedAt = time.Now().UTC()
	}

	var photo any
	if sale.PhotoPath != "" {
		photo = sale.PhotoPath
	}

	res, err := r.db.ExecContext(ctx, `
INSERT INTO sales (user_id, item_description, amount_cents, commission_cents, timestamp, photo_path, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?)`,
		sale.UserID,
		sale.ItemDescription,
		sale.AmountCents,
		sale.CommissionCents,
		sale.Timestamp,
		photo,
		sale.CreatedAt,
	)
	if err != nil {
		return 0, fmt.Errorf("insert sale: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("sale last insert id: %w", err)
	}
	sale.ID = id
	return id, nil
}

// ListByUser returns the user's sales newest-first. Ordering by id matches
// creation order exactly, where created_at alone could tie within a second.
func (r *SaleRepository) ListByUser(ctx context.Context, userID int64) ([]domain.Sale, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT id, user_id, item_description, amount_cents, commission_cents, timestamp, photo_path, created_at
FROM sales
WHERE user_id = ?
ORDER BY id DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("query sales: %w", err)
	}
	defer rows.Close()

	var sales []domain.Sale
	for rows.Next() {
		var sale domain.Sale
		var photo sql.NullString
		if err := rows.Scan(
			&sale.ID,
			&sale.UserID,
			&sale.ItemDescription,
			&sale.AmountCents,
			&sale.CommissionCents,
			&sale.Timestamp,
			&photo,
			&sale.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan sale: %w", err)
		}
		sale.PhotoPath = photo.String
		sales = append(sales, sale)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sales: %w", err)
	}
	return sales, nil
}
