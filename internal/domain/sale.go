package domain

import "time"

// SaleStatusPending is the status reported for every sale. No workflow ever
// transitions a sale out of it, so it is emitted at the serialization boundary
// rather than stored.
const SaleStatusPending = "pending"

// Sale is a single commissioned sale. Records are append-only: once written
// they are never updated or deleted.
type Sale struct {
	ID              int64
	UserID          int64
	ItemDescription string
	AmountCents     int64
	CommissionCents int64
	Timestamp       time.Time
	PhotoPath       string
	CreatedAt       time.Time
}
