package service

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"sales-tracker/internal/domain"
	"sales-tracker/internal/repository"
	"sales-tracker/internal/repository/sqlite"
	"sales-tracker/internal/storage"
)

// fakeUploader stands in for the S3 service.
type fakeUploader struct {
	url   string
	err   error
	calls int
}

func (f *fakeUploader) UploadFile(ctx context.Context, localPath string, opts storage.UploadOptions) (string, error) {
	f.calls++
	return f.url, f.err
}

type saleFixture struct {
	sales    SaleService
	saleRepo repository.SaleRepository
	userID   int64
	uploader *fakeUploader
}

func atNoon() time.Time {
	return time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
}

func newSaleFixture(t *testing.T, uploader *fakeUploader, now func() time.Time) *saleFixture {
	t.Helper()

	db, err := sqlite.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	ctx := context.Background()
	userRepo := sqlite.NewUserRepository(db)
	saleRepo := sqlite.NewSaleRepository(db)
	require.NoError(t, userRepo.Init(ctx))
	require.NoError(t, saleRepo.Init(ctx))

	userID, err := userRepo.Create(ctx, &domain.User{Username: "alice", FullName: "Alice A", PasswordHash: "h"})
	require.NoError(t, err)

	var store storage.Service
	if uploader != nil {
		store = uploader
	}

	return &saleFixture{
		sales:    NewSaleService(saleRepo, store, storage.UploadOptions{Bucket: "receipts"}, logrus.New(), now),
		saleRepo: saleRepo,
		userID:   userID,
		uploader: uploader,
	}
}

func TestCreateSaleDerivedValues(t *testing.T) {
	f := newSaleFixture(t, nil, atNoon)
	ctx := context.Background()

	sale, err := f.sales.CreateSale(ctx, f.userID, "Widget", "19.999", "")
	require.NoError(t, err)
	require.Equal(t, int64(2000), sale.AmountCents)
	require.Equal(t, int64(40), sale.CommissionCents)
	require.Equal(t, atNoon(), sale.Timestamp)
	require.Empty(t, sale.PhotoPath)
}

func TestCreateSaleRounding(t *testing.T) {
	tests := []struct {
		amount         string
		wantAmount     int64
		wantCommission int64
	}{
		{"19.999", 2000, 40},
		{"0.01", 1, 0},
		{"0.25", 25, 1}, // half a cent of commission rounds away from zero
		{"100", 10000, 200},
		{"1234.56", 123456, 2469},
	}

	f := newSaleFixture(t, nil, atNoon)
	ctx := context.Background()

	for _, tt := range tests {
		t.Run(tt.amount, func(t *testing.T) {
			sale, err := f.sales.CreateSale(ctx, f.userID, "Widget", tt.amount, "")
			require.NoError(t, err)
			require.Equal(t, tt.wantAmount, sale.AmountCents)
			require.Equal(t, tt.wantCommission, sale.CommissionCents)
		})
	}
}

func TestCreateSaleBusinessHours(t *testing.T) {
	day := func(hour, min, sec int) func() time.Time {
		return func() time.Time {
			return time.Date(2026, 3, 14, hour, min, sec, 0, time.UTC)
		}
	}

	tests := []struct {
		name    string
		now     func() time.Time
		allowed bool
	}{
		{"exactly 07:00:00", day(7, 0, 0), true},
		{"just before open", day(6, 59, 59), false},
		{"hour 6", day(6, 30, 0), false},
		{"20:59:59", day(20, 59, 59), true},
		{"exactly 21:00:00", day(21, 0, 0), false},
		{"hour 22", day(22, 0, 0), false},
		{"midnight", day(0, 0, 0), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newSaleFixture(t, nil, tt.now)
			ctx := context.Background()

			sale, err := f.sales.CreateSale(ctx, f.userID, "Widget", "10.00", "")

			list, listErr := f.saleRepo.ListByUser(ctx, f.userID)
			require.NoError(t, listErr)

			if tt.allowed {
				require.NoError(t, err)
				require.Len(t, list, 1)
				require.Equal(t, sale.ID, list[0].ID)
			} else {
				require.ErrorIs(t, err, ErrOutsideBusinessHours)
				require.Empty(t, list, "rejected sale must not be written")
			}
		})
	}
}

func TestCreateSaleValidation(t *testing.T) {
	f := newSaleFixture(t, nil, atNoon)
	ctx := context.Background()

	tests := []struct {
		name    string
		item    string
		amount  string
		wantMsg string
	}{
		{"missing item", "", "10.00", "Item description and amount are required"},
		{"missing amount", "Widget", "", "Item description and amount are required"},
		{"blank item", "   ", "10.00", "Item description cannot be empty"},
		{"non-numeric amount", "Widget", "abc", "Amount must be a positive number"},
		{"zero amount", "Widget", "0", "Amount must be a positive number"},
		{"negative amount", "Widget", "-5", "Amount must be a positive number"},
		{"nan amount", "Widget", "NaN", "Amount must be a positive number"},
		{"infinite amount", "Widget", "Inf", "Amount must be a positive number"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.sales.CreateSale(ctx, f.userID, tt.item, tt.amount, "")
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			require.Equal(t, tt.wantMsg, verr.Error())
		})
	}

	list, err := f.saleRepo.ListByUser(ctx, f.userID)
	require.NoError(t, err)
	require.Empty(t, list)
}

func TestCreateSaleWithReceipt(t *testing.T) {
	uploader := &fakeUploader{url: "https://cdn.example.com/receipts/a.jpg"}
	f := newSaleFixture(t, uploader, atNoon)

	sale, err := f.sales.CreateSale(context.Background(), f.userID, "Widget", "10.00", "/tmp/receipt.jpg")
	require.NoError(t, err)
	require.Equal(t, 1, uploader.calls)
	require.Equal(t, "https://cdn.example.com/receipts/a.jpg", sale.PhotoPath)
}

func TestCreateSaleUploadFailureDegrades(t *testing.T) {
	uploader := &fakeUploader{err: errors.New("bucket unreachable")}
	f := newSaleFixture(t, uploader, atNoon)
	ctx := context.Background()

	// A failed upload means "no photo", never "no sale".
	sale, err := f.sales.CreateSale(ctx, f.userID, "Widget", "10.00", "/tmp/receipt.jpg")
	require.NoError(t, err)
	require.Equal(t, 1, uploader.calls)
	require.Empty(t, sale.PhotoPath)

	list, err := f.saleRepo.ListByUser(ctx, f.userID)
	require.NoError(t, err)
	require.Len(t, list, 1)
}

func TestListSalesNewestFirstRoundTrip(t *testing.T) {
	f := newSaleFixture(t, nil, atNoon)
	ctx := context.Background()

	first, err := f.sales.CreateSale(ctx, f.userID, "Widget", "10.00", "")
	require.NoError(t, err)
	second, err := f.sales.CreateSale(ctx, f.userID, "Gadget", "19.999", "")
	require.NoError(t, err)

	list, err := f.sales.ListSales(ctx, f.userID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	require.Equal(t, second.ID, list[0].ID)
	require.Equal(t, first.ID, list[1].ID)

	// Stored fields reproduce exactly what creation returned.
	require.Equal(t, second.AmountCents, list[0].AmountCents)
	require.Equal(t, second.CommissionCents, list[0].CommissionCents)
	require.Equal(t, second.PhotoPath, list[0].PhotoPath)
	require.WithinDuration(t, second.Timestamp, list[0].Timestamp, time.Second)
}
