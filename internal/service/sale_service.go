package service

import (
	"context"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"sales-tracker/internal/domain"
	"sales-tracker/internal/repository"
	"sales-tracker/internal/storage"
)

// commissionRate is the fixed commission applied to every sale.
const commissionRate = 0.02

// Sales may only be submitted while the UTC hour is in [businessOpenHour,
// businessCloseHour).
const (
	businessOpenHour  = 7
	businessCloseHour = 21
)

// SaleService owns the sale ledger: the business-hour gate, the money
// derivations, and the best-effort receipt upload. Records are append-only.
type SaleService interface {
	CreateSale(ctx context.Context, userID int64, itemDescription, amount, receiptPath string) (*domain.Sale, error)
	ListSales(ctx context.Context, userID int64) ([]domain.Sale, error)
}

type saleService struct {
	sales      repository.SaleRepository
	storage    storage.Service
	uploadOpts storage.UploadOptions
	logger     *logrus.Logger
	now        func() time.Time
}

// NewSaleService builds a SaleService. store may be nil, in which case sales
// are recorded without photos. nowFn overrides the wall clock and may be nil.
func NewSaleService(sales repository.SaleRepository, store storage.Service, uploadOpts storage.UploadOptions, logger *logrus.Logger, nowFn func() time.Time) SaleService {
	if nowFn == nil {
		nowFn = time.Now
	}
	return &saleService{
		sales:      sales,
		storage:    store,
		uploadOpts: uploadOpts,
		logger:     logger,
		now:        nowFn,
	}
}

// CreateSale validates the submission, enforces the business-hour gate,
// derives the cent amounts, and appends the record. The receipt upload is
// attempted before the ledger write and its failure downgrades to "no photo";
// the ledger row is the source of truth, so nothing needs rolling back.
func (s *saleService) CreateSale(ctx context.Context, userID int64, itemDescription, amount, receiptPath string) (*domain.Sale, error) {
	if itemDescription == "" || amount == "" {
		return nil, newValidationError("Item description and amount are required")
	}

	itemDescription = strings.TrimSpace(itemDescription)
	if itemDescription == "" {
		return nil, newValidationError("Item description cannot be empty")
	}

	amountNum, err := strconv.ParseFloat(strings.TrimSpace(amount), 64)
	if err != nil || math.IsNaN(amountNum) || math.IsInf(amountNum, 0) || amountNum <= 0 {
		return nil, newValidationError("Amount must be a positive number")
	}

	now := s.now().UTC()
	if hour := now.Hour(); hour < businessOpenHour || hour >= businessCloseHour {
		return nil, ErrOutsideBusinessHours
	}

	// Money stays in integer cents from here on. math.Round rounds half away
	// from zero, which keeps the derivation deterministic.
	amountCents := int64(math.Round(amountNum * 100))
	commissionCents := int64(math.Round(float64(amountCents) * commissionRate))

	photoPath := ""
	if receiptPath != "" && s.storage != nil {
		url, err := s.storage.UploadFile(ctx, receiptPath, s.uploadOpts)
		if err != nil {
			s.logger.Warnf("receipt upload failed, recording sale without photo: %v", err)
		} else {
			photoPath = url
		}
	}

	sale := &domain.Sale{
		UserID:          userID,
		ItemDescription: itemDescription,
		AmountCents:     amountCents,
		CommissionCents: commissionCents,
		Timestamp:       now,
		PhotoPath:       photoPath,
	}
	if _, err := s.sales.Create(ctx, sale); err != nil {
		return nil, err
	}
	return sale, nil
}

func (s *saleService) ListSales(ctx context.Context, userID int64) ([]domain.Sale, error) {
	return s.sales.ListByUser(ctx, userID)
}
