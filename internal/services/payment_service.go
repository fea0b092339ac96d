package services

import (
	"context"
	"errors"
	"fmt"

	"servicehub/internal/authclient"
	"servicehub/internal/caching"
	"servicehub/internal/common"
	"servicehub/internal/models"
	"servicehub/internal/refnum"
	"servicehub/internal/repositories"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

type PaymentService interface {
	// Post records a payment against an invoice and returns the invoice
	// as reconciled inside the posting transaction.
	Post(ctx context.Context, payment *models.Payment, opts WriteOptions) (*models.Invoice, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Payment, error)
	List(ctx context.Context, invoiceID *uuid.UUID) ([]*models.Payment, error)
	// Delete removes a payment and re-reconciles the invoice from the
	// remaining ledger.
	Delete(ctx context.Context, id uuid.UUID) (*models.Invoice, error)
}

type paymentService struct {
	repo      repositories.PaymentRepository
	validator authclient.ReferenceValidator
	cache     caching.CacheService
}

func NewPaymentService(repo repositories.PaymentRepository, validator authclient.ReferenceValidator, cache caching.CacheService) PaymentService {
	if validator == nil {
		validator = authclient.Default()
	}
	return &paymentService{repo: repo, validator: validator, cache: cache}
}

func (s *paymentService) validate(ctx context.Context, payment *models.Payment) error {
	fieldErrs := common.FieldErrors{}
	if payment.InvoiceID == uuid.Nil {
		fieldErrs.Add("invoice_id", "is required")
	}
	if !payment.Amount.GreaterThan(decimal.Zero) {
		fieldErrs.Add("amount", "must be greater than zero")
	}
	if !payment.PaymentMethod.Valid() {
		fieldErrs.Add("payment_method", "unknown payment method")
	}

	if _, err := s.validator.ValidateUser(ctx, payment.CreatedBy); err != nil {
		if errors.Is(err, authclient.ErrUpstreamUnavailable) {
			return err
		}
		fieldErrs.Add("created_by", err.Error())
	}

	return fieldErrs.OrNil()
}

func (s *paymentService) Post(ctx context.Context, payment *models.Payment, opts WriteOptions) (*models.Invoice, error) {
	if !opts.SkipValidation {
		if err := s.validate(ctx, payment); err != nil {
			return nil, err
		}
	}
	if payment.ID == uuid.Nil {
		payment.ID = uuid.New()
	}

	generated := payment.PaymentReference == ""
	if generated {
		payment.PaymentReference = refnum.Payment()
	}

	var (
		invoice *models.Invoice
		err     error
	)
	for attempt := 0; attempt < referenceRetryLimit; attempt++ {
		invoice, err = s.repo.PostPayment(ctx, payment)
		if err == nil {
			s.invalidate(ctx, payment.InvoiceID)
			return invoice, nil
		}
		if errors.Is(err, repositories.ErrDuplicateReference) && generated {
			payment.PaymentReference = refnum.Payment()
			continue
		}
		if errors.Is(err, repositories.ErrNotFound) || errors.Is(err, repositories.ErrDuplicateReference) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrPaymentPostingFailed, err)
	}
	return nil, err
}

func (s *paymentService) GetByID(ctx context.Context, id uuid.UUID) (*models.Payment, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *paymentService) List(ctx context.Context, invoiceID *uuid.UUID) ([]*models.Payment, error) {
	return s.repo.List(ctx, invoiceID)
}

func (s *paymentService) Delete(ctx context.Context, id uuid.UUID) (*models.Invoice, error) {
	invoice, err := s.repo.Delete(ctx, id)
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx, invoice.ID)
	return invoice, nil
}

func (s *paymentService) invalidate(ctx context.Context, invoiceID uuid.UUID) {
	if s.cache == nil {
		return
	}
	if err := s.cache.DeleteInvoice(ctx, invoiceID); err != nil {
		log.Warn().Err(err).Msg("invoice cache invalidation failed")
	}
	if err := s.cache.DeleteStats(ctx); err != nil {
		log.Warn().Err(err).Msg("stats cache invalidation failed")
	}
}
