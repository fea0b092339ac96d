package services

import (
	"context"
	"errors"
	"fmt"
	"time"

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

// referenceRetryLimit bounds the regenerate-and-retry loop on reference
// number collisions.
const referenceRetryLimit = 3

// invoiceCacheTTL keeps cached invoices short-lived; every write path
// invalidates explicitly anyway.
const invoiceCacheTTL = 5 * time.Minute

var maxTaxRate = decimal.NewFromInt(100)

// WriteOptions tunes a single write. SkipValidation bypasses identity
// reference validation only; derived-field recomputation always runs.
type WriteOptions struct {
	SkipValidation bool
}

type InvoiceService interface {
	Create(ctx context.Context, invoice *models.Invoice, items []*models.InvoiceItem, opts WriteOptions) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Invoice, []*models.InvoiceItem, error)
	List(ctx context.Context, filter repositories.InvoiceFilter) ([]*models.Invoice, error)
	Update(ctx context.Context, invoice *models.Invoice, opts WriteOptions) error
	Delete(ctx context.Context, id uuid.UUID) error
	MarkOverdue(ctx context.Context, asOf time.Time) (int64, error)
}

type invoiceService struct {
	repo      repositories.InvoiceRepository
	validator authclient.ReferenceValidator
	cache     caching.CacheService
}

func NewInvoiceService(repo repositories.InvoiceRepository, validator authclient.ReferenceValidator, cache caching.CacheService) InvoiceService {
	if validator == nil {
		validator = authclient.Default()
	}
	return &invoiceService{repo: repo, validator: validator, cache: cache}
}

// validate checks field bounds and identity references, refreshing the
// client display snapshot when the auth service returned one. client_id
// and created_by are validated independently so a response can report
// both failures at once.
func (s *invoiceService) validate(ctx context.Context, invoice *models.Invoice, items []*models.InvoiceItem) error {
	fieldErrs := common.FieldErrors{}

	if invoice.Subtotal.IsNegative() {
		fieldErrs.Add("subtotal", "must not be negative")
	}
	if invoice.TaxRate.IsNegative() || invoice.TaxRate.GreaterThan(maxTaxRate) {
		fieldErrs.Add("tax_rate", "must be between 0 and 100")
	}
	if !invoice.Status.Valid() {
		fieldErrs.Add("status", "unknown status")
	}
	if invoice.DueDate.Before(invoice.IssueDate) {
		fieldErrs.Add("due_date", "must not be before issue date")
	}
	for i, item := range items {
		if !item.Quantity.GreaterThan(decimal.Zero) {
			fieldErrs.Add(fmt.Sprintf("items[%d].quantity", i), "must be greater than zero")
		}
		if item.UnitPrice.IsNegative() {
			fieldErrs.Add(fmt.Sprintf("items[%d].unit_price", i), "must not be negative")
		}
	}

	client, err := s.validator.ValidateClient(ctx, invoice.ClientID)
	if err != nil {
		if errors.Is(err, authclient.ErrUpstreamUnavailable) {
			return err
		}
		fieldErrs.Add("client_id", err.Error())
	} else if client != nil {
		invoice.ClientName = client.Name
		invoice.ClientEmail = client.Email
	}

	if _, err := s.validator.ValidateUser(ctx, invoice.CreatedBy); err != nil {
		if errors.Is(err, authclient.ErrUpstreamUnavailable) {
			return err
		}
		fieldErrs.Add("created_by", err.Error())
	}

	return fieldErrs.OrNil()
}

func (s *invoiceService) Create(ctx context.Context, invoice *models.Invoice, items []*models.InvoiceItem, opts WriteOptions) error {
	if invoice.ID == uuid.Nil {
		invoice.ID = uuid.New()
	}
	if invoice.Status == "" {
		invoice.Status = models.InvoiceStatusDraft
	}

	if !opts.SkipValidation {
		if err := s.validate(ctx, invoice, items); err != nil {
			return err
		}
	}

	invoice.ComputeTotals()
	invoice.AmountPaid = decimal.Zero

	for _, item := range items {
		if item.ID == uuid.Nil {
			item.ID = uuid.New()
		}
		item.InvoiceID = invoice.ID
		item.ComputeTotal()
	}

	generated := invoice.InvoiceNumber == ""
	if generated {
		invoice.InvoiceNumber = refnum.Invoice(time.Now())
	}

	var err error
	for attempt := 0; attempt < referenceRetryLimit; attempt++ {
		err = s.repo.Create(ctx, invoice, items)
		if err == nil {
			s.invalidateStats(ctx)
			return nil
		}
		// Retry only collisions on numbers we generated ourselves;
		// caller-supplied duplicates are the caller's problem.
		if !errors.Is(err, repositories.ErrDuplicateReference) || !generated {
			return err
		}
		invoice.InvoiceNumber = refnum.Invoice(time.Now())
	}
	return err
}

func (s *invoiceService) GetByID(ctx context.Context, id uuid.UUID) (*models.Invoice, []*models.InvoiceItem, error) {
	if s.cache != nil {
		if cached, err := s.cache.GetInvoice(ctx, id); err != nil {
			log.Warn().Err(err).Msg("invoice cache read failed")
		} else if cached != nil {
			items, err := s.repo.ListItems(ctx, id)
			if err != nil {
				return nil, nil, err
			}
			return cached, items, nil
		}
	}

	invoice, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	items, err := s.repo.ListItems(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	if s.cache != nil {
		if err := s.cache.SetInvoice(ctx, invoice, invoiceCacheTTL); err != nil {
			log.Warn().Err(err).Msg("invoice cache write failed")
		}
	}
	return invoice, items, nil
}

func (s *invoiceService) List(ctx context.Context, filter repositories.InvoiceFilter) ([]*models.Invoice, error) {
	if filter.Limit <= 0 {
		filter.Limit = 50
	}
	return s.repo.List(ctx, filter)
}

// Update applies a full row rewrite of the caller-editable fields.
// amount_paid is owned by the payment ledger and the invoice_number is
// never regenerated once assigned.
func (s *invoiceService) Update(ctx context.Context, invoice *models.Invoice, opts WriteOptions) error {
	if invoice.InvoiceNumber == "" {
		return fmt.Errorf("invoice %s has no number assigned", invoice.ID)
	}

	if !opts.SkipValidation {
		if err := s.validate(ctx, invoice, nil); err != nil {
			return err
		}
	}

	invoice.ComputeTotals()

	if err := s.repo.Update(ctx, invoice); err != nil {
		return err
	}
	s.invalidateInvoice(ctx, invoice.ID)
	return nil
}

func (s *invoiceService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidateInvoice(ctx, id)
	return nil
}

func (s *invoiceService) MarkOverdue(ctx context.Context, asOf time.Time) (int64, error) {
	count, err := s.repo.MarkOverdue(ctx, asOf)
	if err != nil {
		return 0, err
	}
	if count > 0 {
		log.Info().Int64("count", count).Msg("invoices marked overdue")
		s.invalidateStats(ctx)
	}
	return count, nil
}

func (s *invoiceService) invalidateInvoice(ctx context.Context, id uuid.UUID) {
	if s.cache == nil {
		return
	}
	if err := s.cache.DeleteInvoice(ctx, id); err != nil {
		log.Warn().Err(err).Msg("invoice cache invalidation failed")
	}
	s.invalidateStats(ctx)
}

func (s *invoiceService) invalidateStats(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.DeleteStats(ctx); err != nil {
		log.Warn().Err(err).Msg("stats cache invalidation failed")
	}
}
