package services

import (
	"context"
	"errors"

	"servicehub/internal/authclient"
	"servicehub/internal/common"
	"servicehub/internal/models"
	"servicehub/internal/refnum"
	"servicehub/internal/repositories"

	"github.com/google/uuid"
)

type QuoteService interface {
	Create(ctx context.Context, quote *models.Quote, opts WriteOptions) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Quote, error)
	List(ctx context.Context, status string, limit, offset int) ([]*models.Quote, error)
	Update(ctx context.Context, quote *models.Quote, opts WriteOptions) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type quoteService struct {
	repo      repositories.QuoteRepository
	validator authclient.ReferenceValidator
}

func NewQuoteService(repo repositories.QuoteRepository, validator authclient.ReferenceValidator) QuoteService {
	if validator == nil {
		validator = authclient.Default()
	}
	return &quoteService{repo: repo, validator: validator}
}

func (s *quoteService) validate(ctx context.Context, quote *models.Quote) error {
	fieldErrs := common.FieldErrors{}
	if quote.Amount.IsNegative() {
		fieldErrs.Add("amount", "must not be negative")
	}
	if !quote.Status.Valid() {
		fieldErrs.Add("status", "unknown status")
	}

	client, err := s.validator.ValidateClient(ctx, quote.ClientID)
	if err != nil {
		if errors.Is(err, authclient.ErrUpstreamUnavailable) {
			return err
		}
		fieldErrs.Add("client_id", err.Error())
	} else if client != nil {
		quote.ClientName = client.Name
	}

	if _, err := s.validator.ValidateUser(ctx, quote.CreatedBy); err != nil {
		if errors.Is(err, authclient.ErrUpstreamUnavailable) {
			return err
		}
		fieldErrs.Add("created_by", err.Error())
	}

	return fieldErrs.OrNil()
}

func (s *quoteService) Create(ctx context.Context, quote *models.Quote, opts WriteOptions) error {
	if quote.ID == uuid.Nil {
		quote.ID = uuid.New()
	}
	if quote.Status == "" {
		quote.Status = models.QuoteStatusDraft
	}

	if !opts.SkipValidation {
		if err := s.validate(ctx, quote); err != nil {
			return err
		}
	}

	quote.Amount = quote.Amount.Round(2)

	generated := quote.QuoteNumber == ""
	if generated {
		quote.QuoteNumber = refnum.Quote()
	}

	var err error
	for attempt := 0; attempt < referenceRetryLimit; attempt++ {
		err = s.repo.Create(ctx, quote)
		if err == nil {
			return nil
		}
		if !errors.Is(err, repositories.ErrDuplicateReference) || !generated {
			return err
		}
		quote.QuoteNumber = refnum.Quote()
	}
	return err
}

func (s *quoteService) GetByID(ctx context.Context, id uuid.UUID) (*models.Quote, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *quoteService) List(ctx context.Context, status string, limit, offset int) ([]*models.Quote, error) {
	if limit <= 0 {
		limit = 50
	}
	return s.repo.List(ctx, status, limit, offset)
}

func (s *quoteService) Update(ctx context.Context, quote *models.Quote, opts WriteOptions) error {
	if !opts.SkipValidation {
		if err := s.validate(ctx, quote); err != nil {
			return err
		}
	}
	quote.Amount = quote.Amount.Round(2)
	return s.repo.Update(ctx, quote)
}

func (s *quoteService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}
