package services

import (
	"context"
	"errors"

	"servicehub/internal/authclient"
	"servicehub/internal/common"
	"servicehub/internal/models"
	"servicehub/internal/repositories"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type ExpenseService interface {
	Create(ctx context.Context, expense *models.Expense, opts WriteOptions) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Expense, error)
	List(ctx context.Context, userID, status string, limit, offset int) ([]*models.Expense, error)
	Update(ctx context.Context, expense *models.Expense, opts WriteOptions) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type expenseService struct {
	repo      repositories.ExpenseRepository
	validator authclient.ReferenceValidator
}

func NewExpenseService(repo repositories.ExpenseRepository, validator authclient.ReferenceValidator) ExpenseService {
	if validator == nil {
		validator = authclient.Default()
	}
	return &expenseService{repo: repo, validator: validator}
}

func (s *expenseService) validate(ctx context.Context, expense *models.Expense) error {
	fieldErrs := common.FieldErrors{}
	if !expense.Amount.GreaterThan(decimal.Zero) {
		fieldErrs.Add("amount", "must be greater than zero")
	}
	if !expense.Category.Valid() {
		fieldErrs.Add("category", "unknown category")
	}
	if !expense.Status.Valid() {
		fieldErrs.Add("status", "unknown status")
	}

	if _, err := s.validator.ValidateUser(ctx, expense.UserID); err != nil {
		if errors.Is(err, authclient.ErrUpstreamUnavailable) {
			return err
		}
		fieldErrs.Add("user_id", err.Error())
	}

	return fieldErrs.OrNil()
}

func (s *expenseService) Create(ctx context.Context, expense *models.Expense, opts WriteOptions) error {
	if expense.ID == uuid.Nil {
		expense.ID = uuid.New()
	}
	if expense.Status == "" {
		expense.Status = models.ExpenseStatusPending
	}

	if !opts.SkipValidation {
		if err := s.validate(ctx, expense); err != nil {
			return err
		}
	}

	expense.Amount = expense.Amount.Round(2)
	return s.repo.Create(ctx, expense)
}

func (s *expenseService) GetByID(ctx context.Context, id uuid.UUID) (*models.Expense, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *expenseService) List(ctx context.Context, userID, status string, limit, offset int) ([]*models.Expense, error) {
	if limit <= 0 {
		limit = 50
	}
	return s.repo.List(ctx, userID, status, limit, offset)
}

func (s *expenseService) Update(ctx context.Context, expense *models.Expense, opts WriteOptions) error {
	if !opts.SkipValidation {
		if err := s.validate(ctx, expense); err != nil {
			return err
		}
	}
	expense.Amount = expense.Amount.Round(2)
	return s.repo.Update(ctx, expense)
}

func (s *expenseService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}
