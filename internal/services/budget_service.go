package services

import (
	"context"
	"errors"

	"servicehub/internal/common"
	"servicehub/internal/models"
	"servicehub/internal/refnum"
	"servicehub/internal/repositories"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type BudgetService interface {
	Create(ctx context.Context, budget *models.Budget) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Budget, error)
	List(ctx context.Context, projectID, status string, limit, offset int) ([]*models.Budget, error)
	Update(ctx context.Context, budget *models.Budget) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type budgetService struct {
	repo repositories.BudgetRepository
}

func NewBudgetService(repo repositories.BudgetRepository) BudgetService {
	return &budgetService{repo: repo}
}

func (s *budgetService) validate(budget *models.Budget) error {
	fieldErrs := common.FieldErrors{}
	if budget.ProjectID == "" {
		fieldErrs.Add("project_id", "is required")
	}
	if !budget.Amount.GreaterThan(decimal.Zero) {
		fieldErrs.Add("amount", "must be greater than zero")
	}
	if !budget.PaymentMethod.Valid() {
		fieldErrs.Add("payment_method", "unknown payment method")
	}
	if !budget.Status.Valid() {
		fieldErrs.Add("status", "unknown status")
	}
	return fieldErrs.OrNil()
}

func (s *budgetService) Create(ctx context.Context, budget *models.Budget) error {
	if budget.ID == uuid.Nil {
		budget.ID = uuid.New()
	}
	if budget.Status == "" {
		budget.Status = models.BudgetStatusDraft
	}

	if err := s.validate(budget); err != nil {
		return err
	}

	budget.Amount = budget.Amount.Round(2)

	generated := budget.InvoiceRef == ""
	if generated {
		budget.InvoiceRef = refnum.Budget()
	}

	var err error
	for attempt := 0; attempt < referenceRetryLimit; attempt++ {
		err = s.repo.Create(ctx, budget)
		if err == nil {
			return nil
		}
		if !errors.Is(err, repositories.ErrDuplicateReference) || !generated {
			return err
		}
		budget.InvoiceRef = refnum.Budget()
	}
	return err
}

func (s *budgetService) GetByID(ctx context.Context, id uuid.UUID) (*models.Budget, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *budgetService) List(ctx context.Context, projectID, status string, limit, offset int) ([]*models.Budget, error) {
	if limit <= 0 {
		limit = 50
	}
	return s.repo.List(ctx, projectID, status, limit, offset)
}

func (s *budgetService) Update(ctx context.Context, budget *models.Budget) error {
	if err := s.validate(budget); err != nil {
		return err
	}
	budget.Amount = budget.Amount.Round(2)
	return s.repo.Update(ctx, budget)
}

func (s *budgetService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}
