package repositories

import (
	"context"
	"errors"
	"fmt"

	"servicehub/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const budgetColumns = `id, invoice_ref, project_id, budget_date, amount, payment_method, status, created_at, updated_at`

type BudgetRepository interface {
	Create(ctx context.Context, budget *models.Budget) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Budget, error)
	List(ctx context.Context, projectID, status string, limit, offset int) ([]*models.Budget, error)
	Update(ctx context.Context, budget *models.Budget) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type budgetRepo struct {
	db DB
}

func NewBudgetRepo(db DB) BudgetRepository {
	return &budgetRepo{db: db}
}

func (r *budgetRepo) Create(ctx context.Context, budget *models.Budget) error {
	query := `
		INSERT INTO budgets (id, invoice_ref, project_id, budget_date, amount, payment_method, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW())
	`
	_, err := r.db.Exec(ctx, query,
		budget.ID, budget.InvoiceRef, budget.ProjectID, budget.BudgetDate,
		budget.Amount, budget.PaymentMethod, budget.Status,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateReference
		}
		return fmt.Errorf("insert budget: %w", err)
	}
	return nil
}

func (r *budgetRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Budget, error) {
	query := `SELECT ` + budgetColumns + ` FROM budgets WHERE id = $1`
	budget, err := scanBudget(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return budget, nil
}

func (r *budgetRepo) List(ctx context.Context, projectID, status string, limit, offset int) ([]*models.Budget, error) {
	query := `SELECT ` + budgetColumns + ` FROM budgets WHERE 1=1`
	args := []any{}
	arg := 1
	if projectID != "" {
		query += fmt.Sprintf(" AND project_id = $%d", arg)
		args = append(args, projectID)
		arg++
	}
	if status != "" {
		query += fmt.Sprintf(" AND status = $%d", arg)
		args = append(args, status)
		arg++
	}
	query += fmt.Sprintf(" ORDER BY budget_date DESC LIMIT $%d OFFSET $%d", arg, arg+1)
	args = append(args, limit, offset)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var budgets []*models.Budget
	for rows.Next() {
		budget, err := scanBudget(rows)
		if err != nil {
			return nil, err
		}
		budgets = append(budgets, budget)
	}
	return budgets, rows.Err()
}

func (r *budgetRepo) Update(ctx context.Context, budget *models.Budget) error {
	query := `
		UPDATE budgets
		SET project_id = $1, budget_date = $2, amount = $3, payment_method = $4, status = $5, updated_at = NOW()
		WHERE id = $6
	`
	tag, err := r.db.Exec(ctx, query,
		budget.ProjectID, budget.BudgetDate, budget.Amount, budget.PaymentMethod,
		budget.Status, budget.ID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *budgetRepo) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM budgets WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanBudget(row pgx.Row) (*models.Budget, error) {
	budget := &models.Budget{}
	err := row.Scan(
		&budget.ID, &budget.InvoiceRef, &budget.ProjectID, &budget.BudgetDate,
		&budget.Amount, &budget.PaymentMethod, &budget.Status,
		&budget.CreatedAt, &budget.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return budget, nil
}
