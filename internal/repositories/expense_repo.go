package repositories

import (
	"context"
	"errors"
	"fmt"

	"servicehub/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const expenseColumns = `id, user_id, date, description, amount, category, status, created_at, updated_at`

type ExpenseRepository interface {
	Create(ctx context.Context, expense *models.Expense) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Expense, error)
	List(ctx context.Context, userID, status string, limit, offset int) ([]*models.Expense, error)
	Update(ctx context.Context, expense *models.Expense) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type expenseRepo struct {
	db DB
}

func NewExpenseRepo(db DB) ExpenseRepository {
	return &expenseRepo{db: db}
}

func (r *expenseRepo) Create(ctx context.Context, expense *models.Expense) error {
	query := `
		INSERT INTO expenses (id, user_id, date, description, amount, category, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW())
	`
	_, err := r.db.Exec(ctx, query,
		expense.ID, expense.UserID, expense.Date, expense.Description,
		expense.Amount, expense.Category, expense.Status,
	)
	if err != nil {
		return fmt.Errorf("insert expense: %w", err)
	}
	return nil
}

func (r *expenseRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Expense, error) {
	query := `SELECT ` + expenseColumns + ` FROM expenses WHERE id = $1`
	expense, err := scanExpense(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return expense, nil
}

func (r *expenseRepo) List(ctx context.Context, userID, status string, limit, offset int) ([]*models.Expense, error) {
	query := `SELECT ` + expenseColumns + ` FROM expenses WHERE 1=1`
	args := []any{}
	arg := 1
	if userID != "" {
		query += fmt.Sprintf(" AND user_id = $%d", arg)
		args = append(args, userID)
		arg++
	}
	if status != "" {
		query += fmt.Sprintf(" AND status = $%d", arg)
		args = append(args, status)
		arg++
	}
	query += fmt.Sprintf(" ORDER BY date DESC LIMIT $%d OFFSET $%d", arg, arg+1)
	args = append(args, limit, offset)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var expenses []*models.Expense
	for rows.Next() {
		expense, err := scanExpense(rows)
		if err != nil {
			return nil, err
		}
		expenses = append(expenses, expense)
	}
	return expenses, rows.Err()
}

func (r *expenseRepo) Update(ctx context.Context, expense *models.Expense) error {
	query := `
		UPDATE expenses
		SET date = $1, description = $2, amount = $3, category = $4, status = $5, updated_at = NOW()
		WHERE id = $6
	`
	tag, err := r.db.Exec(ctx, query,
		expense.Date, expense.Description, expense.Amount, expense.Category,
		expense.Status, expense.ID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *expenseRepo) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM expenses WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanExpense(row pgx.Row) (*models.Expense, error) {
	expense := &models.Expense{}
	err := row.Scan(
		&expense.ID, &expense.UserID, &expense.Date, &expense.Description,
		&expense.Amount, &expense.Category, &expense.Status,
		&expense.CreatedAt, &expense.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return expense, nil
}
