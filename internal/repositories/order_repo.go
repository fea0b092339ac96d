package repositories

import (
	"context"
	"errors"
	"fmt"

	"servicehub/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const orderColumns = `id, order_number, client_id, client_name, quote_id, description, amount,
		order_status, payment_status, valid_until, created_by, assigned_to, created_at, updated_at`

type OrderRepository interface {
	Create(ctx context.Context, order *models.ServiceOrder) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.ServiceOrder, error)
	List(ctx context.Context, status string, limit, offset int) ([]*models.ServiceOrder, error)
	Update(ctx context.Context, order *models.ServiceOrder) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type orderRepo struct {
	db DB
}

func NewOrderRepo(db DB) OrderRepository {
	return &orderRepo{db: db}
}

func (r *orderRepo) Create(ctx context.Context, order *models.ServiceOrder) error {
	query := `
		INSERT INTO service_orders (id, order_number, client_id, client_name, quote_id, description,
			amount, order_status, payment_status, valid_until, created_by, assigned_to, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, NOW(), NOW())
	`
	_, err := r.db.Exec(ctx, query,
		order.ID, order.OrderNumber, order.ClientID, order.ClientName, order.QuoteID,
		order.Description, order.Amount, order.OrderStatus, order.PaymentStatus,
		order.ValidUntil, order.CreatedBy, order.AssignedTo,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateReference
		}
		return fmt.Errorf("insert order: %w", err)
	}
	return nil
}

func (r *orderRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.ServiceOrder, error) {
	query := `SELECT ` + orderColumns + ` FROM service_orders WHERE id = $1`
	order, err := scanOrder(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return order, nil
}

func (r *orderRepo) List(ctx context.Context, status string, limit, offset int) ([]*models.ServiceOrder, error) {
	query := `SELECT ` + orderColumns + ` FROM service_orders`
	args := []any{}
	arg := 1
	if status != "" {
		query += fmt.Sprintf(" WHERE order_status = $%d", arg)
		args = append(args, status)
		arg++
	}
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", arg, arg+1)
	args = append(args, limit, offset)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []*models.ServiceOrder
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, order)
	}
	return orders, rows.Err()
}

func (r *orderRepo) Update(ctx context.Context, order *models.ServiceOrder) error {
	query := `
		UPDATE service_orders
		SET client_id = $1, client_name = $2, quote_id = $3, description = $4, amount = $5,
			order_status = $6, payment_status = $7, valid_until = $8, assigned_to = $9, updated_at = NOW()
		WHERE id = $10
	`
	tag, err := r.db.Exec(ctx, query,
		order.ClientID, order.ClientName, order.QuoteID, order.Description, order.Amount,
		order.OrderStatus, order.PaymentStatus, order.ValidUntil, order.AssignedTo, order.ID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *orderRepo) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM service_orders WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanOrder(row pgx.Row) (*models.ServiceOrder, error) {
	order := &models.ServiceOrder{}
	err := row.Scan(
		&order.ID, &order.OrderNumber, &order.ClientID, &order.ClientName, &order.QuoteID,
		&order.Description, &order.Amount, &order.OrderStatus, &order.PaymentStatus,
		&order.ValidUntil, &order.CreatedBy, &order.AssignedTo, &order.CreatedAt, &order.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return order, nil
}
