package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"servicehub/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const invoiceColumns = `id, invoice_number, client_id, client_name, client_email, order_id, quote_id,
		issue_date, due_date, subtotal, tax_rate, tax_amount, total_amount, amount_paid,
		status, notes, created_by, created_at, updated_at`

// InvoiceFilter narrows invoice listings.
type InvoiceFilter struct {
	Status   string
	ClientID string
	Search   string
	Limit    int
	Offset   int
}

type InvoiceRepository interface {
	// Create persists an invoice and its items in a single transaction.
	Create(ctx context.Context, invoice *models.Invoice, items []*models.InvoiceItem) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Invoice, error)
	ListItems(ctx context.Context, invoiceID uuid.UUID) ([]*models.InvoiceItem, error)
	List(ctx context.Context, filter InvoiceFilter) ([]*models.Invoice, error)
	// Update writes every caller-mutable field. amount_paid is owned by
	// the payment ledger writer and is never touched here.
	Update(ctx context.Context, invoice *models.Invoice) error
	Delete(ctx context.Context, id uuid.UUID) error
	// MarkOverdue flips payable invoices past their due date to overdue
	// and returns how many were updated.
	MarkOverdue(ctx context.Context, asOf time.Time) (int64, error)
}

type invoiceRepo struct {
	db DB
}

func NewInvoiceRepo(db DB) InvoiceRepository {
	return &invoiceRepo{db: db}
}

func scanInvoice(row pgx.Row) (*models.Invoice, error) {
	invoice := &models.Invoice{}
	err := row.Scan(
		&invoice.ID, &invoice.InvoiceNumber, &invoice.ClientID, &invoice.ClientName,
		&invoice.ClientEmail, &invoice.OrderID, &invoice.QuoteID, &invoice.IssueDate,
		&invoice.DueDate, &invoice.Subtotal, &invoice.TaxRate, &invoice.TaxAmount,
		&invoice.TotalAmount, &invoice.AmountPaid, &invoice.Status, &invoice.Notes,
		&invoice.CreatedBy, &invoice.CreatedAt, &invoice.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return invoice, nil
}

func (r *invoiceRepo) Create(ctx context.Context, invoice *models.Invoice, items []*models.InvoiceItem) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}

	query := `
		INSERT INTO invoices (id, invoice_number, client_id, client_name, client_email, order_id, quote_id,
			issue_date, due_date, subtotal, tax_rate, tax_amount, total_amount, amount_paid,
			status, notes, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, NOW(), NOW())
	`
	_, err = tx.Exec(ctx, query,
		invoice.ID, invoice.InvoiceNumber, invoice.ClientID, invoice.ClientName,
		invoice.ClientEmail, invoice.OrderID, invoice.QuoteID, invoice.IssueDate,
		invoice.DueDate, invoice.Subtotal, invoice.TaxRate, invoice.TaxAmount,
		invoice.TotalAmount, invoice.AmountPaid, invoice.Status, invoice.Notes,
		invoice.CreatedBy,
	)
	if err != nil {
		_ = tx.Rollback(ctx)
		if isUniqueViolation(err) {
			return ErrDuplicateReference
		}
		return fmt.Errorf("insert invoice: %w", err)
	}

	itemQuery := `
		INSERT INTO invoice_items (id, invoice_id, description, quantity, unit_price, total, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
	`
	for _, item := range items {
		if _, err := tx.Exec(ctx, itemQuery,
			item.ID, item.InvoiceID, item.Description, item.Quantity, item.UnitPrice, item.Total,
		); err != nil {
			_ = tx.Rollback(ctx)
			return fmt.Errorf("insert invoice item: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func (r *invoiceRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE id = $1`
	invoice, err := scanInvoice(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return invoice, nil
}

func (r *invoiceRepo) ListItems(ctx context.Context, invoiceID uuid.UUID) ([]*models.InvoiceItem, error) {
	query := `
		SELECT id, invoice_id, description, quantity, unit_price, total, created_at, updated_at
		FROM invoice_items
		WHERE invoice_id = $1
		ORDER BY created_at
	`
	rows, err := r.db.Query(ctx, query, invoiceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*models.InvoiceItem
	for rows.Next() {
		item := &models.InvoiceItem{}
		if err := rows.Scan(&item.ID, &item.InvoiceID, &item.Description,
			&item.Quantity, &item.UnitPrice, &item.Total,
			&item.CreatedAt, &item.UpdatedAt); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func (r *invoiceRepo) List(ctx context.Context, filter InvoiceFilter) ([]*models.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE 1=1`
	args := []any{}
	arg := 1

	if filter.Status != "" {
		query += fmt.Sprintf(" AND status = $%d", arg)
		args = append(args, filter.Status)
		arg++
	}
	if filter.ClientID != "" {
		query += fmt.Sprintf(" AND client_id = $%d", arg)
		args = append(args, filter.ClientID)
		arg++
	}
	if filter.Search != "" {
		query += fmt.Sprintf(" AND (invoice_number ILIKE $%d OR client_name ILIKE $%d)", arg, arg)
		args = append(args, "%"+filter.Search+"%")
		arg++
	}

	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", arg, arg+1)
	args = append(args, filter.Limit, filter.Offset)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var invoices []*models.Invoice
	for rows.Next() {
		invoice, err := scanInvoice(rows)
		if err != nil {
			return nil, err
		}
		invoices = append(invoices, invoice)
	}
	return invoices, rows.Err()
}

func (r *invoiceRepo) Update(ctx context.Context, invoice *models.Invoice) error {
	query := `
		UPDATE invoices
		SET client_id = $1, client_name = $2, client_email = $3, order_id = $4, quote_id = $5,
			issue_date = $6, due_date = $7, subtotal = $8, tax_rate = $9, tax_amount = $10,
			total_amount = $11, status = $12, notes = $13, updated_at = NOW()
		WHERE id = $14
	`
	tag, err := r.db.Exec(ctx, query,
		invoice.ClientID, invoice.ClientName, invoice.ClientEmail, invoice.OrderID,
		invoice.QuoteID, invoice.IssueDate, invoice.DueDate, invoice.Subtotal,
		invoice.TaxRate, invoice.TaxAmount, invoice.TotalAmount, invoice.Status,
		invoice.Notes, invoice.ID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *invoiceRepo) Delete(ctx context.Context, id uuid.UUID) error {
	// invoice_items and payments cascade at the schema level.
	tag, err := r.db.Exec(ctx, `DELETE FROM invoices WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *invoiceRepo) MarkOverdue(ctx context.Context, asOf time.Time) (int64, error) {
	query := `
		UPDATE invoices
		SET status = 'overdue', updated_at = NOW()
		WHERE status IN ('sent', 'viewed', 'partially_paid') AND due_date < $1
	`
	tag, err := r.db.Exec(ctx, query, asOf)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
