package repositories

import (
	"context"
	"errors"
	"fmt"

	"servicehub/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

const paymentColumns = `id, payment_reference, invoice_id, amount, payment_method, payment_date,
		transaction_reference, notes, created_by, created_at, updated_at`

type PaymentRepository interface {
	// PostPayment records a payment and reconciles the parent invoice in
	// one transaction. The invoice row is locked, the full payment ledger
	// is re-summed, and amount_paid plus status are rewritten from that
	// sum. Returns the invoice as committed.
	PostPayment(ctx context.Context, payment *models.Payment) (*models.Invoice, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Payment, error)
	List(ctx context.Context, invoiceID *uuid.UUID) ([]*models.Payment, error)
	// Delete removes a payment and reconciles the invoice under the same
	// locking protocol as PostPayment.
	Delete(ctx context.Context, id uuid.UUID) (*models.Invoice, error)
}

type paymentRepo struct {
	db DB
}

func NewPaymentRepo(db DB) PaymentRepository {
	return &paymentRepo{db: db}
}

func (r *paymentRepo) PostPayment(ctx context.Context, payment *models.Payment) (*models.Invoice, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin: %w", err)
	}

	insert := `
		INSERT INTO payments (id, payment_reference, invoice_id, amount, payment_method,
			payment_date, transaction_reference, notes, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW(), NOW())
	`
	_, err = tx.Exec(ctx, insert,
		payment.ID, payment.PaymentReference, payment.InvoiceID, payment.Amount,
		payment.PaymentMethod, payment.PaymentDate, payment.TransactionReference,
		payment.Notes, payment.CreatedBy,
	)
	if err != nil {
		_ = tx.Rollback(ctx)
		if isUniqueViolation(err) {
			return nil, ErrDuplicateReference
		}
		return nil, fmt.Errorf("insert payment: %w", err)
	}

	invoice, err := reconcileInvoice(ctx, tx, payment.InvoiceID)
	if err != nil {
		_ = tx.Rollback(ctx)
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return invoice, nil
}

func (r *paymentRepo) Delete(ctx context.Context, id uuid.UUID) (*models.Invoice, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin: %w", err)
	}

	var invoiceID uuid.UUID
	err = tx.QueryRow(ctx, `DELETE FROM payments WHERE id = $1 RETURNING invoice_id`, id).Scan(&invoiceID)
	if err != nil {
		_ = tx.Rollback(ctx)
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("delete payment: %w", err)
	}

	invoice, err := reconcileInvoice(ctx, tx, invoiceID)
	if err != nil {
		_ = tx.Rollback(ctx)
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return invoice, nil
}

// reconcileInvoice locks the invoice row, re-sums its payment ledger and
// rewrites amount_paid and status from the sum. Callers own the transaction.
func reconcileInvoice(ctx context.Context, tx pgx.Tx, invoiceID uuid.UUID) (*models.Invoice, error) {
	lock := `SELECT ` + invoiceColumns + ` FROM invoices WHERE id = $1 FOR UPDATE`
	invoice, err := scanInvoice(tx.QueryRow(ctx, lock, invoiceID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("lock invoice: %w", err)
	}

	var paid decimal.Decimal
	err = tx.QueryRow(ctx,
		`SELECT COALESCE(SUM(amount), 0) FROM payments WHERE invoice_id = $1`,
		invoiceID,
	).Scan(&paid)
	if err != nil {
		return nil, fmt.Errorf("sum payments: %w", err)
	}

	invoice.AmountPaid = paid
	switch {
	case paid.GreaterThanOrEqual(invoice.TotalAmount):
		invoice.Status = models.InvoiceStatusPaid
	case paid.GreaterThan(decimal.Zero):
		invoice.Status = models.InvoiceStatusPartiallyPaid
	}

	_, err = tx.Exec(ctx,
		`UPDATE invoices SET amount_paid = $1, status = $2, updated_at = NOW() WHERE id = $3`,
		invoice.AmountPaid, invoice.Status, invoice.ID,
	)
	if err != nil {
		return nil, fmt.Errorf("update invoice: %w", err)
	}
	return invoice, nil
}

func (r *paymentRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE id = $1`
	payment, err := scanPayment(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return payment, nil
}

func (r *paymentRepo) List(ctx context.Context, invoiceID *uuid.UUID) ([]*models.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments`
	args := []any{}
	if invoiceID != nil {
		query += ` WHERE invoice_id = $1`
		args = append(args, *invoiceID)
	}
	query += ` ORDER BY payment_date DESC, created_at DESC`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var payments []*models.Payment
	for rows.Next() {
		payment, err := scanPayment(rows)
		if err != nil {
			return nil, err
		}
		payments = append(payments, payment)
	}
	return payments, rows.Err()
}

func scanPayment(row pgx.Row) (*models.Payment, error) {
	payment := &models.Payment{}
	err := row.Scan(
		&payment.ID, &payment.PaymentReference, &payment.InvoiceID, &payment.Amount,
		&payment.PaymentMethod, &payment.PaymentDate, &payment.TransactionReference,
		&payment.Notes, &payment.CreatedBy, &payment.CreatedAt, &payment.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return payment, nil
}
