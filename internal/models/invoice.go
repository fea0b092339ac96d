package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// InvoiceStatus is the lifecycle state of an invoice. draft is initial;
// paid and partially_paid are derived from the payment ledger; the rest
// are set by callers (or the overdue sweep) and never overwritten by
// payment logic.
type InvoiceStatus string

const (
	InvoiceStatusDraft         InvoiceStatus = "draft"
	InvoiceStatusSent          InvoiceStatus = "sent"
	InvoiceStatusViewed        InvoiceStatus = "viewed"
	InvoiceStatusPartiallyPaid InvoiceStatus = "partially_paid"
	InvoiceStatusPaid          InvoiceStatus = "paid"
	InvoiceStatusOverdue       InvoiceStatus = "overdue"
	InvoiceStatusCancelled     InvoiceStatus = "cancelled"
)

// Valid reports whether s is a known invoice status.
func (s InvoiceStatus) Valid() bool {
	switch s {
	case InvoiceStatusDraft, InvoiceStatusSent, InvoiceStatusViewed,
		InvoiceStatusPartiallyPaid, InvoiceStatusPaid,
		InvoiceStatusOverdue, InvoiceStatusCancelled:
		return true
	}
	return false
}

// DefaultTaxRate applies when the caller does not supply one.
var DefaultTaxRate = decimal.RequireFromString("7.50")

type Invoice struct {
	ID            uuid.UUID `json:"id" db:"id"`
	InvoiceNumber string    `json:"invoice_number" db:"invoice_number"`

	// ClientID references a client owned by the remote auth service.
	// ClientName/ClientEmail are display snapshots cached at validation
	// time, not live data.
	ClientID    string `json:"client_id" db:"client_id"`
	ClientName  string `json:"client_name" db:"client_name"`
	ClientEmail string `json:"client_email" db:"client_email"`

	OrderID *uuid.UUID `json:"order_id" db:"order_id"`
	QuoteID *uuid.UUID `json:"quote_id" db:"quote_id"`

	IssueDate time.Time `json:"issue_date" db:"issue_date"`
	DueDate   time.Time `json:"due_date" db:"due_date"`

	Subtotal    decimal.Decimal `json:"subtotal" db:"subtotal"`
	TaxRate     decimal.Decimal `json:"tax_rate" db:"tax_rate"`
	TaxAmount   decimal.Decimal `json:"tax_amount" db:"tax_amount"`
	TotalAmount decimal.Decimal `json:"total_amount" db:"total_amount"`
	// AmountPaid is derived from the payment ledger; only the payment
	// writer's transactional recompute mutates it.
	AmountPaid decimal.Decimal `json:"amount_paid" db:"amount_paid"`

	Status    InvoiceStatus `json:"status" db:"status"`
	Notes     string        `json:"notes" db:"notes"`
	CreatedBy string        `json:"created_by" db:"created_by"`
	CreatedAt time.Time     `json:"created_at" db:"created_at"`
	UpdatedAt time.Time     `json:"updated_at" db:"updated_at"`
}

var oneHundred = decimal.NewFromInt(100)

// ComputeTotals recomputes tax_amount and total_amount from subtotal and
// tax_rate. Runs on every save so a subtotal update cascades without a
// separate recompute call. tax_amount = subtotal × tax_rate / 100,
// rounded half-up to 2 places.
func (i *Invoice) ComputeTotals() {
	i.TaxAmount = i.Subtotal.Mul(i.TaxRate).Div(oneHundred).Round(2)
	i.TotalAmount = i.Subtotal.Add(i.TaxAmount)
}

// Balance is total_amount minus amount_paid.
func (i *Invoice) Balance() decimal.Decimal {
	return i.TotalAmount.Sub(i.AmountPaid)
}

// PaymentProgress is amount_paid as a percentage of total_amount, 0 for a
// zero-total invoice.
func (i *Invoice) PaymentProgress() decimal.Decimal {
	if i.TotalAmount.IsZero() {
		return decimal.Zero
	}
	return i.AmountPaid.Div(i.TotalAmount).Mul(oneHundred).Round(2)
}

// MarshalJSON includes the derived read-only views.
func (i Invoice) MarshalJSON() ([]byte, error) {
	type alias Invoice
	return json.Marshal(struct {
		alias
		Balance         decimal.Decimal `json:"balance"`
		PaymentProgress decimal.Decimal `json:"payment_progress"`
	}{
		alias:           alias(i),
		Balance:         i.Balance(),
		PaymentProgress: i.PaymentProgress(),
	})
}
