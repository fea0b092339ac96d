package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PaymentMethod enumerates how a payment was made.
type PaymentMethod string

const (
	PaymentMethodCash         PaymentMethod = "cash"
	PaymentMethodBankTransfer PaymentMethod = "bank_transfer"
	PaymentMethodCheque       PaymentMethod = "cheque"
	PaymentMethodCard         PaymentMethod = "card"
	PaymentMethodMobileMoney  PaymentMethod = "mobile_money"
	PaymentMethodOther        PaymentMethod = "other"
)

// Valid reports whether m is a known payment method.
func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentMethodCash, PaymentMethodBankTransfer, PaymentMethodCheque,
		PaymentMethodCard, PaymentMethodMobileMoney, PaymentMethodOther:
		return true
	}
	return false
}

// Payment is one entry in an invoice's payment ledger. Payments are
// append-only; posting one atomically re-derives the owning invoice's
// amount_paid and status from the full ledger.
type Payment struct {
	ID                   uuid.UUID       `json:"id" db:"id"`
	PaymentReference     string          `json:"payment_reference" db:"payment_reference"`
	InvoiceID            uuid.UUID       `json:"invoice_id" db:"invoice_id"`
	Amount               decimal.Decimal `json:"amount" db:"amount"`
	PaymentMethod        PaymentMethod   `json:"payment_method" db:"payment_method"`
	PaymentDate          time.Time       `json:"payment_date" db:"payment_date"`
	TransactionReference string          `json:"transaction_reference" db:"transaction_reference"`
	Notes                string          `json:"notes" db:"notes"`
	CreatedBy            string          `json:"created_by" db:"created_by"`
	CreatedAt            time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt            time.Time       `json:"updated_at" db:"updated_at"`
}
