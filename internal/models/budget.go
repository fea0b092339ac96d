package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type BudgetStatus string

const (
	BudgetStatusDraft     BudgetStatus = "draft"
	BudgetStatusApproved  BudgetStatus = "approved"
	BudgetStatusPaid      BudgetStatus = "paid"
	BudgetStatusCancelled BudgetStatus = "cancelled"
)

func (s BudgetStatus) Valid() bool {
	switch s {
	case BudgetStatusDraft, BudgetStatusApproved, BudgetStatusPaid, BudgetStatusCancelled:
		return true
	}
	return false
}

type BudgetPaymentMethod string

const (
	BudgetPaymentTransfer BudgetPaymentMethod = "transfer"
	BudgetPaymentCash     BudgetPaymentMethod = "cash"
	BudgetPaymentCard     BudgetPaymentMethod = "card"
	BudgetPaymentCheque   BudgetPaymentMethod = "cheque"
)

func (m BudgetPaymentMethod) Valid() bool {
	switch m {
	case BudgetPaymentTransfer, BudgetPaymentCash, BudgetPaymentCard, BudgetPaymentCheque:
		return true
	}
	return false
}

// Budget tracks planned spend against a project. InvoiceRef is assigned
// on first save and never regenerated.
type Budget struct {
	ID            uuid.UUID           `json:"id" db:"id"`
	InvoiceRef    string              `json:"invoice_ref" db:"invoice_ref"`
	ProjectID     string              `json:"project_id" db:"project_id"`
	BudgetDate    time.Time           `json:"budget_date" db:"budget_date"`
	Amount        decimal.Decimal     `json:"amount" db:"amount"`
	PaymentMethod BudgetPaymentMethod `json:"payment_method" db:"payment_method"`
	Status        BudgetStatus        `json:"status" db:"status"`
	CreatedAt     time.Time           `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time           `json:"updated_at" db:"updated_at"`
}
