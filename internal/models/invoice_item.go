package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// InvoiceItem is a line item owned by exactly one invoice. Items do not
// feed back into the invoice subtotal; the caller supplies a consistent
// subtotal when attaching items.
type InvoiceItem struct {
	ID          uuid.UUID       `json:"id" db:"id"`
	InvoiceID   uuid.UUID       `json:"invoice_id" db:"invoice_id"`
	Description string          `json:"description" db:"description"`
	Quantity    decimal.Decimal `json:"quantity" db:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price" db:"unit_price"`
	Total       decimal.Decimal `json:"total" db:"total"`
	CreatedAt   time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at" db:"updated_at"`
}

// ComputeTotal recomputes total = quantity × unit_price on every save.
func (i *InvoiceItem) ComputeTotal() {
	i.Total = i.Quantity.Mul(i.UnitPrice).Round(2)
}
