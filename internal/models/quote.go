package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type QuoteStatus string

const (
	QuoteStatusDraft    QuoteStatus = "draft"
	QuoteStatusSent     QuoteStatus = "sent"
	QuoteStatusAccepted QuoteStatus = "accepted"
	QuoteStatusRejected QuoteStatus = "rejected"
	QuoteStatusExpired  QuoteStatus = "expired"
)

func (s QuoteStatus) Valid() bool {
	switch s {
	case QuoteStatusDraft, QuoteStatusSent, QuoteStatusAccepted,
		QuoteStatusRejected, QuoteStatusExpired:
		return true
	}
	return false
}

type Quote struct {
	ID          uuid.UUID       `json:"id" db:"id"`
	QuoteNumber string          `json:"quote_number" db:"quote_number"`
	ClientID    string          `json:"client_id" db:"client_id"`
	ClientName  string          `json:"client_name" db:"client_name"`
	Description string          `json:"description" db:"description"`
	Amount      decimal.Decimal `json:"amount" db:"amount"`
	ValidUntil  time.Time       `json:"valid_until" db:"valid_until"`
	Status      QuoteStatus     `json:"status" db:"status"`
	CreatedBy   string          `json:"created_by" db:"created_by"`
	CreatedAt   time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at" db:"updated_at"`
}
