package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusAccepted   OrderStatus = "accepted"
	OrderStatusInProgress OrderStatus = "in_progress"
	OrderStatusCompleted  OrderStatus = "completed"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusPending, OrderStatusAccepted, OrderStatusInProgress,
		OrderStatusCompleted, OrderStatusCancelled:
		return true
	}
	return false
}

type OrderPaymentStatus string

const (
	OrderPaymentUnpaid  OrderPaymentStatus = "unpaid"
	OrderPaymentPartial OrderPaymentStatus = "partial"
	OrderPaymentPaid    OrderPaymentStatus = "paid"
)

func (s OrderPaymentStatus) Valid() bool {
	switch s {
	case OrderPaymentUnpaid, OrderPaymentPartial, OrderPaymentPaid:
		return true
	}
	return false
}

// ServiceOrder is a confirmed piece of work for a client. AssignedTo
// references an employee owned by the remote auth service.
type ServiceOrder struct {
	ID            uuid.UUID          `json:"id" db:"id"`
	OrderNumber   string             `json:"order_number" db:"order_number"`
	ClientID      string             `json:"client_id" db:"client_id"`
	ClientName    string             `json:"client_name" db:"client_name"`
	QuoteID       *uuid.UUID         `json:"quote_id" db:"quote_id"`
	Description   string             `json:"description" db:"description"`
	Amount        decimal.Decimal    `json:"amount" db:"amount"`
	OrderStatus   OrderStatus        `json:"order_status" db:"order_status"`
	PaymentStatus OrderPaymentStatus `json:"payment_status" db:"payment_status"`
	ValidUntil    time.Time          `json:"valid_until" db:"valid_until"`
	CreatedBy     string             `json:"created_by" db:"created_by"`
	AssignedTo    string             `json:"assigned_to" db:"assigned_to"`
	CreatedAt     time.Time          `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time          `json:"updated_at" db:"updated_at"`
}
