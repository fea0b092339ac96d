package models

import "github.com/shopspring/decimal"

// Stats is the aggregate snapshot served by the stats endpoint.
type Stats struct {
	TotalQuotes      int             `json:"total_quotes"`
	TotalOrders      int             `json:"total_orders"`
	TotalInvoices    int             `json:"total_invoices"`
	TotalPayments    int             `json:"total_payments"`
	TotalInvoiced    decimal.Decimal `json:"total_invoiced"`
	TotalCollected   decimal.Decimal `json:"total_collected"`
	TotalOutstanding decimal.Decimal `json:"total_outstanding"`
}
