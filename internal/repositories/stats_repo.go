package repositories

import (
	"context"
	"fmt"

	"servicehub/internal/models"
)

type StatsRepository interface {
	Snapshot(ctx context.Context) (*models.Stats, error)
}

type statsRepo struct {
	db DB
}

func NewStatsRepo(db DB) StatsRepository {
	return &statsRepo{db: db}
}

func (r *statsRepo) Snapshot(ctx context.Context) (*models.Stats, error) {
	query := `
		SELECT
			(SELECT COUNT(*) FROM quotes),
			(SELECT COUNT(*) FROM service_orders),
			(SELECT COUNT(*) FROM invoices),
			(SELECT COUNT(*) FROM payments),
			(SELECT COALESCE(SUM(total_amount), 0) FROM invoices WHERE status <> 'cancelled'),
			(SELECT COALESCE(SUM(amount_paid), 0) FROM invoices WHERE status <> 'cancelled'),
			(SELECT COALESCE(SUM(total_amount - amount_paid), 0) FROM invoices WHERE status <> 'cancelled')
	`
	stats := &models.Stats{}
	err := r.db.QueryRow(ctx, query).Scan(
		&stats.TotalQuotes, &stats.TotalOrders, &stats.TotalInvoices, &stats.TotalPayments,
		&stats.TotalInvoiced, &stats.TotalCollected, &stats.TotalOutstanding,
	)
	if err != nil {
		return nil, fmt.Errorf("stats snapshot: %w", err)
	}
	return stats, nil
}
