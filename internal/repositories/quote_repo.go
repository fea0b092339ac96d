package repositories

import (
	"context"
	"errors"
	"fmt"

	"servicehub/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const quoteColumns = `id, quote_number, client_id, client_name, description, amount,
		valid_until, status, created_by, created_at, updated_at`

type QuoteRepository interface {
	Create(ctx context.Context, quote *models.Quote) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Quote, error)
	List(ctx context.Context, status string, limit, offset int) ([]*models.Quote, error)
	Update(ctx context.Context, quote *models.Quote) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type quoteRepo struct {
	db DB
}

func NewQuoteRepo(db DB) QuoteRepository {
	return &quoteRepo{db: db}
}

func (r *quoteRepo) Create(ctx context.Context, quote *models.Quote) error {
	query := `
		INSERT INTO quotes (id, quote_number, client_id, client_name, description, amount,
			valid_until, status, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW(), NOW())
	`
	_, err := r.db.Exec(ctx, query,
		quote.ID, quote.QuoteNumber, quote.ClientID, quote.ClientName,
		quote.Description, quote.Amount, quote.ValidUntil, quote.Status, quote.CreatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateReference
		}
		return fmt.Errorf("insert quote: %w", err)
	}
	return nil
}

func (r *quoteRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Quote, error) {
	query := `SELECT ` + quoteColumns + ` FROM quotes WHERE id = $1`
	quote, err := scanQuote(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return quote, nil
}

func (r *quoteRepo) List(ctx context.Context, status string, limit, offset int) ([]*models.Quote, error) {
	query := `SELECT ` + quoteColumns + ` FROM quotes`
	args := []any{}
	arg := 1
	if status != "" {
		query += fmt.Sprintf(" WHERE status = $%d", arg)
		args = append(args, status)
		arg++
	}
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", arg, arg+1)
	args = append(args, limit, offset)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var quotes []*models.Quote
	for rows.Next() {
		quote, err := scanQuote(rows)
		if err != nil {
			return nil, err
		}
		quotes = append(quotes, quote)
	}
	return quotes, rows.Err()
}

func (r *quoteRepo) Update(ctx context.Context, quote *models.Quote) error {
	query := `
		UPDATE quotes
		SET client_id = $1, client_name = $2, description = $3, amount = $4,
			valid_until = $5, status = $6, updated_at = NOW()
		WHERE id = $7
	`
	tag, err := r.db.Exec(ctx, query,
		quote.ClientID, quote.ClientName, quote.Description, quote.Amount,
		quote.ValidUntil, quote.Status, quote.ID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *quoteRepo) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM quotes WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanQuote(row pgx.Row) (*models.Quote, error) {
	quote := &models.Quote{}
	err := row.Scan(
		&quote.ID, &quote.QuoteNumber, &quote.ClientID, &quote.ClientName,
		&quote.Description, &quote.Amount, &quote.ValidUntil, &quote.Status,
		&quote.CreatedBy, &quote.CreatedAt, &quote.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return quote, nil
}
