package caching

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"servicehub/internal/models"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// CacheService is a read-through cache for invoices and the stats
// snapshot. A miss is (nil, nil); cache failures are never fatal to the
// request path.
type CacheService interface {
	GetInvoice(ctx context.Context, invoiceID uuid.UUID) (*models.Invoice, error)
	SetInvoice(ctx context.Context, invoice *models.Invoice, ttl time.Duration) error
	DeleteInvoice(ctx context.Context, invoiceID uuid.UUID) error

	GetStats(ctx context.Context) (*models.Stats, error)
	SetStats(ctx context.Context, stats *models.Stats, ttl time.Duration) error
	DeleteStats(ctx context.Context) error

	// Ping reports whether the cache backend is reachable.
	Ping(ctx context.Context) error
}

type redisCacheService struct {
	client *redis.Client
}

func NewRedisCacheService(addr, password string, db int) CacheService {
	parsedAddr := strings.TrimPrefix(strings.TrimPrefix(addr, "rediss://"), "redis://")

	client := redis.NewClient(&redis.Options{
		Addr:     parsedAddr,
		Password: password,
		DB:       db,
	})

	if err := client.Ping(context.Background()).Err(); err != nil {
		log.Warn().Err(err).Str("addr", parsedAddr).Msg("redis ping failed, cache degraded")
	}

	return &redisCacheService{client: client}
}

func invoiceKey(invoiceID uuid.UUID) string {
	return fmt.Sprintf("servicehub:invoice:%s", invoiceID)
}

const statsKey = "servicehub:stats"

func (r *redisCacheService) GetInvoice(ctx context.Context, invoiceID uuid.UUID) (*models.Invoice, error) {
	data, err := r.client.Get(ctx, invoiceKey(invoiceID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}

	invoice := &models.Invoice{}
	if err := json.Unmarshal(data, invoice); err != nil {
		return nil, err
	}
	return invoice, nil
}

func (r *redisCacheService) SetInvoice(ctx context.Context, invoice *models.Invoice, ttl time.Duration) error {
	data, err := json.Marshal(invoice)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, invoiceKey(invoice.ID), data, ttl).Err()
}

func (r *redisCacheService) DeleteInvoice(ctx context.Context, invoiceID uuid.UUID) error {
	return r.client.Del(ctx, invoiceKey(invoiceID)).Err()
}

func (r *redisCacheService) GetStats(ctx context.Context) (*models.Stats, error) {
	data, err := r.client.Get(ctx, statsKey).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}

	stats := &models.Stats{}
	if err := json.Unmarshal(data, stats); err != nil {
		return nil, err
	}
	return stats, nil
}

func (r *redisCacheService) SetStats(ctx context.Context, stats *models.Stats, ttl time.Duration) error {
	data, err := json.Marshal(stats)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, statsKey, data, ttl).Err()
}

func (r *redisCacheService) DeleteStats(ctx context.Context) error {
	return r.client.Del(ctx, statsKey).Err()
}

func (r *redisCacheService) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}
