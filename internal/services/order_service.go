package services

import (
	"context"
	"errors"

	"servicehub/internal/authclient"
	"servicehub/internal/common"
	"servicehub/internal/models"
	"servicehub/internal/refnum"
	"servicehub/internal/repositories"

	"github.com/google/uuid"
)

type OrderService interface {
	Create(ctx context.Context, order *models.ServiceOrder, opts WriteOptions) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.ServiceOrder, error)
	List(ctx context.Context, status string, limit, offset int) ([]*models.ServiceOrder, error)
	Update(ctx context.Context, order *models.ServiceOrder, opts WriteOptions) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type orderService struct {
	repo      repositories.OrderRepository
	validator authclient.ReferenceValidator
}

func NewOrderService(repo repositories.OrderRepository, validator authclient.ReferenceValidator) OrderService {
	if validator == nil {
		validator = authclient.Default()
	}
	return &orderService{repo: repo, validator: validator}
}

func (s *orderService) validate(ctx context.Context, order *models.ServiceOrder) error {
	fieldErrs := common.FieldErrors{}
	if order.Amount.IsNegative() {
		fieldErrs.Add("amount", "must not be negative")
	}
	if !order.OrderStatus.Valid() {
		fieldErrs.Add("order_status", "unknown status")
	}
	if !order.PaymentStatus.Valid() {
		fieldErrs.Add("payment_status", "unknown payment status")
	}

	client, err := s.validator.ValidateClient(ctx, order.ClientID)
	if err != nil {
		if errors.Is(err, authclient.ErrUpstreamUnavailable) {
			return err
		}
		fieldErrs.Add("client_id", err.Error())
	} else if client != nil {
		order.ClientName = client.Name
	}

	if _, err := s.validator.ValidateUser(ctx, order.CreatedBy); err != nil {
		if errors.Is(err, authclient.ErrUpstreamUnavailable) {
			return err
		}
		fieldErrs.Add("created_by", err.Error())
	}

	// assigned_to is optional; validate only when set.
	if order.AssignedTo != "" {
		if _, err := s.validator.ValidateEmployee(ctx, order.AssignedTo); err != nil {
			if errors.Is(err, authclient.ErrUpstreamUnavailable) {
				return err
			}
			fieldErrs.Add("assigned_to", err.Error())
		}
	}

	return fieldErrs.OrNil()
}

func (s *orderService) Create(ctx context.Context, order *models.ServiceOrder, opts WriteOptions) error {
	if order.ID == uuid.Nil {
		order.ID = uuid.New()
	}
	if order.OrderStatus == "" {
		order.OrderStatus = models.OrderStatusPending
	}
	if order.PaymentStatus == "" {
		order.PaymentStatus = models.OrderPaymentUnpaid
	}

	if !opts.SkipValidation {
		if err := s.validate(ctx, order); err != nil {
			return err
		}
	}

	order.Amount = order.Amount.Round(2)

	generated := order.OrderNumber == ""
	if generated {
		order.OrderNumber = refnum.Order()
	}

	var err error
	for attempt := 0; attempt < referenceRetryLimit; attempt++ {
		err = s.repo.Create(ctx, order)
		if err == nil {
			return nil
		}
		if !errors.Is(err, repositories.ErrDuplicateReference) || !generated {
			return err
		}
		order.OrderNumber = refnum.Order()
	}
	return err
}

func (s *orderService) GetByID(ctx context.Context, id uuid.UUID) (*models.ServiceOrder, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *orderService) List(ctx context.Context, status string, limit, offset int) ([]*models.ServiceOrder, error) {
	if limit <= 0 {
		limit = 50
	}
	return s.repo.List(ctx, status, limit, offset)
}

func (s *orderService) Update(ctx context.Context, order *models.ServiceOrder, opts WriteOptions) error {
	if !opts.SkipValidation {
		if err := s.validate(ctx, order); err != nil {
			return err
		}
	}
	order.Amount = order.Amount.Round(2)
	return s.repo.Update(ctx, order)
}

func (s *orderService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}
