package service

import (
	"context"
	"time"

	"github.com/caretrack/backend/internal/domain"
	"github.com/caretrack/backend/internal/repository"
	"github.com/google/uuid"
)

// OrderService manages drug orders.
type OrderService struct {
	repo *repository.OrderRepository
}

func NewOrderService(repo *repository.OrderRepository) *OrderService {
	return &OrderService{repo: repo}
}

// Create places a new order in pending state.
func (s *OrderService) Create(ctx context.Context, userID string, req *domain.CreateOrderRequest) (*domain.DrugOrder, error) {
	now := time.Now()
	o := &domain.DrugOrder{
		ID:        uuid.New().String(),
		UserID:    userID,
		DrugName:  req.DrugName,
		Quantity:  req.Quantity,
		Phone:     req.Phone,
		Address:   req.Address,
		Notes:     req.Notes,
		Status:    domain.OrderPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.Create(ctx, o); err != nil {
		return nil, domain.ErrStore("failed to create order", err)
	}
	return o, nil
}

// ListMine returns the caller's orders.
func (s *OrderService) ListMine(ctx context.Context, userID string) ([]*domain.DrugOrder, error) {
	orders, err := s.repo.ListByUserID(ctx, userID)
	if err != nil {
		return nil, domain.ErrStore("failed to list orders", err)
	}
	return orders, nil
}

// Cancel lets a patient withdraw their own order while it is still pending.
func (s *OrderService) Cancel(ctx context.Context, userID, orderID string) error {
	o, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		return domain.ErrStore("failed to load order", err)
	}
	if o == nil || o.UserID != userID {
		return domain.ErrNotFound("order not found")
	}
	if o.Status != domain.OrderPending {
		return domain.ErrBadRequest("only pending orders can be cancelled")
	}

	if _, err := s.repo.UpdateStatus(ctx, orderID, domain.OrderCancelled); err != nil {
		return domain.ErrStore("failed to cancel order", err)
	}
	return nil
}

// ListAll returns every order (admin view).
func (s *OrderService) ListAll(ctx context.Context) ([]*domain.DrugOrder, error) {
	orders, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, domain.ErrStore("failed to list orders", err)
	}
	return orders, nil
}

// UpdateStatus moves an order through its lifecycle (admin only).
func (s *OrderService) UpdateStatus(ctx context.Context, orderID string, status domain.OrderStatus) (*domain.DrugOrder, error) {
	o, err := s.repo.UpdateStatus(ctx, orderID, status)
	if err != nil {
		return nil, domain.ErrStore("failed to update order", err)
	}
	if o == nil {
		return nil, domain.ErrNotFound("order not found")
	}
	return o, nil
}
