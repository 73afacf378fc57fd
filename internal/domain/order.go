package domain

import "time"

// OrderStatus is the lifecycle state of a drug order.
type OrderStatus string

const (
	OrderPending   OrderStatus = "pending"
	OrderConfirmed OrderStatus = "confirmed"
	OrderDelivered OrderStatus = "delivered"
	OrderCancelled OrderStatus = "cancelled"
)

// DrugOrder is a patient's medication delivery order.
type DrugOrder struct {
	ID        string      `json:"id"`
	UserID    string      `json:"userId"`
	DrugName  string      `json:"drugName"`
	Quantity  int         `json:"quantity"`
	Phone     string      `json:"phone"`
	Address   string      `json:"address"`
	Notes     string      `json:"notes"`
	Status    OrderStatus `json:"status"`
	CreatedAt time.Time   `json:"createdAt"`
	UpdatedAt time.Time   `json:"updatedAt"`
}

// CreateOrderRequest is the input for placing a drug order.
type CreateOrderRequest struct {
	DrugName string `json:"drugName" validate:"required,min=2,max=200"`
	Quantity int    `json:"quantity" validate:"required,min=1,max=10"`
	Phone    string `json:"phone" validate:"required,min=7,max=20"`
	Address  string `json:"address" validate:"required,min=5,max=300"`
	Notes    string `json:"notes" validate:"omitempty,max=500"`
}

// UpdateOrderStatusRequest is the admin input for moving an order
// through its lifecycle.
type UpdateOrderStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=pending confirmed delivered cancelled"`
}
