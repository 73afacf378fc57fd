package repository

import (
	"context"
	"fmt"

	"github.com/caretrack/backend/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// OrderRepository handles database operations for drug orders.
type OrderRepository struct {
	db *pgxpool.Pool
}

func NewOrderRepository(db *pgxpool.Pool) *OrderRepository {
	return &OrderRepository{db: db}
}

const orderColumns = `id, user_id, drug_name, quantity, phone, address, notes, status, created_at, updated_at`

func scanOrder(row pgx.Row) (*domain.DrugOrder, error) {
	var o domain.DrugOrder
	err := row.Scan(
		&o.ID, &o.UserID, &o.DrugName, &o.Quantity, &o.Phone,
		&o.Address, &o.Notes, &o.Status, &o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

// Create inserts a new drug order.
func (r *OrderRepository) Create(ctx context.Context, o *domain.DrugOrder) error {
	query := `
		INSERT INTO drug_orders (id, user_id, drug_name, quantity, phone, address, notes, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	_, err := r.db.Exec(ctx, query,
		o.ID, o.UserID, o.DrugName, o.Quantity, o.Phone,
		o.Address, o.Notes, o.Status, o.CreatedAt, o.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create drug order: %w", err)
	}
	return nil
}

// FindByID returns an order by ID, or nil if it does not exist.
func (r *OrderRepository) FindByID(ctx context.Context, id string) (*domain.DrugOrder, error) {
	query := `SELECT ` + orderColumns + ` FROM drug_orders WHERE id = $1`
	o, err := scanOrder(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find drug order: %w", err)
	}
	return o, nil
}

// ListByUserID returns a patient's orders, newest first.
func (r *OrderRepository) ListByUserID(ctx context.Context, userID string) ([]*domain.DrugOrder, error) {
	query := `SELECT ` + orderColumns + ` FROM drug_orders WHERE user_id = $1 ORDER BY created_at DESC`
	return r.list(ctx, query, userID)
}

// ListAll returns every order, newest first (admin view).
func (r *OrderRepository) ListAll(ctx context.Context) ([]*domain.DrugOrder, error) {
	query := `SELECT ` + orderColumns + ` FROM drug_orders ORDER BY created_at DESC`
	return r.list(ctx, query)
}

func (r *OrderRepository) list(ctx context.Context, query string, args ...any) ([]*domain.DrugOrder, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list drug orders: %w", err)
	}
	defer rows.Close()

	var orders []*domain.DrugOrder
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan drug order: %w", err)
		}
		orders = append(orders, o)
	}
	return orders, rows.Err()
}

// UpdateStatus moves an order through its lifecycle. Returns nil when
// the order does not exist.
func (r *OrderRepository) UpdateStatus(ctx context.Context, id string, status domain.OrderStatus) (*domain.DrugOrder, error) {
	query := `
		UPDATE drug_orders SET status = $2, updated_at = NOW()
		WHERE id = $1
		RETURNING ` + orderColumns
	o, err := scanOrder(r.db.QueryRow(ctx, query, id, status))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to update drug order: %w", err)
	}
	return o, nil
}
