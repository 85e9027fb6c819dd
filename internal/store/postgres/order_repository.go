// Copyright 2026 The LocalDeals Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/localdeals/localdeals/internal/order"
)

// OrderRepository implements order.Repository
type OrderRepository struct {
	db *DB
}

// NewOrderRepository creates a new order repository
func NewOrderRepository(db *DB) *OrderRepository {
	return &OrderRepository{db: db}
}

// Create creates a new order
func (r *OrderRepository) Create(ctx context.Context, o *order.Order) error {
	now := time.Now()
	_, err := r.db.pool.Exec(ctx, `
		INSERT INTO orders (
			id, deal_id, shop_id, status,
			customer_name, customer_email, customer_phone, customer_address,
			quantity, total_amount, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`,
		o.ID, o.DealID, o.ShopID, string(o.Status),
		o.Customer.Name, o.Customer.Email, o.Customer.Phone, o.Customer.Address,
		o.Quantity, o.TotalAmount, now, now,
	)
	if err != nil {
		return fmt.Errorf("failed to insert order: %w", err)
	}

	o.CreatedAt = now
	o.UpdatedAt = now

	return nil
}

const orderColumns = `id, deal_id, shop_id, status,
		customer_name, customer_email, customer_phone, customer_address,
		quantity, total_amount, created_at, updated_at`

func scanOrder(row pgx.Row) (*order.Order, error) {
	var o order.Order
	var status string

	err := row.Scan(
		&o.ID, &o.DealID, &o.ShopID, &status,
		&o.Customer.Name, &o.Customer.Email, &o.Customer.Phone, &o.Customer.Address,
		&o.Quantity, &o.TotalAmount, &o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	o.Status = order.Status(status)
	return &o, nil
}

// GetByID retrieves an order by ID
func (r *OrderRepository) GetByID(ctx context.Context, id string) (*order.Order, error) {
	o, err := scanOrder(r.db.pool.QueryRow(ctx, `
		SELECT `+orderColumns+`
		FROM orders
		WHERE id = $1
	`, id))

	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, order.ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to get order: %w", err)
	}

	return o, nil
}

// ListByShop retrieves a page of a shop's orders, newest first
func (r *OrderRepository) ListByShop(ctx context.Context, shopID string, limit, offset int) ([]*order.Order, error) {
	rows, err := r.db.pool.Query(ctx, `
		SELECT `+orderColumns+`
		FROM orders
		WHERE shop_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`, shopID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	defer rows.Close()

	var orders []*order.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		orders = append(orders, o)
	}

	return orders, rows.Err()
}

// UpdateStatus conditionally applies a status transition. The write succeeds
// only while the stored status still equals update.Expected.
func (r *OrderRepository) UpdateStatus(ctx context.Context, update order.StatusUpdate) error {
	result, err := r.db.pool.Exec(ctx, `
		UPDATE orders SET status = $3, updated_at = NOW()
		WHERE id = $1 AND status = $2
	`, update.OrderID, string(update.Expected), string(update.Target))
	if err != nil {
		return fmt.Errorf("failed to update order status: %w", err)
	}

	if result.RowsAffected() == 0 {
		var exists bool
		if err := r.db.pool.QueryRow(ctx, `
			SELECT EXISTS (SELECT 1 FROM orders WHERE id = $1)
		`, update.OrderID).Scan(&exists); err != nil {
			return fmt.Errorf("failed to check order existence: %w", err)
		}
		if !exists {
			return order.ErrOrderNotFound
		}
		return order.ErrConcurrentModification
	}

	return nil
}
