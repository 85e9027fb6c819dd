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

	"github.com/localdeals/localdeals/internal/order"
	"github.com/localdeals/localdeals/internal/shop"
)

// AnalyticsRepository implements analytics.Repository
type AnalyticsRepository struct {
	db *DB
}

// NewAnalyticsRepository creates a new analytics repository
func NewAnalyticsRepository(db *DB) *AnalyticsRepository {
	return &AnalyticsRepository{db: db}
}

// ShopsByStatus counts shops grouped by status
func (r *AnalyticsRepository) ShopsByStatus(ctx context.Context) (map[shop.Status]int, error) {
	rows, err := r.db.pool.Query(ctx, `
		SELECT status, COUNT(*) FROM shops GROUP BY status
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to count shops by status: %w", err)
	}
	defer rows.Close()

	out := make(map[shop.Status]int)
	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("failed to scan shop count: %w", err)
		}
		out[shop.Status(status)] = count
	}

	return out, rows.Err()
}

// OrdersByStatus counts orders grouped by status
func (r *AnalyticsRepository) OrdersByStatus(ctx context.Context) (map[order.Status]int, error) {
	rows, err := r.db.pool.Query(ctx, `
		SELECT status, COUNT(*) FROM orders GROUP BY status
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to count orders by status: %w", err)
	}
	defer rows.Close()

	out := make(map[order.Status]int)
	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("failed to scan order count: %w", err)
		}
		out[order.Status(status)] = count
	}

	return out, rows.Err()
}

// ActiveDealCount counts deals whose active flag is set
func (r *AnalyticsRepository) ActiveDealCount(ctx context.Context) (int, error) {
	var count int
	err := r.db.pool.QueryRow(ctx, `
		SELECT COUNT(*) FROM deals WHERE is_active
	`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count active deals: %w", err)
	}
	return count, nil
}

// DeliveredRevenue sums the total amount of delivered orders
func (r *AnalyticsRepository) DeliveredRevenue(ctx context.Context) (float64, error) {
	var revenue float64
	err := r.db.pool.QueryRow(ctx, `
		SELECT COALESCE(SUM(total_amount), 0) FROM orders WHERE status = 'delivered'
	`).Scan(&revenue)
	if err != nil {
		return 0, fmt.Errorf("failed to sum delivered revenue: %w", err)
	}
	return revenue, nil
}
