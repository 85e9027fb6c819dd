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
	"database/sql"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/localdeals/localdeals/internal/deal"
	"github.com/localdeals/localdeals/internal/shop"
)

// DealRepository implements deal.Repository. Reads join the owning shop so
// the service layer can derive orderability without extra round trips.
type DealRepository struct {
	db *DB
}

// NewDealRepository creates a new deal repository
func NewDealRepository(db *DB) *DealRepository {
	return &DealRepository{db: db}
}

// Create creates a new deal
func (r *DealRepository) Create(ctx context.Context, d *deal.Deal) error {
	now := time.Now()
	_, err := r.db.pool.Exec(ctx, `
		INSERT INTO deals (
			id, title, description, price, is_active,
			shop_id, platform_id, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`,
		d.ID, d.Title, d.Description, d.Price, d.IsActive,
		d.ShopID, d.PlatformID, now, now,
	)
	if err != nil {
		return fmt.Errorf("failed to insert deal: %w", err)
	}

	d.CreatedAt = now
	d.UpdatedAt = now

	return nil
}

const dealColumns = `d.id, d.title, d.description, d.price, d.is_active,
		d.shop_id, d.platform_id, d.created_at, d.updated_at,
		s.id, s.owner_id, s.name, s.status`

const dealJoin = `FROM deals d LEFT JOIN shops s ON s.id = d.shop_id`

func scanDeal(row pgx.Row) (*deal.Deal, error) {
	var d deal.Deal
	var shopID, shopOwnerID, shopName, shopStatus sql.NullString

	err := row.Scan(
		&d.ID, &d.Title, &d.Description, &d.Price, &d.IsActive,
		&d.ShopID, &d.PlatformID, &d.CreatedAt, &d.UpdatedAt,
		&shopID, &shopOwnerID, &shopName, &shopStatus,
	)
	if err != nil {
		return nil, err
	}

	if shopID.Valid {
		d.Shop = &shop.Shop{
			ID:      shopID.String,
			OwnerID: shopOwnerID.String,
			Name:    shopName.String,
			Status:  shop.Status(shopStatus.String),
		}
	}
	return &d, nil
}

// GetByID retrieves a deal with its owning shop resolved
func (r *DealRepository) GetByID(ctx context.Context, id string) (*deal.Deal, error) {
	d, err := scanDeal(r.db.pool.QueryRow(ctx, `
		SELECT `+dealColumns+`
		`+dealJoin+`
		WHERE d.id = $1
	`, id))

	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, deal.ErrDealNotFound
		}
		return nil, fmt.Errorf("failed to get deal: %w", err)
	}

	return d, nil
}

// Update replaces a deal's editable fields
func (r *DealRepository) Update(ctx context.Context, d *deal.Deal) error {
	result, err := r.db.pool.Exec(ctx, `
		UPDATE deals SET
			title = $2,
			description = $3,
			price = $4,
			is_active = $5,
			updated_at = NOW()
		WHERE id = $1
	`, d.ID, d.Title, d.Description, d.Price, d.IsActive)

	if err != nil {
		return fmt.Errorf("failed to update deal: %w", err)
	}

	if result.RowsAffected() == 0 {
		return deal.ErrDealNotFound
	}

	return nil
}

// Delete removes a deal
func (r *DealRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.pool.Exec(ctx, `
		DELETE FROM deals WHERE id = $1
	`, id)

	if err != nil {
		return fmt.Errorf("failed to delete deal: %w", err)
	}

	if result.RowsAffected() == 0 {
		return deal.ErrDealNotFound
	}

	return nil
}

// List retrieves deals ordered by creation time
func (r *DealRepository) List(ctx context.Context, limit, offset int) ([]*deal.Deal, error) {
	rows, err := r.db.pool.Query(ctx, `
		SELECT `+dealColumns+`
		`+dealJoin+`
		ORDER BY d.created_at DESC
		LIMIT $1 OFFSET $2
	`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list deals: %w", err)
	}
	defer rows.Close()

	return collectDeals(rows)
}

// ListActive retrieves flagged-active deals. Shop status filtering is left
// to the service layer, which owns the visibility derivation.
func (r *DealRepository) ListActive(ctx context.Context, limit, offset int) ([]*deal.Deal, error) {
	rows, err := r.db.pool.Query(ctx, `
		SELECT `+dealColumns+`
		`+dealJoin+`
		WHERE d.is_active
		ORDER BY d.created_at DESC
		LIMIT $1 OFFSET $2
	`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list active deals: %w", err)
	}
	defer rows.Close()

	return collectDeals(rows)
}

// ListByShop retrieves all deals belonging to a shop
func (r *DealRepository) ListByShop(ctx context.Context, shopID string) ([]*deal.Deal, error) {
	rows, err := r.db.pool.Query(ctx, `
		SELECT `+dealColumns+`
		`+dealJoin+`
		WHERE d.shop_id = $1
		ORDER BY d.created_at DESC
	`, shopID)
	if err != nil {
		return nil, fmt.Errorf("failed to list deals by shop: %w", err)
	}
	defer rows.Close()

	return collectDeals(rows)
}

func collectDeals(rows pgx.Rows) ([]*deal.Deal, error) {
	var deals []*deal.Deal
	for rows.Next() {
		d, err := scanDeal(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan deal: %w", err)
		}
		deals = append(deals, d)
	}
	return deals, rows.Err()
}
