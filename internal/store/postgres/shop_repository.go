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
	"github.com/localdeals/localdeals/internal/shop"
)

// ShopRepository implements shop.Repository
type ShopRepository struct {
	db *DB
}

// NewShopRepository creates a new shop repository
func NewShopRepository(db *DB) *ShopRepository {
	return &ShopRepository{db: db}
}

// Create creates a new shop
func (r *ShopRepository) Create(ctx context.Context, s *shop.Shop) error {
	now := time.Now()
	_, err := r.db.pool.Exec(ctx, `
		INSERT INTO shops (
			id, owner_id, name, description, address, phone, status,
			activation_notes, payment_reference, activated_by,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`,
		s.ID, s.OwnerID, s.Name, s.Description, s.Address, s.Phone, string(s.Status),
		s.ActivationNotes, s.PaymentReference, s.ActivatedBy,
		now, now,
	)
	if err != nil {
		return fmt.Errorf("failed to insert shop: %w", err)
	}

	s.CreatedAt = now
	s.UpdatedAt = now

	return nil
}

const shopColumns = `id, owner_id, name, description, address, phone, status,
		activation_notes, payment_reference, activated_at, activated_by,
		created_at, updated_at`

func scanShop(row pgx.Row) (*shop.Shop, error) {
	var s shop.Shop
	var status string
	var activatedAt sql.NullTime

	err := row.Scan(
		&s.ID, &s.OwnerID, &s.Name, &s.Description, &s.Address, &s.Phone, &status,
		&s.ActivationNotes, &s.PaymentReference, &activatedAt, &s.ActivatedBy,
		&s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	s.Status = shop.Status(status)
	if activatedAt.Valid {
		s.ActivatedAt = &activatedAt.Time
	}
	return &s, nil
}

// GetByID retrieves a shop by ID
func (r *ShopRepository) GetByID(ctx context.Context, id string) (*shop.Shop, error) {
	s, err := scanShop(r.db.pool.QueryRow(ctx, `
		SELECT `+shopColumns+`
		FROM shops
		WHERE id = $1
	`, id))

	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, shop.ErrShopNotFound
		}
		return nil, fmt.Errorf("failed to get shop: %w", err)
	}

	return s, nil
}

// ListByOwner retrieves all shops owned by a user
func (r *ShopRepository) ListByOwner(ctx context.Context, ownerID string) ([]*shop.Shop, error) {
	rows, err := r.db.pool.Query(ctx, `
		SELECT `+shopColumns+`
		FROM shops
		WHERE owner_id = $1
		ORDER BY created_at DESC
	`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list shops by owner: %w", err)
	}
	defer rows.Close()

	return collectShops(rows)
}

// List retrieves shops, optionally filtered by status
func (r *ShopRepository) List(ctx context.Context, status *shop.Status, limit, offset int) ([]*shop.Shop, error) {
	var rows pgx.Rows
	var err error

	if status != nil {
		rows, err = r.db.pool.Query(ctx, `
			SELECT `+shopColumns+`
			FROM shops
			WHERE status = $1
			ORDER BY created_at DESC
			LIMIT $2 OFFSET $3
		`, string(*status), limit, offset)
	} else {
		rows, err = r.db.pool.Query(ctx, `
			SELECT `+shopColumns+`
			FROM shops
			ORDER BY created_at DESC
			LIMIT $1 OFFSET $2
		`, limit, offset)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list shops: %w", err)
	}
	defer rows.Close()

	return collectShops(rows)
}

func collectShops(rows pgx.Rows) ([]*shop.Shop, error) {
	var shops []*shop.Shop
	for rows.Next() {
		s, err := scanShop(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan shop: %w", err)
		}
		shops = append(shops, s)
	}
	return shops, rows.Err()
}

// UpdateProfile updates the dealer-editable fields of a shop
func (r *ShopRepository) UpdateProfile(ctx context.Context, id string, profile shop.Profile) error {
	result, err := r.db.pool.Exec(ctx, `
		UPDATE shops SET
			name = $2,
			description = $3,
			address = $4,
			phone = $5,
			updated_at = NOW()
		WHERE id = $1
	`, id, profile.Name, profile.Description, profile.Address, profile.Phone)

	if err != nil {
		return fmt.Errorf("failed to update shop profile: %w", err)
	}

	if result.RowsAffected() == 0 {
		return shop.ErrShopNotFound
	}

	return nil
}

// UpdateStatus conditionally applies a status transition. The write succeeds
// only while the stored status still equals update.Expected; a zero row
// count is disambiguated into not-found versus lost-race.
func (r *ShopRepository) UpdateStatus(ctx context.Context, update shop.StatusUpdate) error {
	// The COALESCEs retain the previous activation stamp and annotations
	// when the transition carries none: the stamp records the most recent
	// activation and survives suspension or rejection.
	result, err := r.db.pool.Exec(ctx, `
		UPDATE shops SET
			status = $3,
			activation_notes = COALESCE($4, activation_notes),
			payment_reference = COALESCE($5, payment_reference),
			activated_at = COALESCE($6, activated_at),
			activated_by = COALESCE($7, activated_by),
			updated_at = NOW()
		WHERE id = $1 AND status = $2
	`,
		update.ShopID, string(update.Expected), string(update.Target),
		update.ActivationNotes, update.PaymentReference,
		update.ActivatedAt, update.ActivatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to update shop status: %w", err)
	}

	if result.RowsAffected() == 0 {
		var exists bool
		if err := r.db.pool.QueryRow(ctx, `
			SELECT EXISTS (SELECT 1 FROM shops WHERE id = $1)
		`, update.ShopID).Scan(&exists); err != nil {
			return fmt.Errorf("failed to check shop existence: %w", err)
		}
		if !exists {
			return shop.ErrShopNotFound
		}
		return shop.ErrConcurrentModification
	}

	return nil
}
