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

	"github.com/jackc/pgx/v5"
	"github.com/localdeals/localdeals/internal/platform"
)

// PlatformRepository implements platform.Repository
type PlatformRepository struct {
	db *DB
}

// NewPlatformRepository creates a new platform repository
func NewPlatformRepository(db *DB) *PlatformRepository {
	return &PlatformRepository{db: db}
}

// Create creates a new platform
func (r *PlatformRepository) Create(ctx context.Context, p *platform.Platform) error {
	_, err := r.db.pool.Exec(ctx, `
		INSERT INTO platforms (id, name, base_url, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, p.ID, p.Name, p.BaseURL, p.Active, p.CreatedAt, p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert platform: %w", err)
	}
	return nil
}

// GetByID retrieves a platform by ID
func (r *PlatformRepository) GetByID(ctx context.Context, id string) (*platform.Platform, error) {
	var p platform.Platform

	err := r.db.pool.QueryRow(ctx, `
		SELECT id, name, base_url, active, created_at, updated_at
		FROM platforms
		WHERE id = $1
	`, id).Scan(&p.ID, &p.Name, &p.BaseURL, &p.Active, &p.CreatedAt, &p.UpdatedAt)

	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, platform.ErrPlatformNotFound
		}
		return nil, fmt.Errorf("failed to get platform: %w", err)
	}

	return &p, nil
}

// Update replaces a platform's fields
func (r *PlatformRepository) Update(ctx context.Context, p *platform.Platform) error {
	result, err := r.db.pool.Exec(ctx, `
		UPDATE platforms SET
			name = $2,
			base_url = $3,
			active = $4,
			updated_at = NOW()
		WHERE id = $1
	`, p.ID, p.Name, p.BaseURL, p.Active)

	if err != nil {
		return fmt.Errorf("failed to update platform: %w", err)
	}

	if result.RowsAffected() == 0 {
		return platform.ErrPlatformNotFound
	}

	return nil
}

// Delete removes a platform
func (r *PlatformRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.pool.Exec(ctx, `
		DELETE FROM platforms WHERE id = $1
	`, id)

	if err != nil {
		return fmt.Errorf("failed to delete platform: %w", err)
	}

	if result.RowsAffected() == 0 {
		return platform.ErrPlatformNotFound
	}

	return nil
}

// List retrieves all platforms
func (r *PlatformRepository) List(ctx context.Context) ([]*platform.Platform, error) {
	rows, err := r.db.pool.Query(ctx, `
		SELECT id, name, base_url, active, created_at, updated_at
		FROM platforms
		ORDER BY name
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list platforms: %w", err)
	}
	defer rows.Close()

	var platforms []*platform.Platform
	for rows.Next() {
		var p platform.Platform
		if err := rows.Scan(&p.ID, &p.Name, &p.BaseURL, &p.Active, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan platform: %w", err)
		}
		platforms = append(platforms, &p)
	}

	return platforms, rows.Err()
}
