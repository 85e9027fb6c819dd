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
	"github.com/localdeals/localdeals/internal/settings"
)

// SettingsRepository implements settings.Repository
type SettingsRepository struct {
	db *DB
}

// NewSettingsRepository creates a new settings repository
func NewSettingsRepository(db *DB) *SettingsRepository {
	return &SettingsRepository{db: db}
}

// Get retrieves a setting by key
func (r *SettingsRepository) Get(ctx context.Context, key string) (*settings.Setting, error) {
	var s settings.Setting

	err := r.db.pool.QueryRow(ctx, `
		SELECT key, value, updated_at, updated_by
		FROM site_settings
		WHERE key = $1
	`, key).Scan(&s.Key, &s.Value, &s.UpdatedAt, &s.UpdatedBy)

	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, settings.ErrSettingNotFound
		}
		return nil, fmt.Errorf("failed to get setting: %w", err)
	}

	return &s, nil
}

// Set stores a setting value, inserting the key if it does not exist
func (r *SettingsRepository) Set(ctx context.Context, s *settings.Setting) error {
	_, err := r.db.pool.Exec(ctx, `
		INSERT INTO site_settings (key, value, updated_at, updated_by)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (key) DO UPDATE
		SET value = EXCLUDED.value,
			updated_at = EXCLUDED.updated_at,
			updated_by = EXCLUDED.updated_by
	`, s.Key, s.Value, s.UpdatedAt, s.UpdatedBy)

	if err != nil {
		return fmt.Errorf("failed to set setting: %w", err)
	}

	return nil
}

// List retrieves all settings
func (r *SettingsRepository) List(ctx context.Context) ([]*settings.Setting, error) {
	rows, err := r.db.pool.Query(ctx, `
		SELECT key, value, updated_at, updated_by
		FROM site_settings
		ORDER BY key
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list settings: %w", err)
	}
	defer rows.Close()

	var out []*settings.Setting
	for rows.Next() {
		var s settings.Setting
		if err := rows.Scan(&s.Key, &s.Value, &s.UpdatedAt, &s.UpdatedBy); err != nil {
			return nil, fmt.Errorf("failed to scan setting: %w", err)
		}
		out = append(out, &s)
	}

	return out, rows.Err()
}
