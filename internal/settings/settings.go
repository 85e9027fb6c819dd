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

package settings

import (
	"context"
	"errors"
	"time"

	"github.com/localdeals/localdeals/internal/audit"
	"github.com/localdeals/localdeals/internal/authz"
)

// ErrSettingNotFound is returned when a setting key does not exist.
var ErrSettingNotFound = errors.New("setting not found")

// Well-known setting keys seeded by the initial schema.
const (
	KeySiteTitle        = "site_title"
	KeyContactEmail     = "contact_email"
	KeyDealsPerPage     = "deals_per_page"
	KeyMaintenanceLabel = "maintenance_label"
)

// Setting is a single site-wide configuration entry.
type Setting struct {
	Key       string
	Value     string
	UpdatedAt time.Time
	UpdatedBy string
}

// Repository defines the interface for settings storage
type Repository interface {
	Get(ctx context.Context, key string) (*Setting, error)
	Set(ctx context.Context, setting *Setting) error
	List(ctx context.Context) ([]*Setting, error)
}

// Service manages site settings. Reads are public (templates need them);
// writes require settings:manage.
type Service struct {
	repo        Repository
	guard       *authz.Guard
	auditLogger audit.Logger
}

// NewService creates a new settings service
func NewService(repo Repository, guard *authz.Guard, auditLogger audit.Logger) *Service {
	return &Service{
		repo:        repo,
		guard:       guard,
		auditLogger: auditLogger,
	}
}

// Get retrieves a setting by key.
func (s *Service) Get(ctx context.Context, key string) (*Setting, error) {
	return s.repo.Get(ctx, key)
}

// List retrieves all settings.
func (s *Service) List(ctx context.Context) ([]*Setting, error) {
	return s.repo.List(ctx)
}

// Set stores a setting value. Requires settings:manage.
func (s *Service) Set(ctx context.Context, key, value string, actor authz.Actor) (*Setting, error) {
	if err := s.guard.Authorize(ctx, actor, authz.CapManageSettings); err != nil {
		return nil, err
	}

	setting := &Setting{
		Key:       key,
		Value:     value,
		UpdatedAt: time.Now(),
		UpdatedBy: actor.ID,
	}
	if err := s.repo.Set(ctx, setting); err != nil {
		return nil, err
	}

	s.auditLogger.Log(ctx, audit.Event{
		Type:     audit.TypeSettingUpdated,
		ActorID:  actor.ID,
		Resource: key,
	})

	return setting, nil
}
