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

package platform

import (
	"context"
	"fmt"
	"time"

	"github.com/localdeals/localdeals/internal/audit"
	"github.com/localdeals/localdeals/internal/authz"
	"github.com/localdeals/localdeals/internal/id"
)

// Service manages affiliate platforms. Every mutation requires
// platforms:manage, which only the admin role carries.
type Service struct {
	repo        Repository
	guard       *authz.Guard
	auditLogger audit.Logger
}

// NewService creates a new platform service
func NewService(repo Repository, guard *authz.Guard, auditLogger audit.Logger) *Service {
	return &Service{
		repo:        repo,
		guard:       guard,
		auditLogger: auditLogger,
	}
}

// Create registers a new affiliate platform.
func (s *Service) Create(ctx context.Context, name, baseURL string, actor authz.Actor) (*Platform, error) {
	if err := s.guard.Authorize(ctx, actor, authz.CapManagePlatforms); err != nil {
		return nil, err
	}
	if name == "" || baseURL == "" {
		return nil, fmt.Errorf("platform name and base URL are required")
	}

	now := time.Now()
	p := &Platform{
		ID:        id.NewUUIDv7(),
		Name:      name,
		BaseURL:   baseURL,
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.Create(ctx, p); err != nil {
		return nil, fmt.Errorf("failed to create platform: %w", err)
	}

	s.auditLogger.Log(ctx, audit.Event{
		Type:     audit.TypePlatformChanged,
		ActorID:  actor.ID,
		Resource: p.ID,
	})

	return p, nil
}

// Update changes a platform's name, URL or active flag.
func (s *Service) Update(ctx context.Context, platformID, name, baseURL string, active bool, actor authz.Actor) (*Platform, error) {
	if err := s.guard.Authorize(ctx, actor, authz.CapManagePlatforms); err != nil {
		return nil, err
	}

	p, err := s.repo.GetByID(ctx, platformID)
	if err != nil {
		return nil, err
	}

	p.Name = name
	p.BaseURL = baseURL
	p.Active = active
	p.UpdatedAt = time.Now()

	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}

	s.auditLogger.Log(ctx, audit.Event{
		Type:     audit.TypePlatformChanged,
		ActorID:  actor.ID,
		Resource: p.ID,
	})

	return p, nil
}

// Delete removes a platform.
func (s *Service) Delete(ctx context.Context, platformID string, actor authz.Actor) error {
	if err := s.guard.Authorize(ctx, actor, authz.CapManagePlatforms); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, platformID); err != nil {
		return err
	}

	s.auditLogger.Log(ctx, audit.Event{
		Type:     audit.TypePlatformChanged,
		ActorID:  actor.ID,
		Resource: platformID,
	})
	return nil
}

// List returns all platforms. Requires platforms:manage; the public never
// sees platforms directly, only the deals referencing them.
func (s *Service) List(ctx context.Context, actor authz.Actor) ([]*Platform, error) {
	if err := s.guard.Authorize(ctx, actor, authz.CapManagePlatforms); err != nil {
		return nil, err
	}
	return s.repo.List(ctx)
}
