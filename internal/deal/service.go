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

package deal

import (
	"context"
	"fmt"
	"time"

	"github.com/localdeals/localdeals/internal/audit"
	"github.com/localdeals/localdeals/internal/authz"
	"github.com/localdeals/localdeals/internal/id"
	"github.com/localdeals/localdeals/internal/shop"
)

// ShopDirectory resolves a shop for ownership checks.
type ShopDirectory interface {
	GetByID(ctx context.Context, id string) (*shop.Shop, error)
}

// Service provides deal management gated by the permission matrix.
type Service struct {
	repo        Repository
	shops       ShopDirectory
	guard       *authz.Guard
	auditLogger audit.Logger
}

// NewService creates a new deal service
func NewService(repo Repository, shops ShopDirectory, guard *authz.Guard, auditLogger audit.Logger) *Service {
	return &Service{
		repo:        repo,
		shops:       shops,
		guard:       guard,
		auditLogger: auditLogger,
	}
}

// Create creates a deal. Requires deals:create; a dealer may only attach
// deals to shops they own. Exactly one of ShopID and PlatformID must be set.
func (s *Service) Create(ctx context.Context, input Input, actor authz.Actor) (*Deal, error) {
	if err := s.guard.Authorize(ctx, actor, authz.CapDealsCreate); err != nil {
		return nil, err
	}
	if err := validateReference(input); err != nil {
		return nil, err
	}
	if input.Title == "" {
		return nil, fmt.Errorf("deal title is required")
	}

	if input.ShopID != nil {
		if err := s.requireShopAccess(ctx, *input.ShopID, actor); err != nil {
			return nil, err
		}
	}

	now := time.Now()
	d := &Deal{
		ID:          id.NewUUIDv7(),
		Title:       input.Title,
		Description: input.Description,
		Price:       input.Price,
		IsActive:    input.IsActive,
		ShopID:      input.ShopID,
		PlatformID:  input.PlatformID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.Create(ctx, d); err != nil {
		return nil, fmt.Errorf("failed to create deal: %w", err)
	}

	s.auditLogger.Log(ctx, audit.Event{
		Type:     audit.TypeDealCreated,
		ActorID:  actor.ID,
		Resource: d.ID,
	})

	return d, nil
}

// Update replaces a deal's editable fields. Requires deals:edit; dealers
// are restricted to deals of shops they own. The shop/platform reference
// is immutable after creation.
func (s *Service) Update(ctx context.Context, dealID string, input Input, actor authz.Actor) (*Deal, error) {
	if err := s.guard.Authorize(ctx, actor, authz.CapDealsEdit); err != nil {
		return nil, err
	}

	d, err := s.repo.GetByID(ctx, dealID)
	if err != nil {
		return nil, err
	}
	if d.ShopID != nil {
		if err := s.requireShopAccess(ctx, *d.ShopID, actor); err != nil {
			return nil, err
		}
	}

	d.Title = input.Title
	d.Description = input.Description
	d.Price = input.Price
	d.IsActive = input.IsActive
	d.UpdatedAt = time.Now()

	if err := s.repo.Update(ctx, d); err != nil {
		return nil, err
	}

	s.auditLogger.Log(ctx, audit.Event{
		Type:     audit.TypeDealUpdated,
		ActorID:  actor.ID,
		Resource: d.ID,
	})

	return d, nil
}

// Delete removes a deal. Requires deals:delete (admin and dealer only per
// the matrix); dealers are restricted to deals of shops they own.
func (s *Service) Delete(ctx context.Context, dealID string, actor authz.Actor) error {
	if err := s.guard.Authorize(ctx, actor, authz.CapDealsDelete); err != nil {
		return err
	}

	d, err := s.repo.GetByID(ctx, dealID)
	if err != nil {
		return err
	}
	if d.ShopID != nil {
		if err := s.requireShopAccess(ctx, *d.ShopID, actor); err != nil {
			return err
		}
	}

	if err := s.repo.Delete(ctx, dealID); err != nil {
		return err
	}

	s.auditLogger.Log(ctx, audit.Event{
		Type:     audit.TypeDealDeleted,
		ActorID:  actor.ID,
		Resource: dealID,
	})

	return nil
}

// Get retrieves a deal with its shop resolved.
func (s *Service) Get(ctx context.Context, dealID string) (*Deal, error) {
	return s.repo.GetByID(ctx, dealID)
}

// ListOrderable returns the storefront listing: deals a customer may order
// right now. Orderability is derived here, on every call.
func (s *Service) ListOrderable(ctx context.Context, limit, offset int) ([]*Deal, error) {
	deals, err := s.repo.ListActive(ctx, limit, offset)
	if err != nil {
		return nil, err
	}
	orderable := make([]*Deal, 0, len(deals))
	for _, d := range deals {
		if IsOrderable(d) {
			orderable = append(orderable, d)
		}
	}
	return orderable, nil
}

// ListByShop returns the orderable deals of a single shop for its public
// storefront page. The shop must exist; its status gates every deal.
func (s *Service) ListByShop(ctx context.Context, shopID string) ([]*Deal, error) {
	if _, err := s.shops.GetByID(ctx, shopID); err != nil {
		return nil, err
	}
	deals, err := s.repo.ListByShop(ctx, shopID)
	if err != nil {
		return nil, err
	}
	orderable := make([]*Deal, 0, len(deals))
	for _, d := range deals {
		if IsOrderable(d) {
			orderable = append(orderable, d)
		}
	}
	return orderable, nil
}

// List returns all deals including inactive ones and deals of non-active
// shops. Requires deals:read since it exposes unpublished inventory.
func (s *Service) List(ctx context.Context, actor authz.Actor, limit, offset int) ([]*Deal, error) {
	if err := s.guard.Authorize(ctx, actor, authz.CapDealsRead); err != nil {
		return nil, err
	}
	return s.repo.List(ctx, limit, offset)
}

// requireShopAccess denies dealers that do not own the shop. Admins and
// editors pass; they already carried the capability check.
func (s *Service) requireShopAccess(ctx context.Context, shopID string, actor authz.Actor) error {
	if actor.Role != authz.RoleDealer {
		return nil
	}
	sh, err := s.shops.GetByID(ctx, shopID)
	if err != nil {
		return err
	}
	if sh.OwnerID != actor.ID {
		s.auditLogger.Log(ctx, audit.Event{
			Type:     audit.TypePermissionDenied,
			ActorID:  actor.ID,
			Resource: shopID,
			Metadata: map[string]any{audit.AttrReason: "not shop owner"},
		})
		return authz.ErrPermissionDenied
	}
	return nil
}

func validateReference(input Input) error {
	if (input.ShopID == nil) == (input.PlatformID == nil) {
		return ErrInvalidReference
	}
	return nil
}
