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

package shop

import (
	"context"
	"fmt"
	"time"

	"github.com/localdeals/localdeals/internal/audit"
	"github.com/localdeals/localdeals/internal/authz"
	"github.com/localdeals/localdeals/internal/id"
)

// Service provides shop registration, profile management and the
// activation lifecycle.
type Service struct {
	repo        Repository
	guard       *authz.Guard
	auditLogger audit.Logger
}

// NewService creates a new shop service
func NewService(repo Repository, guard *authz.Guard, auditLogger audit.Logger) *Service {
	return &Service{
		repo:        repo,
		guard:       guard,
		auditLogger: auditLogger,
	}
}

// Register creates a new shop in StatusPending, owned by the registering
// actor. Requires shops:create.
func (s *Service) Register(ctx context.Context, actor authz.Actor, profile Profile) (*Shop, error) {
	if err := s.guard.Authorize(ctx, actor, authz.CapShopsCreate); err != nil {
		return nil, err
	}
	if profile.Name == "" {
		return nil, fmt.Errorf("shop name is required")
	}

	now := time.Now()
	shop := &Shop{
		ID:          id.NewUUIDv7(),
		OwnerID:     actor.ID,
		Name:        profile.Name,
		Description: profile.Description,
		Address:     profile.Address,
		Phone:       profile.Phone,
		Status:      StatusPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.Create(ctx, shop); err != nil {
		return nil, fmt.Errorf("failed to create shop: %w", err)
	}

	s.auditLogger.Log(ctx, audit.Event{
		Type:     audit.TypeShopRegistered,
		ActorID:  actor.ID,
		Resource: shop.ID,
	})

	return shop, nil
}

// Transition moves a shop to the target status. Shop status changes are an
// admin-only sub-capability: the actor needs shops:edit AND the admin role,
// which is stricter than profile editing (a dealer holds shops:edit too).
//
// Any status may transition to any other status; in particular
// rejected -> active and suspended -> active are allowed so an admin can
// re-activate a shop without a fresh registration. ActivatedAt/ActivatedBy
// are stamped only when the target is StatusActive. Notes and the payment
// reference are administrative annotations stored verbatim for any target.
//
// The permission check strictly precedes status validation, which strictly
// precedes the write: a denied actor can never cause a partial mutation.
func (s *Service) Transition(ctx context.Context, shopID string, target Status, actor authz.Actor, notes, paymentRef *string) (*Shop, error) {
	if err := s.guard.Authorize(ctx, actor, authz.CapShopsEdit); err != nil {
		return nil, err
	}
	if actor.Role != authz.RoleAdmin {
		s.auditLogger.Log(ctx, audit.Event{
			Type:     audit.TypePermissionDenied,
			ActorID:  actor.ID,
			Resource: shopID,
			Metadata: map[string]any{
				audit.AttrRole:   string(actor.Role),
				audit.AttrReason: "shop status change is admin-only",
			},
		})
		return nil, authz.ErrPermissionDenied
	}

	if !target.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidStatus, target)
	}

	current, err := s.repo.GetByID(ctx, shopID)
	if err != nil {
		return nil, err
	}

	update := StatusUpdate{
		ShopID:           shopID,
		Expected:         current.Status,
		Target:           target,
		ActivationNotes:  notes,
		PaymentReference: paymentRef,
	}
	if target == StatusActive {
		now := time.Now()
		update.ActivatedAt = &now
		update.ActivatedBy = &actor.ID
	}

	if err := s.repo.UpdateStatus(ctx, update); err != nil {
		return nil, err
	}

	s.auditLogger.Log(ctx, audit.Event{
		Type:     audit.TypeShopStatusChanged,
		ActorID:  actor.ID,
		Resource: shopID,
		Metadata: map[string]any{
			audit.AttrFromStatus: string(current.Status),
			audit.AttrToStatus:   string(target),
		},
	})

	updated := *current
	updated.Status = target
	if notes != nil {
		updated.ActivationNotes = *notes
	}
	if paymentRef != nil {
		updated.PaymentReference = *paymentRef
	}
	if update.ActivatedAt != nil {
		updated.ActivatedAt = update.ActivatedAt
		updated.ActivatedBy = actor.ID
	}
	return &updated, nil
}

// UpdateProfile updates a shop's dealer-editable fields. Requires
// shops:edit; a dealer may only edit shops they own, an admin may edit any.
// Status is never touched here.
func (s *Service) UpdateProfile(ctx context.Context, shopID string, profile Profile, actor authz.Actor) (*Shop, error) {
	if err := s.guard.Authorize(ctx, actor, authz.CapShopsEdit); err != nil {
		return nil, err
	}

	current, err := s.repo.GetByID(ctx, shopID)
	if err != nil {
		return nil, err
	}
	if actor.Role != authz.RoleAdmin && current.OwnerID != actor.ID {
		s.auditLogger.Log(ctx, audit.Event{
			Type:     audit.TypePermissionDenied,
			ActorID:  actor.ID,
			Resource: shopID,
			Metadata: map[string]any{audit.AttrReason: "not shop owner"},
		})
		return nil, authz.ErrPermissionDenied
	}

	if err := s.repo.UpdateProfile(ctx, shopID, profile); err != nil {
		return nil, err
	}

	s.auditLogger.Log(ctx, audit.Event{
		Type:     audit.TypeShopProfileUpdated,
		ActorID:  actor.ID,
		Resource: shopID,
	})

	updated := *current
	updated.Name = profile.Name
	updated.Description = profile.Description
	updated.Address = profile.Address
	updated.Phone = profile.Phone
	return &updated, nil
}

// Get retrieves a shop by ID. Reads are not gated; visibility of the
// shop's deals is derived separately by the deal package.
func (s *Service) Get(ctx context.Context, shopID string) (*Shop, error) {
	return s.repo.GetByID(ctx, shopID)
}

// ListByOwner retrieves all shops owned by the given actor.
func (s *Service) ListByOwner(ctx context.Context, ownerID string) ([]*Shop, error) {
	return s.repo.ListByOwner(ctx, ownerID)
}

// List retrieves shops, optionally filtered by status. Requires shops:read
// since the unfiltered listing exposes pending and rejected shops.
func (s *Service) List(ctx context.Context, actor authz.Actor, status *Status, limit, offset int) ([]*Shop, error) {
	if err := s.guard.Authorize(ctx, actor, authz.CapShopsRead); err != nil {
		return nil, err
	}
	if status != nil && !status.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidStatus, *status)
	}
	return s.repo.List(ctx, status, limit, offset)
}
