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

package order

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/localdeals/localdeals/internal/audit"
	"github.com/localdeals/localdeals/internal/authz"
	"github.com/localdeals/localdeals/internal/deal"
	"github.com/localdeals/localdeals/internal/id"
	"github.com/localdeals/localdeals/internal/shop"
)

// ShopDirectory resolves a shop for ownership checks.
type ShopDirectory interface {
	GetByID(ctx context.Context, id string) (*shop.Shop, error)
}

// DealCatalog resolves a deal (with its shop attached) for order placement.
type DealCatalog interface {
	GetByID(ctx context.Context, id string) (*deal.Deal, error)
}

// Service provides order placement and the fulfillment lifecycle.
type Service struct {
	repo        Repository
	shops       ShopDirectory
	deals       DealCatalog
	auditLogger audit.Logger
}

// NewService creates a new order service
func NewService(repo Repository, shops ShopDirectory, deals DealCatalog, auditLogger audit.Logger) *Service {
	return &Service{
		repo:        repo,
		shops:       shops,
		deals:       deals,
		auditLogger: auditLogger,
	}
}

// Place creates a pending order against an orderable deal. Placement is a
// customer action and needs no role; orderability is derived at this very
// read, so a deal whose shop was suspended a moment ago is already closed.
func (s *Service) Place(ctx context.Context, dealID string, customer Contact, quantity int) (*Order, error) {
	if quantity < 1 {
		return nil, fmt.Errorf("quantity must be at least 1")
	}
	if customer.Email == "" {
		return nil, fmt.Errorf("customer email is required")
	}

	d, err := s.deals.GetByID(ctx, dealID)
	if err != nil {
		return nil, err
	}
	if !deal.IsOrderable(d) {
		return nil, ErrDealNotOrderable
	}
	if d.ShopID == nil {
		// Affiliate deals are fulfilled by the external platform; local
		// orders exist only for shop-backed deals.
		return nil, ErrDealNotOrderable
	}

	now := time.Now()
	ord := &Order{
		ID:          id.NewUUIDv7(),
		DealID:      d.ID,
		ShopID:      *d.ShopID,
		Status:      StatusPending,
		Customer:    customer,
		Quantity:    quantity,
		TotalAmount: d.Price * float64(quantity),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.Create(ctx, ord); err != nil {
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	s.auditLogger.Log(ctx, audit.Event{
		Type:     audit.TypeOrderPlaced,
		Resource: ord.ID,
		Metadata: map[string]any{audit.AttrDealID: d.ID, audit.AttrShopID: ord.ShopID},
	})

	return ord, nil
}

// Advance moves an order to the target status. Only an admin or the owner
// of the fulfilling shop may advance an order; a dealer who does not own
// the shop is denied like any other actor. The permission check strictly
// precedes transition validation, which strictly precedes the write.
//
// Allowed transitions: pending -> confirmed, confirmed -> delivered,
// pending -> cancelled. Delivered and cancelled are terminal.
func (s *Service) Advance(ctx context.Context, orderID string, target Status, actor authz.Actor) (*Order, error) {
	ord, err := s.repo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if err := s.authorizeAdvance(ctx, ord, actor); err != nil {
		return nil, err
	}
	if err := ValidateTransition(ord.Status, target); err != nil {
		return nil, err
	}

	return s.commit(ctx, ord, target, actor.ID)
}

// CancelByCustomer is the unauthenticated cancellation path for the
// originating customer. The caller-supplied email must match the contact
// stored on the order, and only a pending order may be cancelled.
func (s *Service) CancelByCustomer(ctx context.Context, orderID, email string) (*Order, error) {
	ord, err := s.repo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if !strings.EqualFold(ord.Customer.Email, email) {
		s.auditLogger.Log(ctx, audit.Event{
			Type:     audit.TypePermissionDenied,
			Resource: orderID,
			Metadata: map[string]any{audit.AttrReason: "customer email mismatch"},
		})
		return nil, authz.ErrPermissionDenied
	}
	if err := ValidateTransition(ord.Status, StatusCancelled); err != nil {
		return nil, err
	}

	return s.commit(ctx, ord, StatusCancelled, "customer")
}

// Get retrieves an order. Only an admin, the owning dealer, or a caller
// presenting the customer email may read it.
func (s *Service) Get(ctx context.Context, orderID string, actor authz.Actor) (*Order, error) {
	ord, err := s.repo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if err := s.authorizeAdvance(ctx, ord, actor); err != nil {
		return nil, err
	}
	return ord, nil
}

// ListByShop retrieves a shop's orders for its owner or an admin.
func (s *Service) ListByShop(ctx context.Context, shopID string, actor authz.Actor, limit, offset int) ([]*Order, error) {
	sh, err := s.shops.GetByID(ctx, shopID)
	if err != nil {
		return nil, err
	}
	if actor.Role != authz.RoleAdmin && !(actor.Role == authz.RoleDealer && actor.ID == sh.OwnerID) {
		return nil, authz.ErrPermissionDenied
	}
	return s.repo.ListByShop(ctx, shopID, limit, offset)
}

// authorizeAdvance checks the order-lifecycle role gate: admin, or the
// dealer owning the fulfilling shop.
func (s *Service) authorizeAdvance(ctx context.Context, ord *Order, actor authz.Actor) error {
	if actor.Role == authz.RoleAdmin {
		return nil
	}
	if actor.Role == authz.RoleDealer {
		sh, err := s.shops.GetByID(ctx, ord.ShopID)
		if err != nil {
			return err
		}
		if sh.OwnerID == actor.ID {
			return nil
		}
	}

	s.auditLogger.Log(ctx, audit.Event{
		Type:     audit.TypePermissionDenied,
		ActorID:  actor.ID,
		Resource: ord.ID,
		Metadata: map[string]any{audit.AttrRole: string(actor.Role)},
	})
	return authz.ErrPermissionDenied
}

// commit performs the conditional write and returns the updated order.
func (s *Service) commit(ctx context.Context, ord *Order, target Status, actorID string) (*Order, error) {
	update := StatusUpdate{
		OrderID:  ord.ID,
		Expected: ord.Status,
		Target:   target,
	}
	if err := s.repo.UpdateStatus(ctx, update); err != nil {
		return nil, err
	}

	s.auditLogger.Log(ctx, audit.Event{
		Type:     audit.TypeOrderStatusChanged,
		ActorID:  actorID,
		Resource: ord.ID,
		Metadata: map[string]any{
			audit.AttrFromStatus: string(ord.Status),
			audit.AttrToStatus:   string(target),
		},
	})

	updated := *ord
	updated.Status = target
	updated.UpdatedAt = time.Now()
	return &updated, nil
}
