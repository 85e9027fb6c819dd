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

//go:build integration
// +build integration

package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/localdeals/localdeals/internal/authz"
	"github.com/localdeals/localdeals/internal/deal"
	"github.com/localdeals/localdeals/internal/id"
	"github.com/localdeals/localdeals/internal/identity"
	"github.com/localdeals/localdeals/internal/order"
	"github.com/localdeals/localdeals/internal/shop"
)

func testDB(t *testing.T) *DB {
	t.Helper()

	ctx := context.Background()
	cfg := Config{
		Host:         "localhost",
		Port:         "5432",
		User:         "localdeals",
		Password:     "localdeals_dev_password",
		Database:     "localdeals",
		SSLMode:      "disable",
		MaxOpenConns: 5,
		MaxIdleConns: 5,
	}

	db, err := New(ctx, cfg)
	if err != nil {
		t.Skipf("Skipping integration test: failed to connect to database: %v", err)
	}
	t.Cleanup(db.Close)

	if err := db.MigrateInitial(ctx); err != nil {
		t.Fatalf("failed to apply schema: %v", err)
	}

	return db
}

// TestPurpose: Validates that the conditional status write applies exactly once and the second writer observing a stale status loses.
// Scope: Database Integration Test
// Concurrency: Compare-and-set on the status column is the only write path for shop transitions.
// Expected: The first update succeeds; a second update carrying the stale expected status fails with ErrConcurrentModification.
// Test Case ID: PGS-01
func TestShopRepository_UpdateStatusCompareAndSet(t *testing.T) {
	ctx := context.Background()
	db := testDB(t)

	users := NewUserRepository(db)
	owner := &identity.User{ID: id.NewUUIDv7(), Email: id.NewUUIDv7() + "@example.com", Role: authz.RoleDealer}
	if err := users.Create(owner); err != nil {
		t.Fatalf("failed to create owner: %v", err)
	}
	defer db.pool.Exec(ctx, "DELETE FROM users WHERE id = $1", owner.ID)

	repo := NewShopRepository(db)
	s := &shop.Shop{
		ID:      id.NewUUIDv7(),
		OwnerID: owner.ID,
		Name:    "CAS Test Shop",
		Status:  shop.StatusPending,
	}
	if err := repo.Create(ctx, s); err != nil {
		t.Fatalf("failed to create shop: %v", err)
	}
	defer db.pool.Exec(ctx, "DELETE FROM shops WHERE id = $1", s.ID)

	// First writer wins.
	err := repo.UpdateStatus(ctx, shop.StatusUpdate{
		ShopID:   s.ID,
		Expected: shop.StatusPending,
		Target:   shop.StatusActive,
	})
	if err != nil {
		t.Fatalf("first update failed: %v", err)
	}

	// Second writer still expects pending and must lose.
	err = repo.UpdateStatus(ctx, shop.StatusUpdate{
		ShopID:   s.ID,
		Expected: shop.StatusPending,
		Target:   shop.StatusRejected,
	})
	if err != shop.ErrConcurrentModification {
		t.Errorf("expected ErrConcurrentModification, got %v", err)
	}

	// Unknown shop is reported as not found, not as a lost race.
	err = repo.UpdateStatus(ctx, shop.StatusUpdate{
		ShopID:   id.NewUUIDv7(),
		Expected: shop.StatusPending,
		Target:   shop.StatusActive,
	})
	if err != shop.ErrShopNotFound {
		t.Errorf("expected ErrShopNotFound, got %v", err)
	}

	got, err := repo.GetByID(ctx, s.ID)
	if err != nil {
		t.Fatalf("failed to reload shop: %v", err)
	}
	if got.Status != shop.StatusActive {
		t.Errorf("expected status active after lost race, got %s", got.Status)
	}
}

// TestPurpose: Validates that listing a shop's orders pages newest-first with limit and offset.
// Scope: Database Integration Test
// Expected: A limit of 2 returns the two newest orders; offset 2 returns the remaining one.
// Test Case ID: PGS-02
func TestOrderRepository_ListByShopPagination(t *testing.T) {
	ctx := context.Background()
	db := testDB(t)

	users := NewUserRepository(db)
	owner := &identity.User{ID: id.NewUUIDv7(), Email: id.NewUUIDv7() + "@example.com", Role: authz.RoleDealer}
	if err := users.Create(owner); err != nil {
		t.Fatalf("failed to create owner: %v", err)
	}
	defer db.pool.Exec(ctx, "DELETE FROM users WHERE id = $1", owner.ID)

	shops := NewShopRepository(db)
	s := &shop.Shop{ID: id.NewUUIDv7(), OwnerID: owner.ID, Name: "Pagination Shop", Status: shop.StatusActive}
	if err := shops.Create(ctx, s); err != nil {
		t.Fatalf("failed to create shop: %v", err)
	}
	defer db.pool.Exec(ctx, "DELETE FROM shops WHERE id = $1", s.ID)

	dealRepo := NewDealRepository(db)
	d := &deal.Deal{ID: id.NewUUIDv7(), Title: "Pagination Deal", Price: 1.00, IsActive: true, ShopID: &s.ID}
	if err := dealRepo.Create(ctx, d); err != nil {
		t.Fatalf("failed to create deal: %v", err)
	}
	defer db.pool.Exec(ctx, "DELETE FROM deals WHERE id = $1", d.ID)

	orders := NewOrderRepository(db)
	ids := make([]string, 3)
	for i := range ids {
		o := &order.Order{
			ID:       id.NewUUIDv7(),
			DealID:   d.ID,
			ShopID:   s.ID,
			Status:   order.StatusPending,
			Customer: order.Contact{Email: "page@example.com"},
			Quantity: 1,
		}
		if err := orders.Create(ctx, o); err != nil {
			t.Fatalf("failed to create order %d: %v", i, err)
		}
		ids[i] = o.ID
		defer db.pool.Exec(ctx, "DELETE FROM orders WHERE id = $1", o.ID)
		time.Sleep(10 * time.Millisecond)
	}

	firstPage, err := orders.ListByShop(ctx, s.ID, 2, 0)
	if err != nil {
		t.Fatalf("failed to list first page: %v", err)
	}
	if len(firstPage) != 2 {
		t.Fatalf("expected 2 orders on first page, got %d", len(firstPage))
	}
	if firstPage[0].ID != ids[2] || firstPage[1].ID != ids[1] {
		t.Errorf("expected newest-first ordering, got %s, %s", firstPage[0].ID, firstPage[1].ID)
	}

	secondPage, err := orders.ListByShop(ctx, s.ID, 2, 2)
	if err != nil {
		t.Fatalf("failed to list second page: %v", err)
	}
	if len(secondPage) != 1 || secondPage[0].ID != ids[0] {
		t.Errorf("expected the oldest order on the second page, got %v", secondPage)
	}
}
