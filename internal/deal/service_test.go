package deal

import (
	"context"
	"testing"

	"github.com/localdeals/localdeals/internal/audit"
	"github.com/localdeals/localdeals/internal/authz"
	"github.com/localdeals/localdeals/internal/shop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type mockRepo struct {
	mock.Mock
}

func (m *mockRepo) Create(ctx context.Context, d *Deal) error {
	args := m.Called(ctx, d)
	return args.Error(0)
}

func (m *mockRepo) GetByID(ctx context.Context, id string) (*Deal, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Deal), args.Error(1)
}

func (m *mockRepo) Update(ctx context.Context, d *Deal) error {
	args := m.Called(ctx, d)
	return args.Error(0)
}

func (m *mockRepo) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockRepo) List(ctx context.Context, limit, offset int) ([]*Deal, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*Deal), args.Error(1)
}

func (m *mockRepo) ListActive(ctx context.Context, limit, offset int) ([]*Deal, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*Deal), args.Error(1)
}

func (m *mockRepo) ListByShop(ctx context.Context, shopID string) ([]*Deal, error) {
	args := m.Called(ctx, shopID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*Deal), args.Error(1)
}

type mockShops struct {
	mock.Mock
}

func (m *mockShops) GetByID(ctx context.Context, id string) (*shop.Shop, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shop.Shop), args.Error(1)
}

type mockAudit struct {
	mock.Mock
}

func (m *mockAudit) Log(ctx context.Context, event audit.Event) {
	m.Called(ctx, event)
}

func newTestService(repo *mockRepo, shops *mockShops) *Service {
	auditLogger := new(mockAudit)
	auditLogger.On("Log", mock.Anything, mock.Anything).Return()
	guard := authz.NewGuard(authz.DefaultMatrix(), auditLogger)
	return NewService(repo, shops, guard, auditLogger)
}

// TestPurpose: Validates that an editor cannot delete a deal while an admin can, per the matrix rows.
// Scope: Unit Test
// Security: deals:delete is withheld from the editor role.
// Expected: Editor delete is denied before any repository access; admin delete succeeds.
// Test Case ID: DEA-03
func TestDeal_Delete_EditorDeniedAdminAllowed(t *testing.T) {
	ctx := context.Background()
	platformID := "platform-1"

	repo := new(mockRepo)
	svc := newTestService(repo, new(mockShops))

	err := svc.Delete(ctx, "deal-1", authz.Actor{ID: "ed-1", Role: authz.RoleEditor})
	assert.ErrorIs(t, err, authz.ErrPermissionDenied)
	repo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)

	repo.On("GetByID", ctx, "deal-1").Return(&Deal{ID: "deal-1", PlatformID: &platformID}, nil)
	repo.On("Delete", ctx, "deal-1").Return(nil)

	err = svc.Delete(ctx, "deal-1", authz.Actor{ID: "adm-1", Role: authz.RoleAdmin})
	assert.NoError(t, err)
	repo.AssertExpectations(t)
}

// TestPurpose: Validates that a dealer may create deals only for shops they own.
// Scope: Unit Test
// Expected: Creation against an owned shop succeeds; against a foreign shop it is denied.
// Test Case ID: DEA-04
func TestDeal_Create_DealerOwnershipEnforced(t *testing.T) {
	ctx := context.Background()
	shopID := "shop-1"
	dealer := authz.Actor{ID: "dealer-1", Role: authz.RoleDealer}
	input := Input{Title: "Two for one", Price: 9.99, IsActive: true, ShopID: &shopID}

	repo := new(mockRepo)
	shops := new(mockShops)
	shops.On("GetByID", ctx, shopID).Return(&shop.Shop{ID: shopID, OwnerID: dealer.ID}, nil)
	repo.On("Create", ctx, mock.MatchedBy(func(d *Deal) bool {
		return d.Title == "Two for one" && d.ShopID != nil && *d.ShopID == shopID
	})).Return(nil)

	svc := newTestService(repo, shops)
	created, err := svc.Create(ctx, input, dealer)
	assert.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	repo.AssertExpectations(t)

	shops = new(mockShops)
	shops.On("GetByID", ctx, shopID).Return(&shop.Shop{ID: shopID, OwnerID: "someone-else"}, nil)
	svc = newTestService(new(mockRepo), shops)

	_, err = svc.Create(ctx, input, dealer)
	assert.ErrorIs(t, err, authz.ErrPermissionDenied)
}

// TestPurpose: Validates the shop/platform reference exclusivity rule.
// Scope: Unit Test
// Expected: Neither-set and both-set inputs are rejected with ErrInvalidReference.
// Test Case ID: DEA-05
func TestDeal_Create_ReferenceExclusivity(t *testing.T) {
	ctx := context.Background()
	shopID := "shop-1"
	platformID := "platform-1"
	admin := authz.Actor{ID: "adm-1", Role: authz.RoleAdmin}

	svc := newTestService(new(mockRepo), new(mockShops))

	_, err := svc.Create(ctx, Input{Title: "X"}, admin)
	assert.ErrorIs(t, err, ErrInvalidReference)

	_, err = svc.Create(ctx, Input{Title: "X", ShopID: &shopID, PlatformID: &platformID}, admin)
	assert.ErrorIs(t, err, ErrInvalidReference)
}

// TestPurpose: Validates that the storefront listing filters out deals that are not orderable.
// Scope: Unit Test
// Expected: Deals of non-active shops are excluded even when their own flag is set.
// Test Case ID: DEA-06
func TestDeal_ListOrderable_FiltersByDerivedVisibility(t *testing.T) {
	ctx := context.Background()
	shopA := "shop-a"
	shopB := "shop-b"
	platformID := "platform-1"

	deals := []*Deal{
		{ID: "d1", IsActive: true, ShopID: &shopA, Shop: &shop.Shop{ID: shopA, Status: shop.StatusActive}},
		{ID: "d2", IsActive: true, ShopID: &shopB, Shop: &shop.Shop{ID: shopB, Status: shop.StatusSuspended}},
		{ID: "d3", IsActive: true, PlatformID: &platformID},
	}

	repo := new(mockRepo)
	repo.On("ListActive", ctx, 50, 0).Return(deals, nil)

	svc := newTestService(repo, new(mockShops))
	got, err := svc.ListOrderable(ctx, 50, 0)

	assert.NoError(t, err)
	assert.Len(t, got, 2)
	assert.Equal(t, "d1", got[0].ID)
	assert.Equal(t, "d3", got[1].ID)
}
