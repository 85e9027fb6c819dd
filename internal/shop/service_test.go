package shop

import (
	"context"
	"testing"

	"github.com/localdeals/localdeals/internal/audit"
	"github.com/localdeals/localdeals/internal/authz"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type mockRepo struct {
	mock.Mock
}

func (m *mockRepo) Create(ctx context.Context, s *Shop) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}

func (m *mockRepo) GetByID(ctx context.Context, id string) (*Shop, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Shop), args.Error(1)
}

func (m *mockRepo) ListByOwner(ctx context.Context, ownerID string) ([]*Shop, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*Shop), args.Error(1)
}

func (m *mockRepo) List(ctx context.Context, status *Status, limit, offset int) ([]*Shop, error) {
	args := m.Called(ctx, status, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*Shop), args.Error(1)
}

func (m *mockRepo) UpdateProfile(ctx context.Context, id string, profile Profile) error {
	args := m.Called(ctx, id, profile)
	return args.Error(0)
}

func (m *mockRepo) UpdateStatus(ctx context.Context, update StatusUpdate) error {
	args := m.Called(ctx, update)
	return args.Error(0)
}

type mockAudit struct {
	mock.Mock
}

func (m *mockAudit) Log(ctx context.Context, event audit.Event) {
	m.Called(ctx, event)
}

func newTestService(repo *mockRepo) *Service {
	auditLogger := new(mockAudit)
	auditLogger.On("Log", mock.Anything, mock.Anything).Return()
	guard := authz.NewGuard(authz.DefaultMatrix(), auditLogger)
	return NewService(repo, guard, auditLogger)
}

var admin = authz.Actor{ID: "admin-1", Role: authz.RoleAdmin}

// TestPurpose: Validates that an admin can transition a shop between any pair of the four statuses.
// Scope: Unit Test
// Expected: Every from->to pair succeeds for the admin role.
// Test Case ID: SHP-01
func TestShop_Transition_AdminAnyPair(t *testing.T) {
	ctx := context.Background()

	for _, from := range Statuses {
		for _, to := range Statuses {
			repo := new(mockRepo)
			repo.On("GetByID", ctx, "shop-1").Return(&Shop{ID: "shop-1", Status: from}, nil)
			repo.On("UpdateStatus", ctx, mock.MatchedBy(func(u StatusUpdate) bool {
				return u.Expected == from && u.Target == to
			})).Return(nil)

			svc := newTestService(repo)
			updated, err := svc.Transition(ctx, "shop-1", to, admin, nil, nil)

			assert.NoError(t, err, "transition %s -> %s", from, to)
			assert.Equal(t, to, updated.Status)
			repo.AssertExpectations(t)
		}
	}
}

// TestPurpose: Validates that shop status transitions are rejected for every non-admin role.
// Scope: Unit Test
// Security: Status change is a stricter sub-capability than shops:edit (dealer holds shops:edit but must be denied).
// Expected: ErrPermissionDenied for editor, dealer, news_writer and user; the repository is never written.
// Test Case ID: SHP-02
func TestShop_Transition_NonAdminDenied(t *testing.T) {
	ctx := context.Background()

	for _, role := range []authz.Role{authz.RoleEditor, authz.RoleDealer, authz.RoleNewsWriter, authz.RoleUser} {
		repo := new(mockRepo)
		svc := newTestService(repo)

		_, err := svc.Transition(ctx, "shop-1", StatusActive, authz.Actor{ID: "u1", Role: role}, nil, nil)

		assert.ErrorIs(t, err, authz.ErrPermissionDenied, "role %s", role)
		repo.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything)
		repo.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
	}
}

// TestPurpose: Validates that a target status outside the closed enum is rejected before any read or write.
// Scope: Unit Test
// Expected: ErrInvalidStatus; no repository access.
// Test Case ID: SHP-03
func TestShop_Transition_InvalidTargetStatus(t *testing.T) {
	repo := new(mockRepo)
	svc := newTestService(repo)

	_, err := svc.Transition(context.Background(), "shop-1", Status("archived"), admin, nil, nil)

	assert.ErrorIs(t, err, ErrInvalidStatus)
	repo.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
	repo.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything)
}

// TestPurpose: Validates that activation stamps ActivatedAt/ActivatedBy and that other targets do not.
// Scope: Unit Test
// Expected: Transition into active carries the activation stamp; transition into suspended carries none.
// Test Case ID: SHP-04
func TestShop_Transition_ActivationStamp(t *testing.T) {
	ctx := context.Background()

	repo := new(mockRepo)
	repo.On("GetByID", ctx, "shop-1").Return(&Shop{ID: "shop-1", Status: StatusPending}, nil)
	repo.On("UpdateStatus", ctx, mock.MatchedBy(func(u StatusUpdate) bool {
		return u.Target == StatusActive && u.ActivatedAt != nil && u.ActivatedBy != nil && *u.ActivatedBy == admin.ID
	})).Return(nil)

	svc := newTestService(repo)
	updated, err := svc.Transition(ctx, "shop-1", StatusActive, admin, nil, nil)
	assert.NoError(t, err)
	assert.NotNil(t, updated.ActivatedAt)
	assert.Equal(t, admin.ID, updated.ActivatedBy)
	repo.AssertExpectations(t)

	repo = new(mockRepo)
	repo.On("GetByID", ctx, "shop-1").Return(&Shop{ID: "shop-1", Status: StatusActive}, nil)
	repo.On("UpdateStatus", ctx, mock.MatchedBy(func(u StatusUpdate) bool {
		return u.Target == StatusSuspended && u.ActivatedAt == nil && u.ActivatedBy == nil
	})).Return(nil)

	svc = newTestService(repo)
	_, err = svc.Transition(ctx, "shop-1", StatusSuspended, admin, nil, nil)
	assert.NoError(t, err)
	repo.AssertExpectations(t)
}

// TestPurpose: Validates that notes and payment reference are stored verbatim regardless of target status.
// Scope: Unit Test
// Expected: Both annotations are passed to the store on a transition into rejected.
// Test Case ID: SHP-05
func TestShop_Transition_AnnotationsNotStateGated(t *testing.T) {
	ctx := context.Background()
	notes := "missing trade register extract"
	payRef := "INV-2026-0042"

	repo := new(mockRepo)
	repo.On("GetByID", ctx, "shop-1").Return(&Shop{ID: "shop-1", Status: StatusPending}, nil)
	repo.On("UpdateStatus", ctx, mock.MatchedBy(func(u StatusUpdate) bool {
		return u.Target == StatusRejected &&
			u.ActivationNotes != nil && *u.ActivationNotes == notes &&
			u.PaymentReference != nil && *u.PaymentReference == payRef
	})).Return(nil)

	svc := newTestService(repo)
	updated, err := svc.Transition(ctx, "shop-1", StatusRejected, admin, &notes, &payRef)

	assert.NoError(t, err)
	assert.Equal(t, notes, updated.ActivationNotes)
	assert.Equal(t, payRef, updated.PaymentReference)
	repo.AssertExpectations(t)
}

// TestPurpose: Validates that a lost conditional write surfaces as ErrConcurrentModification.
// Scope: Unit Test
// Concurrency: The loser of a racing transition must not silently overwrite the winner.
// Expected: The store's ErrConcurrentModification propagates unchanged.
// Test Case ID: SHP-06
func TestShop_Transition_ConcurrentModification(t *testing.T) {
	ctx := context.Background()

	repo := new(mockRepo)
	repo.On("GetByID", ctx, "shop-1").Return(&Shop{ID: "shop-1", Status: StatusPending}, nil)
	repo.On("UpdateStatus", ctx, mock.Anything).Return(ErrConcurrentModification)

	svc := newTestService(repo)
	_, err := svc.Transition(ctx, "shop-1", StatusActive, admin, nil, nil)

	assert.ErrorIs(t, err, ErrConcurrentModification)
}

// TestPurpose: Validates that a dealer may edit only shops they own, while an admin may edit any shop.
// Scope: Unit Test
// Expected: Owner edit succeeds, foreign dealer edit is denied, admin edit succeeds.
// Test Case ID: SHP-07
func TestShop_UpdateProfile_Ownership(t *testing.T) {
	ctx := context.Background()
	owner := authz.Actor{ID: "dealer-1", Role: authz.RoleDealer}
	stranger := authz.Actor{ID: "dealer-2", Role: authz.RoleDealer}
	profile := Profile{Name: "Corner Bakery", Address: "12 Market St"}

	repo := new(mockRepo)
	repo.On("GetByID", ctx, "shop-1").Return(&Shop{ID: "shop-1", OwnerID: owner.ID, Status: StatusActive}, nil)
	repo.On("UpdateProfile", ctx, "shop-1", profile).Return(nil)

	svc := newTestService(repo)

	updated, err := svc.UpdateProfile(ctx, "shop-1", profile, owner)
	assert.NoError(t, err)
	assert.Equal(t, "Corner Bakery", updated.Name)

	_, err = svc.UpdateProfile(ctx, "shop-1", profile, stranger)
	assert.ErrorIs(t, err, authz.ErrPermissionDenied)

	_, err = svc.UpdateProfile(ctx, "shop-1", profile, admin)
	assert.NoError(t, err)
}

// TestPurpose: Validates that registration creates a pending shop owned by the registrant.
// Scope: Unit Test
// Expected: Status is pending, OwnerID matches the actor, ID is set.
// Test Case ID: SHP-08
func TestShop_Register_PendingAndOwned(t *testing.T) {
	ctx := context.Background()
	dealer := authz.Actor{ID: "dealer-1", Role: authz.RoleDealer}

	repo := new(mockRepo)
	repo.On("Create", ctx, mock.MatchedBy(func(s *Shop) bool {
		return s.Status == StatusPending && s.OwnerID == dealer.ID && s.ID != ""
	})).Return(nil)

	svc := newTestService(repo)
	created, err := svc.Register(ctx, dealer, Profile{Name: "Corner Bakery"})

	assert.NoError(t, err)
	assert.Equal(t, StatusPending, created.Status)
	repo.AssertExpectations(t)
}

// TestPurpose: Validates that a plain user cannot register a shop.
// Scope: Unit Test
// Expected: ErrPermissionDenied (user lacks shops:create).
// Test Case ID: SHP-09
func TestShop_Register_UserDenied(t *testing.T) {
	repo := new(mockRepo)
	svc := newTestService(repo)

	_, err := svc.Register(context.Background(), authz.Actor{ID: "u1", Role: authz.RoleUser}, Profile{Name: "X"})

	assert.ErrorIs(t, err, authz.ErrPermissionDenied)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}
