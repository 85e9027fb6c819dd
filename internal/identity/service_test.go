package identity

import (
	"context"
	"testing"
	"time"

	"github.com/localdeals/localdeals/internal/audit"
	"github.com/localdeals/localdeals/internal/authz"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type mockRepo struct {
	mock.Mock
}

func (m *mockRepo) Create(user *User) error {
	args := m.Called(user)
	return args.Error(0)
}

func (m *mockRepo) AddCredentials(credentials *Credentials) error {
	args := m.Called(credentials)
	return args.Error(0)
}

func (m *mockRepo) GetByID(id string) (*User, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*User), args.Error(1)
}

func (m *mockRepo) GetByEmail(email string) (*User, error) {
	args := m.Called(email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*User), args.Error(1)
}

func (m *mockRepo) Update(user *User) error {
	args := m.Called(user)
	return args.Error(0)
}

func (m *mockRepo) UpdateRole(userID string, role authz.Role) error {
	args := m.Called(userID, role)
	return args.Error(0)
}

func (m *mockRepo) UpdateLockout(userID string, failedAttempts int, lockedUntil *time.Time) error {
	args := m.Called(userID, failedAttempts, lockedUntil)
	return args.Error(0)
}

func (m *mockRepo) Delete(id string) error {
	args := m.Called(id)
	return args.Error(0)
}

func (m *mockRepo) List(limit, offset int) ([]*User, error) {
	args := m.Called(limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*User), args.Error(1)
}

func (m *mockRepo) CountByRole(role authz.Role) (int, error) {
	args := m.Called(role)
	return args.Int(0), args.Error(1)
}

func (m *mockRepo) GetCredentials(userID string) (*Credentials, error) {
	args := m.Called(userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Credentials), args.Error(1)
}

func (m *mockRepo) UpdatePassword(userID string, passwordHash string) error {
	args := m.Called(userID, passwordHash)
	return args.Error(0)
}

type mockAudit struct {
	mock.Mock
}

func (m *mockAudit) Log(ctx context.Context, event audit.Event) {
	m.Called(ctx, event)
}

func testHasher() *PasswordHasher {
	// Weak parameters to keep unit tests fast
	return NewPasswordHasher(8*1024, 1, 1, 16, 32)
}

func newTestService(repo *mockRepo) *Service {
	auditLogger := new(mockAudit)
	auditLogger.On("Log", mock.Anything, mock.Anything).Return()
	guard := authz.NewGuard(authz.DefaultMatrix(), auditLogger)
	return NewService(repo, testHasher(), guard, auditLogger, 5, 15*time.Minute)
}

var admin = authz.Actor{ID: "admin-1", Role: authz.RoleAdmin}

// TestPurpose: Validates that self-registration is limited to the user and dealer roles.
// Scope: Unit Test
// Security: Staff roles must only be assignable by an admin.
// Expected: user and dealer succeed, admin/editor/news_writer are rejected with ErrInvalidRole.
// Test Case ID: IDN-01
func TestIdentity_Register_RoleRestricted(t *testing.T) {
	ctx := context.Background()

	for _, role := range []authz.Role{authz.RoleUser, authz.RoleDealer} {
		repo := new(mockRepo)
		repo.On("GetByEmail", "new@example.com").Return(nil, ErrUserNotFound)
		repo.On("Create", mock.MatchedBy(func(u *User) bool {
			return u.Role == role && u.Email == "new@example.com" && u.ID != ""
		})).Return(nil)
		repo.On("AddCredentials", mock.Anything).Return(nil)

		svc := newTestService(repo)
		user, err := svc.Register(ctx, "new@example.com", "s3cret-pass", role, Profile{})

		assert.NoError(t, err, "role %s", role)
		assert.Equal(t, role, user.Role)
		repo.AssertExpectations(t)
	}

	for _, role := range []authz.Role{authz.RoleAdmin, authz.RoleEditor, authz.RoleNewsWriter} {
		repo := new(mockRepo)
		svc := newTestService(repo)

		_, err := svc.Register(ctx, "new@example.com", "s3cret-pass", role, Profile{})

		assert.ErrorIs(t, err, ErrInvalidRole, "role %s", role)
		repo.AssertNotCalled(t, "Create", mock.Anything)
	}
}

// TestPurpose: Validates that a correct password authenticates and resets a previous failure streak.
// Scope: Unit Test
// Expected: The user is returned and the lockout counter is reset to zero.
// Test Case ID: IDN-02
func TestIdentity_Authenticate_SuccessResetsLockout(t *testing.T) {
	ctx := context.Background()
	hasher := testHasher()
	hash, err := hasher.Hash("correct-pass")
	assert.NoError(t, err)

	repo := new(mockRepo)
	repo.On("GetByEmail", "u@example.com").Return(&User{ID: "u1", Email: "u@example.com", Role: authz.RoleUser, FailedLoginAttempts: 3}, nil)
	repo.On("GetCredentials", "u1").Return(&Credentials{UserID: "u1", PasswordHash: hash}, nil)
	repo.On("UpdateLockout", "u1", 0, (*time.Time)(nil)).Return(nil)

	svc := newTestService(repo)
	user, err := svc.Authenticate(ctx, "u@example.com", "correct-pass")

	assert.NoError(t, err)
	assert.Equal(t, "u1", user.ID)
	repo.AssertExpectations(t)
}

// TestPurpose: Validates lockout behavior on repeated password failures.
// Scope: Unit Test
// Security: Brute-force protection must lock the account at the attempt threshold.
// Expected: The failing attempt that reaches the threshold stores a lockout deadline; a locked account is refused before password verification.
// Test Case ID: IDN-03
func TestIdentity_Authenticate_Lockout(t *testing.T) {
	ctx := context.Background()
	hasher := testHasher()
	hash, err := hasher.Hash("correct-pass")
	assert.NoError(t, err)

	repo := new(mockRepo)
	repo.On("GetByEmail", "u@example.com").Return(&User{ID: "u1", Email: "u@example.com", Role: authz.RoleUser, FailedLoginAttempts: 4}, nil)
	repo.On("GetCredentials", "u1").Return(&Credentials{UserID: "u1", PasswordHash: hash}, nil)
	repo.On("UpdateLockout", "u1", 5, mock.MatchedBy(func(until *time.Time) bool {
		return until != nil && until.After(time.Now())
	})).Return(nil)

	svc := newTestService(repo)
	_, err = svc.Authenticate(ctx, "u@example.com", "wrong-pass")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	repo.AssertExpectations(t)

	lockedUntil := time.Now().Add(10 * time.Minute)
	repo = new(mockRepo)
	repo.On("GetByEmail", "u@example.com").Return(&User{ID: "u1", Email: "u@example.com", LockedUntil: &lockedUntil}, nil)

	svc = newTestService(repo)
	_, err = svc.Authenticate(ctx, "u@example.com", "correct-pass")
	assert.ErrorIs(t, err, ErrAccountLocked)
	repo.AssertNotCalled(t, "GetCredentials", mock.Anything)
}

// TestPurpose: Validates that role changes require users:edit and are refused for roles without it.
// Scope: Unit Test
// Expected: Admin succeeds, dealer is denied, unknown target role is rejected.
// Test Case ID: IDN-04
func TestIdentity_ChangeRole_Gated(t *testing.T) {
	ctx := context.Background()

	repo := new(mockRepo)
	repo.On("GetByID", "u1").Return(&User{ID: "u1", Role: authz.RoleUser}, nil)
	repo.On("UpdateRole", "u1", authz.RoleEditor).Return(nil)

	svc := newTestService(repo)
	assert.NoError(t, svc.ChangeRole(ctx, "u1", authz.RoleEditor, admin))
	repo.AssertExpectations(t)

	repo = new(mockRepo)
	svc = newTestService(repo)
	err := svc.ChangeRole(ctx, "u1", authz.RoleEditor, authz.Actor{ID: "d1", Role: authz.RoleDealer})
	assert.ErrorIs(t, err, authz.ErrPermissionDenied)
	repo.AssertNotCalled(t, "UpdateRole", mock.Anything, mock.Anything)

	repo = new(mockRepo)
	svc = newTestService(repo)
	err = svc.ChangeRole(ctx, "u1", authz.Role("superuser"), admin)
	assert.ErrorIs(t, err, ErrInvalidRole)
}

// TestPurpose: Validates that creating an account with an arbitrary role requires users:create.
// Scope: Unit Test
// Expected: Admin creates an editor; editor (users:read only) is denied.
// Test Case ID: IDN-05
func TestIdentity_CreateUser_Gated(t *testing.T) {
	ctx := context.Background()

	repo := new(mockRepo)
	repo.On("GetByEmail", "e@example.com").Return(nil, ErrUserNotFound)
	repo.On("Create", mock.MatchedBy(func(u *User) bool {
		return u.Role == authz.RoleEditor
	})).Return(nil)
	repo.On("AddCredentials", mock.Anything).Return(nil)

	svc := newTestService(repo)
	user, err := svc.CreateUser(ctx, "e@example.com", "s3cret-pass", authz.RoleEditor, Profile{}, admin)
	assert.NoError(t, err)
	assert.Equal(t, authz.RoleEditor, user.Role)

	repo = new(mockRepo)
	svc = newTestService(repo)
	_, err = svc.CreateUser(ctx, "e@example.com", "s3cret-pass", authz.RoleEditor, Profile{}, authz.Actor{ID: "ed1", Role: authz.RoleEditor})
	assert.ErrorIs(t, err, authz.ErrPermissionDenied)
	repo.AssertNotCalled(t, "Create", mock.Anything)
}

// TestPurpose: Validates that changing a password requires the current password.
// Scope: Unit Test
// Expected: Wrong old password is refused; correct old password stores a new hash.
// Test Case ID: IDN-06
func TestIdentity_ChangePassword(t *testing.T) {
	ctx := context.Background()
	hasher := testHasher()
	hash, err := hasher.Hash("old-password")
	assert.NoError(t, err)

	repo := new(mockRepo)
	repo.On("GetCredentials", "u1").Return(&Credentials{UserID: "u1", PasswordHash: hash}, nil)

	svc := newTestService(repo)
	err = svc.ChangePassword(ctx, "u1", "wrong-password", "new-password-1")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	repo.AssertNotCalled(t, "UpdatePassword", mock.Anything, mock.Anything)

	repo = new(mockRepo)
	repo.On("GetCredentials", "u1").Return(&Credentials{UserID: "u1", PasswordHash: hash}, nil)
	repo.On("UpdatePassword", "u1", mock.MatchedBy(func(h string) bool {
		return h != hash && h != ""
	})).Return(nil)

	svc = newTestService(repo)
	assert.NoError(t, svc.ChangePassword(ctx, "u1", "old-password", "new-password-1"))
	repo.AssertExpectations(t)
}

// TestPurpose: Validates the Argon2id hash roundtrip and rejection of a wrong password.
// Scope: Unit Test
// Test Case ID: IDN-07
func TestIdentity_PasswordHasher_Roundtrip(t *testing.T) {
	hasher := testHasher()

	hash, err := hasher.Hash("correct-horse-battery-staple")
	assert.NoError(t, err)

	ok, err := hasher.Verify("correct-horse-battery-staple", hash)
	assert.NoError(t, err)
	assert.True(t, ok)

	ok, err = hasher.Verify("incorrect-horse", hash)
	assert.NoError(t, err)
	assert.False(t, ok)

	_, err = hasher.Verify("anything", "not-a-hash")
	assert.Error(t, err)
}
