package session

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/localdeals/localdeals/internal/audit"
	"github.com/localdeals/localdeals/internal/authz"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type mockRepo struct {
	mock.Mock
}

func (m *mockRepo) Create(sess *Session) error {
	args := m.Called(sess)
	return args.Error(0)
}

func (m *mockRepo) Get(sessionID string) (*Session, error) {
	args := m.Called(sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Session), args.Error(1)
}

func (m *mockRepo) Update(sess *Session) error {
	args := m.Called(sess)
	return args.Error(0)
}

func (m *mockRepo) Delete(sessionID string) error {
	args := m.Called(sessionID)
	return args.Error(0)
}

func (m *mockRepo) DeleteByUserID(userID string) error {
	args := m.Called(userID)
	return args.Error(0)
}

func (m *mockRepo) DeleteExpired() (int64, error) {
	args := m.Called()
	return args.Get(0).(int64), args.Error(1)
}

type mockAudit struct {
	mock.Mock
}

func (m *mockAudit) Log(ctx context.Context, event audit.Event) {
	m.Called(ctx, event)
}

var signingKey = []byte("0123456789abcdef0123456789abcdef")

func newTestService(repo *mockRepo) *Service {
	auditLogger := new(mockAudit)
	auditLogger.On("Log", mock.Anything, mock.Anything).Return()
	return NewService(repo, signingKey, time.Hour, 30*time.Minute, auditLogger)
}

// TestPurpose: Validates that an issued token verifies back to the same principal.
// Scope: Unit Test
// Expected: Verify returns the user ID and role stored in the session.
// Test Case ID: SES-01
func TestSession_IssueAndVerify(t *testing.T) {
	ctx := context.Background()

	var stored *Session
	repo := new(mockRepo)
	repo.On("Create", mock.Anything).Run(func(args mock.Arguments) {
		stored = args.Get(0).(*Session)
	}).Return(nil)

	svc := newTestService(repo)
	token, sess, err := svc.Issue(ctx, "u1", authz.RoleDealer, "198.51.100.7", "test-agent")
	assert.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, "u1", sess.UserID)

	repo.On("Get", stored.ID).Return(stored, nil)
	repo.On("Update", mock.Anything).Return(nil)

	actor, got, err := svc.Verify(ctx, token)
	assert.NoError(t, err)
	assert.Equal(t, authz.Actor{ID: "u1", Role: authz.RoleDealer}, actor)
	assert.Equal(t, stored.ID, got.ID)
}

// TestPurpose: Validates that tokens signed with a different key are rejected.
// Scope: Unit Test
// Security: A forged token must never resolve to a principal.
// Expected: ErrSessionInvalid without any repository access.
// Test Case ID: SES-02
func TestSession_Verify_ForgedToken(t *testing.T) {
	forged, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		SessionID: "s1",
		Role:      authz.RoleAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "attacker",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}).SignedString([]byte("some-other-key-entirely-000000000"))
	assert.NoError(t, err)

	repo := new(mockRepo)
	svc := newTestService(repo)

	_, _, err = svc.Verify(context.Background(), forged)
	assert.ErrorIs(t, err, ErrSessionInvalid)
	repo.AssertNotCalled(t, "Get", mock.Anything)
}

// TestPurpose: Validates that a revoked session invalidates an otherwise valid token.
// Scope: Unit Test
// Expected: Verify fails with ErrSessionNotFound once the row is gone.
// Test Case ID: SES-03
func TestSession_Verify_RevokedSession(t *testing.T) {
	ctx := context.Background()

	var stored *Session
	repo := new(mockRepo)
	repo.On("Create", mock.Anything).Run(func(args mock.Arguments) {
		stored = args.Get(0).(*Session)
	}).Return(nil)

	svc := newTestService(repo)
	token, _, err := svc.Issue(ctx, "u1", authz.RoleUser, "", "")
	assert.NoError(t, err)

	repo.On("Get", stored.ID).Return(nil, ErrSessionNotFound)

	_, _, err = svc.Verify(ctx, token)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

// TestPurpose: Validates that an idle session is expired and deleted on verification.
// Scope: Unit Test
// Expected: ErrSessionExpired and the stale row is removed.
// Test Case ID: SES-04
func TestSession_Verify_IdleTimeout(t *testing.T) {
	ctx := context.Background()

	var stored *Session
	repo := new(mockRepo)
	repo.On("Create", mock.Anything).Run(func(args mock.Arguments) {
		stored = args.Get(0).(*Session)
	}).Return(nil)

	svc := newTestService(repo)
	token, _, err := svc.Issue(ctx, "u1", authz.RoleUser, "", "")
	assert.NoError(t, err)

	stored.LastSeenAt = time.Now().Add(-2 * time.Hour)
	repo.On("Get", stored.ID).Return(stored, nil)
	repo.On("Delete", stored.ID).Return(nil)

	_, _, err = svc.Verify(ctx, token)
	assert.ErrorIs(t, err, ErrSessionExpired)
	repo.AssertCalled(t, "Delete", stored.ID)
}
