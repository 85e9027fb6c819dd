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

package http

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/localdeals/localdeals/internal/audit"
	"github.com/localdeals/localdeals/internal/authz"
	"github.com/localdeals/localdeals/internal/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// TRANSPORT SECURITY TESTS
// Category: Auth Middleware - Token Handling & Input Validation
// Type: Unit Test (UT)
// =============================================================================

// memSessionRepo is an in-memory session store for middleware tests.
type memSessionRepo struct {
	mu       sync.Mutex
	sessions map[string]session.Session
}

func newMemSessionRepo() *memSessionRepo {
	return &memSessionRepo{sessions: make(map[string]session.Session)}
}

func (m *memSessionRepo) Create(s *session.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[s.ID] = *s
	return nil
}

func (m *memSessionRepo) Get(id string) (*session.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	if !ok {
		return nil, session.ErrSessionNotFound
	}
	out := s
	return &out, nil
}

func (m *memSessionRepo) Update(s *session.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[s.ID] = *s
	return nil
}

func (m *memSessionRepo) Delete(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
	return nil
}

func (m *memSessionRepo) DeleteByUserID(userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, s := range m.sessions {
		if s.UserID == userID {
			delete(m.sessions, id)
		}
	}
	return nil
}

func (m *memSessionRepo) DeleteExpired() (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for id, s := range m.sessions {
		if time.Now().After(s.ExpiresAt) {
			delete(m.sessions, id)
			n++
		}
	}
	return n, nil
}

var testSigningKey = []byte("0123456789abcdef0123456789abcdef")

func createAuthedHandler(t *testing.T) (*Handler, *session.Service) {
	t.Helper()
	sessions := session.NewService(newMemSessionRepo(), testSigningKey,
		time.Hour, time.Hour, audit.NewSlogLogger())
	return &Handler{sessionService: sessions}, sessions
}

// echoActor records the actor the middleware resolved.
func echoActor(captured *authz.Actor) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*captured = GetActor(r.Context())
		w.WriteHeader(http.StatusOK)
	})
}

// TestPurpose: Validates that requests without a token pass through the auth
// middleware as an anonymous visitor carrying the baseline user role.
// Scope: Unit Test
// Security: Anonymous fallthrough must never grant an identity
// Expected: Request reaches the handler with an empty actor ID and role user.
// Test Case ID: HTP-01
func TestAuthMiddleware_NoToken_AnonymousPassThrough(t *testing.T) {
	h, _ := createAuthedHandler(t)

	var actor authz.Actor
	mw := h.AuthMiddleware(echoActor(&actor))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/deals", nil)
	w := httptest.NewRecorder()
	mw.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code,
		"HTP-01: Anonymous request should pass through")
	assert.Empty(t, actor.ID,
		"HTP-01: Anonymous actor must not carry an identity")
	assert.Equal(t, authz.RoleUser, actor.Role,
		"HTP-01: Anonymous actor carries the baseline user role")
}

// TestPurpose: Validates that a token signed with a different key is rejected
// with 401 instead of being downgraded to anonymous access.
// Scope: Unit Test
// Security: Forged tokens must be rejected, not silently ignored
// Expected: Returns HTTP 401 Unauthorized.
// Test Case ID: HTP-02
func TestAuthMiddleware_ForgedToken_ReturnsUnauthorized(t *testing.T) {
	h, _ := createAuthedHandler(t)

	forgedIssuer := session.NewService(newMemSessionRepo(),
		[]byte("another-key-another-key-another!"), time.Hour, time.Hour,
		audit.NewSlogLogger())
	token, _, err := forgedIssuer.Issue(t.Context(), "attacker", authz.RoleAdmin, "", "")
	require.NoError(t, err)

	var actor authz.Actor
	mw := h.AuthMiddleware(echoActor(&actor))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/users", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	mw.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code,
		"HTP-02: Forged token should return 401 Unauthorized")
	assert.Empty(t, actor.ID,
		"HTP-02: Handler must not run for a forged token")
}

// TestPurpose: Validates that a valid token resolves into the stored session's
// principal, including the role persisted server-side.
// Scope: Unit Test
// Security: Identity binding between token and server-side session
// Expected: Handler sees the issuing user's ID and role.
// Test Case ID: HTP-03
func TestAuthMiddleware_ValidToken_ResolvesActor(t *testing.T) {
	h, sessions := createAuthedHandler(t)

	token, _, err := sessions.Issue(t.Context(), "user-42", authz.RoleDealer, "127.0.0.1", "test")
	require.NoError(t, err)

	var actor authz.Actor
	mw := h.AuthMiddleware(echoActor(&actor))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/shops/mine", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	mw.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "user-42", actor.ID,
		"HTP-03: Actor ID should come from the stored session")
	assert.Equal(t, authz.RoleDealer, actor.Role,
		"HTP-03: Actor role should come from the stored session")
}

// TestPurpose: Validates that a revoked session token is refused even though
// the JWT signature is still valid.
// Scope: Unit Test
// Security: Server-side revocation must dominate token validity
// Expected: Returns HTTP 401 Unauthorized after logout.
// Test Case ID: HTP-04
func TestAuthMiddleware_RevokedSession_ReturnsUnauthorized(t *testing.T) {
	h, sessions := createAuthedHandler(t)

	token, sess, err := sessions.Issue(t.Context(), "user-7", authz.RoleUser, "", "")
	require.NoError(t, err)
	require.NoError(t, sessions.Revoke(t.Context(), sess.ID))

	mw := h.AuthMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run for a revoked session")
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	mw.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code,
		"HTP-04: Revoked session should return 401 Unauthorized")
}

// TestPurpose: Validates that RequireAuth blocks anonymous requests from
// reaching protected handlers.
// Scope: Unit Test
// Security: Authentication gate for staff operations
// Expected: Returns HTTP 401 Unauthorized without a session.
// Test Case ID: HTP-05
func TestRequireAuth_Anonymous_ReturnsUnauthorized(t *testing.T) {
	called := false
	mw := RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/users", nil)
	w := httptest.NewRecorder()
	mw.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code,
		"HTP-05: Anonymous request should return 401 Unauthorized")
	assert.False(t, called,
		"HTP-05: Protected handler must not run")
}

// TestPurpose: Validates that malformed JSON bodies are rejected with 400
// before any service is touched.
// Scope: Unit Test
// Security: JSON parsing safety (prevents parser exploits)
// Expected: Returns HTTP 400 Bad Request for malformed JSON.
// Test Case ID: HTP-06
func TestPlaceOrder_MalformedJSON_ReturnsBadRequest(t *testing.T) {
	h := &Handler{}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/orders", bytes.NewReader([]byte(`{invalid_json}`)))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	h.PlaceOrder(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code,
		"HTP-06: Malformed JSON should return 400 Bad Request")
}

// TestPurpose: Validates that placing an order without a deal reference is
// rejected with 400 Bad Request.
// Scope: Unit Test
// Security: Input validation boundary check
// Expected: Returns HTTP 400 Bad Request for a missing deal_id.
// Test Case ID: HTP-07
func TestPlaceOrder_MissingDealID_ReturnsBadRequest(t *testing.T) {
	h := &Handler{}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/orders",
		bytes.NewReader([]byte(`{"quantity": 1, "email": "a@b.c"}`)))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	h.PlaceOrder(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code,
		"HTP-07: Missing deal_id should return 400 Bad Request")
}

// TestPurpose: Validates the Authorization header parser accepts the bearer
// scheme case-insensitively and rejects other schemes.
// Scope: Unit Test
// Security: Token extraction correctness
// Expected: Bearer tokens parse; Basic credentials do not.
// Test Case ID: HTP-08
func TestBearerToken_SchemeHandling(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "bearer abc123")
	assert.Equal(t, "abc123", bearerToken(req),
		"HTP-08: Scheme should match case-insensitively")

	req.Header.Set("Authorization", "Basic dXNlcjpwYXNz")
	assert.Empty(t, bearerToken(req),
		"HTP-08: Non-bearer schemes must be ignored")
}
