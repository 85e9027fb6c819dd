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

package session

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/localdeals/localdeals/internal/audit"
	"github.com/localdeals/localdeals/internal/authz"
	"github.com/localdeals/localdeals/internal/id"
)

// Claims is the JWT payload issued for a session. The token is a pointer to
// the server-side session row; revoking the row invalidates the token even
// before it expires.
type Claims struct {
	SessionID string     `json:"sid"`
	Role      authz.Role `json:"role"`
	jwt.RegisteredClaims
}

// Service issues and verifies session tokens
type Service struct {
	repo        Repository
	signingKey  []byte
	lifetime    time.Duration
	idleTimeout time.Duration
	auditLogger audit.Logger
}

// NewService creates a new session service
func NewService(repo Repository, signingKey []byte, lifetime, idleTimeout time.Duration, auditLogger audit.Logger) *Service {
	return &Service{
		repo:        repo,
		signingKey:  signingKey,
		lifetime:    lifetime,
		idleTimeout: idleTimeout,
		auditLogger: auditLogger,
	}
}

// Issue creates a session for an authenticated user and returns a signed
// token referencing it.
func (s *Service) Issue(ctx context.Context, userID string, role authz.Role, ipAddress, userAgent string) (string, *Session, error) {
	now := time.Now()
	sess := &Session{
		ID:         id.NewUUIDv7(),
		UserID:     userID,
		Role:       role,
		IPAddress:  ipAddress,
		UserAgent:  userAgent,
		ExpiresAt:  now.Add(s.lifetime),
		CreatedAt:  now,
		LastSeenAt: now,
	}
	if err := s.repo.Create(sess); err != nil {
		return "", nil, fmt.Errorf("failed to create session: %w", err)
	}

	claims := Claims{
		SessionID: sess.ID,
		Role:      role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(sess.ExpiresAt),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.signingKey)
	if err != nil {
		return "", nil, fmt.Errorf("failed to sign session token: %w", err)
	}

	return token, sess, nil
}

// Verify validates a token, checks the backing session and returns the
// acting principal. The session's last seen time is refreshed on success.
func (s *Service) Verify(ctx context.Context, token string) (authz.Actor, *Session, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.signingKey, nil
	})
	if err != nil || !parsed.Valid {
		return authz.Actor{}, nil, ErrSessionInvalid
	}

	sess, err := s.repo.Get(claims.SessionID)
	if err != nil {
		return authz.Actor{}, nil, ErrSessionNotFound
	}
	if sess.IsExpired() || sess.IsIdle(s.idleTimeout) {
		_ = s.repo.Delete(sess.ID)
		return authz.Actor{}, nil, ErrSessionExpired
	}

	sess.LastSeenAt = time.Now()
	_ = s.repo.Update(sess)

	// The role comes from the stored session, not the token, so a role
	// change takes effect on re-login without trusting stale claims.
	return authz.Actor{ID: sess.UserID, Role: sess.Role}, sess, nil
}

// Revoke deletes a session by ID.
func (s *Service) Revoke(ctx context.Context, sessionID string) error {
	sess, err := s.repo.Get(sessionID)
	if err != nil {
		return ErrSessionNotFound
	}
	if err := s.repo.Delete(sessionID); err != nil {
		return err
	}

	s.auditLogger.Log(ctx, audit.Event{
		Type:     audit.TypeLogout,
		ActorID:  sess.UserID,
		Resource: sessionID,
	})
	return nil
}

// RevokeAllForUser deletes every session belonging to a user. Used when an
// account is deleted or its role changes.
func (s *Service) RevokeAllForUser(ctx context.Context, userID string) error {
	return s.repo.DeleteByUserID(userID)
}

// CleanupExpired removes expired session rows and reports how many were
// deleted.
func (s *Service) CleanupExpired(ctx context.Context) (int64, error) {
	return s.repo.DeleteExpired()
}
