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

package identity

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/localdeals/localdeals/internal/audit"
	"github.com/localdeals/localdeals/internal/authz"
	"github.com/localdeals/localdeals/internal/id"
)

// Service provides identity-related business logic
type Service struct {
	repo               UserRepository
	hasher             *PasswordHasher
	guard              *authz.Guard
	auditLogger        audit.Logger
	lockoutMaxAttempts int
	lockoutDuration    time.Duration
}

// NewService creates a new identity service
func NewService(
	repo UserRepository,
	hasher *PasswordHasher,
	guard *authz.Guard,
	auditLogger audit.Logger,
	lockoutMaxAttempts int,
	lockoutDuration time.Duration,
) *Service {
	return &Service{
		repo:               repo,
		hasher:             hasher,
		guard:              guard,
		auditLogger:        auditLogger,
		lockoutMaxAttempts: lockoutMaxAttempts,
		lockoutDuration:    lockoutDuration,
	}
}

// Register creates a new self-service account. Visitors may only register as
// a regular user or as a dealer; staff roles are assigned by an admin through
// CreateUser.
func (s *Service) Register(ctx context.Context, email, password string, role authz.Role, profile Profile) (*User, error) {
	if role != authz.RoleUser && role != authz.RoleDealer {
		return nil, ErrInvalidRole
	}
	return s.createUser(ctx, email, password, role, profile, "")
}

// CreateUser creates an account with any valid role. Requires users:create.
func (s *Service) CreateUser(ctx context.Context, email, password string, role authz.Role, profile Profile, actor authz.Actor) (*User, error) {
	if err := s.guard.Authorize(ctx, actor, authz.CapUsersCreate); err != nil {
		return nil, err
	}
	if !role.Valid() {
		return nil, ErrInvalidRole
	}
	return s.createUser(ctx, email, password, role, profile, actor.ID)
}

func (s *Service) createUser(ctx context.Context, email, password string, role authz.Role, profile Profile, createdBy string) (*User, error) {
	if !isValidEmail(email) {
		return nil, ErrInvalidEmail
	}
	if !isStrongPassword(password) {
		return nil, ErrWeakPassword
	}

	if existing, err := s.repo.GetByEmail(email); err == nil && existing != nil {
		return nil, ErrUserAlreadyExists
	}

	user := &User{
		ID:            id.NewUUIDv7(),
		Email:         email,
		EmailVerified: false,
		Role:          role,
		Profile:       profile,
	}
	if err := s.repo.Create(user); err != nil {
		return nil, fmt.Errorf("failed to create identity: %w", err)
	}

	passwordHash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	if err := s.repo.AddCredentials(&Credentials{UserID: user.ID, PasswordHash: passwordHash}); err != nil {
		return nil, fmt.Errorf("failed to add credentials: %w", err)
	}

	actorID := createdBy
	if actorID == "" {
		actorID = user.ID
	}
	s.auditLogger.Log(ctx, audit.Event{
		Type:     audit.TypeUserCreated,
		ActorID:  actorID,
		Resource: user.ID,
		Metadata: map[string]any{audit.AttrRole: string(role)},
	})

	return user, nil
}

// Authenticate authenticates a user with email and password
func (s *Service) Authenticate(ctx context.Context, email, password string) (*User, error) {
	user, err := s.repo.GetByEmail(email)
	if err != nil {
		s.auditLogger.Log(ctx, audit.Event{
			Type:     audit.TypeLoginFailed,
			Resource: email,
			Metadata: map[string]any{audit.AttrReason: "user_not_found"},
		})
		return nil, ErrInvalidCredentials
	}

	if user.LockedUntil != nil && user.LockedUntil.After(time.Now()) {
		s.auditLogger.Log(ctx, audit.Event{
			Type:     audit.TypeLoginFailed,
			ActorID:  user.ID,
			Resource: "login",
			Metadata: map[string]any{audit.AttrReason: "locked_out"},
		})
		return nil, ErrAccountLocked
	}

	credentials, err := s.repo.GetCredentials(user.ID)
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	valid, err := s.hasher.Verify(password, credentials.PasswordHash)
	if err != nil || !valid {
		newAttempts := user.FailedLoginAttempts + 1
		var newLockedUntil *time.Time

		if newAttempts >= s.lockoutMaxAttempts {
			until := time.Now().Add(s.lockoutDuration)
			newLockedUntil = &until
			s.auditLogger.Log(ctx, audit.Event{
				Type:     audit.TypeUserLocked,
				ActorID:  user.ID,
				Resource: "login",
				Metadata: map[string]any{audit.AttrAttempts: newAttempts},
			})
		}

		_ = s.repo.UpdateLockout(user.ID, newAttempts, newLockedUntil)

		s.auditLogger.Log(ctx, audit.Event{
			Type:     audit.TypeLoginFailed,
			ActorID:  user.ID,
			Resource: "login",
			Metadata: map[string]any{
				audit.AttrReason:   "invalid_password",
				audit.AttrAttempts: newAttempts,
			},
		})

		return nil, ErrInvalidCredentials
	}

	if user.FailedLoginAttempts > 0 || user.LockedUntil != nil {
		_ = s.repo.UpdateLockout(user.ID, 0, nil)
	}

	s.auditLogger.Log(ctx, audit.Event{
		Type:     audit.TypeLoginSuccess,
		ActorID:  user.ID,
		Resource: "login",
	})

	return user, nil
}

// Get retrieves a user by ID. Users may always read themselves; reading
// anyone else requires users:read.
func (s *Service) Get(ctx context.Context, userID string, actor authz.Actor) (*User, error) {
	if actor.ID != userID {
		if err := s.guard.Authorize(ctx, actor, authz.CapUsersRead); err != nil {
			return nil, err
		}
	}
	user, err := s.repo.GetByID(userID)
	if err != nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

// List retrieves users. Requires users:read.
func (s *Service) List(ctx context.Context, actor authz.Actor, limit, offset int) ([]*User, error) {
	if err := s.guard.Authorize(ctx, actor, authz.CapUsersRead); err != nil {
		return nil, err
	}
	return s.repo.List(limit, offset)
}

// UpdateProfile updates profile information. Users may edit their own
// profile; editing anyone else requires users:edit.
func (s *Service) UpdateProfile(ctx context.Context, userID string, profile Profile, actor authz.Actor) error {
	if actor.ID != userID {
		if err := s.guard.Authorize(ctx, actor, authz.CapUsersEdit); err != nil {
			return err
		}
	}

	user, err := s.repo.GetByID(userID)
	if err != nil {
		return ErrUserNotFound
	}
	user.Profile = profile
	return s.repo.Update(user)
}

// ChangeRole changes a user's role. Requires users:edit.
func (s *Service) ChangeRole(ctx context.Context, userID string, role authz.Role, actor authz.Actor) error {
	if err := s.guard.Authorize(ctx, actor, authz.CapUsersEdit); err != nil {
		return err
	}
	if !role.Valid() {
		return ErrInvalidRole
	}

	user, err := s.repo.GetByID(userID)
	if err != nil {
		return ErrUserNotFound
	}
	if user.Role == role {
		return nil
	}

	if err := s.repo.UpdateRole(userID, role); err != nil {
		return fmt.Errorf("failed to update role: %w", err)
	}

	s.auditLogger.Log(ctx, audit.Event{
		Type:     audit.TypeRoleChanged,
		ActorID:  actor.ID,
		Resource: userID,
		Metadata: map[string]any{
			audit.AttrFromStatus: string(user.Role),
			audit.AttrToStatus:   string(role),
		},
	})

	return nil
}

// Delete soft-deletes a user. Requires users:delete.
func (s *Service) Delete(ctx context.Context, userID string, actor authz.Actor) error {
	if err := s.guard.Authorize(ctx, actor, authz.CapUsersDelete); err != nil {
		return err
	}
	if err := s.repo.Delete(userID); err != nil {
		return err
	}

	s.auditLogger.Log(ctx, audit.Event{
		Type:     audit.TypeUserDeleted,
		ActorID:  actor.ID,
		Resource: userID,
	})
	return nil
}

// ChangePassword changes a user's own password after verifying the old one.
func (s *Service) ChangePassword(ctx context.Context, userID, oldPassword, newPassword string) error {
	credentials, err := s.repo.GetCredentials(userID)
	if err != nil {
		return ErrUserNotFound
	}

	valid, err := s.hasher.Verify(oldPassword, credentials.PasswordHash)
	if err != nil || !valid {
		return ErrInvalidCredentials
	}

	if !isStrongPassword(newPassword) {
		return ErrWeakPassword
	}

	newHash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	if err := s.repo.UpdatePassword(userID, newHash); err != nil {
		return err
	}

	s.auditLogger.Log(ctx, audit.Event{
		Type:     audit.TypePasswordChanged,
		ActorID:  userID,
		Resource: userID,
	})
	return nil
}

// Helper functions
func isValidEmail(email string) bool {
	at := strings.IndexByte(email, '@')
	return at > 0 && at < len(email)-1 && len(email) < 255
}

func isStrongPassword(password string) bool {
	return len(password) >= 8
}
