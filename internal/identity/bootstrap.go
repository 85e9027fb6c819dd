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
	"os"

	"github.com/localdeals/localdeals/internal/audit"
	"github.com/localdeals/localdeals/internal/authz"
	"github.com/localdeals/localdeals/internal/id"
)

const (
	EnvBootstrapAdminEmail    = "LD_BOOTSTRAP_ADMIN_EMAIL"
	EnvBootstrapAdminPassword = "LD_BOOTSTRAP_ADMIN_PASSWORD"
)

// BootstrapService creates the initial admin account on first start
type BootstrapService struct {
	repo        UserRepository
	hasher      *PasswordHasher
	auditLogger audit.Logger
}

// NewBootstrapService creates a new bootstrap service
func NewBootstrapService(repo UserRepository, hasher *PasswordHasher, auditLogger audit.Logger) *BootstrapService {
	return &BootstrapService{
		repo:        repo,
		hasher:      hasher,
		auditLogger: auditLogger,
	}
}

// Bootstrap creates the initial admin from environment configuration. It is
// a no-op when the environment is not set or an admin already exists, so it
// is safe to run on every start.
func (s *BootstrapService) Bootstrap(ctx context.Context) error {
	email := os.Getenv(EnvBootstrapAdminEmail)
	password := os.Getenv(EnvBootstrapAdminPassword)

	if email == "" {
		return nil
	}

	admins, err := s.repo.CountByRole(authz.RoleAdmin)
	if err != nil {
		return fmt.Errorf("failed to check for existing admin: %w", err)
	}
	if admins > 0 {
		return nil
	}

	if !isStrongPassword(password) {
		return fmt.Errorf("bootstrap admin password does not meet requirements")
	}

	user := &User{
		ID:            id.NewUUIDv7(),
		Email:         email,
		EmailVerified: true,
		Role:          authz.RoleAdmin,
	}
	if err := s.repo.Create(user); err != nil {
		return fmt.Errorf("failed to create bootstrap admin: %w", err)
	}

	passwordHash, err := s.hasher.Hash(password)
	if err != nil {
		return fmt.Errorf("failed to hash bootstrap password: %w", err)
	}
	if err := s.repo.AddCredentials(&Credentials{UserID: user.ID, PasswordHash: passwordHash}); err != nil {
		return fmt.Errorf("failed to store bootstrap credentials: %w", err)
	}

	s.auditLogger.Log(ctx, audit.Event{
		Type:     audit.TypeUserCreated,
		ActorID:  user.ID,
		Resource: user.ID,
		Metadata: map[string]any{
			audit.AttrRole:   string(authz.RoleAdmin),
			audit.AttrReason: "bootstrap",
		},
	})

	return nil
}
