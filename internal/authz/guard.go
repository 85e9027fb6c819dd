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

package authz

import (
	"context"
	"errors"

	"github.com/localdeals/localdeals/internal/audit"
)

// ErrPermissionDenied is returned for every authorization failure. It is
// deliberately uniform: callers must not learn which capability was missing,
// or whether the role was unknown, beyond the fact of the denial.
var ErrPermissionDenied = errors.New("permission denied")

// DenialRecorder observes authorization denials. The metrics counters
// implement it; a nil recorder is skipped.
type DenialRecorder interface {
	PermissionDenied(ctx context.Context, role, capability string)
}

// Guard is the single authorization choke point. Every mutating operation
// in the platform calls Authorize before touching persisted state.
type Guard struct {
	matrix      *Matrix
	auditLogger audit.Logger
	recorder    DenialRecorder
}

// NewGuard creates a guard over an immutable permission matrix.
func NewGuard(matrix *Matrix, auditLogger audit.Logger) *Guard {
	return &Guard{
		matrix:      matrix,
		auditLogger: auditLogger,
	}
}

// SetDenialRecorder attaches a recorder that counts denials.
func (g *Guard) SetDenialRecorder(r DenialRecorder) {
	g.recorder = r
}

// Authorize returns nil if the actor's role is granted the capability and
// ErrPermissionDenied otherwise. Denials are audited with the capability
// that was requested.
func (g *Guard) Authorize(ctx context.Context, actor Actor, capability Capability) error {
	if g.matrix.Check(actor.Role, capability) {
		return nil
	}

	g.auditLogger.Log(ctx, audit.Event{
		Type:     audit.TypePermissionDenied,
		ActorID:  actor.ID,
		Resource: string(capability),
		Metadata: map[string]any{audit.AttrRole: string(actor.Role)},
	})
	if g.recorder != nil {
		g.recorder.PermissionDenied(ctx, string(actor.Role), string(capability))
	}

	return ErrPermissionDenied
}

// Check is a pure read of the matrix with no auditing, for callers that
// only want to shape a response (e.g. hiding admin-only UI affordances).
func (g *Guard) Check(role Role, capability Capability) bool {
	return g.matrix.Check(role, capability)
}
