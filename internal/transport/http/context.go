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
	"context"

	"github.com/localdeals/localdeals/internal/authz"
)

type contextKey string

const (
	actorKey     contextKey = "actor"
	sessionIDKey contextKey = "session_id"
)

// GetActor retrieves the acting principal from context. Requests without a
// session act as an anonymous visitor, which carries the baseline user role.
func GetActor(ctx context.Context) authz.Actor {
	if val, ok := ctx.Value(actorKey).(authz.Actor); ok {
		return val
	}
	return authz.Actor{Role: authz.RoleUser}
}

// IsAuthenticated reports whether the request carries a verified session.
func IsAuthenticated(ctx context.Context) bool {
	actor, ok := ctx.Value(actorKey).(authz.Actor)
	return ok && actor.ID != ""
}

// GetSessionID retrieves the session ID from context.
func GetSessionID(ctx context.Context) string {
	if val, ok := ctx.Value(sessionIDKey).(string); ok {
		return val
	}
	return ""
}
