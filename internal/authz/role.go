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

// Role is the closed set of roles an actor can hold. Exactly one role is
// assigned per user, out-of-band by the identity service; it never changes
// for the duration of a request.
type Role string

const (
	// RoleAdmin is the platform operator with every capability.
	RoleAdmin Role = "admin"

	// RoleEditor curates deals and news content but cannot delete either.
	RoleEditor Role = "editor"

	// RoleDealer runs one or more shops and manages their deals.
	RoleDealer Role = "dealer"

	// RoleNewsWriter contributes news articles and nothing else.
	RoleNewsWriter Role = "news_writer"

	// RoleUser is a regular visitor with read-only access. Anonymous
	// requests are treated as RoleUser by the transport layer.
	RoleUser Role = "user"
)

// Roles lists every valid role. Used by the matrix and by validation.
var Roles = []Role{
	RoleAdmin,
	RoleEditor,
	RoleDealer,
	RoleNewsWriter,
	RoleUser,
}

// Valid reports whether r is a member of the closed role set.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleEditor, RoleDealer, RoleNewsWriter, RoleUser:
		return true
	}
	return false
}

// Actor is an authenticated identity together with its assigned role.
// The core trusts this value verbatim; authentication happens upstream.
type Actor struct {
	ID   string
	Role Role
}
