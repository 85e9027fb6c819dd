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

// Matrix maps each role to its granted capability set. It is built once at
// process start and is read-only afterwards, so it is safe for concurrent
// use without synchronization. Changing grants requires a new deployment.
type Matrix struct {
	grants map[Role]map[Capability]struct{}
}

// NewMatrix builds an immutable matrix from the given grant sets. The input
// map is copied; later mutation of the argument does not affect the matrix.
func NewMatrix(grants map[Role][]Capability) *Matrix {
	m := &Matrix{grants: make(map[Role]map[Capability]struct{}, len(grants))}
	for role, caps := range grants {
		set := make(map[Capability]struct{}, len(caps))
		for _, c := range caps {
			set[c] = struct{}{}
		}
		m.grants[role] = set
	}
	return m
}

// DefaultMatrix returns the platform's permission matrix:
//
//	role        | deals    | news     | users    | shops    | settings analytics platforms
//	admin       | r c e d  | r c e d  | r c e d  | r c e d  | yes      yes       yes
//	editor      | r c e -  | r c e -  | r - - -  | r - - -  | -        yes       -
//	dealer      | r c e d  | - - - -  | - - - -  | r c e d  | -        yes       -
//	news_writer | - - - -  | r c e -  | - - - -  | - - - -  | -        -         -
//	user        | r - - -  | r - - -  | - - - -  | r - - -  | -        -         -
func DefaultMatrix() *Matrix {
	return NewMatrix(map[Role][]Capability{
		RoleAdmin: {
			CapDealsRead, CapDealsCreate, CapDealsEdit, CapDealsDelete,
			CapNewsRead, CapNewsCreate, CapNewsEdit, CapNewsDelete,
			CapUsersRead, CapUsersCreate, CapUsersEdit, CapUsersDelete,
			CapShopsRead, CapShopsCreate, CapShopsEdit, CapShopsDelete,
			CapManageSettings, CapViewAnalytics, CapManagePlatforms,
		},
		RoleEditor: {
			CapDealsRead, CapDealsCreate, CapDealsEdit,
			CapNewsRead, CapNewsCreate, CapNewsEdit,
			CapUsersRead,
			CapShopsRead,
			CapViewAnalytics,
		},
		RoleDealer: {
			CapDealsRead, CapDealsCreate, CapDealsEdit, CapDealsDelete,
			CapShopsRead, CapShopsCreate, CapShopsEdit, CapShopsDelete,
			CapViewAnalytics,
		},
		RoleNewsWriter: {
			CapNewsRead, CapNewsCreate, CapNewsEdit,
		},
		RoleUser: {
			CapDealsRead,
			CapNewsRead,
			CapShopsRead,
		},
	})
}

// Check reports whether the role is granted the capability. It is pure and
// total: unknown roles and unknown capabilities return false (fail closed),
// never an error.
func (m *Matrix) Check(role Role, capability Capability) bool {
	set, ok := m.grants[role]
	if !ok {
		return false
	}
	_, granted := set[capability]
	return granted
}

// Grants returns the capabilities granted to a role, for introspection
// endpoints. The returned slice is a copy.
func (m *Matrix) Grants(role Role) []Capability {
	set := m.grants[role]
	caps := make([]Capability, 0, len(set))
	for _, c := range Capabilities {
		if _, ok := set[c]; ok {
			caps = append(caps, c)
		}
	}
	return caps
}
