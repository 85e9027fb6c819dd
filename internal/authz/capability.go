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

// Capability is a single fine-grained permission. Capabilities are never
// combined dynamically; each role's grant set is fixed at design time.
type Capability string

// Deal capabilities
const (
	CapDealsRead   Capability = "deals:read"
	CapDealsCreate Capability = "deals:create"
	CapDealsEdit   Capability = "deals:edit"
	CapDealsDelete Capability = "deals:delete"
)

// News capabilities
const (
	CapNewsRead   Capability = "news:read"
	CapNewsCreate Capability = "news:create"
	CapNewsEdit   Capability = "news:edit"
	CapNewsDelete Capability = "news:delete"
)

// User management capabilities
const (
	CapUsersRead   Capability = "users:read"
	CapUsersCreate Capability = "users:create"
	CapUsersEdit   Capability = "users:edit"
	CapUsersDelete Capability = "users:delete"
)

// Shop capabilities
const (
	CapShopsRead   Capability = "shops:read"
	CapShopsCreate Capability = "shops:create"
	CapShopsEdit   Capability = "shops:edit"
	CapShopsDelete Capability = "shops:delete"
)

// Cross-cutting capabilities
const (
	CapManageSettings  Capability = "settings:manage"
	CapViewAnalytics   Capability = "analytics:view"
	CapManagePlatforms Capability = "platforms:manage"
)

// Capabilities lists every capability the platform defines.
var Capabilities = []Capability{
	CapDealsRead, CapDealsCreate, CapDealsEdit, CapDealsDelete,
	CapNewsRead, CapNewsCreate, CapNewsEdit, CapNewsDelete,
	CapUsersRead, CapUsersCreate, CapUsersEdit, CapUsersDelete,
	CapShopsRead, CapShopsCreate, CapShopsEdit, CapShopsDelete,
	CapManageSettings, CapViewAnalytics, CapManagePlatforms,
}
