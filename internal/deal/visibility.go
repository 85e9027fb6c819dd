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

package deal

import "github.com/localdeals/localdeals/internal/shop"

// IsOrderable reports whether a customer may currently place an order
// against the deal. It is the single visibility rule for every read path;
// the result is never persisted, so a shop status change takes effect on
// the next read.
//
// An affiliate deal (no shop reference) is orderable on its own flag. A
// shop-backed deal additionally requires the shop to be active: shop
// status dominates the deal's flag. A shop-backed deal whose shop has not
// been resolved is not orderable (fail closed).
func IsOrderable(d *Deal) bool {
	if d == nil || !d.IsActive {
		return false
	}
	if d.ShopID == nil {
		return true
	}
	return d.Shop != nil && d.Shop.Status == shop.StatusActive
}
