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

import (
	"context"
	"errors"
	"time"

	"github.com/localdeals/localdeals/internal/shop"
)

// Domain errors
var (
	ErrDealNotFound     = errors.New("deal not found")
	ErrInvalidReference = errors.New("deal must reference exactly one of a shop or a platform")
)

// Deal represents a discounted offer. It references either a local shop or
// an external affiliate platform, never both. Whether a deal can currently
// be ordered is never stored; it is derived per read by IsOrderable.
type Deal struct {
	ID          string
	Title       string
	Description string
	Price       float64
	IsActive    bool
	ShopID      *string
	PlatformID  *string
	// Shop is the resolved shop for shop-backed deals. Read paths must
	// populate it; it is nil for affiliate deals.
	Shop      *shop.Shop
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Input holds the caller-editable fields of a deal.
type Input struct {
	Title       string
	Description string
	Price       float64
	IsActive    bool
	ShopID      *string
	PlatformID  *string
}

// Repository defines the interface for deal storage. GetByID and the list
// methods resolve the owning shop so that visibility can be derived.
type Repository interface {
	Create(ctx context.Context, deal *Deal) error
	GetByID(ctx context.Context, id string) (*Deal, error)
	Update(ctx context.Context, deal *Deal) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, limit, offset int) ([]*Deal, error)
	ListActive(ctx context.Context, limit, offset int) ([]*Deal, error)
	ListByShop(ctx context.Context, shopID string) ([]*Deal, error)
}
