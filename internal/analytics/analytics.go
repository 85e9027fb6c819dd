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

package analytics

import (
	"context"

	"github.com/localdeals/localdeals/internal/authz"
	"github.com/localdeals/localdeals/internal/order"
	"github.com/localdeals/localdeals/internal/shop"
)

// Overview is the aggregate snapshot shown on the admin dashboard.
type Overview struct {
	ShopsByStatus  map[shop.Status]int
	OrdersByStatus map[order.Status]int
	ActiveDeals    int
	TotalRevenue   float64
}

// Repository defines the read-side aggregate queries.
type Repository interface {
	ShopsByStatus(ctx context.Context) (map[shop.Status]int, error)
	OrdersByStatus(ctx context.Context) (map[order.Status]int, error)
	ActiveDealCount(ctx context.Context) (int, error)
	DeliveredRevenue(ctx context.Context) (float64, error)
}

// Service exposes platform aggregates gated by analytics:view.
type Service struct {
	repo  Repository
	guard *authz.Guard
}

// NewService creates a new analytics service
func NewService(repo Repository, guard *authz.Guard) *Service {
	return &Service{repo: repo, guard: guard}
}

// Overview assembles the dashboard snapshot. Requires analytics:view.
func (s *Service) Overview(ctx context.Context, actor authz.Actor) (*Overview, error) {
	if err := s.guard.Authorize(ctx, actor, authz.CapViewAnalytics); err != nil {
		return nil, err
	}

	shops, err := s.repo.ShopsByStatus(ctx)
	if err != nil {
		return nil, err
	}
	orders, err := s.repo.OrdersByStatus(ctx)
	if err != nil {
		return nil, err
	}
	activeDeals, err := s.repo.ActiveDealCount(ctx)
	if err != nil {
		return nil, err
	}
	revenue, err := s.repo.DeliveredRevenue(ctx)
	if err != nil {
		return nil, err
	}

	return &Overview{
		ShopsByStatus:  shops,
		OrdersByStatus: orders,
		ActiveDeals:    activeDeals,
		TotalRevenue:   revenue,
	}, nil
}
