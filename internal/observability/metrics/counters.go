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

package metrics

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Counters holds the marketplace domain counters.
type Counters struct {
	shopTransitions   metric.Int64Counter
	orderTransitions  metric.Int64Counter
	ordersPlaced      metric.Int64Counter
	permissionDenials metric.Int64Counter
}

// NewCounters registers the domain counters on the meter.
func NewCounters(m *Meter) (*Counters, error) {
	shopTransitions, err := m.CreateCounter("shop_status_transitions_total", "Shop status transitions applied")
	if err != nil {
		return nil, err
	}
	orderTransitions, err := m.CreateCounter("order_status_transitions_total", "Order status transitions applied")
	if err != nil {
		return nil, err
	}
	ordersPlaced, err := m.CreateCounter("orders_placed_total", "Orders placed by customers")
	if err != nil {
		return nil, err
	}
	permissionDenials, err := m.CreateCounter("permission_denials_total", "Requests refused by the authorization guard")
	if err != nil {
		return nil, err
	}

	return &Counters{
		shopTransitions:   shopTransitions,
		orderTransitions:  orderTransitions,
		ordersPlaced:      ordersPlaced,
		permissionDenials: permissionDenials,
	}, nil
}

// ShopTransition records a shop status transition.
func (c *Counters) ShopTransition(ctx context.Context, from, to string) {
	c.shopTransitions.Add(ctx, 1,
		metric.WithAttributes(attribute.String("from", from), attribute.String("to", to)))
}

// OrderTransition records an order status transition.
func (c *Counters) OrderTransition(ctx context.Context, from, to string) {
	c.orderTransitions.Add(ctx, 1,
		metric.WithAttributes(attribute.String("from", from), attribute.String("to", to)))
}

// OrderPlaced records a placed order.
func (c *Counters) OrderPlaced(ctx context.Context) {
	c.ordersPlaced.Add(ctx, 1)
}

// PermissionDenied records a denied request by role and capability.
func (c *Counters) PermissionDenied(ctx context.Context, role, capability string) {
	c.permissionDenials.Add(ctx, 1,
		metric.WithAttributes(attribute.String("role", role), attribute.String("capability", capability)))
}
