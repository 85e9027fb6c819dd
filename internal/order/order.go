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

package order

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Domain errors
var (
	ErrOrderNotFound          = errors.New("order not found")
	ErrInvalidTransition      = errors.New("invalid order status transition")
	ErrDealNotOrderable       = errors.New("deal is not orderable")
	ErrConcurrentModification = errors.New("order was modified concurrently")
)

// Status is an order's fulfillment state. Orders advance monotonically
// forward or are cancelled; they are never deleted.
type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusDelivered Status = "delivered"
	StatusCancelled Status = "cancelled"
)

// Statuses lists every valid order status.
var Statuses = []Status{StatusPending, StatusConfirmed, StatusDelivered, StatusCancelled}

// Valid reports whether s is a member of the closed status set.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusDelivered, StatusCancelled:
		return true
	}
	return false
}

// ParseStatus converts a raw string into a Status.
func ParseStatus(raw string) (Status, error) {
	s := Status(raw)
	if !s.Valid() {
		return "", fmt.Errorf("%w: unknown status %q", ErrInvalidTransition, raw)
	}
	return s, nil
}

// allowedTransitions defines the valid state transitions. The key is the
// current status, the value the set of permitted targets. Delivered and
// cancelled are terminal.
var allowedTransitions = map[Status][]Status{
	StatusPending:   {StatusConfirmed, StatusCancelled},
	StatusConfirmed: {StatusDelivered},
	StatusDelivered: {},
	StatusCancelled: {},
}

// CanTransition checks if a transition from one status to another is allowed.
func CanTransition(from, to Status) bool {
	for _, s := range allowedTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// ValidateTransition returns ErrInvalidTransition (with context) if the
// from -> to pair is not allowed.
func ValidateTransition(from, to Status) error {
	if !to.Valid() {
		return fmt.Errorf("%w: unknown status %q", ErrInvalidTransition, to)
	}
	if !CanTransition(from, to) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from, to)
	}
	return nil
}

// Contact holds the customer's contact details. The core treats these as
// opaque except for the email, which authorizes the customer cancel path.
type Contact struct {
	Name    string
	Email   string
	Phone   string
	Address string
}

// Order represents a customer order against a deal.
type Order struct {
	ID          string
	DealID      string
	ShopID      string
	Status      Status
	Customer    Contact
	Quantity    int
	TotalAmount float64
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// StatusUpdate describes a conditional status write, mirroring the shop
// contract: the store applies it only while the stored status still equals
// Expected.
type StatusUpdate struct {
	OrderID  string
	Expected Status
	Target   Status
}

// Repository defines the interface for order storage. UpdateStatus must
// return ErrConcurrentModification when the conditional write loses a race
// and ErrOrderNotFound when the order does not exist.
type Repository interface {
	Create(ctx context.Context, order *Order) error
	GetByID(ctx context.Context, id string) (*Order, error)
	ListByShop(ctx context.Context, shopID string, limit, offset int) ([]*Order, error)
	UpdateStatus(ctx context.Context, update StatusUpdate) error
}
