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

package shop

import (
	"context"
	"errors"
	"time"
)

// Domain errors
var (
	ErrShopNotFound           = errors.New("shop not found")
	ErrInvalidStatus          = errors.New("invalid shop status")
	ErrConcurrentModification = errors.New("shop was modified concurrently")
)

// Status is a shop's activation state. A shop is created in StatusPending
// by self-service registration and moves between states only through
// admin-invoked transitions. No state is absorbing: re-activation from
// suspended or rejected is permitted.
type Status string

const (
	StatusPending   Status = "pending"
	StatusActive    Status = "active"
	StatusSuspended Status = "suspended"
	StatusRejected  Status = "rejected"
)

// Statuses lists every valid shop status.
var Statuses = []Status{StatusPending, StatusActive, StatusSuspended, StatusRejected}

// Valid reports whether s is a member of the closed status set.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusActive, StatusSuspended, StatusRejected:
		return true
	}
	return false
}

// ParseStatus converts a raw string into a Status.
func ParseStatus(raw string) (Status, error) {
	s := Status(raw)
	if !s.Valid() {
		return "", ErrInvalidStatus
	}
	return s, nil
}

// Shop represents a registered local shop. Profile fields are mutated by
// the owning dealer; Status and the activation fields are mutated only by
// admin transitions.
type Shop struct {
	ID               string
	OwnerID          string
	Name             string
	Description      string
	Address          string
	Phone            string
	Status           Status
	ActivationNotes  string
	PaymentReference string
	ActivatedAt      *time.Time
	ActivatedBy      string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// Profile holds the dealer-editable fields of a shop.
type Profile struct {
	Name        string
	Description string
	Address     string
	Phone       string
}

// StatusUpdate describes a conditional status write. Expected is the status
// the caller last observed; the store must apply the update only while the
// stored status still equals Expected.
type StatusUpdate struct {
	ShopID           string
	Expected         Status
	Target           Status
	ActivationNotes  *string
	PaymentReference *string
	ActivatedAt      *time.Time
	ActivatedBy      *string
}

// Repository defines the interface for shop storage. UpdateStatus must be
// atomic: it returns ErrConcurrentModification when the stored status no
// longer matches StatusUpdate.Expected, and ErrShopNotFound when the shop
// does not exist.
type Repository interface {
	Create(ctx context.Context, shop *Shop) error
	GetByID(ctx context.Context, id string) (*Shop, error)
	ListByOwner(ctx context.Context, ownerID string) ([]*Shop, error)
	List(ctx context.Context, status *Status, limit, offset int) ([]*Shop, error)
	UpdateProfile(ctx context.Context, id string, profile Profile) error
	UpdateStatus(ctx context.Context, update StatusUpdate) error
}
