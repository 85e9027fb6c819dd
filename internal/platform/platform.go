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

package platform

import (
	"context"
	"errors"
	"time"
)

// Domain errors
var (
	ErrPlatformNotFound = errors.New("platform not found")
)

// Platform represents an external affiliate platform that deals may
// reference instead of a local shop.
type Platform struct {
	ID        string
	Name      string
	BaseURL   string
	Active    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Repository defines the interface for platform storage
type Repository interface {
	Create(ctx context.Context, platform *Platform) error
	GetByID(ctx context.Context, id string) (*Platform, error)
	Update(ctx context.Context, platform *Platform) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]*Platform, error)
}
