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

package news

import (
	"context"
	"fmt"
	"time"

	"github.com/localdeals/localdeals/internal/audit"
	"github.com/localdeals/localdeals/internal/authz"
	"github.com/localdeals/localdeals/internal/id"
)

// Service provides article management gated by the news capabilities.
type Service struct {
	repo        Repository
	guard       *authz.Guard
	auditLogger audit.Logger
}

// NewService creates a new news service
func NewService(repo Repository, guard *authz.Guard, auditLogger audit.Logger) *Service {
	return &Service{
		repo:        repo,
		guard:       guard,
		auditLogger: auditLogger,
	}
}

// Create creates an article. Requires news:create.
func (s *Service) Create(ctx context.Context, title, body string, published bool, actor authz.Actor) (*Article, error) {
	if err := s.guard.Authorize(ctx, actor, authz.CapNewsCreate); err != nil {
		return nil, err
	}
	if title == "" {
		return nil, fmt.Errorf("article title is required")
	}

	now := time.Now()
	article := &Article{
		ID:        id.NewUUIDv7(),
		Title:     title,
		Body:      body,
		AuthorID:  actor.ID,
		Published: published,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if published {
		article.PublishedAt = &now
	}

	if err := s.repo.Create(ctx, article); err != nil {
		return nil, fmt.Errorf("failed to create article: %w", err)
	}

	return article, nil
}

// Update replaces an article's content. Requires news:edit.
func (s *Service) Update(ctx context.Context, articleID, title, body string, published bool, actor authz.Actor) (*Article, error) {
	if err := s.guard.Authorize(ctx, actor, authz.CapNewsEdit); err != nil {
		return nil, err
	}

	article, err := s.repo.GetByID(ctx, articleID)
	if err != nil {
		return nil, err
	}

	article.Title = title
	article.Body = body
	if published && !article.Published {
		now := time.Now()
		article.PublishedAt = &now
	}
	article.Published = published
	article.UpdatedAt = time.Now()

	if err := s.repo.Update(ctx, article); err != nil {
		return nil, err
	}

	return article, nil
}

// Delete removes an article. Requires news:delete (admin only per the matrix).
func (s *Service) Delete(ctx context.Context, articleID string, actor authz.Actor) error {
	if err := s.guard.Authorize(ctx, actor, authz.CapNewsDelete); err != nil {
		return err
	}
	return s.repo.Delete(ctx, articleID)
}

// Get retrieves a single article.
func (s *Service) Get(ctx context.Context, articleID string) (*Article, error) {
	return s.repo.GetByID(ctx, articleID)
}

// List returns articles readable by the actor. Requires news:read; callers
// without news:edit only see published articles.
func (s *Service) List(ctx context.Context, actor authz.Actor, limit, offset int) ([]*Article, error) {
	if err := s.guard.Authorize(ctx, actor, authz.CapNewsRead); err != nil {
		return nil, err
	}
	publishedOnly := !s.guard.Check(actor.Role, authz.CapNewsEdit)
	return s.repo.List(ctx, publishedOnly, limit, offset)
}
