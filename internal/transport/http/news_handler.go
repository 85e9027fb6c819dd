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

package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/localdeals/localdeals/internal/news"
)

// ArticleRequest represents article content
type ArticleRequest struct {
	Title     string `json:"title"`
	Body      string `json:"body"`
	Published bool   `json:"published"`
}

// ListNews lists articles
// @Summary List News
// @Description List articles, anonymous callers see published ones only
// @Tags News
// @Produce json
// @Param limit query int false "Page size"
// @Param offset query int false "Page offset"
// @Success 200 {array} map[string]any
// @Router /news [get]
func (h *Handler) ListNews(w http.ResponseWriter, r *http.Request) {
	actor := GetActor(r.Context())
	limit, offset := pagination(r)

	articles, err := h.newsService.List(r.Context(), actor, limit, offset)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	out := make([]map[string]any, 0, len(articles))
	for _, a := range articles {
		out = append(out, articleResponse(a))
	}
	respondJSON(w, http.StatusOK, out)
}

// GetArticle retrieves an article
// @Summary Get Article
// @Description Retrieve an article by ID
// @Tags News
// @Produce json
// @Param articleID path string true "Article ID"
// @Success 200 {object} map[string]any
// @Failure 404 {object} map[string]string
// @Router /news/{articleID} [get]
func (h *Handler) GetArticle(w http.ResponseWriter, r *http.Request) {
	a, err := h.newsService.Get(r.Context(), chi.URLParam(r, "articleID"))
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, articleResponse(a))
}

// CreateArticle creates an article
// @Summary Create Article
// @Description Create an article, requires news:create
// @Tags News
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body ArticleRequest true "Article Data"
// @Success 201 {object} map[string]any
// @Failure 400 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Router /news [post]
func (h *Handler) CreateArticle(w http.ResponseWriter, r *http.Request) {
	actor := GetActor(r.Context())

	var req ArticleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	a, err := h.newsService.Create(r.Context(), req.Title, req.Body, req.Published, actor)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, articleResponse(a))
}

// UpdateArticle replaces an article's content
// @Summary Update Article
// @Description Update an article, requires news:edit
// @Tags News
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param articleID path string true "Article ID"
// @Param request body ArticleRequest true "Article Data"
// @Success 200 {object} map[string]any
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /news/{articleID} [put]
func (h *Handler) UpdateArticle(w http.ResponseWriter, r *http.Request) {
	actor := GetActor(r.Context())

	var req ArticleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	a, err := h.newsService.Update(r.Context(), chi.URLParam(r, "articleID"),
		req.Title, req.Body, req.Published, actor)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, articleResponse(a))
}

// DeleteArticle removes an article
// @Summary Delete Article
// @Description Delete an article, requires news:delete
// @Tags News
// @Produce json
// @Security BearerAuth
// @Param articleID path string true "Article ID"
// @Success 200 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /news/{articleID} [delete]
func (h *Handler) DeleteArticle(w http.ResponseWriter, r *http.Request) {
	actor := GetActor(r.Context())

	if err := h.newsService.Delete(r.Context(), chi.URLParam(r, "articleID"), actor); err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{
		"message": "article deleted successfully",
	})
}

func articleResponse(a *news.Article) map[string]any {
	resp := map[string]any{
		"article_id": a.ID,
		"title":      a.Title,
		"body":       a.Body,
		"author_id":  a.AuthorID,
		"published":  a.Published,
		"created_at": a.CreatedAt,
		"updated_at": a.UpdatedAt,
	}
	if a.PublishedAt != nil {
		resp["published_at"] = a.PublishedAt
	}
	return resp
}
