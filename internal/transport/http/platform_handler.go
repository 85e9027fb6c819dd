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
	"github.com/localdeals/localdeals/internal/platform"
)

// PlatformRequest represents affiliate platform data
type PlatformRequest struct {
	Name    string `json:"name"`
	BaseURL string `json:"base_url"`
	Active  bool   `json:"active"`
}

// ListPlatforms lists affiliate platforms
// @Summary List Platforms
// @Description List affiliate platforms, requires platforms:manage
// @Tags Platforms
// @Produce json
// @Security BearerAuth
// @Success 200 {array} map[string]any
// @Failure 403 {object} map[string]string
// @Router /platforms [get]
func (h *Handler) ListPlatforms(w http.ResponseWriter, r *http.Request) {
	actor := GetActor(r.Context())

	platforms, err := h.platformService.List(r.Context(), actor)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	out := make([]map[string]any, 0, len(platforms))
	for _, p := range platforms {
		out = append(out, platformResponse(p))
	}
	respondJSON(w, http.StatusOK, out)
}

// CreatePlatform registers an affiliate platform
// @Summary Create Platform
// @Description Register an affiliate platform, requires platforms:manage
// @Tags Platforms
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body PlatformRequest true "Platform Data"
// @Success 201 {object} map[string]any
// @Failure 400 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Router /platforms [post]
func (h *Handler) CreatePlatform(w http.ResponseWriter, r *http.Request) {
	actor := GetActor(r.Context())

	var req PlatformRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	p, err := h.platformService.Create(r.Context(), req.Name, req.BaseURL, actor)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, platformResponse(p))
}

// UpdatePlatform updates an affiliate platform
// @Summary Update Platform
// @Description Update an affiliate platform, requires platforms:manage
// @Tags Platforms
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param platformID path string true "Platform ID"
// @Param request body PlatformRequest true "Platform Data"
// @Success 200 {object} map[string]any
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /platforms/{platformID} [put]
func (h *Handler) UpdatePlatform(w http.ResponseWriter, r *http.Request) {
	actor := GetActor(r.Context())

	var req PlatformRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	p, err := h.platformService.Update(r.Context(), chi.URLParam(r, "platformID"),
		req.Name, req.BaseURL, req.Active, actor)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, platformResponse(p))
}

// DeletePlatform removes an affiliate platform
// @Summary Delete Platform
// @Description Delete an affiliate platform, requires platforms:manage
// @Tags Platforms
// @Produce json
// @Security BearerAuth
// @Param platformID path string true "Platform ID"
// @Success 200 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /platforms/{platformID} [delete]
func (h *Handler) DeletePlatform(w http.ResponseWriter, r *http.Request) {
	actor := GetActor(r.Context())

	if err := h.platformService.Delete(r.Context(), chi.URLParam(r, "platformID"), actor); err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{
		"message": "platform deleted successfully",
	})
}

func platformResponse(p *platform.Platform) map[string]any {
	return map[string]any{
		"platform_id": p.ID,
		"name":        p.Name,
		"base_url":    p.BaseURL,
		"active":      p.Active,
		"created_at":  p.CreatedAt,
		"updated_at":  p.UpdatedAt,
	}
}
