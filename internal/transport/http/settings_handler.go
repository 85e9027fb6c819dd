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
)

// SetSettingRequest carries a setting value
type SetSettingRequest struct {
	Value string `json:"value"`
}

// ListSettings lists site settings
// @Summary List Settings
// @Description List site-wide settings
// @Tags Settings
// @Produce json
// @Success 200 {object} map[string]string
// @Router /settings [get]
func (h *Handler) ListSettings(w http.ResponseWriter, r *http.Request) {
	all, err := h.settingsService.List(r.Context())
	if err != nil {
		respondDomainError(w, err)
		return
	}

	out := make(map[string]string, len(all))
	for _, s := range all {
		out[s.Key] = s.Value
	}
	respondJSON(w, http.StatusOK, out)
}

// SetSetting stores a setting value
// @Summary Set Setting
// @Description Update a site setting, requires settings:manage
// @Tags Settings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param key path string true "Setting Key"
// @Param request body SetSettingRequest true "Setting Value"
// @Success 200 {object} map[string]any
// @Failure 400 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Router /settings/{key} [put]
func (h *Handler) SetSetting(w http.ResponseWriter, r *http.Request) {
	actor := GetActor(r.Context())

	var req SetSettingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	s, err := h.settingsService.Set(r.Context(), chi.URLParam(r, "key"), req.Value, actor)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"key":        s.Key,
		"value":      s.Value,
		"updated_at": s.UpdatedAt,
	})
}
