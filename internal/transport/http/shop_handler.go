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
	"github.com/localdeals/localdeals/internal/shop"
)

// RegisterShop registers a new shop for the acting dealer
// @Summary Register Shop
// @Description Register a new shop, created in pending status
// @Tags Shops
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body shop.Profile true "Shop Profile"
// @Success 201 {object} map[string]any
// @Failure 400 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Router /shops [post]
func (h *Handler) RegisterShop(w http.ResponseWriter, r *http.Request) {
	actor := GetActor(r.Context())

	var profile shop.Profile
	if err := json.NewDecoder(r.Body).Decode(&profile); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if profile.Name == "" {
		respondError(w, http.StatusBadRequest, "shop name is required")
		return
	}

	s, err := h.shopService.Register(r.Context(), actor, profile)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, shopResponse(s))
}

// GetShop retrieves a shop
// @Summary Get Shop
// @Description Retrieve a shop by ID
// @Tags Shops
// @Produce json
// @Param shopID path string true "Shop ID"
// @Success 200 {object} map[string]any
// @Failure 404 {object} map[string]string
// @Router /shops/{shopID} [get]
func (h *Handler) GetShop(w http.ResponseWriter, r *http.Request) {
	s, err := h.shopService.Get(r.Context(), chi.URLParam(r, "shopID"))
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, shopResponse(s))
}

// ListShops lists shops with an optional status filter
// @Summary List Shops
// @Description List shops, requires shops:read
// @Tags Shops
// @Produce json
// @Security BearerAuth
// @Param status query string false "Status filter" Enums(pending, active, suspended, rejected)
// @Param limit query int false "Page size"
// @Param offset query int false "Page offset"
// @Success 200 {array} map[string]any
// @Failure 403 {object} map[string]string
// @Failure 422 {object} map[string]string
// @Router /shops [get]
func (h *Handler) ListShops(w http.ResponseWriter, r *http.Request) {
	actor := GetActor(r.Context())
	limit, offset := pagination(r)

	var status *shop.Status
	if raw := r.URL.Query().Get("status"); raw != "" {
		parsed, err := shop.ParseStatus(raw)
		if err != nil {
			respondDomainError(w, err)
			return
		}
		status = &parsed
	}

	shops, err := h.shopService.List(r.Context(), actor, status, limit, offset)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, shopListResponse(shops))
}

// ListMyShops lists the shops owned by the acting user
// @Summary List My Shops
// @Description List shops owned by the current user
// @Tags Shops
// @Produce json
// @Security BearerAuth
// @Success 200 {array} map[string]any
// @Router /shops/mine [get]
func (h *Handler) ListMyShops(w http.ResponseWriter, r *http.Request) {
	actor := GetActor(r.Context())

	shops, err := h.shopService.ListByOwner(r.Context(), actor.ID)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, shopListResponse(shops))
}

// UpdateShopProfile updates the dealer-editable shop fields
// @Summary Update Shop Profile
// @Description Update a shop's profile, owner or admin only
// @Tags Shops
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param shopID path string true "Shop ID"
// @Param request body shop.Profile true "Shop Profile"
// @Success 200 {object} map[string]any
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /shops/{shopID} [put]
func (h *Handler) UpdateShopProfile(w http.ResponseWriter, r *http.Request) {
	actor := GetActor(r.Context())

	var profile shop.Profile
	if err := json.NewDecoder(r.Body).Decode(&profile); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	s, err := h.shopService.UpdateProfile(r.Context(), chi.URLParam(r, "shopID"), profile, actor)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, shopResponse(s))
}

// TransitionShopRequest carries a shop status transition
type TransitionShopRequest struct {
	Status           string  `json:"status" enums:"pending,active,suspended,rejected"`
	ActivationNotes  *string `json:"activation_notes,omitempty"`
	PaymentReference *string `json:"payment_reference,omitempty"`
}

// TransitionShop moves a shop to a new status
// @Summary Transition Shop Status
// @Description Move a shop between statuses, admin only
// @Tags Shops
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param shopID path string true "Shop ID"
// @Param request body TransitionShopRequest true "Target Status"
// @Success 200 {object} map[string]any
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Failure 422 {object} map[string]string
// @Router /shops/{shopID}/status [post]
func (h *Handler) TransitionShop(w http.ResponseWriter, r *http.Request) {
	actor := GetActor(r.Context())
	shopID := chi.URLParam(r, "shopID")

	var req TransitionShopRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	current, err := h.shopService.Get(r.Context(), shopID)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	from := current.Status

	s, err := h.shopService.Transition(r.Context(), shopID, shop.Status(req.Status), actor,
		req.ActivationNotes, req.PaymentReference)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	h.counters.ShopTransition(r.Context(), string(from), string(s.Status))

	respondJSON(w, http.StatusOK, shopResponse(s))
}

func shopResponse(s *shop.Shop) map[string]any {
	resp := map[string]any{
		"shop_id":     s.ID,
		"owner_id":    s.OwnerID,
		"name":        s.Name,
		"description": s.Description,
		"address":     s.Address,
		"phone":       s.Phone,
		"status":      s.Status,
		"created_at":  s.CreatedAt,
		"updated_at":  s.UpdatedAt,
	}
	if s.ActivationNotes != "" {
		resp["activation_notes"] = s.ActivationNotes
	}
	if s.PaymentReference != "" {
		resp["payment_reference"] = s.PaymentReference
	}
	if s.ActivatedAt != nil {
		resp["activated_at"] = s.ActivatedAt
		resp["activated_by"] = s.ActivatedBy
	}
	return resp
}

func shopListResponse(shops []*shop.Shop) []map[string]any {
	out := make([]map[string]any, 0, len(shops))
	for _, s := range shops {
		out = append(out, shopResponse(s))
	}
	return out
}
