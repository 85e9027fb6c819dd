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
	"github.com/localdeals/localdeals/internal/deal"
)

// DealRequest represents the editable fields of a deal
type DealRequest struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	IsActive    bool    `json:"is_active"`
	ShopID      *string `json:"shop_id,omitempty"`
	PlatformID  *string `json:"platform_id,omitempty"`
}

// ListOrderableDeals lists the public storefront deals
// @Summary List Orderable Deals
// @Description List deals a customer can order right now
// @Tags Deals
// @Produce json
// @Param limit query int false "Page size"
// @Param offset query int false "Page offset"
// @Success 200 {array} map[string]any
// @Router /deals [get]
func (h *Handler) ListOrderableDeals(w http.ResponseWriter, r *http.Request) {
	limit, offset := pagination(r)

	deals, err := h.dealService.ListOrderable(r.Context(), limit, offset)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, dealListResponse(deals))
}

// GetDeal retrieves a single deal
// @Summary Get Deal
// @Description Retrieve a deal by ID
// @Tags Deals
// @Produce json
// @Param dealID path string true "Deal ID"
// @Success 200 {object} map[string]any
// @Failure 404 {object} map[string]string
// @Router /deals/{dealID} [get]
func (h *Handler) GetDeal(w http.ResponseWriter, r *http.Request) {
	d, err := h.dealService.Get(r.Context(), chi.URLParam(r, "dealID"))
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, dealResponse(d))
}

// ListAllDeals lists every deal including unpublished inventory
// @Summary List All Deals
// @Description List all deals regardless of orderability, requires deals:read
// @Tags Deals
// @Produce json
// @Security BearerAuth
// @Param limit query int false "Page size"
// @Param offset query int false "Page offset"
// @Success 200 {array} map[string]any
// @Failure 403 {object} map[string]string
// @Router /deals/all [get]
func (h *Handler) ListAllDeals(w http.ResponseWriter, r *http.Request) {
	actor := GetActor(r.Context())
	limit, offset := pagination(r)

	deals, err := h.dealService.List(r.Context(), actor, limit, offset)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, dealListResponse(deals))
}

// ListShopDeals lists a shop's orderable deals
// @Summary List Shop Deals
// @Description List the orderable deals of a single shop
// @Tags Deals
// @Produce json
// @Param shopID path string true "Shop ID"
// @Success 200 {array} map[string]any
// @Failure 404 {object} map[string]string
// @Router /shops/{shopID}/deals [get]
func (h *Handler) ListShopDeals(w http.ResponseWriter, r *http.Request) {
	deals, err := h.dealService.ListByShop(r.Context(), chi.URLParam(r, "shopID"))
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, dealListResponse(deals))
}

// CreateDeal creates a deal
// @Summary Create Deal
// @Description Create a deal for a shop or an affiliate platform, requires deals:create
// @Tags Deals
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body DealRequest true "Deal Data"
// @Success 201 {object} map[string]any
// @Failure 400 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Router /deals [post]
func (h *Handler) CreateDeal(w http.ResponseWriter, r *http.Request) {
	actor := GetActor(r.Context())

	var req DealRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	d, err := h.dealService.Create(r.Context(), deal.Input{
		Title:       req.Title,
		Description: req.Description,
		Price:       req.Price,
		IsActive:    req.IsActive,
		ShopID:      req.ShopID,
		PlatformID:  req.PlatformID,
	}, actor)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, dealResponse(d))
}

// UpdateDeal updates a deal's editable fields
// @Summary Update Deal
// @Description Update a deal, requires deals:edit
// @Tags Deals
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param dealID path string true "Deal ID"
// @Param request body DealRequest true "Deal Data"
// @Success 200 {object} map[string]any
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /deals/{dealID} [put]
func (h *Handler) UpdateDeal(w http.ResponseWriter, r *http.Request) {
	actor := GetActor(r.Context())

	var req DealRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	d, err := h.dealService.Update(r.Context(), chi.URLParam(r, "dealID"), deal.Input{
		Title:       req.Title,
		Description: req.Description,
		Price:       req.Price,
		IsActive:    req.IsActive,
	}, actor)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, dealResponse(d))
}

// DeleteDeal removes a deal
// @Summary Delete Deal
// @Description Delete a deal, requires deals:delete
// @Tags Deals
// @Produce json
// @Security BearerAuth
// @Param dealID path string true "Deal ID"
// @Success 200 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /deals/{dealID} [delete]
func (h *Handler) DeleteDeal(w http.ResponseWriter, r *http.Request) {
	actor := GetActor(r.Context())

	if err := h.dealService.Delete(r.Context(), chi.URLParam(r, "dealID"), actor); err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{
		"message": "deal deleted successfully",
	})
}

func dealResponse(d *deal.Deal) map[string]any {
	resp := map[string]any{
		"deal_id":      d.ID,
		"title":        d.Title,
		"description":  d.Description,
		"price":        d.Price,
		"is_active":    d.IsActive,
		"is_orderable": deal.IsOrderable(d),
		"created_at":   d.CreatedAt,
		"updated_at":   d.UpdatedAt,
	}
	if d.ShopID != nil {
		resp["shop_id"] = *d.ShopID
		if d.Shop != nil {
			resp["shop_name"] = d.Shop.Name
		}
	}
	if d.PlatformID != nil {
		resp["platform_id"] = *d.PlatformID
	}
	return resp
}

func dealListResponse(deals []*deal.Deal) []map[string]any {
	out := make([]map[string]any, 0, len(deals))
	for _, d := range deals {
		out = append(out, dealResponse(d))
	}
	return out
}
