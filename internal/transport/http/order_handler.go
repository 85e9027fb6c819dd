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
	"github.com/localdeals/localdeals/internal/order"
)

// PlaceOrderRequest represents a customer order
type PlaceOrderRequest struct {
	DealID   string `json:"deal_id"`
	Quantity int    `json:"quantity"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
}

// PlaceOrder places an order against an orderable deal
// @Summary Place Order
// @Description Place a customer order, no account required
// @Tags Orders
// @Accept json
// @Produce json
// @Param request body PlaceOrderRequest true "Order Data"
// @Success 201 {object} map[string]any
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 422 {object} map[string]string
// @Router /orders [post]
func (h *Handler) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	var req PlaceOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.DealID == "" {
		respondError(w, http.StatusBadRequest, "deal_id is required")
		return
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}

	customer := order.Contact{
		Name:    req.Name,
		Email:   req.Email,
		Phone:   req.Phone,
		Address: req.Address,
	}

	ord, err := h.orderService.Place(r.Context(), req.DealID, customer, req.Quantity)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	h.counters.OrderPlaced(r.Context())

	respondJSON(w, http.StatusCreated, orderResponse(ord))
}

// CancelOrderRequest identifies the cancelling customer
type CancelOrderRequest struct {
	Email string `json:"email"`
}

// CancelOrder cancels a pending order on behalf of its customer
// @Summary Cancel Order
// @Description Cancel a pending order, the email must match the order contact
// @Tags Orders
// @Accept json
// @Produce json
// @Param orderID path string true "Order ID"
// @Param request body CancelOrderRequest true "Customer Email"
// @Success 200 {object} map[string]any
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 422 {object} map[string]string
// @Router /orders/{orderID}/cancel [post]
func (h *Handler) CancelOrder(w http.ResponseWriter, r *http.Request) {
	var req CancelOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	ord, err := h.orderService.CancelByCustomer(r.Context(), chi.URLParam(r, "orderID"), req.Email)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	h.counters.OrderTransition(r.Context(), string(order.StatusPending), string(ord.Status))

	respondJSON(w, http.StatusOK, orderResponse(ord))
}

// GetOrder retrieves an order
// @Summary Get Order
// @Description Retrieve an order, admin or owning dealer only
// @Tags Orders
// @Produce json
// @Security BearerAuth
// @Param orderID path string true "Order ID"
// @Success 200 {object} map[string]any
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /orders/{orderID} [get]
func (h *Handler) GetOrder(w http.ResponseWriter, r *http.Request) {
	actor := GetActor(r.Context())

	ord, err := h.orderService.Get(r.Context(), chi.URLParam(r, "orderID"), actor)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, orderResponse(ord))
}

// AdvanceOrderRequest carries the target order status
type AdvanceOrderRequest struct {
	Status string `json:"status" enums:"confirmed,delivered,cancelled"`
}

// AdvanceOrder moves an order through the fulfillment lifecycle
// @Summary Advance Order Status
// @Description Move an order to the next status, admin or owning dealer only
// @Tags Orders
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param orderID path string true "Order ID"
// @Param request body AdvanceOrderRequest true "Target Status"
// @Success 200 {object} map[string]any
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Failure 422 {object} map[string]string
// @Router /orders/{orderID}/status [post]
func (h *Handler) AdvanceOrder(w http.ResponseWriter, r *http.Request) {
	actor := GetActor(r.Context())
	orderID := chi.URLParam(r, "orderID")

	var req AdvanceOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	current, err := h.orderService.Get(r.Context(), orderID, actor)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	from := current.Status

	ord, err := h.orderService.Advance(r.Context(), orderID, order.Status(req.Status), actor)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	h.counters.OrderTransition(r.Context(), string(from), string(ord.Status))

	respondJSON(w, http.StatusOK, orderResponse(ord))
}

// ListShopOrders lists a shop's orders
// @Summary List Shop Orders
// @Description List orders of a shop, admin or owning dealer only
// @Tags Orders
// @Produce json
// @Security BearerAuth
// @Param shopID path string true "Shop ID"
// @Param limit query int false "Page size"
// @Param offset query int false "Page offset"
// @Success 200 {array} map[string]any
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /shops/{shopID}/orders [get]
func (h *Handler) ListShopOrders(w http.ResponseWriter, r *http.Request) {
	actor := GetActor(r.Context())
	limit, offset := pagination(r)

	orders, err := h.orderService.ListByShop(r.Context(), chi.URLParam(r, "shopID"), actor, limit, offset)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	out := make([]map[string]any, 0, len(orders))
	for _, ord := range orders {
		out = append(out, orderResponse(ord))
	}
	respondJSON(w, http.StatusOK, out)
}

func orderResponse(ord *order.Order) map[string]any {
	return map[string]any{
		"order_id":     ord.ID,
		"deal_id":      ord.DealID,
		"shop_id":      ord.ShopID,
		"status":       ord.Status,
		"quantity":     ord.Quantity,
		"total_amount": ord.TotalAmount,
		"customer": map[string]string{
			"name":    ord.Customer.Name,
			"email":   ord.Customer.Email,
			"phone":   ord.Customer.Phone,
			"address": ord.Customer.Address,
		},
		"created_at": ord.CreatedAt,
		"updated_at": ord.UpdatedAt,
	}
}
