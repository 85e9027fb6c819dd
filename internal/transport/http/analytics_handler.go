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
	"net/http"
)

// AnalyticsOverview returns platform-wide counters
// @Summary Analytics Overview
// @Description Retrieve shop, order, deal and revenue totals, requires analytics:view
// @Tags Analytics
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]any
// @Failure 403 {object} map[string]string
// @Router /analytics/overview [get]
func (h *Handler) AnalyticsOverview(w http.ResponseWriter, r *http.Request) {
	actor := GetActor(r.Context())

	overview, err := h.analyticsService.Overview(r.Context(), actor)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"shops_by_status":  overview.ShopsByStatus,
		"orders_by_status": overview.OrdersByStatus,
		"active_deals":     overview.ActiveDeals,
		"total_revenue":    overview.TotalRevenue,
	})
}
