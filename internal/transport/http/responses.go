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
	"errors"
	"net/http"
	"strconv"

	"github.com/localdeals/localdeals/internal/authz"
	"github.com/localdeals/localdeals/internal/deal"
	"github.com/localdeals/localdeals/internal/identity"
	"github.com/localdeals/localdeals/internal/news"
	"github.com/localdeals/localdeals/internal/order"
	"github.com/localdeals/localdeals/internal/platform"
	"github.com/localdeals/localdeals/internal/settings"
	"github.com/localdeals/localdeals/internal/shop"
)

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{
		"error": message,
	})
}

// respondDomainError maps domain errors onto HTTP status codes. Permission
// denials are uniform 403s regardless of cause; lost conditional writes are
// 409s the client should retry after re-reading.
func respondDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, authz.ErrPermissionDenied):
		respondError(w, http.StatusForbidden, "permission denied")
	case errors.Is(err, shop.ErrShopNotFound),
		errors.Is(err, order.ErrOrderNotFound),
		errors.Is(err, deal.ErrDealNotFound),
		errors.Is(err, news.ErrArticleNotFound),
		errors.Is(err, platform.ErrPlatformNotFound),
		errors.Is(err, settings.ErrSettingNotFound),
		errors.Is(err, identity.ErrUserNotFound):
		respondError(w, http.StatusNotFound, "not found")
	case errors.Is(err, shop.ErrConcurrentModification),
		errors.Is(err, order.ErrConcurrentModification):
		respondError(w, http.StatusConflict, "resource was modified concurrently, retry with fresh state")
	case errors.Is(err, shop.ErrInvalidStatus),
		errors.Is(err, order.ErrInvalidTransition),
		errors.Is(err, order.ErrDealNotOrderable):
		respondError(w, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, identity.ErrUserAlreadyExists):
		respondError(w, http.StatusConflict, "user already exists")
	case errors.Is(err, identity.ErrInvalidEmail),
		errors.Is(err, identity.ErrWeakPassword),
		errors.Is(err, identity.ErrInvalidRole),
		errors.Is(err, deal.ErrInvalidReference):
		respondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, identity.ErrInvalidCredentials):
		respondError(w, http.StatusUnauthorized, "invalid credentials")
	case errors.Is(err, identity.ErrAccountLocked):
		respondError(w, http.StatusLocked, "account is locked")
	default:
		respondError(w, http.StatusInternalServerError, "internal error")
	}
}

// pagination reads limit/offset query parameters with sane bounds.
func pagination(r *http.Request) (limit, offset int) {
	limit = 50
	offset = 0
	if v, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && v > 0 && v <= 200 {
		limit = v
	}
	if v, err := strconv.Atoi(r.URL.Query().Get("offset")); err == nil && v >= 0 {
		offset = v
	}
	return limit, offset
}

func getIPAddress(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		return xff
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}
	return r.RemoteAddr
}
