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
	"github.com/localdeals/localdeals/internal/authz"
	"github.com/localdeals/localdeals/internal/identity"
)

// ListUsers lists accounts
// @Summary List Users
// @Description List user accounts, requires users:read
// @Tags Users
// @Produce json
// @Security BearerAuth
// @Param limit query int false "Page size"
// @Param offset query int false "Page offset"
// @Success 200 {array} map[string]any
// @Failure 403 {object} map[string]string
// @Router /users [get]
func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	actor := GetActor(r.Context())
	limit, offset := pagination(r)

	users, err := h.identityService.List(r.Context(), actor, limit, offset)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	out := make([]map[string]any, 0, len(users))
	for _, u := range users {
		out = append(out, map[string]any{
			"user_id":    u.ID,
			"email":      u.Email,
			"role":       u.Role,
			"profile":    u.Profile,
			"created_at": u.CreatedAt,
		})
	}
	respondJSON(w, http.StatusOK, out)
}

// CreateUserRequest represents admin account creation data
type CreateUserRequest struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	Role        string `json:"role" enums:"admin,editor,dealer,news_writer,user"`
	DisplayName string `json:"display_name"`
}

// CreateUser creates an account with an arbitrary role
// @Summary Create User
// @Description Create an account with any role, requires users:create
// @Tags Users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateUserRequest true "Account Data"
// @Success 201 {object} map[string]any
// @Failure 400 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Router /users [post]
func (h *Handler) CreateUser(w http.ResponseWriter, r *http.Request) {
	actor := GetActor(r.Context())

	var req CreateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, err := h.identityService.CreateUser(r.Context(), req.Email, req.Password,
		authz.Role(req.Role), identity.Profile{DisplayName: req.DisplayName}, actor)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, map[string]any{
		"user_id": user.ID,
		"email":   user.Email,
		"role":    user.Role,
	})
}

// ChangeRoleRequest carries the target role
type ChangeRoleRequest struct {
	Role string `json:"role" enums:"admin,editor,dealer,news_writer,user"`
}

// ChangeUserRole changes an account's role
// @Summary Change User Role
// @Description Assign a different role to a user, requires users:edit
// @Tags Users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param userID path string true "User ID"
// @Param request body ChangeRoleRequest true "Target Role"
// @Success 200 {object} map[string]string
// @Failure 400 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Router /users/{userID}/role [put]
func (h *Handler) ChangeUserRole(w http.ResponseWriter, r *http.Request) {
	actor := GetActor(r.Context())
	userID := chi.URLParam(r, "userID")

	var req ChangeRoleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.identityService.ChangeRole(r.Context(), userID, authz.Role(req.Role), actor); err != nil {
		respondDomainError(w, err)
		return
	}

	// Existing sessions still carry the old role; drop them.
	if err := h.sessionService.RevokeAllForUser(r.Context(), userID); err != nil {
		respondError(w, http.StatusInternalServerError, "role changed but failed to revoke sessions")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{
		"message": "role changed successfully",
	})
}

// DeleteUser removes an account
// @Summary Delete User
// @Description Soft-delete an account, requires users:delete
// @Tags Users
// @Produce json
// @Security BearerAuth
// @Param userID path string true "User ID"
// @Success 200 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /users/{userID} [delete]
func (h *Handler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	actor := GetActor(r.Context())
	userID := chi.URLParam(r, "userID")

	if err := h.identityService.Delete(r.Context(), userID, actor); err != nil {
		respondDomainError(w, err)
		return
	}

	if err := h.sessionService.RevokeAllForUser(r.Context(), userID); err != nil {
		respondError(w, http.StatusInternalServerError, "user deleted but failed to revoke sessions")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{
		"message": "user deleted successfully",
	})
}
