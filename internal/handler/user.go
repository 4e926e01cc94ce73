package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/portapro/portapro-api/internal/repository"
	"github.com/portapro/portapro-api/internal/response"
	"github.com/portapro/portapro-api/internal/service"
)

// UserHandler exposes the authenticated user's own profile. Credential
// fields (password, verification state, pending token) are only ever
// mutated through the auth workflows, never through profile updates.
type UserHandler struct {
	Users service.CredentialStore
}

func NewUserHandler(users service.CredentialStore) *UserHandler {
	return &UserHandler{Users: users}
}

type updateUserReq struct {
	FirstName   *string `json:"firstName"`
	LastName    *string `json:"lastName"`
	PhoneNumber *string `json:"phoneNumber"`
}

// Me handles GET /v1/users/me.
func (h *UserHandler) Me(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return respondError(c, response.Unauthorized("Unauthorized"))
	}
	u, err := h.Users.FindByID(c.Request().Context(), userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return respondError(c, response.NotFound("User not found"))
		}
		return respondError(c, err)
	}
	return respond(c, response.New("User retrieved successfully", http.StatusOK, service.NewUserProfile(u)))
}

// Update handles PUT /v1/users/me with a partial profile update.
func (h *UserHandler) Update(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return respondError(c, response.Unauthorized("Unauthorized"))
	}
	var req updateUserReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if req.FirstName == nil && req.LastName == nil && req.PhoneNumber == nil {
		return badRequest(c, "Nothing to update")
	}

	u, err := h.Users.Update(c.Request().Context(), userID, repository.UserUpdate{
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		PhoneNumber: req.PhoneNumber,
	})
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return respondError(c, response.NotFound("User not found"))
		}
		return respondError(c, err)
	}
	return respond(c, response.New("User updated successfully", http.StatusOK, service.NewUserProfile(u)))
}

// Delete handles DELETE /v1/users/me.
func (h *UserHandler) Delete(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return respondError(c, response.Unauthorized("Unauthorized"))
	}
	if err := h.Users.Delete(c.Request().Context(), userID); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return respondError(c, response.NotFound("User not found"))
		}
		return respondError(c, err)
	}
	return respond(c, response.New("User deleted successfully", http.StatusOK, nil))
}
