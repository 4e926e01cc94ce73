package handler

import (
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/portapro/portapro-api/internal/service"
)

// AuthHandler exposes the credential-lifecycle workflows over HTTP. All
// request-shape validation happens here, before the workflow engine is
// called.
type AuthHandler struct {
	Auth *service.AuthService
}

func NewAuthHandler(auth *service.AuthService) *AuthHandler {
	return &AuthHandler{Auth: auth}
}

// ----- DTOs -----

type registerReq struct {
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phoneNumber"`
	Password    string `json:"password"`
}

type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type verifyEmailReq struct {
	Email             string `json:"email"`
	ConfirmationToken string `json:"confirmationToken"`
}

type emailReq struct {
	Email string `json:"email"`
}

type resetPasswordReq struct {
	Email       string `json:"email"`
	ResetToken  string `json:"resetToken"`
	NewPassword string `json:"newPassword"`
}

// validEmail performs a shape check only; the store's uniqueness constraint
// and the verification flow are the real gatekeepers.
func validEmail(s string) bool {
	at := strings.Index(s, "@")
	return at > 0 && at < len(s)-1 && !strings.ContainsAny(s, " \t")
}

// Register handles POST /v1/auth/register.
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	req.Email = strings.TrimSpace(req.Email)
	if req.FirstName == "" || req.LastName == "" || req.PhoneNumber == "" {
		return badRequest(c, "firstName, lastName and phoneNumber are required")
	}
	if !validEmail(req.Email) {
		return badRequest(c, "Please provide a valid email address")
	}
	if len(req.Password) < 6 {
		return badRequest(c, "Password must be at least 6 characters long")
	}

	env, err := h.Auth.Register(c.Request().Context(), service.RegisterInput{
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		Email:       req.Email,
		PhoneNumber: req.PhoneNumber,
		Password:    req.Password,
	})
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, env)
}

// Login handles POST /v1/auth/login.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	req.Email = strings.TrimSpace(req.Email)
	if req.Email == "" || req.Password == "" {
		return badRequest(c, "Email and password are required")
	}

	env, err := h.Auth.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, env)
}

// VerifyEmail handles POST /v1/auth/verify-email.
func (h *AuthHandler) VerifyEmail(c echo.Context) error {
	var req verifyEmailReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	req.Email = strings.TrimSpace(req.Email)
	if req.Email == "" || req.ConfirmationToken == "" {
		return badRequest(c, "Email and confirmation token are required")
	}

	env, err := h.Auth.VerifyEmail(c.Request().Context(), req.Email, req.ConfirmationToken)
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, env)
}

// ResendConfirmation handles POST /v1/auth/resend-confirmation.
func (h *AuthHandler) ResendConfirmation(c echo.Context) error {
	var req emailReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	req.Email = strings.TrimSpace(req.Email)
	if !validEmail(req.Email) {
		return badRequest(c, "Please provide a valid email address")
	}

	env, err := h.Auth.ResendConfirmation(c.Request().Context(), req.Email)
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, env)
}

// StartPasswordReset handles POST /v1/auth/reset-password.
func (h *AuthHandler) StartPasswordReset(c echo.Context) error {
	var req emailReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	req.Email = strings.TrimSpace(req.Email)
	if !validEmail(req.Email) {
		return badRequest(c, "Please provide a valid email address")
	}

	env, err := h.Auth.StartPasswordReset(c.Request().Context(), req.Email)
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, env)
}

// EndPasswordReset handles POST /v1/auth/reset-password/confirm.
func (h *AuthHandler) EndPasswordReset(c echo.Context) error {
	var req resetPasswordReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	req.Email = strings.TrimSpace(req.Email)
	if !validEmail(req.Email) {
		return badRequest(c, "Please provide a valid email address")
	}
	if req.ResetToken == "" {
		return badRequest(c, "Reset token is required")
	}
	if len(req.NewPassword) < 8 {
		return badRequest(c, "Password must be at least 8 characters long")
	}

	env, err := h.Auth.EndPasswordReset(c.Request().Context(), req.Email, req.ResetToken, req.NewPassword)
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, env)
}
