// Package handler implements the HTTP layer: request binding and
// validation, identity extraction, and mapping workflow results into the
// uniform response envelope.
package handler

import (
	"errors"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/portapro/portapro-api/internal/response"
)

// getUserID extracts the authenticated user's id from the echo context.
// The JWT middleware stores the raw claim value, which may arrive in
// several numeric shapes depending on how the token was decoded.
func getUserID(c echo.Context) (uint64, error) {
	v := c.Get("user_id")
	switch t := v.(type) {
	case uint64:
		return t, nil
	case int:
		return uint64(t), nil
	case int64:
		return uint64(t), nil
	case float64:
		return uint64(t), nil
	case string:
		if n, err := strconv.ParseUint(t, 10, 64); err == nil {
			return n, nil
		}
	}
	return 0, errors.New("invalid user_id in context")
}

// respond serializes an envelope with the HTTP status mirroring its code.
func respond(c echo.Context, env *response.Envelope) error {
	return c.JSON(env.Code, env)
}

// respondError maps a workflow failure into its envelope. Untyped errors
// become an opaque 500 so nothing internal leaks to clients.
func respondError(c echo.Context, err error) error {
	var typed *response.Error
	if errors.As(err, &typed) {
		return c.JSON(typed.Code, typed.Envelope())
	}
	fallback := response.Internal("Internal server error")
	return c.JSON(fallback.Code, fallback.Envelope())
}

// badRequest writes a validation failure envelope.
func badRequest(c echo.Context, message string) error {
	return respondError(c, response.BadRequest(message))
}
