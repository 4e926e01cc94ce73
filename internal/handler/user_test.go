package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/portapro/portapro-api/internal/model"
)

func seedUser(t *testing.T, store *memUsers) *model.User {
	t.Helper()
	u := &model.User{
		FirstName:   "Ada",
		LastName:    "Lovelace",
		Email:       "a@x.com",
		PhoneNumber: "+1234567890",
	}
	require.NoError(t, store.Create(context.Background(), u))
	return u
}

// doAs runs a handler with an authenticated identity in the context, the
// way the JWT middleware would leave it.
func doAs(t *testing.T, h echo.HandlerFunc, userID uint64, method, path, body string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	// JWT claims decode numbers as float64.
	c.Set("user_id", float64(userID))
	require.NoError(t, h(c))

	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	assert.Equal(t, rec.Code, env.Code)
	return rec, env
}

func TestUserMe(t *testing.T) {
	store := newMemUsers()
	u := seedUser(t, store)
	h := NewUserHandler(store)

	rec, env := doAs(t, h.Me, u.ID, http.MethodGet, "/v1/users/me", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "User retrieved successfully", env.Message)

	var profile struct {
		Email string `json:"email"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &profile))
	assert.Equal(t, "a@x.com", profile.Email)
	// Credential internals never appear in the profile view.
	assert.NotContains(t, string(env.Data), "password")
	assert.NotContains(t, string(env.Data), "token")

	rec, env = doAs(t, h.Me, 999, http.MethodGet, "/v1/users/me", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "User not found", env.Message)
}

func TestUserUpdate(t *testing.T) {
	store := newMemUsers()
	u := seedUser(t, store)
	h := NewUserHandler(store)

	rec, env := doAs(t, h.Update, u.ID, http.MethodPut, "/v1/users/me", `{"firstName":"Grace"}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "User updated successfully", env.Message)

	stored, err := store.FindByID(context.Background(), u.ID)
	require.NoError(t, err)
	assert.Equal(t, "Grace", stored.FirstName)
	assert.Equal(t, "Lovelace", stored.LastName)

	rec, env = doAs(t, h.Update, u.ID, http.MethodPut, "/v1/users/me", `{}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Nothing to update", env.Message)
}

func TestUserDelete(t *testing.T) {
	store := newMemUsers()
	u := seedUser(t, store)
	h := NewUserHandler(store)

	rec, env := doAs(t, h.Delete, u.ID, http.MethodDelete, "/v1/users/me", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "User deleted successfully", env.Message)

	rec, env = doAs(t, h.Delete, u.ID, http.MethodDelete, "/v1/users/me", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "User not found", env.Message)
}
