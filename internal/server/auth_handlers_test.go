package server

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"postfeed/internal/auth"
	"postfeed/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func registerForm(t *testing.T, fields map[string]string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	require.NoError(t, w.Close())
	return &buf, w.FormDataContentType()
}

func TestRegister(t *testing.T) {
	t.Run("creates account and sets session cookie", func(t *testing.T) {
		app, deps := newTestServer(t)

		deps.users.On("GetByEmail", mock.Anything, "alice@example.com").Return(nil, nil)
		deps.users.On("GetByUsername", mock.Anything, "alice").Return(nil, nil)
		deps.users.On("Create", mock.Anything, mock.AnythingOfType("*models.User")).
			Run(func(args mock.Arguments) {
				args.Get(1).(*models.User).ID = 1
			}).
			Return(nil)

		body, contentType := registerForm(t, map[string]string{
			"username": "alice",
			"email":    "Alice@Example.com",
			"password": "secret1",
		})
		req := httptest.NewRequest(http.MethodPost, "/api/auth/register", body)
		req.Header.Set("Content-Type", contentType)

		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusCreated, resp.StatusCode)

		payload := decodeBody(t, resp)
		assert.Equal(t, true, payload["success"])
		assert.NotEmpty(t, payload["token"])
		user := payload["user"].(map[string]any)
		assert.Equal(t, "alice", user["username"])
		assert.Equal(t, "alice@example.com", user["email"])
		_, exposed := user["password"]
		assert.False(t, exposed, "password hash must never be serialized")

		cookie := sessionCookie(resp)
		require.NotNil(t, cookie)
		assert.True(t, cookie.HttpOnly)
		assert.NotEmpty(t, cookie.Value)

		identity, err := auth.ValidateSession(cookie.Value, testJWTSecret)
		require.NoError(t, err)
		assert.Equal(t, uint(1), identity.UserID)

		deps.users.AssertExpectations(t)
	})

	t.Run("duplicate email", func(t *testing.T) {
		app, deps := newTestServer(t)

		deps.users.On("GetByEmail", mock.Anything, "taken@example.com").
			Return(&models.User{ID: 2}, nil)

		body, contentType := registerForm(t, map[string]string{
			"username": "alice",
			"email":    "taken@example.com",
			"password": "secret1",
		})
		req := httptest.NewRequest(http.MethodPost, "/api/auth/register", body)
		req.Header.Set("Content-Type", contentType)

		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusConflict, resp.StatusCode)

		payload := decodeBody(t, resp)
		assert.Equal(t, false, payload["success"])
		assert.Equal(t, "User with this email or username already exists", payload["error"])
		assert.Nil(t, sessionCookie(resp))
	})

	t.Run("short password", func(t *testing.T) {
		app, _ := newTestServer(t)

		body, contentType := registerForm(t, map[string]string{
			"username": "alice",
			"email":    "a@b.com",
			"password": "12345",
		})
		req := httptest.NewRequest(http.MethodPost, "/api/auth/register", body)
		req.Header.Set("Content-Type", contentType)

		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "Password must be at least 6 characters long", decodeBody(t, resp)["error"])
	})

	t.Run("profile picture is relayed to storage", func(t *testing.T) {
		app, deps := newTestServer(t)

		deps.users.On("GetByEmail", mock.Anything, mock.Anything).Return(nil, nil)
		deps.users.On("GetByUsername", mock.Anything, mock.Anything).Return(nil, nil)
		deps.users.On("Create", mock.Anything, mock.AnythingOfType("*models.User")).Return(nil)

		var buf bytes.Buffer
		w := multipart.NewWriter(&buf)
		require.NoError(t, w.WriteField("username", "alice"))
		require.NoError(t, w.WriteField("email", "a@b.com"))
		require.NoError(t, w.WriteField("password", "secret1"))
		part, err := w.CreateFormFile("profilePic", "me.png")
		require.NoError(t, err)
		_, err = part.Write([]byte("fake png"))
		require.NoError(t, err)
		require.NoError(t, w.Close())

		req := httptest.NewRequest(http.MethodPost, "/api/auth/register", &buf)
		req.Header.Set("Content-Type", w.FormDataContentType())

		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusCreated, resp.StatusCode)
		assert.Equal(t, []string{"me.png"}, deps.store.uploads)

		user := decodeBody(t, resp)["user"].(map[string]any)
		assert.Equal(t, "https://cdn.test/me.png", user["profilePic"])
	})
}

func TestLogin(t *testing.T) {
	hash, err := auth.HashPassword("secret1")
	require.NoError(t, err)
	account := &models.User{ID: 7, Username: "alice", Email: "a@b.com", Password: hash}

	login := func(t *testing.T, app *fiber.App, body map[string]string) *http.Response {
		t.Helper()
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		req := httptest.NewRequest(http.MethodPost, "/api/auth/login", bytes.NewReader(raw))
		req.Header.Set("Content-Type", "application/json")
		resp, err := app.Test(req)
		require.NoError(t, err)
		return resp
	}

	t.Run("success by email", func(t *testing.T) {
		app, deps := newTestServer(t)
		deps.users.On("GetByEmail", mock.Anything, "a@b.com").Return(account, nil)

		resp := login(t, app, map[string]string{"email": "a@b.com", "password": "secret1"})
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)

		payload := decodeBody(t, resp)
		assert.Equal(t, "Login successful", payload["message"])
		require.NotNil(t, sessionCookie(resp))
	})

	t.Run("success by username", func(t *testing.T) {
		app, deps := newTestServer(t)
		deps.users.On("GetByUsername", mock.Anything, "alice").Return(account, nil)

		resp := login(t, app, map[string]string{"username": "alice", "password": "secret1"})
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	})

	t.Run("unknown user", func(t *testing.T) {
		app, deps := newTestServer(t)
		deps.users.On("GetByEmail", mock.Anything, "nobody@b.com").Return(nil, nil)

		resp := login(t, app, map[string]string{"email": "nobody@b.com", "password": "secret1"})
		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
		assert.Equal(t, "User not found", decodeBody(t, resp)["error"])
	})

	t.Run("wrong password", func(t *testing.T) {
		app, deps := newTestServer(t)
		deps.users.On("GetByEmail", mock.Anything, "a@b.com").Return(account, nil)

		resp := login(t, app, map[string]string{"email": "a@b.com", "password": "wrong"})
		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
		assert.Equal(t, "Invalid credentials", decodeBody(t, resp)["error"])
	})

	t.Run("missing credentials", func(t *testing.T) {
		app, _ := newTestServer(t)

		resp := login(t, app, map[string]string{"email": "a@b.com"})
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	})
}

func TestLogout(t *testing.T) {
	app, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	cookie := sessionCookie(resp)
	require.NotNil(t, cookie)
	assert.Empty(t, cookie.Value)
	assert.True(t, cookie.Expires.Before(time.Now()), "cleared cookie must be expired")
}
