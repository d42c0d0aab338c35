package handlers

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"github.com/taskpulse/go-todo/auth"
	"github.com/taskpulse/go-todo/middleware"
)

// Handlers are exercised through fiber's in-process test transport.
// Only request paths that reject before reaching storage are covered
// here; everything touching PostgreSQL lives behind the stores.

func newTestApp() *fiber.App {
	app := fiber.New()

	users := auth.NewUserStore(nil)
	guard := auth.NewLoginGuard(nil)
	sessions := auth.NewSessionRegistry(nil, []byte("test-secret"))
	h := NewAuthHandler(users, guard, sessions)

	app.Post("/auth/register", h.Register)
	app.Post("/auth/login", h.Login)

	sessionAuth := middleware.SessionAuth(sessions)
	app.Get("/protected", sessionAuth, func(c *fiber.Ctx) error {
		return c.SendStatus(200)
	})

	app.Get("/health", HandleHealthCheck)
	return app
}

func TestRegister_BadJSONBody(t *testing.T) {
	app := newTestApp()

	req := httptest.NewRequest("POST", "/auth/register", strings.NewReader("{not json"))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, 400, resp.StatusCode)
}

func TestRegister_ShortPassword(t *testing.T) {
	app := newTestApp()

	body := `{"username":"alice","email":"a@x.com","password":"12345"}`
	req := httptest.NewRequest("POST", "/auth/register", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, 400, resp.StatusCode)
}

func TestRegister_MissingFields(t *testing.T) {
	app := newTestApp()

	body := `{"username":"alice","password":"secret1"}`
	req := httptest.NewRequest("POST", "/auth/register", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, 400, resp.StatusCode)
}

func TestLogin_MissingFields(t *testing.T) {
	app := newTestApp()

	body := `{"username":"alice"}`
	req := httptest.NewRequest("POST", "/auth/login", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, 400, resp.StatusCode)
}

func TestSessionAuth_MissingHeader(t *testing.T) {
	app := newTestApp()

	req := httptest.NewRequest("GET", "/protected", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, 401, resp.StatusCode)
}

func TestSessionAuth_WrongScheme(t *testing.T) {
	app := newTestApp()

	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Token abc")
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, 401, resp.StatusCode)
}

func TestSessionAuth_GarbageToken(t *testing.T) {
	app := newTestApp()

	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer not-a-jwt")
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, 403, resp.StatusCode)
}

func TestHealth(t *testing.T) {
	app := newTestApp()

	req := httptest.NewRequest("GET", "/health", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, 200, resp.StatusCode)
}
