package handlers

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"github.com/taskpulse/go-todo/auth"
	"github.com/taskpulse/go-todo/stream"
)

func newStreamApp() *fiber.App {
	app := fiber.New()
	sessions := auth.NewSessionRegistry(nil, []byte("test-secret"))
	h := NewStreamHandler(nil, sessions, stream.NewHub())
	app.Get("/stream", h.Stream)
	return app
}

func TestStream_MissingToken(t *testing.T) {
	app := newStreamApp()

	req := httptest.NewRequest("GET", "/stream", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, 401, resp.StatusCode)
}

func TestStream_InvalidToken(t *testing.T) {
	app := newStreamApp()

	req := httptest.NewRequest("GET", "/stream?token=not-a-jwt", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, 403, resp.StatusCode)
}
