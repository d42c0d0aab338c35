package handlers

import (
	"errors"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"github.com/taskpulse/go-todo/auth"
)

func TestFail_StatusMapping(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"missing fields", auth.ErrMissingFields, 400},
		{"short password", auth.ErrPasswordTooShort, 400},
		{"duplicate user", auth.ErrUserExists, 409},
		{"bad credentials", auth.ErrBadCredentials, 401},
		{"wrong old password", auth.ErrWrongPassword, 401},
		{"no session", auth.ErrNoSession, 401},
		{"invalid token", auth.ErrInvalidToken, 403},
		{"session expired", auth.ErrSessionExpired, 403},
		{"user not found", auth.ErrUserNotFound, 404},
		{"locked", &auth.LockedError{Until: time.Now().Add(time.Minute)}, 423},
		{"unknown", errors.New("disk on fire"), 500},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			app := fiber.New()
			app.Get("/boom", func(c *fiber.Ctx) error {
				return fail(c, tc.err)
			})

			resp, err := app.Test(httptest.NewRequest("GET", "/boom", nil))
			require.NoError(t, err)
			require.Equal(t, tc.want, resp.StatusCode)
		})
	}
}
