package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/taskpulse/go-todo/auth"
)

// AuthHandler wires the credential store, login guard and session
// registry to the /auth routes.
type AuthHandler struct {
	users    *auth.UserStore
	guard    *auth.LoginGuard
	sessions *auth.SessionRegistry
}

func NewAuthHandler(users *auth.UserStore, guard *auth.LoginGuard, sessions *auth.SessionRegistry) *AuthHandler {
	return &AuthHandler{users: users, guard: guard, sessions: sessions}
}

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type changePasswordRequest struct {
	OldPassword string `json:"oldPassword"`
	NewPassword string `json:"newPassword"`
}

// Register godoc
// @Summary Register a new user
// @Accept json
// @Produce json
// @Success 201
// @Router /auth/register [post]
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	req := new(registerRequest)
	if err := c.BodyParser(req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}

	user, err := h.users.Register(c.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		return fail(c, err)
	}

	return c.Status(201).JSON(fiber.Map{
		"message": "user registered successfully",
		"user": fiber.Map{
			"id":       user.ID,
			"username": user.Username,
			"email":    user.Email,
		},
	})
}

// Login godoc
// @Summary Log in with username or email
// @Accept json
// @Produce json
// @Success 200
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	req := new(loginRequest)
	if err := c.BodyParser(req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}
	if req.Username == "" || req.Password == "" {
		return c.Status(400).JSON(fiber.Map{"error": "missing username or password"})
	}

	// Reject while locked, before touching credentials at all.
	if err := h.guard.CheckLockout(c.Context(), req.Username); err != nil {
		return fail(c, err)
	}

	user, err := h.users.Verify(c.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrBadCredentials) {
			if gerr := h.guard.RecordFailure(c.Context(), req.Username); gerr != nil {
				return fail(c, gerr)
			}
			// The failure that crosses the threshold already answers
			// with the lockout, not a plain 401.
			if lerr := h.guard.CheckLockout(c.Context(), req.Username); lerr != nil {
				return fail(c, lerr)
			}
		}
		return fail(c, err)
	}

	if err := h.guard.RecordSuccess(c.Context(), req.Username); err != nil {
		return fail(c, err)
	}

	token, err := h.sessions.Issue(c.Context(), user, c.Get("User-Agent"))
	if err != nil {
		return fail(c, err)
	}

	return c.Status(200).JSON(fiber.Map{
		"message": "login successful",
		"token":   token,
		"user": fiber.Map{
			"id":       user.ID,
			"username": user.Username,
			"email":    user.Email,
		},
	})
}

// Me godoc
// @Summary Current user profile
// @Produce json
// @Security BearerAuth
// @Success 200
// @Router /auth/me [get]
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	claims := c.Locals("claims").(*auth.Claims)

	user, err := h.users.GetByID(c.Context(), claims.UserID)
	if err != nil {
		return fail(c, err)
	}

	return c.Status(200).JSON(fiber.Map{
		"id":         user.ID,
		"username":   user.Username,
		"email":      user.Email,
		"created_at": user.CreatedAt,
	})
}

// ChangePassword godoc
// @Summary Change the caller's password
// @Accept json
// @Security BearerAuth
// @Success 200
// @Router /auth/change-password [post]
func (h *AuthHandler) ChangePassword(c *fiber.Ctx) error {
	req := new(changePasswordRequest)
	if err := c.BodyParser(req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}

	claims := c.Locals("claims").(*auth.Claims)
	if err := h.users.ChangePassword(c.Context(), claims.UserID, req.OldPassword, req.NewPassword); err != nil {
		return fail(c, err)
	}

	return c.Status(200).JSON(fiber.Map{"message": "password changed successfully"})
}

// Logout godoc
// @Summary Log out the current session
// @Security BearerAuth
// @Success 200
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	token := c.Locals("token").(string)
	if err := h.sessions.Revoke(c.Context(), token); err != nil {
		return fail(c, err)
	}
	return c.Status(200).JSON(fiber.Map{"message": "logged out"})
}

// Sessions godoc
// @Summary List the caller's sessions, newest first
// @Produce json
// @Security BearerAuth
// @Success 200
// @Router /auth/sessions [get]
func (h *AuthHandler) Sessions(c *fiber.Ctx) error {
	claims := c.Locals("claims").(*auth.Claims)

	sessions, err := h.sessions.List(c.Context(), claims.UserID)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(200).JSON(sessions)
}

// LogoutOther godoc
// @Summary Log out every other device
// @Security BearerAuth
// @Success 200
// @Router /auth/sessions/logout-other [post]
func (h *AuthHandler) LogoutOther(c *fiber.Ctx) error {
	claims := c.Locals("claims").(*auth.Claims)
	token := c.Locals("token").(string)

	if err := h.sessions.RevokeOthers(c.Context(), claims.UserID, token); err != nil {
		return fail(c, err)
	}
	return c.Status(200).JSON(fiber.Map{"message": "other devices logged out"})
}
