package auth

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrMissingFields    = errors.New("missing required fields")
	ErrPasswordTooShort = errors.New("password must be at least 6 characters")
	ErrUserExists       = errors.New("username or email already exists")
	ErrUserNotFound     = errors.New("user not found")

	// ErrBadCredentials deliberately covers both "no such user" and
	// "wrong password" so the login endpoint cannot be used to probe
	// which usernames exist.
	ErrBadCredentials = errors.New("username or password incorrect")
	ErrWrongPassword  = errors.New("old password incorrect")

	ErrMissingToken   = errors.New("missing token")
	ErrInvalidToken   = errors.New("invalid or expired token")
	ErrNoSession      = errors.New("session not found or logged out")
	ErrSessionExpired = errors.New("session expired")
)

// LockedError rejects a login attempt until Until, regardless of
// whether the submitted credentials are correct.
type LockedError struct {
	Until time.Time
}

func (e *LockedError) Error() string {
	return fmt.Sprintf("account locked until %s", e.Until.Format(time.RFC3339))
}
