package auth

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

const (
	// LockoutThreshold is the number of consecutive failures that
	// locks a username.
	LockoutThreshold = 5
	// LockoutWindow is how long a locked username stays locked.
	LockoutWindow = 15 * time.Minute
)

// LoginGuard tracks failed logins per username and enforces temporary
// lockout. State lives in the database, not in memory: the counter has
// to survive restarts and be shared between server instances.
type LoginGuard struct {
	db *sql.DB
}

func NewLoginGuard(db *sql.DB) *LoginGuard {
	return &LoginGuard{db: db}
}

// CheckLockout returns a *LockedError while the username is locked.
// It runs before credential verification so a locked account rejects
// even correct passwords.
func (g *LoginGuard) CheckLockout(ctx context.Context, username string) error {
	var lockedUntil sql.NullTime
	err := g.db.QueryRowContext(ctx,
		"SELECT locked_until FROM failed_logins WHERE username = $1",
		username,
	).Scan(&lockedUntil)
	if err == sql.ErrNoRows {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to check lockout: %w", err)
	}

	if lockedUntil.Valid && time.Now().Before(lockedUntil.Time) {
		return &LockedError{Until: lockedUntil.Time}
	}
	return nil
}

// RecordFailure bumps the failure counter for username, locking the
// account once the counter reaches the threshold.
func (g *LoginGuard) RecordFailure(ctx context.Context, username string) error {
	_, err := g.db.ExecContext(ctx, `
		INSERT INTO failed_logins (username, attempts, last_attempt)
		VALUES ($1, 1, NOW())
		ON CONFLICT (username) DO UPDATE SET
			attempts = failed_logins.attempts + 1,
			last_attempt = NOW(),
			locked_until = CASE
				WHEN failed_logins.attempts + 1 >= $2
				THEN NOW() + ($3 * INTERVAL '1 second')
			END`,
		username, LockoutThreshold, int(LockoutWindow.Seconds()),
	)
	if err != nil {
		return fmt.Errorf("failed to record login failure: %w", err)
	}
	return nil
}

// RecordSuccess clears the failure record so the next streak starts
// from zero.
func (g *LoginGuard) RecordSuccess(ctx context.Context, username string) error {
	_, err := g.db.ExecContext(ctx, "DELETE FROM failed_logins WHERE username = $1", username)
	if err != nil {
		return fmt.Errorf("failed to reset login failures: %w", err)
	}
	return nil
}
