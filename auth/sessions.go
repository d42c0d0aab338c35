package auth

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/taskpulse/go-todo/models"
)

// SessionValidity is how long an issued token and its session row are
// good for.
const SessionValidity = 7 * 24 * time.Hour

// SessionRegistry issues, validates and revokes bearer tokens. A token
// authenticates only while its session row exists and has not expired,
// which is what makes server-side revocation possible for signed
// tokens.
type SessionRegistry struct {
	db     *sql.DB
	secret []byte
}

func NewSessionRegistry(db *sql.DB, secret []byte) *SessionRegistry {
	return &SessionRegistry{db: db, secret: secret}
}

// Issue signs a token for user and persists the matching session row.
// Claim expiry and row expiry are computed from the same clock reading.
func (r *SessionRegistry) Issue(ctx context.Context, user *models.User, deviceInfo string) (string, error) {
	now := time.Now()
	token, err := GenerateToken(user, r.secret, now, SessionValidity)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	if deviceInfo == "" {
		deviceInfo = "unknown"
	}

	_, err = r.db.ExecContext(ctx,
		"INSERT INTO sessions (id, user_id, token, device_info, created_at, expires_at) VALUES ($1, $2, $3, $4, $5, $6)",
		uuid.New().String(), user.ID, token, deviceInfo, now, now.Add(SessionValidity),
	)
	if err != nil {
		return "", fmt.Errorf("failed to insert session: %w", err)
	}

	return token, nil
}

// Validate checks the token signature first, then the session row. An
// expired row is deleted on the way out so stale sessions clean
// themselves up on first touch.
func (r *SessionRegistry) Validate(ctx context.Context, tokenString string) (*Claims, error) {
	if tokenString == "" {
		return nil, ErrMissingToken
	}

	claims, err := ParseToken(tokenString, r.secret)
	if err != nil {
		return nil, err
	}

	var id string
	var expiresAt time.Time
	err = r.db.QueryRowContext(ctx,
		"SELECT id, expires_at FROM sessions WHERE token = $1",
		tokenString,
	).Scan(&id, &expiresAt)
	if err == sql.ErrNoRows {
		return nil, ErrNoSession
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up session: %w", err)
	}

	if time.Now().After(expiresAt) {
		if _, err := r.db.ExecContext(ctx, "DELETE FROM sessions WHERE id = $1", id); err != nil {
			log.Printf("failed to delete expired session %s: %v", id, err)
		}
		return nil, ErrSessionExpired
	}

	return claims, nil
}

// Revoke deletes the session matching token. Revoking a token with no
// session is not an error.
func (r *SessionRegistry) Revoke(ctx context.Context, tokenString string) error {
	_, err := r.db.ExecContext(ctx, "DELETE FROM sessions WHERE token = $1", tokenString)
	if err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// RevokeOthers deletes every session of userID except the one holding
// keepToken.
func (r *SessionRegistry) RevokeOthers(ctx context.Context, userID, keepToken string) error {
	_, err := r.db.ExecContext(ctx,
		"DELETE FROM sessions WHERE user_id = $1 AND token <> $2",
		userID, keepToken,
	)
	if err != nil {
		return fmt.Errorf("failed to delete other sessions: %w", err)
	}
	return nil
}

// List returns the user's sessions newest first. Token values stay out
// of the result.
func (r *SessionRegistry) List(ctx context.Context, userID string) ([]models.Session, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT id, device_info, created_at, expires_at FROM sessions WHERE user_id = $1 ORDER BY created_at DESC",
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	defer rows.Close()

	sessions := []models.Session{}
	for rows.Next() {
		var s models.Session
		var deviceInfo sql.NullString
		if err := rows.Scan(&s.ID, &deviceInfo, &s.CreatedAt, &s.ExpiresAt); err != nil {
			return nil, fmt.Errorf("failed to scan session: %w", err)
		}
		s.DeviceInfo = deviceInfo.String
		sessions = append(sessions, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read sessions: %w", err)
	}

	return sessions, nil
}
