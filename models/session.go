package models

import "time"

// Session authorizes one bearer token until expiry or revocation.
// Token is the credential itself and must never appear in API output.
type Session struct {
	ID         string    `json:"id"`
	UserID     string    `json:"-"`
	Token      string    `json:"-"`
	DeviceInfo string    `json:"device_info"`
	CreatedAt  time.Time `json:"created_at"`
	ExpiresAt  time.Time `json:"expires_at"`
}
