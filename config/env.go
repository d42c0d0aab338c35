package config

import (
	"os"

	"github.com/joho/godotenv"
)

// LoadENV loads variables from a .env file when one is present. A
// missing file is fine, the process environment is used as-is.
func LoadENV() error {
	if _, err := os.Stat(".env"); err != nil {
		return nil
	}
	return godotenv.Load()
}

// JWTSecret returns the HMAC key used to sign session tokens.
func JWTSecret() []byte {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		secret = "change-me-in-production"
	}
	return []byte(secret)
}
