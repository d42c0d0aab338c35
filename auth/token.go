package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/taskpulse/go-todo/models"
	"github.com/taskpulse/go-todo/utils"
)

// Claims are the signed token claims: the registered set plus the
// identity fields every authenticated handler needs.
type Claims struct {
	jwt.RegisteredClaims
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// GenerateToken signs an HS256 token for user, valid from now for the
// given duration. The caller passes now so the persisted session row
// can be stamped from the same clock reading as the signed claim.
func GenerateToken(user *models.User, secret []byte, now time.Time, validity time.Duration) (string, error) {
	jti, err := utils.GenerateRandomID()
	if err != nil {
		return "", err
	}

	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        jti,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(validity)),
		},
		UserID:   user.ID,
		Username: user.Username,
		Email:    user.Email,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

// ParseToken verifies the signature and expiry of a token and returns
// its claims. Signature validity alone does not authenticate a
// request; the session registry still has the final say.
func ParseToken(tokenString string, secret []byte) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return secret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
