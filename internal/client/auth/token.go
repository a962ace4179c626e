package auth

import (
	"time"

	"github.com/dmitrijs2005/jobportal/internal/common"
	"github.com/golang-jwt/jwt/v5"
)

// Claims are the access-token claims the client looks at. The token is never
// verified here; the backend does that.
type Claims struct {
	jwt.RegisteredClaims
	UserID string `json:"userId,omitempty"`
}

// ParseClaims decodes the payload of a JWT access token without checking its
// signature or expiry.
func ParseClaims(token string) (*Claims, error) {
	claims := &Claims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil, common.ErrInvalidToken
	}
	return claims, nil
}

// TokenExpiry returns the exp claim of token. ok is false for opaque tokens
// and tokens without exp.
func TokenExpiry(token string) (exp time.Time, ok bool) {
	claims, err := ParseClaims(token)
	if err != nil || claims.ExpiresAt == nil {
		return time.Time{}, false
	}
	return claims.ExpiresAt.Time, true
}
