package utils

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// SessionCookieName is the cookie carrying the session token.
const SessionCookieName = "token"

const (
	// SessionTTL is the default token lifetime.
	SessionTTL = 24 * time.Hour
	// PersistentSessionTTL applies when the user asked to stay signed in.
	PersistentSessionTTL = 30 * 24 * time.Hour
)

var ErrMissingSecret = errors.New("JWT_SECRET is not set")

// SigningSecret returns the token signing key. There is deliberately no
// fallback value: main refuses to start without one.
func SigningSecret() (string, error) {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		return "", ErrMissingSecret
	}
	return secret, nil
}

// Claims carries the session identity. Email and role are informational;
// the access guard re-reads the stored role on every request and never
// trusts the role claim.
type Claims struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

func GenerateSessionToken(userID, email, role string, persistent bool) (string, error) {
	secret, err := SigningSecret()
	if err != nil {
		return "", err
	}

	ttl := SessionTTL
	if persistent {
		ttl = PersistentSessionTTL
	}

	claims := Claims{
		UserID: userID,
		Email:  email,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// ValidateToken fails closed: any parse, signature, or expiry problem
// yields an error and the request is treated as unauthenticated.
func ValidateToken(tokenStr string) (*Claims, error) {
	secret, err := SigningSecret()
	if err != nil {
		return nil, err
	}

	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}
	return claims, nil
}

func cookieSecure() bool {
	return os.Getenv("COOKIE_SECURE") == "true"
}

func SetSessionCookie(c *gin.Context, token string, persistent bool) {
	ttl := SessionTTL
	if persistent {
		ttl = PersistentSessionTTL
	}
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(ttl.Seconds()),
		HttpOnly: true,
		Secure:   cookieSecure(),
		SameSite: http.SameSiteStrictMode,
	})
}

func ClearSessionCookie(c *gin.Context) {
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   cookieSecure(),
		SameSite: http.SameSiteStrictMode,
	})
}
