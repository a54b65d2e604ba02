// Package jwtmw issues bearer tokens and provides the Gin middleware that
// authenticates requests and binds them to a user ID.
package jwtmw

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog/log"

	"library_backend/internal/api"
)

// ContextUserID is the gin context key holding the authenticated user ID (uint).
const ContextUserID = "userID"

const bearerPrefix = "Bearer "

var (
	// ErrUnauthenticated means the request carried no bearer token.
	ErrUnauthenticated = errors.New("no token provided")

	// ErrInvalidToken means the token was malformed, badly signed, expired or had no usable subject.
	ErrInvalidToken = errors.New("invalid or expired token")
)

// Messages returned to clients for each rejection.
const (
	MsgUnauthenticated = "No token provided. Access denied."
	MsgInvalidToken    = "Invalid or expired token"
)

// ParseToken verifies tokenStr with the HMAC secret and returns the user ID in its subject.
// No storage is consulted.
func ParseToken(secret []byte, tokenStr string) (uint, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
		// Check signing algorithm (only HMAC allowed)
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil || !token.Valid {
		return 0, ErrInvalidToken
	}

	userID, err := strconv.ParseUint(claims.Subject, 10, 64)
	if err != nil || userID == 0 {
		return 0, ErrInvalidToken
	}
	return uint(userID), nil
}

// AuthRequired returns a Gin middleware function that validates JWT tokens
// and restricts access to authenticated users only.
func AuthRequired(secret string) gin.HandlerFunc {
	key := []byte(secret)
	return func(c *gin.Context) {
		// 1. Get Authorization header
		auth := c.GetHeader("Authorization")
		tokenStr := strings.TrimSpace(strings.TrimPrefix(auth, bearerPrefix))
		if !strings.HasPrefix(auth, bearerPrefix) || tokenStr == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, api.Fail(MsgUnauthenticated))
			return
		}

		// 2. Refuse to run without a signing key
		if len(key) == 0 {
			log.Error().Msg("jwt secret is not configured")
			c.AbortWithStatusJSON(http.StatusInternalServerError, api.Fail("server misconfigured"))
			return
		}

		// 3. Parse and verify JWT signature
		userID, err := ParseToken(key, tokenStr)
		if err != nil {
			log.Warn().Err(err).Str("remote_addr", c.ClientIP()).Str("path", c.FullPath()).Msg("token rejected")
			c.AbortWithStatusJSON(http.StatusUnauthorized, api.Fail(MsgInvalidToken))
			return
		}

		// 4. Pass control to the next handler
		c.Set(ContextUserID, userID)
		c.Next()
	}
}

// UserIDFrom returns the user ID stored by AuthRequired.
func UserIDFrom(c *gin.Context) (uint, bool) {
	v, ok := c.Get(ContextUserID)
	if !ok {
		return 0, false
	}
	id, ok := v.(uint)
	return id, ok && id != 0
}
