package auth

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/AgentTarik/payments-dashboard/internal/config"
)

// RequireServiceToken verifies a Bearer JWT (HS256) and injects "subject" into
// the context. It returns 401 on missing/invalid token, 403 on an empty subject.
// Errors use the {"detail": ...} body shape of the transaction API.
func RequireServiceToken(cfg config.JWT) gin.HandlerFunc {
	if cfg.Secret == "" {
		// Fail fast at startup: misconfiguration.
		panic("JWT_SECRET is required for RequireServiceToken middleware")
	}
	secret := []byte(cfg.Secret)

	opts := []jwt.ParserOption{jwt.WithLeeway(30 * time.Second)}
	if cfg.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(cfg.Issuer))
	}
	if cfg.Audience != "" {
		opts = append(opts, jwt.WithAudience(cfg.Audience))
	}

	return func(c *gin.Context) {
		authz := c.GetHeader("Authorization")
		if !strings.HasPrefix(strings.ToLower(authz), "bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"detail": "missing bearer token"})
			return
		}
		raw := strings.TrimSpace(authz[len("Bearer "):])
		if raw == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"detail": "empty bearer token"})
			return
		}

		claims := &jwt.RegisteredClaims{}
		token, err := jwt.ParseWithClaims(
			raw,
			claims,
			func(t *jwt.Token) (any, error) {
				if t.Method != jwt.SigningMethodHS256 {
					return nil, errors.New("unexpected signing method")
				}
				return secret, nil
			},
			opts...,
		)
		if err != nil || !token.Valid {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"detail": "invalid token"})
			return
		}

		if claims.Subject == "" {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"detail": "invalid subject"})
			return
		}

		c.Set("subject", claims.Subject)
		c.Next()
	}
}
