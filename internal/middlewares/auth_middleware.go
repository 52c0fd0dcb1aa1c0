package middlewares

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"blog_api/internal/responses"
	"blog_api/internal/utils"
)

const (
	ClaimsKey = "claims"
	UserIDKey = "userId"
)

type TokenVerifier interface {
	Verify(token string) (*utils.Claims, error)
}

type RevocationChecker interface {
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

// Authenticate rejects requests without a valid bearer token before they
// reach any handler. revocations may be nil.
func Authenticate(verifier TokenVerifier, revocations RevocationChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, responses.ErrorBody{Error: "Missing Authorization header"})
			return
		}

		// Expected format: "Bearer <token>"
		scheme, tokenStr, ok := strings.Cut(authHeader, " ")
		tokenStr = strings.TrimSpace(tokenStr)
		if !ok || !strings.EqualFold(scheme, "Bearer") || tokenStr == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, responses.ErrorBody{Error: "Invalid Authorization format"})
			return
		}

		claims, err := verifier.Verify(tokenStr)
		if err != nil {
			Logger(c).WithError(err).Debug("token rejected")
			c.AbortWithStatusJSON(http.StatusUnauthorized, responses.ErrorBody{Error: "Invalid or expired token"})
			return
		}

		if revocations != nil && claims.ID != "" {
			revoked, err := revocations.IsRevoked(c.Request.Context(), claims.ID)
			if err != nil {
				Logger(c).WithError(err).Error("token revocation lookup failed")
				c.AbortWithStatusJSON(http.StatusServiceUnavailable, responses.ErrorBody{Error: "Unable to verify token"})
				return
			}
			if revoked {
				c.AbortWithStatusJSON(http.StatusUnauthorized, responses.ErrorBody{Error: "Token has been revoked"})
				return
			}
		}

		c.Set(ClaimsKey, claims)
		c.Set(UserIDKey, claims.Subject)

		c.Next()
	}
}

// ClaimsFrom returns the claims stored by Authenticate.
func ClaimsFrom(c *gin.Context) (*utils.Claims, bool) {
	v, ok := c.Get(ClaimsKey)
	if !ok {
		return nil, false
	}
	claims, ok := v.(*utils.Claims)
	return claims, ok
}
