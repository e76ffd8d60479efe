package middleware

import (
	"context"
	"net/http"
	"strings"
	"time"

	"guidely/utils"

	"github.com/gin-gonic/gin"
)

// JWTAuthMiddleware verifies the bearer token and sets callerID/callerRole on
// the context. Verified token hashes are cached in Redis so repeat requests
// skip signature validation; a missing cache degrades to validation only.
func JWTAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := context.Background()

		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Insufficient authorization"})
			return
		}
		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Insufficient authorization"})
			return
		}

		subject, role, err := utils.ExtractCallerFromToken(tokenString)
		if err != nil || subject == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Insufficient authorization"})
			return
		}

		authCache := utils.GetAuthCacheClient()
		if authCache != nil {
			cacheKey := utils.AuthCachePrefix + subject
			computedHash := utils.HashToken(tokenString)
			cachedHash, err := authCache.Get(ctx, cacheKey).Result()
			if err == nil && cachedHash == computedHash {
				_ = authCache.Expire(ctx, cacheKey, time.Hour).Err()
			} else {
				_ = authCache.Set(ctx, cacheKey, computedHash, time.Hour).Err()
			}
		}

		c.Set("callerID", subject)
		c.Set("callerRole", role)
		c.Next()
	}
}

// RequireRole aborts unless the authenticated caller carries the given role.
func RequireRole(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		callerRole, _ := c.Get("callerRole")
		if r, ok := callerRole.(string); !ok || r != role {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "insufficient role"})
			return
		}
		c.Next()
	}
}
