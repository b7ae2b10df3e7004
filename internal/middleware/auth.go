package middleware

import (
	"context"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"beautyshop/internal/models"
)

// RevocationChecker reports whether an access token jti has been logged out.
type RevocationChecker interface {
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

// RevocationCheckerFunc adapts a plain function to RevocationChecker.
type RevocationCheckerFunc func(ctx context.Context, jti string) (bool, error)

func (f RevocationCheckerFunc) IsRevoked(ctx context.Context, jti string) (bool, error) {
	return f(ctx, jti)
}

// AuthGuard validates the bearer token, rejects revoked tokens and, when
// allowedRoles is non-empty, requires the role claim to match one of them.
// On success it injects userId, role and jti into the gin context.
func AuthGuard(secret string, revoked RevocationChecker, allowedRoles ...models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := strings.TrimSpace(c.GetHeader("Authorization"))
		if raw == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
			return
		}

		parts := strings.Split(raw, " ")
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		token, err := jwt.Parse(parts[1], func(t *jwt.Token) (interface{}, error) {
			return []byte(secret), nil
		})
		if err != nil || !token.Valid {
			log.Println("[AUTH] [ERROR] token validation failed:", err)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		userIDValue, _ := claims["sub"].(string)
		userID, err := primitive.ObjectIDFromHex(strings.TrimSpace(userIDValue))
		if err != nil {
			log.Println("[AUTH] [ERROR] invalid sub claim")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		jti, _ := claims["jti"].(string)
		if revoked != nil && jti != "" {
			isRevoked, err := revoked.IsRevoked(c.Request.Context(), jti)
			if err != nil {
				log.Println("[AUTH] [ERROR] revocation lookup failed:", err)
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "db error"})
				return
			}
			if isRevoked {
				log.Println("[AUTH] [ERROR] revoked token used")
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "token revoked"})
				return
			}
		}

		roleValue, _ := claims["role"].(string)
		role := models.Role(roleValue)
		if len(allowedRoles) > 0 {
			match := false
			for _, allowed := range allowedRoles {
				if role == allowed {
					match = true
					break
				}
			}
			if !match {
				c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Admin access required"})
				return
			}
		}

		c.Set("userId", userID)
		c.Set("role", role)
		c.Set("jti", jti)
		if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
			c.Set("tokenExpiresAt", exp.Time)
		} else {
			c.Set("tokenExpiresAt", time.Time{})
		}
		c.Next()
	}
}

// AdminAuth restricts a route group to admin tokens.
func AdminAuth(secret string, revoked RevocationChecker) gin.HandlerFunc {
	return AuthGuard(secret, revoked, models.RoleAdmin)
}
