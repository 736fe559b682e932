package middleware

import (
	"net/http"
	"strings"

	"github.com/engrosnet/catalog-service/internal/auth"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const callerKey = "caller"

// Auth resolves the caller from an optional Bearer token. Requests without
// a token proceed as anonymous storefront callers; a present but invalid
// token is rejected.
func Auth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			setCaller(c, auth.Caller{})
			c.Next()
			return
		}

		parts := strings.Split(header, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid authorization header format"})
			c.Abort()
			return
		}

		caller, err := parseToken(parts[1], secret)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			c.Abort()
			return
		}

		setCaller(c, caller)
		c.Next()
	}
}

// setCaller attaches the caller to both the gin context and the request
// context, so non-HTTP layers can read it with auth.CallerFrom.
func setCaller(c *gin.Context, caller auth.Caller) {
	c.Set(callerKey, caller)
	c.Request = c.Request.WithContext(auth.WithCaller(c.Request.Context(), caller))
}

// RequireAdmin guards the admin route group.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		caller := CallerFrom(c)
		if caller.Role != auth.RoleAdmin {
			c.JSON(http.StatusForbidden, gin.H{"error": "admin access required"})
			c.Abort()
			return
		}
		c.Next()
	}
}

// CallerFrom returns the caller resolved by Auth, or an anonymous
// storefront caller when the middleware did not run.
func CallerFrom(c *gin.Context) auth.Caller {
	if v, ok := c.Get(callerKey); ok {
		if caller, ok := v.(auth.Caller); ok {
			return caller
		}
	}
	return auth.CallerFrom(c.Request.Context())
}

func parseToken(tokenString, secret string) (auth.Caller, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return auth.Caller{}, jwt.ErrTokenUnverifiable
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return auth.Caller{}, jwt.ErrTokenInvalidClaims
	}

	caller := auth.Caller{}
	if sub, ok := claims["sub"].(string); ok {
		caller.UserID = sub
	}
	if role, ok := claims["role"].(string); ok {
		caller.Role = auth.Role(role)
	}
	return caller, nil
}
