// Package middleware provides HTTP middleware for the Gin router.
//
// Go Learning Note — Middleware Pattern (Gin):
// In Gin, middleware is any function with the signature `gin.HandlerFunc`, which
// is `func(*gin.Context)`. Middleware functions form a chain: each one runs,
// optionally calls c.Next() to pass control to the next handler, and can call
// c.Abort() to stop the chain.
package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// Context keys for values set by middleware.
const (
	RoleKey = "role"

	RoleAdmin = "admin"
)

// RequireAdmin guards the mutating routes with a shared bearer token. An
// empty token leaves the routes open, which is how the directory runs on a
// trusted network.
//
// Go Learning Note — Returning Functions (Closures):
// RequireAdmin(token) returns a gin.HandlerFunc that captures token. The
// comparison uses crypto/subtle so it takes the same time whatever the guess.
func RequireAdmin(token string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token == "" {
			c.Set(RoleKey, RoleAdmin)
			c.Next()
			return
		}

		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "missing authorization header"})
			c.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid authorization format"})
			c.Abort()
			return
		}

		if subtle.ConstantTimeCompare([]byte(parts[1]), []byte(token)) != 1 {
			c.JSON(http.StatusForbidden, gin.H{"error": "admin access required"})
			c.Abort()
			return
		}

		c.Set(RoleKey, RoleAdmin)
		c.Next()
	}
}

// IsAdmin reports whether RequireAdmin let this request through.
func IsAdmin(c *gin.Context) bool {
	role, ok := c.Get(RoleKey)
	return ok && role == RoleAdmin
}
