package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// RequireRoles adalah middleware role-based access control.
// Hanya mengizinkan request dengan role yang terdapat di allowedRoles.
//
// Diasumsikan ResolveRole sebelumnya sudah set context "userRole".
func RequireRoles(allowedRoles ...string) gin.HandlerFunc {
	allowed := make(map[string]struct{}, len(allowedRoles))
	for _, r := range allowedRoles {
		allowed[strings.ToLower(strings.TrimSpace(r))] = struct{}{}
	}

	return func(c *gin.Context) {
		role := c.GetString(userRoleKey)
		if role == "" {
			abortAuth(c, http.StatusUnauthorized, "unauthorized", "unauthorized: role tidak ditemukan pada context")
			return
		}
		if _, ok := allowed[strings.ToLower(strings.TrimSpace(role))]; !ok {
			abortAuth(c, http.StatusForbidden, "forbidden", "forbidden: role tidak diizinkan")
			return
		}
		c.Next()
	}
}
