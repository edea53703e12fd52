package middleware

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/portfolio-cms/portfolio-api/internal/tokens"
	"github.com/portfolio-cms/portfolio-api/pkg/logger"
)

// AdminIDKey is the gin context key holding the authenticated admin id.
const AdminIDKey = "adminId"

// Verifier is the minimal interface the middleware depends on
type Verifier interface {
	Verify(ctx context.Context, raw string) (string, error)
}

// AdminAuth returns a Gin middleware that requires a valid "Bearer <token>" header.
// Requests are aborted before any handler runs when the check fails.
func AdminAuth(ver Verifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, err := tokens.FromHeader(c.GetHeader("Authorization"))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
			return
		}
		adminID, err := ver.Verify(c.Request.Context(), raw)
		if err != nil {
			logger.Debugf("rejected token on %s %s: %v", c.Request.Method, c.FullPath(), err)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
			return
		}
		c.Set(AdminIDKey, adminID)
		c.Next()
	}
}

// CORS sets permissive cross-origin headers and answers preflight requests.
func CORS() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, Authorization")
		c.Writer.Header().Set("Access-Control-Expose-Headers", "Content-Length")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusOK)
			return
		}
		c.Next()
	}
}
