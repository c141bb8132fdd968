package middlewares

import (
	"github.com/gin-gonic/gin"
)

// SecureHeaders sets the baseline response headers on every request.
func SecureHeaders(ctx *gin.Context) {
	ctx.Header("X-Content-Type-Options", "nosniff")
	ctx.Header("X-Frame-Options", "DENY")
	ctx.Header("Referrer-Policy", "strict-origin-when-cross-origin")
	ctx.Header("Cache-Control", "no-store")
	ctx.Next()
}
