package middlewares

import (
	"crypto/subtle"
	"errors"
	"log"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
)

// VerifySecret gates the guest auth routes behind the shared app secret
// carried in the x-secret header.
func VerifySecret(ctx *gin.Context) {
	secret := ctx.GetHeader("x-secret")
	if secret == "" {
		err := errors.New("missing x-secret header")
		log.Printf("Check failed: %s\n", err.Error())
		ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}
	apiSecret := os.Getenv("API_SECRET")
	if subtle.ConstantTimeCompare([]byte(secret), []byte(apiSecret)) != 1 {
		ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid secret"})
		return
	}
}
