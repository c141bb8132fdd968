package middlewares

import (
	"log"
	"maestro/src/db"
	"maestro/src/models"
	"maestro/src/types"
	"net/http"
	"os"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
)

var jwtKey = []byte(os.Getenv("JWT_SECRET"))

// abortNotSignedIn renders the 401 in the same {error, kind} shape the
// booking rejections use.
func abortNotSignedIn(ctx *gin.Context) {
	ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"error": "sign in required",
		"kind":  types.REJECT_NOT_SIGNED_IN,
	})
}

func AuthMiddleware(ctx *gin.Context) {
	bearerToken := ctx.Request.Header.Get("Authorization")
	parts := strings.Split(bearerToken, " ")
	if !strings.HasPrefix(bearerToken, "Bearer") || len(parts) < 2 || parts[1] == "" {
		abortNotSignedIn(ctx)
		return
	}
	reqToken := parts[1]
	claims := &types.Claims{}
	tkn, err := jwt.ParseWithClaims(reqToken, claims, func(t *jwt.Token) (any, error) {
		return jwtKey, nil
	})
	if err != nil {
		log.Printf("token error: %s\n", err.Error())
		abortNotSignedIn(ctx)
		return
	}
	if !tkn.Valid {
		abortNotSignedIn(ctx)
		return
	}

	db := db.GetDb()
	var user models.User
	uid, err := strconv.Atoi(claims.Subject)
	if err != nil {
		log.Println("error parsing claims:", err.Error())
		abortNotSignedIn(ctx)
		return
	}
	db.Model(&models.User{}).Where(&models.User{ID: uint(uid)}).Find(&user)

	if uint(uid) != user.ID || user.ID < 1 {
		abortNotSignedIn(ctx)
		return
	}
	ctx.Set("email", user.Email)
	ctx.Set("id", user.ID)
	ctx.Set("uid", user.UID)
	ctx.Set("name", user.Name)
	ctx.Set("role", user.Role)
}

// RequireOrganizer gates event management and booking review. Artists may
// organize their own events; admins pass everywhere.
func RequireOrganizer(ctx *gin.Context) {
	role, ok := ctx.Get("role")
	if !ok {
		ctx.AbortWithStatus(http.StatusForbidden)
		return
	}
	switch role.(types.Role) {
	case types.ROLE_ORGANIZER, types.ROLE_ARTIST, types.ROLE_ADMIN:
		return
	}
	ctx.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "organizer role required"})
}

func RequireAdmin(ctx *gin.Context) {
	role, ok := ctx.Get("role")
	if !ok || role.(types.Role) != types.ROLE_ADMIN {
		ctx.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "admin role required"})
		return
	}
}
