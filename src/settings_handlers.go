package main

import (
	"fmt"
	"maestro/src/lib"
	"maestro/src/types"
	"net/http"

	"github.com/gin-gonic/gin"
)

// settingsHandlers stores each user's preferences as a single explicit
// struct in the KV store, keyed by the user's uid.
func settingsHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		GET("/settings", func(ctx *gin.Context) {
			uid := ctx.GetString("uid")
			key := fmt.Sprintf("settings:%s", uid)
			settings := types.DefaultUserSettings()
			if _, err := lib.KVGet(ctx, key, &settings); err != nil {
				ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": settings})
		}).
		PUT("/settings", func(ctx *gin.Context) {
			var body types.UserSettings
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			if body.Theme == "" {
				body.Theme = "system"
			}
			uid := ctx.GetString("uid")
			key := fmt.Sprintf("settings:%s", uid)
			if err := lib.KVSet(ctx, key, &body, 0); err != nil {
				ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": body})
		})
	return g
}
