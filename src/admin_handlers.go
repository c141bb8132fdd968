package main

import (
	"errors"
	"maestro/src/db"
	"maestro/src/middlewares"
	"maestro/src/models"
	"maestro/src/types"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func adminHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	admin := g.Group("/admin", middlewares.RequireAdmin)
	admin.
		GET("/users", func(ctx *gin.Context) {
			var query struct {
				Role types.Role `form:"role" binding:"omitempty,oneof=viewer artist organizer admin"`
			}
			if err := ctx.ShouldBindQuery(&query); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			db := db.GetDb()
			q := db.Model(&models.User{}).Order("created_at DESC")
			if query.Role != "" {
				q = q.Where(&models.User{Role: query.Role})
			}
			var users []models.User
			if err := q.Find(&users).Error; err != nil {
				ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": users, "count": len(users)})
		}).
		PATCH("/users/:id/role", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.Status(http.StatusBadRequest)
				return
			}
			var body types.UpdateUserRoleRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			adminId := ctx.GetUint("id")
			db := db.GetDb()
			err := db.Transaction(func(tx *gorm.DB) error {
				var user models.User
				if err := tx.
					Model(&models.User{}).
					Where(&models.User{ID: params.ID}).
					First(&user).
					Error; err != nil {
					return err
				}
				// An admin cannot change their own role.
				if user.ID == adminId && body.Role != types.ROLE_ADMIN {
					return errors.New("cannot change own admin role")
				}
				return tx.
					Model(&models.User{}).
					Where("id = ?", user.ID).
					Update("role", body.Role).
					Error
			})
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					ctx.Status(http.StatusNotFound)
					return
				}
				ctx.JSON(http.StatusConflict, gin.H{"error": err.Error()})
				return
			}
			ctx.Status(http.StatusNoContent)
		})
	return g
}
