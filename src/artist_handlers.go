package main

import (
	"errors"
	"maestro/src/db"
	"maestro/src/middlewares"
	"maestro/src/models"
	"maestro/src/types"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gosimple/slug"
	"gorm.io/gorm"
)

func artistHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		POST("/artists", middlewares.RequireOrganizer, func(ctx *gin.Context) {
			var body types.CreateArtistRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			userId := ctx.GetUint("id")
			artist := models.Artist{
				Name:   body.Name,
				Slug:   slug.Make(body.Name),
				UserID: userId,
			}
			if body.Bio != "" {
				artist.Bio = &body.Bio
			}
			if body.ImageURL != "" {
				artist.ImageURL = &body.ImageURL
			}
			db := db.GetDb()
			if err := db.Create(&artist).Error; err != nil {
				ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusCreated, gin.H{"id": artist.ID})
		}).
		PUT("/artists/:id", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.Status(http.StatusBadRequest)
				return
			}
			var body types.CreateArtistRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			userId := ctx.GetUint("id")
			role := ctx.MustGet("role").(types.Role)
			db := db.GetDb()
			err := db.Transaction(func(tx *gorm.DB) error {
				var artist models.Artist
				if err := tx.
					Model(&models.Artist{}).
					Where(&models.Artist{ID: params.ID}).
					First(&artist).
					Error; err != nil {
					return err
				}
				if artist.UserID != userId && role != types.ROLE_ADMIN {
					return errors.New("not the artist owner")
				}
				updates := map[string]any{
					"name": body.Name,
					"slug": slug.Make(body.Name),
				}
				if body.Bio != "" {
					updates["bio"] = body.Bio
				}
				if body.ImageURL != "" {
					updates["image_url"] = body.ImageURL
				}
				return tx.
					Model(&models.Artist{}).
					Where("id = ?", artist.ID).
					Updates(updates).
					Error
			})
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					ctx.Status(http.StatusNotFound)
					return
				}
				ctx.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
				return
			}
			ctx.Status(http.StatusNoContent)
		}).
		DELETE("/artists/:id", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.Status(http.StatusBadRequest)
				return
			}
			userId := ctx.GetUint("id")
			role := ctx.MustGet("role").(types.Role)
			db := db.GetDb()
			err := db.Transaction(func(tx *gorm.DB) error {
				var artist models.Artist
				if err := tx.
					Model(&models.Artist{}).
					Where(&models.Artist{ID: params.ID}).
					First(&artist).
					Error; err != nil {
					return err
				}
				if artist.UserID != userId && role != types.ROLE_ADMIN {
					return errors.New("not the artist owner")
				}
				if err := tx.Model(&artist).Association("Events").Clear(); err != nil {
					return err
				}
				return tx.Delete(&artist).Error
			})
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					ctx.Status(http.StatusNotFound)
					return
				}
				ctx.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
				return
			}
			ctx.Status(http.StatusNoContent)
		})
	return g
}
