package main

import (
	"errors"
	"log"
	"maestro/src/common"
	"maestro/src/db"
	"maestro/src/models"
	"maestro/src/types"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// reviewHandlers covers the organizer side of bookings: listing submissions
// for an owned event and confirming or cancelling them.
func reviewHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		GET("/events/:id/bookings", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.Status(http.StatusBadRequest)
				return
			}
			var query struct {
				Status types.BookingStatus `form:"status" binding:"omitempty,oneof=pending confirmed cancelled"`
			}
			if err := ctx.ShouldBindQuery(&query); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			userId := ctx.GetUint("id")
			role := ctx.MustGet("role").(types.Role)
			db := db.GetDb()
			var event models.Event
			if err := db.
				Model(&models.Event{}).
				Where(&models.Event{ID: params.ID}).
				First(&event).
				Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					ctx.Status(http.StatusNotFound)
					return
				}
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			if event.UserID != userId && role != types.ROLE_ADMIN {
				ctx.JSON(http.StatusForbidden, gin.H{"error": "not the event owner"})
				return
			}
			q := db.
				Model(&models.Booking{}).
				Where(&models.Booking{EventID: event.ID}).
				Preload("User").
				Order("created_at DESC")
			if query.Status != "" {
				q = q.Where(&models.Booking{Status: query.Status})
			}
			var bookings []models.Booking
			if err := q.Find(&bookings).Error; err != nil {
				ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": bookings, "count": len(bookings)})
		}).
		PUT("/bookings/:id/status", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.Status(http.StatusBadRequest)
				return
			}
			var body types.UpdateBookingStatusRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			userId := ctx.GetUint("id")
			role := ctx.MustGet("role").(types.Role)
			db := db.GetDb()
			var booking models.Booking
			changed := false
			err := db.Transaction(func(tx *gorm.DB) error {
				if err := tx.
					Model(&models.Booking{}).
					Where(&models.Booking{ID: params.ID}).
					Preload("Event").
					First(&booking).
					Error; err != nil {
					return err
				}
				if booking.Event == nil {
					return errors.New("booking has no event")
				}
				if booking.Event.UserID != userId && role != types.ROLE_ADMIN {
					return errors.New("not the event owner")
				}
				if booking.Status == body.Status {
					return nil
				}
				if err := tx.
					Model(&models.Booking{}).
					Where("id = ?", booking.ID).
					Update("status", body.Status).
					Error; err != nil {
					return err
				}
				changed = true
				return nil
			})
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					ctx.Status(http.StatusNotFound)
					return
				}
				log.Printf("Error updating booking status: %s\n", err.Error())
				ctx.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
				return
			}
			if changed {
				go common.SendBookingDecision(&booking, booking.Event, body.Status)
			}
			ctx.Status(http.StatusNoContent)
		})
	return g
}
