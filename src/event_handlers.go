package main

import (
	"errors"
	"log"
	"maestro/src/db"
	"maestro/src/lib"
	"maestro/src/middlewares"
	"maestro/src/models"
	"maestro/src/types"
	"maestro/src/utils"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gosimple/slug"
	"gorm.io/gorm"
)

func eventHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		POST("/events", middlewares.RequireOrganizer, func(ctx *gin.Context) {
			var body types.CreateEventRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			userId := ctx.GetUint("id")
			id, err := utils.CreateNewEvent(ctx, &body, userId)
			if err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusCreated, gin.H{"id": id})
		}).
		PUT("/events/:id", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.Status(http.StatusBadRequest)
				return
			}
			var body types.UpdateEventRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			userId := ctx.GetUint("id")
			role := ctx.MustGet("role").(types.Role)
			db := db.GetDb()
			err := db.Transaction(func(tx *gorm.DB) error {
				var event models.Event
				if err := tx.
					Model(&models.Event{}).
					Where(&models.Event{ID: params.ID}).
					First(&event).
					Error; err != nil {
					return err
				}
				if event.UserID != userId && role != types.ROLE_ADMIN {
					return errors.New("not the event owner")
				}
				updates := map[string]any{}
				if body.Title != nil {
					updates["title"] = *body.Title
					updates["slug"] = slug.Make(*body.Title)
				}
				if body.About != nil {
					updates["about"] = *body.About
				}
				if body.Date != nil {
					updates["date"] = *body.Date
				}
				if body.Time != nil {
					updates["time"] = *body.Time
				}
				if body.Price != nil {
					updates["price"] = *body.Price
				}
				if body.TicketCapacity != nil {
					updates["ticket_capacity"] = *body.TicketCapacity
				}
				if body.PriceTiers != nil {
					tiers, err := utils.TiersFromInput(body.PriceTiers)
					if err != nil {
						return err
					}
					updates["price_tiers"] = tiers
				}
				if body.PaymentInstructions != nil {
					if err := utils.ValidatePaymentInstructions(body.PaymentInstructions); err != nil {
						return err
					}
					updates["payment_instructions"] = body.PaymentInstructions
				}
				if body.LocationName != nil {
					updates["location_name"] = *body.LocationName
					if point, gerr := lib.GeocodeLocation(ctx, *body.LocationName); gerr == nil && point != nil {
						updates["location_lat"] = point.Lat
						updates["location_lng"] = point.Lng
					} else {
						updates["location_lat"] = nil
						updates["location_lng"] = nil
					}
				}
				if len(updates) > 0 {
					if err := tx.
						Model(&models.Event{}).
						Where("id = ?", event.ID).
						Updates(updates).
						Error; err != nil {
						return err
					}
				}
				if body.ArtistIDs != nil {
					var artists []*models.Artist
					if err := tx.Find(&artists, body.ArtistIDs).Error; err != nil {
						return err
					}
					if len(artists) != len(body.ArtistIDs) {
						return errors.New("one or more artists do not exist")
					}
					if err := tx.Model(&event).Association("Artists").Replace(artists); err != nil {
						return err
					}
				}
				return nil
			})
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					ctx.Status(http.StatusNotFound)
					return
				}
				log.Printf("Error updating event: %s\n", err.Error())
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			ctx.Status(http.StatusNoContent)
		}).
		DELETE("/events/:id", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.Status(http.StatusBadRequest)
				return
			}
			userId := ctx.GetUint("id")
			role := ctx.MustGet("role").(types.Role)
			db := db.GetDb()
			err := db.Transaction(func(tx *gorm.DB) error {
				var event models.Event
				if err := tx.
					Model(&models.Event{}).
					Where(&models.Event{ID: params.ID}).
					First(&event).
					Error; err != nil {
					return err
				}
				if event.UserID != userId && role != types.ROLE_ADMIN {
					return errors.New("not the event owner")
				}
				var live int64
				if err := tx.
					Model(&models.Booking{}).
					Where(&models.Booking{EventID: event.ID}).
					Not(&models.Booking{Status: types.BOOKING_CANCELLED}).
					Count(&live).
					Error; err != nil {
					return err
				}
				if live > 0 {
					return errors.New("event has active bookings")
				}
				return tx.Delete(&event).Error
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
