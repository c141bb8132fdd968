package main

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"maestro/src/common"
	"maestro/src/config"
	"maestro/src/db"
	"maestro/src/lib"
	awslib "maestro/src/lib/aws"
	"maestro/src/models"
	"maestro/src/types"
	"maestro/src/utils"
	"net/http"
	"os"
	"path"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yeqown/go-qrcode"
	"gorm.io/gorm"
)

// rejectJSON renders a booking rejection as the flat {error, kind} shape the
// booking form consumes.
func rejectJSON(ctx *gin.Context, status int, r *types.BookingRejection) {
	ctx.JSON(status, gin.H{"error": r.Message, "kind": r.Kind})
}

func bookingHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		POST("/events/:id/bookings", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.Status(http.StatusBadRequest)
				return
			}
			var form types.SubmitBookingForm
			if err := ctx.ShouldBind(&form); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			userId := ctx.GetUint("id")
			attendeeName := form.AttendeeName
			if attendeeName == "" {
				attendeeName = ctx.GetString("name")
			}
			attendeeEmail := form.AttendeeEmail
			if attendeeEmail == "" {
				attendeeEmail = ctx.GetString("email")
			}
			if attendeeName == "" || attendeeEmail == "" {
				rejection := &types.BookingRejection{
					Kind:    types.REJECT_PROFILE_INCOMPLETE,
					Message: "attendee name and email are required",
				}
				rejectJSON(ctx, http.StatusUnprocessableEntity, rejection)
				return
			}

			event, quote, rejection, err := utils.QuoteForEvent(params.ID, form.TierID, form.Qty, time.Now())
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					ctx.Status(http.StatusNotFound)
					return
				}
				ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
				return
			}
			if rejection != nil {
				rejectJSON(ctx, http.StatusUnprocessableEntity, rejection)
				return
			}

			// Paid bookings carry a proof-of-payment file. The upload happens
			// before any row is written so a failed upload leaves no booking.
			var proofURL *string
			if !quote.IsFree {
				file, err := ctx.FormFile("proof")
				if err != nil {
					rejection := &types.BookingRejection{
						Kind:    types.REJECT_PROOF_REQUIRED,
						Message: "proof of payment is required for paid bookings",
					}
					rejectJSON(ctx, http.StatusUnprocessableEntity, rejection)
					return
				}
				if file.Size > config.MAX_PROOF_SIZE {
					rejection := &types.BookingRejection{
						Kind:    types.REJECT_PROOF_TOO_LARGE,
						Message: "proof of payment exceeds the size limit",
					}
					rejectJSON(ctx, http.StatusRequestEntityTooLarge, rejection)
					return
				}
				src, err := file.Open()
				if err != nil {
					ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
					return
				}
				defer src.Close()
				key := utils.ProofObjectKey(userId, event.ID, file.Filename, time.Now())
				url, err := awslib.S3UploadProof(key, src, file.Header.Get("Content-Type"))
				if err != nil {
					log.Printf("Error uploading proof of payment: %s\n", err.Error())
					rejection := &types.BookingRejection{
						Kind:    types.REJECT_UPLOAD_FAILED,
						Message: "could not store proof of payment",
					}
					rejectJSON(ctx, http.StatusBadGateway, rejection)
					return
				}
				proofURL = url
			}

			rows, err := utils.CreateBookingRows(event, userId, attendeeName, attendeeEmail, quote, proofURL)
			if err != nil {
				rejection := &types.BookingRejection{
					Kind:    types.REJECT_PERSIST_FAILED,
					Message: "could not record the booking",
				}
				rejectJSON(ctx, http.StatusInternalServerError, rejection)
				return
			}

			go common.SendBookingConfirmation(event, rows, quote, attendeeName, attendeeEmail)

			ctx.JSON(http.StatusCreated, gin.H{
				"data":          rows,
				"quote":         quote,
				"calendar_link": utils.CalendarLinkForEvent(event),
			})
		}).
		GET("/bookings", func(ctx *gin.Context) {
			userId := ctx.GetUint("id")
			db := db.GetDb()
			var bookings []models.Booking
			if err := db.
				Model(&models.Booking{}).
				Where(&models.Booking{UserID: userId}).
				Preload("Event").
				Order("created_at DESC").
				Find(&bookings).
				Error; err != nil {
				ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": bookings, "count": len(bookings)})
		}).
		PUT("/bookings/:id/cancel", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.Status(http.StatusBadRequest)
				return
			}
			userId := ctx.GetUint("id")
			db := db.GetDb()
			err := db.Transaction(func(tx *gorm.DB) error {
				var booking models.Booking
				if err := tx.
					Model(&models.Booking{}).
					Where(&models.Booking{ID: params.ID, UserID: userId}).
					Preload("Event").
					First(&booking).
					Error; err != nil {
					return err
				}
				if booking.Status == types.BOOKING_CANCELLED {
					return errors.New("booking is already cancelled")
				}
				if booking.Event != nil && booking.Event.IsPast(time.Now()) {
					return errors.New("event has already taken place")
				}
				return tx.
					Model(&models.Booking{}).
					Where("id = ?", booking.ID).
					Update("status", types.BOOKING_CANCELLED).
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
		}).
		GET("/bookings/:id/pass", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.Status(http.StatusBadRequest)
				return
			}
			var query struct {
				ShareLink bool `form:"share_link"`
			}
			if err := ctx.ShouldBindQuery(&query); err != nil {
				ctx.Status(http.StatusBadRequest)
				return
			}
			userId := ctx.GetUint("id")
			db := db.GetDb()
			var booking models.Booking
			if err := db.
				Model(&models.Booking{}).
				Where(&models.Booking{ID: params.ID, UserID: userId}).
				Preload("Event").
				First(&booking).
				Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					ctx.Status(http.StatusNotFound)
					return
				}
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			if booking.Status != types.BOOKING_CONFIRMED {
				ctx.JSON(http.StatusConflict, gin.H{"error": "booking is not confirmed"})
				return
			}
			if booking.Event != nil && booking.Event.IsPast(time.Now()) {
				ctx.JSON(http.StatusConflict, gin.H{"error": "pass is no longer valid"})
				return
			}

			filename := fmt.Sprintf("pass_%d", booking.ID)
			rd := lib.GetRedisClient()
			cached, _ := rd.Get(context.Background(), filename).Result()
			if cached != "" {
				ctx.JSON(http.StatusOK, gin.H{"url": cached})
				return
			}

			rawData := map[string]any{
				"bookingId": booking.ID,
				"eventId":   booking.EventID,
			}
			rawBytes, _ := json.Marshal(rawData)

			keyEnv := os.Getenv("API_QRC_SECRET")
			key, err := hex.DecodeString(keyEnv)
			if err != nil {
				log.Printf("Could not read key from string: %s\n", err.Error())
				ctx.Status(http.StatusInternalServerError)
				return
			}
			encryptedMessage, err := utils.EncryptMessage(key, string(rawBytes))
			if err != nil {
				log.Printf("Error encrypting message: %s\n", err.Error())
				ctx.Status(http.StatusInternalServerError)
				return
			}
			qrc, err := qrcode.New(encryptedMessage)
			if err != nil {
				ctx.Status(http.StatusInternalServerError)
				return
			}
			wd, _ := os.Getwd()
			tempdir := os.Getenv("TEMP_DIR")
			filepath := path.Join(wd, "..", tempdir, fmt.Sprintf("%s.jpeg", filename))
			if err := qrc.Save(filepath); err != nil {
				log.Printf("Could not save qrcode to file [%s]: %s\n", filepath, err.Error())
				ctx.Status(http.StatusInternalServerError)
				return
			}
			f, err := os.Open(filepath)
			if err != nil {
				ctx.Status(http.StatusInternalServerError)
				return
			}
			defer f.Close()
			url, err := awslib.S3UploadPass(fmt.Sprintf("%s.jpeg", filename), f)
			if err != nil {
				log.Printf("Error uploading pass to S3 bucket: %s\n", err.Error())
				ctx.Status(http.StatusBadGateway)
				return
			}
			rd.SetEx(context.Background(), filename, *url, 2*time.Hour)
			if query.ShareLink {
				ctx.JSON(http.StatusOK, gin.H{"url": *url})
				return
			}
			ctx.FileAttachment(filepath, "pass.jpeg")
		})
	return g
}
