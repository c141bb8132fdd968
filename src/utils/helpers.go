package utils

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"log"
	"maestro/src/config"
	"maestro/src/db"
	"maestro/src/lib"
	"maestro/src/models"
	"maestro/src/models/scopes"
	"maestro/src/types"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/gosimple/slug"
	"gorm.io/gorm"
)

var jwtKey = []byte(os.Getenv("JWT_SECRET"))

// WithSuffix appends the environment suffix to a queue name so that staging
// and production consumers never share a queue.
func WithSuffix(name string) string {
	suffix := os.Getenv("QUEUE_SUFFIX")
	if suffix == "" {
		return name
	}
	return fmt.Sprintf("%s_%s", name, suffix)
}

func GenerateJWT(user *models.User) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"username": user.Name,
		"role":     string(user.Role),
		"uid":      user.UID,
		"sub":      fmt.Sprintf("%d", user.ID),
		"iat":      now.Unix(),
		"exp":      now.Add(24 * time.Hour).Unix(),
	})
	return token.SignedString(jwtKey)
}

// TiersFromInput converts the request tiers into the stored jsonb form and
// rejects duplicate identifiers and malformed end dates.
func TiersFromInput(inputs []types.PriceTierInput) (types.PriceTiers, error) {
	tiers := make(types.PriceTiers, 0, len(inputs))
	seen := map[string]bool{}
	for _, in := range inputs {
		if seen[in.ID] {
			return nil, fmt.Errorf("duplicate ticket tier id [%s]", in.ID)
		}
		seen[in.ID] = true
		tier := types.PriceTier{ID: in.ID, Name: in.Name, Price: in.Price}
		if in.EndDate != nil {
			endDate, err := time.Parse(time.RFC3339, *in.EndDate)
			if err != nil {
				return nil, fmt.Errorf("invalid end_date for tier [%s]: %s", in.ID, err.Error())
			}
			tier.EndDate = &endDate
		}
		tiers = append(tiers, tier)
	}
	return tiers, nil
}

// ValidatePaymentInstructions enforces the tagged payment-handles structure
// at write time.
func ValidatePaymentInstructions(p *types.PaymentInstructions) error {
	if p == nil {
		return nil
	}
	if p.Empty() {
		return errors.New("payment_instructions must carry at least one handle")
	}
	for name, handle := range map[string]*string{
		"venmo": p.Venmo, "cashapp": p.CashApp, "zelle": p.Zelle, "paypal": p.PayPal,
	} {
		if handle != nil && strings.TrimSpace(*handle) == "" {
			return fmt.Errorf("payment_instructions.%s must not be blank", name)
		}
	}
	return nil
}

func CreateNewEvent(ctx *gin.Context, params *types.CreateEventRequestBody, creatorId uint) (uint, error) {
	tiers, err := TiersFromInput(params.PriceTiers)
	if err != nil {
		return 0, err
	}
	if err := ValidatePaymentInstructions(params.PaymentInstructions); err != nil {
		return 0, err
	}

	event := models.Event{
		Title:               params.Title,
		Slug:                slug.Make(params.Title),
		Date:                params.Date,
		Time:                params.Time,
		LocationName:        params.LocationName,
		Price:               params.Price,
		PriceTiers:          tiers,
		TicketCapacity:      params.TicketCapacity,
		PaymentInstructions: params.PaymentInstructions,
		UserID:              creatorId,
	}
	if params.About != "" {
		event.About = &params.About
	}

	// Geocoding is best effort; an event without coordinates is still valid.
	if point, err := lib.GeocodeLocation(ctx, params.LocationName); err == nil && point != nil {
		event.LocationLat = &point.Lat
		event.LocationLng = &point.Lng
	}

	db := db.GetDb()
	err = db.Transaction(func(tx *gorm.DB) error {
		if len(params.ArtistIDs) > 0 {
			var artists []*models.Artist
			if err := tx.Find(&artists, params.ArtistIDs).Error; err != nil {
				return err
			}
			if len(artists) != len(params.ArtistIDs) {
				return errors.New("one or more artists do not exist")
			}
			event.Artists = artists
		}
		if err := tx.Create(&event).Error; err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		log.Printf("CreateNewEvent failed: %s\n", err.Error())
		return 0, err
	}
	return event.ID, nil
}

func GetEvent(id uint) (*models.Event, error) {
	var event models.Event
	db := db.GetDb()
	err := db.
		Model(&models.Event{}).
		Where(&models.Event{ID: id}).
		Preload("Artists").
		First(&event).
		Error
	if err != nil {
		return nil, err
	}
	return &event, nil
}

// CountActiveBookings returns the number of non-cancelled booking rows for an
// event; the remaining-capacity figure derives from it.
func CountActiveBookings(eventId uint) (int64, error) {
	var count int64
	db := db.GetDb()
	err := db.
		Model(&models.Booking{}).
		Scopes(scopes.ForEvent(eventId), scopes.Live).
		Count(&count).
		Error
	return count, err
}

// QuoteForEvent loads the event, counts its live bookings and runs the
// evaluator. Store errors come back as the third return.
func QuoteForEvent(eventId uint, tierID string, qty int, now time.Time) (*models.Event, *types.Quote, *types.BookingRejection, error) {
	event, err := GetEvent(eventId)
	if err != nil {
		return nil, nil, nil, err
	}
	booked, err := CountActiveBookings(eventId)
	if err != nil {
		return nil, nil, nil, err
	}
	quote, rejection := EvaluateBooking(event, tierID, qty, booked, now)
	return event, quote, rejection, nil
}

// QuoteClampedForEvent serves the read-only quote. Unlike submission, which
// validates the requested count and rejects, the quote clamps it to what the
// booking form may offer before pricing.
func QuoteClampedForEvent(eventId uint, tierID string, qty int, now time.Time) (*models.Event, *types.Quote, *types.BookingRejection, error) {
	event, err := GetEvent(eventId)
	if err != nil {
		return nil, nil, nil, err
	}
	booked, err := CountActiveBookings(eventId)
	if err != nil {
		return nil, nil, nil, err
	}
	var remaining *int
	if event.TicketCapacity != nil {
		r := *event.TicketCapacity - int(booked)
		if r < 0 {
			r = 0
		}
		remaining = &r
	}
	qty = ClampTicketCount(qty, remaining)
	quote, rejection := EvaluateBooking(event, tierID, qty, booked, now)
	return event, quote, rejection, nil
}

// ProofObjectKey builds the storage key for a proof-of-payment upload:
// {attendeeId}/{eventId}/{timestamp}.{ext}
func ProofObjectKey(userId uint, eventId uint, filename string, now time.Time) string {
	ext := filepath.Ext(filename)
	return fmt.Sprintf("%d/%d/%d%s", userId, eventId, now.UnixMilli(), ext)
}

// CreateBookingRows persists one row per ticket as a single batch insert.
// Every row shares attendee, event, amount and status; only identifiers
// differ. Free bookings are confirmed at creation, paid ones start pending.
func CreateBookingRows(event *models.Event, userId uint, attendeeName string, attendeeEmail string, quote *types.Quote, proofURL *string) ([]models.Booking, error) {
	status := types.BOOKING_PENDING
	method := types.PAYMENT_DIRECT
	if quote.IsFree {
		status = types.BOOKING_CONFIRMED
		method = types.PAYMENT_FREE
	}
	rows := make([]models.Booking, 0, quote.Qty)
	for range quote.Qty {
		rows = append(rows, models.Booking{
			EventID:           event.ID,
			UserID:            userId,
			AttendeeName:      attendeeName,
			AttendeeEmail:     attendeeEmail,
			Amount:            quote.UnitPrice,
			PaymentMethod:     method,
			ProofOfPaymentURL: proofURL,
			Status:            status,
		})
	}
	db := db.GetDb()
	err := db.Transaction(func(tx *gorm.DB) error {
		return tx.Create(&rows).Error
	})
	if err != nil {
		log.Printf("error in Booking transaction: %s\n", err.Error())
		return nil, err
	}
	return rows, nil
}

// CalendarLinkForEvent renders the quick-add deep link for an event.
func CalendarLinkForEvent(event *models.Event) string {
	details := ""
	if event.About != nil {
		details = *event.About
	}
	return lib.BuildCalendarLink(event.Title, event.StartsAt(), details, event.LocationName)
}

// CancelStalePendingBookings sweeps bookings still pending after their event
// date has passed. Runs on the in-process scheduler.
func CancelStalePendingBookings() {
	db := db.GetDb()
	cutoff := time.Now().AddDate(0, 0, -2).Format(config.DATE_PARSE_FORMAT)
	res := db.
		Model(&models.Booking{}).
		Scopes(scopes.WithStatus(types.BOOKING_PENDING)).
		Where("event_id IN (?)", db.Model(&models.Event{}).Select("id").Where("date < ?", cutoff)).
		Update("status", types.BOOKING_CANCELLED)
	if res.Error != nil {
		log.Printf("Error while cancelling stale bookings: %s\n", res.Error.Error())
		return
	}
	if res.RowsAffected > 0 {
		log.Printf("Cancelled %d stale pending bookings\n", res.RowsAffected)
	}
}

func EncryptMessage(key []byte, message string) (string, error) {
	plaintext := []byte(message)

	block, err := aes.NewCipher(key)
	if err != nil {
		return "", err
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return "", err
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", err
	}

	cipherText := gcm.Seal(nonce, nonce, plaintext, nil)
	encodedString := hex.EncodeToString(cipherText)

	return encodedString, nil
}

func DecryptMessage(key []byte, message string) (*string, error) {
	cipherText, err := hex.DecodeString(message)
	if err != nil {
		return nil, err
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}

	decryptedData, err := gcm.Open(nil, cipherText[:gcm.NonceSize()], cipherText[gcm.NonceSize():], nil)
	if err != nil {
		return nil, err
	}
	decodedString := string(decryptedData)

	return &decodedString, nil
}
