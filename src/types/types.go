package types

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"gorm.io/gorm"
)

type Timestamps struct {
	CreatedAt time.Time      `gorm:"autoCreateTime:nano" json:"created_at,omitempty"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime:nano" json:"updated_at,omitempty"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty,omitnil"`
}

type JSONB map[string]any

func (a JSONB) Value() (driver.Value, error) {
	valueString, err := json.Marshal(a)
	return string(valueString), err
}
func (a *JSONB) Scan(value any) error {
	b, ok := value.([]byte)
	if !ok {
		return errors.New("type assertion to []byte failed")
	}
	if err := json.Unmarshal(b, &a); err != nil {
		return err
	}
	return nil
}

// PriceTier is embedded in the event row as a jsonb array. Price stays a
// free-text field; an unparseable value means the tier is free.
type PriceTier struct {
	ID      string     `json:"id"`
	Name    string     `json:"name"`
	Price   string     `json:"price"`
	EndDate *time.Time `json:"end_date,omitempty"`
}

type PriceTiers []PriceTier

func (a PriceTiers) Value() (driver.Value, error) {
	valueString, err := json.Marshal(a)
	return string(valueString), err
}
func (a *PriceTiers) Scan(value any) error {
	b, ok := value.([]byte)
	if !ok {
		return errors.New("type assertion to []byte failed")
	}
	if err := json.Unmarshal(b, &a); err != nil {
		return err
	}
	return nil
}

// PaymentInstructions holds the organizer's external payment handles.
// Validated at write time, never parsed optimistically at read time.
type PaymentInstructions struct {
	Venmo   *string `json:"venmo,omitempty"`
	CashApp *string `json:"cashapp,omitempty"`
	Zelle   *string `json:"zelle,omitempty"`
	PayPal  *string `json:"paypal,omitempty"`
}

func (p PaymentInstructions) Value() (driver.Value, error) {
	valueString, err := json.Marshal(p)
	return string(valueString), err
}
func (p *PaymentInstructions) Scan(value any) error {
	b, ok := value.([]byte)
	if !ok {
		return errors.New("type assertion to []byte failed")
	}
	if err := json.Unmarshal(b, &p); err != nil {
		return err
	}
	return nil
}

func (p *PaymentInstructions) Empty() bool {
	return p == nil || (p.Venmo == nil && p.CashApp == nil && p.Zelle == nil && p.PayPal == nil)
}

type Role string

const (
	ROLE_VIEWER    Role = "viewer"
	ROLE_ARTIST    Role = "artist"
	ROLE_ORGANIZER Role = "organizer"
	ROLE_ADMIN     Role = "admin"
)

func (r Role) Valid() bool {
	switch r {
	case ROLE_VIEWER, ROLE_ARTIST, ROLE_ORGANIZER, ROLE_ADMIN:
		return true
	}
	return false
}

type BookingStatus string

const (
	BOOKING_PENDING   BookingStatus = "pending"
	BOOKING_CONFIRMED BookingStatus = "confirmed"
	BOOKING_CANCELLED BookingStatus = "cancelled"
)

type PaymentMethod string

const (
	PAYMENT_FREE   PaymentMethod = "free"
	PAYMENT_DIRECT PaymentMethod = "direct"
)

// RejectionKind tags every way a booking attempt can fail before or during
// submission. Handlers surface it alongside the human-readable message.
type RejectionKind string

const (
	REJECT_NOT_SIGNED_IN      RejectionKind = "not_signed_in"
	REJECT_PROFILE_INCOMPLETE RejectionKind = "profile_incomplete"
	REJECT_EVENT_PAST         RejectionKind = "event_past"
	REJECT_SOLD_OUT           RejectionKind = "sold_out"
	REJECT_CAPACITY_EXCEEDED  RejectionKind = "capacity_exceeded"
	REJECT_TIER_NOT_FOUND     RejectionKind = "tier_not_found"
	REJECT_TIER_EXPIRED       RejectionKind = "tier_expired"
	REJECT_PROOF_REQUIRED     RejectionKind = "proof_required"
	REJECT_PROOF_TOO_LARGE    RejectionKind = "proof_too_large"
	REJECT_UPLOAD_FAILED      RejectionKind = "upload_failed"
	REJECT_PERSIST_FAILED     RejectionKind = "persist_failed"
)

type BookingRejection struct {
	Kind    RejectionKind `json:"kind"`
	Message string        `json:"message"`
}

func (r *BookingRejection) Error() string { return r.Message }

// Quote is the evaluator's output for a valid request.
type Quote struct {
	UnitPrice             float64 `json:"unit_price"`
	TotalAmount           float64 `json:"total_amount"`
	IsFree                bool    `json:"is_free"`
	Qty                   int     `json:"qty"`
	RemainingAfterBooking *int    `json:"remaining_after_booking,omitempty"`
	TierID                string  `json:"tier_id,omitempty"`
}

type EventListFilters struct {
	When     string `form:"when,default=all" binding:"omitempty,oneof=all upcoming past"`
	Location string `form:"location"`
	Sort     string `form:"sort,default=date-asc" binding:"omitempty,oneof=date-asc date-desc title created"`
}

type PriceTierInput struct {
	ID      string  `json:"id" binding:"required"`
	Name    string  `json:"name" binding:"required"`
	Price   string  `json:"price"`
	EndDate *string `json:"end_date,omitempty"`
}

type CreateEventRequestBody struct {
	Title               string               `json:"title" binding:"required"`
	About               string               `json:"about,omitempty"`
	Date                string               `json:"date" binding:"required,datefield,eventdate"`
	Time                string               `json:"time" binding:"required,timefield"`
	LocationName        string               `json:"location_name" binding:"required"`
	Price               *float64             `json:"price,omitempty" binding:"omitempty,gte=0"`
	PriceTiers          []PriceTierInput     `json:"price_tiers,omitempty" binding:"omitempty,dive"`
	TicketCapacity      *int                 `json:"ticket_capacity,omitempty" binding:"omitempty,gte=0"`
	PaymentInstructions *PaymentInstructions `json:"payment_instructions,omitempty"`
	ArtistIDs           []uint               `json:"artist_ids,omitempty"`
}

type UpdateEventRequestBody struct {
	Title               *string              `json:"title,omitempty"`
	About               *string              `json:"about,omitempty"`
	Date                *string              `json:"date,omitempty" binding:"omitempty,datefield"`
	Time                *string              `json:"time,omitempty" binding:"omitempty,timefield"`
	LocationName        *string              `json:"location_name,omitempty"`
	Price               *float64             `json:"price,omitempty" binding:"omitempty,gte=0"`
	PriceTiers          []PriceTierInput     `json:"price_tiers,omitempty" binding:"omitempty,dive"`
	TicketCapacity      *int                 `json:"ticket_capacity,omitempty" binding:"omitempty,gte=0"`
	PaymentInstructions *PaymentInstructions `json:"payment_instructions,omitempty"`
	ArtistIDs           []uint               `json:"artist_ids,omitempty"`
}

type CreateArtistRequestBody struct {
	Name     string `json:"name" binding:"required"`
	Bio      string `json:"bio,omitempty"`
	ImageURL string `json:"image_url,omitempty" binding:"omitempty,url"`
}

// SubmitBookingForm binds the multipart booking submission. The proof file
// rides alongside as form file "proof".
type SubmitBookingForm struct {
	Qty           int    `form:"qty" binding:"required,gte=1,lte=10"`
	TierID        string `form:"tier_id"`
	AttendeeName  string `form:"attendee_name"`
	AttendeeEmail string `form:"attendee_email" binding:"omitempty,email"`
}

type QuoteQueryParams struct {
	TierID string `form:"tier"`
	Qty    int    `form:"qty,default=1" binding:"omitempty,gte=1"`
}

type UpdateBookingStatusRequestBody struct {
	Status BookingStatus `json:"status" binding:"required,oneof=confirmed cancelled"`
}

type UpdateUserRoleRequestBody struct {
	Role Role `json:"role" binding:"required,oneof=viewer artist organizer admin"`
}

type RegisterUserRequestBody struct {
	Email string `json:"email" binding:"required,email"`
	Name  string `json:"name" binding:"required"`
}

type LoginRequestBody struct {
	Email string `json:"email" binding:"required,email"`
}

type SimpleRequestParams struct {
	ID uint `uri:"id" binding:"required"`
}

// UserSettings is the explicit settings struct of the product; persisted per
// user through the redis KV wrapper, never ambient global state.
type UserSettings struct {
	Theme         string `json:"theme" binding:"omitempty,oneof=light dark system"`
	StaySignedIn  bool   `json:"stay_signed_in"`
	EmailOptIn    bool   `json:"email_opt_in"`
	BookingAlerts bool   `json:"booking_alerts"`
}

func DefaultUserSettings() UserSettings {
	return UserSettings{Theme: "system", StaySignedIn: true, EmailOptIn: true, BookingAlerts: true}
}

type Claims struct {
	Username string `json:"username"`
	Role     string `json:"role"`
	UID      string `json:"uid"`
	jwt.RegisteredClaims
}

type Handler func(payload string)
