package models

import "maestro/src/types"

// Booking is one row per ticket. A checkout of N tickets writes N rows that
// share attendee, event, amount and status and differ only in ID.
type Booking struct {
	ID                uint                `gorm:"primarykey" json:"id"`
	EventID           uint                `json:"event_id,omitempty"`
	UserID            uint                `json:"user_id,omitempty"`
	AttendeeName      string              `json:"attendee_name,omitempty"`
	AttendeeEmail     string              `json:"attendee_email,omitempty"`
	Amount            float64             `json:"amount"`
	PaymentMethod     types.PaymentMethod `json:"payment_method,omitempty"`
	ProofOfPaymentURL *string             `json:"proof_of_payment_url,omitempty"`
	Status            types.BookingStatus `gorm:"default:'pending'" json:"status,omitempty"`

	Event *Event `gorm:"foreignKey:event_id" json:"event,omitempty"`
	User  *User  `gorm:"foreignKey:user_id" json:"-"`

	types.Timestamps
}
