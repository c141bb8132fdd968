package common

import (
	"fmt"
	"log"
	"maestro/src/lib"
	"maestro/src/lib/mailer"
	"maestro/src/models"
	"maestro/src/types"
	"maestro/src/utils"
	"os"
	"strings"
)

func paymentInstructionLines(p *types.PaymentInstructions) string {
	if p.Empty() {
		return ""
	}
	var b strings.Builder
	b.WriteString("<p>Send your payment to one of the following:</p><ul>")
	if p.Venmo != nil {
		fmt.Fprintf(&b, "<li>Venmo: %s</li>", *p.Venmo)
	}
	if p.CashApp != nil {
		fmt.Fprintf(&b, "<li>Cash App: %s</li>", *p.CashApp)
	}
	if p.Zelle != nil {
		fmt.Fprintf(&b, "<li>Zelle: %s</li>", *p.Zelle)
	}
	if p.PayPal != nil {
		fmt.Fprintf(&b, "<li>PayPal: %s</li>", *p.PayPal)
	}
	b.WriteString("</ul>")
	return b.String()
}

// SendBookingConfirmation emails the attendee right after submission. The
// message carries the booking summary, a calendar quick-add link and, for
// paid bookings still pending review, the organizer's payment handles.
// Mail failures are logged and never fail the booking.
func SendBookingConfirmation(event *models.Event, rows []models.Booking, quote *types.Quote, attendeeName string, attendeeEmail string) {
	status := "confirmed"
	extra := ""
	if !quote.IsFree {
		status = "pending review"
		extra = paymentInstructionLines(event.PaymentInstructions)
	}
	calendarLink := utils.CalendarLinkForEvent(event)
	senderFrom := os.Getenv("SMTP_FROM")
	input := &lib.SendMailInput{
		Subject:  fmt.Sprintf("Maestro Booking: %s", event.Title),
		From:     senderFrom,
		FromName: "noreply",
		To:       []string{attendeeEmail},
		Body: fmt.Sprintf(`
			<p>Hi %s,</p>
			<p>Your booking for <b>%s</b> is %s.</p>
			<p>Tickets: %d</p>
			<p>Total: $%.2f</p>
			<p>When: %s %s</p>
			<p>Where: %s</p>
			%s
			<p><a href="%s">Add to your calendar</a></p>
			<p>This is a system-generated message. Do not reply to this email.</p>
			`,
			attendeeName,
			event.Title,
			status,
			len(rows),
			quote.TotalAmount,
			event.Date,
			event.Time,
			event.LocationName,
			extra,
			calendarLink,
		),
		Html: true,
	}
	if err := mailer.NewMailerMessage(input); err != nil {
		log.Printf("[mailer] Error sending message: %s\n", err.Error())
		return
	}
}

// SendBookingDecision notifies the attendee of the organizer's review outcome.
func SendBookingDecision(booking *models.Booking, event *models.Event, status types.BookingStatus) {
	verdict := "confirmed"
	if status == types.BOOKING_CANCELLED {
		verdict = "cancelled"
	}
	senderFrom := os.Getenv("SMTP_FROM")
	input := &lib.SendMailInput{
		Subject:  fmt.Sprintf("Maestro Booking Update: %s", event.Title),
		From:     senderFrom,
		FromName: "noreply",
		To:       []string{booking.AttendeeEmail},
		Body: fmt.Sprintf(`
			<p>Hi %s,</p>
			<p>Your booking for <b>%s</b> has been %s by the organizer.</p>
			<p>When: %s %s</p>
			<p>Where: %s</p>
			<p>This is a system-generated message. Do not reply to this email.</p>
			`,
			booking.AttendeeName,
			event.Title,
			verdict,
			event.Date,
			event.Time,
			event.LocationName,
		),
		Html: true,
	}
	if err := mailer.NewMailerMessage(input); err != nil {
		log.Printf("[mailer] Error sending message: %s\n", err.Error())
		return
	}
}
