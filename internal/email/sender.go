// Package email renders and delivers transactional mail. Domain modules never
// talk to it directly; the notification module drives it off the event bus.
package email

import "context"

// BookingEmailData carries the fields rendered into booking mails.
type BookingEmailData struct {
	GuestName   string
	CheckIn     string // YYYY-MM-DD
	CheckOut    string // YYYY-MM-DD
	TotalAmount int64  // paise
}

// Sender delivers transactional emails.
type Sender interface {
	SendBookingConfirmation(ctx context.Context, toEmail string, data BookingEmailData) error
	SendCheckinReminder(ctx context.Context, toEmail string, data BookingEmailData) error
	SendLeadAlert(ctx context.Context, toEmail, name, phone, fromEmail string) error
}
