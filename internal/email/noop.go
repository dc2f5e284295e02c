package email

import (
	"context"

	"staykedarnath_backend/platform/logger"
)

// NoopSender logs instead of sending. Used when email is disabled, which is
// the default in development.
type NoopSender struct {
	log *logger.Logger
}

// NewNoopSender creates a logging-only sender.
func NewNoopSender(log *logger.Logger) *NoopSender {
	return &NoopSender{log: log}
}

var _ Sender = (*NoopSender)(nil)

func (s *NoopSender) SendBookingConfirmation(_ context.Context, toEmail string, data BookingEmailData) error {
	s.log.Info("email skipped (disabled)", "kind", "booking_confirmation", "to", toEmail, "check_in", data.CheckIn)
	return nil
}

func (s *NoopSender) SendCheckinReminder(_ context.Context, toEmail string, data BookingEmailData) error {
	s.log.Info("email skipped (disabled)", "kind", "checkin_reminder", "to", toEmail, "check_in", data.CheckIn)
	return nil
}

func (s *NoopSender) SendLeadAlert(_ context.Context, toEmail, name, _, _ string) error {
	s.log.Info("email skipped (disabled)", "kind", "lead_alert", "to", toEmail, "lead", name)
	return nil
}
