package email

import (
	"context"
	"fmt"
	"net"
	"time"

	gomail "github.com/wneessen/go-mail"

	"staykedarnath_backend/platform/config"
)

// SMTPSender delivers mail over a direct SMTP connection via go-mail.
type SMTPSender struct {
	host      string
	port      int
	username  string
	password  string
	fromName  string
	fromEmail string
}

// NewSMTPSender creates a sender from the email configuration.
func NewSMTPSender(cfg config.EmailConfig) *SMTPSender {
	return &SMTPSender{
		host:      cfg.GetSMTPHost(),
		port:      cfg.GetSMTPPort(),
		username:  cfg.GetSMTPUsername(),
		password:  cfg.GetSMTPPassword(),
		fromName:  cfg.GetEmailFromName(),
		fromEmail: cfg.GetEmailFromAddress(),
	}
}

var _ Sender = (*SMTPSender)(nil)

func (s *SMTPSender) send(ctx context.Context, toEmail, subject, htmlContent string) error {
	msg := gomail.NewMsg()
	if err := msg.FromFormat(s.fromName, s.fromEmail); err != nil {
		return fmt.Errorf("smtp from: %w", err)
	}
	if err := msg.To(toEmail); err != nil {
		return fmt.Errorf("smtp to: %w", err)
	}
	msg.Subject(subject)
	msg.SetBodyString(gomail.TypeTextHTML, htmlContent)

	client, err := gomail.NewClient(s.host,
		gomail.WithPort(s.port),
		gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
		gomail.WithUsername(s.username),
		gomail.WithPassword(s.password),
		gomail.WithTLSPortPolicy(gomail.TLSOpportunistic),
		gomail.WithTimeout(15*time.Second),
		gomail.WithDialContextFunc(func(dctx context.Context, _ string, addr string) (net.Conn, error) {
			return (&net.Dialer{}).DialContext(dctx, "tcp4", addr)
		}),
	)
	if err != nil {
		return fmt.Errorf("smtp client: %w", err)
	}

	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}
	return nil
}

// SendBookingConfirmation mails a guest that their booking was created.
func (s *SMTPSender) SendBookingConfirmation(ctx context.Context, toEmail string, data BookingEmailData) error {
	content, err := renderTemplate("booking_confirmation", bookingTemplateData{
		Heading:     "Booking confirmed",
		GuestName:   data.GuestName,
		CheckIn:     data.CheckIn,
		CheckOut:    data.CheckOut,
		TotalRupees: formatRupees(data.TotalAmount),
	})
	if err != nil {
		return err
	}
	return s.send(ctx, toEmail, subjectBookingConfirmation, content)
}

// SendCheckinReminder mails a guest the day before their stay begins.
func (s *SMTPSender) SendCheckinReminder(ctx context.Context, toEmail string, data BookingEmailData) error {
	content, err := renderTemplate("checkin_reminder", bookingTemplateData{
		Heading:   "See you tomorrow",
		GuestName: data.GuestName,
		CheckIn:   data.CheckIn,
	})
	if err != nil {
		return err
	}
	return s.send(ctx, toEmail, subjectCheckinReminder, content)
}

// SendLeadAlert mails the admin inbox about a new enquiry.
func (s *SMTPSender) SendLeadAlert(ctx context.Context, toEmail, name, phone, fromEmail string) error {
	content, err := renderTemplate("lead_alert", leadTemplateData{
		Heading: "New stay enquiry",
		Name:    name,
		Phone:   phone,
		Email:   fromEmail,
	})
	if err != nil {
		return err
	}
	return s.send(ctx, toEmail, subjectLeadAlert, content)
}
