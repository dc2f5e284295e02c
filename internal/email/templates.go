package email

import (
	"bytes"
	"fmt"
	"html/template"
)

const (
	subjectBookingConfirmation = "Your StayKedarnath booking is confirmed"
	subjectCheckinReminder     = "Your stay begins tomorrow"
	subjectLeadAlert           = "New stay enquiry"
)

var emailTemplates = template.Must(template.New("emails").Parse(`
{{define "layout_top"}}<!DOCTYPE html>
<html><body style="font-family:sans-serif;color:#222;max-width:600px;margin:0 auto">
<h2>{{.Heading}}</h2>{{end}}
{{define "layout_bottom"}}<p style="color:#888;font-size:12px">StayKedarnath &middot; Kedarnath, Uttarakhand</p>
</body></html>{{end}}

{{define "booking_confirmation"}}{{template "layout_top" .}}
<p>Namaste {{.GuestName}},</p>
<p>Your booking is confirmed. We look forward to hosting you.</p>
<ul>
<li>Check-in: {{.CheckIn}}</li>
<li>Check-out: {{.CheckOut}}</li>
<li>Total: {{.TotalRupees}}</li>
</ul>
{{template "layout_bottom" .}}{{end}}

{{define "checkin_reminder"}}{{template "layout_top" .}}
<p>Namaste {{.GuestName}},</p>
<p>A reminder that your stay begins on {{.CheckIn}}. Safe travels on the yatra.</p>
{{template "layout_bottom" .}}{{end}}

{{define "lead_alert"}}{{template "layout_top" .}}
<p>A new enquiry arrived:</p>
<ul>
<li>Name: {{.Name}}</li>
<li>Phone: {{.Phone}}</li>
<li>Email: {{.Email}}</li>
</ul>
{{template "layout_bottom" .}}{{end}}
`))

type bookingTemplateData struct {
	Heading     string
	GuestName   string
	CheckIn     string
	CheckOut    string
	TotalRupees string
}

type leadTemplateData struct {
	Heading string
	Name    string
	Phone   string
	Email   string
}

func renderTemplate(name string, data any) (string, error) {
	var buf bytes.Buffer
	if err := emailTemplates.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("render email template %s: %w", name, err)
	}
	return buf.String(), nil
}

// formatRupees renders a paise amount as rupees for display.
func formatRupees(paise int64) string {
	return fmt.Sprintf("₹%d.%02d", paise/100, paise%100)
}
