package mailer

import (
	"bytes"
	"fmt"
	"net/smtp"
	"strings"
	"time"
)

type SMTPMailer struct {
	Host string
	Port int
	From string
	User string
	Pass string
}

func NewSMTPMailer(host string, port int, from, user, pass string) *SMTPMailer {
	return &SMTPMailer{
		Host: strings.TrimSpace(host),
		Port: port,
		From: strings.TrimSpace(from),
		User: strings.TrimSpace(user),
		Pass: strings.TrimSpace(pass),
	}
}

func (s *SMTPMailer) SendBookingCreated(toEmail, toName, salonName, serviceName string, scheduledAt time.Time) error {
	when := scheduledAt.Format("Monday, Jan 2 at 3:04 PM")
	subject := fmt.Sprintf("Booking request received — %s", salonName)
	text := fmt.Sprintf("Hi %s, your request for %s at %s on %s is pending confirmation.",
		toName, serviceName, salonName, when)
	html := fmt.Sprintf(`
		<h2>We got your booking request!</h2>
		<p>Hi %s,</p>
		<p>Your request for <strong>%s</strong> at <strong>%s</strong> on %s is waiting
		for the salon to confirm.</p>
	`, toName, serviceName, salonName, when)

	return s.sendEmail(toEmail, subject, text, html)
}

func (s *SMTPMailer) SendStatusChange(toEmail, toName, salonName, newStatus string, scheduledAt time.Time) error {
	when := scheduledAt.Format("Monday, Jan 2 at 3:04 PM")
	subject := fmt.Sprintf("Your booking at %s is %s", salonName, newStatus)
	text := fmt.Sprintf("Hi %s, your appointment at %s on %s is now %s.",
		toName, salonName, when, newStatus)
	html := fmt.Sprintf(`
		<h2>Booking update</h2>
		<p>Hi %s,</p>
		<p>Your appointment at <strong>%s</strong> on %s is now <strong>%s</strong>.</p>
	`, toName, salonName, when, newStatus)

	return s.sendEmail(toEmail, subject, text, html)
}

func (s *SMTPMailer) sendEmail(toEmail, subject, text, html string) error {
	toEmail = strings.TrimSpace(toEmail)
	if toEmail == "" {
		return fmt.Errorf("empty recipient email")
	}

	var buf bytes.Buffer
	boundary := "mixed-boundary"

	fmt.Fprintf(&buf, "From: %s\r\n", s.From)
	fmt.Fprintf(&buf, "To: %s\r\n", toEmail)
	fmt.Fprintf(&buf, "Subject: %s\r\n", subject)
	fmt.Fprintf(&buf, "MIME-Version: 1.0\r\n")
	fmt.Fprintf(&buf, "Content-Type: multipart/alternative; boundary=%s\r\n\r\n", boundary)

	fmt.Fprintf(&buf, "--%s\r\n", boundary)
	fmt.Fprintf(&buf, "Content-Type: text/plain; charset=utf-8\r\n\r\n")
	fmt.Fprintf(&buf, "%s\r\n\r\n", text)

	fmt.Fprintf(&buf, "--%s\r\n", boundary)
	fmt.Fprintf(&buf, "Content-Type: text/html; charset=utf-8\r\n\r\n")
	fmt.Fprintf(&buf, "%s\r\n\r\n", html)

	fmt.Fprintf(&buf, "--%s--\r\n", boundary)

	addr := fmt.Sprintf("%s:%d", s.Host, s.Port)

	// Mailpit or development SMTP (no auth)
	if s.User == "" {
		return smtp.SendMail(addr, nil, s.From, []string{toEmail}, buf.Bytes())
	}

	auth := smtp.PlainAuth("", s.User, s.Pass, s.Host)
	return smtp.SendMail(addr, auth, s.From, []string{toEmail}, buf.Bytes())
}
