package mailer

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/mailersend/mailersend-go"
)

type MailerSendClient struct {
	client  *mailersend.Mailersend
	from    mailersend.From
	enabled bool
}

func NewMailerSend(apiKey, fromName, fromEmail string) *MailerSendClient {
	m := &MailerSendClient{
		enabled: apiKey != "" && fromEmail != "",
		from: mailersend.From{
			Name:  fromName,
			Email: fromEmail,
		},
	}

	if m.enabled {
		m.client = mailersend.NewMailersend(apiKey)
	}

	return m
}

func (m *MailerSendClient) SendBookingCreated(toEmail, toName, salonName, serviceName string, scheduledAt time.Time) error {
	if !m.enabled {
		return fmt.Errorf("MailerSend not configured")
	}

	when := scheduledAt.Format("Monday, Jan 2 at 3:04 PM")
	subject := fmt.Sprintf("Booking request received — %s", salonName)
	html := fmt.Sprintf(`
		<h2>We got your booking request!</h2>
		<p>Hi %s,</p>
		<p>Your request for <strong>%s</strong> at <strong>%s</strong> on %s is waiting
		for the salon to confirm. We'll email you as soon as it's confirmed.</p>
	`, toName, serviceName, salonName, when)
	text := fmt.Sprintf("Hi %s, your request for %s at %s on %s is pending confirmation.",
		toName, serviceName, salonName, when)

	return m.sendEmail(toEmail, toName, subject, text, html)
}

func (m *MailerSendClient) SendStatusChange(toEmail, toName, salonName, newStatus string, scheduledAt time.Time) error {
	if !m.enabled {
		return fmt.Errorf("MailerSend not configured")
	}

	when := scheduledAt.Format("Monday, Jan 2 at 3:04 PM")
	subject := fmt.Sprintf("Your booking at %s is %s", salonName, newStatus)
	html := fmt.Sprintf(`
		<h2>Booking update</h2>
		<p>Hi %s,</p>
		<p>Your appointment at <strong>%s</strong> on %s is now
		<strong>%s</strong>.</p>
	`, toName, salonName, when, newStatus)
	text := fmt.Sprintf("Hi %s, your appointment at %s on %s is now %s.",
		toName, salonName, when, newStatus)

	return m.sendEmail(toEmail, toName, subject, text, html)
}

func (m *MailerSendClient) sendEmail(toEmail, toName, subject, text, html string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	msg := m.client.Email.NewMessage()
	msg.SetFrom(m.from)
	msg.SetRecipients([]mailersend.Recipient{{Name: toName, Email: toEmail}})
	msg.SetSubject(subject)

	if strings.TrimSpace(text) != "" {
		msg.SetText(text)
	}
	if strings.TrimSpace(html) != "" {
		msg.SetHTML(html)
	}

	_, err := m.client.Email.Send(ctx, msg)
	return err
}
