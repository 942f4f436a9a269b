package notify

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"

	"gatepass/db"
	"gatepass/service/credential"
	"gatepass/service/mail"
)

//go:embed credential_email.html receipt_email.html
var fs embed.FS

var templates = template.Must(template.ParseFS(fs, "credential_email.html", "receipt_email.html"))

// Content-ID of the inline QR image when it could not be uploaded
const credentialCID = "credential"

// Sends credentials and receipts by email
type EmailNotifier struct {
	mailService mail.MailService
	eventName   string
}

func NewEmailNotifier(mailService mail.MailService, eventName string) *EmailNotifier {
	return &EmailNotifier{mailService: mailService, eventName: eventName}
}

type emailData struct {
	EventName    string
	Name         string
	TicketNumber uint
	TicketType   db.TicketType
	Quantity     int
	Price        string
	ImageSrc     template.URL
	WhatsAppLink template.URL
}

func (notifier *EmailNotifier) data(ticket *db.Ticket) emailData {
	return emailData{
		EventName:    notifier.eventName,
		Name:         ticket.Name,
		TicketNumber: ticket.TicketNumber,
		TicketType:   ticket.TicketType,
		Quantity:     ticket.Quantity,
		Price:        ticket.Price.StringFixed(2),
	}
}

// Deliver the credential of an approved ticket
func (notifier *EmailNotifier) Deliver(ctx context.Context, ticket *db.Ticket, artifact *credential.Artifact) error {
	data := notifier.data(ticket)
	data.WhatsAppLink = template.URL(artifact.WhatsAppLink)

	// Data URIs are stripped by most mail clients, attach the image instead
	var attachments []mail.Attachment
	if artifact.Uploaded {
		data.ImageSrc = template.URL(artifact.URL)
	} else {
		data.ImageSrc = template.URL("cid:" + credentialCID)
		attachments = append(attachments, mail.Attachment{
			Filename:    fmt.Sprintf("ticket-%d.png", ticket.TicketNumber),
			ContentType: "image/png",
			ContentID:   credentialCID,
			Data:        artifact.PNG,
		})
	}

	var body bytes.Buffer
	if err := templates.ExecuteTemplate(&body, "credential_email.html", data); err != nil {
		return fmt.Errorf("failed to render credential email: %w", err)
	}

	subject := fmt.Sprintf("%s - Your ticket #%d", notifier.eventName, ticket.TicketNumber)
	if err := notifier.mailService.SendEmail(ticket.Email, subject, body.String(), attachments...); err != nil {
		return fmt.Errorf("failed to send credential email: %w", err)
	}
	return nil
}

// Acknowledge a new purchase; the ticket is still pending review
func (notifier *EmailNotifier) SendReceipt(ctx context.Context, ticket *db.Ticket) error {
	var body bytes.Buffer
	if err := templates.ExecuteTemplate(&body, "receipt_email.html", notifier.data(ticket)); err != nil {
		return fmt.Errorf("failed to render receipt email: %w", err)
	}

	subject := fmt.Sprintf("%s - Order #%d received", notifier.eventName, ticket.TicketNumber)
	if err := notifier.mailService.SendEmail(ticket.Email, subject, body.String()); err != nil {
		return fmt.Errorf("failed to send receipt email: %w", err)
	}
	return nil
}
