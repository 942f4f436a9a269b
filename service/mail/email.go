package mail

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"mime/multipart"
	"net/smtp"
	"net/textproto"
	"strings"
)

// Universal interface for mail service
type MailService interface {
	SendEmail(to, subject, body string, attachments ...Attachment) error
}

// A file embedded in the message. Inline attachments are referenced from the HTML body as cid:<ContentID>
type Attachment struct {
	Filename    string
	ContentType string
	ContentID   string
	Data        []byte
}

// Email service struct, which holds configurations related to email sending
type EmailService struct {
	Host  string
	Port  string
	Email string
	Auth  smtp.Auth
}

// Constructing method for email service struct
func NewEmailService(host, port, email, password string) *EmailService {
	// Try simple authentication
	smtpAuth := smtp.PlainAuth("", email, password, host)

	return &EmailService{
		Host:  host,
		Port:  port,
		Email: email,
		Auth:  smtpAuth,
	}
}

// Method to send email
func (service *EmailService) SendEmail(to, subject, body string, attachments ...Attachment) error {
	message, err := BuildMessage(service.Email, to, subject, body, attachments...)
	if err != nil {
		return err
	}

	addr := fmt.Sprintf("%s:%s", service.Host, service.Port)
	return smtp.SendMail(
		addr,
		service.Auth,
		service.Email,
		[]string{to},
		message,
	)
}

// Build the raw MIME message. Without attachments it is a single text/html part,
// otherwise a multipart/related body so inline images resolve
func BuildMessage(from, to, subject, body string, attachments ...Attachment) ([]byte, error) {
	var message bytes.Buffer
	message.WriteString(fmt.Sprintf("From: %s\r\n", from))
	message.WriteString(fmt.Sprintf("To: %s\r\n", to))
	message.WriteString(fmt.Sprintf("Subject: %s\r\n", subject))
	message.WriteString("MIME-Version: 1.0\r\n")

	if len(attachments) == 0 {
		message.WriteString("Content-Type: text/html; charset=UTF-8\r\n\r\n")
		message.WriteString(body)
		return message.Bytes(), nil
	}

	var parts bytes.Buffer
	writer := multipart.NewWriter(&parts)
	message.WriteString(fmt.Sprintf("Content-Type: multipart/related; boundary=%s\r\n\r\n", writer.Boundary()))

	html, err := writer.CreatePart(textproto.MIMEHeader{"Content-Type": {"text/html; charset=UTF-8"}})
	if err != nil {
		return nil, err
	}
	if _, err := html.Write([]byte(body)); err != nil {
		return nil, err
	}

	for _, attachment := range attachments {
		header := textproto.MIMEHeader{
			"Content-Type":              {attachment.ContentType},
			"Content-Transfer-Encoding": {"base64"},
			"Content-Disposition":       {fmt.Sprintf("inline; filename=%q", attachment.Filename)},
		}
		if attachment.ContentID != "" {
			header.Set("Content-ID", "<"+attachment.ContentID+">")
		}

		part, err := writer.CreatePart(header)
		if err != nil {
			return nil, err
		}
		if _, err := part.Write([]byte(wrap(base64.StdEncoding.EncodeToString(attachment.Data), 76))); err != nil {
			return nil, err
		}
	}

	if err := writer.Close(); err != nil {
		return nil, err
	}
	message.Write(parts.Bytes())
	return message.Bytes(), nil
}

// Split s into CRLF terminated lines of at most n characters
func wrap(s string, n int) string {
	var sb strings.Builder
	for len(s) > n {
		sb.WriteString(s[:n])
		sb.WriteString("\r\n")
		s = s[n:]
	}
	sb.WriteString(s)
	sb.WriteString("\r\n")
	return sb.String()
}
