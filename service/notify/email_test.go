package notify

import (
	"context"
	"errors"
	"testing"

	"gatepass/db"
	"gatepass/service/credential"
	"gatepass/service/mail"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

type sentEmail struct {
	to, subject, body string
	attachments       []mail.Attachment
}

type fakeMail struct {
	sent []sentEmail
	err  error
}

func (f *fakeMail) SendEmail(to, subject, body string, attachments ...mail.Attachment) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, sentEmail{to, subject, body, attachments})
	return nil
}

func sampleTicket() *db.Ticket {
	return &db.Ticket{
		TicketNumber: 12,
		Name:         "Jane <Doe>",
		Email:        "jane@example.com",
		TicketType:   db.Normal,
		Quantity:     3,
		Price:        decimal.NewFromInt(450),
	}
}

func TestDeliverUploadedCredential(t *testing.T) {
	mailer := &fakeMail{}
	notifier := NewEmailNotifier(mailer, "Gala")

	err := notifier.Deliver(context.Background(), sampleTicket(), &credential.Artifact{
		URL:          "https://res.cloudinary.com/demo/ticket-12.png",
		Uploaded:     true,
		WhatsAppLink: "https://wa.me/84901234567?text=hi",
	})
	require.NoError(t, err)
	require.Len(t, mailer.sent, 1)

	email := mailer.sent[0]
	require.Equal(t, "jane@example.com", email.to)
	require.Equal(t, "Gala - Your ticket #12", email.subject)
	require.Contains(t, email.body, `src="https://res.cloudinary.com/demo/ticket-12.png"`)
	require.Contains(t, email.body, "https://wa.me/84901234567?text=hi")
	require.Contains(t, email.body, "Jane &lt;Doe&gt;")
	require.Contains(t, email.body, "450.00")
	require.Empty(t, email.attachments)
}

func TestDeliverInlineCredential(t *testing.T) {
	mailer := &fakeMail{}
	notifier := NewEmailNotifier(mailer, "Gala")

	png := []byte{0x89, 'P', 'N', 'G'}
	err := notifier.Deliver(context.Background(), sampleTicket(), &credential.Artifact{URL: credential.DataURI(png), PNG: png})
	require.NoError(t, err)

	email := mailer.sent[0]
	require.Contains(t, email.body, `src="cid:credential"`)
	require.NotContains(t, email.body, "wa.me")
	require.Len(t, email.attachments, 1)
	require.Equal(t, png, email.attachments[0].Data)
	require.Equal(t, "credential", email.attachments[0].ContentID)
}

func TestDeliverReportsMailFailure(t *testing.T) {
	smtpErr := errors.New("535 authentication failed")
	notifier := NewEmailNotifier(&fakeMail{err: smtpErr}, "Gala")

	err := notifier.Deliver(context.Background(), sampleTicket(), &credential.Artifact{Uploaded: true, URL: "https://x.test/a.png"})
	require.ErrorIs(t, err, smtpErr)
}

func TestSendReceipt(t *testing.T) {
	mailer := &fakeMail{}
	notifier := NewEmailNotifier(mailer, "Gala")

	require.NoError(t, notifier.SendReceipt(context.Background(), sampleTicket()))
	require.Equal(t, "Gala - Order #12 received", mailer.sent[0].subject)
	require.Contains(t, mailer.sent[0].body, "3 guests")
}
