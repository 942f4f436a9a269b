package ticketing

import (
	"context"
	"errors"
	"fmt"

	"gatepass/db"
	"gatepass/service/credential"
	"gatepass/service/monitoring"
	"gatepass/service/notify"
	"gatepass/util"

	"github.com/google/uuid"
)

var ErrDeliveryFailed = errors.New("credential delivery failed")

// Answer to an approval or resend. When Delivered is false the ticket has been put back to pending
// and DeliveryError holds the reason
type ApproveResult struct {
	Ticket        *db.Ticket `json:"ticket"`
	Delivered     bool       `json:"delivered"`
	DeliveryError string     `json:"error,omitempty"`
	CredentialURL string     `json:"credential_url,omitempty"`
	WhatsAppLink  string     `json:"whatsapp_link,omitempty"`
}

// Approve a pending ticket and deliver its credential.
// The ticket is approved only once delivery succeeded; on failure it is rolled back to pending
func (service *Service) Approve(ctx context.Context, id uuid.UUID, eventKey string) (*ApproveResult, error) {
	// Claim the ticket first: of two concurrent approvals only one gets past this point
	ticket, err := service.update(ctx, "approve", id, eventKey, func(ticket *db.Ticket) error {
		if ticket.Status != db.Pending {
			return fmt.Errorf("%w: ticket is %s", ErrInvalidState, ticket.Status)
		}
		ticket.Status = db.Approved
		return nil
	})
	if err != nil {
		monitoring.TrackApproval("rejected")
		return nil, err
	}

	artifact, err := service.issue(ctx, ticket)
	if err == nil {
		err = service.notifier.Deliver(ctx, ticket, artifact)
	}

	if err != nil {
		util.LOGGER.Warn("credential delivery failed, reverting approval", "ticket_number", ticket.TicketNumber, "error", err)
		reverted, rollbackErr := service.rollback(ctx, ticket)
		if rollbackErr != nil {
			util.LOGGER.Error("failed to revert approval", "ticket_number", ticket.TicketNumber, "error", rollbackErr)
			monitoring.TrackApproval("error")
			return nil, fmt.Errorf("%w: %w (revert failed: %w)", ErrDeliveryFailed, err, rollbackErr)
		}

		monitoring.TrackApproval("delivery_failed")
		return &ApproveResult{Ticket: reverted, Delivered: false, DeliveryError: err.Error()}, nil
	}

	delivered, err := service.markDelivered(ctx, "approve", ticket, artifact)
	if err != nil {
		monitoring.TrackApproval("error")
		return nil, err
	}

	monitoring.TrackApproval("delivered")
	return &ApproveResult{
		Ticket:        delivered,
		Delivered:     true,
		CredentialURL: artifact.URL,
		WhatsAppLink:  artifact.WhatsAppLink,
	}, nil
}

// Put a provisionally approved ticket back to pending and clear every delivery flag
func (service *Service) rollback(ctx context.Context, ticket *db.Ticket) (*db.Ticket, error) {
	return service.update(ctx, "rollback", ticket.ID, "", func(ticket *db.Ticket) error {
		// A cancel that slipped in during delivery wins
		if ticket.Status == db.Approved {
			ticket.Status = db.Pending
		}
		ticket.EmailSent = false
		ticket.SentAt = nil
		ticket.WhatsappLinkGenerated = false
		return nil
	})
}

func (service *Service) markDelivered(ctx context.Context, operation string, ticket *db.Ticket, artifact *credential.Artifact) (*db.Ticket, error) {
	return service.update(ctx, operation, ticket.ID, "", func(ticket *db.Ticket) error {
		now := service.now()
		ticket.EmailSent = true
		ticket.SentAt = &now
		ticket.WhatsappLinkGenerated = artifact.WhatsAppLink != ""
		if artifact.Uploaded {
			ticket.CredentialURL = artifact.URL
		}
		return nil
	})
}

// Cancel a pending or approved ticket
func (service *Service) Cancel(ctx context.Context, id uuid.UUID, eventKey string) (*db.Ticket, error) {
	return service.update(ctx, "cancel", id, eventKey, func(ticket *db.Ticket) error {
		if ticket.Status != db.Pending && ticket.Status != db.Approved {
			return fmt.Errorf("%w: ticket is %s", ErrInvalidState, ticket.Status)
		}
		ticket.Status = db.Cancelled
		return nil
	})
}

// Deliver the credential of an approved ticket again. The status is left untouched;
// a delivery failure is returned as ErrDeliveryFailed so the caller may retry
func (service *Service) Resend(ctx context.Context, id uuid.UUID, eventKey string) (*ApproveResult, error) {
	ticket, err := service.Get(ctx, id, eventKey)
	if err != nil {
		return nil, err
	}
	if ticket.Status != db.Approved {
		return nil, fmt.Errorf("%w: ticket is %s", ErrInvalidState, ticket.Status)
	}

	artifact, err := service.issue(ctx, ticket)
	if err == nil {
		err = service.notifier.Deliver(ctx, ticket, artifact)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDeliveryFailed, err)
	}

	delivered, err := service.markDelivered(ctx, "resend", ticket, artifact)
	if err != nil {
		return nil, err
	}
	return &ApproveResult{Ticket: delivered, Delivered: true, CredentialURL: artifact.URL, WhatsAppLink: artifact.WhatsAppLink}, nil
}

// Render and store the credential of a ticket. A failed upload falls back to an inline data URI
func (service *Service) issue(ctx context.Context, ticket *db.Ticket) (*credential.Artifact, error) {
	payload := service.issuer.Payload(ticket.Token)
	png, err := service.issuer.Render(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to render credential: %w", err)
	}

	artifact := &credential.Artifact{Payload: payload, PNG: png}

	if service.artifacts != nil {
		url, err := service.artifacts.Upload(ctx, credential.ArtifactName(ticket.TicketNumber, ticket.Name, ticket.Token), png)
		if err == nil {
			artifact.URL, artifact.Uploaded = url, true
		} else {
			util.LOGGER.Warn("failed to upload credential, using inline image", "ticket_number", ticket.TicketNumber, "error", err)
		}
	}
	if !artifact.Uploaded {
		artifact.URL = credential.DataURI(png)
	}

	// Data URIs do not fit in a chat message, share the QR content instead
	link := payload
	if artifact.Uploaded {
		link = artifact.URL
	}
	if whatsapp, ok := notify.WhatsAppLink(ticket.Phone, notify.CredentialMessage(service.eventName, ticket, link)); ok {
		artifact.WhatsAppLink = whatsapp
	}

	return artifact, nil
}
