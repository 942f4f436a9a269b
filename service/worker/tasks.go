package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"gatepass/db"
	"gatepass/service/ticketing"
	"gatepass/util"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
)

// Email the buyer that the order was received and is waiting for review
const SendPurchaseReceipt = "send-purchase-receipt"

type SendPurchaseReceiptPayload struct {
	TicketID uuid.UUID `json:"ticket_id"`
}

// Render and deliver the credential of an approved ticket again
const ResendCredential = "resend-credential"

type ResendCredentialPayload struct {
	TicketID uuid.UUID `json:"ticket_id"`
	EventKey string    `json:"event_key"`
}

func decode(task *asynq.Task, payload any) error {
	if err := json.Unmarshal(task.Payload(), payload); err != nil {
		return fmt.Errorf("invalid payload for %s: %w: %w", task.Type(), err, asynq.SkipRetry)
	}
	return nil
}

func (processor *RedisTaskProcessor) SendPurchaseReceipt(ctx context.Context, task *asynq.Task) error {
	var payload SendPurchaseReceiptPayload
	if err := decode(task, &payload); err != nil {
		return err
	}

	ticket, err := processor.store.GetTicketByID(ctx, payload.TicketID)
	if errors.Is(err, db.ErrTicketNotFound) {
		return fmt.Errorf("ticket %s: %w: %w", payload.TicketID, err, asynq.SkipRetry)
	}
	if err != nil {
		return err
	}

	// Nothing to acknowledge anymore
	if ticket.Status != db.Pending {
		util.LOGGER.Info("background log: skip receipt, ticket already reviewed", "ticket_number", ticket.TicketNumber, "status", ticket.Status)
		return nil
	}

	if err := processor.receipts.SendReceipt(ctx, ticket); err != nil {
		return err
	}

	util.LOGGER.Info("background log: purchase receipt sent", "ticket_number", ticket.TicketNumber)
	return nil
}

func (processor *RedisTaskProcessor) ResendCredential(ctx context.Context, task *asynq.Task) error {
	var payload ResendCredentialPayload
	if err := decode(task, &payload); err != nil {
		return err
	}

	result, err := processor.resender.Resend(ctx, payload.TicketID, payload.EventKey)
	if errors.Is(err, db.ErrTicketNotFound) || errors.Is(err, ticketing.ErrInvalidState) {
		// Cancelled or already used since the resend was requested
		return fmt.Errorf("ticket %s: %w: %w", payload.TicketID, err, asynq.SkipRetry)
	}
	if err != nil {
		return err
	}

	util.LOGGER.Info("background log: credential resent", "ticket_number", result.Ticket.TicketNumber)
	return nil
}
