package ticketing

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gatepass/db"
	"gatepass/service/credential"
	"gatepass/service/monitoring"
	"gatepass/service/notify"
	"gatepass/util"
)

// Result kind of a scan. Only OutcomeAdmitted changes the ticket
type Outcome string

const (
	OutcomeAdmitted      Outcome = "admitted"
	OutcomeAwaitingCount Outcome = "awaiting_count"
	OutcomeExhausted     Outcome = "exhausted"
	OutcomeCancelled     Outcome = "cancelled"
	OutcomeNotApproved   Outcome = "not_approved"
	OutcomeNotFound      Outcome = "not_found"
)

// Answer to a scan
type AdmitResult struct {
	Outcome           Outcome    `json:"outcome"`
	Message           string     `json:"message"`
	Requested         int        `json:"requested"`
	Admitted          int        `json:"admitted"`
	PreviousRemaining int        `json:"previous_remaining"`
	Remaining         int        `json:"remaining"`
	ScanCount         int        `json:"scan_count"`
	Quantity          int        `json:"quantity"`
	LastScanAt        *time.Time `json:"last_scan_at,omitempty"`
	Ticket            *db.Ticket `json:"ticket,omitempty"`
}

// Admit up to count people on the ticket behind a scan. count <= 0 means the operator gave no count.
// Guard failures are reported through the outcome; an error is only returned for infrastructure failures,
// or ErrTransient when concurrent scans kept winning the write
func (service *Service) Admit(ctx context.Context, scan string, count int, eventKey string) (*AdmitResult, error) {
	start := time.Now()
	result, err := service.admit(ctx, scan, count, eventKey)
	if err != nil {
		return nil, err
	}

	monitoring.TrackAdmission(eventKey, string(result.Outcome), result.Admitted, time.Since(start))
	return result, nil
}

func (service *Service) admit(ctx context.Context, scan string, count int, eventKey string) (*AdmitResult, error) {
	token, err := credential.ExtractToken(scan)
	if err != nil {
		return notFound(), nil
	}

	for range service.maxAttempts {
		ticket, err := service.store.GetTicketByToken(ctx, token, eventKey)
		if errors.Is(err, db.ErrTicketNotFound) {
			return notFound(), nil
		}
		if err != nil {
			return nil, err
		}

		result := evaluate(ticket, count, service.now())
		if result.Outcome != OutcomeAdmitted {
			return result, nil
		}

		err = service.store.SaveTicket(ctx, ticket)
		if err == nil {
			service.invalidate(ctx, ticket)
			service.publish(ctx, ticket, result)
			return result, nil
		}
		if !errors.Is(err, db.ErrConflict) {
			return nil, err
		}

		// Somebody scanned the same ticket in between; start over from the stored state
		monitoring.TrackConflict("admit")
	}

	return nil, fmt.Errorf("%w: admission kept conflicting after %d attempts", ErrTransient, service.maxAttempts)
}

// Apply the admission rules to a freshly read ticket. On OutcomeAdmitted the ticket has been mutated
// and must be saved
func evaluate(ticket *db.Ticket, count int, now time.Time) *AdmitResult {
	result := &AdmitResult{
		Requested:         max(count, 0),
		PreviousRemaining: ticket.Remaining,
		Remaining:         ticket.Remaining,
		ScanCount:         ticket.ScanCount,
		Quantity:          ticket.Quantity,
		LastScanAt:        ticket.LastScanAt,
		Ticket:            ticket,
	}

	switch {
	case ticket.Status == db.Cancelled:
		result.Outcome = OutcomeCancelled
		result.Message = "Ticket has been cancelled. Do not admit."
		return result

	case ticket.Remaining <= 0:
		result.Outcome = OutcomeExhausted
		result.Message = "Ticket already fully used."
		if ticket.LastScanAt != nil {
			result.Message = fmt.Sprintf("Ticket already fully used, last scanned at %s.", ticket.LastScanAt.Format(time.RFC3339))
		}
		return result

	// Approved but not yet delivered is still a provisional claim, and may be rolled back
	case ticket.Status != db.Approved || !ticket.EmailSent:
		result.Outcome = OutcomeNotApproved
		result.Message = "Ticket has not been approved yet. Do not admit."
		return result
	}

	n := count
	if n <= 0 {
		if ticket.Remaining != 1 {
			result.Outcome = OutcomeAwaitingCount
			result.Message = fmt.Sprintf("This ticket still admits %d of %d %s. How many are entering?",
				ticket.Remaining, ticket.Quantity, guests(ticket.Quantity))
			return result
		}
		n = 1
	}
	n = min(n, ticket.Remaining)

	ticket.Remaining -= n
	ticket.ScanCount += n
	ticket.LastScanAt = &now
	if ticket.Remaining == 0 {
		ticket.Status = db.CheckedIn
	}

	result.Outcome = OutcomeAdmitted
	result.Admitted = n
	result.Remaining = ticket.Remaining
	result.ScanCount = ticket.ScanCount
	result.LastScanAt = ticket.LastScanAt
	result.Message = admittedMessage(count, n, result.PreviousRemaining, ticket.Remaining, ticket.Quantity)
	return result
}

func admittedMessage(requested, admitted, previous, remaining, quantity int) string {
	switch {
	case requested > admitted:
		return fmt.Sprintf("Only %d of the %d requested %s can enter: that was everything left on this ticket. Ticket fully used.",
			admitted, requested, guests(requested))
	case remaining == 0 && admitted == quantity:
		if quantity == 1 {
			return "Guest admitted. Ticket fully used."
		}
		return fmt.Sprintf("All %d guests admitted. Ticket fully used.", admitted)
	case remaining == 0 && admitted == 1:
		return fmt.Sprintf("Last guest admitted (%d of %d). Ticket fully used.", quantity, quantity)
	case remaining == 0:
		return fmt.Sprintf("Remaining %d of %d guests admitted. Ticket fully used.", admitted, quantity)
	default:
		return fmt.Sprintf("Partial entry: %d of %d remaining %s admitted, %d still to come.",
			admitted, previous, guests(previous), remaining)
	}
}

func notFound() *AdmitResult {
	return &AdmitResult{Outcome: OutcomeNotFound, Message: "Ticket not found."}
}

func guests(n int) string {
	if n == 1 {
		return "guest"
	}
	return "guests"
}

// Tell gate screens about the admission. Best effort, the admission already happened
func (service *Service) publish(ctx context.Context, ticket *db.Ticket, result *AdmitResult) {
	if service.feed == nil {
		return
	}

	event := notify.AdmissionEvent{
		TicketNumber: ticket.TicketNumber,
		Name:         util.MaskName(ticket.Name),
		TicketType:   string(ticket.TicketType),
		Admitted:     result.Admitted,
		Remaining:    ticket.Remaining,
		Quantity:     ticket.Quantity,
		Status:       string(ticket.Status),
		ScannedAt:    *ticket.LastScanAt,
	}
	if err := service.feed.PublishAdmission(ctx, ticket.EventKey, event); err != nil {
		util.LOGGER.Warn("failed to publish admission", "ticket_number", ticket.TicketNumber, "error", err)
	}
}
