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
	"gatepass/service/pricing"
	"gatepass/util"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrInvalidState = errors.New("invalid ticket state")
	ErrTransient    = errors.New("ticket is busy, try again")
)

const defaultMaxAttempts = 5

// Ticket persistence. Implemented by *db.Queries
type Store interface {
	CreateTicket(ctx context.Context, ticket *db.Ticket) error
	GetTicketByToken(ctx context.Context, token, eventKey string) (*db.Ticket, error)
	GetTicketByID(ctx context.Context, id uuid.UUID) (*db.Ticket, error)
	SaveTicket(ctx context.Context, ticket *db.Ticket) error
	InvalidateTicket(ctx context.Context, token string, version int) error
}

type Pricing interface {
	Quote(ticketType db.TicketType, quantity int, now time.Time) (pricing.Quote, error)
}

type Issuer interface {
	Payload(token string) string
	Render(payload string) ([]byte, error)
}

// Stores rendered credentials and returns a public URL
type ArtifactStore interface {
	Upload(ctx context.Context, name string, png []byte) (string, error)
}

type Notifier interface {
	Deliver(ctx context.Context, ticket *db.Ticket, artifact *credential.Artifact) error
}

type GateFeed interface {
	PublishAdmission(ctx context.Context, eventKey string, event notify.AdmissionEvent) error
}

// Dependencies of the service. Artifacts and Feed are optional
type Dependencies struct {
	Store     Store
	Pricing   Pricing
	Issuer    Issuer
	Notifier  Notifier
	Artifacts ArtifactStore
	Feed      GateFeed

	EventName   string
	MaxQuantity int // Upper bound of people on a normal ticket, 0 means unlimited
	MaxAttempts int // Conditional write attempts before ErrTransient
	Clock       func() time.Time
}

// Service owns every ticket state transition
type Service struct {
	store     Store
	pricing   Pricing
	issuer    Issuer
	notifier  Notifier
	artifacts ArtifactStore
	feed      GateFeed

	eventName   string
	maxQuantity int
	maxAttempts int
	now         func() time.Time
}

func NewService(deps Dependencies) *Service {
	service := &Service{
		store:       deps.Store,
		pricing:     deps.Pricing,
		issuer:      deps.Issuer,
		notifier:    deps.Notifier,
		artifacts:   deps.Artifacts,
		feed:        deps.Feed,
		eventName:   deps.EventName,
		maxQuantity: deps.MaxQuantity,
		maxAttempts: deps.MaxAttempts,
		now:         deps.Clock,
	}

	if service.maxAttempts < 1 {
		service.maxAttempts = defaultMaxAttempts
	}
	if service.now == nil {
		service.now = time.Now
	}
	return service
}

// Get a ticket by ID. A ticket outside the caller's event is reported as not found
func (service *Service) Get(ctx context.Context, id uuid.UUID, eventKey string) (*db.Ticket, error) {
	ticket, err := service.store.GetTicketByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if eventKey != "" && ticket.EventKey != eventKey {
		return nil, db.ErrTicketNotFound
	}
	return ticket, nil
}

// Read, mutate and conditionally save a ticket, re-reading on conflict.
// mutate sees a fresh copy on every attempt and may refuse the transition by returning an error
func (service *Service) update(ctx context.Context, operation string, id uuid.UUID, eventKey string, mutate func(*db.Ticket) error) (*db.Ticket, error) {
	for range service.maxAttempts {
		ticket, err := service.Get(ctx, id, eventKey)
		if err != nil {
			return nil, err
		}

		if err := mutate(ticket); err != nil {
			return ticket, err
		}

		err = service.store.SaveTicket(ctx, ticket)
		if err == nil {
			service.invalidate(ctx, ticket)
			return ticket, nil
		}
		if !errors.Is(err, db.ErrConflict) {
			return nil, err
		}
		monitoring.TrackConflict(operation)
	}

	return nil, fmt.Errorf("%w: %s of ticket %s kept conflicting after %d attempts", ErrTransient, operation, id, service.maxAttempts)
}

// Drop the cached public status. A failure only delays the status page, it must not fail the transition
func (service *Service) invalidate(ctx context.Context, ticket *db.Ticket) {
	if err := service.store.InvalidateTicket(ctx, ticket.Token, ticket.Version); err != nil {
		util.LOGGER.Warn("failed to invalidate ticket status cache", "ticket_number", ticket.TicketNumber, "error", err)
	}
}
