package ticketing

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"gatepass/db"
	"gatepass/db/dbtest"
	"gatepass/service/credential"
	"gatepass/service/notify"
	"gatepass/service/pricing"

	"github.com/stretchr/testify/require"
)

const schedule = `
timezone: UTC
default_price: "200"
vip:
  price: "1500"
  party_size: 5
ranges:
  - start: "2026-09-01"
    end: "2026-09-30"
    price: "150"
`

// Fixed clock inside the first price range
var testNow = time.Date(2026, 9, 15, 18, 30, 0, 0, time.UTC)

type fakeNotifier struct {
	mu        sync.Mutex
	err       error
	delivered []*credential.Artifact

	// Runs before the delivery outcome is decided
	onDeliver func(ticket *db.Ticket)
}

func (f *fakeNotifier) Deliver(ctx context.Context, ticket *db.Ticket, artifact *credential.Artifact) error {
	if f.onDeliver != nil {
		f.onDeliver(ticket)
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.delivered = append(f.delivered, artifact)
	return nil
}

type fakeArtifacts struct {
	err   error
	names []string
}

func (f *fakeArtifacts) Upload(ctx context.Context, name string, png []byte) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.names = append(f.names, name)
	return "https://cdn.example.com/" + name + ".png", nil
}

type fakeFeed struct {
	mu     sync.Mutex
	events []notify.AdmissionEvent
}

func (f *fakeFeed) PublishAdmission(ctx context.Context, eventKey string, event notify.AdmissionEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, event)
	return nil
}

type fixture struct {
	service   *Service
	queries   *db.Queries
	notifier  *fakeNotifier
	artifacts *fakeArtifacts
	feed      *fakeFeed
}

func newFixture(t *testing.T) *fixture {
	prices, err := pricing.Parse([]byte(schedule))
	require.NoError(t, err)

	f := &fixture{
		queries:   dbtest.NewQueries(t),
		notifier:  &fakeNotifier{},
		artifacts: &fakeArtifacts{},
		feed:      &fakeFeed{},
	}
	f.service = NewService(Dependencies{
		Store:       f.queries,
		Pricing:     prices,
		Issuer:      credential.NewIssuer("https://gate.example.com/verify", nil),
		Notifier:    f.notifier,
		Artifacts:   f.artifacts,
		Feed:        f.feed,
		EventName:   "Gala",
		MaxQuantity: 20,
		Clock:       func() time.Time { return testNow },
	})
	return f
}

func (f *fixture) create(t *testing.T, ticketType db.TicketType, quantity int) *db.Ticket {
	ticket, err := f.service.Create(context.Background(), CreateInput{
		Name:       "Jane Doe",
		Email:      "jane@example.com",
		Phone:      "+84 901 234 567",
		TicketType: ticketType,
		Quantity:   quantity,
	})
	require.NoError(t, err)
	return ticket
}

func (f *fixture) approve(t *testing.T, ticket *db.Ticket) *db.Ticket {
	result, err := f.service.Approve(context.Background(), ticket.ID, "")
	require.NoError(t, err)
	require.True(t, result.Delivered)
	return result.Ticket
}

func (f *fixture) reload(t *testing.T, ticket *db.Ticket) *db.Ticket {
	stored, err := f.queries.GetTicketByID(context.Background(), ticket.ID)
	require.NoError(t, err)
	return stored
}

// Counters must add up on every persisted version
func requireConsistent(t *testing.T, ticket *db.Ticket) {
	t.Helper()
	require.Equal(t, ticket.Quantity, ticket.Remaining+ticket.ScanCount)
	require.GreaterOrEqual(t, ticket.Remaining, 0)
	require.LessOrEqual(t, ticket.Remaining, ticket.Quantity)
	require.Equal(t, ticket.Remaining == 0, ticket.Status == db.CheckedIn)
}

// Store whose conditional writes always lose
type conflictingStore struct {
	*db.Queries
	saves int
}

func (s *conflictingStore) SaveTicket(ctx context.Context, ticket *db.Ticket) error {
	s.saves++
	return db.ErrConflict
}

var errSMTP = errors.New("smtp: 421 service not available")
