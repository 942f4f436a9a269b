package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"gatepass/db"
	"gatepass/service/ticketing"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	tickets map[uuid.UUID]*db.Ticket
}

func (f *fakeStore) GetTicketByID(ctx context.Context, id uuid.UUID) (*db.Ticket, error) {
	ticket, ok := f.tickets[id]
	if !ok {
		return nil, db.ErrTicketNotFound
	}
	return ticket, nil
}

type fakeReceipts struct {
	sent []uint
	err  error
}

func (f *fakeReceipts) SendReceipt(ctx context.Context, ticket *db.Ticket) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, ticket.TicketNumber)
	return nil
}

type fakeResender struct {
	calls []ResendCredentialPayload
	err   error
}

func (f *fakeResender) Resend(ctx context.Context, id uuid.UUID, eventKey string) (*ticketing.ApproveResult, error) {
	f.calls = append(f.calls, ResendCredentialPayload{TicketID: id, EventKey: eventKey})
	if f.err != nil {
		return nil, f.err
	}
	return &ticketing.ApproveResult{Ticket: &db.Ticket{TicketNumber: 9}, Delivered: true}, nil
}

func newTask(t *testing.T, name string, payload any) *asynq.Task {
	data, err := json.Marshal(payload)
	require.NoError(t, err)
	return asynq.NewTask(name, data)
}

func newTestProcessor(tickets ...*db.Ticket) (*RedisTaskProcessor, *fakeReceipts, *fakeResender) {
	store := &fakeStore{tickets: map[uuid.UUID]*db.Ticket{}}
	for _, ticket := range tickets {
		store.tickets[ticket.ID] = ticket
	}
	receipts, resender := &fakeReceipts{}, &fakeResender{}
	return newProcessor(nil, store, receipts, resender), receipts, resender
}

func TestSendPurchaseReceipt(t *testing.T) {
	pending := &db.Ticket{Model: db.Model{ID: uuid.New()}, TicketNumber: 1, Status: db.Pending}
	approved := &db.Ticket{Model: db.Model{ID: uuid.New()}, TicketNumber: 2, Status: db.Approved}
	processor, receipts, _ := newTestProcessor(pending, approved)
	mux := processor.mux()
	ctx := context.Background()

	require.NoError(t, mux.ProcessTask(ctx, newTask(t, SendPurchaseReceipt, SendPurchaseReceiptPayload{TicketID: pending.ID})))
	require.NoError(t, mux.ProcessTask(ctx, newTask(t, SendPurchaseReceipt, SendPurchaseReceiptPayload{TicketID: approved.ID})))
	require.Equal(t, []uint{1}, receipts.sent)

	// Unknown tickets are not retried
	err := mux.ProcessTask(ctx, newTask(t, SendPurchaseReceipt, SendPurchaseReceiptPayload{TicketID: uuid.New()}))
	require.ErrorIs(t, err, asynq.SkipRetry)
	require.ErrorIs(t, err, db.ErrTicketNotFound)

	// Mail failures are
	receipts.err = errors.New("smtp down")
	err = mux.ProcessTask(ctx, newTask(t, SendPurchaseReceipt, SendPurchaseReceiptPayload{TicketID: pending.ID}))
	require.Error(t, err)
	require.NotErrorIs(t, err, asynq.SkipRetry)
}

func TestMalformedPayloadIsNotRetried(t *testing.T) {
	processor, _, _ := newTestProcessor()

	err := processor.mux().ProcessTask(context.Background(), asynq.NewTask(ResendCredential, []byte("{not json")))
	require.ErrorIs(t, err, asynq.SkipRetry)
}

func TestResendCredential(t *testing.T) {
	processor, _, resender := newTestProcessor()
	mux := processor.mux()
	ctx := context.Background()

	payload := ResendCredentialPayload{TicketID: uuid.New(), EventKey: "gala-2026"}
	require.NoError(t, mux.ProcessTask(ctx, newTask(t, ResendCredential, payload)))
	require.Equal(t, []ResendCredentialPayload{payload}, resender.calls)

	resender.err = fmt.Errorf("%w: ticket is cancelled", ticketing.ErrInvalidState)
	err := mux.ProcessTask(ctx, newTask(t, ResendCredential, payload))
	require.ErrorIs(t, err, asynq.SkipRetry)

	resender.err = fmt.Errorf("%w: smtp down", ticketing.ErrDeliveryFailed)
	err = mux.ProcessTask(ctx, newTask(t, ResendCredential, payload))
	require.ErrorIs(t, err, ticketing.ErrDeliveryFailed)
	require.NotErrorIs(t, err, asynq.SkipRetry)
}
