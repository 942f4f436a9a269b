package ticketing

import (
	"context"
	"sync"
	"testing"

	"gatepass/db"
	"gatepass/service/credential"

	"github.com/stretchr/testify/require"
)

// Party of three arriving in two groups
func TestAdmitPartialThenAutoAdmitLastGuest(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	ticket := f.create(t, db.Normal, 3)
	require.Equal(t, db.Approved, f.approve(t, ticket).Status)

	// No count with three people left: the operator must say how many
	result, err := f.service.Admit(ctx, ticket.Token, 0, "")
	require.NoError(t, err)
	require.Equal(t, OutcomeAwaitingCount, result.Outcome)
	require.Equal(t, 3, result.Remaining)
	require.Equal(t, 3, result.Quantity)
	require.Equal(t, 0, f.reload(t, ticket).ScanCount)

	result, err = f.service.Admit(ctx, ticket.Token, 2, "")
	require.NoError(t, err)
	require.Equal(t, OutcomeAdmitted, result.Outcome)
	require.Equal(t, 2, result.Admitted)
	require.Equal(t, 3, result.PreviousRemaining)
	require.Equal(t, 1, result.Remaining)
	require.Equal(t, 2, result.ScanCount)
	require.Contains(t, result.Message, "Partial entry")

	stored := f.reload(t, ticket)
	require.Equal(t, db.Approved, stored.Status)
	require.Equal(t, 1, stored.Remaining)
	require.Equal(t, 2, stored.ScanCount)
	require.NotNil(t, stored.LastScanAt)
	requireConsistent(t, stored)

	// Only one person can be left, no count needed
	result, err = f.service.Admit(ctx, ticket.Token, -1, "")
	require.NoError(t, err)
	require.Equal(t, OutcomeAdmitted, result.Outcome)
	require.Equal(t, 1, result.Admitted)
	require.Contains(t, result.Message, "Last guest")

	stored = f.reload(t, ticket)
	require.Equal(t, db.CheckedIn, stored.Status)
	require.Equal(t, 0, stored.Remaining)
	require.Equal(t, 3, stored.ScanCount)
	requireConsistent(t, stored)

	// Every later scan is exhausted and changes nothing
	result, err = f.service.Admit(ctx, ticket.Token, 1, "")
	require.NoError(t, err)
	require.Equal(t, OutcomeExhausted, result.Outcome)
	require.NotNil(t, result.LastScanAt)
	require.Contains(t, result.Message, "last scanned at")
	require.Equal(t, stored.Version, f.reload(t, ticket).Version)

	require.Len(t, f.feed.events, 2)
	require.Equal(t, "J*** D**", f.feed.events[0].Name)
	require.Equal(t, 2, f.feed.events[0].Admitted)
	require.Equal(t, string(db.CheckedIn), f.feed.events[1].Status)
}

func TestAdmitClampsToRemaining(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	ticket := f.approve(t, f.create(t, db.Normal, 3))
	_, err := f.service.Admit(ctx, ticket.Token, 1, "")
	require.NoError(t, err)

	result, err := f.service.Admit(ctx, ticket.Token, 10, "")
	require.NoError(t, err)
	require.Equal(t, OutcomeAdmitted, result.Outcome)
	require.Equal(t, 10, result.Requested)
	require.Equal(t, 2, result.Admitted)
	require.Equal(t, 2, result.PreviousRemaining)
	require.Equal(t, 0, result.Remaining)
	require.Contains(t, result.Message, "Only 2 of the 10")

	stored := f.reload(t, ticket)
	require.Equal(t, db.CheckedIn, stored.Status)
	require.Equal(t, 3, stored.ScanCount)
	requireConsistent(t, stored)
}

func TestAdmitWholePartyAtOnce(t *testing.T) {
	f := newFixture(t)

	ticket := f.approve(t, f.create(t, db.VIP, 0))
	result, err := f.service.Admit(context.Background(), ticket.Token, 5, "")
	require.NoError(t, err)
	require.Equal(t, "All 5 guests admitted. Ticket fully used.", result.Message)
	requireConsistent(t, f.reload(t, ticket))
}

func TestAdmitSingleGuestWithoutCount(t *testing.T) {
	f := newFixture(t)

	ticket := f.approve(t, f.create(t, db.Normal, 1))
	result, err := f.service.Admit(context.Background(), ticket.Token, 0, "")
	require.NoError(t, err)
	require.Equal(t, OutcomeAdmitted, result.Outcome)
	require.Equal(t, "Guest admitted. Ticket fully used.", result.Message)
}

func TestAdmitCancelledTicket(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	ticket := f.create(t, db.Normal, 2)
	cancelled, err := f.service.Cancel(ctx, ticket.ID, "")
	require.NoError(t, err)
	require.Equal(t, db.Cancelled, cancelled.Status)

	result, err := f.service.Admit(ctx, ticket.Token, 1, "")
	require.NoError(t, err)
	require.Equal(t, OutcomeCancelled, result.Outcome)

	stored := f.reload(t, ticket)
	require.Equal(t, 2, stored.Remaining)
	require.Equal(t, 0, stored.ScanCount)
	require.Equal(t, cancelled.Version, stored.Version)
}

func TestAdmitPendingTicket(t *testing.T) {
	f := newFixture(t)

	ticket := f.create(t, db.Normal, 1)
	result, err := f.service.Admit(context.Background(), ticket.Token, 1, "")
	require.NoError(t, err)
	require.Equal(t, OutcomeNotApproved, result.Outcome)
	require.Equal(t, 1, f.reload(t, ticket).Remaining)
}

func TestAdmitAcceptsVerifyURL(t *testing.T) {
	f := newFixture(t)

	ticket := f.approve(t, f.create(t, db.Normal, 1))
	payload := credential.NewIssuer("https://gate.example.com/verify", nil).Payload(ticket.Token)

	result, err := f.service.Admit(context.Background(), payload, 1, "")
	require.NoError(t, err)
	require.Equal(t, OutcomeAdmitted, result.Outcome)
}

func TestAdmitNotFound(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	ticket := f.create(t, db.Normal, 1)
	f.approve(t, ticket)

	for _, scan := range []string{"", "garbage!", "AAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA"} {
		result, err := f.service.Admit(ctx, scan, 1, "")
		require.NoError(t, err)
		require.Equal(t, OutcomeNotFound, result.Outcome)
		require.Nil(t, result.Ticket)
	}

	// Scanned at another event's gate
	result, err := f.service.Admit(ctx, ticket.Token, 1, "other-event")
	require.NoError(t, err)
	require.Equal(t, OutcomeNotFound, result.Outcome)
	require.Equal(t, 1, f.reload(t, ticket).Remaining)
}

func TestConcurrentAdmitsOnLastPlace(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	ticket := f.approve(t, f.create(t, db.Normal, 1))

	const scanners = 10
	outcomes := make(chan Outcome, scanners)
	var wg sync.WaitGroup
	for range scanners {
		wg.Add(1)
		go func() {
			defer wg.Done()
			result, err := f.service.Admit(ctx, ticket.Token, 1, "")
			if err != nil {
				outcomes <- Outcome(err.Error())
				return
			}
			outcomes <- result.Outcome
		}()
	}
	wg.Wait()
	close(outcomes)

	counts := map[Outcome]int{}
	for outcome := range outcomes {
		counts[outcome]++
	}
	require.Equal(t, map[Outcome]int{OutcomeAdmitted: 1, OutcomeExhausted: scanners - 1}, counts)

	stored := f.reload(t, ticket)
	require.Equal(t, 0, stored.Remaining)
	require.Equal(t, 1, stored.ScanCount)
	require.Equal(t, db.CheckedIn, stored.Status)
}

func TestConcurrentPartialAdmitsNeverOverAdmit(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	ticket := f.approve(t, f.create(t, db.Normal, 7))

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		admitted int
	)
	for range 6 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			result, err := f.service.Admit(ctx, ticket.Token, 2, "")
			if err != nil {
				return
			}
			mu.Lock()
			admitted += result.Admitted
			mu.Unlock()
		}()
	}
	wg.Wait()

	stored := f.reload(t, ticket)
	require.Equal(t, stored.ScanCount, admitted)
	requireConsistent(t, stored)
}

func TestAdmitGivesUpAfterRepeatedConflicts(t *testing.T) {
	f := newFixture(t)
	ticket := f.approve(t, f.create(t, db.Normal, 2))

	store := &conflictingStore{Queries: f.queries}
	service := NewService(Dependencies{Store: store, MaxAttempts: 3})

	_, err := service.Admit(context.Background(), ticket.Token, 1, "")
	require.ErrorIs(t, err, ErrTransient)
	require.Equal(t, 3, store.saves)
	require.Equal(t, 2, f.reload(t, ticket).Remaining)
}
