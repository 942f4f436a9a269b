package api

import (
	"net/http"
	"testing"

	"gatepass/db"
	"gatepass/service/ticketing"

	"github.com/stretchr/testify/require"
)

func count(n int) *int {
	return &n
}

// Create and approve a ticket through the API
func (ts *testServer) approvedTicket(t *testing.T, token string, quantity int) *db.Ticket {
	t.Helper()

	ticket := ts.createTicket(t, "normal", quantity)
	recorder := ts.do(t, http.MethodPost, "/api/admin/tickets/"+ticket.ID.String()+"/approve", token, nil)
	require.Equal(t, http.StatusOK, recorder.Code)
	return ticket
}

func TestVerifyPage(t *testing.T) {
	ts := newTestServer(t)
	ticket := ts.createTicket(t, "normal", 1)

	recorder := ts.do(t, http.MethodGet, "/verify?token="+ticket.Token, "", nil)
	require.Equal(t, http.StatusOK, recorder.Code)
	require.Equal(t, verifyNotice, recorder.Body.String())
	require.Contains(t, recorder.Header().Get("Content-Type"), "text/plain")
}

func TestVerifyAnonymous(t *testing.T) {
	ts := newTestServer(t)
	token := ts.login(t, "gate-1", "").AccessToken
	ticket := ts.approvedTicket(t, token, 2)

	for _, accessToken := range []string{"", "not-a-jwt"} {
		recorder := ts.do(t, http.MethodPost, "/api/admin/verify", accessToken, VerifyRequest{Token: ticket.Token, Count: count(1)})
		require.Equal(t, http.StatusOK, recorder.Code)
		require.Equal(t, verifyNotice, recorder.Body.String())
	}

	// Nothing was admitted
	recorder := ts.do(t, http.MethodGet, "/api/admin/tickets/"+ticket.ID.String(), token, nil)
	require.Equal(t, 2, decode[db.Ticket](t, recorder).Remaining)
}

func TestVerifyPartialEntries(t *testing.T) {
	ts := newTestServer(t)
	token := ts.login(t, "gate-1", "").AccessToken
	ticket := ts.approvedTicket(t, token, 3)

	verify := func(req VerifyRequest) ticketing.AdmitResult {
		recorder := ts.do(t, http.MethodPost, "/api/admin/verify", token, req)
		require.Equal(t, http.StatusOK, recorder.Code)
		return decode[ticketing.AdmitResult](t, recorder)
	}

	// No count with several guests left
	result := verify(VerifyRequest{Token: ticket.Token})
	require.Equal(t, ticketing.OutcomeAwaitingCount, result.Outcome)
	require.Equal(t, 3, result.Remaining)

	result = verify(VerifyRequest{Token: ticket.Token, Count: count(2)})
	require.Equal(t, ticketing.OutcomeAdmitted, result.Outcome)
	require.Equal(t, 2, result.Admitted)
	require.Equal(t, 1, result.Remaining)

	// The scanned QR content works as well as the raw token, and the last guest needs no count
	result = verify(VerifyRequest{Token: "https://gate.example.com/verify?token=" + ticket.Token})
	require.Equal(t, ticketing.OutcomeAdmitted, result.Outcome)
	require.Equal(t, 1, result.Admitted)
	require.Equal(t, 0, result.Remaining)
	require.Equal(t, db.CheckedIn, result.Ticket.Status)

	result = verify(VerifyRequest{Token: ticket.Token, Count: count(1)})
	require.Equal(t, ticketing.OutcomeExhausted, result.Outcome)
	require.Equal(t, 0, result.Admitted)

	result = verify(VerifyRequest{Token: "no-such-ticket-token-at-all"})
	require.Equal(t, ticketing.OutcomeNotFound, result.Outcome)
}

func TestVerifyGuards(t *testing.T) {
	ts := newTestServer(t)
	token := ts.login(t, "gate-1", "").AccessToken

	pending := ts.createTicket(t, "normal", 2)
	recorder := ts.do(t, http.MethodPost, "/api/admin/verify", token, VerifyRequest{Token: pending.Token, Count: count(1)})
	require.Equal(t, http.StatusOK, recorder.Code)
	require.Equal(t, ticketing.OutcomeNotApproved, decode[ticketing.AdmitResult](t, recorder).Outcome)

	cancelled := ts.approvedTicket(t, token, 2)
	recorder = ts.do(t, http.MethodPost, "/api/admin/tickets/"+cancelled.ID.String()+"/cancel", token, nil)
	require.Equal(t, http.StatusOK, recorder.Code)

	recorder = ts.do(t, http.MethodPost, "/api/admin/verify", token, VerifyRequest{Token: cancelled.Token, Count: count(1)})
	require.Equal(t, http.StatusOK, recorder.Code)
	require.Equal(t, ticketing.OutcomeCancelled, decode[ticketing.AdmitResult](t, recorder).Outcome)

	recorder = ts.do(t, http.MethodPost, "/api/admin/verify", token, map[string]int{"count": 1})
	require.Equal(t, http.StatusBadRequest, recorder.Code)
}

func TestVerifyOutsideOperatorEvent(t *testing.T) {
	ts := newTestServer(t)
	token := ts.login(t, "gate-1", "").AccessToken
	other := ts.login(t, "gate-other", "other-event").AccessToken
	ticket := ts.approvedTicket(t, token, 2)

	recorder := ts.do(t, http.MethodPost, "/api/admin/verify", other, VerifyRequest{Token: ticket.Token, Count: count(1)})
	require.Equal(t, http.StatusOK, recorder.Code)
	result := decode[ticketing.AdmitResult](t, recorder)
	require.Equal(t, ticketing.OutcomeNotFound, result.Outcome)
	require.Nil(t, result.Ticket)
}
