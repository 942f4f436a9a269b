package api

import (
	"net/http"
	"strconv"

	"gatepass/db"
	"gatepass/service/worker"
	"gatepass/util"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ListTicketsResponse struct {
	Tickets  []db.Ticket `json:"tickets"`
	Total    int64       `json:"total"`
	Page     int         `json:"page"`
	PageSize int         `json:"page_size"`
}

type StatsResponse struct {
	EventKey string           `json:"event_key"`
	Stats    []db.StatusStats `json:"stats"`
}

// Event scope of the calling operator, empty for unscoped operators
func scope(ctx *gin.Context) string {
	if claims := getClaims(ctx); claims != nil {
		return claims.EventKey
	}
	return ""
}

// Parse the :id path parameter, answering 404 when it is not a UUID
func parseTicketID(ctx *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusNotFound, ErrorResponse{"Ticket not found"})
		return uuid.Nil, false
	}
	return id, true
}

// ListTickets godoc
// @Summary      List tickets
// @Description  Lists tickets of the operator's event, newest first. q matches name, email, phone or ticket number (#12).
// @Tags         Admin
// @Produce      json
// @Param        status     query     string  false  "pending | approved | cancelled | checkedin"
// @Param        type       query     string  false  "normal | vip"
// @Param        q          query     string  false  "Free text search"
// @Param        page       query     int     false  "Page, starting at 1"
// @Param        page_size  query     int     false  "Page size (default: 20, max: 100)"
// @Success      200  {object}  ListTicketsResponse  "Tickets"
// @Failure      400  {object}  ErrorResponse        "Invalid status | Invalid ticket type"
// @Failure      401  {object}  ErrorResponse        "Unauthorized access"
// @Failure      500  {object}  ErrorResponse        "Internal server error"
// @Security BearerAuth
// @Router       /api/admin/tickets [get]
func (server *Server) ListTickets(ctx *gin.Context) {
	filter := db.TicketFilter{EventKey: scope(ctx), Search: ctx.Query("q")}

	if status := ctx.Query("status"); status != "" {
		parsed, err := db.ParseTicketStatus(status)
		if err != nil {
			ctx.JSON(http.StatusBadRequest, ErrorResponse{"Invalid status"})
			return
		}
		filter.Status = parsed
	}

	if ticketType := ctx.Query("type"); ticketType != "" {
		parsed, err := db.ParseTicketType(ticketType)
		if err != nil {
			ctx.JSON(http.StatusBadRequest, ErrorResponse{"Invalid ticket type"})
			return
		}
		filter.Type = parsed
	}

	filter.Page, _ = strconv.Atoi(ctx.Query("page"))
	filter.PageSize, _ = strconv.Atoi(ctx.Query("page_size"))

	tickets, total, err := server.queries.ListTickets(ctx, filter)
	if err != nil {
		util.LOGGER.Error("GET /api/admin/tickets: failed to list tickets", "error", err)
		ctx.JSON(http.StatusInternalServerError, ErrorResponse{"Internal server error"})
		return
	}

	limit, offset := db.GetLimitAndOffset(filter.Page, filter.PageSize)
	ctx.JSON(http.StatusOK, ListTicketsResponse{
		Tickets:  tickets,
		Total:    total,
		Page:     offset/limit + 1,
		PageSize: limit,
	})
}

// GetTicket godoc
// @Summary      Ticket detail
// @Tags         Admin
// @Produce      json
// @Param        id   path      string  true  "Ticket ID"
// @Success      200  {object}  db.Ticket      "Ticket"
// @Failure      401  {object}  ErrorResponse  "Unauthorized access"
// @Failure      404  {object}  ErrorResponse  "Ticket not found"
// @Failure      500  {object}  ErrorResponse  "Internal server error"
// @Security BearerAuth
// @Router       /api/admin/tickets/{id} [get]
func (server *Server) GetTicket(ctx *gin.Context) {
	id, ok := parseTicketID(ctx)
	if !ok {
		return
	}

	ticket, err := server.tickets.Get(ctx, id, scope(ctx))
	if err != nil {
		server.ticketError(ctx, "GET /api/admin/tickets/{id}", err)
		return
	}

	ctx.JSON(http.StatusOK, ticket)
}

// ApproveTicket godoc
// @Summary      Approve a ticket
// @Description  Approves a pending ticket and delivers its credential by email.
// @Description  When delivery fails the ticket is put back to pending and 502 is returned with the reason.
// @Tags         Admin
// @Produce      json
// @Param        id   path      string  true  "Ticket ID"
// @Success      200  {object}  ticketing.ApproveResult  "Approved and delivered"
// @Failure      401  {object}  ErrorResponse            "Unauthorized access"
// @Failure      404  {object}  ErrorResponse            "Ticket not found"
// @Failure      409  {object}  ErrorResponse            "Ticket is not pending"
// @Failure      502  {object}  ticketing.ApproveResult  "Delivery failed, ticket reverted to pending"
// @Failure      503  {object}  ErrorResponse            "Ticket is busy, please retry"
// @Security BearerAuth
// @Router       /api/admin/tickets/{id}/approve [post]
func (server *Server) ApproveTicket(ctx *gin.Context) {
	id, ok := parseTicketID(ctx)
	if !ok {
		return
	}

	result, err := server.tickets.Approve(ctx, id, scope(ctx))
	if err != nil {
		server.ticketError(ctx, "POST /api/admin/tickets/{id}/approve", err)
		return
	}

	if !result.Delivered {
		util.LOGGER.Warn("POST /api/admin/tickets/{id}/approve: delivery failed", "ticket_number", result.Ticket.TicketNumber, "error", result.DeliveryError)
		ctx.JSON(http.StatusBadGateway, result)
		return
	}

	ctx.JSON(http.StatusOK, result)
}

// CancelTicket godoc
// @Summary      Cancel a ticket
// @Tags         Admin
// @Produce      json
// @Param        id   path      string  true  "Ticket ID"
// @Success      200  {object}  db.Ticket      "Cancelled ticket"
// @Failure      401  {object}  ErrorResponse  "Unauthorized access"
// @Failure      404  {object}  ErrorResponse  "Ticket not found"
// @Failure      409  {object}  ErrorResponse  "Ticket already cancelled or checked in"
// @Failure      503  {object}  ErrorResponse  "Ticket is busy, please retry"
// @Security BearerAuth
// @Router       /api/admin/tickets/{id}/cancel [post]
func (server *Server) CancelTicket(ctx *gin.Context) {
	id, ok := parseTicketID(ctx)
	if !ok {
		return
	}

	ticket, err := server.tickets.Cancel(ctx, id, scope(ctx))
	if err != nil {
		server.ticketError(ctx, "POST /api/admin/tickets/{id}/cancel", err)
		return
	}

	ctx.JSON(http.StatusOK, ticket)
}

// ResendTicket godoc
// @Summary      Resend a credential
// @Description  Queues a new delivery of the credential of an approved ticket.
// @Tags         Admin
// @Produce      json
// @Param        id   path      string  true  "Ticket ID"
// @Success      202  {object}  SuccessMessage  "Resend queued"
// @Failure      401  {object}  ErrorResponse   "Unauthorized access"
// @Failure      404  {object}  ErrorResponse   "Ticket not found"
// @Failure      409  {object}  ErrorResponse   "Ticket is not approved"
// @Failure      500  {object}  ErrorResponse   "Internal server error"
// @Security BearerAuth
// @Router       /api/admin/tickets/{id}/resend [post]
func (server *Server) ResendTicket(ctx *gin.Context) {
	id, ok := parseTicketID(ctx)
	if !ok {
		return
	}

	eventKey := scope(ctx)
	ticket, err := server.tickets.Get(ctx, id, eventKey)
	if err != nil {
		server.ticketError(ctx, "POST /api/admin/tickets/{id}/resend", err)
		return
	}
	if ticket.Status != db.Approved {
		ctx.JSON(http.StatusConflict, ErrorResponse{"Only approved tickets can be resent"})
		return
	}

	err = server.distributor.DistributeResendCredential(ctx, worker.ResendCredentialPayload{TicketID: ticket.ID, EventKey: eventKey})
	if err != nil {
		util.LOGGER.Error("POST /api/admin/tickets/{id}/resend: failed to distribute task", "task", worker.ResendCredential, "error", err)
		ctx.JSON(http.StatusInternalServerError, ErrorResponse{"Internal server error"})
		return
	}

	ctx.JSON(http.StatusAccepted, SuccessMessage{"Resend queued"})
}

// Stats godoc
// @Summary      Ticket statistics
// @Description  Tickets, people and admitted guests per status for the operator's event.
// @Tags         Admin
// @Produce      json
// @Success      200  {object}  StatsResponse  "Statistics"
// @Failure      401  {object}  ErrorResponse  "Unauthorized access"
// @Failure      500  {object}  ErrorResponse  "Internal server error"
// @Security BearerAuth
// @Router       /api/admin/stats [get]
func (server *Server) Stats(ctx *gin.Context) {
	eventKey := scope(ctx)
	stats, err := server.queries.TicketStats(ctx, eventKey)
	if err != nil {
		util.LOGGER.Error("GET /api/admin/stats: failed to compute stats", "error", err)
		ctx.JSON(http.StatusInternalServerError, ErrorResponse{"Internal server error"})
		return
	}

	ctx.JSON(http.StatusOK, StatsResponse{EventKey: eventKey, Stats: stats})
}
