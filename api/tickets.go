package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"gatepass/db"
	"gatepass/service/ticketing"
	"gatepass/service/worker"
	"gatepass/util"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type CreateTicketRequest struct {
	Name       string `json:"name" binding:"required"`
	Email      string `json:"email" binding:"required,email"`
	Phone      string `json:"phone" binding:"required"`
	TicketType string `json:"ticket_type" binding:"required"`
	Quantity   int    `json:"quantity"`
}

// Token-free view of a new ticket
type CreateTicketResponse struct {
	ID           uuid.UUID       `json:"id"`
	TicketNumber uint            `json:"ticket_number"`
	TicketType   db.TicketType   `json:"ticket_type"`
	Quantity     int             `json:"quantity"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
	Price        decimal.Decimal `json:"price"`
	Status       db.TicketStatus `json:"status"`
	CreatedAt    time.Time       `json:"created_at"`
}

// CreateTicket godoc
// @Summary      Request a ticket
// @Description  Creates a pending ticket priced at today's rate. VIP tickets ignore quantity and use the fixed party size.
// @Description  A receipt email is sent in the background; the credential follows once an operator approves the ticket.
// @Tags         Tickets
// @Accept       json
// @Produce      json
// @Param        request body CreateTicketRequest true "Buyer and ticket information"
// @Success      201 {object} CreateTicketResponse "Ticket created"
// @Failure      400 {object} ErrorResponse "Invalid request body | Invalid ticket type | Invalid quantity"
// @Failure      500 {object} ErrorResponse "Internal server error"
// @Router       /api/tickets [post]
func (server *Server) CreateTicket(ctx *gin.Context) {
	var req CreateTicketRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.LOGGER.Warn("POST /api/tickets: failed to bind request body", "error", err)
		ctx.JSON(http.StatusBadRequest, ErrorResponse{"Invalid request body"})
		return
	}

	ticketType, err := db.ParseTicketType(req.TicketType)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, ErrorResponse{"Invalid ticket type"})
		return
	}

	ticket, err := server.tickets.Create(ctx, ticketing.CreateInput{
		Name:       req.Name,
		Email:      req.Email,
		Phone:      req.Phone,
		TicketType: ticketType,
		Quantity:   req.Quantity,
		EventKey:   server.config.EventKey,
	})
	if err != nil {
		server.ticketError(ctx, "POST /api/tickets", err)
		return
	}

	// The ticket exists even if the receipt cannot be queued
	err = server.distributor.DistributeSendPurchaseReceipt(ctx, worker.SendPurchaseReceiptPayload{TicketID: ticket.ID})
	if err != nil {
		util.LOGGER.Error("POST /api/tickets: failed to distribute task", "task", worker.SendPurchaseReceipt, "error", err)
	}

	ctx.JSON(http.StatusCreated, CreateTicketResponse{
		ID:           ticket.ID,
		TicketNumber: ticket.TicketNumber,
		TicketType:   ticket.TicketType,
		Quantity:     ticket.Quantity,
		UnitPrice:    ticket.UnitPrice,
		Price:        ticket.Price,
		Status:       ticket.Status,
		CreatedAt:    ticket.DateCreated,
	})
}

// What anyone holding the token may see. No contact data
type TicketStatusResponse struct {
	TicketNumber uint            `json:"ticket_number"`
	Name         string          `json:"name"`
	TicketType   db.TicketType   `json:"ticket_type"`
	Quantity     int             `json:"quantity"`
	Remaining    int             `json:"remaining"`
	Status       db.TicketStatus `json:"status"`
	EventName    string          `json:"event_name"`
}

// GetTicketStatus godoc
// @Summary      Public ticket status
// @Description  Returns the masked status of a ticket by its token. Buyer name is masked and contact data is never returned.
// @Tags         Tickets
// @Produce      json
// @Param        token  path      string  true  "Ticket token"
// @Success      200  {object}  TicketStatusResponse  "Ticket status"
// @Failure      404  {object}  ErrorResponse         "Ticket not found"
// @Failure      500  {object}  ErrorResponse         "Internal server error"
// @Router       /api/tickets/{token} [get]
func (server *Server) GetTicketStatus(ctx *gin.Context) {
	token := ctx.Param("token")

	// Try the cache first
	cached, err := server.queries.GetCachedTicketStatus(ctx, token)
	if err == nil {
		var resp TicketStatusResponse
		if err := json.Unmarshal(cached, &resp); err == nil {
			ctx.JSON(http.StatusOK, resp)
			return
		}
		util.LOGGER.Warn("GET /api/tickets/{token}: corrupted cache entry", "error", err)
	} else if !server.queries.IsCacheMiss(err) {
		util.LOGGER.Warn("GET /api/tickets/{token}: failed to read cache", "error", err)
	}

	ticket, err := server.queries.GetTicketByToken(ctx, token, server.config.EventKey)
	if errors.Is(err, db.ErrTicketNotFound) {
		ctx.JSON(http.StatusNotFound, ErrorResponse{"Ticket not found"})
		return
	}
	if err != nil {
		util.LOGGER.Error("GET /api/tickets/{token}: failed to get ticket", "error", err)
		ctx.JSON(http.StatusInternalServerError, ErrorResponse{"Internal server error"})
		return
	}

	resp := TicketStatusResponse{
		TicketNumber: ticket.TicketNumber,
		Name:         util.MaskName(ticket.Name),
		TicketType:   ticket.TicketType,
		Quantity:     ticket.Quantity,
		Remaining:    ticket.Remaining,
		Status:       ticket.Status,
		EventName:    server.config.EventName,
	}

	// Tagged with the version read, so a write that happened meanwhile keeps this fill out
	if data, err := json.Marshal(resp); err == nil {
		err = server.queries.CacheTicketStatus(ctx, token, ticket.Version, data, server.config.StatusCacheTTL)
		if err != nil {
			util.LOGGER.Warn("GET /api/tickets/{token}: failed to cache status", "error", err)
		}
	}

	ctx.JSON(http.StatusOK, resp)
}

// Map service errors to HTTP responses
func (server *Server) ticketError(ctx *gin.Context, route string, err error) {
	switch {
	case errors.Is(err, db.ErrTicketNotFound):
		ctx.JSON(http.StatusNotFound, ErrorResponse{"Ticket not found"})
	case errors.Is(err, ticketing.ErrInvalidInput):
		util.LOGGER.Warn(route+": invalid input", "error", err)
		ctx.JSON(http.StatusBadRequest, ErrorResponse{err.Error()})
	case errors.Is(err, ticketing.ErrInvalidState):
		util.LOGGER.Warn(route+": invalid state", "error", err)
		ctx.JSON(http.StatusConflict, ErrorResponse{err.Error()})
	case errors.Is(err, ticketing.ErrTransient):
		util.LOGGER.Warn(route+": transient conflict", "error", err)
		ctx.JSON(http.StatusServiceUnavailable, ErrorResponse{"Ticket is busy, please retry"})
	default:
		util.LOGGER.Error(route+": internal error", "error", err)
		ctx.JSON(http.StatusInternalServerError, ErrorResponse{"Internal server error"})
	}
}
