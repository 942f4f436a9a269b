package api

import (
	"net/http"

	"gatepass/util"

	"github.com/gin-gonic/gin"
)

// The only thing anonymous callers learn from a scan, whatever the ticket state
const verifyNotice = "This ticket must be scanned by event staff at the gate."

type VerifyRequest struct {
	Token string `json:"token" binding:"required"`
	Count *int   `json:"count"`
}

// VerifyPage godoc
// @Summary      Landing page of scanned QR codes
// @Description  Always answers the same plain text, ticket details are reserved to operators.
// @Tags         Verify
// @Produce      plain
// @Param        token  query     string  false  "Ticket token"
// @Success      200    {string}  string  "Static notice"
// @Router       /verify [get]
func (server *Server) VerifyPage(ctx *gin.Context) {
	ctx.String(http.StatusOK, verifyNotice)
}

// Verify godoc
// @Summary      Admit guests
// @Description  Admits up to count guests on the scanned ticket. token may be the raw token or the URL encoded in the QR.
// @Description  Without count, a ticket with exactly one remaining guest admits that guest; otherwise outcome is awaiting_count.
// @Description  Callers without a valid operator token receive a static plain text notice.
// @Tags         Verify
// @Accept       json
// @Produce      json
// @Param        request body VerifyRequest true "Scanned token and number of guests entering"
// @Success      200 {object} ticketing.AdmitResult "Outcome of the scan: admitted | awaiting_count | exhausted | cancelled | not_approved | not_found"
// @Failure      400 {object} ErrorResponse "Invalid request body"
// @Failure      503 {object} ErrorResponse "Ticket is busy, please retry"
// @Security BearerAuth
// @Router       /api/admin/verify [post]
func (server *Server) Verify(ctx *gin.Context) {
	claims := getClaims(ctx)
	if claims == nil {
		ctx.String(http.StatusOK, verifyNotice)
		return
	}

	var req VerifyRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.LOGGER.Warn("POST /api/admin/verify: failed to bind request body", "error", err)
		ctx.JSON(http.StatusBadRequest, ErrorResponse{"Invalid request body"})
		return
	}

	count := 0
	if req.Count != nil {
		count = *req.Count
	}

	result, err := server.tickets.Admit(ctx, req.Token, count, claims.EventKey)
	if err != nil {
		server.ticketError(ctx, "POST /api/admin/verify", err)
		return
	}

	util.LOGGER.Info("POST /api/admin/verify: scan evaluated", "admin", claims.Username, "outcome", result.Outcome, "admitted", result.Admitted)
	ctx.JSON(http.StatusOK, result)
}
