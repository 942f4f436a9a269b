package db

import "errors"

var (
	// Returned when a ticket does not exist, or exists outside the requested event scope
	ErrTicketNotFound = errors.New("ticket not found")

	// Returned by SaveTicket when the row changed since it was read
	ErrConflict = errors.New("ticket was modified concurrently")

	ErrAdminNotFound        = errors.New("admin not found")
	ErrRefreshTokenNotFound = errors.New("refresh token not found")
)
