package ticketing

import (
	"context"
	"fmt"
	"net/mail"
	"strings"

	"gatepass/db"
	"gatepass/util"
)

// Size in bytes of a ticket token before encoding
const tokenBytes = 32

// A purchase request
type CreateInput struct {
	Name       string
	Email      string
	Phone      string
	TicketType db.TicketType
	Quantity   int // Ignored for VIP
	EventKey   string
}

func (service *Service) validate(input *CreateInput) error {
	input.Name = strings.TrimSpace(input.Name)
	input.Email = strings.TrimSpace(input.Email)
	input.Phone = strings.TrimSpace(input.Phone)

	switch {
	case input.Name == "":
		return fmt.Errorf("%w: name is required", ErrInvalidInput)
	case input.Email == "":
		return fmt.Errorf("%w: email is required", ErrInvalidInput)
	case input.Phone == "":
		return fmt.Errorf("%w: phone is required", ErrInvalidInput)
	}

	if _, err := mail.ParseAddress(input.Email); err != nil {
		return fmt.Errorf("%w: invalid email %q", ErrInvalidInput, input.Email)
	}

	if _, err := db.ParseTicketType(string(input.TicketType)); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	if input.TicketType == db.Normal {
		if input.Quantity < 1 {
			return fmt.Errorf("%w: quantity must be at least 1", ErrInvalidInput)
		}
		if service.maxQuantity > 0 && input.Quantity > service.maxQuantity {
			return fmt.Errorf("%w: at most %d guests per ticket", ErrInvalidInput, service.maxQuantity)
		}
	}
	return nil
}

// Create a pending ticket priced at today's rate
func (service *Service) Create(ctx context.Context, input CreateInput) (*db.Ticket, error) {
	if err := service.validate(&input); err != nil {
		return nil, err
	}

	quote, err := service.pricing.Quote(input.TicketType, input.Quantity, service.now())
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	token, err := util.RandomToken(tokenBytes)
	if err != nil {
		return nil, err
	}

	ticket := &db.Ticket{
		Token:      token,
		EventKey:   input.EventKey,
		Name:       input.Name,
		Email:      input.Email,
		Phone:      input.Phone,
		TicketType: input.TicketType,
		Quantity:   quote.Quantity,
		Remaining:  quote.Quantity,
		ScanCount:  0,
		UnitPrice:  quote.UnitPrice,
		Price:      quote.Price,
		Status:     db.Pending,
	}

	if err := service.store.CreateTicket(ctx, ticket); err != nil {
		return nil, fmt.Errorf("failed to create ticket: %w", err)
	}
	return ticket, nil
}
