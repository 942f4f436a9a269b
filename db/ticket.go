package db

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Attempts to allocate a ticket number before giving up. Collisions only happen when two purchases race
// for the same MAX(ticket_number)+1
const createTicketAttempts = 3

// Insert a new ticket with the next sequential ticket number
func (queries *Queries) CreateTicket(ctx context.Context, ticket *Ticket) error {
	var err error
	for range createTicketAttempts {
		err = queries.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			var last int64
			if err := tx.Model(&Ticket{}).Select("COALESCE(MAX(ticket_number), 0)").Scan(&last).Error; err != nil {
				return err
			}
			ticket.TicketNumber = uint(last + 1)
			return tx.Create(ticket).Error
		})

		if !errors.Is(err, gorm.ErrDuplicatedKey) {
			return err
		}
	}
	return err
}

// Get a ticket by its credential token. An empty eventKey means no tenant restriction
func (queries *Queries) GetTicketByToken(ctx context.Context, token, eventKey string) (*Ticket, error) {
	query := queries.DB.WithContext(ctx).Where("token = ?", token)
	if eventKey != "" {
		query = query.Where("event_key = ?", eventKey)
	}

	var ticket Ticket
	if err := query.First(&ticket).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTicketNotFound
		}
		return nil, err
	}
	return &ticket, nil
}

// Get a ticket by ID
func (queries *Queries) GetTicketByID(ctx context.Context, id uuid.UUID) (*Ticket, error) {
	var ticket Ticket
	if err := queries.DB.WithContext(ctx).Where("id = ?", id).First(&ticket).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTicketNotFound
		}
		return nil, err
	}
	return &ticket, nil
}

// Persist the mutable fields of a ticket, only if nobody wrote it since it was read.
// On success ticket.Version is advanced; if the stored version moved on, ErrConflict is returned and the caller
// must re-read before trying again
func (queries *Queries) SaveTicket(ctx context.Context, ticket *Ticket) error {
	now := time.Now()
	result := queries.DB.WithContext(ctx).Model(&Ticket{}).
		Where("id = ? AND version = ?", ticket.ID, ticket.Version).
		Updates(map[string]any{
			"remaining":               ticket.Remaining,
			"scan_count":              ticket.ScanCount,
			"status":                  ticket.Status,
			"email_sent":              ticket.EmailSent,
			"sent_at":                 ticket.SentAt,
			"whatsapp_link_generated": ticket.WhatsappLinkGenerated,
			"credential_url":          ticket.CredentialURL,
			"last_scan_at":            ticket.LastScanAt,
			"version":                 ticket.Version + 1,
			"date_updated":            now,
		})

	if result.Error != nil {
		return result.Error
	}

	// Check if we actually won the write
	if result.RowsAffected == 0 {
		return ErrConflict
	}

	ticket.Version++
	ticket.DateUpdated = now
	return nil
}

// Filter for ticket listing. Zero values mean "no restriction"
type TicketFilter struct {
	EventKey string
	Status   TicketStatus
	Type     TicketType
	Search   string // name, email, phone or ticket number
	Page     int
	PageSize int
}

// List tickets, newest first, together with the total number of matches
func (queries *Queries) ListTickets(ctx context.Context, filter TicketFilter) ([]Ticket, int64, error) {
	query := queries.DB.WithContext(ctx).Model(&Ticket{})
	if filter.EventKey != "" {
		query = query.Where("event_key = ?", filter.EventKey)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.Type != "" {
		query = query.Where("ticket_type = ?", filter.Type)
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		if number, err := strconv.ParseUint(strings.TrimPrefix(search, "#"), 10, 64); err == nil {
			query = query.Where("ticket_number = ?", number)
		} else {
			like := "%" + strings.ToLower(search) + "%"
			query = query.Where("LOWER(name) LIKE ? OR LOWER(email) LIKE ? OR phone LIKE ?", like, like, like)
		}
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	limit, offset := GetLimitAndOffset(filter.Page, filter.PageSize)
	var tickets []Ticket
	err := query.Order("ticket_number DESC").Limit(limit).Offset(offset).Find(&tickets).Error
	if err != nil {
		return nil, 0, err
	}
	return tickets, total, nil
}

// Turn 1-based page and page size into SQL limit/offset. Page size defaults to 20 and is capped at 100
func GetLimitAndOffset(page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}
	if pageSize > 100 {
		pageSize = 100
	}
	return pageSize, (page - 1) * pageSize
}

// Aggregated numbers of one ticket status
type StatusStats struct {
	Status   TicketStatus `json:"status"`
	Tickets  int64        `json:"tickets"`
	People   int64        `json:"people"`   // Sum of quantity
	Admitted int64        `json:"admitted"` // Sum of scan_count
}

// Count tickets, people and admissions per status
func (queries *Queries) TicketStats(ctx context.Context, eventKey string) ([]StatusStats, error) {
	query := queries.DB.WithContext(ctx).Model(&Ticket{}).
		Select("status, COUNT(*) AS tickets, COALESCE(SUM(quantity), 0) AS people, COALESCE(SUM(scan_count), 0) AS admitted")
	if eventKey != "" {
		query = query.Where("event_key = ?", eventKey)
	}

	var stats []StatusStats
	if err := query.Group("status").Order("status").Scan(&stats).Error; err != nil {
		return nil, err
	}
	return stats, nil
}
