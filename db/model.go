package db

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Share fields of all models: ID, create at and updated at timestamp.
// IDs and timestamps are set by the application, not by database defaults
type Model struct {
	ID          uuid.UUID `gorm:"type:uuid;not null;primaryKey" json:"id"`
	DateCreated time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	DateUpdated time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

// Assign an ID before insert if the caller did not
func (model *Model) BeforeCreate(tx *gorm.DB) error {
	if model.ID == uuid.Nil {
		model.ID = uuid.New()
	}
	return nil
}

// Enum defined
type TicketType string

type TicketStatus string

// Constant defined
const (
	// Ticket type
	Normal TicketType = "normal"
	VIP    TicketType = "vip"

	// Ticket status
	Pending   TicketStatus = "pending"
	Approved  TicketStatus = "approved"
	Cancelled TicketStatus = "cancelled"
	CheckedIn TicketStatus = "checkedin"
)

// Parse a ticket type, rejecting anything outside the closed set
func ParseTicketType(s string) (TicketType, error) {
	switch t := TicketType(s); t {
	case Normal, VIP:
		return t, nil
	}
	return "", fmt.Errorf("invalid ticket type: %q", s)
}

// Parse a ticket status, rejecting anything outside the closed set
func ParseTicketStatus(s string) (TicketStatus, error) {
	switch status := TicketStatus(s); status {
	case Pending, Approved, Cancelled, CheckedIn:
		return status, nil
	}
	return "", fmt.Errorf("invalid ticket status: %q", s)
}

// Ticket: a purchased admission for 1..N people.
// Business rules:
// 1. Quantity never changes after creation. Remaining starts at Quantity and ScanCount at 0,
// and remaining + scan_count = quantity holds for every persisted version
// 2. Token is the credential secret embedded in the QR code, it must never appear in public responses
// 3. Status checkedin is reached only from approved, when remaining drops to 0
// 4. Version is bumped on every write. Writers must use SaveTicket, which only succeeds against the version
// they read (compare-and-swap), so two gate scanners can never both consume the last admission
type Ticket struct {
	Model
	TicketNumber uint            `gorm:"not null;uniqueIndex" json:"ticket_number"`
	Token        string          `gorm:"type:varchar(64);not null;uniqueIndex" json:"-"`
	EventKey     string          `gorm:"type:varchar(64);not null;default:'';index" json:"event_key"`
	Name         string          `gorm:"type:varchar(100);not null" json:"name"`
	Email        string          `gorm:"type:varchar(100);not null" json:"email"`
	Phone        string          `gorm:"type:varchar(30);not null" json:"phone"`
	TicketType   TicketType      `gorm:"type:varchar(10);not null" json:"ticket_type"`
	Quantity     int             `gorm:"not null" json:"quantity"`
	Remaining    int             `gorm:"not null" json:"remaining"`
	ScanCount    int             `gorm:"not null;default:0" json:"scan_count"`
	UnitPrice    decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"unit_price"`
	Price        decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"price"`
	Status       TicketStatus    `gorm:"type:varchar(20);not null;index" json:"status"`

	// Delivery bookkeeping
	EmailSent             bool       `gorm:"not null;default:false" json:"email_sent"`
	SentAt                *time.Time `json:"sent_at"`
	WhatsappLinkGenerated bool       `gorm:"not null;default:false" json:"whatsapp_link_generated"`
	CredentialURL         string     `gorm:"type:varchar" json:"credential_url,omitempty"`

	LastScanAt *time.Time `json:"last_scan_at"`
	Version    int        `gorm:"not null;default:0" json:"-"`
}

// Admin: gate/review operator. An admin with an EventKey only ever sees tickets of that event
type Admin struct {
	Model
	Username     string `gorm:"type:varchar(50);not null;uniqueIndex" json:"username"`
	PasswordHash string `gorm:"type:varchar(60);not null" json:"-"`
	EventKey     string `gorm:"type:varchar(64);not null;default:''" json:"event_key"`

	// Relationships
	RefreshTokens []RefreshToken `gorm:"foreignKey:AdminID" json:"-"`
}

// Refresh token. Only the SHA-256 of the opaque token is stored.
// A token is usable while RevokedAt is null and ExpiresAt is in the future; each refresh revokes the
// presented token and issues a new one
type RefreshToken struct {
	Model
	AdminID   uuid.UUID  `gorm:"type:uuid;not null;index" json:"admin_id"`
	TokenHash string     `gorm:"type:varchar(64);not null;uniqueIndex" json:"-"`
	ExpiresAt time.Time  `gorm:"not null" json:"expires_at"`
	RevokedAt *time.Time `json:"revoked_at,omitempty"`

	// Relationships
	Admin Admin `gorm:"foreignKey:AdminID" json:"-"`
}
