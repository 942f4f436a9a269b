package notify

import (
	"fmt"
	"net/url"
	"strings"

	"gatepass/db"
	"gatepass/util"
)

// E.164 allows at most 15 digits; anything under 8 cannot be a reachable number
const (
	minPhoneDigits = 8
	maxPhoneDigits = 15
)

// Build a click-to-chat link that opens WhatsApp with the message prefilled.
// Returns false when the phone number is not usable
func WhatsAppLink(phone, message string) (string, bool) {
	digits := util.PhoneDigits(phone)
	if len(digits) < minPhoneDigits || len(digits) > maxPhoneDigits {
		return "", false
	}

	text := strings.ReplaceAll(url.QueryEscape(message), "+", "%20")
	return fmt.Sprintf("https://wa.me/%s?text=%s", digits, text), true
}

// The message sent along with a ticket credential. link should be a public URL or the QR payload
func CredentialMessage(eventName string, ticket *db.Ticket, link string) string {
	return fmt.Sprintf("Hi %s, your ticket #%d for %s is confirmed (%d %s). Show this QR at the gate: %s",
		ticket.Name, ticket.TicketNumber, eventName, ticket.Quantity, guests(ticket.Quantity), link)
}

func guests(n int) string {
	if n == 1 {
		return "guest"
	}
	return "guests"
}
