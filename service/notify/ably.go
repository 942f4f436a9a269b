package notify

import (
	"context"
	"time"

	"github.com/ably/ably-go/ably"
)

// Name of the event published on the gate channel for every admission
const AdmissionEventName = "admission"

// What gate screens receive after a successful scan. Contact data is never published
type AdmissionEvent struct {
	TicketNumber uint      `json:"ticket_number"`
	Name         string    `json:"name"`
	TicketType   string    `json:"ticket_type"`
	Admitted     int       `json:"admitted"`
	Remaining    int       `json:"remaining"`
	Quantity     int       `json:"quantity"`
	Status       string    `json:"status"`
	ScannedAt    time.Time `json:"scanned_at"`
}

// Ably implementation
type AblyService struct {
	client *ably.REST
}

// Ably constructor
func NewAblyService(apiKey string) (*AblyService, error) {
	client, err := ably.NewREST(ably.WithKey(apiKey))
	if err != nil {
		return nil, err
	}

	return &AblyService{client: client}, nil
}

// Channel carrying the admissions of one event
func GateChannel(eventKey string) string {
	if eventKey == "" {
		return "gate:default"
	}
	return "gate:" + eventKey
}

// Publish message to a channel.
// channelName is the name of the channel to send the message to. It must be correct, or else the other side couldn't get it
// eventName is the name of the event that fire this notification.
func (service *AblyService) Publish(ctx context.Context, channelName, eventName string, data any) error {
	channel := service.client.Channels.Get(channelName)
	return channel.Publish(ctx, eventName, data)
}

// Publish an admission on the gate channel of the event
func (service *AblyService) PublishAdmission(ctx context.Context, eventKey string, event AdmissionEvent) error {
	return service.Publish(ctx, GateChannel(eventKey), AdmissionEventName, event)
}

// This method is purely for test, it should be the client responsible to fetch this
func (service *AblyService) getMessageHistory(ctx context.Context, channelName string) ([]*ably.Message, error) {
	channel := service.client.Channels.Get(channelName)

	pages, err := channel.History().Pages(ctx)
	if err != nil {
		return nil, err
	}

	// Fetch the first page
	if !pages.Next(ctx) {
		// Check for error
		if err := pages.Err(); err != nil {
			return nil, err
		}

		// No messages available
		return nil, nil
	}

	return pages.Items(), nil
}
