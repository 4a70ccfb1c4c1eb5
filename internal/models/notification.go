package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type BookingEventType string

const (
	BookingEventCreated   BookingEventType = "booking.created"
	BookingEventConfirmed BookingEventType = "booking.confirmed"
	BookingEventRejected  BookingEventType = "booking.rejected"
)

// BookingEvent is what the lifecycle hands to the notification dispatcher
// once its writes are committed. Booking and Ride are snapshots taken at that
// point.
type BookingEvent struct {
	Type       BookingEventType   `json:"type"`
	Booking    Booking            `json:"booking"`
	Ride       Ride               `json:"ride"`
	Recipient  primitive.ObjectID `json:"recipientId"`
	OccurredAt time.Time          `json:"occurredAt"`
}

