package services

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"seatshare/internal/models"
	"seatshare/internal/repositories/memory"
	"seatshare/pkg/logger"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func newNotificationEvent(store *memory.Store, eventType models.BookingEventType) *models.BookingEvent {
	driver := &models.User{Name: "Ravi", Email: "ravi@example.com", Phone: "98000 00001", Role: models.UserRoleDriver}
	rider := &models.User{Name: "Asha", Email: "asha@example.com", Phone: "+919811111111", Role: models.UserRoleRider}
	store.PutUser(driver)
	store.PutUser(rider)

	ride := models.Ride{ID: primitive.NewObjectID(), DriverID: driver.ID, From: "Pune", To: "Mumbai", Date: "2026-10-20", SeatsAvailable: 2}
	booking := models.Booking{
		ID:         primitive.NewObjectID(),
		UserID:     rider.ID,
		RideID:     ride.ID,
		Pickup:     "Hinjewadi",
		Drop:       "Dadar",
		TotalSeats: 2,
		TotalFare:  900,
	}

	recipient := rider.ID
	if eventType == models.BookingEventCreated {
		recipient = driver.ID
	}
	return &models.BookingEvent{Type: eventType, Booking: booking, Ride: ride, Recipient: recipient}
}

func TestDispatchDeliversOnEveryChannel(t *testing.T) {
	store := memory.NewStore()
	mailer := &fakeMailer{}
	texts := &fakeSMS{}
	publisher := &fakePublisher{}

	service := NewNotificationService(store.Users(), mailer, texts, publisher,
		NotificationOptions{Currency: "INR", CountryCode: "+91"}, logger.NewNop())

	event := newNotificationEvent(store, models.BookingEventCreated)
	service.Dispatch(context.Background(), event)
	service.Wait()

	if len(mailer.sent) != 1 {
		t.Fatalf("emails sent = %d, want 1", len(mailer.sent))
	}
	msg := mailer.sent[0]
	if msg.To != "ravi@example.com" || msg.Subject != "New Booking Received 🚗" {
		t.Fatalf("message = %+v", msg)
	}
	for _, want := range []string{"Hello Ravi", "Hinjewadi", "Dadar", "₹900"} {
		if !strings.Contains(msg.HTML, want) {
			t.Fatalf("email body missing %q:\n%s", want, msg.HTML)
		}
	}

	if len(texts.sent) != 1 || texts.sent[0].To != "+919800000001" {
		t.Fatalf("sms = %+v", texts.sent)
	}

	if len(publisher.published) != 1 || publisher.published[0].routingKey != "booking.created" {
		t.Fatalf("published = %+v", publisher.published)
	}
	var decoded models.BookingEvent
	if err := json.Unmarshal(publisher.published[0].body, &decoded); err != nil {
		t.Fatalf("event body: %v", err)
	}
	if decoded.Booking.ID != event.Booking.ID || decoded.OccurredAt.IsZero() {
		t.Fatalf("decoded event = %+v", decoded)
	}
}

func TestDispatchRejectionMentionsDriver(t *testing.T) {
	store := memory.NewStore()
	mailer := &fakeMailer{}
	service := NewNotificationService(store.Users(), mailer, nil, nil, NotificationOptions{}, logger.NewNop())

	service.Dispatch(context.Background(), newNotificationEvent(store, models.BookingEventRejected))
	service.Wait()

	if len(mailer.sent) != 1 {
		t.Fatalf("emails sent = %d", len(mailer.sent))
	}
	if mailer.sent[0].To != "asha@example.com" || !strings.Contains(mailer.sent[0].HTML, "Ravi") {
		t.Fatalf("rejection email = %+v", mailer.sent[0])
	}
}

func TestDispatchSwallowsDeliveryFailures(t *testing.T) {
	store := memory.NewStore()
	mailer := &fakeMailer{err: errors.New("smtp: connection refused")}
	publisher := &fakePublisher{}
	service := NewNotificationService(store.Users(), mailer, nil, publisher, NotificationOptions{}, logger.NewNop())

	event := newNotificationEvent(store, models.BookingEventConfirmed)
	service.Dispatch(context.Background(), event)

	// An unknown recipient is logged and skipped.
	missing := *event
	missing.Recipient = primitive.NewObjectID()
	service.Dispatch(context.Background(), &missing)
	service.Wait()

	if len(publisher.published) != 2 {
		t.Fatalf("published = %d, want 2", len(publisher.published))
	}
}

func TestDispatchOutlivesRequestContext(t *testing.T) {
	store := memory.NewStore()
	mailer := &fakeMailer{}
	service := NewNotificationService(store.Users(), mailer, nil, nil, NotificationOptions{}, logger.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	service.Dispatch(ctx, newNotificationEvent(store, models.BookingEventConfirmed))
	cancel()
	service.Wait()

	if len(mailer.sent) != 1 {
		t.Fatalf("emails sent = %d, want 1", len(mailer.sent))
	}
}
