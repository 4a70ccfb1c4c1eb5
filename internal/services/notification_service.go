package services

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"seatshare/internal/models"
	"seatshare/internal/repositories/interfaces"
	"seatshare/internal/utils"
	"seatshare/pkg/logger"
	"seatshare/pkg/mail"
	"seatshare/pkg/sms"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// NotificationService tells riders and drivers about booking changes. It
// never blocks or fails the caller; delivery problems only show up in logs.
type NotificationService interface {
	Dispatch(ctx context.Context, event *models.BookingEvent)
	// Wait blocks until deliveries already dispatched have finished.
	Wait()
}

type Mailer interface {
	Send(ctx context.Context, message *mail.Message) error
}

type EventPublisher interface {
	Publish(ctx context.Context, routingKey string, body []byte) error
}

type NotificationOptions struct {
	Timeout     time.Duration
	Currency    string
	CountryCode string
	SMSFrom     string
}

type notificationService struct {
	userRepo  interfaces.UserRepository
	mailer    Mailer
	sms       sms.SMSProvider
	publisher EventPublisher
	opts      NotificationOptions
	logger    *logger.Logger
	wg        sync.WaitGroup
}

// NewNotificationService wires the channels that are configured; any of
// mailer, smsProvider and publisher may be nil.
func NewNotificationService(
	userRepo interfaces.UserRepository,
	mailer Mailer,
	smsProvider sms.SMSProvider,
	publisher EventPublisher,
	opts NotificationOptions,
	logger *logger.Logger,
) NotificationService {
	if opts.Timeout <= 0 {
		opts.Timeout = utils.NotificationTimeout
	}
	return &notificationService{
		userRepo:  userRepo,
		mailer:    mailer,
		sms:       smsProvider,
		publisher: publisher,
		opts:      opts,
		logger:    logger,
	}
}

func (s *notificationService) Dispatch(ctx context.Context, event *models.BookingEvent) {
	if event == nil {
		return
	}
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now()
	}

	// The request context is cancelled as soon as the response is written.
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.opts.Timeout)

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer cancel()
		defer func() {
			if r := recover(); r != nil {
				s.eventLogger(event).WithField("panic", fmt.Sprint(r)).Error("Notification delivery panicked")
			}
		}()
		s.deliver(ctx, event)
	}()
}

func (s *notificationService) Wait() {
	s.wg.Wait()
}

func (s *notificationService) deliver(ctx context.Context, event *models.BookingEvent) {
	log := s.eventLogger(event)

	if s.publisher != nil {
		if err := s.publish(ctx, event); err != nil {
			log.WithError(err).WithField("channel", "broker").Warn("Failed to publish booking event")
		}
	}

	if s.mailer == nil && s.sms == nil {
		return
	}

	content, ok := bookingEmails[event.Type]
	if !ok {
		log.Warn("No notification template for event")
		return
	}

	users, err := s.userRepo.GetByIDs(ctx, []primitive.ObjectID{event.Recipient, event.Ride.DriverID})
	if err != nil {
		log.WithError(err).Warn("Failed to resolve notification recipient")
		return
	}
	recipient, ok := users[event.Recipient]
	if !ok {
		log.Warn("Notification recipient not found")
		return
	}

	data := emailData{
		RecipientName: recipient.Name,
		From:          event.Ride.From,
		To:            event.Ride.To,
		Pickup:        event.Booking.Pickup,
		Drop:          event.Booking.Drop,
		TotalSeats:    event.Booking.TotalSeats,
		Fare:          utils.FormatCurrency(event.Booking.TotalFare, s.opts.Currency),
	}
	if driver, ok := users[event.Ride.DriverID]; ok {
		data.DriverName = driver.Name
	}

	if s.mailer != nil && recipient.Email != "" {
		if err := s.sendEmail(ctx, recipient, content, data); err != nil {
			log.WithError(err).WithField("channel", "email").Warn("Failed to send booking email")
		} else {
			log.WithFields(map[string]interface{}{
				"channel": "email",
				"to":      utils.MaskEmail(recipient.Email),
			}).Info("Booking email sent")
		}
	}

	if s.sms != nil && recipient.Phone != "" {
		if err := s.sendSMS(ctx, recipient, content, event); err != nil {
			log.WithError(err).WithField("channel", "sms").Warn("Failed to send booking SMS")
		} else {
			log.WithFields(map[string]interface{}{
				"channel": "sms",
				"to":      utils.MaskPhone(recipient.Phone),
			}).Info("Booking SMS sent")
		}
	}
}

func (s *notificationService) sendEmail(ctx context.Context, recipient *models.User, content emailContent, data emailData) error {
	body, err := renderEmail(content, data)
	if err != nil {
		return err
	}
	return s.mailer.Send(ctx, &mail.Message{
		To:      recipient.Email,
		Subject: content.Subject,
		HTML:    body,
	})
}

func (s *notificationService) sendSMS(ctx context.Context, recipient *models.User, content emailContent, event *models.BookingEvent) error {
	phone := utils.NormalizePhone(recipient.Phone, s.opts.CountryCode)
	if !utils.IsValidPhone(phone) {
		return fmt.Errorf("invalid phone number %s", utils.MaskPhone(recipient.Phone))
	}

	_, err := s.sms.SendSMS(ctx, &sms.SMSRequest{
		To:      phone,
		From:    s.opts.SMSFrom,
		Message: fmt.Sprintf(content.SMS, event.Booking.TotalSeats, event.Ride.From, event.Ride.To, event.Ride.Date),
		Type:    "transactional",
	})
	return err
}

func (s *notificationService) publish(ctx context.Context, event *models.BookingEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	return s.publisher.Publish(ctx, string(event.Type), body)
}

func (s *notificationService) eventLogger(event *models.BookingEvent) *logger.Logger {
	return s.logger.WithBookingID(event.Booking.ID.Hex()).WithFields(map[string]interface{}{
		"event":   string(event.Type),
		"ride_id": event.Ride.ID.Hex(),
	})
}
