package services

import (
	"context"
	"time"

	"seatshare/internal/models"
	"seatshare/internal/repositories/interfaces"
	"seatshare/internal/utils"
	"seatshare/internal/validators"
	"seatshare/pkg/logger"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type BookingService interface {
	Create(ctx context.Context, riderID primitive.ObjectID, input *models.CreateBookingInput) (*models.Booking, error)
	Transition(ctx context.Context, bookingID string, driverID primitive.ObjectID, action string) (*models.Booking, error)

	ListAll(ctx context.Context) ([]*models.BookingView, error)
	ListByRide(ctx context.Context, rideID string) ([]*models.BookingView, error)
	Expand(ctx context.Context, bookings []*models.Booking) ([]*models.BookingView, error)

	// PaymentProof and OpenPaymentProof are open to the booking's rider and
	// the ride's driver.
	PaymentProof(ctx context.Context, bookingID string, callerID primitive.ObjectID) (*PaymentProofLinks, error)
	OpenPaymentProof(ctx context.Context, bookingID string, callerID primitive.ObjectID, thumbnail bool) (*ProofFile, error)
}

// PaymentProofLinks carries direct links to a proof. Empty URLs mean the
// storage provider has none and the proof must be streamed.
type PaymentProofLinks struct {
	URL          string `json:"url"`
	ThumbnailURL string `json:"thumbnailUrl,omitempty"`
	HasThumbnail bool   `json:"-"`
}

type bookingService struct {
	bookingRepo interfaces.BookingRepository
	rideRepo    interfaces.RideRepository
	userRepo    interfaces.UserRepository
	transactor  interfaces.Transactor
	inventory   InventoryService
	notifier    NotificationService
	uploads     UploadService
	logger      *logger.Logger
}

func NewBookingService(
	bookingRepo interfaces.BookingRepository,
	rideRepo interfaces.RideRepository,
	userRepo interfaces.UserRepository,
	transactor interfaces.Transactor,
	inventory InventoryService,
	notifier NotificationService,
	uploads UploadService,
	logger *logger.Logger,
) BookingService {
	return &bookingService{
		bookingRepo: bookingRepo,
		rideRepo:    rideRepo,
		userRepo:    userRepo,
		transactor:  transactor,
		inventory:   inventory,
		notifier:    notifier,
		uploads:     uploads,
		logger:      logger,
	}
}

func (s *bookingService) Create(ctx context.Context, riderID primitive.ObjectID, input *models.CreateBookingInput) (*models.Booking, error) {
	if err := validators.ValidateCreateBooking(input); err != nil {
		return nil, err
	}
	rideID, _ := primitive.ObjectIDFromHex(input.RideID)

	exists, err := s.bookingRepo.ExistsForRiderAndRide(ctx, riderID, rideID)
	if err != nil {
		return nil, utils.NewInternalError("failed to check existing booking", err)
	}
	if exists {
		return nil, utils.NewDuplicateBookingError()
	}

	ride, err := s.rideRepo.GetByID(ctx, rideID)
	if err != nil {
		return nil, err
	}

	// Whatever total the client sent is ignored.
	seats := models.SeatBreakdown{Male: input.MaleSeats, Female: input.FemaleSeats}
	totalSeats := seats.Total()
	if totalSeats < 1 {
		return nil, utils.NewValidationError(utils.ErrNoSeatsSelected)
	}
	if totalSeats > ride.SeatsAvailable {
		return nil, utils.NewInsufficientCapacityError(ride.SeatsAvailable)
	}

	booking := &models.Booking{
		UserID:               riderID,
		RideID:               rideID,
		Pickup:               input.Pickup,
		Drop:                 input.Drop,
		Seats:                seats,
		TotalSeats:           totalSeats,
		TotalFare:            input.TotalFare,
		PaymentScreenshotURL: input.PaymentRef,
		PaymentStatus:        models.PaymentStatusPending,
		RideStatus:           models.BookingStatusPending,
	}

	err = s.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := s.bookingRepo.Create(ctx, booking); err != nil {
			return err
		}

		updated, err := s.inventory.Reserve(ctx, rideID, totalSeats)
		if err != nil {
			// Another booking took the seats between our check and the
			// reservation. Without a transaction the insert has to be undone
			// by hand.
			if delErr := s.bookingRepo.Delete(ctx, booking.ID); delErr != nil {
				s.logger.WithContext(ctx).WithError(delErr).WithBookingID(booking.ID.Hex()).Error("Failed to remove booking after reservation failure")
			}
			return err
		}
		ride = updated
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.WithContext(ctx).WithUserID(riderID.Hex()).LogBookingEvent(booking.ID.Hex(), "booking_created", map[string]interface{}{
		"ride_id":         rideID.Hex(),
		"total_seats":     totalSeats,
		"seats_available": ride.SeatsAvailable,
	})

	s.notifier.Dispatch(ctx, &models.BookingEvent{
		Type:       models.BookingEventCreated,
		Booking:    *booking,
		Ride:       *ride,
		Recipient:  ride.DriverID,
		OccurredAt: time.Now(),
	})

	return booking, nil
}

func (s *bookingService) Transition(ctx context.Context, bookingID string, driverID primitive.ObjectID, action string) (*models.Booking, error) {
	id, err := validators.ParseObjectID(bookingID, utils.ErrInvalidBookingID)
	if err != nil {
		return nil, err
	}
	act, err := validators.ParseBookingAction(action)
	if err != nil {
		return nil, err
	}

	booking, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	ride, err := s.rideRepo.GetByID(ctx, booking.RideID)
	if err != nil {
		return nil, err
	}
	if booking.RideStatus != models.BookingStatusPending {
		return nil, utils.NewInvalidStateError(utils.ErrBookingNotPending)
	}
	if ride.DriverID != driverID {
		return nil, utils.NewUnauthorizedError(utils.ErrNotRideDriver)
	}

	var updated *models.Booking
	err = s.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		switch act {
		case models.BookingActionConfirm:
			updated, err = s.bookingRepo.TransitionStatus(ctx, id,
				models.BookingStatusPending, models.BookingStatusConfirmed, models.PaymentStatusVerified)
			return err

		default:
			updated, err = s.bookingRepo.TransitionStatus(ctx, id,
				models.BookingStatusPending, models.BookingStatusRejected, models.PaymentStatusPending)
			if err != nil {
				return err
			}

			released, err := s.inventory.Release(ctx, ride.ID, booking.TotalSeats)
			if err != nil {
				if _, revertErr := s.bookingRepo.TransitionStatus(ctx, id,
					models.BookingStatusRejected, models.BookingStatusPending, models.PaymentStatusPending); revertErr != nil {
					s.logger.WithContext(ctx).WithError(revertErr).WithBookingID(id.Hex()).Error("Failed to revert rejected booking after release failure")
				}
				return err
			}
			ride = released
			return nil
		}
	})
	if err != nil {
		return nil, err
	}

	eventType := models.BookingEventConfirmed
	if act == models.BookingActionReject {
		eventType = models.BookingEventRejected
	}

	s.logger.WithContext(ctx).WithUserID(driverID.Hex()).LogBookingEvent(id.Hex(), string(eventType), map[string]interface{}{
		"ride_id":         ride.ID.Hex(),
		"seats_available": ride.SeatsAvailable,
	})

	s.notifier.Dispatch(ctx, &models.BookingEvent{
		Type:       eventType,
		Booking:    *updated,
		Ride:       *ride,
		Recipient:  updated.UserID,
		OccurredAt: time.Now(),
	})

	return updated, nil
}

func (s *bookingService) ListAll(ctx context.Context) ([]*models.BookingView, error) {
	bookings, err := s.bookingRepo.ListAll(ctx)
	if err != nil {
		return nil, utils.NewInternalError("failed to list bookings", err)
	}
	return s.Expand(ctx, bookings)
}

func (s *bookingService) ListByRide(ctx context.Context, rideID string) ([]*models.BookingView, error) {
	id, err := validators.ParseObjectID(rideID, utils.ErrInvalidRideID)
	if err != nil {
		return nil, err
	}

	bookings, err := s.bookingRepo.ListByRide(ctx, id)
	if err != nil {
		return nil, utils.NewInternalError("failed to list ride bookings", err)
	}
	return s.Expand(ctx, bookings)
}

// Expand attaches the rider summary and the ride to each booking. Missing
// relations stay nil.
func (s *bookingService) Expand(ctx context.Context, bookings []*models.Booking) ([]*models.BookingView, error) {
	views := make([]*models.BookingView, 0, len(bookings))
	if len(bookings) == 0 {
		return views, nil
	}

	var userIDs []primitive.ObjectID
	seenUsers := make(map[primitive.ObjectID]bool)
	rides := make(map[primitive.ObjectID]*models.Ride)

	for _, b := range bookings {
		if !seenUsers[b.UserID] {
			seenUsers[b.UserID] = true
			userIDs = append(userIDs, b.UserID)
		}
		if _, ok := rides[b.RideID]; ok {
			continue
		}
		ride, err := s.rideRepo.GetByID(ctx, b.RideID)
		if err != nil && !utils.IsKind(err, utils.KindNotFound) {
			return nil, utils.NewInternalError("failed to load ride", err)
		}
		rides[b.RideID] = ride
	}

	users, err := s.userRepo.GetByIDs(ctx, userIDs)
	if err != nil {
		return nil, utils.NewInternalError("failed to load riders", err)
	}

	for _, b := range bookings {
		views = append(views, &models.BookingView{
			Booking: b,
			Rider:   users[b.UserID].Summary(),
			Ride:    rides[b.RideID],
		})
	}
	return views, nil
}

func (s *bookingService) PaymentProof(ctx context.Context, bookingID string, callerID primitive.ObjectID) (*PaymentProofLinks, error) {
	booking, err := s.proofBooking(ctx, bookingID, callerID)
	if err != nil {
		return nil, err
	}

	url, err := s.uploads.URL(ctx, booking.PaymentScreenshotURL)
	if err != nil {
		return nil, err
	}
	links := &PaymentProofLinks{URL: url}

	// PDFs and WebP proofs have no thumbnail.
	thumbURL, err := s.uploads.URL(ctx, utils.ThumbnailKey(booking.PaymentScreenshotURL))
	switch {
	case err == nil:
		links.ThumbnailURL, links.HasThumbnail = thumbURL, true
	case !utils.IsKind(err, utils.KindNotFound):
		return nil, err
	}

	return links, nil
}

func (s *bookingService) OpenPaymentProof(ctx context.Context, bookingID string, callerID primitive.ObjectID, thumbnail bool) (*ProofFile, error) {
	booking, err := s.proofBooking(ctx, bookingID, callerID)
	if err != nil {
		return nil, err
	}

	key := booking.PaymentScreenshotURL
	if thumbnail {
		key = utils.ThumbnailKey(key)
	}
	return s.uploads.Open(ctx, key)
}

// proofBooking loads the booking and checks callerID is its rider or the
// ride's driver.
func (s *bookingService) proofBooking(ctx context.Context, bookingID string, callerID primitive.ObjectID) (*models.Booking, error) {
	id, err := validators.ParseObjectID(bookingID, utils.ErrInvalidBookingID)
	if err != nil {
		return nil, err
	}

	booking, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if booking.UserID != callerID {
		ride, err := s.rideRepo.GetByID(ctx, booking.RideID)
		if err != nil {
			return nil, err
		}
		if ride.DriverID != callerID {
			return nil, utils.NewUnauthorizedError("")
		}
	}

	return booking, nil
}
