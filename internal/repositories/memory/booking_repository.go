package memory

import (
	"context"
	"sort"
	"time"

	"seatshare/internal/models"
	"seatshare/internal/utils"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type bookingRepository struct {
	store *Store
}

func (r *bookingRepository) Create(ctx context.Context, booking *models.Booking) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	key := bookingKey{userID: booking.UserID, rideID: booking.RideID}
	if _, exists := r.store.pairs[key]; exists {
		return utils.NewDuplicateBookingError()
	}

	now := time.Now()
	booking.ID = primitive.NewObjectID()
	booking.CreatedAt = now
	booking.UpdatedAt = now

	stored := *booking
	r.store.bookings[booking.ID] = &stored
	r.store.pairs[key] = booking.ID
	return nil
}

func (r *bookingRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Booking, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	booking, ok := r.store.bookings[id]
	if !ok {
		return nil, utils.NewNotFoundError("Booking")
	}
	out := *booking
	return &out, nil
}

func (r *bookingRepository) ExistsForRiderAndRide(ctx context.Context, userID, rideID primitive.ObjectID) (bool, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	_, exists := r.store.pairs[bookingKey{userID: userID, rideID: rideID}]
	return exists, nil
}

func (r *bookingRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	booking, ok := r.store.bookings[id]
	if !ok {
		return nil
	}
	delete(r.store.pairs, bookingKey{userID: booking.UserID, rideID: booking.RideID})
	delete(r.store.bookings, id)
	return nil
}

func (r *bookingRepository) TransitionStatus(ctx context.Context, id primitive.ObjectID, from, to models.BookingStatus, payment models.PaymentStatus) (*models.Booking, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	booking, ok := r.store.bookings[id]
	if !ok {
		return nil, utils.NewNotFoundError("Booking")
	}
	if booking.RideStatus != from {
		if from == models.BookingStatusPending {
			return nil, utils.NewInvalidStateError(utils.ErrBookingNotPending)
		}
		return nil, utils.NewInvalidStateError("Booking is no longer " + string(from))
	}

	booking.RideStatus = to
	booking.PaymentStatus = payment
	booking.UpdatedAt = time.Now()

	out := *booking
	return &out, nil
}

func (r *bookingRepository) ListAll(ctx context.Context) ([]*models.Booking, error) {
	return r.filter(func(*models.Booking) bool { return true }), nil
}

func (r *bookingRepository) ListByRide(ctx context.Context, rideID primitive.ObjectID) ([]*models.Booking, error) {
	return r.filter(func(b *models.Booking) bool { return b.RideID == rideID }), nil
}

func (r *bookingRepository) filter(keep func(*models.Booking) bool) []*models.Booking {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	bookings := make([]*models.Booking, 0)
	for _, booking := range r.store.bookings {
		if keep(booking) {
			out := *booking
			bookings = append(bookings, &out)
		}
	}
	sort.Slice(bookings, func(i, j int) bool {
		return bookings[i].CreatedAt.After(bookings[j].CreatedAt)
	})
	return bookings
}
