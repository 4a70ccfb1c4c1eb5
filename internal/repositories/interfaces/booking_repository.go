package interfaces

import (
	"context"

	"seatshare/internal/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type BookingRepository interface {
	// Create fails with a DuplicateBooking error when the rider already has a
	// booking for the ride.
	Create(ctx context.Context, booking *models.Booking) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Booking, error)
	ExistsForRiderAndRide(ctx context.Context, userID, rideID primitive.ObjectID) (bool, error)
	Delete(ctx context.Context, id primitive.ObjectID) error

	// TransitionStatus moves a booking from one status to another only if it
	// is still in from. It returns the updated booking, NotFound when the id
	// does not exist, or InvalidState when the booking has already left from.
	TransitionStatus(ctx context.Context, id primitive.ObjectID, from, to models.BookingStatus, payment models.PaymentStatus) (*models.Booking, error)

	ListAll(ctx context.Context) ([]*models.Booking, error)
	ListByRide(ctx context.Context, rideID primitive.ObjectID) ([]*models.Booking, error)
}
