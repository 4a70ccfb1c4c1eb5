package interfaces

import (
	"context"

	"seatshare/internal/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type RideRepository interface {
	Create(ctx context.Context, ride *models.Ride) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Ride, error)
	List(ctx context.Context) ([]*models.Ride, error)
	ListByDriver(ctx context.Context, driverID primitive.ObjectID) ([]*models.Ride, error)

	// Seat inventory. Both are single conditional writes: ReserveSeats only
	// succeeds while seats_available >= count, ReleaseSeats only while the
	// result stays within capacity_total. They return the ride after the write.
	ReserveSeats(ctx context.Context, id primitive.ObjectID, count int) (*models.Ride, error)
	ReleaseSeats(ctx context.Context, id primitive.ObjectID, count int) (*models.Ride, error)
}
