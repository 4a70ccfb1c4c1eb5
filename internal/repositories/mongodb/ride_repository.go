package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"seatshare/internal/models"
	"seatshare/internal/repositories/interfaces"
	"seatshare/internal/utils"
	"seatshare/pkg/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// seatUpdateAttempts bounds how often a seat update is retried when the
// re-read shows the conditional filter should have matched.
const seatUpdateAttempts = 3

const errSeatsContended = "Seat availability is changing, please try again"

type rideRepository struct {
	collection *mongo.Collection
}

func NewRideRepository(db *mongo.Database) interfaces.RideRepository {
	return &rideRepository{
		collection: db.Collection(database.CollectionRides),
	}
}

func (r *rideRepository) Create(ctx context.Context, ride *models.Ride) error {
	now := time.Now()
	ride.ID = primitive.NewObjectID()
	ride.CreatedAt = now
	ride.UpdatedAt = now

	if _, err := r.collection.InsertOne(ctx, ride); err != nil {
		return fmt.Errorf("failed to create ride: %w", err)
	}

	return nil
}

func (r *rideRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Ride, error) {
	var ride models.Ride
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&ride)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, utils.NewNotFoundError("Ride")
		}
		return nil, fmt.Errorf("failed to get ride: %w", err)
	}

	return &ride, nil
}

func (r *rideRepository) List(ctx context.Context) ([]*models.Ride, error) {
	return r.find(ctx, bson.M{})
}

func (r *rideRepository) ListByDriver(ctx context.Context, driverID primitive.ObjectID) ([]*models.Ride, error) {
	return r.find(ctx, bson.M{"driver_id": driverID})
}

func (r *rideRepository) ReserveSeats(ctx context.Context, id primitive.ObjectID, count int) (*models.Ride, error) {
	if count < 1 {
		return nil, utils.NewValidationError("seat count must be at least 1")
	}

	filter := bson.M{
		"_id":             id,
		"seats_available": bson.M{"$gte": count},
	}
	update := bson.M{
		"$inc": bson.M{"seats_available": -count},
		"$set": bson.M{"updated_at": time.Now()},
	}

	for attempt := 0; attempt < seatUpdateAttempts; attempt++ {
		ride, err := r.conditionalUpdate(ctx, filter, update)
		if err != nil {
			return nil, fmt.Errorf("failed to reserve seats: %w", err)
		}
		if ride != nil {
			return ride, nil
		}

		// Nothing matched: the ride is gone, it has too few seats, or a
		// release landed between the update and this read.
		current, err := r.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if current.SeatsAvailable < count {
			return nil, utils.NewInsufficientCapacityError(current.SeatsAvailable)
		}
	}
	return nil, utils.NewInvalidStateError(errSeatsContended)
}

func (r *rideRepository) ReleaseSeats(ctx context.Context, id primitive.ObjectID, count int) (*models.Ride, error) {
	if count < 1 {
		return nil, utils.NewValidationError("seat count must be at least 1")
	}

	filter := bson.M{
		"_id": id,
		"$expr": bson.M{
			"$lte": bson.A{
				bson.M{"$add": bson.A{"$seats_available", count}},
				"$capacity_total",
			},
		},
	}
	update := bson.M{
		"$inc": bson.M{"seats_available": count},
		"$set": bson.M{"updated_at": time.Now()},
	}

	for attempt := 0; attempt < seatUpdateAttempts; attempt++ {
		ride, err := r.conditionalUpdate(ctx, filter, update)
		if err != nil {
			return nil, fmt.Errorf("failed to release seats: %w", err)
		}
		if ride != nil {
			return ride, nil
		}

		current, err := r.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if current.SeatsAvailable+count > current.CapacityTotal {
			return nil, utils.NewInvalidStateError(fmt.Sprintf(
				"Releasing %d seats would exceed the ride capacity of %d", count, current.CapacityTotal))
		}
	}
	return nil, utils.NewInvalidStateError(errSeatsContended)
}

// conditionalUpdate returns the updated ride, or nil when the filter matched
// nothing.
func (r *rideRepository) conditionalUpdate(ctx context.Context, filter, update bson.M) (*models.Ride, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var ride models.Ride
	err := r.collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&ride)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}

	return &ride, nil
}

func (r *rideRepository) find(ctx context.Context, filter bson.M) ([]*models.Ride, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list rides: %w", err)
	}
	defer cursor.Close(ctx)

	rides := make([]*models.Ride, 0)
	if err := cursor.All(ctx, &rides); err != nil {
		return nil, fmt.Errorf("failed to decode rides: %w", err)
	}

	return rides, nil
}
