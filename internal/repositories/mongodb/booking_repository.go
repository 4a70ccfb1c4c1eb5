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

type bookingRepository struct {
	collection *mongo.Collection
}

func NewBookingRepository(db *mongo.Database) interfaces.BookingRepository {
	return &bookingRepository{
		collection: db.Collection(database.CollectionBookings),
	}
}

func (r *bookingRepository) Create(ctx context.Context, booking *models.Booking) error {
	now := time.Now()
	booking.ID = primitive.NewObjectID()
	booking.CreatedAt = now
	booking.UpdatedAt = now

	if _, err := r.collection.InsertOne(ctx, booking); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return utils.NewDuplicateBookingError()
		}
		return fmt.Errorf("failed to create booking: %w", err)
	}

	return nil
}

func (r *bookingRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Booking, error) {
	var booking models.Booking
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&booking)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, utils.NewNotFoundError("Booking")
		}
		return nil, fmt.Errorf("failed to get booking: %w", err)
	}

	return &booking, nil
}

func (r *bookingRepository) ExistsForRiderAndRide(ctx context.Context, userID, rideID primitive.ObjectID) (bool, error) {
	count, err := r.collection.CountDocuments(ctx,
		bson.M{"user_id": userID, "ride_id": rideID},
		options.Count().SetLimit(1),
	)
	if err != nil {
		return false, fmt.Errorf("failed to check existing booking: %w", err)
	}

	return count > 0, nil
}

func (r *bookingRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	if _, err := r.collection.DeleteOne(ctx, bson.M{"_id": id}); err != nil {
		return fmt.Errorf("failed to delete booking: %w", err)
	}

	return nil
}

func (r *bookingRepository) TransitionStatus(ctx context.Context, id primitive.ObjectID, from, to models.BookingStatus, payment models.PaymentStatus) (*models.Booking, error) {
	filter := bson.M{"_id": id, "ride_status": from}
	update := bson.M{"$set": bson.M{
		"ride_status":    to,
		"payment_status": payment,
		"updated_at":     time.Now(),
	}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var booking models.Booking
	err := r.collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&booking)
	if err == nil {
		return &booking, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("failed to update booking status: %w", err)
	}

	// Distinguish a missing booking from one that already moved on.
	if _, err := r.GetByID(ctx, id); err != nil {
		return nil, err
	}
	return nil, utils.NewInvalidStateError(notInStatusMessage(from))
}

func (r *bookingRepository) ListAll(ctx context.Context) ([]*models.Booking, error) {
	return r.find(ctx, bson.M{})
}

func (r *bookingRepository) ListByRide(ctx context.Context, rideID primitive.ObjectID) ([]*models.Booking, error) {
	return r.find(ctx, bson.M{"ride_id": rideID})
}

func (r *bookingRepository) find(ctx context.Context, filter bson.M) ([]*models.Booking, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}
	defer cursor.Close(ctx)

	bookings := make([]*models.Booking, 0)
	if err := cursor.All(ctx, &bookings); err != nil {
		return nil, fmt.Errorf("failed to decode bookings: %w", err)
	}

	return bookings, nil
}

func notInStatusMessage(status models.BookingStatus) string {
	if status == models.BookingStatusPending {
		return utils.ErrBookingNotPending
	}
	return fmt.Sprintf("Booking is no longer %s", status)
}
