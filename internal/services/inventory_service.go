package services

import (
	"context"

	"seatshare/internal/models"
	"seatshare/internal/repositories/interfaces"
	"seatshare/internal/utils"
	"seatshare/pkg/logger"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// InventoryService is the only writer of a ride's seatsAvailable.
type InventoryService interface {
	Reserve(ctx context.Context, rideID primitive.ObjectID, count int) (*models.Ride, error)
	Release(ctx context.Context, rideID primitive.ObjectID, count int) (*models.Ride, error)
}

type inventoryService struct {
	rideRepo interfaces.RideRepository
	logger   *logger.Logger
}

func NewInventoryService(rideRepo interfaces.RideRepository, logger *logger.Logger) InventoryService {
	return &inventoryService{
		rideRepo: rideRepo,
		logger:   logger,
	}
}

func (s *inventoryService) Reserve(ctx context.Context, rideID primitive.ObjectID, count int) (*models.Ride, error) {
	if count < 1 {
		return nil, utils.NewValidationError("seat count must be at least 1")
	}

	ride, err := s.rideRepo.ReserveSeats(ctx, rideID, count)
	if err != nil {
		return nil, err
	}

	s.logger.WithContext(ctx).LogRideEvent(rideID.Hex(), "seats_reserved", map[string]interface{}{
		"count":           count,
		"seats_available": ride.SeatsAvailable,
	})
	return ride, nil
}

func (s *inventoryService) Release(ctx context.Context, rideID primitive.ObjectID, count int) (*models.Ride, error) {
	if count < 1 {
		return nil, utils.NewValidationError("seat count must be at least 1")
	}

	ride, err := s.rideRepo.ReleaseSeats(ctx, rideID, count)
	if err != nil {
		return nil, err
	}

	s.logger.WithContext(ctx).LogRideEvent(rideID.Hex(), "seats_released", map[string]interface{}{
		"count":           count,
		"seats_available": ride.SeatsAvailable,
	})
	return ride, nil
}
