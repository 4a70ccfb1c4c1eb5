package services

import (
	"context"

	"seatshare/internal/models"
	"seatshare/internal/repositories/interfaces"
	"seatshare/internal/utils"
	"seatshare/internal/validators"
	"seatshare/pkg/logger"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type RideService interface {
	Create(ctx context.Context, driverID primitive.ObjectID, input *models.CreateRideInput) (*models.Ride, error)
	List(ctx context.Context) ([]*models.RideView, error)
	ListByDriver(ctx context.Context, driverID string) ([]*models.RideView, error)
}

type rideService struct {
	rideRepo interfaces.RideRepository
	userRepo interfaces.UserRepository
	logger   *logger.Logger
}

func NewRideService(rideRepo interfaces.RideRepository, userRepo interfaces.UserRepository, logger *logger.Logger) RideService {
	return &rideService{
		rideRepo: rideRepo,
		userRepo: userRepo,
		logger:   logger,
	}
}

func (s *rideService) Create(ctx context.Context, driverID primitive.ObjectID, input *models.CreateRideInput) (*models.Ride, error) {
	if err := validators.ValidateCreateRide(input); err != nil {
		return nil, err
	}

	ride := &models.Ride{
		DriverID:       driverID,
		From:           input.From,
		To:             input.To,
		Date:           input.Date,
		DepartureTime:  input.DepartureTime,
		ArrivalTime:    input.ArrivalTime,
		Fare:           input.Fare,
		SeatsAvailable: input.SeatsAvailable,
		CapacityTotal:  input.SeatsAvailable,
		Vehicle:        input.Vehicle,
		Status:         models.RideStatusActive,
	}

	if err := s.rideRepo.Create(ctx, ride); err != nil {
		return nil, utils.NewInternalError("failed to create ride", err)
	}

	s.logger.WithContext(ctx).WithUserID(driverID.Hex()).LogRideEvent(ride.ID.Hex(), "ride_created", map[string]interface{}{
		"from":  ride.From,
		"to":    ride.To,
		"date":  ride.Date,
		"seats": ride.CapacityTotal,
	})

	return ride, nil
}

func (s *rideService) List(ctx context.Context) ([]*models.RideView, error) {
	rides, err := s.rideRepo.List(ctx)
	if err != nil {
		return nil, utils.NewInternalError("failed to list rides", err)
	}
	return s.withDrivers(ctx, rides)
}

func (s *rideService) ListByDriver(ctx context.Context, driverID string) ([]*models.RideView, error) {
	id, err := validators.ParseObjectID(driverID, utils.ErrInvalidDriverID)
	if err != nil {
		return nil, err
	}

	rides, err := s.rideRepo.ListByDriver(ctx, id)
	if err != nil {
		return nil, utils.NewInternalError("failed to list driver rides", err)
	}
	return s.withDrivers(ctx, rides)
}

func (s *rideService) withDrivers(ctx context.Context, rides []*models.Ride) ([]*models.RideView, error) {
	views := make([]*models.RideView, 0, len(rides))
	if len(rides) == 0 {
		return views, nil
	}

	ids := make([]primitive.ObjectID, 0, len(rides))
	seen := make(map[primitive.ObjectID]bool, len(rides))
	for _, ride := range rides {
		if !seen[ride.DriverID] {
			seen[ride.DriverID] = true
			ids = append(ids, ride.DriverID)
		}
	}

	drivers, err := s.userRepo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, utils.NewInternalError("failed to load drivers", err)
	}

	for _, ride := range rides {
		views = append(views, &models.RideView{Ride: ride, Driver: drivers[ride.DriverID].Summary()})
	}
	return views, nil
}
