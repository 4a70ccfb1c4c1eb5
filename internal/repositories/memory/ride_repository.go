package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"seatshare/internal/models"
	"seatshare/internal/utils"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type rideRepository struct {
	store *Store
}

func (r *rideRepository) Create(ctx context.Context, ride *models.Ride) error {
	now := time.Now()
	ride.ID = primitive.NewObjectID()
	ride.CreatedAt = now
	ride.UpdatedAt = now

	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	stored := *ride
	r.store.rides[ride.ID] = &stored
	return nil
}

func (r *rideRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Ride, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	ride, ok := r.store.rides[id]
	if !ok {
		return nil, utils.NewNotFoundError("Ride")
	}
	out := *ride
	return &out, nil
}

func (r *rideRepository) List(ctx context.Context) ([]*models.Ride, error) {
	return r.filter(func(*models.Ride) bool { return true }), nil
}

func (r *rideRepository) ListByDriver(ctx context.Context, driverID primitive.ObjectID) ([]*models.Ride, error) {
	return r.filter(func(ride *models.Ride) bool { return ride.DriverID == driverID }), nil
}

func (r *rideRepository) ReserveSeats(ctx context.Context, id primitive.ObjectID, count int) (*models.Ride, error) {
	if count < 1 {
		return nil, utils.NewValidationError("seat count must be at least 1")
	}
	return r.adjust(id, func(ride *models.Ride) error {
		if ride.SeatsAvailable < count {
			return utils.NewInsufficientCapacityError(ride.SeatsAvailable)
		}
		ride.SeatsAvailable -= count
		return nil
	})
}

func (r *rideRepository) ReleaseSeats(ctx context.Context, id primitive.ObjectID, count int) (*models.Ride, error) {
	if count < 1 {
		return nil, utils.NewValidationError("seat count must be at least 1")
	}
	return r.adjust(id, func(ride *models.Ride) error {
		if ride.SeatsAvailable+count > ride.CapacityTotal {
			return utils.NewInvalidStateError(fmt.Sprintf(
				"Releasing %d seats would exceed the ride capacity of %d", count, ride.CapacityTotal))
		}
		ride.SeatsAvailable += count
		return nil
	})
}

// adjust applies fn to the stored ride while holding that ride's lock, so the
// check inside fn and the write it makes happen as one step.
func (r *rideRepository) adjust(id primitive.ObjectID, fn func(ride *models.Ride) error) (*models.Ride, error) {
	lock := r.store.rideLock(id)
	lock.Lock()
	defer lock.Unlock()

	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	ride, ok := r.store.rides[id]
	if !ok {
		return nil, utils.NewNotFoundError("Ride")
	}
	if err := fn(ride); err != nil {
		return nil, err
	}
	ride.UpdatedAt = time.Now()

	out := *ride
	return &out, nil
}

func (r *rideRepository) filter(keep func(*models.Ride) bool) []*models.Ride {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	rides := make([]*models.Ride, 0)
	for _, ride := range r.store.rides {
		if keep(ride) {
			out := *ride
			rides = append(rides, &out)
		}
	}
	sort.Slice(rides, func(i, j int) bool {
		return rides[i].CreatedAt.After(rides[j].CreatedAt)
	})
	return rides
}
