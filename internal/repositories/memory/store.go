// Package memory keeps rides, bookings and users in process. It is used for
// local runs without MongoDB and as the backing store in service tests, and
// gives the same guarantees as the MongoDB repositories: seat changes on a
// ride are serialized and (user, ride) pairs are unique.
package memory

import (
	"context"
	"sync"
	"time"

	"seatshare/internal/models"
	"seatshare/internal/repositories/interfaces"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type bookingKey struct {
	userID primitive.ObjectID
	rideID primitive.ObjectID
}

type Store struct {
	mu       sync.RWMutex
	rides    map[primitive.ObjectID]*models.Ride
	bookings map[primitive.ObjectID]*models.Booking
	pairs    map[bookingKey]primitive.ObjectID
	users    map[primitive.ObjectID]*models.User

	rideLocks sync.Map
}

func NewStore() *Store {
	return &Store{
		rides:    make(map[primitive.ObjectID]*models.Ride),
		bookings: make(map[primitive.ObjectID]*models.Booking),
		pairs:    make(map[bookingKey]primitive.ObjectID),
		users:    make(map[primitive.ObjectID]*models.User),
	}
}

func (s *Store) Rides() interfaces.RideRepository       { return &rideRepository{store: s} }
func (s *Store) Bookings() interfaces.BookingRepository { return &bookingRepository{store: s} }
func (s *Store) Users() interfaces.UserRepository       { return &userRepository{store: s} }
func (s *Store) Transactor() interfaces.Transactor      { return transactor{} }

// PutUser seeds a user; the service never writes users itself.
func (s *Store) PutUser(user *models.User) {
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	now := time.Now()
	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.users[user.ID]; ok {
		user.CreatedAt = existing.CreatedAt
	} else if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	user.UpdatedAt = now
	u := *user
	s.users[u.ID] = &u
}

func (s *Store) rideLock(id primitive.ObjectID) *sync.Mutex {
	lock, _ := s.rideLocks.LoadOrStore(id, &sync.Mutex{})
	return lock.(*sync.Mutex)
}

type transactor struct{}

func (transactor) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}
