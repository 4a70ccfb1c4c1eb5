package memory

import (
	"context"
	"sync"
	"testing"

	"seatshare/internal/models"
	"seatshare/internal/utils"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func seedRide(t *testing.T, store *Store, seats int) *models.Ride {
	t.Helper()
	ride := &models.Ride{
		DriverID:       primitive.NewObjectID(),
		From:           "Pune",
		To:             "Mumbai",
		SeatsAvailable: seats,
		CapacityTotal:  seats,
		Status:         models.RideStatusActive,
	}
	if err := store.Rides().Create(context.Background(), ride); err != nil {
		t.Fatalf("create ride: %v", err)
	}
	return ride
}

func TestReserveSeatsNeverOversells(t *testing.T) {
	store := NewStore()
	ride := seedRide(t, store, 5)
	rides := store.Rides()

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
	)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := rides.ReserveSeats(context.Background(), ride.ID, 1); err == nil {
				mu.Lock()
				successes++
				mu.Unlock()
			} else if !utils.IsKind(err, utils.KindInsufficientCapacity) {
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	if successes != 5 {
		t.Fatalf("successes = %d, want 5", successes)
	}
	got, _ := rides.GetByID(context.Background(), ride.ID)
	if got.SeatsAvailable != 0 {
		t.Fatalf("seats = %d, want 0", got.SeatsAvailable)
	}
}

func TestReleaseSeatsBoundedByCapacity(t *testing.T) {
	store := NewStore()
	ride := seedRide(t, store, 3)
	rides := store.Rides()
	ctx := context.Background()

	if _, err := rides.ReserveSeats(ctx, ride.ID, 2); err != nil {
		t.Fatalf("reserve: %v", err)
	}
	if _, err := rides.ReleaseSeats(ctx, ride.ID, 3); !utils.IsKind(err, utils.KindInvalidState) {
		t.Fatalf("release over capacity err = %v", err)
	}
	got, err := rides.ReleaseSeats(ctx, ride.ID, 2)
	if err != nil {
		t.Fatalf("release: %v", err)
	}
	if got.SeatsAvailable != 3 {
		t.Fatalf("seats = %d, want 3", got.SeatsAvailable)
	}
	if _, err := rides.ReleaseSeats(ctx, primitive.NewObjectID(), 1); !utils.IsKind(err, utils.KindNotFound) {
		t.Fatalf("release on missing ride err = %v", err)
	}
}

func TestBookingPairIsUnique(t *testing.T) {
	store := NewStore()
	bookings := store.Bookings()
	ctx := context.Background()
	userID, rideID := primitive.NewObjectID(), primitive.NewObjectID()

	first := &models.Booking{UserID: userID, RideID: rideID, RideStatus: models.BookingStatusPending}
	if err := bookings.Create(ctx, first); err != nil {
		t.Fatalf("first create: %v", err)
	}
	err := bookings.Create(ctx, &models.Booking{UserID: userID, RideID: rideID})
	if !utils.IsKind(err, utils.KindDuplicateBooking) {
		t.Fatalf("second create err = %v", err)
	}

	if err := bookings.Delete(ctx, first.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	exists, _ := bookings.ExistsForRiderAndRide(ctx, userID, rideID)
	if exists {
		t.Fatal("pair still reserved after delete")
	}
}

func TestTransitionStatusOnlyFromExpectedState(t *testing.T) {
	store := NewStore()
	bookings := store.Bookings()
	ctx := context.Background()

	booking := &models.Booking{
		UserID:     primitive.NewObjectID(),
		RideID:     primitive.NewObjectID(),
		RideStatus: models.BookingStatusPending,
	}
	if err := bookings.Create(ctx, booking); err != nil {
		t.Fatalf("create: %v", err)
	}

	updated, err := bookings.TransitionStatus(ctx, booking.ID,
		models.BookingStatusPending, models.BookingStatusConfirmed, models.PaymentStatusVerified)
	if err != nil {
		t.Fatalf("transition: %v", err)
	}
	if updated.PaymentStatus != models.PaymentStatusVerified {
		t.Fatalf("payment status = %s", updated.PaymentStatus)
	}

	_, err = bookings.TransitionStatus(ctx, booking.ID,
		models.BookingStatusPending, models.BookingStatusRejected, models.PaymentStatusPending)
	if !utils.IsKind(err, utils.KindInvalidState) {
		t.Fatalf("repeat transition err = %v", err)
	}
}
