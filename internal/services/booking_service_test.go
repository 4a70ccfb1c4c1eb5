package services

import (
	"context"
	"io"
	"sync"
	"testing"

	"seatshare/internal/models"
	"seatshare/internal/repositories/memory"
	"seatshare/internal/utils"
	"seatshare/pkg/logger"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type bookingFixture struct {
	store     *memory.Store
	service   BookingService
	notifier  *recordingNotifier
	inventory *failingInventory
	driver    *models.User
	ride      *models.Ride
}

func newBookingFixture(t *testing.T, seats int) *bookingFixture {
	t.Helper()

	store := memory.NewStore()
	log := logger.NewNop()

	driver := &models.User{Name: "Ravi", Email: "ravi@example.com", Phone: "9800000001", Role: models.UserRoleDriver}
	store.PutUser(driver)

	ride := &models.Ride{
		DriverID:       driver.ID,
		From:           "Pune",
		To:             "Mumbai",
		Date:           "2026-10-20",
		Fare:           450,
		SeatsAvailable: seats,
		CapacityTotal:  seats,
		Status:         models.RideStatusActive,
	}
	if err := store.Rides().Create(context.Background(), ride); err != nil {
		t.Fatalf("seed ride: %v", err)
	}

	notifier := &recordingNotifier{}
	inventory := &failingInventory{InventoryService: NewInventoryService(store.Rides(), log)}
	service := NewBookingService(
		store.Bookings(), store.Rides(), store.Users(), store.Transactor(),
		inventory, notifier, &stubUploads{}, log,
	)

	return &bookingFixture{
		store:     store,
		service:   service,
		notifier:  notifier,
		inventory: inventory,
		driver:    driver,
		ride:      ride,
	}
}

func (f *bookingFixture) newRider(name string) primitive.ObjectID {
	rider := &models.User{Name: name, Email: name + "@example.com", Phone: "9811111111", Role: models.UserRoleRider}
	f.store.PutUser(rider)
	return rider.ID
}

func (f *bookingFixture) input(male, female int) *models.CreateBookingInput {
	return &models.CreateBookingInput{
		RideID:      f.ride.ID.Hex(),
		Pickup:      "Hinjewadi",
		Drop:        "Dadar",
		MaleSeats:   male,
		FemaleSeats: female,
		TotalFare:   900,
		PaymentRef:  "payments/x/proof.png",
	}
}

func (f *bookingFixture) seats(t *testing.T) int {
	t.Helper()
	ride, err := f.store.Rides().GetByID(context.Background(), f.ride.ID)
	if err != nil {
		t.Fatalf("load ride: %v", err)
	}
	return ride.SeatsAvailable
}

func TestCreateBookingRecomputesTotalAndReservesSeats(t *testing.T) {
	f := newBookingFixture(t, 4)
	rider := f.newRider("asha")

	input := f.input(1, 1)
	input.TotalSeats = 7
	booking, err := f.service.Create(context.Background(), rider, input)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if booking.TotalSeats != 2 {
		t.Fatalf("totalSeats = %d, want 2", booking.TotalSeats)
	}
	if booking.RideStatus != models.BookingStatusPending || booking.PaymentStatus != models.PaymentStatusPending {
		t.Fatalf("statuses = %s/%s", booking.RideStatus, booking.PaymentStatus)
	}
	if got := f.seats(t); got != 2 {
		t.Fatalf("seatsAvailable = %d, want 2", got)
	}

	events := f.notifier.Events()
	if len(events) != 1 || events[0].Type != models.BookingEventCreated || events[0].Recipient != f.driver.ID {
		t.Fatalf("events = %+v", events)
	}
	if events[0].Ride.SeatsAvailable != 2 {
		t.Fatalf("event ride snapshot seats = %d", events[0].Ride.SeatsAvailable)
	}
}

func TestCreateBookingCapacityScenario(t *testing.T) {
	f := newBookingFixture(t, 4)
	ctx := context.Background()
	first := f.newRider("first")
	second := f.newRider("second")

	booking, err := f.service.Create(ctx, first, f.input(2, 1))
	if err != nil {
		t.Fatalf("first booking: %v", err)
	}

	_, err = f.service.Create(ctx, second, f.input(1, 1))
	if !utils.IsKind(err, utils.KindInsufficientCapacity) {
		t.Fatalf("second booking err = %v, want insufficient capacity", err)
	}
	if utils.PublicMessage(err) != "Only 1 seats are available for booking" {
		t.Fatalf("message = %q", utils.PublicMessage(err))
	}

	if _, err := f.service.Transition(ctx, booking.ID.Hex(), f.driver.ID, "reject"); err != nil {
		t.Fatalf("reject: %v", err)
	}
	if got := f.seats(t); got != 4 {
		t.Fatalf("seats after reject = %d, want 4", got)
	}

	if _, err := f.service.Create(ctx, second, f.input(1, 1)); err != nil {
		t.Fatalf("second booking after release: %v", err)
	}
	if got := f.seats(t); got != 2 {
		t.Fatalf("seats = %d, want 2", got)
	}
}

func TestCreateBookingRejectsDuplicate(t *testing.T) {
	f := newBookingFixture(t, 4)
	ctx := context.Background()
	rider := f.newRider("asha")

	if _, err := f.service.Create(ctx, rider, f.input(1, 0)); err != nil {
		t.Fatalf("first: %v", err)
	}
	_, err := f.service.Create(ctx, rider, f.input(1, 0))
	if !utils.IsKind(err, utils.KindDuplicateBooking) {
		t.Fatalf("err = %v, want duplicate", err)
	}
	if got := f.seats(t); got != 3 {
		t.Fatalf("seats = %d, duplicate must not reserve", got)
	}
}

func TestCreateBookingValidation(t *testing.T) {
	f := newBookingFixture(t, 4)
	ctx := context.Background()
	rider := f.newRider("asha")

	_, err := f.service.Create(ctx, rider, f.input(0, 0))
	if utils.PublicMessage(err) != utils.ErrNoSeatsSelected {
		t.Fatalf("zero seats err = %v", err)
	}

	input := f.input(1, 0)
	input.RideID = primitive.NewObjectID().Hex()
	_, err = f.service.Create(ctx, rider, input)
	if !utils.IsKind(err, utils.KindNotFound) || utils.PublicMessage(err) != utils.ErrRideNotFound {
		t.Fatalf("unknown ride err = %v", err)
	}

	input = f.input(1, 0)
	input.Drop = ""
	_, err = f.service.Create(ctx, rider, input)
	if utils.PublicMessage(err) != utils.ErrBookingFieldsMissing {
		t.Fatalf("missing drop err = %v", err)
	}

	if got := f.seats(t); got != 4 {
		t.Fatalf("seats = %d after failed creates", got)
	}
}

func TestCreateBookingUndoesInsertWhenReservationFails(t *testing.T) {
	f := newBookingFixture(t, 4)
	rider := f.newRider("asha")
	f.inventory.failReserve = true

	_, err := f.service.Create(context.Background(), rider, f.input(1, 0))
	if err == nil {
		t.Fatal("expected reservation failure")
	}

	exists, _ := f.store.Bookings().ExistsForRiderAndRide(context.Background(), rider, f.ride.ID)
	if exists {
		t.Fatal("booking left behind after failed reservation")
	}
	if len(f.notifier.Events()) != 0 {
		t.Fatal("notification sent for failed booking")
	}
}

func TestConcurrentBookingsNeverOversell(t *testing.T) {
	const capacity, riders = 5, 25
	f := newBookingFixture(t, capacity)

	ids := make([]primitive.ObjectID, riders)
	for i := range ids {
		ids[i] = f.newRider("rider")
	}

	var (
		wg           sync.WaitGroup
		mu           sync.Mutex
		successes    int
		insufficient int
	)
	for _, id := range ids {
		wg.Add(1)
		go func(rider primitive.ObjectID) {
			defer wg.Done()
			_, err := f.service.Create(context.Background(), rider, f.input(1, 0))
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				successes++
			case utils.IsKind(err, utils.KindInsufficientCapacity):
				insufficient++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}(id)
	}
	wg.Wait()

	if successes != capacity || insufficient != riders-capacity {
		t.Fatalf("successes = %d, insufficient = %d", successes, insufficient)
	}
	if got := f.seats(t); got != 0 {
		t.Fatalf("seatsAvailable = %d, want 0", got)
	}
	bookings, _ := f.store.Bookings().ListByRide(context.Background(), f.ride.ID)
	if len(bookings) != capacity {
		t.Fatalf("persisted bookings = %d, want %d", len(bookings), capacity)
	}
}

func TestTransitionConfirmOnlyOnce(t *testing.T) {
	f := newBookingFixture(t, 4)
	ctx := context.Background()
	rider := f.newRider("asha")

	booking, err := f.service.Create(ctx, rider, f.input(1, 1))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	updated, err := f.service.Transition(ctx, booking.ID.Hex(), f.driver.ID, "confirm")
	if err != nil {
		t.Fatalf("confirm: %v", err)
	}
	if updated.RideStatus != models.BookingStatusConfirmed || updated.PaymentStatus != models.PaymentStatusVerified {
		t.Fatalf("statuses = %s/%s", updated.RideStatus, updated.PaymentStatus)
	}
	if got := f.seats(t); got != 2 {
		t.Fatalf("confirm changed seats: %d", got)
	}

	_, err = f.service.Transition(ctx, booking.ID.Hex(), f.driver.ID, "reject")
	if !utils.IsKind(err, utils.KindInvalidState) {
		t.Fatalf("reject after confirm err = %v", err)
	}
	if got := f.seats(t); got != 2 {
		t.Fatalf("seats released after confirm: %d", got)
	}

	events := f.notifier.Events()
	last := events[len(events)-1]
	if last.Type != models.BookingEventConfirmed || last.Recipient != rider {
		t.Fatalf("last event = %+v", last)
	}
}

func TestTransitionRejectReleasesExactlyOnce(t *testing.T) {
	f := newBookingFixture(t, 4)
	ctx := context.Background()
	rider := f.newRider("asha")

	booking, err := f.service.Create(ctx, rider, f.input(2, 0))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	var wg sync.WaitGroup
	results := make(chan error, 5)
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.service.Transition(ctx, booking.ID.Hex(), f.driver.ID, "reject")
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	ok := 0
	for err := range results {
		if err == nil {
			ok++
		} else if !utils.IsKind(err, utils.KindInvalidState) {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if ok != 1 {
		t.Fatalf("successful rejects = %d, want 1", ok)
	}
	if got := f.seats(t); got != 4 {
		t.Fatalf("seats = %d, want 4", got)
	}
}

func TestTransitionChecks(t *testing.T) {
	f := newBookingFixture(t, 4)
	ctx := context.Background()
	rider := f.newRider("asha")

	booking, err := f.service.Create(ctx, rider, f.input(1, 0))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	cases := []struct {
		name   string
		id     string
		caller primitive.ObjectID
		action string
		kind   utils.ErrorKind
	}{
		{"malformed id", "123", f.driver.ID, "confirm", utils.KindValidation},
		{"unknown action", booking.ID.Hex(), f.driver.ID, "cancel", utils.KindValidation},
		{"missing booking", primitive.NewObjectID().Hex(), f.driver.ID, "confirm", utils.KindNotFound},
		{"not the driver", booking.ID.Hex(), rider, "confirm", utils.KindUnauthorized},
	}
	for _, tc := range cases {
		_, err := f.service.Transition(ctx, tc.id, tc.caller, tc.action)
		if !utils.IsKind(err, tc.kind) {
			t.Fatalf("%s: err = %v, want %s", tc.name, err, tc.kind)
		}
	}
}

func TestTransitionRevertsWhenReleaseFails(t *testing.T) {
	f := newBookingFixture(t, 4)
	ctx := context.Background()
	rider := f.newRider("asha")

	booking, err := f.service.Create(ctx, rider, f.input(1, 0))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	f.inventory.failRelease = true
	if _, err := f.service.Transition(ctx, booking.ID.Hex(), f.driver.ID, "reject"); err == nil {
		t.Fatal("expected release failure")
	}

	stored, _ := f.store.Bookings().GetByID(ctx, booking.ID)
	if stored.RideStatus != models.BookingStatusPending {
		t.Fatalf("booking status = %s, want pending", stored.RideStatus)
	}

	f.inventory.failRelease = false
	if _, err := f.service.Transition(ctx, booking.ID.Hex(), f.driver.ID, "reject"); err != nil {
		t.Fatalf("retry reject: %v", err)
	}
	if got := f.seats(t); got != 4 {
		t.Fatalf("seats = %d, want 4", got)
	}
}

func TestListByRideExpandsRelations(t *testing.T) {
	f := newBookingFixture(t, 4)
	ctx := context.Background()
	rider := f.newRider("asha")

	if _, err := f.service.Create(ctx, rider, f.input(1, 0)); err != nil {
		t.Fatalf("Create: %v", err)
	}

	views, err := f.service.ListByRide(ctx, f.ride.ID.Hex())
	if err != nil {
		t.Fatalf("ListByRide: %v", err)
	}
	if len(views) != 1 {
		t.Fatalf("len = %d", len(views))
	}
	if views[0].Rider == nil || views[0].Rider.Name != "asha" || views[0].Rider.Phone == "" {
		t.Fatalf("rider = %+v", views[0].Rider)
	}
	if views[0].Ride == nil || views[0].Ride.ID != f.ride.ID {
		t.Fatalf("ride = %+v", views[0].Ride)
	}

	empty, err := f.service.ListByRide(ctx, primitive.NewObjectID().Hex())
	if err != nil || empty == nil || len(empty) != 0 {
		t.Fatalf("empty ride = %v, %v", empty, err)
	}

	if _, err := f.service.ListByRide(ctx, "nope"); !utils.IsKind(err, utils.KindValidation) {
		t.Fatalf("malformed ride id err = %v", err)
	}
}

func TestPaymentProofAccess(t *testing.T) {
	f := newBookingFixture(t, 4)
	ctx := context.Background()
	rider := f.newRider("asha")

	booking, err := f.service.Create(ctx, rider, f.input(1, 0))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	for _, caller := range []primitive.ObjectID{rider, f.driver.ID} {
		links, err := f.service.PaymentProof(ctx, booking.ID.Hex(), caller)
		if err != nil {
			t.Fatalf("caller %s: %v", caller.Hex(), err)
		}
		if links.URL != "https://files.example.com/"+booking.PaymentScreenshotURL || links.HasThumbnail {
			t.Fatalf("links = %+v", links)
		}
	}

	file, err := f.service.OpenPaymentProof(ctx, booking.ID.Hex(), f.driver.ID, false)
	if err != nil {
		t.Fatalf("OpenPaymentProof: %v", err)
	}
	body, _ := io.ReadAll(file.Reader)
	file.Reader.Close()
	if string(body) != "proof:"+booking.PaymentScreenshotURL || file.ContentType != "image/png" {
		t.Fatalf("opened %q as %s", body, file.ContentType)
	}

	stranger := primitive.NewObjectID()
	if _, err := f.service.PaymentProof(ctx, booking.ID.Hex(), stranger); !utils.IsKind(err, utils.KindUnauthorized) {
		t.Fatalf("stranger err = %v", err)
	}
	if _, err := f.service.OpenPaymentProof(ctx, booking.ID.Hex(), stranger, true); !utils.IsKind(err, utils.KindUnauthorized) {
		t.Fatalf("stranger open err = %v", err)
	}
}
