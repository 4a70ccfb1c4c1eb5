package validators

import (
	"seatshare/internal/models"
	"seatshare/internal/utils"
)

// ValidateCreateBooking trims the text fields in place and validates the
// rest against the struct tags. Seat totals are checked later, once the ride
// is known.
func ValidateCreateBooking(input *models.CreateBookingInput) error {
	input.RideID = SanitizeInput(input.RideID)
	input.Pickup = SanitizeInput(input.Pickup)
	input.Drop = SanitizeInput(input.Drop)
	input.PaymentRef = SanitizeInput(input.PaymentRef)

	return ValidateStruct(input).AsAppError()
}

func ParseBookingAction(action string) (models.BookingAction, error) {
	switch a := models.BookingAction(SanitizeInput(action)); a {
	case models.BookingActionConfirm, models.BookingActionReject:
		return a, nil
	default:
		return "", utils.NewValidationError(utils.ErrInvalidAction)
	}
}
