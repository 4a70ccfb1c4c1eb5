package validators

import "seatshare/internal/models"

const errRideFieldsMissing = "From, to, and date are required"

// ValidateCreateRide trims the text fields in place and validates the
// rest against the struct tags.
func ValidateCreateRide(input *models.CreateRideInput) error {
	input.From = SanitizeInput(input.From)
	input.To = SanitizeInput(input.To)
	input.Date = SanitizeInput(input.Date)
	input.DepartureTime = SanitizeInput(input.DepartureTime)
	input.ArrivalTime = SanitizeInput(input.ArrivalTime)
	input.Vehicle.Model = SanitizeInput(input.Vehicle.Model)
	input.Vehicle.Number = SanitizeInput(input.Vehicle.Number)

	return ValidateStruct(input).AsAppError()
}
