package validators

import (
	"fmt"
	"strings"

	"seatshare/internal/utils"

	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var validate *validator.Validate

func init() {
	validate = validator.New()

	validate.RegisterValidation("object_id", validateObjectID)
	validate.RegisterValidation("fare_amount", validateFareAmount)
}

// ValidationError represents a field validation error
type ValidationError struct {
	Field   string `json:"field"`
	Tag     string `json:"tag"`
	Value   string `json:"value"`
	Message string `json:"message"`
}

type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	var messages []string
	for _, err := range v {
		messages = append(messages, err.Message)
	}
	return strings.Join(messages, "; ")
}

// AsAppError reports the first failing field as a Validation error, or nil
// when there are none. Fields are checked in declaration order.
func (v ValidationErrors) AsAppError() error {
	if len(v) == 0 {
		return nil
	}
	return utils.NewValidationError(v[0].Message)
}

// ValidateStruct validates a struct and returns detailed errors
func ValidateStruct(s interface{}) ValidationErrors {
	var validationErrors ValidationErrors

	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	fieldErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return ValidationErrors{{Message: err.Error()}}
	}

	for _, fe := range fieldErrors {
		validationErrors = append(validationErrors, ValidationError{
			Field:   fe.Field(),
			Tag:     fe.Tag(),
			Value:   fmt.Sprintf("%v", fe.Value()),
			Message: getErrorMessage(fe),
		})
	}

	return validationErrors
}

// fieldMessages overrides the generic text for a struct field and tag,
// keyed "Struct.Field.tag".
var fieldMessages = map[string]string{
	"CreateBookingInput.RideID.required":     utils.ErrBookingFieldsMissing,
	"CreateBookingInput.Pickup.required":     utils.ErrBookingFieldsMissing,
	"CreateBookingInput.Drop.required":       utils.ErrBookingFieldsMissing,
	"CreateBookingInput.RideID.object_id":    utils.ErrInvalidRideID,
	"CreateBookingInput.MaleSeats.gte":       "Seat counts cannot be negative",
	"CreateBookingInput.FemaleSeats.gte":     "Seat counts cannot be negative",
	"CreateBookingInput.TotalFare.gte":       "Total fare cannot be negative",
	"CreateBookingInput.PaymentRef.required": utils.ErrPaymentProofRequired,

	"CreateRideInput.From.required":      errRideFieldsMissing,
	"CreateRideInput.To.required":        errRideFieldsMissing,
	"CreateRideInput.Date.required":      errRideFieldsMissing,
	"CreateRideInput.SeatsAvailable.gte": "A ride must offer at least one seat",

}

func getErrorMessage(err validator.FieldError) string {
	if msg, ok := fieldMessages[err.StructNamespace()+"."+err.Tag()]; ok {
		return msg
	}

	switch err.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", err.Field())
	case "object_id":
		return fmt.Sprintf("Invalid %s", err.Field())
	case "gte":
		return fmt.Sprintf("%s must be at least %s", err.Field(), err.Param())
	case "fare_amount":
		return "Invalid fare amount"
	default:
		return fmt.Sprintf("Validation failed for %s", err.Field())
	}
}

func validateObjectID(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true // Let required tag handle empty values
	}
	return IsValidObjectID(value)
}

func validateFareAmount(fl validator.FieldLevel) bool {
	fare := fl.Field().Float()
	return fare >= 0 && fare <= 1_000_000
}

func IsValidObjectID(id string) bool {
	_, err := primitive.ObjectIDFromHex(id)
	return err == nil
}

// ParseObjectID parses a path or form id, reporting failures as a Validation
// error carrying message.
func ParseObjectID(id, message string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(strings.TrimSpace(id))
	if err != nil {
		return primitive.NilObjectID, utils.NewValidationError(message)
	}
	return oid, nil
}

func SanitizeInput(input string) string {
	return strings.TrimSpace(input)
}
