package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type BookingStatus string
type PaymentStatus string
type BookingAction string

const (
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusRejected  BookingStatus = "rejected"
	BookingStatusCompleted BookingStatus = "completed"

	PaymentStatusPending  PaymentStatus = "pending"
	PaymentStatusVerified PaymentStatus = "verified"

	BookingActionConfirm BookingAction = "confirm"
	BookingActionReject  BookingAction = "reject"
)

type SeatBreakdown struct {
	Male   int `json:"male" bson:"male"`
	Female int `json:"female" bson:"female"`
}

func (s SeatBreakdown) Total() int {
	return s.Male + s.Female
}

type Booking struct {
	ID                   primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	UserID               primitive.ObjectID `json:"userId" bson:"user_id"`
	RideID               primitive.ObjectID `json:"rideId" bson:"ride_id"`
	Pickup               string             `json:"pickup" bson:"pickup"`
	Drop                 string             `json:"drop" bson:"drop"`
	Seats                SeatBreakdown      `json:"seats" bson:"seats"`
	TotalSeats           int                `json:"totalSeats" bson:"total_seats"`
	TotalFare            float64            `json:"totalFare" bson:"total_fare"`
	PaymentScreenshotURL string             `json:"paymentScreenshotUrl" bson:"payment_screenshot_url"`
	PaymentStatus        PaymentStatus      `json:"paymentStatus" bson:"payment_status"`
	RideStatus           BookingStatus      `json:"rideStatus" bson:"ride_status"`
	CreatedAt            time.Time          `json:"createdAt" bson:"created_at"`
	UpdatedAt            time.Time          `json:"updatedAt" bson:"updated_at"`
}

// BookingView is a booking with its rider and ride attached.
type BookingView struct {
	*Booking
	Rider *UserSummary `json:"rider,omitempty"`
	Ride  *Ride        `json:"ride,omitempty"`
}

type CreateBookingInput struct {
	RideID      string  `form:"rideId" json:"rideId" validate:"required,object_id"`
	Pickup      string  `form:"pickup" json:"pickup" validate:"required"`
	Drop        string  `form:"drop" json:"drop" validate:"required"`
	MaleSeats   int     `form:"maleSeats" json:"maleSeats" validate:"gte=0"`
	FemaleSeats int     `form:"femaleSeats" json:"femaleSeats" validate:"gte=0"`
	TotalFare   float64 `form:"totalFare" json:"totalFare" validate:"gte=0"`
	// Older clients still send totalSeats; it is ignored and
	// recomputed from the seat breakdown.
	TotalSeats int    `form:"totalSeats" json:"totalSeats"`
	PaymentRef string `form:"-" json:"-" validate:"required"`
}

type UpdateBookingStatusInput struct {
	Action BookingAction `json:"action" form:"action"`
}
