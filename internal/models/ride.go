package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type RideStatus string

const (
	RideStatusActive    RideStatus = "active"
	RideStatusOngoing   RideStatus = "ongoing"
	RideStatusCompleted RideStatus = "completed"
)

type Vehicle struct {
	Model  string `json:"model" bson:"model"`
	Number string `json:"number" bson:"number"`
}

// Ride is a trip a driver publishes. SeatsAvailable is owned by the seat
// inventory; CapacityTotal is fixed at creation and bounds it from above.
type Ride struct {
	ID             primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	DriverID       primitive.ObjectID `json:"driverId" bson:"driver_id"`
	From           string             `json:"from" bson:"from"`
	To             string             `json:"to" bson:"to"`
	Date           string             `json:"date" bson:"date"`
	DepartureTime  string             `json:"departureTime" bson:"departure_time"`
	ArrivalTime    string             `json:"arrivalTime" bson:"arrival_time"`
	Fare           float64            `json:"fare" bson:"fare"`
	SeatsAvailable int                `json:"seatsAvailable" bson:"seats_available"`
	CapacityTotal  int                `json:"capacityTotal" bson:"capacity_total"`
	Vehicle        Vehicle            `json:"vehicle" bson:"vehicle"`
	Status         RideStatus         `json:"status" bson:"status"`
	CreatedAt      time.Time          `json:"createdAt" bson:"created_at"`
	UpdatedAt      time.Time          `json:"updatedAt" bson:"updated_at"`
}

// RideView is a ride with its driver attached, as listed by GET /rides.
type RideView struct {
	*Ride
	Driver *UserSummary `json:"driver,omitempty"`
}

type CreateRideInput struct {
	From           string  `json:"from" validate:"required"`
	To             string  `json:"to" validate:"required"`
	Date           string  `json:"date" validate:"required"`
	DepartureTime  string  `json:"departureTime"`
	ArrivalTime    string  `json:"arrivalTime"`
	Fare           float64 `json:"fare" validate:"fare_amount"`
	SeatsAvailable int     `json:"seatsAvailable" validate:"gte=1"`
	Vehicle        Vehicle `json:"vehicle"`
}
