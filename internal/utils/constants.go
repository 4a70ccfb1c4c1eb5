package utils

import "time"

const (
	AppName    = "SeatShare"
	AppVersion = "1.0.0"

	// Authentication
	JWTAccessTokenTTL = 7 * 24 * time.Hour

	// File Upload
	MaxImageSize = 5 * 1024 * 1024 // 5MB

	// Payment screenshots
	MinImageSide     = 64
	MaxImageSide     = 4096
	ThumbnailMaxSide = 320
	ThumbnailQuality = 80

	// Notification
	NotificationTimeout = 30 * time.Second

	// Storage
	StorageOperationTimeout = 10 * time.Second
)

// Context keys set by middleware on the gin context.
const (
	ContextUserID    = "user_id"
	ContextUserRole  = "user_role"
	ContextRequestID = "request_id"
)

// Error Messages
const (
	ErrInternalServer       = "Server Error"
	ErrUnauthorized         = "Not authorized"
	ErrInvalidToken         = "Not authorized, token failed"
	ErrMissingToken         = "Not authorized, no token"
	ErrRideNotFound         = "Ride not found"
	ErrBookingNotFound      = "Booking not found"
	ErrDuplicateBooking     = "You have already booked this ride"
	ErrBookingFieldsMissing = "Ride, pickup, and drop are required"
	ErrNoSeatsSelected      = "At least one seat must be selected (male or female)."
	ErrInvalidAction        = "Invalid action"
	ErrInvalidBookingID     = "Invalid booking ID"
	ErrInvalidRideID        = "Invalid ride ID"
	ErrInvalidDriverID      = "Invalid driver ID"
	ErrPaymentProofRequired = "Payment screenshot is required"
	ErrBookingNotPending    = "Booking has already been processed"
	ErrNotRideDriver        = "Only the driver of this ride can update its bookings"
	ErrRateLimited          = "Too many requests, please try again later"
)
