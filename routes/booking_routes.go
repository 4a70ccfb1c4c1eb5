package routes

import (
	"seatshare/internal/handlers"

	"github.com/gin-gonic/gin"
)

// SetupBookingRoutes registers the booking lifecycle. limiter guards the
// routes that write.
func SetupBookingRoutes(r *gin.RouterGroup, bookingHandler *handlers.BookingHandler, auth, limiter gin.HandlerFunc) {
	bookings := r.Group("/bookings")
	{
		bookings.POST("", auth, limiter, bookingHandler.CreateBooking)
		bookings.GET("", auth, bookingHandler.GetBookings)
		bookings.PUT("/confirm/:id", auth, limiter, bookingHandler.UpdateBookingStatus)
		bookings.GET("/:rideId", bookingHandler.GetBookingsByRide)
	}

	proofs := r.Group("/payment-proofs")
	{
		proofs.GET("/:bookingId", auth, bookingHandler.GetPaymentProof)
		proofs.GET("/:bookingId/file", auth, bookingHandler.GetPaymentProofFile)
	}
}
