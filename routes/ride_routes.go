package routes

import (
	"seatshare/internal/handlers"

	"github.com/gin-gonic/gin"
)

// SetupRideRoutes registers the ride catalog. Listing is public; publishing
// a ride needs a token.
func SetupRideRoutes(r *gin.RouterGroup, rideHandler *handlers.RideHandler, auth gin.HandlerFunc) {
	rides := r.Group("/rides")
	{
		rides.POST("", auth, rideHandler.CreateRide)
		rides.GET("", rideHandler.GetRides)
		rides.GET("/:driverId", rideHandler.GetRidesByDriver)
	}
}
