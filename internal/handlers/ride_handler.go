package handlers

import (
	"seatshare/internal/middleware"
	"seatshare/internal/models"
	"seatshare/internal/services"
	"seatshare/internal/utils"
	"seatshare/pkg/logger"

	"github.com/gin-gonic/gin"
)

type RideHandler struct {
	rideService services.RideService
	logger      *logger.Logger
	debug       bool
}

func NewRideHandler(rideService services.RideService, logger *logger.Logger, debug bool) *RideHandler {
	return &RideHandler{
		rideService: rideService,
		logger:      logger,
		debug:       debug,
	}
}

// CreateRide publishes a ride for the authenticated driver.
func (h *RideHandler) CreateRide(c *gin.Context) {
	driverID, ok := middleware.CurrentUserID(c)
	if !ok {
		utils.UnauthorizedResponse(c, utils.ErrUnauthorized)
		return
	}

	var input models.CreateRideInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.BadRequestResponse(c, "Invalid ride details")
		return
	}

	ride, err := h.rideService.Create(c.Request.Context(), driverID, &input)
	if err != nil {
		respondError(c, h.logger, h.debug, err)
		return
	}

	utils.CreatedResponse(c, "Ride created", ride)
}

func (h *RideHandler) GetRides(c *gin.Context) {
	rides, err := h.rideService.List(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, h.debug, err)
		return
	}

	utils.SuccessResponse(c, "All rides", rides)
}

func (h *RideHandler) GetRidesByDriver(c *gin.Context) {
	rides, err := h.rideService.ListByDriver(c.Request.Context(), c.Param("driverId"))
	if err != nil {
		respondError(c, h.logger, h.debug, err)
		return
	}

	if len(rides) == 0 {
		utils.SuccessResponse(c, "No rides found for this driver", rides)
		return
	}
	utils.SuccessResponse(c, "Rides fetched successfully", rides)
}
