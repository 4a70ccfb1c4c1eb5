package handlers

import (
	"net/http"
	"strings"

	"seatshare/internal/middleware"
	"seatshare/internal/models"
	"seatshare/internal/services"
	"seatshare/internal/utils"
	"seatshare/pkg/logger"

	"github.com/gin-gonic/gin"
)

const (
	paymentScreenshotField = "paymentScreenshot"
	thumbnailQuery         = "thumbnail"
)

type BookingHandler struct {
	bookingService services.BookingService
	uploadService  services.UploadService
	logger         *logger.Logger
	debug          bool
}

func NewBookingHandler(bookingService services.BookingService, uploadService services.UploadService, logger *logger.Logger, debug bool) *BookingHandler {
	return &BookingHandler{
		bookingService: bookingService,
		uploadService:  uploadService,
		logger:         logger,
		debug:          debug,
	}
}

// CreateBooking takes a multipart form with the booking fields and the
// payment screenshot.
func (h *BookingHandler) CreateBooking(c *gin.Context) {
	riderID, ok := middleware.CurrentUserID(c)
	if !ok {
		utils.UnauthorizedResponse(c, utils.ErrUnauthorized)
		return
	}

	var input models.CreateBookingInput
	if err := c.ShouldBind(&input); err != nil {
		utils.BadRequestResponse(c, "Invalid booking details")
		return
	}

	// Without a file the reference stays empty and the lifecycle reports it
	// after the field checks.
	if fileHeader, err := c.FormFile(paymentScreenshotField); err == nil {
		file, err := fileHeader.Open()
		if err != nil {
			respondError(c, h.logger, h.debug, utils.NewInternalError("failed to open payment screenshot", err))
			return
		}
		defer file.Close()

		ref, err := h.uploadService.StorePaymentProof(c.Request.Context(), riderID, &services.FileUpload{
			Filename: fileHeader.Filename,
			Size:     fileHeader.Size,
			Reader:   file,
		})
		if err != nil {
			respondError(c, h.logger, h.debug, err)
			return
		}
		input.PaymentRef = ref
	}

	booking, err := h.bookingService.Create(c.Request.Context(), riderID, &input)
	if err != nil {
		h.uploadService.Discard(c.Request.Context(), input.PaymentRef)
		respondError(c, h.logger, h.debug, err)
		return
	}

	utils.CreatedResponse(c, "Booking submitted successfully", booking)
}

func (h *BookingHandler) GetBookings(c *gin.Context) {
	bookings, err := h.bookingService.ListAll(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, h.debug, err)
		return
	}

	utils.SuccessResponse(c, "Driver bookings retrieved", bookings)
}

func (h *BookingHandler) GetBookingsByRide(c *gin.Context) {
	bookings, err := h.bookingService.ListByRide(c.Request.Context(), c.Param("rideId"))
	if err != nil {
		respondError(c, h.logger, h.debug, err)
		return
	}

	if len(bookings) == 0 {
		utils.SuccessResponse(c, "No bookings found for this ride", bookings)
		return
	}
	utils.SuccessResponse(c, "Bookings fetched successfully", bookings)
}

// UpdateBookingStatus lets the ride's driver confirm or reject a pending
// booking.
func (h *BookingHandler) UpdateBookingStatus(c *gin.Context) {
	driverID, ok := middleware.CurrentUserID(c)
	if !ok {
		utils.UnauthorizedResponse(c, utils.ErrUnauthorized)
		return
	}

	var input models.UpdateBookingStatusInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.BadRequestResponse(c, utils.ErrInvalidAction)
		return
	}

	booking, err := h.bookingService.Transition(c.Request.Context(), c.Param("id"), driverID, string(input.Action))
	if err != nil {
		respondError(c, h.logger, h.debug, err)
		return
	}

	message := "Booking confirmed successfully"
	if booking.RideStatus == models.BookingStatusRejected {
		message = "Booking rejected successfully"
	}
	utils.SuccessResponse(c, message, booking)
}

// GetPaymentProof returns links to the booking's payment screenshot. When
// the storage provider has no direct links they point at GetPaymentProofFile.
func (h *BookingHandler) GetPaymentProof(c *gin.Context) {
	callerID, ok := middleware.CurrentUserID(c)
	if !ok {
		utils.UnauthorizedResponse(c, utils.ErrUnauthorized)
		return
	}

	links, err := h.bookingService.PaymentProof(c.Request.Context(), c.Param("bookingId"), callerID)
	if err != nil {
		respondError(c, h.logger, h.debug, err)
		return
	}

	fileURL := strings.TrimRight(c.Request.URL.Path, "/") + "/file"
	if links.URL == "" {
		links.URL = fileURL
	}
	if links.HasThumbnail && links.ThumbnailURL == "" {
		links.ThumbnailURL = fileURL + "?" + thumbnailQuery + "=true"
	}

	utils.SuccessResponse(c, "Payment proof", links)
}

// GetPaymentProofFile streams the screenshot, or its thumbnail with
// ?thumbnail=true, after the same access check as GetPaymentProof.
func (h *BookingHandler) GetPaymentProofFile(c *gin.Context) {
	callerID, ok := middleware.CurrentUserID(c)
	if !ok {
		utils.UnauthorizedResponse(c, utils.ErrUnauthorized)
		return
	}

	thumbnail := c.Query(thumbnailQuery) == "true"
	file, err := h.bookingService.OpenPaymentProof(c.Request.Context(), c.Param("bookingId"), callerID, thumbnail)
	if err != nil {
		respondError(c, h.logger, h.debug, err)
		return
	}
	defer file.Reader.Close()

	c.Header("Cache-Control", "private, no-store")
	c.DataFromReader(http.StatusOK, -1, file.ContentType, file.Reader, nil)
}
