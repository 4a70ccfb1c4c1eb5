package routes

import (
	"time"

	"seatshare/internal/handlers"
	"seatshare/internal/middleware"
	"seatshare/pkg/logger"

	"github.com/gin-gonic/gin"
)

type Dependencies struct {
	RideHandler    *handlers.RideHandler
	BookingHandler *handlers.BookingHandler
	HealthHandler  *handlers.HealthHandler

	JWTSecret      string
	AllowedOrigins []string
	RateLimiter    middleware.WindowCounter
	RateLimit      int
	Logger         *logger.Logger
}

const rateLimitWindow = time.Minute

// Setup installs the global middleware and every route on router.
func Setup(router *gin.Engine, deps Dependencies) {
	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggingMiddleware(deps.Logger))
	router.Use(middleware.CORSMiddleware(deps.AllowedOrigins))

	auth := middleware.AuthRequired(deps.JWTSecret)
	limiter := middleware.RateLimit(deps.RateLimiter, deps.RateLimit, rateLimitWindow, deps.Logger)

	v1 := router.Group("/api/v1")
	{
		SetupRideRoutes(v1, deps.RideHandler, auth)
		SetupBookingRoutes(v1, deps.BookingHandler, auth, limiter)
	}

	router.GET("/health", deps.HealthHandler.Health)
}
