package routes

import (
	"time"

	"medibook/handlers"
	"medibook/middleware"
	"medibook/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// RegisterPractitionerRoutes registers the practitioner availability endpoints.
func RegisterPractitionerRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/practitioners")
	{
		api.Use(middleware.JWTAuthPractitionerMiddleware())
		api.GET("/availability", hb.GetAvailabilityHandler)
		api.PUT("/availability", hb.PutAvailabilityHandler)
		api.GET("/availability/summary", hb.GetSummaryHandler)
		api.GET("/time-slots", hb.GetTimeSlotsHandler)
		api.GET("/time-slots.ics", hb.ExportTimeSlotsHandler)
	}
}

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.GET("/health", hb.HealthHandler)
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle, maxRequestsPerMin int) {
	r.Use(gin.Recovery())
	r.Use(utils.ErrorHandler())
	r.Use(middleware.RequestLogger())
	r.Use(cors.New(cors.Config{
		AllowOrigins:  []string{"*"},
		AllowMethods:  []string{"GET", "PUT", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Authorization", "Content-Type", middleware.RequestIDHeader},
		ExposeHeaders: []string{"Content-Length", middleware.RequestIDHeader},
		MaxAge:        12 * time.Hour,
	}))
	r.Use(middleware.RateLimitMiddleware(maxRequestsPerMin))

	RegisterHealthRoute(r, hb)
	RegisterPractitionerRoutes(r, hb)
}
