package handlers

import (
	"medibook/services/scheduling"

	"github.com/gin-gonic/gin"
)

// HandlerBundle groups all endpoint handlers into one struct.
type HandlerBundle struct {
	// Availability endpoints
	GetAvailabilityHandler gin.HandlerFunc
	PutAvailabilityHandler gin.HandlerFunc
	GetSummaryHandler      gin.HandlerFunc

	// Time slot endpoints
	GetTimeSlotsHandler    gin.HandlerFunc
	ExportTimeSlotsHandler gin.HandlerFunc

	HealthHandler gin.HandlerFunc
}

// NewHandlerBundle wires every handler to its service.
func NewHandlerBundle(svc scheduling.SchedulingService) *HandlerBundle {
	availabilityHandler := NewAvailabilityHandler(svc)
	return &HandlerBundle{
		GetAvailabilityHandler: availabilityHandler.GetAvailabilityHandler,
		PutAvailabilityHandler: availabilityHandler.PutAvailabilityHandler,
		GetSummaryHandler:      availabilityHandler.GetSummaryHandler,
		GetTimeSlotsHandler:    availabilityHandler.GetTimeSlotsHandler,
		ExportTimeSlotsHandler: availabilityHandler.ExportTimeSlotsHandler,
		HealthHandler:          HealthHandler,
	}
}
