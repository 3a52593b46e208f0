package handlers

import (
	"errors"
	"net/http"

	"medibook/middleware"
	"medibook/models"
	"medibook/services/availability"
	"medibook/services/scheduling"
	"medibook/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AvailabilityHandler serves the practitioner's weekly template and the slots derived from it.
type AvailabilityHandler struct {
	Service scheduling.SchedulingService
}

func NewAvailabilityHandler(svc scheduling.SchedulingService) *AvailabilityHandler {
	return &AvailabilityHandler{Service: svc}
}

type availabilityRequest struct {
	Schedule models.WeeklySchedule `json:"schedule" binding:"required"`
	Timezone string                `json:"timezone"`
}

func practitionerID(c *gin.Context) (string, bool) {
	id := c.GetString(middleware.PractitionerIDKey)
	if id == "" {
		utils.JSONError(c, http.StatusUnauthorized, "Practitioner not authenticated", "")
		return "", false
	}
	return id, true
}

// GetAvailabilityHandler returns the stored template, or {} when none was saved yet.
func (h *AvailabilityHandler) GetAvailabilityHandler(c *gin.Context) {
	pid, ok := practitionerID(c)
	if !ok {
		return
	}
	doc, err := h.Service.GetAvailability(c.Request.Context(), pid)
	if err != nil {
		getLogger(c).Error("Failed to fetch availability", zap.String("practitionerID", pid), zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "Failed to fetch availability", "")
		return
	}
	if doc == nil {
		c.JSON(http.StatusOK, gin.H{})
		return
	}
	c.JSON(http.StatusOK, doc)
}

// PutAvailabilityHandler replaces the whole template.
func (h *AvailabilityHandler) PutAvailabilityHandler(c *gin.Context) {
	pid, ok := practitionerID(c)
	if !ok {
		return
	}
	var req availabilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request payload", err.Error())
		return
	}

	doc, err := h.Service.SaveAvailability(c.Request.Context(), pid, req.Schedule, req.Timezone)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, doc)
	case errors.Is(err, availability.ErrInvalidTimeRange):
		utils.JSONErrorKind(c, http.StatusUnprocessableEntity, availability.KindInvalidTimeRange, "Invalid schedule", err.Error())
	case errors.Is(err, availability.ErrUnknownDay):
		utils.JSONError(c, http.StatusBadRequest, "Invalid schedule", err.Error())
	case errors.Is(err, availability.ErrInvalidTimezone):
		utils.JSONErrorKind(c, http.StatusBadRequest, "InvalidTimezone", "Invalid timezone", err.Error())
	default:
		getLogger(c).Error("Failed to save availability", zap.String("practitionerID", pid), zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "Failed to save availability", "")
	}
}

func (h *AvailabilityHandler) GetSummaryHandler(c *gin.Context) {
	pid, ok := practitionerID(c)
	if !ok {
		return
	}
	summary, err := h.Service.GetSummary(c.Request.Context(), pid)
	if err != nil {
		getLogger(c).Error("Failed to compute availability summary", zap.String("practitionerID", pid), zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "Failed to compute availability summary", "")
		return
	}
	c.JSON(http.StatusOK, summary)
}

// GetTimeSlotsHandler lists bookable slots for ?start=YYYY-MM-DD&end=YYYY-MM-DD.
func (h *AvailabilityHandler) GetTimeSlotsHandler(c *gin.Context) {
	pid, ok := practitionerID(c)
	if !ok {
		return
	}
	resp, err := h.Service.ListTimeSlots(c.Request.Context(), pid, c.Query("start"), c.Query("end"))
	if err != nil {
		h.timeSlotsError(c, pid, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ExportTimeSlotsHandler serves the open slots of the range as an iCalendar file.
func (h *AvailabilityHandler) ExportTimeSlotsHandler(c *gin.Context) {
	pid, ok := practitionerID(c)
	if !ok {
		return
	}
	out, err := h.Service.ExportTimeSlotsICS(c.Request.Context(), pid, c.Query("start"), c.Query("end"))
	if err != nil {
		h.timeSlotsError(c, pid, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="availability.ics"`)
	c.Data(http.StatusOK, "text/calendar; charset=utf-8", []byte(out))
}

func (h *AvailabilityHandler) timeSlotsError(c *gin.Context, pid string, err error) {
	if errors.Is(err, scheduling.ErrInvalidDateRange) {
		utils.JSONError(c, http.StatusBadRequest, "Invalid date range", err.Error())
		return
	}
	getLogger(c).Error("Failed to fetch time slots", zap.String("practitionerID", pid), zap.Error(err))
	utils.JSONError(c, http.StatusInternalServerError, "Failed to fetch time slots", "")
}

// HealthHandler reports the last dependency probe.
func HealthHandler(c *gin.Context) {
	status := utils.GetHealthStatus()
	code := http.StatusOK
	if !status.Healthy() {
		code = http.StatusServiceUnavailable
	}
	c.JSON(code, status)
}
