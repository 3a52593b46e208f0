package scheduling

import (
	"context"
	"errors"
	"fmt"
	"time"

	appointmentRepo "medibook/database/repository/appointment"
	availabilityRepo "medibook/database/repository/availability"
	timeslotRepo "medibook/database/repository/timeslot"
	"medibook/models"
	"medibook/services/availability"

	"go.uber.org/zap"
)

// SchedulingService owns practitioner templates and the bookable slots derived from them.
type SchedulingService interface {
	GetAvailability(ctx context.Context, practitionerID string) (*models.AvailabilityDocument, error)
	SaveAvailability(ctx context.Context, practitionerID string, schedule models.WeeklySchedule, timezone string) (*models.AvailabilityDocument, error)
	GetSummary(ctx context.Context, practitionerID string) (models.AvailabilitySummary, error)
	ListTimeSlots(ctx context.Context, practitionerID, start, end string) (*models.TimeSlotsResponse, error)
	ExportTimeSlotsICS(ctx context.Context, practitionerID, start, end string) (string, error)
	RegenerateSlots(ctx context.Context, practitionerID string) ([]Conflict, error)
	RollHorizon(ctx context.Context) error
}

// SlotTaskEnqueuer hands regeneration off to the background worker.
type SlotTaskEnqueuer interface {
	EnqueueRegenerate(ctx context.Context, practitionerID string) error
}

type Settings struct {
	SlotMinutes int
	HorizonDays int
	Validation  availability.ValidationOptions
}

// DefaultSchedulingService is the production implementation.
type DefaultSchedulingService struct {
	Availability availabilityRepo.AvailabilityRepository
	Timeslots    timeslotRepo.TimeSlotRepository
	Appointments appointmentRepo.AppointmentRepository
	// Cache and Tasks are optional. Without Tasks, regeneration runs inline on save.
	Cache    AvailabilityCache
	Tasks    SlotTaskEnqueuer
	Settings Settings
	Logger   *zap.Logger
	Now      func() time.Time
}

func NewDefaultSchedulingService(
	templates availabilityRepo.AvailabilityRepository,
	timeslots timeslotRepo.TimeSlotRepository,
	appointments appointmentRepo.AppointmentRepository,
	cache AvailabilityCache,
	tasks SlotTaskEnqueuer,
	settings Settings,
	logger *zap.Logger,
) (*DefaultSchedulingService, error) {
	if templates == nil || timeslots == nil || appointments == nil {
		return nil, fmt.Errorf("scheduling service initialization error: one or more repositories are nil")
	}
	if settings.SlotMinutes <= 0 || settings.HorizonDays <= 0 {
		return nil, fmt.Errorf("scheduling service initialization error: slot minutes and horizon days must be positive")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DefaultSchedulingService{
		Availability: templates,
		Timeslots:    timeslots,
		Appointments: appointments,
		Cache:        cache,
		Tasks:        tasks,
		Settings:     settings,
		Logger:       logger,
		Now:          time.Now,
	}, nil
}

// GetAvailability returns nil, nil when the practitioner never saved a template.
func (s *DefaultSchedulingService) GetAvailability(ctx context.Context, practitionerID string) (*models.AvailabilityDocument, error) {
	if practitionerID == "" {
		return nil, ErrMissingPractitioner
	}
	if s.Cache != nil {
		doc, err := s.Cache.Get(ctx, practitionerID)
		if err != nil {
			s.Logger.Warn("Availability cache read failed", zap.String("practitionerID", practitionerID), zap.Error(err))
		} else if doc != nil {
			return doc, nil
		}
	}

	doc, err := s.Availability.GetByPractitionerID(ctx, practitionerID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch availability: %w", err)
	}
	if doc == nil {
		return nil, nil
	}
	if s.Cache != nil {
		if err := s.Cache.Fill(ctx, *doc); err != nil {
			s.Logger.Warn("Availability cache write failed", zap.String("practitionerID", practitionerID), zap.Error(err))
		}
	}
	return doc, nil
}

// SaveAvailability validates and stores the whole template, then schedules slot regeneration.
// Validation failures come back as *availability.InvalidTimeRangeError (or ErrUnknownDay,
// ErrInvalidTimezone) and nothing is written.
func (s *DefaultSchedulingService) SaveAvailability(ctx context.Context, practitionerID string, schedule models.WeeklySchedule, timezone string) (*models.AvailabilityDocument, error) {
	if practitionerID == "" {
		return nil, ErrMissingPractitioner
	}
	if err := availability.Validate(schedule, s.Settings.Validation); err != nil {
		return nil, err
	}
	tz, _, err := availability.ResolveTimezone(timezone)
	if err != nil {
		return nil, err
	}

	doc := models.AvailabilityDocument{
		PractitionerID: practitionerID,
		Schedule:       availability.Normalize(schedule),
		Timezone:       tz,
		UpdatedAt:      s.Now().UTC(),
	}
	if err := s.Availability.Upsert(ctx, doc); err != nil {
		return nil, fmt.Errorf("failed to store availability: %w", err)
	}
	if s.Cache != nil {
		if err := s.Cache.Set(ctx, doc); err != nil {
			s.Logger.Warn("Availability cache write failed, invalidating", zap.String("practitionerID", practitionerID), zap.Error(err))
			if err := s.Cache.Invalidate(ctx, practitionerID); err != nil {
				s.Logger.Warn("Availability cache invalidation failed", zap.String("practitionerID", practitionerID), zap.Error(err))
			}
		}
	}

	s.scheduleRegeneration(ctx, practitionerID)
	return &doc, nil
}

func (s *DefaultSchedulingService) scheduleRegeneration(ctx context.Context, practitionerID string) {
	if s.Tasks != nil {
		err := s.Tasks.EnqueueRegenerate(ctx, practitionerID)
		if err == nil {
			return
		}
		s.Logger.Warn("Failed to enqueue slot regeneration, running inline",
			zap.String("practitionerID", practitionerID), zap.Error(err))
	}
	if _, err := s.RegenerateSlots(ctx, practitionerID); err != nil {
		// The template is already stored; the next horizon roll retries.
		s.Logger.Error("Slot regeneration failed", zap.String("practitionerID", practitionerID), zap.Error(err))
	}
}

// GetSummary reports weekly hours and working days of the stored template.
// A practitioner without a template has an empty summary.
func (s *DefaultSchedulingService) GetSummary(ctx context.Context, practitionerID string) (models.AvailabilitySummary, error) {
	doc, err := s.GetAvailability(ctx, practitionerID)
	if err != nil {
		return models.AvailabilitySummary{}, err
	}
	if doc == nil {
		return availability.Summarize(availability.EmptySchedule(), availability.DefaultTimezone), nil
	}
	return availability.Summarize(doc.Schedule, doc.Timezone), nil
}

// ListTimeSlots returns the stored slots between start and end (YYYY-MM-DD, inclusive) with counts.
func (s *DefaultSchedulingService) ListTimeSlots(ctx context.Context, practitionerID, start, end string) (*models.TimeSlotsResponse, error) {
	if practitionerID == "" {
		return nil, ErrMissingPractitioner
	}
	if err := checkDateRange(start, end); err != nil {
		return nil, err
	}
	slots, err := s.Timeslots.ListRange(ctx, practitionerID, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch time slots: %w", err)
	}
	if slots == nil {
		slots = []models.BookableTimeSlot{}
	}
	return &models.TimeSlotsResponse{
		TimeSlots:       slots,
		SlotUtilization: availability.Utilization(slots),
	}, nil
}

func checkDateRange(start, end string) error {
	from, err := time.Parse(dateLayout, start)
	if err != nil {
		return fmt.Errorf("%w: start %q is not YYYY-MM-DD", ErrInvalidDateRange, start)
	}
	to, err := time.Parse(dateLayout, end)
	if err != nil {
		return fmt.Errorf("%w: end %q is not YYYY-MM-DD", ErrInvalidDateRange, end)
	}
	if to.Before(from) {
		return fmt.Errorf("%w: end is before start", ErrInvalidDateRange)
	}
	if to.Sub(from) > maxListDays*24*time.Hour {
		return fmt.Errorf("%w: range exceeds %d days", ErrInvalidDateRange, maxListDays)
	}
	return nil
}

// ExportTimeSlotsICS renders the open slots of a range as an iCalendar feed.
func (s *DefaultSchedulingService) ExportTimeSlotsICS(ctx context.Context, practitionerID, start, end string) (string, error) {
	resp, err := s.ListTimeSlots(ctx, practitionerID, start, end)
	if err != nil {
		return "", err
	}
	tz := availability.DefaultTimezone
	doc, err := s.GetAvailability(ctx, practitionerID)
	if err != nil {
		return "", err
	}
	if doc != nil && doc.Timezone != "" {
		tz = doc.Timezone
	}
	return ExportICS(resp.TimeSlots, tz, s.Now())
}

// RegenerateSlots rebuilds the practitioner's slots over the booking horizon, starting today
// in the practitioner's timezone. Slots held by appointments survive; appointments the new
// template no longer covers are returned as conflicts.
func (s *DefaultSchedulingService) RegenerateSlots(ctx context.Context, practitionerID string) ([]Conflict, error) {
	doc, err := s.Availability.GetByPractitionerID(ctx, practitionerID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch availability: %w", err)
	}
	schedule := availability.EmptySchedule()
	timezone := availability.DefaultTimezone
	if doc != nil {
		schedule = doc.Schedule
		timezone = doc.Timezone
	}
	_, loc, err := availability.ResolveTimezone(timezone)
	if err != nil {
		s.Logger.Warn("Stored timezone is invalid, using UTC",
			zap.String("practitionerID", practitionerID), zap.String("timezone", timezone))
		loc = time.UTC
	}

	from, fromStr, toStr := horizonWindow(s.Now(), loc, s.Settings.HorizonDays)
	slots := ExpandTemplate(practitionerID, schedule, from, s.Settings.HorizonDays, s.Settings.SlotMinutes)

	appointments, err := s.Appointments.ListActiveInRange(ctx, practitionerID, fromStr, toStr)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch appointments: %w", err)
	}
	slots, conflicts := Reconcile(slots, appointments)
	now := s.Now().UTC()
	for i := range slots {
		slots[i].CreatedAt = now
	}

	if err := s.Timeslots.ReplaceRange(ctx, practitionerID, fromStr, toStr, slots); err != nil {
		return nil, fmt.Errorf("failed to store time slots: %w", err)
	}

	s.Logger.Info("Regenerated time slots",
		zap.String("practitionerID", practitionerID),
		zap.String("from", fromStr),
		zap.String("to", toStr),
		zap.Int("slots", len(slots)),
		zap.Int("conflicts", len(conflicts)),
	)
	for _, c := range conflicts {
		s.Logger.Warn("Appointment conflicts with availability",
			zap.String("practitionerID", practitionerID),
			zap.String("appointmentID", c.AppointmentID),
			zap.String("date", c.Date),
			zap.String("reason", c.Reason),
		)
	}
	return conflicts, nil
}

// RollHorizon regenerates every practitioner so the horizon keeps moving forward.
// One failing practitioner does not stop the others.
func (s *DefaultSchedulingService) RollHorizon(ctx context.Context) error {
	ids, err := s.Availability.ListPractitionerIDs(ctx)
	if err != nil {
		return fmt.Errorf("failed to list practitioners: %w", err)
	}
	var errs []error
	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			return err
		}
		if _, err := s.RegenerateSlots(ctx, id); err != nil {
			errs = append(errs, fmt.Errorf("practitioner %s: %w", id, err))
		}
	}
	s.Logger.Info("Rolled booking horizon", zap.Int("practitioners", len(ids)), zap.Int("failed", len(errs)))
	return errors.Join(errs...)
}
