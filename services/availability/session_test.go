package availability

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"medibook/models"
)

// ── fake client ──

type fakeClient struct {
	mu       sync.Mutex
	doc      *models.AvailabilityDocument
	getErr   error
	putErr   error
	puts     []models.AvailabilityDocument
	slots    []models.BookableTimeSlot
	putGate  chan struct{}
	putEnter chan struct{}
}

func (f *fakeClient) GetAvailability(_ context.Context) (*models.AvailabilityDocument, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return nil, f.getErr
	}
	if f.doc == nil {
		return nil, nil
	}
	d := *f.doc
	d.Schedule = f.doc.Schedule.Clone()
	return &d, nil
}

func (f *fakeClient) PutAvailability(_ context.Context, doc models.AvailabilityDocument) error {
	if f.putEnter != nil {
		f.putEnter <- struct{}{}
	}
	if f.putGate != nil {
		<-f.putGate
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.putErr != nil {
		return f.putErr
	}
	f.puts = append(f.puts, doc)
	return nil
}

func (f *fakeClient) ListTimeSlots(_ context.Context, _, _ string) ([]models.BookableTimeSlot, error) {
	return f.slots, nil
}

// ── Load ──

func TestLoad_StoredSchedule(t *testing.T) {
	stored := EmptySchedule()
	stored[models.Saturday] = models.DaySchedule{IsWorking: true, Slots: []models.TimeSlot{{Start: "10:00", End: "14:00"}}}
	delete(stored, models.Sunday)
	client := &fakeClient{doc: &models.AvailabilityDocument{Schedule: stored, Timezone: "Europe/Berlin"}}

	m := NewModel(client, ValidationOptions{}, nil)
	if err := m.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}

	if m.Timezone() != "Europe/Berlin" {
		t.Errorf("expected Europe/Berlin, got %s", m.Timezone())
	}
	if m.CountWorkingDays() != 1 || m.ComputeWeeklyHours() != 4 {
		t.Errorf("unexpected metrics: %d days, %v hours", m.CountWorkingDays(), m.ComputeWeeklyHours())
	}
	if _, ok := m.Schedule()[models.Sunday]; !ok {
		t.Error("missing days should be filled in on load")
	}
}

func TestLoad_EmptyFallsBackToDefault(t *testing.T) {
	m := NewModel(&fakeClient{}, ValidationOptions{}, nil)
	if err := m.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if m.ComputeWeeklyHours() != 35 {
		t.Errorf("expected default schedule, got %v hours", m.ComputeWeeklyHours())
	}
}

func TestLoad_FailureFallsBackToDefault(t *testing.T) {
	client := &fakeClient{getErr: errors.New("connection refused")}
	m := NewModel(client, ValidationOptions{}, nil)
	_ = m.BeginEdit()
	_ = m.ToggleWorkingDay(models.Monday)

	err := m.Load(context.Background())
	var loadErr *LoadError
	if !errors.As(err, &loadErr) {
		t.Fatalf("expected *LoadError, got %v", err)
	}
	if m.Mode() != Viewing {
		t.Errorf("expected viewing after load")
	}
	if m.CountWorkingDays() != 5 || m.Timezone() != DefaultTimezone {
		t.Errorf("expected default schedule after failed load")
	}
}

// ── Save ──

func TestSave_Success(t *testing.T) {
	client := &fakeClient{}
	m := NewModel(client, ValidationOptions{}, nil)
	_ = m.BeginEdit()
	if err := m.ToggleWorkingDay(models.Saturday); err != nil {
		t.Fatal(err)
	}

	saved, err := m.Save(context.Background(), "America/New_York")
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if CountWorkingDays(saved) != 6 {
		t.Errorf("expected 6 working days in saved schedule")
	}
	if m.Mode() != Viewing {
		t.Errorf("expected viewing after save")
	}
	if m.Timezone() != "America/New_York" {
		t.Errorf("expected timezone to be recorded, got %s", m.Timezone())
	}
	if len(client.puts) != 1 || client.puts[0].Timezone != "America/New_York" {
		t.Fatalf("expected one push with timezone, got %+v", client.puts)
	}
	if !client.puts[0].Schedule[models.Saturday].IsWorking {
		t.Error("pushed document is missing the edit")
	}
}

func TestSave_NetworkFailureKeepsEdits(t *testing.T) {
	client := &fakeClient{putErr: errors.New("503 service unavailable")}
	m := NewModel(client, ValidationOptions{}, nil)
	_ = m.BeginEdit()
	_ = m.ToggleWorkingDay(models.Sunday)

	_, err := m.Save(context.Background(), "")
	var saveErr *SaveError
	if !errors.As(err, &saveErr) || !saveErr.Retryable() {
		t.Fatalf("expected retryable *SaveError, got %v", err)
	}
	if m.Mode() != Editing {
		t.Fatal("expected to stay in editing mode")
	}
	if !m.Schedule()[models.Sunday].IsWorking {
		t.Error("edits were discarded")
	}
	if m.SavedSchedule()[models.Sunday].IsWorking {
		t.Error("failed save partially applied to the saved schedule")
	}

	// Retry succeeds once the backend recovers.
	client.putErr = nil
	if _, err := m.Save(context.Background(), ""); err != nil {
		t.Fatalf("retry: %v", err)
	}
	if !m.SavedSchedule()[models.Sunday].IsWorking {
		t.Error("retry did not persist the edit")
	}
}

func TestSave_ValidationFailure(t *testing.T) {
	client := &fakeClient{}
	m := NewModel(client, ValidationOptions{}, nil)
	_ = m.BeginEdit()
	_ = m.UpdateTimeSlot(models.Monday, 0, FieldEnd, "13:00")

	_, err := m.Save(context.Background(), "")
	if !errors.Is(err, ErrInvalidTimeRange) {
		t.Fatalf("expected ErrInvalidTimeRange, got %v", err)
	}
	var saveErr *SaveError
	if errors.As(err, &saveErr) {
		t.Error("validation failure must be distinct from a network failure")
	}
	if m.Mode() != Editing || len(client.puts) != 0 {
		t.Error("invalid schedule must not be pushed")
	}
}

func TestSave_InvalidTimezone(t *testing.T) {
	m := NewModel(&fakeClient{}, ValidationOptions{}, nil)
	_ = m.BeginEdit()
	if _, err := m.Save(context.Background(), "Nowhere/Land"); !errors.Is(err, ErrInvalidTimezone) {
		t.Errorf("expected ErrInvalidTimezone, got %v", err)
	}
	if m.Mode() != Editing {
		t.Error("expected to stay in editing mode")
	}
}

func TestSave_RequiresEditing(t *testing.T) {
	m := NewModel(&fakeClient{}, ValidationOptions{}, nil)
	if _, err := m.Save(context.Background(), ""); !errors.Is(err, ErrNotEditing) {
		t.Errorf("expected ErrNotEditing, got %v", err)
	}
}

func TestSave_OnlyOneInFlight(t *testing.T) {
	client := &fakeClient{putGate: make(chan struct{}), putEnter: make(chan struct{}, 1)}
	m := NewModel(client, ValidationOptions{}, nil)
	_ = m.BeginEdit()

	done := make(chan error, 1)
	go func() {
		_, err := m.Save(context.Background(), "")
		done <- err
	}()

	select {
	case <-client.putEnter:
	case <-time.After(2 * time.Second):
		t.Fatal("first save never reached the client")
	}

	if !m.Saving() {
		t.Error("expected busy flag while saving")
	}
	if _, err := m.Save(context.Background(), ""); !errors.Is(err, ErrSaveInProgress) {
		t.Errorf("expected ErrSaveInProgress, got %v", err)
	}
	if err := m.ToggleWorkingDay(models.Monday); !errors.Is(err, ErrSaveInProgress) {
		t.Errorf("expected edits to be gated while saving, got %v", err)
	}

	close(client.putGate)
	if err := <-done; err != nil {
		t.Fatalf("first save: %v", err)
	}
	if m.Saving() {
		t.Error("busy flag not cleared")
	}
}

func TestUtilization_FromClient(t *testing.T) {
	client := &fakeClient{slots: []models.BookableTimeSlot{
		{ID: "a", IsAvailable: true},
		{ID: "b", IsAvailable: false, AppointmentID: "apt-1"},
	}}
	m := NewModel(client, ValidationOptions{}, nil)
	u, err := m.Utilization(context.Background(), "2025-06-02", "2025-06-08")
	if err != nil {
		t.Fatal(err)
	}
	if u.Total != 2 || u.Available != 1 || u.Booked != 1 {
		t.Errorf("unexpected utilization %+v", u)
	}
}

func TestLoadDocument(t *testing.T) {
	m := NewModel(nil, ValidationOptions{}, nil)
	_ = m.BeginEdit()

	stored := EmptySchedule()
	stored[models.Thursday] = models.DaySchedule{IsWorking: true, Slots: []models.TimeSlot{{Start: "08:00", End: "12:00"}}}
	if err := m.LoadDocument(&models.AvailabilityDocument{Schedule: stored, Timezone: "Asia/Kolkata"}); err != nil {
		t.Fatal(err)
	}
	if m.Mode() != Viewing || m.ComputeWeeklyHours() != 4 || m.Timezone() != "Asia/Kolkata" {
		t.Errorf("unexpected state after LoadDocument: %s, %v hours, %s", m.Mode(), m.ComputeWeeklyHours(), m.Timezone())
	}

	// The model keeps its own copy.
	stored[models.Thursday] = models.DaySchedule{}
	if !m.Schedule()[models.Thursday].IsWorking {
		t.Error("loaded schedule shares state with the caller")
	}

	if err := m.LoadDocument(nil); err != nil || m.ComputeWeeklyHours() != 35 || m.Timezone() != DefaultTimezone {
		t.Errorf("nil document should load the default schedule")
	}
}
