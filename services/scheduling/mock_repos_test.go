package scheduling

import (
	"context"
	"errors"
	"sort"
	"sync"

	"medibook/models"
)

// ── availability repo ──

type mockAvailabilityRepo struct {
	mu      sync.Mutex
	docs    map[string]models.AvailabilityDocument
	getErr  error
	upserts int
	// afterGet runs once a read has been served, outside the lock.
	afterGet func()
}

func newMockAvailabilityRepo() *mockAvailabilityRepo {
	return &mockAvailabilityRepo{docs: make(map[string]models.AvailabilityDocument)}
}

func (m *mockAvailabilityRepo) GetByPractitionerID(_ context.Context, practitionerID string) (*models.AvailabilityDocument, error) {
	m.mu.Lock()
	getErr := m.getErr
	doc, ok := m.docs[practitionerID]
	hook := m.afterGet
	m.mu.Unlock()

	if hook != nil {
		hook()
	}
	if getErr != nil {
		return nil, getErr
	}
	if !ok {
		return nil, nil
	}
	doc.Schedule = doc.Schedule.Clone()
	return &doc, nil
}

func (m *mockAvailabilityRepo) Upsert(_ context.Context, doc models.AvailabilityDocument) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.upserts++
	m.docs[doc.PractitionerID] = doc
	return nil
}

func (m *mockAvailabilityRepo) ListPractitionerIDs(_ context.Context) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ids := make([]string, 0, len(m.docs))
	for id := range m.docs {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

func (m *mockAvailabilityRepo) EnsureIndexes(_ context.Context) error { return nil }

// ── timeslot repo ──

type mockTimeSlotRepo struct {
	mu       sync.Mutex
	slots    map[string]models.BookableTimeSlot
	failFor  string
	replaced int
}

func newMockTimeSlotRepo() *mockTimeSlotRepo {
	return &mockTimeSlotRepo{slots: make(map[string]models.BookableTimeSlot)}
}

func (m *mockTimeSlotRepo) ListRange(_ context.Context, practitionerID, from, to string) ([]models.BookableTimeSlot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.BookableTimeSlot
	for _, s := range m.slots {
		if s.PractitionerID == practitionerID && s.Date >= from && s.Date <= to {
			out = append(out, s)
		}
	}
	sortSlots(out)
	return out, nil
}

func (m *mockTimeSlotRepo) ReplaceRange(_ context.Context, practitionerID, from, to string, slots []models.BookableTimeSlot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if practitionerID == m.failFor {
		return errors.New("bulk write failed")
	}
	m.replaced++
	keep := make(map[string]bool, len(slots))
	for _, s := range slots {
		keep[s.ID] = true
		m.slots[s.ID] = s
	}
	for id, s := range m.slots {
		if s.PractitionerID != practitionerID || s.Date < from || s.Date > to {
			continue
		}
		if !keep[id] && s.AppointmentID == "" {
			delete(m.slots, id)
		}
	}
	return nil
}

func (m *mockTimeSlotRepo) EnsureIndexes(_ context.Context) error { return nil }

func (m *mockTimeSlotRepo) count(practitionerID string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, s := range m.slots {
		if s.PractitionerID == practitionerID {
			n++
		}
	}
	return n
}

// ── appointment repo ──

type mockAppointmentRepo struct {
	appointments []models.Appointment
}

func (m *mockAppointmentRepo) ListActiveInRange(_ context.Context, practitionerID, from, to string) ([]models.Appointment, error) {
	var out []models.Appointment
	for _, a := range m.appointments {
		if a.PractitionerID == practitionerID && a.Date >= from && a.Date <= to && a.Status != models.AppointmentCancelled {
			out = append(out, a)
		}
	}
	return out, nil
}

func (m *mockAppointmentRepo) EnsureIndexes(_ context.Context) error { return nil }

// ── cache ──

type mockCache struct {
	mu          sync.Mutex
	docs        map[string]models.AvailabilityDocument
	hits        int
	setErr      error
	invalidated []string
}

func newMockCache() *mockCache {
	return &mockCache{docs: make(map[string]models.AvailabilityDocument)}
}

func (m *mockCache) Get(_ context.Context, practitionerID string) (*models.AvailabilityDocument, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	doc, ok := m.docs[practitionerID]
	if !ok {
		return nil, nil
	}
	m.hits++
	return &doc, nil
}

func (m *mockCache) Set(_ context.Context, doc models.AvailabilityDocument) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.setErr != nil {
		return m.setErr
	}
	m.docs[doc.PractitionerID] = doc
	return nil
}

func (m *mockCache) Fill(_ context.Context, doc models.AvailabilityDocument) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.docs[doc.PractitionerID]; !ok {
		m.docs[doc.PractitionerID] = doc
	}
	return nil
}

func (m *mockCache) Invalidate(_ context.Context, practitionerID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.docs, practitionerID)
	m.invalidated = append(m.invalidated, practitionerID)
	return nil
}

// ── task enqueuer ──

type mockEnqueuer struct {
	err      error
	enqueued []string
}

func (m *mockEnqueuer) EnqueueRegenerate(_ context.Context, practitionerID string) error {
	if m.err != nil {
		return m.err
	}
	m.enqueued = append(m.enqueued, practitionerID)
	return nil
}
