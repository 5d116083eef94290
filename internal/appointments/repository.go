package appointments

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Repository is the persistence boundary for appointments.
type Repository interface {
	Create(ctx context.Context, appt *Appointment) error
	GetByID(ctx context.Context, id string) (*Appointment, error)
	ListByPatient(ctx context.Context, patientID string) ([]Appointment, error)
	ListByDoctor(ctx context.Context, doctorID string) ([]Appointment, error)
	UpdateStatus(ctx context.Context, id string, status Status) (*Appointment, error)
	Delete(ctx context.Context, id string) error
	HasActiveAt(ctx context.Context, doctorID string, at time.Time) (bool, error)
}

// InMemoryRepository keeps appointments in a map. Used in tests and local
// development without Postgres.
type InMemoryRepository struct {
	mu    sync.RWMutex
	items map[string]*Appointment
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{items: make(map[string]*Appointment)}
}

func (r *InMemoryRepository) Create(_ context.Context, appt *Appointment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if appt.ID == "" {
		appt.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	appt.CreatedAt = now
	appt.UpdatedAt = now
	cp := *appt
	r.items[appt.ID] = &cp
	return nil
}

func (r *InMemoryRepository) GetByID(_ context.Context, id string) (*Appointment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	appt, ok := r.items[id]
	if !ok {
		return nil, ErrAppointmentNotFound
	}
	cp := *appt
	return &cp, nil
}

func (r *InMemoryRepository) ListByPatient(_ context.Context, patientID string) ([]Appointment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.collect(func(a *Appointment) bool { return a.PatientID == patientID }), nil
}

func (r *InMemoryRepository) ListByDoctor(_ context.Context, doctorID string) ([]Appointment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.collect(func(a *Appointment) bool { return a.DoctorID == doctorID }), nil
}

// collect returns matching appointments ordered most recent slot first.
func (r *InMemoryRepository) collect(match func(*Appointment) bool) []Appointment {
	var out []Appointment
	for _, a := range r.items {
		if match(a) {
			out = append(out, *a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ScheduledAt.After(out[j].ScheduledAt) })
	return out
}

func (r *InMemoryRepository) UpdateStatus(_ context.Context, id string, status Status) (*Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	appt, ok := r.items[id]
	if !ok {
		return nil, ErrAppointmentNotFound
	}
	appt.Status = status
	appt.UpdatedAt = time.Now().UTC()
	cp := *appt
	return &cp, nil
}

func (r *InMemoryRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[id]; !ok {
		return ErrAppointmentNotFound
	}
	delete(r.items, id)
	return nil
}

func (r *InMemoryRepository) HasActiveAt(_ context.Context, doctorID string, at time.Time) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, a := range r.items {
		if a.DoctorID == doctorID && a.Status.Active() && a.ScheduledAt.Equal(at) {
			return true, nil
		}
	}
	return false, nil
}
