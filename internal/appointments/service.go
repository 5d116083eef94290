package appointments

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/docnearby/docnearby/internal/identity"
	"github.com/docnearby/docnearby/internal/notify"
	"github.com/docnearby/docnearby/internal/providers"
	"github.com/docnearby/docnearby/pkg/logging"
)

var tracer = otel.Tracer("docnearby/appointments")

// Service applies the booking rules: who may create, who may move status
// where, and which slots are free.
type Service struct {
	repo      Repository
	providers providers.Repository
	sender    notify.EmailSender
	logger    *logging.Logger
	now       func() time.Time
}

// NewService wires the booking flow. sender may be nil to disable email.
func NewService(repo Repository, provRepo providers.Repository, sender notify.EmailSender, logger *logging.Logger) *Service {
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{
		repo:      repo,
		providers: provRepo,
		sender:    sender,
		logger:    logger,
		now:       time.Now,
	}
}

// Book creates a pending appointment for the calling patient.
func (s *Service) Book(ctx context.Context, user identity.User, req BookingRequest) (*Appointment, error) {
	ctx, span := tracer.Start(ctx, "appointments.book")
	defer span.End()
	span.SetAttributes(attribute.String("appointment.doctor_id", req.DoctorID))

	if user.Role != identity.RolePatient {
		return nil, fmt.Errorf("%w: only patients can create appointments", ErrForbidden)
	}
	if req.DoctorID == "" || req.ScheduledAt.IsZero() {
		return nil, ErrInvalidBooking
	}
	if !req.ScheduledAt.After(s.now()) {
		return nil, ErrPastSchedule
	}
	if _, err := s.providers.GetByID(ctx, req.DoctorID); err != nil {
		if err == providers.ErrProviderNotFound {
			return nil, ErrAppointmentNotFound
		}
		return nil, fmt.Errorf("appointments: resolve doctor: %w", err)
	}

	taken, err := s.repo.HasActiveAt(ctx, req.DoctorID, req.ScheduledAt)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ErrSlotTaken
	}

	appt := &Appointment{
		PatientID:    user.ID,
		DoctorID:     req.DoctorID,
		ScheduledAt:  req.ScheduledAt.UTC(),
		Status:       StatusPending,
		Symptoms:     req.Symptoms,
		Notes:        req.Notes,
		ContactEmail: req.ContactEmail,
		ContactName:  req.ContactName,
	}
	if err := s.repo.Create(ctx, appt); err != nil {
		return nil, err
	}
	s.logger.Info("appointment booked",
		"appointment_id", appt.ID, "doctor_id", appt.DoctorID, "scheduled_at", appt.ScheduledAt)
	return appt, nil
}

// Get returns one appointment if the caller is a party to it.
func (s *Service) Get(ctx context.Context, user identity.User, id string) (*Appointment, error) {
	appt, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.authorize(ctx, user, appt); err != nil {
		return nil, err
	}
	return appt, nil
}

// ListOwn returns the caller's appointments: booked ones for a patient, the
// practice schedule for a provider.
func (s *Service) ListOwn(ctx context.Context, user identity.User) ([]Appointment, error) {
	switch user.Role {
	case identity.RolePatient:
		return s.repo.ListByPatient(ctx, user.ID)
	case identity.RoleProvider:
		prof, err := s.providers.GetByUserID(ctx, user.ID)
		if err != nil {
			if err == providers.ErrNoProfile {
				return []Appointment{}, nil
			}
			return nil, fmt.Errorf("appointments: resolve profile: %w", err)
		}
		return s.repo.ListByDoctor(ctx, prof.ID)
	}
	return []Appointment{}, nil
}

// ListForDoctor returns a doctor's schedule, restricted to the provider who
// owns that profile.
func (s *Service) ListForDoctor(ctx context.Context, user identity.User, doctorID string) ([]Appointment, error) {
	if user.Role != identity.RoleProvider {
		return nil, ErrForbidden
	}
	prof, err := s.providers.GetByUserID(ctx, user.ID)
	if err != nil {
		if err == providers.ErrNoProfile {
			return nil, ErrForbidden
		}
		return nil, fmt.Errorf("appointments: resolve profile: %w", err)
	}
	if prof.ID != doctorID {
		return nil, ErrForbidden
	}
	return s.repo.ListByDoctor(ctx, doctorID)
}

// UpdateStatus moves an appointment through its lifecycle. Patients may only
// cancel their own; providers may confirm, cancel, or complete theirs.
func (s *Service) UpdateStatus(ctx context.Context, user identity.User, id string, status Status) (*Appointment, error) {
	ctx, span := tracer.Start(ctx, "appointments.update_status")
	defer span.End()
	span.SetAttributes(
		attribute.String("appointment.id", id),
		attribute.String("appointment.status", string(status)),
	)

	if !status.Valid() {
		return nil, ErrInvalidStatus
	}

	appt, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.authorize(ctx, user, appt); err != nil {
		return nil, err
	}

	switch user.Role {
	case identity.RolePatient:
		if status != StatusCancelled {
			return nil, fmt.Errorf("%w: patients can only cancel appointments", ErrInvalidStatus)
		}
	case identity.RoleProvider:
		if status == StatusPending {
			return nil, fmt.Errorf("%w: appointments cannot return to pending", ErrInvalidStatus)
		}
	default:
		return nil, ErrForbidden
	}

	updated, err := s.repo.UpdateStatus(ctx, id, status)
	if err != nil {
		return nil, err
	}

	if status == StatusConfirmed {
		s.sendConfirmation(ctx, updated)
	}
	return updated, nil
}

// Cancel removes a patient's own appointment record entirely.
func (s *Service) Cancel(ctx context.Context, user identity.User, id string) error {
	appt, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if user.Role != identity.RolePatient || appt.PatientID != user.ID {
		return ErrForbidden
	}
	return s.repo.Delete(ctx, id)
}

// authorize checks that user is a party to appt: the booking patient, or the
// provider whose profile the appointment targets.
func (s *Service) authorize(ctx context.Context, user identity.User, appt *Appointment) error {
	switch user.Role {
	case identity.RolePatient:
		if appt.PatientID == user.ID {
			return nil
		}
	case identity.RoleProvider:
		prof, err := s.providers.GetByUserID(ctx, user.ID)
		if err == nil && prof.ID == appt.DoctorID {
			return nil
		}
	}
	// Hide the record's existence from non-parties.
	return ErrAppointmentNotFound
}

// sendConfirmation emails the booking contact. Failures are logged, never
// surfaced: the confirmation itself already happened.
func (s *Service) sendConfirmation(ctx context.Context, appt *Appointment) {
	if s.sender == nil || appt.ContactEmail == "" {
		return
	}
	doctorName := "your doctor"
	if prof, err := s.providers.GetByID(ctx, appt.DoctorID); err == nil {
		doctorName = prof.Name
	}
	msg := notify.EmailMessage{
		To:      appt.ContactEmail,
		ToName:  appt.ContactName,
		Subject: "Your appointment is confirmed",
		Body: fmt.Sprintf("Your appointment with %s on %s has been confirmed.",
			doctorName, appt.ScheduledAt.Format("Monday, 2 January 2006 at 15:04 MST")),
	}
	if err := s.sender.Send(ctx, msg); err != nil {
		s.logger.Warn("confirmation email failed", "appointment_id", appt.ID, "error", err)
	}
}
