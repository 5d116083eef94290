package appointments

import "time"

// Status is the lifecycle state of an appointment.
type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCancelled Status = "cancelled"
	StatusCompleted Status = "completed"
)

// Valid reports whether s is one of the known states.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCancelled, StatusCompleted:
		return true
	}
	return false
}

// Active reports whether the appointment still holds its slot.
func (s Status) Active() bool {
	return s == StatusPending || s == StatusConfirmed
}

// Appointment is a booking between a patient and a provider for one slot.
type Appointment struct {
	ID           string    `json:"id"`
	PatientID    string    `json:"patient_id"`
	DoctorID     string    `json:"doctor_id"`
	ScheduledAt  time.Time `json:"scheduled_at"`
	Status       Status    `json:"status"`
	Symptoms     string    `json:"symptoms,omitempty"`
	Notes        string    `json:"notes,omitempty"`
	ContactEmail string    `json:"contact_email,omitempty"`
	ContactName  string    `json:"contact_name,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// BookingRequest is the patient-supplied input for a new appointment.
type BookingRequest struct {
	DoctorID     string    `json:"doctor_id"`
	ScheduledAt  time.Time `json:"scheduled_at"`
	Symptoms     string    `json:"symptoms"`
	Notes        string    `json:"notes"`
	ContactEmail string    `json:"contact_email"`
	ContactName  string    `json:"contact_name"`
}
