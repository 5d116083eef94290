package appointments

import "errors"

var (
	// ErrAppointmentNotFound is returned when no appointment matches the id
	// within the caller's visibility.
	ErrAppointmentNotFound = errors.New("appointments: appointment not found")

	// ErrSlotTaken is returned when the doctor already holds an active
	// appointment at the requested time.
	ErrSlotTaken = errors.New("appointments: time slot is already booked")

	// ErrPastSchedule is returned when the requested time is not in the future.
	ErrPastSchedule = errors.New("appointments: scheduled time cannot be in the past")

	// ErrInvalidBooking is returned when a booking request is missing required
	// fields.
	ErrInvalidBooking = errors.New("appointments: doctor_id and scheduled_at are required")

	// ErrForbidden is returned when the caller's role or ownership does not
	// permit the operation.
	ErrForbidden = errors.New("appointments: operation not permitted")

	// ErrInvalidStatus is returned for a status outside the known vocabulary
	// or one the caller may not set.
	ErrInvalidStatus = errors.New("appointments: invalid status update")
)
