package appointments

import (
	"context"
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func appointmentRows(mock pgxmock.PgxPoolIface, appts ...Appointment) *pgxmock.Rows {
	rows := mock.NewRows([]string{
		"id", "patient_id", "doctor_id", "scheduled_at", "status", "symptoms",
		"notes", "contact_email", "contact_name", "created_at", "updated_at",
	})
	for _, a := range appts {
		rows.AddRow(a.ID, a.PatientID, a.DoctorID, a.ScheduledAt, a.Status,
			a.Symptoms, a.Notes, a.ContactEmail, a.ContactName, a.CreatedAt, a.UpdatedAt)
	}
	return rows
}

func TestPostgresCreateInsertsRow(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectExec("INSERT INTO appointments").
		WithArgs(pgxmock.AnyArg(), "patient-1", "doctor-1", pgxmock.AnyArg(),
			StatusPending, "rash", "", "pat@example.com", "Pat",
			pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	repo := NewPostgresRepository(mock)
	appt := &Appointment{
		PatientID:    "patient-1",
		DoctorID:     "doctor-1",
		ScheduledAt:  time.Now().Add(24 * time.Hour),
		Status:       StatusPending,
		Symptoms:     "rash",
		ContactEmail: "pat@example.com",
		ContactName:  "Pat",
	}
	require.NoError(t, repo.Create(context.Background(), appt))
	assert.NotEmpty(t, appt.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresGetByIDNotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery("SELECT(.|\n)*FROM appointments WHERE id").
		WithArgs("missing").
		WillReturnRows(appointmentRows(mock))

	repo := NewPostgresRepository(mock)
	_, err = repo.GetByID(context.Background(), "missing")
	require.ErrorIs(t, err, ErrAppointmentNotFound)
}

func TestPostgresListByDoctor(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	now := time.Now().UTC()
	mock.ExpectQuery("SELECT(.|\n)*FROM appointments WHERE doctor_id").
		WithArgs("doctor-1").
		WillReturnRows(appointmentRows(mock,
			Appointment{ID: "a1", PatientID: "p1", DoctorID: "doctor-1",
				ScheduledAt: now, Status: StatusPending, CreatedAt: now, UpdatedAt: now},
		))

	repo := NewPostgresRepository(mock)
	list, err := repo.ListByDoctor(context.Background(), "doctor-1")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "a1", list[0].ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresSlotCheck(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	at := time.Now().Add(24 * time.Hour)
	mock.ExpectQuery("SELECT EXISTS").
		WithArgs("doctor-1", at).
		WillReturnRows(mock.NewRows([]string{"exists"}).AddRow(true))

	repo := NewPostgresRepository(mock)
	taken, err := repo.HasActiveAt(context.Background(), "doctor-1", at)
	require.NoError(t, err)
	assert.True(t, taken)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresDeleteMissingRow(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectExec("DELETE FROM appointments").
		WithArgs("missing").
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	repo := NewPostgresRepository(mock)
	require.ErrorIs(t, repo.Delete(context.Background(), "missing"), ErrAppointmentNotFound)
}
