package booking

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const appointmentColumns = `
	id, patient_id, patient_name, patient_email, doctor_id, doctor_name,
	start_time, appointment_type, status, notes, created_at, updated_at`

type PgStore struct {
	pool *pgxpool.Pool
}

func NewPgStore(pool *pgxpool.Pool) *PgStore {
	return &PgStore{pool: pool}
}

func scanAppointment(row pgx.Row) (*Appointment, error) {
	var a Appointment
	var notes *string

	err := row.Scan(
		&a.ID,
		&a.PatientID,
		&a.PatientName,
		&a.PatientEmail,
		&a.DoctorID,
		&a.DoctorName,
		&a.StartTime,
		&a.Type,
		&a.Status,
		&notes,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAppointmentNotFound
		}
		return nil, err
	}

	if notes != nil {
		a.Notes = *notes
	}
	return &a, nil
}

func scanAppointments(rows pgx.Rows) ([]Appointment, error) {
	defer rows.Close()

	var result []Appointment
	for rows.Next() {
		a, err := scanAppointment(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *a)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return result, nil
}

func (s *PgStore) Create(ctx context.Context, appt *Appointment) (*Appointment, error) {
	id := appt.ID
	if id == uuid.Nil {
		id = uuid.New()
	}

	row := s.pool.QueryRow(ctx, `
		INSERT INTO appointments (
			id, patient_id, patient_name, patient_email, doctor_id, doctor_name,
			start_time, appointment_type, status, notes, created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, now(), now())
		RETURNING`+appointmentColumns,
		id, appt.PatientID, appt.PatientName, appt.PatientEmail,
		appt.DoctorID, appt.DoctorName, appt.StartTime, appt.Type, appt.Status, appt.Notes,
	)

	return scanAppointment(row)
}

func (s *PgStore) GetByID(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT`+appointmentColumns+`
		FROM appointments
		WHERE id = $1
	`, id)
	return scanAppointment(row)
}

func (s *PgStore) UpdateStatus(ctx context.Context, id uuid.UUID, status Status) (*Appointment, error) {
	row := s.pool.QueryRow(ctx, `
		UPDATE appointments
		SET status = $2,
		    updated_at = now()
		WHERE id = $1
		RETURNING`+appointmentColumns,
		id, status,
	)
	return scanAppointment(row)
}

func (s *PgStore) ListAll(ctx context.Context) ([]Appointment, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT`+appointmentColumns+`
		FROM appointments
		ORDER BY start_time DESC
	`)
	if err != nil {
		return nil, err
	}
	return scanAppointments(rows)
}

func (s *PgStore) ListByPatient(ctx context.Context, patientID string) ([]Appointment, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT`+appointmentColumns+`
		FROM appointments
		WHERE patient_id = $1
		ORDER BY start_time DESC
	`, patientID)
	if err != nil {
		return nil, err
	}
	return scanAppointments(rows)
}

func (s *PgStore) ListByDoctor(ctx context.Context, doctorID string) ([]Appointment, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT`+appointmentColumns+`
		FROM appointments
		WHERE doctor_id = $1
		ORDER BY start_time DESC
	`, doctorID)
	if err != nil {
		return nil, err
	}
	return scanAppointments(rows)
}

func (s *PgStore) ListDoctorAppointmentsInRange(ctx context.Context, doctorID string, start, end time.Time) ([]Appointment, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT`+appointmentColumns+`
		FROM appointments
		WHERE doctor_id = $1
		  AND status <> 'CANCELLED'
		  AND start_time >= $2
		  AND start_time <= $3
	`, doctorID, start, end)
	if err != nil {
		return nil, err
	}
	return scanAppointments(rows)
}

func (s *PgStore) CountByStatus(ctx context.Context, status Status) (int, error) {
	var n int
	err := s.pool.QueryRow(ctx, `
		SELECT count(*) FROM appointments WHERE status = $1
	`, status).Scan(&n)
	return n, err
}

func (s *PgStore) Count(ctx context.Context) (int, error) {
	var n int
	err := s.pool.QueryRow(ctx, `SELECT count(*) FROM appointments`).Scan(&n)
	return n, err
}
