package booking

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var ErrAppointmentNotFound = errors.New("appointment not found")

// Store contains all DB interactions needed by the coordinator.
type Store interface {
	Create(ctx context.Context, appt *Appointment) (*Appointment, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Appointment, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status Status) (*Appointment, error)

	ListAll(ctx context.Context) ([]Appointment, error)
	ListByPatient(ctx context.Context, patientID string) ([]Appointment, error)
	ListByDoctor(ctx context.Context, doctorID string) ([]Appointment, error)

	// Conflict window query: non-cancelled appointments for the doctor with
	// a start time inside [start, end].
	ListDoctorAppointmentsInRange(ctx context.Context, doctorID string, start, end time.Time) ([]Appointment, error)

	CountByStatus(ctx context.Context, status Status) (int, error)
	Count(ctx context.Context) (int, error)
}
