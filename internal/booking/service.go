package booking

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/careflow/care-orchestration/internal/events"
	redisclient "github.com/careflow/care-orchestration/internal/redis"
	"github.com/careflow/care-orchestration/internal/upstream"
)

// AvailabilityWindow is the half-width of the conflict interval around a
// requested start time: an existing appointment within ±30 minutes blocks
// the booking.
const AvailabilityWindow = 30 * time.Minute

var (
	ErrPatientNotFound   = errors.New("patient not found")
	ErrDoctorUnavailable = errors.New("doctor is not available at the requested time")
	ErrScheduleBusy      = errors.New("doctor schedule is being booked, please retry")
	ErrInvalidRequest    = errors.New("invalid booking request")
)

// PatientGetter is the fatal existence check: an error here aborts booking.
type PatientGetter interface {
	Get(ctx context.Context, id string) (*upstream.Patient, error)
}

// DoctorGetter is the soft existence check: failure degrades to a
// placeholder doctor rather than aborting.
type DoctorGetter interface {
	Get(ctx context.Context, id string) (*upstream.Doctor, bool)
}

// Coordinator runs the appointment-creation protocol: parallel existence
// checks, a conflict check under a per-doctor lock, a local commit, and a
// best-effort event publish. The commit is the only durability boundary;
// the publish is advisory.
type Coordinator struct {
	store    Store
	patients PatientGetter
	doctors  DoctorGetter
	locker   redisclient.Locker
	bus      events.Publisher
	log      *zap.Logger
}

func NewCoordinator(store Store, patients PatientGetter, doctors DoctorGetter, locker redisclient.Locker, bus events.Publisher, log *zap.Logger) *Coordinator {
	return &Coordinator{
		store:    store,
		patients: patients,
		doctors:  doctors,
		locker:   locker,
		bus:      bus,
		log:      log,
	}
}

// Create books an appointment. The patient and doctor lookups run in
// parallel; a patient failure is fatal, a doctor failure falls back to the
// placeholder. The conflict check and insert run inside the doctor's lock
// so concurrent requests cannot both commit overlapping slots.
func (c *Coordinator) Create(ctx context.Context, req Request) (*Appointment, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	var (
		patient    *upstream.Patient
		patientErr error
		doctor     *upstream.Doctor
		doctorLive bool
	)

	var wg sync.WaitGroup
	wg.Add(2)
	go func() { defer wg.Done(); patient, patientErr = c.patients.Get(ctx, req.PatientID) }()
	go func() { defer wg.Done(); doctor, doctorLive = c.doctors.Get(ctx, req.DoctorID) }()
	wg.Wait()

	if patientErr != nil {
		c.log.Warn("booking aborted, patient lookup failed",
			zap.String("patient_id", req.PatientID),
			zap.Error(patientErr),
		)
		return nil, ErrPatientNotFound
	}
	if !doctorLive {
		c.log.Warn("doctor lookup failed, booking with placeholder doctor data",
			zap.String("doctor_id", req.DoctorID),
		)
	}

	var created *Appointment

	err := c.locker.WithDoctorLock(ctx, req.DoctorID, func(lockCtx context.Context) error {
		start := req.StartTime.Add(-AvailabilityWindow)
		end := req.StartTime.Add(AvailabilityWindow)

		conflicts, err := c.store.ListDoctorAppointmentsInRange(lockCtx, req.DoctorID, start, end)
		if err != nil {
			return fmt.Errorf("check doctor availability: %w", err)
		}
		if len(conflicts) > 0 {
			return ErrDoctorUnavailable
		}

		appt := &Appointment{
			ID:           uuid.New(),
			PatientID:    req.PatientID,
			PatientName:  patient.Name,
			PatientEmail: patient.Email,
			DoctorID:     req.DoctorID,
			DoctorName:   doctor.Name,
			StartTime:    req.StartTime,
			Type:         req.Type,
			Status:       StatusScheduled,
			Notes:        req.Notes,
		}

		created, err = c.store.Create(lockCtx, appt)
		if err != nil {
			return fmt.Errorf("persist appointment: %w", err)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, redisclient.ErrLockNotAcquired) {
			return nil, ErrScheduleBusy
		}
		return nil, err
	}

	c.announce(ctx, events.EventAppointmentCreated, created)

	c.log.Info("appointment created",
		zap.String("appointment_id", created.ID.String()),
		zap.String("patient_id", created.PatientID),
		zap.String("doctor_id", created.DoctorID),
		zap.Time("start_time", created.StartTime),
	)

	return created, nil
}

// UpdateStatus overwrites the record's status and announces the change.
// Any status may move to any other; there is no transition guard.
func (c *Coordinator) UpdateStatus(ctx context.Context, id uuid.UUID, status Status) (*Appointment, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidRequest, status)
	}

	updated, err := c.store.UpdateStatus(ctx, id, status)
	if err != nil {
		if errors.Is(err, ErrAppointmentNotFound) {
			return nil, ErrAppointmentNotFound
		}
		return nil, fmt.Errorf("update appointment status: %w", err)
	}

	c.announce(ctx, events.EventAppointmentStatusUpdated, updated)

	return updated, nil
}

// announce publishes a domain event for the committed record. A publish
// failure is logged and swallowed; it never unwinds the commit.
func (c *Coordinator) announce(ctx context.Context, eventType string, appt *Appointment) {
	ev := events.New(eventType, map[string]any{
		"id":                  appt.ID.String(),
		"patientId":           appt.PatientID,
		"patientName":         appt.PatientName,
		"patientEmail":        appt.PatientEmail,
		"doctorId":            appt.DoctorID,
		"doctorName":          appt.DoctorName,
		"appointmentDateTime": appt.StartTime.Format(time.RFC3339),
		"type":                string(appt.Type),
		"status":              string(appt.Status),
	})

	if err := c.bus.Publish(ctx, events.TopicAppointmentEvents, ev); err != nil {
		c.log.Error("failed to publish appointment event",
			zap.String("event_type", eventType),
			zap.String("appointment_id", appt.ID.String()),
			zap.Error(err),
		)
	}
}

func (c *Coordinator) Get(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	return c.store.GetByID(ctx, id)
}

func (c *Coordinator) List(ctx context.Context) ([]Appointment, error) {
	return c.store.ListAll(ctx)
}

func (c *Coordinator) ListByPatient(ctx context.Context, patientID string) ([]Appointment, error) {
	return c.store.ListByPatient(ctx, patientID)
}

func (c *Coordinator) ListByDoctor(ctx context.Context, doctorID string) ([]Appointment, error) {
	return c.store.ListByDoctor(ctx, doctorID)
}

// Stats counts appointments by status for the analytics branch.
func (c *Coordinator) Stats(ctx context.Context) (Stats, error) {
	total, err := c.store.Count(ctx)
	if err != nil {
		return Stats{}, fmt.Errorf("count appointments: %w", err)
	}

	var stats Stats
	stats.Total = total

	for _, s := range []struct {
		status Status
		dst    *int
	}{
		{StatusScheduled, &stats.Scheduled},
		{StatusCompleted, &stats.Completed},
		{StatusCancelled, &stats.Cancelled},
	} {
		n, err := c.store.CountByStatus(ctx, s.status)
		if err != nil {
			return Stats{}, fmt.Errorf("count %s appointments: %w", s.status, err)
		}
		*s.dst = n
	}

	return stats, nil
}

func validateRequest(req Request) error {
	switch {
	case req.PatientID == "":
		return fmt.Errorf("%w: patient id is required", ErrInvalidRequest)
	case req.DoctorID == "":
		return fmt.Errorf("%w: doctor id is required", ErrInvalidRequest)
	case req.StartTime.IsZero():
		return fmt.Errorf("%w: appointment date and time is required", ErrInvalidRequest)
	case !req.Type.Valid():
		return fmt.Errorf("%w: unknown appointment type %q", ErrInvalidRequest, req.Type)
	}
	return nil
}
