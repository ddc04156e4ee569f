package booking

import (
	"time"

	"github.com/google/uuid"
)

type Status string

const (
	StatusScheduled  Status = "SCHEDULED"
	StatusConfirmed  Status = "CONFIRMED"
	StatusInProgress Status = "IN_PROGRESS"
	StatusCompleted  Status = "COMPLETED"
	StatusCancelled  Status = "CANCELLED"
	StatusNoShow     Status = "NO_SHOW"
)

func (s Status) Valid() bool {
	switch s {
	case StatusScheduled, StatusConfirmed, StatusInProgress, StatusCompleted, StatusCancelled, StatusNoShow:
		return true
	}
	return false
}

type Type string

const (
	TypeConsultation Type = "CONSULTATION"
	TypeFollowUp     Type = "FOLLOW_UP"
	TypeEmergency    Type = "EMERGENCY"
	TypeSurgery      Type = "SURGERY"
	TypeCheckup      Type = "CHECKUP"
)

func (t Type) Valid() bool {
	switch t {
	case TypeConsultation, TypeFollowUp, TypeEmergency, TypeSurgery, TypeCheckup:
		return true
	}
	return false
}

// Appointment is the locally committed booking record. Patient and doctor
// fields are denormalized at creation time as a point-in-time snapshot;
// later edits to those directories do not flow back into past records.
type Appointment struct {
	ID           uuid.UUID
	PatientID    string
	PatientName  string
	PatientEmail string
	DoctorID     string
	DoctorName   string
	StartTime    time.Time
	Type         Type
	Status       Status
	Notes        string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Request is the caller-supplied input to appointment creation.
type Request struct {
	PatientID string
	DoctorID  string
	StartTime time.Time
	Type      Type
	Notes     string
}

// Stats are the counts-by-status the appointment ledger reports.
type Stats struct {
	Total     int
	Scheduled int
	Completed int
	Cancelled int
}
