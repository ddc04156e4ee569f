package api

import (
	"time"

	"github.com/google/uuid"

	"github.com/careflow/care-orchestration/internal/booking"
)

type CreateAppointmentRequest struct {
	PatientID           string    `json:"patientId"`
	DoctorID            string    `json:"doctorId"`
	AppointmentDateTime time.Time `json:"appointmentDateTime"`
	Type                string    `json:"type"`
	Notes               string    `json:"notes,omitempty"`
}

type UpdateStatusRequest struct {
	Status string `json:"status"`
}

type AppointmentResponse struct {
	ID                  uuid.UUID `json:"id"`
	PatientID           string    `json:"patientId"`
	PatientName         string    `json:"patientName"`
	PatientEmail        string    `json:"patientEmail"`
	DoctorID            string    `json:"doctorId"`
	DoctorName          string    `json:"doctorName"`
	AppointmentDateTime time.Time `json:"appointmentDateTime"`
	Type                string    `json:"type"`
	Status              string    `json:"status"`
	Notes               string    `json:"notes,omitempty"`
	CreatedAt           time.Time `json:"createdAt"`
	UpdatedAt           time.Time `json:"updatedAt"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

func toAppointmentResponse(a *booking.Appointment) AppointmentResponse {
	return AppointmentResponse{
		ID:                  a.ID,
		PatientID:           a.PatientID,
		PatientName:         a.PatientName,
		PatientEmail:        a.PatientEmail,
		DoctorID:            a.DoctorID,
		DoctorName:          a.DoctorName,
		AppointmentDateTime: a.StartTime,
		Type:                string(a.Type),
		Status:              string(a.Status),
		Notes:               a.Notes,
		CreatedAt:           a.CreatedAt,
		UpdatedAt:           a.UpdatedAt,
	}
}

func toAppointmentResponses(appts []booking.Appointment) []AppointmentResponse {
	out := make([]AppointmentResponse, 0, len(appts))
	for i := range appts {
		out = append(out, toAppointmentResponse(&appts[i]))
	}
	return out
}
