package upstream

import (
	"context"
	"time"

	"go.uber.org/zap"
)

type Doctor struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Specialization string `json:"specialization"`
	Email          string `json:"email"`
}

// DoctorDirectory is the read contract of the doctor service.
type DoctorDirectory struct {
	c *Client
}

func NewDoctorDirectory(baseURL string, timeout time.Duration, log *zap.Logger) *DoctorDirectory {
	return &DoctorDirectory{
		c: NewClient(Endpoint{Name: "doctor-service", BaseURL: baseURL, Timeout: timeout}, log),
	}
}

// Get fetches one doctor by id. On failure it degrades to a placeholder
// doctor and returns false instead of aborting the caller. The patient
// lookup next door is fatal on failure; this one is not. Callers depend on
// both behaviors, so neither is being unified here.
func (d *DoctorDirectory) Get(ctx context.Context, id string) (*Doctor, bool) {
	var doc Doctor
	if err := d.c.getJSON(ctx, "/doctors/"+id, &doc); err != nil {
		d.c.fallback("get-doctor", err)
		return placeholderDoctor(id), false
	}
	return &doc, true
}

func (d *DoctorDirectory) Ping(ctx context.Context) bool {
	return d.c.ping(ctx, "/doctors")
}

func placeholderDoctor(id string) *Doctor {
	return &Doctor{
		ID:             id,
		Name:           "Dr. Demo Doctor",
		Specialization: "General Medicine",
		Email:          "doctor@medicare.com",
	}
}
