package upstream

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
)

type Patient struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// PatientDirectory is the read contract of the patient service.
type PatientDirectory struct {
	c *Client
}

func NewPatientDirectory(baseURL string, timeout time.Duration, log *zap.Logger) *PatientDirectory {
	return &PatientDirectory{
		c: NewClient(Endpoint{Name: "patient-service", BaseURL: baseURL, Timeout: timeout}, log),
	}
}

// List returns all patients. On any failure the fallback is an empty list
// and the second return is false.
func (d *PatientDirectory) List(ctx context.Context) ([]map[string]any, bool) {
	var out []map[string]any
	if err := d.c.getJSON(ctx, "/patients", &out); err != nil {
		d.c.fallback("list-patients", err)
		return []map[string]any{}, false
	}
	return out, true
}

// Get fetches one patient by id. Unlike List there is no fallback: booking
// treats a missing patient as fatal, so the error propagates.
func (d *PatientDirectory) Get(ctx context.Context, id string) (*Patient, error) {
	var p Patient
	if err := d.c.getJSON(ctx, "/patients/"+id, &p); err != nil {
		return nil, fmt.Errorf("get patient %s: %w", id, err)
	}
	return &p, nil
}

func (d *PatientDirectory) Ping(ctx context.Context) bool {
	return d.c.ping(ctx, "/patients")
}
