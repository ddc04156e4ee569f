package upstream

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// AppointmentStats is the counts-by-status summary the appointment ledger
// exposes at /appointments/stats.
type AppointmentStats struct {
	TotalAppointments     int `json:"totalAppointments"`
	ScheduledAppointments int `json:"scheduledAppointments"`
	CompletedAppointments int `json:"completedAppointments"`
	CancelledAppointments int `json:"cancelledAppointments"`
}

// AppointmentDirectory is the read contract of the appointment ledger.
type AppointmentDirectory struct {
	c *Client
}

func NewAppointmentDirectory(baseURL string, timeout time.Duration, log *zap.Logger) *AppointmentDirectory {
	return &AppointmentDirectory{
		c: NewClient(Endpoint{Name: "appointment-service", BaseURL: baseURL, Timeout: timeout}, log),
	}
}

// List returns all appointments, falling back to an empty list.
func (d *AppointmentDirectory) List(ctx context.Context) ([]map[string]any, bool) {
	var out []map[string]any
	if err := d.c.getJSON(ctx, "/appointments", &out); err != nil {
		d.c.fallback("list-appointments", err)
		return []map[string]any{}, false
	}
	return out, true
}

// Stats returns appointment counts by status, falling back to zeroes.
func (d *AppointmentDirectory) Stats(ctx context.Context) (AppointmentStats, bool) {
	var out AppointmentStats
	if err := d.c.getJSON(ctx, "/appointments/stats", &out); err != nil {
		d.c.fallback("get-appointment-stats", err)
		return AppointmentStats{}, false
	}
	return out, true
}

func (d *AppointmentDirectory) Ping(ctx context.Context) bool {
	return d.c.ping(ctx, "/appointments")
}
