package analytics

import (
	"errors"
	"time"
)

// Kind names one of the reports the aggregator can build.
type Kind string

const (
	KindDashboard    Kind = "dashboard"
	KindRevenue      Kind = "revenue"
	KindAppointments Kind = "appointments"
	KindHealth       Kind = "health"
)

var ErrUnknownKind = errors.New("unknown report kind")

// Report is a finished aggregation: named metrics plus the build timestamp.
// Degraded is true when at least one branch resolved to its fallback value
// instead of live data. Reports are assembled once and never mutated.
type Report struct {
	Metrics     map[string]any `json:"metrics"`
	GeneratedAt time.Time      `json:"generatedAt"`
	Degraded    bool           `json:"degraded"`
}
