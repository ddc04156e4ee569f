package analytics

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/careflow/care-orchestration/internal/upstream"
)

// The aggregator sees each backend through a narrow read contract; the
// concrete upstream clients satisfy these.

type PatientSource interface {
	List(ctx context.Context) ([]map[string]any, bool)
	Ping(ctx context.Context) bool
}

type BillingSource interface {
	List(ctx context.Context) ([]map[string]any, bool)
	Ping(ctx context.Context) bool
}

type AppointmentSource interface {
	List(ctx context.Context) ([]map[string]any, bool)
	Stats(ctx context.Context) (upstream.AppointmentStats, bool)
	Ping(ctx context.Context) bool
}

type NotificationSource interface {
	Stats(ctx context.Context) (upstream.NotificationStats, bool)
	Ping(ctx context.Context) bool
}

// Sources bundles the four backends a report can draw from.
type Sources struct {
	Patients      PatientSource
	Billing       BillingSource
	Appointments  AppointmentSource
	Notifications NotificationSource
}

// Aggregator fans a report request out to the backends, joins the branches,
// and derives the composite metrics. A failed branch contributes its
// fallback value and flips the report's degraded flag; it never fails the
// report or cancels sibling branches.
type Aggregator struct {
	sources  Sources
	cache    *Cache
	cacheTTL time.Duration
	log      *zap.Logger
}

func NewAggregator(sources Sources, cache *Cache, cacheTTL time.Duration, log *zap.Logger) *Aggregator {
	return &Aggregator{
		sources:  sources,
		cache:    cache,
		cacheTTL: cacheTTL,
		log:      log,
	}
}

// BuildReport returns the report for kind, served from cache when a live
// entry exists. Health reports are always rebuilt: a stale availability
// signal is worse than none.
func (a *Aggregator) BuildReport(ctx context.Context, kind Kind) (Report, error) {
	if kind == KindHealth {
		return a.buildHealth(ctx), nil
	}

	if report, ok := a.cache.Get(kind); ok {
		return report, nil
	}

	var report Report
	switch kind {
	case KindDashboard:
		report = a.buildDashboard(ctx)
	case KindRevenue:
		report = a.buildRevenue(ctx)
	case KindAppointments:
		report = a.buildAppointments(ctx)
	default:
		return Report{}, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}

	a.cache.Put(kind, report, a.cacheTTL)
	return report, nil
}

func (a *Aggregator) buildDashboard(ctx context.Context) Report {
	var (
		patients, billing, appointments []map[string]any
		notifStats                      upstream.NotificationStats

		patientsOK, billingOK, apptsOK, notifOK bool
	)

	// Four independent branches, joined before any metric math. Each branch
	// carries its own timeout; a slow backend delays only itself.
	var wg sync.WaitGroup
	wg.Add(4)
	go func() { defer wg.Done(); patients, patientsOK = a.sources.Patients.List(ctx) }()
	go func() { defer wg.Done(); billing, billingOK = a.sources.Billing.List(ctx) }()
	go func() { defer wg.Done(); appointments, apptsOK = a.sources.Appointments.List(ctx) }()
	go func() { defer wg.Done(); notifStats, notifOK = a.sources.Notifications.Stats(ctx) }()
	wg.Wait()

	degraded := !patientsOK || !billingOK || !apptsOK || !notifOK
	if degraded {
		a.log.Warn("dashboard report built with fallback data",
			zap.Bool("patients_ok", patientsOK),
			zap.Bool("billing_ok", billingOK),
			zap.Bool("appointments_ok", apptsOK),
			zap.Bool("notifications_ok", notifOK),
		)
	}

	metrics := map[string]any{
		"totalPatients":             len(patients),
		"totalBillingAccounts":      len(billing),
		"totalAppointments":         len(appointments),
		"totalNotifications":        notifStats.TotalNotifications,
		"sentNotifications":         notifStats.SentNotifications,
		"billingAccountsPerPatient": ratio(len(billing), len(patients)),
		"appointmentsPerPatient":    ratio(len(appointments), len(patients)),
		"notificationDeliveryRate":  deliveryRate(notifStats),
		"dataSource":                "Real-time aggregation from 4 microservices",
	}

	return Report{Metrics: metrics, GeneratedAt: time.Now(), Degraded: degraded}
}

func (a *Aggregator) buildRevenue(ctx context.Context) Report {
	billing, ok := a.sources.Billing.List(ctx)

	accounts := len(billing)
	totalRevenue := float64(accounts) * 150.0

	average := 0.0
	if accounts > 0 {
		average = totalRevenue / float64(accounts)
	}

	metrics := map[string]any{
		"totalRevenue":             totalRevenue,
		"monthlyRevenue":           totalRevenue * 0.8,
		"pendingRevenue":           totalRevenue * 0.2,
		"totalBillingAccounts":     accounts,
		"averageRevenuePerAccount": average,
		"reportDate":               time.Now().Format("2006-01-02"),
		"currency":                 "USD",
	}

	return Report{Metrics: metrics, GeneratedAt: time.Now(), Degraded: !ok}
}

func (a *Aggregator) buildAppointments(ctx context.Context) Report {
	stats, ok := a.sources.Appointments.Stats(ctx)

	utilization := 0.0
	peakHours := []string{}
	if stats.TotalAppointments > 0 {
		utilization = 85.5
		peakHours = []string{"10:00-12:00", "14:00-16:00"}
	}

	metrics := map[string]any{
		"totalAppointments":          stats.TotalAppointments,
		"scheduledAppointments":      stats.ScheduledAppointments,
		"completedAppointments":      stats.CompletedAppointments,
		"cancelledAppointments":      stats.CancelledAppointments,
		"completionRate":             completionRate(stats.CompletedAppointments, stats.TotalAppointments),
		"utilizationRate":            utilization,
		"averageAppointmentDuration": "45 minutes",
		"peakHours":                  peakHours,
	}

	return Report{Metrics: metrics, GeneratedAt: time.Now(), Degraded: !ok}
}

func (a *Aggregator) buildHealth(ctx context.Context) Report {
	var patientsUp, billingUp, apptsUp, notifUp bool

	var wg sync.WaitGroup
	wg.Add(4)
	go func() { defer wg.Done(); patientsUp = a.sources.Patients.Ping(ctx) }()
	go func() { defer wg.Done(); billingUp = a.sources.Billing.Ping(ctx) }()
	go func() { defer wg.Done(); apptsUp = a.sources.Appointments.Ping(ctx) }()
	go func() { defer wg.Done(); notifUp = a.sources.Notifications.Ping(ctx) }()
	wg.Wait()

	healthy := 0
	for _, up := range []bool{patientsUp, billingUp, apptsUp, notifUp} {
		if up {
			healthy++
		}
	}

	metrics := map[string]any{
		"patientServiceHealth":      upDown(patientsUp),
		"billingServiceHealth":      upDown(billingUp),
		"appointmentServiceHealth":  upDown(apptsUp),
		"notificationServiceHealth": upDown(notifUp),
		"healthyServices":           healthy,
		"totalServices":             4,
		"overallHealth":             overallHealth(healthy),
		"systemUptime":              "99.9%",
	}

	// A DOWN backend is the report's data here, not a degraded branch.
	return Report{Metrics: metrics, GeneratedAt: time.Now(), Degraded: false}
}

// ratio divides n by d as floats, defined as 0 for an empty denominator.
func ratio(n, d int) float64 {
	if d == 0 {
		return 0
	}
	return float64(n) / float64(d)
}

// deliveryRate is sent/total as a percentage. With nothing to deliver the
// rate is 100: no notification has failed.
func deliveryRate(s upstream.NotificationStats) float64 {
	if s.TotalNotifications == 0 {
		return 100.0
	}
	return float64(s.SentNotifications) / float64(s.TotalNotifications) * 100
}

// completionRate is completed/total as a percentage, 0 with no appointments.
func completionRate(completed, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(completed) / float64(total) * 100
}

func upDown(up bool) string {
	if up {
		return "UP"
	}
	return "DOWN"
}

func overallHealth(healthy int) string {
	switch {
	case healthy == 4:
		return "EXCELLENT"
	case healthy >= 3:
		return "GOOD"
	case healthy >= 2:
		return "FAIR"
	default:
		return "POOR"
	}
}
