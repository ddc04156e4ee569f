package analytics

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/careflow/care-orchestration/internal/upstream"
)

type fakeSource struct {
	items     []map[string]any
	listOK    bool
	apptStats upstream.AppointmentStats
	apptOK    bool
	notif     upstream.NotificationStats
	notifOK   bool
	up        bool
}

func (f *fakeSource) List(context.Context) ([]map[string]any, bool) {
	if !f.listOK {
		return []map[string]any{}, false
	}
	return f.items, true
}

func (f *fakeSource) Stats(context.Context) (upstream.AppointmentStats, bool) {
	if !f.apptOK {
		return upstream.AppointmentStats{}, false
	}
	return f.apptStats, true
}

func (f *fakeSource) Ping(context.Context) bool { return f.up }

// notifSource satisfies NotificationSource with its own Stats shape.
type notifSource struct {
	stats upstream.NotificationStats
	ok    bool
	up    bool
}

func (f *notifSource) Stats(context.Context) (upstream.NotificationStats, bool) {
	if !f.ok {
		return upstream.NotificationStats{}, false
	}
	return f.stats, true
}

func (f *notifSource) Ping(context.Context) bool { return f.up }

func items(n int) []map[string]any {
	out := make([]map[string]any, n)
	for i := range out {
		out[i] = map[string]any{"id": i}
	}
	return out
}

type aggFixture struct {
	patients      *fakeSource
	billing       *fakeSource
	appointments  *fakeSource
	notifications *notifSource
	cache         *Cache
	agg           *Aggregator
}

func newAggFixture(ttl time.Duration) *aggFixture {
	fx := &aggFixture{
		patients: &fakeSource{items: items(10), listOK: true, up: true},
		billing:  &fakeSource{items: items(5), listOK: true, up: true},
		appointments: &fakeSource{
			items:  items(8),
			listOK: true,
			apptStats: upstream.AppointmentStats{
				TotalAppointments:     8,
				ScheduledAppointments: 4,
				CompletedAppointments: 2,
				CancelledAppointments: 2,
			},
			apptOK: true,
			up:     true,
		},
		notifications: &notifSource{
			stats: upstream.NotificationStats{TotalNotifications: 20, SentNotifications: 15},
			ok:    true,
			up:    true,
		},
		cache: NewCache(),
	}
	fx.agg = NewAggregator(Sources{
		Patients:      fx.patients,
		Billing:       fx.billing,
		Appointments:  fx.appointments,
		Notifications: fx.notifications,
	}, fx.cache, ttl, zap.NewNop())
	return fx
}

func TestDashboardReport(t *testing.T) {
	t.Run("AllBranchesLive", func(t *testing.T) {
		fx := newAggFixture(time.Minute)

		report, err := fx.agg.BuildReport(context.Background(), KindDashboard)
		require.NoError(t, err)

		assert.False(t, report.Degraded)
		assert.Equal(t, 10, report.Metrics["totalPatients"])
		assert.Equal(t, 5, report.Metrics["totalBillingAccounts"])
		assert.Equal(t, 8, report.Metrics["totalAppointments"])
		assert.Equal(t, 20, report.Metrics["totalNotifications"])
		assert.Equal(t, 15, report.Metrics["sentNotifications"])
		assert.InDelta(t, 0.5, report.Metrics["billingAccountsPerPatient"], 1e-9)
		assert.InDelta(t, 0.8, report.Metrics["appointmentsPerPatient"], 1e-9)
		assert.InDelta(t, 75.0, report.Metrics["notificationDeliveryRate"], 1e-9)
		assert.False(t, report.GeneratedAt.IsZero())
	})

	t.Run("ZeroDenominators", func(t *testing.T) {
		fx := newAggFixture(time.Minute)
		fx.patients.items = nil
		fx.notifications.stats = upstream.NotificationStats{}

		report, err := fx.agg.BuildReport(context.Background(), KindDashboard)
		require.NoError(t, err)

		assert.False(t, report.Degraded)
		assert.InDelta(t, 0.0, report.Metrics["billingAccountsPerPatient"], 1e-9)
		assert.InDelta(t, 0.0, report.Metrics["appointmentsPerPatient"], 1e-9)
		// Nothing to deliver means a perfect delivery rate, not a fault.
		assert.InDelta(t, 100.0, report.Metrics["notificationDeliveryRate"], 1e-9)
	})

	t.Run("FailedBranchDegradesReport", func(t *testing.T) {
		fx := newAggFixture(time.Minute)
		fx.billing.listOK = false

		report, err := fx.agg.BuildReport(context.Background(), KindDashboard)
		require.NoError(t, err)

		// The failed branch contributes its fallback; siblings are intact.
		assert.True(t, report.Degraded)
		assert.Equal(t, 0, report.Metrics["totalBillingAccounts"])
		assert.Equal(t, 10, report.Metrics["totalPatients"])
	})
}

func TestRevenueReport(t *testing.T) {
	t.Run("Metrics", func(t *testing.T) {
		fx := newAggFixture(time.Minute)

		report, err := fx.agg.BuildReport(context.Background(), KindRevenue)
		require.NoError(t, err)

		assert.False(t, report.Degraded)
		assert.InDelta(t, 750.0, report.Metrics["totalRevenue"], 1e-9)
		assert.InDelta(t, 600.0, report.Metrics["monthlyRevenue"], 1e-9)
		assert.InDelta(t, 150.0, report.Metrics["pendingRevenue"], 1e-9)
		assert.InDelta(t, 150.0, report.Metrics["averageRevenuePerAccount"], 1e-9)
		assert.Equal(t, 5, report.Metrics["totalBillingAccounts"])
		assert.Equal(t, "USD", report.Metrics["currency"])
	})

	t.Run("NoAccounts", func(t *testing.T) {
		fx := newAggFixture(time.Minute)
		fx.billing.items = nil

		report, err := fx.agg.BuildReport(context.Background(), KindRevenue)
		require.NoError(t, err)

		assert.InDelta(t, 0.0, report.Metrics["totalRevenue"], 1e-9)
		assert.InDelta(t, 0.0, report.Metrics["averageRevenuePerAccount"], 1e-9)
	})
}

func TestAppointmentsReport(t *testing.T) {
	t.Run("Metrics", func(t *testing.T) {
		fx := newAggFixture(time.Minute)

		report, err := fx.agg.BuildReport(context.Background(), KindAppointments)
		require.NoError(t, err)

		assert.False(t, report.Degraded)
		assert.Equal(t, 8, report.Metrics["totalAppointments"])
		assert.InDelta(t, 25.0, report.Metrics["completionRate"], 1e-9)
		assert.InDelta(t, 85.5, report.Metrics["utilizationRate"], 1e-9)
	})

	t.Run("EmptyLedger", func(t *testing.T) {
		fx := newAggFixture(time.Minute)
		fx.appointments.apptStats = upstream.AppointmentStats{}

		report, err := fx.agg.BuildReport(context.Background(), KindAppointments)
		require.NoError(t, err)

		assert.InDelta(t, 0.0, report.Metrics["completionRate"], 1e-9)
		assert.InDelta(t, 0.0, report.Metrics["utilizationRate"], 1e-9)
	})

	t.Run("StatsFallbackDegrades", func(t *testing.T) {
		fx := newAggFixture(time.Minute)
		fx.appointments.apptOK = false

		report, err := fx.agg.BuildReport(context.Background(), KindAppointments)
		require.NoError(t, err)

		assert.True(t, report.Degraded)
		assert.Equal(t, 0, report.Metrics["totalAppointments"])
	})
}

func TestHealthReport(t *testing.T) {
	classifications := []struct {
		ups      []bool
		healthy  int
		expected string
	}{
		{[]bool{true, true, true, true}, 4, "EXCELLENT"},
		{[]bool{true, true, true, false}, 3, "GOOD"},
		{[]bool{true, true, false, false}, 2, "FAIR"},
		{[]bool{true, false, false, false}, 1, "POOR"},
		{[]bool{false, false, false, false}, 0, "POOR"},
	}

	for _, tc := range classifications {
		fx := newAggFixture(time.Minute)
		fx.patients.up = tc.ups[0]
		fx.billing.up = tc.ups[1]
		fx.appointments.up = tc.ups[2]
		fx.notifications.up = tc.ups[3]

		report, err := fx.agg.BuildReport(context.Background(), KindHealth)
		require.NoError(t, err)

		assert.Equal(t, tc.expected, report.Metrics["overallHealth"], "%d healthy services", tc.healthy)
		assert.Equal(t, tc.healthy, report.Metrics["healthyServices"])
		assert.Equal(t, 4, report.Metrics["totalServices"])
		assert.False(t, report.Degraded)
	}
}

func TestHealthReportMarksEachService(t *testing.T) {
	fx := newAggFixture(time.Minute)
	fx.billing.up = false

	report, err := fx.agg.BuildReport(context.Background(), KindHealth)
	require.NoError(t, err)

	assert.Equal(t, "UP", report.Metrics["patientServiceHealth"])
	assert.Equal(t, "DOWN", report.Metrics["billingServiceHealth"])
	assert.Equal(t, "UP", report.Metrics["appointmentServiceHealth"])
	assert.Equal(t, "UP", report.Metrics["notificationServiceHealth"])
}

func TestReportCaching(t *testing.T) {
	t.Run("HitReturnsIdenticalReport", func(t *testing.T) {
		fx := newAggFixture(time.Minute)

		first, err := fx.agg.BuildReport(context.Background(), KindDashboard)
		require.NoError(t, err)

		// Change upstream data; a cache hit must not see it.
		fx.patients.items = items(99)

		second, err := fx.agg.BuildReport(context.Background(), KindDashboard)
		require.NoError(t, err)

		assert.Equal(t, first, second)
		assert.Equal(t, first.GeneratedAt, second.GeneratedAt)
	})

	t.Run("ExpiryTriggersFreshFanOut", func(t *testing.T) {
		fx := newAggFixture(30 * time.Second)

		now := time.Now()
		fx.cache.now = func() time.Time { return now }

		first, err := fx.agg.BuildReport(context.Background(), KindDashboard)
		require.NoError(t, err)
		assert.Equal(t, 10, first.Metrics["totalPatients"])

		fx.patients.items = items(99)
		now = now.Add(31 * time.Second)

		second, err := fx.agg.BuildReport(context.Background(), KindDashboard)
		require.NoError(t, err)
		assert.Equal(t, 99, second.Metrics["totalPatients"])
	})

	t.Run("HealthIsNeverCached", func(t *testing.T) {
		fx := newAggFixture(time.Minute)

		first, err := fx.agg.BuildReport(context.Background(), KindHealth)
		require.NoError(t, err)
		assert.Equal(t, "EXCELLENT", first.Metrics["overallHealth"])

		fx.billing.up = false
		fx.notifications.up = false

		second, err := fx.agg.BuildReport(context.Background(), KindHealth)
		require.NoError(t, err)
		assert.Equal(t, "FAIR", second.Metrics["overallHealth"])
	})
}

func TestUnknownKind(t *testing.T) {
	fx := newAggFixture(time.Minute)

	_, err := fx.agg.BuildReport(context.Background(), Kind("quarterly"))
	assert.ErrorIs(t, err, ErrUnknownKind)
}
