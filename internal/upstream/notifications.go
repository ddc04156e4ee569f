package upstream

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// NotificationStats is the delivery summary the notification service
// exposes at /notifications/stats.
type NotificationStats struct {
	TotalNotifications int `json:"totalNotifications"`
	SentNotifications  int `json:"sentNotifications"`
}

// NotificationDirectory is the read contract of the notification service.
type NotificationDirectory struct {
	c *Client
}

func NewNotificationDirectory(baseURL string, timeout time.Duration, log *zap.Logger) *NotificationDirectory {
	return &NotificationDirectory{
		c: NewClient(Endpoint{Name: "notification-service", BaseURL: baseURL, Timeout: timeout}, log),
	}
}

// Stats returns notification delivery counts, falling back to zeroes.
func (d *NotificationDirectory) Stats(ctx context.Context) (NotificationStats, bool) {
	var out NotificationStats
	if err := d.c.getJSON(ctx, "/notifications/stats", &out); err != nil {
		d.c.fallback("get-notification-stats", err)
		return NotificationStats{}, false
	}
	return out, true
}

func (d *NotificationDirectory) Ping(ctx context.Context) bool {
	return d.c.ping(ctx, "/notifications")
}
